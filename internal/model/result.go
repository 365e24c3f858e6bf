package model

import "time"

// HasilCBT stores the raw metrics of a finished attempt.
type HasilCBT struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	AttemptID     uint      `json:"attempt_id" gorm:"not null;uniqueIndex"`
	ExamID        uint      `json:"exam_id" gorm:"not null;index"`
	UserUID       string    `json:"user_uid" gorm:"column:user_uid;not null"`
	JumlahBenar   int       `json:"jumlah_benar"`
	SkorKesulitan int       `json:"skor_kesulitan"`
	PasanganBenar int       `json:"pasangan_benar"`
	WaktuMenit    int       `json:"waktu_menit"`
	CreatedAt     time.Time `json:"created_at"`
}

func (HasilCBT) TableName() string { return "hasil_cbt" }

// NilaiSAW stores the crisp values of a finished attempt.
type NilaiSAW struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	AttemptID uint      `json:"attempt_id" gorm:"not null;uniqueIndex"`
	ExamID    uint      `json:"exam_id" gorm:"not null;index"`
	UserUID   string    `json:"user_uid" gorm:"column:user_uid;not null"`
	C1        int       `json:"c1"`
	C2        int       `json:"c2"`
	C3        int       `json:"c3"`
	C4        int       `json:"c4"`
	CreatedAt time.Time `json:"created_at"`
}

func (NilaiSAW) TableName() string { return "nilai_saw" }

// RankingSAW stores the preference result of a finished attempt.
type RankingSAW struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	AttemptID       uint      `json:"attempt_id" gorm:"not null;uniqueIndex"`
	ExamID          uint      `json:"exam_id" gorm:"not null;index"`
	UserUID         string    `json:"user_uid" gorm:"column:user_uid;not null"`
	NormC1          float64   `json:"norm_c1"`
	NormC2          float64   `json:"norm_c2"`
	NormC3          float64   `json:"norm_c3"`
	NormC4          float64   `json:"norm_c4"`
	NilaiPreferensi float64   `json:"nilai_preferensi"`
	NilaiKonversi   float64   `json:"nilai_konversi" gorm:"index"`
	Status          string    `json:"status" gorm:"not null"`
	CreatedAt       time.Time `json:"created_at"`
}

func (RankingSAW) TableName() string { return "ranking_saw" }
