package dto

import "time"

// Ranking status values.
const (
	RankingStatusOK     = "ok"
	RankingStatusNoData = "no_data"
)

type RankingEntryDTO struct {
	Rank          int     `json:"rank"`
	AttemptID     uint    `json:"attempt_id"`
	UserUID       string  `json:"user_uid"`
	DisplayName   string  `json:"display_name"`
	NIS           string  `json:"nis,omitempty"`
	Kelas         string  `json:"kelas,omitempty"`
	NilaiKonversi float64 `json:"nilai_konversi"`
	Status        string  `json:"status"`
}

type RankingDTO struct {
	ExamID      uint              `json:"exam_id"`
	Status      string            `json:"status"`
	Total       int               `json:"total"`
	Entries     []RankingEntryDTO `json:"entries"`
	GeneratedAt time.Time         `json:"generated_at"`
}
