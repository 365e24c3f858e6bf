package dto

import "time"

type RawMetricsDTO struct {
	JumlahBenar   int `json:"jumlah_benar"`
	SkorKesulitan int `json:"skor_kesulitan"`
	PasanganBenar int `json:"pasangan_benar"`
	WaktuMenit    int `json:"waktu_menit"`
}

type CrispValuesDTO struct {
	C1 int `json:"c1"`
	C2 int `json:"c2"`
	C3 int `json:"c3"`
	C4 int `json:"c4"`
}

type PreferenceDTO struct {
	NormC1          float64 `json:"norm_c1"`
	NormC2          float64 `json:"norm_c2"`
	NormC3          float64 `json:"norm_c3"`
	NormC4          float64 `json:"norm_c4"`
	NilaiPreferensi float64 `json:"nilai_preferensi"`
	NilaiKonversi   float64 `json:"nilai_konversi"`
	Status          string  `json:"status"`
}

// FinalizeResultDTO is returned once an attempt has been scored.
type FinalizeResultDTO struct {
	AttemptID         uint           `json:"attempt_id"`
	ExamID            uint           `json:"exam_id"`
	UserUID           string         `json:"user_uid"`
	StartedAt         time.Time      `json:"started_at"`
	FinishedAt        time.Time      `json:"finished_at"`
	DurationMinutes   int            `json:"duration_minutes"`
	TotalQuestions    int            `json:"total_questions"`
	TotalCorrect      int            `json:"total_correct"`
	TotalScore        float64        `json:"total_score"`
	PercentageCorrect float64        `json:"percentage_correct"`
	RawMetrics        RawMetricsDTO  `json:"raw_metrics"`
	CrispValues       CrispValuesDTO `json:"crisp_values"`
	Preference        PreferenceDTO  `json:"preference"`
}

type AnswerOptionDTO struct {
	ID         uint   `json:"id"`
	OptionText string `json:"option_text"`
	IsCorrect  bool   `json:"is_correct"`
}

type AnswerDetailDTO struct {
	QuestionID       uint              `json:"question_id"`
	QuestionText     string            `json:"question_text"`
	DifficultyLevel  int               `json:"difficulty_level"`
	PairGroup        *string           `json:"pair_group,omitempty"`
	SelectedOptionID *uint             `json:"selected_option_id,omitempty"`
	AnswerText       *string           `json:"answer_text,omitempty"`
	IsCorrect        bool              `json:"is_correct"`
	AutoScore        float64           `json:"auto_score"`
	AnsweredAt       time.Time         `json:"answered_at"`
	Options          []AnswerOptionDTO `json:"options"`
}

// ExamResultDTO is the composite result of one attempt. Score sections stay
// null until the attempt is finalized.
type ExamResultDTO struct {
	AttemptID       uint              `json:"attempt_id"`
	ExamID          uint              `json:"exam_id"`
	UserUID         string            `json:"user_uid"`
	StartedAt       *time.Time        `json:"started_at"`
	FinishedAt      *time.Time        `json:"finished_at"`
	DurationMinutes int               `json:"duration_minutes"`
	TotalCorrect    int               `json:"total_correct"`
	TotalScore      float64           `json:"total_score"`
	RawMetrics      *RawMetricsDTO    `json:"raw_metrics"`
	CrispValues     *CrispValuesDTO   `json:"crisp_values"`
	Preference      *PreferenceDTO    `json:"preference"`
	Answers         []AnswerDetailDTO `json:"answers"`
	Feedback        string            `json:"feedback,omitempty"`
}
