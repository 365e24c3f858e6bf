package model

import "time"

type ExamAttempt struct {
	ID              uint       `gorm:"primarykey" json:"id"`
	ExamID          uint       `json:"exam_id" gorm:"not null;index:idx_attempt_exam_user"`
	UserUID         string     `json:"user_uid" gorm:"column:user_uid;not null;index:idx_attempt_exam_user"`
	StartedAt       *time.Time `json:"started_at"`
	FinishedAt      *time.Time `json:"finished_at"`
	DurationMinutes int        `json:"duration_minutes"`
	TotalCorrect    int        `json:"total_correct"`
	TotalScore      float64    `json:"total_score"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (ExamAttempt) TableName() string { return "exam_attempts" }

func (a ExamAttempt) IsFinished() bool { return a.FinishedAt != nil }
