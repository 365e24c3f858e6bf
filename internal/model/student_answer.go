package model

import "time"

type StudentAnswer struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	AttemptID        uint      `json:"attempt_id" gorm:"not null;uniqueIndex:idx_answer_attempt_question"`
	QuestionID       uint      `json:"question_id" gorm:"not null;uniqueIndex:idx_answer_attempt_question"`
	Question         Question  `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	SelectedOptionID *uint     `json:"selected_option_id,omitempty"`
	AnswerText       *string   `json:"answer_text,omitempty" gorm:"type:text"`
	IsCorrect        bool      `json:"is_correct" gorm:"not null;default:false"`
	AutoScore        float64   `json:"auto_score" gorm:"not null;default:0"`
	AnsweredAt       time.Time `json:"answered_at"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (StudentAnswer) TableName() string { return "student_answers" }
