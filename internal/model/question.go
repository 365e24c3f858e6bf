package model

import (
	"time"

	"gorm.io/gorm"
)

type Question struct {
	ID              uint             `gorm:"primarykey" json:"id"`
	ExamID          uint             `json:"exam_id" gorm:"not null;index"`
	QuestionText    string           `json:"question_text" gorm:"type:text;not null"`
	QuestionType    string           `json:"question_type" gorm:"not null;default:'multiple_choice'"`
	DifficultyLevel int              `json:"difficulty_level" gorm:"not null;default:1"`
	PairGroup       *string          `json:"pair_group,omitempty" gorm:"index"`
	MaxPoint        *float64         `json:"max_point,omitempty"`
	OrderInExam     int              `json:"order_in_exam"`
	Options         []QuestionOption `json:"options,omitempty" gorm:"foreignKey:QuestionID"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	DeletedAt       gorm.DeletedAt   `gorm:"index" json:"-"`
}

func (Question) TableName() string { return "questions" }

// Point is what a correct answer is worth; unset or non-positive counts as 1.
func (q Question) Point() float64 {
	if q.MaxPoint == nil || *q.MaxPoint <= 0 {
		return 1
	}
	return *q.MaxPoint
}

type QuestionOption struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	QuestionID uint      `json:"question_id" gorm:"not null;index"`
	OptionText string    `json:"option_text" gorm:"type:text;not null"`
	IsCorrect  bool      `json:"-" gorm:"not null;default:false"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (QuestionOption) TableName() string { return "question_options" }
