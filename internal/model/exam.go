package model

import (
	"time"

	"gorm.io/gorm"
)

type Exam struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	Title           string         `json:"title" gorm:"not null"`
	Description     string         `json:"description,omitempty"`
	DurationMinutes int            `json:"duration_minutes"`
	IsActive        bool           `json:"is_active" gorm:"not null;default:true"`
	Questions       []Question     `json:"questions,omitempty" gorm:"foreignKey:ExamID"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Exam) TableName() string { return "exams" }
