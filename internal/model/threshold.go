package model

import "time"

// CriterionThreshold is one row of a criterion reference table (c1..c4).
type CriterionThreshold struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Criterion string    `json:"criterion" gorm:"not null;index:idx_threshold_criterion_order"`
	SortOrder int       `json:"sort_order" gorm:"not null;default:0;index:idx_threshold_criterion_order"`
	MinValue  int       `json:"min_value" gorm:"not null"`
	MaxValue  int       `json:"max_value" gorm:"not null"`
	Bobot     int       `json:"bobot" gorm:"not null"`
	Label     string    `json:"label,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CriterionThreshold) TableName() string { return "criterion_thresholds" }
