package repository

import (
	"context"

	"github.com/lshigami/cbt-saw/internal/model"
	"gorm.io/gorm"
)

type ThresholdRepository interface {
	// FindByCriterion returns the rows of one table in evaluation order.
	FindByCriterion(ctx context.Context, criterion string) ([]model.CriterionThreshold, error)
	FindAll(ctx context.Context) ([]model.CriterionThreshold, error)
}

type thresholdRepository struct {
	db *gorm.DB
}

func NewThresholdRepository(db *gorm.DB) ThresholdRepository {
	return &thresholdRepository{db: db}
}

func (r *thresholdRepository) FindByCriterion(ctx context.Context, criterion string) ([]model.CriterionThreshold, error) {
	var rows []model.CriterionThreshold
	err := r.db.WithContext(ctx).
		Where("criterion = ?", criterion).
		Order("sort_order ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *thresholdRepository) FindAll(ctx context.Context) ([]model.CriterionThreshold, error) {
	var rows []model.CriterionThreshold
	err := r.db.WithContext(ctx).
		Order("criterion ASC, sort_order ASC, id ASC").
		Find(&rows).Error
	return rows, err
}
