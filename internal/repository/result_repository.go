package repository

import (
	"context"

	"github.com/lshigami/cbt-saw/internal/model"
	"gorm.io/gorm"
)

type ResultRepository interface {
	CreateRawMetrics(ctx context.Context, row *model.HasilCBT) error
	CreateCrispValues(ctx context.Context, row *model.NilaiSAW) error
	CreatePreferenceResult(ctx context.Context, row *model.RankingSAW) error

	FindRawMetrics(ctx context.Context, attemptID uint) (*model.HasilCBT, error)
	FindCrispValues(ctx context.Context, attemptID uint) (*model.NilaiSAW, error)
	FindPreferenceResult(ctx context.Context, attemptID uint) (*model.RankingSAW, error)

	// ListPreferenceByExam orders by score, earliest insert first among equal scores.
	ListPreferenceByExam(ctx context.Context, examID uint) ([]model.RankingSAW, error)
	CountPreferenceByAttempt(ctx context.Context, attemptID uint) (int64, error)

	WithTx(tx *gorm.DB) ResultRepository
}

type resultRepository struct {
	db *gorm.DB
}

func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) WithTx(tx *gorm.DB) ResultRepository {
	return &resultRepository{db: tx}
}

func (r *resultRepository) CreateRawMetrics(ctx context.Context, row *model.HasilCBT) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *resultRepository) CreateCrispValues(ctx context.Context, row *model.NilaiSAW) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *resultRepository) CreatePreferenceResult(ctx context.Context, row *model.RankingSAW) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *resultRepository) FindRawMetrics(ctx context.Context, attemptID uint) (*model.HasilCBT, error) {
	var row model.HasilCBT
	if err := r.db.WithContext(ctx).Where("attempt_id = ?", attemptID).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *resultRepository) FindCrispValues(ctx context.Context, attemptID uint) (*model.NilaiSAW, error) {
	var row model.NilaiSAW
	if err := r.db.WithContext(ctx).Where("attempt_id = ?", attemptID).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *resultRepository) FindPreferenceResult(ctx context.Context, attemptID uint) (*model.RankingSAW, error) {
	var row model.RankingSAW
	if err := r.db.WithContext(ctx).Where("attempt_id = ?", attemptID).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *resultRepository) ListPreferenceByExam(ctx context.Context, examID uint) ([]model.RankingSAW, error) {
	var rows []model.RankingSAW
	err := r.db.WithContext(ctx).
		Where("exam_id = ?", examID).
		Order("nilai_konversi DESC, id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *resultRepository) CountPreferenceByAttempt(ctx context.Context, attemptID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.RankingSAW{}).Where("attempt_id = ?", attemptID).Count(&n).Error
	return n, err
}
