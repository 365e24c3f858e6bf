package repository

import (
	"context"
	"time"

	"github.com/lshigami/cbt-saw/internal/model"
	"gorm.io/gorm"
)

// AttemptFinish carries the columns written when an attempt is closed.
type AttemptFinish struct {
	FinishedAt      time.Time
	DurationMinutes int
	TotalCorrect    int
	TotalScore      float64
}

type AttemptRepository interface {
	Create(ctx context.Context, attempt *model.ExamAttempt) error
	FindByID(ctx context.Context, id uint) (*model.ExamAttempt, error)
	FindOpen(ctx context.Context, examID uint, userUID string) (*model.ExamAttempt, error)
	FindLatestFinished(ctx context.Context, examID uint, userUID string) (*model.ExamAttempt, error)
	// MarkFinished closes the attempt only if it is still open and reports
	// how many rows changed (0 means somebody else closed it first).
	MarkFinished(ctx context.Context, id uint, f AttemptFinish) (int64, error)
	WithTx(tx *gorm.DB) AttemptRepository
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) WithTx(tx *gorm.DB) AttemptRepository {
	return &attemptRepository{db: tx}
}

func (r *attemptRepository) Create(ctx context.Context, attempt *model.ExamAttempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

func (r *attemptRepository) FindByID(ctx context.Context, id uint) (*model.ExamAttempt, error) {
	var attempt model.ExamAttempt
	if err := r.db.WithContext(ctx).First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindOpen(ctx context.Context, examID uint, userUID string) (*model.ExamAttempt, error) {
	var attempt model.ExamAttempt
	err := r.db.WithContext(ctx).
		Where("exam_id = ? AND user_uid = ? AND finished_at IS NULL", examID, userUID).
		Order("id DESC").
		First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindLatestFinished(ctx context.Context, examID uint, userUID string) (*model.ExamAttempt, error) {
	var attempt model.ExamAttempt
	err := r.db.WithContext(ctx).
		Where("exam_id = ? AND user_uid = ? AND finished_at IS NOT NULL", examID, userUID).
		Order("finished_at DESC, id DESC").
		First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) MarkFinished(ctx context.Context, id uint, f AttemptFinish) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.ExamAttempt{}).
		Where("id = ? AND finished_at IS NULL", id).
		Updates(map[string]interface{}{
			"finished_at":      f.FinishedAt,
			"duration_minutes": f.DurationMinutes,
			"total_correct":    f.TotalCorrect,
			"total_score":      f.TotalScore,
		})
	return res.RowsAffected, res.Error
}
