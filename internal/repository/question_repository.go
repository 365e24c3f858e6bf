package repository

import (
	"context"

	"github.com/lshigami/cbt-saw/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Question, error)
	FindOption(ctx context.Context, questionID, optionID uint) (*model.QuestionOption, error)
	FindByIDs(ctx context.Context, ids []uint) ([]model.Question, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) FindByID(ctx context.Context, id uint) (*model.Question, error) {
	var question model.Question
	if err := r.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

// FindOption returns gorm.ErrRecordNotFound when the option does not belong to the question.
func (r *questionRepository) FindOption(ctx context.Context, questionID, optionID uint) (*model.QuestionOption, error) {
	var option model.QuestionOption
	err := r.db.WithContext(ctx).
		Where("id = ? AND question_id = ?", optionID, questionID).
		First(&option).Error
	if err != nil {
		return nil, err
	}
	return &option, nil
}

func (r *questionRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Question, error) {
	var questions []model.Question
	if len(ids) == 0 {
		return questions, nil
	}
	err := r.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_options.id ASC")
		}).
		Where("id IN ?", ids).
		Find(&questions).Error
	return questions, err
}
