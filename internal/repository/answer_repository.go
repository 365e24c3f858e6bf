package repository

import (
	"context"

	"github.com/lshigami/cbt-saw/internal/model"
	"github.com/lshigami/cbt-saw/internal/scoring"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnswerRepository interface {
	// Upsert overwrites an earlier answer to the same question of the same attempt.
	Upsert(ctx context.Context, answer *model.StudentAnswer) error
	FindScoringFacts(ctx context.Context, attemptID uint) ([]scoring.AnswerFact, error)
	FindByAttempt(ctx context.Context, attemptID uint) ([]model.StudentAnswer, error)
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) Upsert(ctx context.Context, answer *model.StudentAnswer) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "attempt_id"}, {Name: "question_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"selected_option_id", "answer_text", "is_correct", "auto_score", "answered_at", "updated_at",
			}),
		}).
		Create(answer).Error
}

type answerFactRow struct {
	QuestionID      uint
	IsCorrect       bool
	DifficultyLevel int
	PairGroup       *string
	AutoScore       float64
}

func (r *answerRepository) FindScoringFacts(ctx context.Context, attemptID uint) ([]scoring.AnswerFact, error) {
	var rows []answerFactRow
	err := r.db.WithContext(ctx).
		Table("student_answers AS sa").
		Select("sa.question_id, sa.is_correct, q.difficulty_level, q.pair_group, sa.auto_score").
		Joins("JOIN questions q ON q.id = sa.question_id").
		Where("sa.attempt_id = ?", attemptID).
		Order("sa.question_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	facts := make([]scoring.AnswerFact, len(rows))
	for i, row := range rows {
		facts[i] = scoring.AnswerFact{
			QuestionID:      row.QuestionID,
			IsCorrect:       row.IsCorrect,
			DifficultyLevel: row.DifficultyLevel,
			PairGroup:       row.PairGroup,
			AutoScore:       row.AutoScore,
		}
	}
	return facts, nil
}

func (r *answerRepository) FindByAttempt(ctx context.Context, attemptID uint) ([]model.StudentAnswer, error) {
	var answers []model.StudentAnswer
	err := r.db.WithContext(ctx).
		Preload("Question").
		Preload("Question.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_options.id ASC")
		}).
		Where("attempt_id = ?", attemptID).
		Order("question_id ASC").
		Find(&answers).Error
	return answers, err
}
