package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lshigami/cbt-saw/internal/dto"
	"github.com/lshigami/cbt-saw/internal/model"
	"github.com/lshigami/cbt-saw/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ExamSessionService covers everything a participant does before finishing.
type ExamSessionService interface {
	StartAttempt(ctx context.Context, examID uint, userUID string) (*dto.StartAttemptDTO, error)
	GetExamQuestions(ctx context.Context, examID uint) (*dto.ExamQuestionsDTO, error)
	SubmitAnswer(ctx context.Context, userUID string, req dto.SubmitAnswerRequest) (*dto.SavedAnswerDTO, error)
	GetExamStatus(ctx context.Context, examID uint, userUID string) (*dto.ExamStatusDTO, error)
}

type examSessionService struct {
	examRepo     repository.ExamRepository
	questionRepo repository.QuestionRepository
	attemptRepo  repository.AttemptRepository
	answerRepo   repository.AnswerRepository
	now          func() time.Time
}

func NewExamSessionService(
	examRepo repository.ExamRepository,
	questionRepo repository.QuestionRepository,
	attemptRepo repository.AttemptRepository,
	answerRepo repository.AnswerRepository,
) ExamSessionService {
	return &examSessionService{
		examRepo:     examRepo,
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
		answerRepo:   answerRepo,
		now:          time.Now,
	}
}

// StartAttempt resumes the participant's open attempt if there is one.
func (s *examSessionService) StartAttempt(ctx context.Context, examID uint, userUID string) (*dto.StartAttemptDTO, error) {
	exam, err := s.examRepo.FindByID(ctx, examID)
	if err != nil {
		return nil, storeError(fmt.Sprintf("exam %d", examID), err)
	}
	if !exam.IsActive {
		return nil, newError(KindInvalidState, fmt.Sprintf("exam %d is not active", examID), nil)
	}

	open, err := s.attemptRepo.FindOpen(ctx, examID, userUID)
	if err == nil {
		log.Info().Uint("attemptID", open.ID).Str("userUID", userUID).Msg("StartAttempt: resuming open attempt")
		return &dto.StartAttemptDTO{Attempt: attemptDTO(open), Resumed: true}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeError("open attempt", err)
	}

	startedAt := s.now().UTC()
	attempt := &model.ExamAttempt{
		ExamID:    examID,
		UserUID:   userUID,
		StartedAt: &startedAt,
	}
	if err := s.attemptRepo.Create(ctx, attempt); err != nil {
		log.Error().Err(err).Uint("examID", examID).Str("userUID", userUID).Msg("StartAttempt: failed to create attempt")
		return nil, storeError("create attempt", err)
	}
	log.Info().Uint("attemptID", attempt.ID).Uint("examID", examID).Str("userUID", userUID).Msg("Attempt started")
	return &dto.StartAttemptDTO{Attempt: attemptDTO(attempt)}, nil
}

func (s *examSessionService) GetExamQuestions(ctx context.Context, examID uint) (*dto.ExamQuestionsDTO, error) {
	exam, err := s.examRepo.FindByIDWithQuestions(ctx, examID)
	if err != nil {
		return nil, storeError(fmt.Sprintf("exam %d", examID), err)
	}

	resp := &dto.ExamQuestionsDTO{
		ExamID:          exam.ID,
		Title:           exam.Title,
		DurationMinutes: exam.DurationMinutes,
		Questions:       make([]dto.ExamQuestionDTO, 0, len(exam.Questions)),
	}
	for _, q := range exam.Questions {
		qd := dto.ExamQuestionDTO{
			ID:              q.ID,
			QuestionText:    q.QuestionText,
			QuestionType:    q.QuestionType,
			DifficultyLevel: q.DifficultyLevel,
			PairGroup:       q.PairGroup,
			OrderInExam:     q.OrderInExam,
			Options:         make([]dto.OptionDTO, 0, len(q.Options)),
		}
		for _, o := range q.Options {
			qd.Options = append(qd.Options, dto.OptionDTO{ID: o.ID, OptionText: o.OptionText})
		}
		resp.Questions = append(resp.Questions, qd)
	}
	return resp, nil
}

// SubmitAnswer derives correctness from the selected option and overwrites
// any earlier answer to the same question.
func (s *examSessionService) SubmitAnswer(ctx context.Context, userUID string, req dto.SubmitAnswerRequest) (*dto.SavedAnswerDTO, error) {
	attempt, err := s.attemptRepo.FindByID(ctx, req.AttemptID)
	if err != nil {
		return nil, storeError(fmt.Sprintf("attempt %d", req.AttemptID), err)
	}
	if attempt.UserUID != userUID {
		return nil, newError(KindNotFound, fmt.Sprintf("attempt %d not found for this participant", req.AttemptID), nil)
	}
	if attempt.IsFinished() {
		return nil, newError(KindInvalidState, fmt.Sprintf("attempt %d is already finished", req.AttemptID), nil)
	}

	question, err := s.questionRepo.FindByID(ctx, req.QuestionID)
	if err != nil {
		return nil, storeError(fmt.Sprintf("question %d", req.QuestionID), err)
	}
	if question.ExamID != attempt.ExamID {
		return nil, newError(KindInvalidInput, fmt.Sprintf("question %d does not belong to exam %d", question.ID, attempt.ExamID), nil)
	}

	isCorrect := false
	if req.SelectedOptionID != nil {
		option, err := s.questionRepo.FindOption(ctx, question.ID, *req.SelectedOptionID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(KindInvalidInput, fmt.Sprintf("option %d does not belong to question %d", *req.SelectedOptionID, question.ID), err)
		}
		if err != nil {
			return nil, storeError("option", err)
		}
		isCorrect = option.IsCorrect
	}

	autoScore := 0.0
	if isCorrect {
		autoScore = question.Point()
	}
	answer := &model.StudentAnswer{
		AttemptID:        attempt.ID,
		QuestionID:       question.ID,
		SelectedOptionID: req.SelectedOptionID,
		AnswerText:       req.AnswerText,
		IsCorrect:        isCorrect,
		AutoScore:        autoScore,
		AnsweredAt:       s.now().UTC(),
	}
	if err := s.answerRepo.Upsert(ctx, answer); err != nil {
		log.Error().Err(err).Uint("attemptID", attempt.ID).Uint("questionID", question.ID).Msg("SubmitAnswer: failed to save answer")
		return nil, storeError("save answer", err)
	}

	return &dto.SavedAnswerDTO{
		AttemptID:        answer.AttemptID,
		QuestionID:       answer.QuestionID,
		SelectedOptionID: answer.SelectedOptionID,
		AnswerText:       answer.AnswerText,
		AnsweredAt:       answer.AnsweredAt,
	}, nil
}

func (s *examSessionService) GetExamStatus(ctx context.Context, examID uint, userUID string) (*dto.ExamStatusDTO, error) {
	resp := &dto.ExamStatusDTO{ExamID: examID, Status: dto.ExamStatusNotStarted}

	finished, err := s.attemptRepo.FindLatestFinished(ctx, examID, userUID)
	switch {
	case err == nil:
		resp.Status = dto.ExamStatusCompleted
		resp.AttemptID = &finished.ID
		resp.StartedAt = finished.StartedAt
		resp.FinishedAt = finished.FinishedAt
		return resp, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, storeError("finished attempt", err)
	}

	open, err := s.attemptRepo.FindOpen(ctx, examID, userUID)
	switch {
	case err == nil:
		resp.Status = dto.ExamStatusInProgress
		resp.AttemptID = &open.ID
		resp.StartedAt = open.StartedAt
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, storeError("open attempt", err)
	}
	return resp, nil
}

func attemptDTO(a *model.ExamAttempt) dto.AttemptDTO {
	return dto.AttemptDTO{
		ID:         a.ID,
		ExamID:     a.ExamID,
		UserUID:    a.UserUID,
		StartedAt:  a.StartedAt,
		FinishedAt: a.FinishedAt,
	}
}
