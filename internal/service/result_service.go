package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/lshigami/cbt-saw/internal/dto"
	"github.com/lshigami/cbt-saw/internal/model"
	"github.com/lshigami/cbt-saw/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	// RoleSiswa may only read results of their own attempts.
	RoleSiswa = "siswa"
	RoleAdmin = "admin"
)

type ResultService interface {
	GetResult(ctx context.Context, attemptID uint, requesterUID, requesterRole string, withFeedback bool) (*dto.ExamResultDTO, error)
}

type resultService struct {
	attemptRepo repository.AttemptRepository
	answerRepo  repository.AnswerRepository
	resultRepo  repository.ResultRepository
	examRepo    repository.ExamRepository
	narrator    ResultNarrator
}

func NewResultService(
	attemptRepo repository.AttemptRepository,
	answerRepo repository.AnswerRepository,
	resultRepo repository.ResultRepository,
	examRepo repository.ExamRepository,
	narrator ResultNarrator,
) ResultService {
	return &resultService{
		attemptRepo: attemptRepo,
		answerRepo:  answerRepo,
		resultRepo:  resultRepo,
		examRepo:    examRepo,
		narrator:    narrator,
	}
}

func (s *resultService) GetResult(ctx context.Context, attemptID uint, requesterUID, requesterRole string, withFeedback bool) (*dto.ExamResultDTO, error) {
	attempt, err := s.attemptRepo.FindByID(ctx, attemptID)
	if err != nil {
		return nil, storeError(fmt.Sprintf("attempt %d", attemptID), err)
	}
	if requesterRole == RoleSiswa && attempt.UserUID != requesterUID {
		log.Warn().Uint("attemptID", attemptID).Str("requesterUID", requesterUID).Msg("GetResult: participant asked for someone else's attempt")
		return nil, newError(KindForbidden, "you may only view your own results", nil)
	}

	resp := &dto.ExamResultDTO{
		AttemptID:       attempt.ID,
		ExamID:          attempt.ExamID,
		UserUID:         attempt.UserUID,
		StartedAt:       attempt.StartedAt,
		FinishedAt:      attempt.FinishedAt,
		DurationMinutes: attempt.DurationMinutes,
		TotalCorrect:    attempt.TotalCorrect,
		TotalScore:      attempt.TotalScore,
	}

	answers, err := s.answerRepo.FindByAttempt(ctx, attemptID)
	if err != nil {
		return nil, storeError("answers", err)
	}
	if resp.Answers, err = answerDetails(answers); err != nil {
		return nil, err
	}

	if attempt.IsFinished() {
		if err := s.loadScores(ctx, attemptID, resp); err != nil {
			return nil, err
		}
	}

	if withFeedback && resp.Preference != nil && s.narrator.Enabled() {
		resp.Feedback = s.feedback(ctx, attempt, resp)
	}
	return resp, nil
}

// loadScores fills the score sections. A finished attempt without stored
// scores keeps them null.
func (s *resultService) loadScores(ctx context.Context, attemptID uint, resp *dto.ExamResultDTO) error {
	raw, err := s.resultRepo.FindRawMetrics(ctx, attemptID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return storeError("raw metrics", err)
	}
	if raw != nil {
		resp.RawMetrics = &dto.RawMetricsDTO{}
		if err := copier.Copy(resp.RawMetrics, raw); err != nil {
			return fmt.Errorf("error preparing raw metrics response: %w", err)
		}
	}

	crisp, err := s.resultRepo.FindCrispValues(ctx, attemptID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return storeError("crisp values", err)
	}
	if crisp != nil {
		resp.CrispValues = &dto.CrispValuesDTO{}
		if err := copier.Copy(resp.CrispValues, crisp); err != nil {
			return fmt.Errorf("error preparing crisp values response: %w", err)
		}
	}

	pref, err := s.resultRepo.FindPreferenceResult(ctx, attemptID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return storeError("preference result", err)
	}
	if pref != nil {
		resp.Preference = &dto.PreferenceDTO{}
		if err := copier.Copy(resp.Preference, pref); err != nil {
			return fmt.Errorf("error preparing preference response: %w", err)
		}
	}
	return nil
}

func (s *resultService) feedback(ctx context.Context, attempt *model.ExamAttempt, resp *dto.ExamResultDTO) string {
	in := NarrativeInput{
		TotalQuestions: len(resp.Answers),
		NilaiKonversi:  resp.Preference.NilaiKonversi,
		Status:         resp.Preference.Status,
	}
	if resp.RawMetrics != nil {
		in.JumlahBenar = resp.RawMetrics.JumlahBenar
		in.SkorKesulitan = resp.RawMetrics.SkorKesulitan
		in.PasanganBenar = resp.RawMetrics.PasanganBenar
		in.WaktuMenit = resp.RawMetrics.WaktuMenit
	}
	for _, a := range resp.Answers {
		if !a.IsCorrect {
			in.WrongQuestions = append(in.WrongQuestions, a.QuestionText)
		}
	}
	if exam, err := s.examRepo.FindByID(ctx, attempt.ExamID); err == nil {
		in.ExamTitle = exam.Title
	}

	text, err := s.narrator.Narrate(ctx, in)
	if err != nil {
		log.Warn().Err(err).Uint("attemptID", attempt.ID).Msg("GetResult: feedback unavailable")
		return ""
	}
	return text
}

func answerDetails(answers []model.StudentAnswer) ([]dto.AnswerDetailDTO, error) {
	out := make([]dto.AnswerDetailDTO, 0, len(answers))
	for _, a := range answers {
		var d dto.AnswerDetailDTO
		if err := copier.Copy(&d, &a); err != nil {
			return nil, fmt.Errorf("error preparing answer detail: %w", err)
		}
		d.QuestionText = a.Question.QuestionText
		d.DifficultyLevel = a.Question.DifficultyLevel
		d.PairGroup = a.Question.PairGroup
		d.Options = make([]dto.AnswerOptionDTO, 0, len(a.Question.Options))
		for _, o := range a.Question.Options {
			d.Options = append(d.Options, dto.AnswerOptionDTO{ID: o.ID, OptionText: o.OptionText, IsCorrect: o.IsCorrect})
		}
		out = append(out, d)
	}
	return out, nil
}
