package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lshigami/cbt-saw/internal/cache"
	"github.com/lshigami/cbt-saw/internal/dto"
	"github.com/lshigami/cbt-saw/internal/event"
	"github.com/lshigami/cbt-saw/internal/metrics"
	"github.com/lshigami/cbt-saw/internal/model"
	"github.com/lshigami/cbt-saw/internal/repository"
	"github.com/lshigami/cbt-saw/internal/scoring"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AttemptFinalizerService closes an attempt and persists its SAW score.
type AttemptFinalizerService interface {
	// FinalizeAttempt is idempotent per attempt: once an attempt is closed,
	// every further call returns ErrAlreadyFinalized without recomputing.
	FinalizeAttempt(ctx context.Context, attemptID uint, userUID string, examID uint) (*dto.FinalizeResultDTO, error)
}

type attemptFinalizerService struct {
	db            *gorm.DB
	attemptRepo   repository.AttemptRepository
	answerRepo    repository.AnswerRepository
	thresholdRepo repository.ThresholdRepository
	resultRepo    repository.ResultRepository
	scorer        *scoring.SAWScorer
	rankingCache  cache.RankingCache
	publisher     event.Publisher
	now           func() time.Time
}

func NewAttemptFinalizerService(
	db *gorm.DB,
	attemptRepo repository.AttemptRepository,
	answerRepo repository.AnswerRepository,
	thresholdRepo repository.ThresholdRepository,
	resultRepo repository.ResultRepository,
	scorer *scoring.SAWScorer,
	rankingCache cache.RankingCache,
	publisher event.Publisher,
) AttemptFinalizerService {
	return &attemptFinalizerService{
		db:            db,
		attemptRepo:   attemptRepo,
		answerRepo:    answerRepo,
		thresholdRepo: thresholdRepo,
		resultRepo:    resultRepo,
		scorer:        scorer,
		rankingCache:  rankingCache,
		publisher:     publisher,
		now:           time.Now,
	}
}

// scoredAttempt is everything computed before the write transaction starts.
type scoredAttempt struct {
	attempt    *model.ExamAttempt
	finishedAt time.Time
	raw        scoring.RawMetrics
	totalScore float64
	crisp      scoring.CrispValues
	preference scoring.PreferenceResult
}

func (s *attemptFinalizerService) FinalizeAttempt(ctx context.Context, attemptID uint, userUID string, examID uint) (*dto.FinalizeResultDTO, error) {
	started := time.Now()

	result, err := s.finalize(ctx, attemptID, userUID, examID)
	switch {
	case err == nil:
		metrics.ObserveFinalize(metrics.OutcomeSuccess, time.Since(started))
	case errors.Is(err, ErrAlreadyFinalized):
		metrics.ObserveFinalize(metrics.OutcomeAlreadyFinalized, time.Since(started))
	default:
		metrics.ObserveFinalize(metrics.OutcomeError, time.Since(started))
	}
	return result, err
}

func (s *attemptFinalizerService) finalize(ctx context.Context, attemptID uint, userUID string, examID uint) (*dto.FinalizeResultDTO, error) {
	scored, err := s.score(ctx, attemptID, userUID, examID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.persist(ctx, tx, scored)
	})
	if err != nil {
		var se *Error
		if !errors.As(err, &se) {
			se = storeError("finalize attempt", err)
		}
		if se.Kind == KindAlreadyFinalized {
			log.Warn().Uint("attemptID", attemptID).Msg("FinalizeAttempt: attempt closed concurrently")
		} else {
			log.Error().Err(err).Uint("attemptID", attemptID).Msg("FinalizeAttempt: transaction rolled back")
		}
		return nil, se
	}

	log.Info().
		Uint("attemptID", attemptID).
		Uint("examID", examID).
		Str("userUID", userUID).
		Float64("nilaiKonversi", scored.preference.NilaiKonversi).
		Str("status", scored.preference.Status).
		Msg("Attempt finalized")

	s.afterCommit(ctx, scored)
	return s.toResultDTO(scored)
}

// score loads every input and computes the result without writing anything.
func (s *attemptFinalizerService) score(ctx context.Context, attemptID uint, userUID string, examID uint) (*scoredAttempt, error) {
	attempt, err := s.attemptRepo.FindByID(ctx, attemptID)
	if err != nil {
		return nil, storeError(fmt.Sprintf("attempt %d", attemptID), err)
	}
	if attempt.UserUID != userUID || attempt.ExamID != examID {
		return nil, newError(KindNotFound, fmt.Sprintf("attempt %d not found for this participant and exam", attemptID), nil)
	}
	if attempt.IsFinished() {
		return nil, newError(KindAlreadyFinalized, fmt.Sprintf("attempt %d is already finalized", attemptID), nil)
	}
	if attempt.StartedAt == nil {
		return nil, newError(KindInvalidState, fmt.Sprintf("attempt %d has no start time", attemptID), nil)
	}

	facts, err := s.answerRepo.FindScoringFacts(ctx, attemptID)
	if err != nil {
		return nil, storeError("answers", err)
	}
	converter, err := loadCrispConverter(ctx, s.thresholdRepo)
	if err != nil {
		log.Error().Err(err).Uint("attemptID", attemptID).Msg("FinalizeAttempt: threshold tables unusable")
		return nil, err
	}

	finishedAt := s.now().UTC()
	raw, err := scoring.CollectRawMetrics(facts, *attempt.StartedAt, finishedAt)
	if err != nil {
		return nil, newError(KindInvalidState, fmt.Sprintf("attempt %d cannot be scored", attemptID), err)
	}
	crisp := converter.Convert(raw)

	return &scoredAttempt{
		attempt:    attempt,
		finishedAt: finishedAt,
		raw:        raw,
		totalScore: scoring.TotalScore(facts),
		crisp:      crisp,
		preference: s.scorer.Score(crisp),
	}, nil
}

func (s *attemptFinalizerService) persist(ctx context.Context, tx *gorm.DB, sc *scoredAttempt) error {
	a := sc.attempt

	closed, err := s.attemptRepo.WithTx(tx).MarkFinished(ctx, a.ID, repository.AttemptFinish{
		FinishedAt:      sc.finishedAt,
		DurationMinutes: sc.raw.WaktuMenit,
		TotalCorrect:    sc.raw.JumlahBenar,
		TotalScore:      sc.totalScore,
	})
	if err != nil {
		return storeError("close attempt", err)
	}
	if closed == 0 {
		return newError(KindAlreadyFinalized, fmt.Sprintf("attempt %d is already finalized", a.ID), nil)
	}

	results := s.resultRepo.WithTx(tx)
	if err := results.CreateRawMetrics(ctx, &model.HasilCBT{
		AttemptID:     a.ID,
		ExamID:        a.ExamID,
		UserUID:       a.UserUID,
		JumlahBenar:   sc.raw.JumlahBenar,
		SkorKesulitan: sc.raw.SkorKesulitan,
		PasanganBenar: sc.raw.PasanganBenar,
		WaktuMenit:    sc.raw.WaktuMenit,
	}); err != nil {
		return resultWriteError("raw metrics", a.ID, err)
	}
	if err := results.CreateCrispValues(ctx, &model.NilaiSAW{
		AttemptID: a.ID,
		ExamID:    a.ExamID,
		UserUID:   a.UserUID,
		C1:        sc.crisp.C1,
		C2:        sc.crisp.C2,
		C3:        sc.crisp.C3,
		C4:        sc.crisp.C4,
	}); err != nil {
		return resultWriteError("crisp values", a.ID, err)
	}
	p := sc.preference
	if err := results.CreatePreferenceResult(ctx, &model.RankingSAW{
		AttemptID:       a.ID,
		ExamID:          a.ExamID,
		UserUID:         a.UserUID,
		NormC1:          p.Normalized.C1,
		NormC2:          p.Normalized.C2,
		NormC3:          p.Normalized.C3,
		NormC4:          p.Normalized.C4,
		NilaiPreferensi: p.NilaiPreferensi,
		NilaiKonversi:   p.NilaiKonversi,
		Status:          p.Status,
	}); err != nil {
		return resultWriteError("preference result", a.ID, err)
	}
	return nil
}

// resultWriteError treats a unique violation on attempt_id as a lost race.
func resultWriteError(what string, attemptID uint, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return newError(KindAlreadyFinalized, fmt.Sprintf("attempt %d is already finalized", attemptID), err)
	}
	return storeError("save "+what, err)
}

// afterCommit never fails the request; the committed score is the source of truth.
func (s *attemptFinalizerService) afterCommit(ctx context.Context, sc *scoredAttempt) {
	a := sc.attempt
	metrics.ObserveScoreStatus(sc.preference.Status)

	if err := s.rankingCache.Invalidate(ctx, a.ExamID); err != nil {
		log.Warn().Err(err).Uint("examID", a.ExamID).Msg("FinalizeAttempt: failed to invalidate ranking cache")
	}

	err := s.publisher.PublishAttemptFinalized(ctx, event.AttemptFinalized{
		AttemptID:       a.ID,
		ExamID:          a.ExamID,
		UserUID:         a.UserUID,
		NilaiPreferensi: sc.preference.NilaiPreferensi,
		NilaiKonversi:   sc.preference.NilaiKonversi,
		Status:          sc.preference.Status,
		FinishedAt:      sc.finishedAt,
	})
	if err != nil {
		log.Warn().Err(err).Uint("attemptID", a.ID).Msg("FinalizeAttempt: failed to publish attempt.finalized")
	}
}

func (s *attemptFinalizerService) toResultDTO(sc *scoredAttempt) (*dto.FinalizeResultDTO, error) {
	resp := &dto.FinalizeResultDTO{
		AttemptID:         sc.attempt.ID,
		ExamID:            sc.attempt.ExamID,
		UserUID:           sc.attempt.UserUID,
		StartedAt:         *sc.attempt.StartedAt,
		FinishedAt:        sc.finishedAt,
		DurationMinutes:   sc.raw.WaktuMenit,
		TotalQuestions:    sc.raw.TotalSoal,
		TotalCorrect:      sc.raw.JumlahBenar,
		TotalScore:        sc.totalScore,
		PercentageCorrect: sc.raw.PercentageCorrect(),
		Preference:        preferenceDTO(sc.preference),
	}
	if err := copier.Copy(&resp.RawMetrics, &sc.raw); err != nil {
		return nil, fmt.Errorf("error preparing raw metrics response: %w", err)
	}
	if err := copier.Copy(&resp.CrispValues, &sc.crisp); err != nil {
		return nil, fmt.Errorf("error preparing crisp values response: %w", err)
	}
	return resp, nil
}

func preferenceDTO(p scoring.PreferenceResult) dto.PreferenceDTO {
	return dto.PreferenceDTO{
		NormC1:          p.Normalized.C1,
		NormC2:          p.Normalized.C2,
		NormC3:          p.Normalized.C3,
		NormC4:          p.Normalized.C4,
		NilaiPreferensi: p.NilaiPreferensi,
		NilaiKonversi:   p.NilaiKonversi,
		Status:          p.Status,
	}
}
