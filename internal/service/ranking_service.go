package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lshigami/cbt-saw/internal/cache"
	"github.com/lshigami/cbt-saw/internal/dto"
	"github.com/lshigami/cbt-saw/internal/metrics"
	"github.com/lshigami/cbt-saw/internal/repository"
	"github.com/lshigami/cbt-saw/internal/scoring"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const rankingComputeTimeout = 15 * time.Second

type RankingService interface {
	// GetRanking returns a best-effort snapshot. An exam nobody has finished
	// yields an empty list with status no_data.
	GetRanking(ctx context.Context, examID uint) (*dto.RankingDTO, error)
}

type rankingService struct {
	resultRepo      repository.ResultRepository
	participantRepo repository.ParticipantRepository
	rankingCache    cache.RankingCache
	group           singleflight.Group
	now             func() time.Time
}

func NewRankingService(
	resultRepo repository.ResultRepository,
	participantRepo repository.ParticipantRepository,
	rankingCache cache.RankingCache,
) RankingService {
	return &rankingService{
		resultRepo:      resultRepo,
		participantRepo: participantRepo,
		rankingCache:    rankingCache,
		now:             time.Now,
	}
}

func (s *rankingService) GetRanking(ctx context.Context, examID uint) (*dto.RankingDTO, error) {
	var cached dto.RankingDTO
	gen, found, err := s.rankingCache.Get(ctx, examID, &cached)
	cacheable := err == nil
	if err != nil {
		log.Warn().Err(err).Uint("examID", examID).Msg("GetRanking: cache read failed, computing from store")
	}
	if found {
		metrics.ObserveRanking(metrics.SourceCache)
		return &cached, nil
	}

	// Concurrent callers for the same exam generation share one computation.
	// It runs detached from any single caller so one cancelled request does
	// not fail the others.
	key := fmt.Sprintf("%d:%d", examID, gen)
	ch := s.group.DoChan(key, func() (interface{}, error) {
		computeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rankingComputeTimeout)
		defer cancel()
		ranking, err := s.compute(computeCtx, examID)
		if err != nil {
			return nil, err
		}
		if cacheable {
			if err := s.rankingCache.Set(computeCtx, examID, gen, ranking); err != nil {
				log.Warn().Err(err).Uint("examID", examID).Msg("GetRanking: failed to cache ranking snapshot")
			}
		}
		return ranking, nil
	})

	select {
	case <-ctx.Done():
		return nil, newError(KindDependencyUnavailable, "ranking computation interrupted", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		ranking := res.Val.(*dto.RankingDTO)
		if ranking.Status == dto.RankingStatusNoData {
			metrics.ObserveRanking(metrics.SourceEmpty)
		} else {
			metrics.ObserveRanking(metrics.SourceStore)
		}
		// callers sharing a computation must not share the slice
		out := *ranking
		out.Entries = append([]dto.RankingEntryDTO(nil), ranking.Entries...)
		return &out, nil
	}
}

func (s *rankingService) compute(ctx context.Context, examID uint) (*dto.RankingDTO, error) {
	rows, err := s.resultRepo.ListPreferenceByExam(ctx, examID)
	if err != nil {
		log.Error().Err(err).Uint("examID", examID).Msg("GetRanking: failed to list preference results")
		return nil, storeError(fmt.Sprintf("ranking for exam %d", examID), err)
	}

	resp := &dto.RankingDTO{
		ExamID:      examID,
		Status:      dto.RankingStatusOK,
		Entries:     []dto.RankingEntryDTO{},
		GeneratedAt: s.now().UTC(),
	}
	if len(rows) == 0 {
		resp.Status = dto.RankingStatusNoData
		return resp, nil
	}

	standings := make([]scoring.Standing, len(rows))
	uids := make([]string, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for i, row := range rows {
		standings[i] = scoring.Standing{
			AttemptID:     row.AttemptID,
			UserUID:       row.UserUID,
			NilaiKonversi: row.NilaiKonversi,
			Status:        row.Status,
		}
		if !seen[row.UserUID] {
			seen[row.UserUID] = true
			uids = append(uids, row.UserUID)
		}
	}

	profiles, err := s.participantRepo.FindByUIDs(ctx, uids)
	if err != nil {
		log.Error().Err(err).Uint("examID", examID).Int("participants", len(uids)).Msg("GetRanking: failed to load participant profiles")
		return nil, storeError("participant profiles", err)
	}

	for _, r := range scoring.RankStandings(standings) {
		entry := dto.RankingEntryDTO{
			Rank:          r.Rank,
			AttemptID:     r.AttemptID,
			UserUID:       r.UserUID,
			DisplayName:   r.UserUID,
			NilaiKonversi: r.NilaiKonversi,
			Status:        r.Status,
		}
		if p, ok := profiles[r.UserUID]; ok {
			entry.DisplayName = p.Nama
			entry.NIS = p.NIS
			entry.Kelas = p.Kelas
		}
		resp.Entries = append(resp.Entries, entry)
	}
	resp.Total = len(resp.Entries)
	return resp, nil
}
