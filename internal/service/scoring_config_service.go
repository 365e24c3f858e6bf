package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lshigami/cbt-saw/internal/dto"
	"github.com/lshigami/cbt-saw/internal/model"
	"github.com/lshigami/cbt-saw/internal/repository"
	"github.com/lshigami/cbt-saw/internal/scoring"
	"github.com/rs/zerolog/log"
)

type ScoringConfigService interface {
	GetScoringConfig(ctx context.Context) (*dto.ScoringConfigDTO, error)
}

type scoringConfigService struct {
	thresholdRepo repository.ThresholdRepository
	scorer        *scoring.SAWScorer
}

func NewScoringConfigService(thresholdRepo repository.ThresholdRepository, scorer *scoring.SAWScorer) ScoringConfigService {
	return &scoringConfigService{thresholdRepo: thresholdRepo, scorer: scorer}
}

func (s *scoringConfigService) GetScoringConfig(ctx context.Context) (*dto.ScoringConfigDTO, error) {
	rows, err := s.thresholdRepo.FindAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("GetScoringConfig: failed to load threshold rows")
		return nil, storeError("threshold tables", err)
	}

	byCriterion := make(map[scoring.Criterion][]model.CriterionThreshold)
	for _, row := range rows {
		c := scoring.Criterion(row.Criterion)
		byCriterion[c] = append(byCriterion[c], row)
	}

	cfg := s.scorer.Config()
	resp := &dto.ScoringConfigDTO{
		W1:       cfg.W1,
		W2:       cfg.W2,
		W3:       cfg.W3,
		W4:       cfg.W4,
		MaxScale: cfg.MaxScale,
		MinScale: cfg.MinScale,
		HighBand: cfg.HighBand,
		MidBand:  cfg.MidBand,
	}
	for _, c := range scoring.Criteria {
		table := dto.ThresholdTableDTO{Criterion: string(c), Rows: []dto.ThresholdRowDTO{}}
		crit := byCriterion[c]
		if len(crit) == 0 {
			resp.Incomplete = append(resp.Incomplete, string(c))
		} else if idx, err := scoring.NewThresholdTable(c, toThresholdRows(crit)); err == nil {
			table.Overlapping = idx.Overlapping()
		}
		for _, row := range crit {
			table.Rows = append(table.Rows, dto.ThresholdRowDTO{
				ID:        row.ID,
				SortOrder: row.SortOrder,
				MinValue:  row.MinValue,
				MaxValue:  row.MaxValue,
				Bobot:     row.Bobot,
				Label:     row.Label,
			})
		}
		resp.Tables = append(resp.Tables, table)
	}
	return resp, nil
}

func toThresholdRows(rows []model.CriterionThreshold) []scoring.ThresholdRow {
	out := make([]scoring.ThresholdRow, len(rows))
	for i, r := range rows {
		out[i] = scoring.ThresholdRow{MinValue: r.MinValue, MaxValue: r.MaxValue, Weight: r.Bobot}
	}
	return out
}

// loadCrispConverter reads and indexes all four criterion tables.
func loadCrispConverter(ctx context.Context, repo repository.ThresholdRepository) (*scoring.CrispConverter, error) {
	tables := make([]*scoring.ThresholdTable, 0, len(scoring.Criteria))
	for _, c := range scoring.Criteria {
		rows, err := repo.FindByCriterion(ctx, string(c))
		if err != nil {
			return nil, storeError(fmt.Sprintf("threshold table %s", c), err)
		}
		table, err := scoring.NewThresholdTable(c, toThresholdRows(rows))
		if errors.Is(err, scoring.ErrThresholdTableMissing) {
			return nil, newError(KindThresholdTableMissing, fmt.Sprintf("threshold table %s has no rows", c), err)
		}
		if err != nil {
			return nil, newError(KindInvalidState, fmt.Sprintf("threshold table %s is malformed", c), err)
		}
		tables = append(tables, table)
	}
	return scoring.NewCrispConverter(tables...)
}
