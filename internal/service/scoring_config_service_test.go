package service

import (
	"context"
	"testing"

	"github.com/lshigami/cbt-saw/internal/repository"
	"github.com/lshigami/cbt-saw/internal/testutil"
)

func TestGetScoringConfig(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedReferenceThresholds(t, db, "c1", "c2", "c3")
	svc := NewScoringConfigService(repository.NewThresholdRepository(db), newTestScorer(t))

	got, err := svc.GetScoringConfig(context.Background())
	if err != nil {
		t.Fatalf("GetScoringConfig: %v", err)
	}
	if got.W1 != 0.4 || got.W4 != 0.1 || got.MaxScale != 5 || got.HighBand != 85 {
		t.Errorf("weights = %+v", got)
	}
	if len(got.Tables) != 4 {
		t.Fatalf("tables = %d, want 4", len(got.Tables))
	}
	if got.Tables[0].Criterion != "c1" || len(got.Tables[0].Rows) != 3 || got.Tables[0].Overlapping {
		t.Errorf("c1 table = %+v", got.Tables[0])
	}
	if len(got.Incomplete) != 1 || got.Incomplete[0] != "c4" {
		t.Errorf("incomplete = %v, want [c4]", got.Incomplete)
	}
}
