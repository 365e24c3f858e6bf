package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestObserveFinalize(t *testing.T) {
	before := counterValue(t, finalizeTotal.WithLabelValues(OutcomeSuccess))
	ObserveFinalize(OutcomeSuccess, 15*time.Millisecond)
	if got := counterValue(t, finalizeTotal.WithLabelValues(OutcomeSuccess)); got != before+1 {
		t.Errorf("finalize counter = %v, want %v", got, before+1)
	}
}

func TestObserveRanking(t *testing.T) {
	before := counterValue(t, rankingRequests.WithLabelValues(SourceCache))
	ObserveRanking(SourceCache)
	ObserveRanking(SourceCache)
	if got := counterValue(t, rankingRequests.WithLabelValues(SourceCache)); got != before+2 {
		t.Errorf("ranking counter = %v, want %v", got, before+2)
	}
}
