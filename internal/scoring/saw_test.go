package scoring

import (
	"math"
	"testing"
	"time"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestDefaultConfigWeightsSumToOne(t *testing.T) {
	cfg := DefaultConfig()
	if !almostEqual(cfg.WeightSum(), 1) {
		t.Fatalf("weights sum to %v", cfg.WeightSum())
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"sum above one", func(c *Config) { c.W1 = 0.5 }},
		{"negative weight", func(c *Config) { c.W1, c.W4 = 0.6, -0.1 }},
		{"zero max scale", func(c *Config) { c.MaxScale = 0 }},
		{"zero min scale", func(c *Config) { c.MinScale = 0 }},
		{"bands inverted", func(c *Config) { c.MidBand = 90 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
			if _, err := NewSAWScorer(cfg); err == nil {
				t.Fatal("expected NewSAWScorer to reject config")
			}
		})
	}
}

func newDefaultScorer(t *testing.T) *SAWScorer {
	t.Helper()
	s, err := NewSAWScorer(DefaultConfig())
	if err != nil {
		t.Fatalf("NewSAWScorer: %v", err)
	}
	return s
}

func TestScoreEndToEnd(t *testing.T) {
	start := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	answers := []AnswerFact{
		{QuestionID: 1, IsCorrect: true, DifficultyLevel: 2, AutoScore: 1},
		{QuestionID: 2, IsCorrect: true, DifficultyLevel: 3, AutoScore: 1},
		{QuestionID: 3, IsCorrect: true, DifficultyLevel: 1, AutoScore: 1},
		{QuestionID: 4, IsCorrect: false, DifficultyLevel: 2},
	}
	raw, err := CollectRawMetrics(answers, start, start.Add(10*time.Minute))
	if err != nil {
		t.Fatalf("CollectRawMetrics: %v", err)
	}
	crisp := referenceConverter(t).Convert(raw)
	res := newDefaultScorer(t).Score(crisp)

	checks := []struct {
		name      string
		got, want float64
	}{
		{"norm_c1", res.Normalized.C1, 0.8},
		{"norm_c2", res.Normalized.C2, 0.6},
		{"norm_c3", res.Normalized.C3, 0},
		{"norm_c4", res.Normalized.C4, 1},
		{"nilai_preferensi", res.NilaiPreferensi, 0.6},
		{"nilai_konversi", res.NilaiKonversi, 60},
	}
	for _, c := range checks {
		if !almostEqual(c.got, c.want) {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
	if res.Status != StatusLow {
		t.Errorf("status = %q, want %q", res.Status, StatusLow)
	}
}

func TestScoreCostCriterionZero(t *testing.T) {
	res := newDefaultScorer(t).Score(CrispValues{C1: 5, C2: 5, C3: 5, C4: 0})
	if !almostEqual(res.Normalized.C4, 0) {
		t.Fatalf("norm_c4 = %v, want 0", res.Normalized.C4)
	}
	if !almostEqual(res.NilaiPreferensi, 0.9) {
		t.Fatalf("nilai_preferensi = %v, want 0.9", res.NilaiPreferensi)
	}
}

func TestScoreBoundedAndMonotonic(t *testing.T) {
	s := newDefaultScorer(t)
	upper := 0.4 + 0.3 + 0.2 + 0.1
	for c1 := 0; c1 <= 5; c1++ {
		for c2 := 0; c2 <= 5; c2++ {
			for c3 := 0; c3 <= 5; c3++ {
				for c4 := 1; c4 <= 5; c4++ {
					cv := CrispValues{C1: c1, C2: c2, C3: c3, C4: c4}
					p := s.Score(cv).NilaiPreferensi
					if p < 0 || p > upper+epsilon {
						t.Fatalf("%+v: preference %v out of range", cv, p)
					}
					if c1 < 5 {
						next := cv
						next.C1++
						if s.Score(next).NilaiPreferensi < p {
							t.Fatalf("%+v: not monotonic in c1", cv)
						}
					}
					if c4 < 5 {
						next := cv
						next.C4++
						if s.Score(next).NilaiPreferensi > p {
							t.Fatalf("%+v: not inverse-monotonic in c4", cv)
						}
					}
				}
			}
		}
	}
}

func TestBand(t *testing.T) {
	s := newDefaultScorer(t)
	tests := []struct {
		score float64
		want  string
	}{
		{100, StatusHigh},
		{85, StatusHigh},
		{84.9999, StatusMid},
		{70, StatusMid},
		{69.9999, StatusLow},
		{0, StatusLow},
	}
	for _, tt := range tests {
		if got := s.Band(tt.score); got != tt.want {
			t.Errorf("Band(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestScoreCustomWeights(t *testing.T) {
	cfg := DefaultConfig()
	cfg.W1, cfg.W2, cfg.W3, cfg.W4 = 1, 0, 0, 0
	s, err := NewSAWScorer(cfg)
	if err != nil {
		t.Fatalf("NewSAWScorer: %v", err)
	}
	res := s.Score(CrispValues{C1: 5, C2: 0, C3: 0, C4: 5})
	if !almostEqual(res.NilaiKonversi, 100) || res.Status != StatusHigh {
		t.Fatalf("got %+v", res)
	}
}
