package scoring

import (
	"fmt"
	"math"
)

// Proficiency bands of the converted score.
const (
	StatusHigh = "high"
	StatusMid  = "mid"
	StatusLow  = "low"
)

const weightSumTolerance = 1e-9

// Config carries the SAW weights, scale and band thresholds.
type Config struct {
	W1 float64 `json:"w1"` // correctness
	W2 float64 `json:"w2"` // difficulty
	W3 float64 `json:"w3"` // consistency
	W4 float64 `json:"w4"` // time

	// MaxScale divides benefit criteria; MinScale is the numerator of the cost ratio.
	MaxScale float64 `json:"max_scale"`
	MinScale float64 `json:"min_scale"`

	HighBand float64 `json:"high_band"`
	MidBand  float64 `json:"mid_band"`
}

// DefaultConfig returns the reference weighting scheme.
func DefaultConfig() Config {
	return Config{
		W1:       0.4,
		W2:       0.3,
		W3:       0.2,
		W4:       0.1,
		MaxScale: 5,
		MinScale: 1,
		HighBand: 85,
		MidBand:  70,
	}
}

// WeightSum returns W1+W2+W3+W4.
func (c Config) WeightSum() float64 {
	return c.W1 + c.W2 + c.W3 + c.W4
}

// Validate rejects weight schemes that do not sum to 1.0.
func (c Config) Validate() error {
	for i, w := range []float64{c.W1, c.W2, c.W3, c.W4} {
		if w < 0 {
			return fmt.Errorf("weight W%d is negative: %v", i+1, w)
		}
	}
	if sum := c.WeightSum(); math.Abs(sum-1) > weightSumTolerance {
		return fmt.Errorf("weights must sum to 1.0, got %v", sum)
	}
	if c.MaxScale <= 0 {
		return fmt.Errorf("max scale must be positive, got %v", c.MaxScale)
	}
	if c.MinScale <= 0 {
		return fmt.Errorf("min scale must be positive, got %v", c.MinScale)
	}
	if c.MidBand > c.HighBand {
		return fmt.Errorf("mid band %v is above high band %v", c.MidBand, c.HighBand)
	}
	return nil
}

// Normalized holds the per-criterion normalized values.
type Normalized struct {
	C1 float64 `json:"c1"`
	C2 float64 `json:"c2"`
	C3 float64 `json:"c3"`
	C4 float64 `json:"c4"`
}

// PreferenceResult is the SAW outcome for one attempt.
type PreferenceResult struct {
	Normalized      Normalized `json:"normalized"`
	NilaiPreferensi float64    `json:"nilai_preferensi"`
	NilaiKonversi   float64    `json:"nilai_konversi"`
	Status          string     `json:"status"`
}

// SAWScorer is a pure function of the crisp values and its Config.
type SAWScorer struct {
	cfg Config
}

// NewSAWScorer validates cfg and returns a scorer bound to it.
func NewSAWScorer(cfg Config) (*SAWScorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &SAWScorer{cfg: cfg}, nil
}

// Config returns the scorer's configuration.
func (s *SAWScorer) Config() Config { return s.cfg }

func (s *SAWScorer) benefit(v int) float64 {
	return float64(v) / s.cfg.MaxScale
}

func (s *SAWScorer) cost(v int) float64 {
	if v <= 0 {
		return 0
	}
	return s.cfg.MinScale / float64(v)
}

// Score normalizes and aggregates the crisp values.
func (s *SAWScorer) Score(cv CrispValues) PreferenceResult {
	n := Normalized{
		C1: s.benefit(cv.C1),
		C2: s.benefit(cv.C2),
		C3: s.benefit(cv.C3),
		C4: s.cost(cv.C4),
	}
	pref := n.C1*s.cfg.W1 + n.C2*s.cfg.W2 + n.C3*s.cfg.W3 + n.C4*s.cfg.W4
	pref = roundTo(pref, 6)
	konversi := roundTo(pref*100, 4)

	return PreferenceResult{
		Normalized:      n,
		NilaiPreferensi: pref,
		NilaiKonversi:   konversi,
		Status:          s.Band(konversi),
	}
}

// Band classifies a 0-100 score; lower bounds are inclusive.
func (s *SAWScorer) Band(konversi float64) string {
	switch {
	case konversi >= s.cfg.HighBand:
		return StatusHigh
	case konversi >= s.cfg.MidBand:
		return StatusMid
	default:
		return StatusLow
	}
}

func roundTo(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
