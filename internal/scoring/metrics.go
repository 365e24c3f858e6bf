// Package scoring holds the pure parts of the CBT scoring engine: raw metric
// collection, crisp conversion against threshold tables, SAW aggregation and
// competition ranking. Nothing in here touches the database.
package scoring

import (
	"errors"
	"math"
	"time"
)

// ErrMissingStartTime is returned when an attempt has no recorded start.
var ErrMissingStartTime = errors.New("attempt has no start time")

// AnswerFact is one answer joined with the question fields the engine needs.
type AnswerFact struct {
	QuestionID      uint
	IsCorrect       bool
	DifficultyLevel int
	PairGroup       *string
	AutoScore       float64
}

// pairKey treats an empty group the same as no group.
func (a AnswerFact) pairKey() (string, bool) {
	if a.PairGroup == nil || *a.PairGroup == "" {
		return "", false
	}
	return *a.PairGroup, true
}

// RawMetrics are the four raw criterion values of a finished attempt.
type RawMetrics struct {
	JumlahBenar   int `json:"jumlah_benar"`
	SkorKesulitan int `json:"skor_kesulitan"`
	PasanganBenar int `json:"pasangan_benar"`
	WaktuMenit    int `json:"waktu_menit"`
	TotalSoal     int `json:"total_soal"`
}

// PercentageCorrect returns 0 for an attempt without answers.
func (m RawMetrics) PercentageCorrect() float64 {
	if m.TotalSoal == 0 {
		return 0
	}
	return float64(m.JumlahBenar) / float64(m.TotalSoal) * 100
}

// CollectRawMetrics aggregates the answers of one attempt.
func CollectRawMetrics(answers []AnswerFact, startedAt, finishedAt time.Time) (RawMetrics, error) {
	if startedAt.IsZero() {
		return RawMetrics{}, ErrMissingStartTime
	}

	m := RawMetrics{
		TotalSoal:  len(answers),
		WaktuMenit: ElapsedMinutes(startedAt, finishedAt),
	}
	for _, a := range answers {
		if !a.IsCorrect {
			continue
		}
		m.JumlahBenar++
		m.SkorKesulitan += a.DifficultyLevel
	}
	for _, allCorrect := range pairGroupOutcome(answers) {
		if allCorrect {
			m.PasanganBenar++
		}
	}
	return m, nil
}

// ElapsedMinutes rounds half up and never goes below zero.
func ElapsedMinutes(startedAt, finishedAt time.Time) int {
	d := finishedAt.Sub(startedAt)
	if d <= 0 {
		return 0
	}
	return int(math.Floor(d.Minutes() + 0.5))
}

// TotalScore sums autoScore per answer, except that a pair group whose
// members are all correct is worth exactly one point as a whole.
func TotalScore(answers []AnswerFact) float64 {
	outcome := pairGroupOutcome(answers)
	collapsed := make(map[string]bool, len(outcome))

	total := 0.0
	for _, a := range answers {
		group, grouped := a.pairKey()
		if !grouped {
			total += a.AutoScore
			continue
		}
		if !outcome[group] {
			total += a.AutoScore
			continue
		}
		if !collapsed[group] {
			collapsed[group] = true
			total++
		}
	}
	return total
}

// pairGroupOutcome maps each non-null pair group to whether every member is correct.
func pairGroupOutcome(answers []AnswerFact) map[string]bool {
	groups := make(map[string]bool)
	for _, a := range answers {
		g, grouped := a.pairKey()
		if !grouped {
			continue
		}
		prev, seen := groups[g]
		if !seen {
			groups[g] = a.IsCorrect
			continue
		}
		groups[g] = prev && a.IsCorrect
	}
	return groups
}
