package scoring

import (
	"errors"
	"fmt"
	"sort"
)

// Criterion identifies one of the four SAW criteria.
type Criterion string

const (
	C1Ketepatan   Criterion = "c1" // correctness, benefit
	C2Kesulitan   Criterion = "c2" // difficulty, benefit
	C3Konsistensi Criterion = "c3" // consistency, benefit
	C4Waktu       Criterion = "c4" // time, cost
)

// Criteria lists the criteria in their fixed evaluation order.
var Criteria = []Criterion{C1Ketepatan, C2Kesulitan, C3Konsistensi, C4Waktu}

// ErrThresholdTableMissing is returned when a criterion table has no rows.
var ErrThresholdTableMissing = errors.New("threshold table missing")

// DefaultCrisp is applied when no row of an existing table matches a raw
// value: the worst posture for the criterion.
func DefaultCrisp(c Criterion) int {
	if c == C3Konsistensi {
		return 0
	}
	return 1
}

// ThresholdRow maps the closed range [MinValue, MaxValue] to a crisp weight.
type ThresholdRow struct {
	MinValue int `json:"min_value"`
	MaxValue int `json:"max_value"`
	Weight   int `json:"weight"`
}

func (r ThresholdRow) contains(v int) bool {
	return r.MinValue <= v && v <= r.MaxValue
}

// ThresholdTable is an interval-indexed criterion table. When rows overlap,
// the first row in the original order that contains the value wins.
type ThresholdTable struct {
	criterion   Criterion
	rows        []ThresholdRow // original order
	sorted      []ThresholdRow // by MinValue, used when no rows overlap
	overlapping bool
}

// NewThresholdTable indexes rows for lookup. An empty row set is rejected.
func NewThresholdTable(c Criterion, rows []ThresholdRow) (*ThresholdTable, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("criterion %s: %w", c, ErrThresholdTableMissing)
	}
	for i, r := range rows {
		if r.MinValue > r.MaxValue {
			return nil, fmt.Errorf("criterion %s: row %d has min %d greater than max %d", c, i, r.MinValue, r.MaxValue)
		}
	}

	t := &ThresholdTable{
		criterion: c,
		rows:      append([]ThresholdRow(nil), rows...),
		sorted:    append([]ThresholdRow(nil), rows...),
	}
	sort.SliceStable(t.sorted, func(i, j int) bool {
		return t.sorted[i].MinValue < t.sorted[j].MinValue
	})
	for i := 1; i < len(t.sorted); i++ {
		if t.sorted[i].MinValue <= t.sorted[i-1].MaxValue {
			t.overlapping = true
			break
		}
	}
	return t, nil
}

// Criterion returns the criterion this table belongs to.
func (t *ThresholdTable) Criterion() Criterion { return t.criterion }

// Rows returns a copy of the rows in their original order.
func (t *ThresholdTable) Rows() []ThresholdRow {
	return append([]ThresholdRow(nil), t.rows...)
}

// Overlapping reports whether at least two rows share a value.
func (t *ThresholdTable) Overlapping() bool { return t.overlapping }

// Lookup returns the weight of the matching row, or false when none matches.
func (t *ThresholdTable) Lookup(v int) (int, bool) {
	if t.overlapping {
		for _, r := range t.rows {
			if r.contains(v) {
				return r.Weight, true
			}
		}
		return 0, false
	}

	// last row whose MinValue <= v
	i := sort.Search(len(t.sorted), func(i int) bool { return t.sorted[i].MinValue > v }) - 1
	if i < 0 || !t.sorted[i].contains(v) {
		return 0, false
	}
	return t.sorted[i].Weight, true
}

// Convert applies the no-match default for the table's criterion.
func (t *ThresholdTable) Convert(v int) int {
	if w, ok := t.Lookup(v); ok {
		return w
	}
	return DefaultCrisp(t.criterion)
}

// CrispValues are the discretized criterion values of an attempt.
type CrispValues struct {
	C1 int `json:"c1"`
	C2 int `json:"c2"`
	C3 int `json:"c3"`
	C4 int `json:"c4"`
}

// CrispConverter converts raw metrics using one table per criterion.
type CrispConverter struct {
	tables map[Criterion]*ThresholdTable
}

// NewCrispConverter requires a table for every criterion.
func NewCrispConverter(tables ...*ThresholdTable) (*CrispConverter, error) {
	byCriterion := make(map[Criterion]*ThresholdTable, len(tables))
	for _, t := range tables {
		if t != nil {
			byCriterion[t.criterion] = t
		}
	}
	for _, c := range Criteria {
		if _, ok := byCriterion[c]; !ok {
			return nil, fmt.Errorf("criterion %s: %w", c, ErrThresholdTableMissing)
		}
	}
	return &CrispConverter{tables: byCriterion}, nil
}

// Convert maps each raw metric to its crisp value.
func (c *CrispConverter) Convert(m RawMetrics) CrispValues {
	return CrispValues{
		C1: c.tables[C1Ketepatan].Convert(m.JumlahBenar),
		C2: c.tables[C2Kesulitan].Convert(m.SkorKesulitan),
		C3: c.tables[C3Konsistensi].Convert(m.PasanganBenar),
		C4: c.tables[C4Waktu].Convert(m.WaktuMenit),
	}
}
