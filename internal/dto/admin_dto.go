package dto

type ThresholdRowDTO struct {
	ID        uint   `json:"id"`
	SortOrder int    `json:"sort_order"`
	MinValue  int    `json:"min_value"`
	MaxValue  int    `json:"max_value"`
	Bobot     int    `json:"bobot"`
	Label     string `json:"label,omitempty"`
}

type ThresholdTableDTO struct {
	Criterion   string            `json:"criterion"`
	Overlapping bool              `json:"overlapping"`
	Rows        []ThresholdRowDTO `json:"rows"`
}

// ScoringConfigDTO is the active weighting scheme plus the reference tables.
type ScoringConfigDTO struct {
	W1         float64             `json:"w1"`
	W2         float64             `json:"w2"`
	W3         float64             `json:"w3"`
	W4         float64             `json:"w4"`
	MaxScale   float64             `json:"max_scale"`
	MinScale   float64             `json:"min_scale"`
	HighBand   float64             `json:"high_band"`
	MidBand    float64             `json:"mid_band"`
	Tables     []ThresholdTableDTO `json:"tables"`
	Incomplete []string            `json:"incomplete,omitempty"`
}
