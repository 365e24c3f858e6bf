package scoring

import "sort"

// Standing is one scored attempt taking part in a ranking.
type Standing struct {
	AttemptID     uint
	UserUID       string
	NilaiKonversi float64
	Status        string
}

// RankedStanding is a Standing with its competition rank.
type RankedStanding struct {
	Standing
	Rank int
}

// RankStandings sorts by score descending, keeping the input order among
// equal scores, and assigns competition ranks: tied entries share the rank of
// the first of them and the next distinct score resumes at its position
// ([90, 90, 80] ranks as [1, 1, 3]).
func RankStandings(in []Standing) []RankedStanding {
	sorted := append([]Standing(nil), in...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].NilaiKonversi > sorted[j].NilaiKonversi
	})

	out := make([]RankedStanding, len(sorted))
	for i, s := range sorted {
		rank := i + 1
		if i > 0 && s.NilaiKonversi == sorted[i-1].NilaiKonversi {
			rank = out[i-1].Rank
		}
		out[i] = RankedStanding{Standing: s, Rank: rank}
	}
	return out
}
