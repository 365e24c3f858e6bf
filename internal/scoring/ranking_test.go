package scoring

import "testing"

func TestRankStandingsCompetition(t *testing.T) {
	in := []Standing{
		{AttemptID: 1, NilaiKonversi: 80},
		{AttemptID: 2, NilaiKonversi: 90},
		{AttemptID: 3, NilaiKonversi: 90},
	}
	got := RankStandings(in)

	wantIDs := []uint{2, 3, 1}
	wantRanks := []int{1, 1, 3}
	for i := range got {
		if got[i].AttemptID != wantIDs[i] || got[i].Rank != wantRanks[i] {
			t.Errorf("position %d = (attempt %d, rank %d), want (attempt %d, rank %d)",
				i, got[i].AttemptID, got[i].Rank, wantIDs[i], wantRanks[i])
		}
	}
	if in[0].AttemptID != 1 {
		t.Error("input slice was reordered")
	}
}

func TestRankStandings(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   []int
	}{
		{"empty", nil, []int{}},
		{"single", []float64{50}, []int{1}},
		{"all tied", []float64{70, 70, 70}, []int{1, 1, 1}},
		{"gap after tie", []float64{95, 80, 80, 80, 60, 60, 10}, []int{1, 2, 2, 2, 5, 5, 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := make([]Standing, len(tt.scores))
			for i, s := range tt.scores {
				in[i] = Standing{AttemptID: uint(i + 1), NilaiKonversi: s}
			}
			got := RankStandings(in)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].Rank != tt.want[i] {
					t.Errorf("rank[%d] = %d, want %d", i, got[i].Rank, tt.want[i])
				}
			}
		})
	}
}
