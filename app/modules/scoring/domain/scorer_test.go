package scoringdomain

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func repeat(v, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestScoreRound_BogeyGolferGetsOneStrokePerHole(t *testing.T) {
	def := mustRound(t, flatCourse())
	ref := mustReference(t, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10)

	card, err := ScoreRound(def, ref, PlayerRound{PlayerID: "alice", Scores: repeat(5, RoundLength)})
	require.NoError(t, err)

	require.Equal(t, "15", card.Allowance.Raw.String())
	require.Equal(t, 15, card.Allowance.Applied)
	require.Equal(t, StrokeMap(repeat(1, RoundLength)), card.Strokes)

	for _, h := range card.Holes {
		require.Equal(t, 4, h.Net, "hole %d", h.Hole)
		require.Equal(t, 2, h.Points, "hole %d", h.Hole)
	}

	require.Equal(t, "alice", card.Summary.PlayerID)
	require.Equal(t, 75, card.Summary.Gross)
	require.Equal(t, 15, card.Summary.Allowance)
	require.Equal(t, 60, card.Summary.Net)
	require.Equal(t, 30, card.Summary.Points)
	require.Equal(t, "60", card.Summary.FractionalNet.String())
}

func TestScoreRound_ParOnSampleMeansNoStrokes(t *testing.T) {
	def := mustRound(t, flatCourse())
	ref := mustReference(t, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10)

	scores := []int{4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 6, 7, 3, 5, 4}
	card, err := ScoreRound(def, ref, PlayerRound{PlayerID: "bob", Scores: scores})
	require.NoError(t, err)

	require.True(t, card.Allowance.Raw.IsZero())
	require.Equal(t, 0, card.Allowance.Applied)
	require.Equal(t, StrokeMap(repeat(0, RoundLength)), card.Strokes)

	for i, h := range card.Holes {
		require.Equal(t, scores[i], h.Net)
	}
	require.Equal(t, card.Summary.Gross, card.Summary.Net)
}

func TestScoreRound_HoleBreakdown(t *testing.T) {
	holes := flatCourse()
	holes[0].Par = 5
	holes[14].Par = 3
	def := mustRound(t, holes)
	ref := mustReference(t, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10)

	// +1 on holes 1 and 2 of the sample: raw 3, two strokes to ranks 1 and 2.
	scores := []int{6, 5, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 2}
	card, err := ScoreRound(def, ref, PlayerRound{PlayerID: "carol", Scores: scores})
	require.NoError(t, err)
	require.Equal(t, 3, card.Allowance.Applied)

	want := []HoleResult{
		{Hole: 1, Par: 5, DifficultyRank: 1, Gross: 6, Strokes: 1, Net: 5, Points: 2},
		{Hole: 2, Par: 4, DifficultyRank: 2, Gross: 5, Strokes: 1, Net: 4, Points: 2},
		{Hole: 3, Par: 4, DifficultyRank: 3, Gross: 4, Strokes: 1, Net: 3, Points: 3},
		{Hole: 4, Par: 4, DifficultyRank: 4, Gross: 4, Strokes: 0, Net: 4, Points: 2},
	}
	if diff := cmp.Diff(want, card.Holes[:4]); diff != "" {
		t.Fatalf("hole results mismatch (-want +got):\n%s", diff)
	}

	last := card.Holes[14]
	require.Equal(t, HoleResult{Hole: 15, Par: 3, DifficultyRank: 15, Gross: 2, Strokes: 0, Net: 2, Points: 3}, last)
}

func TestScoreRound_Errors(t *testing.T) {
	def := mustRound(t, flatCourse())
	ref := mustReference(t, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10)

	tests := []struct {
		name      string
		round     PlayerRound
		wantField string
	}{
		{
			name:      "too few scores",
			round:     PlayerRound{PlayerID: "dave", Scores: repeat(4, 14)},
			wantField: "scores",
		},
		{
			name:      "too many scores",
			round:     PlayerRound{PlayerID: "dave", Scores: repeat(4, 16)},
			wantField: "scores",
		},
		{
			name:      "missing score",
			round:     PlayerRound{PlayerID: "dave", Scores: append(repeat(4, 14), 0)},
			wantField: "scores[15]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ScoreRound(def, ref, tt.round)
			require.ErrorIs(t, err, ErrInput)

			var ie *InputError
			require.True(t, errors.As(err, &ie))
			require.Equal(t, "dave", ie.PlayerID)
			require.Equal(t, tt.wantField, ie.Field)
		})
	}

	t.Run("unset round definition", func(t *testing.T) {
		_, err := ScoreRound(RoundDefinition{}, ref, PlayerRound{Scores: repeat(4, RoundLength)})
		require.ErrorIs(t, err, ErrStructural)
	})

	t.Run("unset reference holes", func(t *testing.T) {
		_, err := ScoreRound(def, ReferenceHoleSet{}, PlayerRound{Scores: repeat(4, RoundLength)})
		require.ErrorIs(t, err, ErrSelection)
	})
}

func TestPlayerRound_WithPlaceholderID(t *testing.T) {
	require.Equal(t, "Player_3", PlayerRound{PlayerID: "  "}.WithPlaceholderID(3).PlayerID)
	require.Equal(t, "erin", PlayerRound{PlayerID: "erin"}.WithPlaceholderID(3).PlayerID)
}
