package export

import (
	"bytes"
	"testing"

	leaderboarddomain "github.com/Black-And-White-Club/peoria-stableford/app/modules/leaderboard/domain"
	scoringdomain "github.com/Black-And-White-Club/peoria-stableford/app/modules/scoring/domain"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testResult(t *testing.T) leaderboarddomain.TournamentResult {
	t.Helper()

	holes := make([]scoringdomain.Hole, scoringdomain.RoundLength)
	for i := range holes {
		holes[i] = scoringdomain.Hole{Number: i + 1, Par: 4, DifficultyRank: i + 1}
	}
	def, err := scoringdomain.NewRoundDefinition(holes)
	require.NoError(t, err)
	ref, err := scoringdomain.NewReferenceHoleSet([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	require.NoError(t, err)

	scores := func(v int) []int {
		s := make([]int, scoringdomain.RoundLength)
		for i := range s {
			s[i] = v
		}
		return s
	}

	roster := []scoringdomain.PlayerRound{
		{PlayerID: "Alice", Scores: scores(5)},
		{PlayerID: "Bob", Scores: scores(4)},
		{PlayerID: "Carol", Scores: scores(4)[:14]},
		{PlayerID: "", Scores: scores(6)},
		{PlayerID: "Erin", Scores: scores(3)},
	}

	result, err := leaderboarddomain.Aggregate(def, ref, roster, leaderboarddomain.DefaultRankingOptions())
	require.NoError(t, err)
	return result
}

func openReport(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func column(rows [][]string, col int) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		if col < len(r) {
			out = append(out, r[col])
		} else {
			out = append(out, "")
		}
	}
	return out
}

func TestBytes_Sheets(t *testing.T) {
	data, err := Bytes(testResult(t), DefaultOptions())
	require.NoError(t, err)

	f := openReport(t, data)
	require.Equal(t, []string{SheetDetails, SheetSummary, SheetHoleByHole, SheetHoleAverages}, f.GetSheetList())
}

func TestBytes_Details(t *testing.T) {
	data, err := Bytes(testResult(t), DefaultOptions())
	require.NoError(t, err)

	rows, err := openReport(t, data).GetRows(SheetDetails)
	require.NoError(t, err)

	require.Equal(t, "Players & Gross Scores", rows[0][0])
	require.Equal(t, "H1", rows[0][1])
	require.Equal(t, "H15", rows[0][15])
	require.Equal(t, []string{"Alice", "Bob", "Player_4", "Erin"}, column(rows[1:5], 0))

	titles := column(rows, 0)
	require.Contains(t, titles, "Strokes Allocated")
	require.Contains(t, titles, "Net Scores")
	require.Contains(t, titles, "Stableford (Net)")

	// Alice: raw allowance 15, one stroke on every hole.
	strokes := rows[6]
	require.Equal(t, "Strokes Allocated", strokes[0])
	require.Equal(t, "Alice", rows[7][0])
	require.Equal(t, "1", rows[7][1])
}

func TestBytes_Summary(t *testing.T) {
	data, err := Bytes(testResult(t), DefaultOptions())
	require.NoError(t, err)

	rows, err := openReport(t, data).GetRows(SheetSummary)
	require.NoError(t, err)

	require.Equal(t, []string{"Player", "Gross", "Peoria_Raw", "Peoria_Int", "Net_Total", "Net_Fractional", "Stableford"}, rows[0])
	require.Equal(t, []string{"Alice", "75", "15", "15", "60", "60", "30"}, rows[1])

	titles := column(rows, 0)
	for _, want := range []string{"Best Gross (ties)", "Best Gross by Group", "Top 10 Stableford", "Top 5 Net", "Rejected Players"} {
		require.Contains(t, titles, want)
	}

	var rejected []string
	for i, r := range rows {
		if len(r) > 0 && r[0] == "Rejected Players" {
			rejected = rows[i+1]
		}
	}
	require.Equal(t, "3", rejected[0])
	require.Equal(t, "Carol", rejected[1])
}

func TestBytes_HoleByHole(t *testing.T) {
	result := testResult(t)
	data, err := Bytes(result, DefaultOptions())
	require.NoError(t, err)

	f := openReport(t, data)
	rows, err := f.GetRows(SheetHoleByHole)
	require.NoError(t, err)
	require.Equal(t, "Stroke_Index", rows[0][3])
	require.Len(t, rows, 1+len(result.Cards)*scoringdomain.RoundLength)

	avgs, err := f.GetRows(SheetHoleAverages)
	require.NoError(t, err)
	require.Equal(t, []string{"Hole", "Par", "Avg_Stableford", "Avg_Net", "Avg_Gross"}, avgs[0])
	require.Len(t, avgs, 1+scoringdomain.RoundLength)
}

func TestBytes_Charts(t *testing.T) {
	opts := DefaultOptions()
	opts.IncludeCharts = true

	data, err := Bytes(testResult(t), opts)
	require.NoError(t, err)

	f := openReport(t, data)
	require.Contains(t, f.GetSheetList(), SheetCharts)

	for _, cell := range []string{"A1", "A23", "A45", "A67"} {
		pics, err := f.GetPictures(SheetCharts, cell)
		require.NoError(t, err)
		require.Len(t, pics, 1, cell)
	}
}

func TestBytes_PlayerCharts(t *testing.T) {
	result := testResult(t)
	opts := DefaultOptions()
	opts.IncludeCharts = true

	data, err := Bytes(result, opts)
	require.NoError(t, err)
	f := openReport(t, data)

	// four scored players after the four field charts, two charts each
	require.Len(t, result.Cards, 4)
	for i, card := range result.Cards {
		row := 1 + 4*chartRowSpan + i*playerChartRowSpan
		for _, col := range []int{1, playerChartColumn} {
			cell, err := excelize.CoordinatesToCellName(col, row)
			require.NoError(t, err)
			pics, err := f.GetPictures(SheetCharts, cell)
			require.NoError(t, err)
			require.Len(t, pics, 1, "%s at %s", card.Summary.PlayerID, cell)
		}
	}
}
