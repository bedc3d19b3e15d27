package parsers

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"testing"

	scoringdomain "github.com/Black-And-White-Club/peoria-stableford/app/modules/scoring/domain"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// cardRows builds a 15 hole scorecard: par 4 everywhere, ranks 1..15 in hole order,
// and one column per player where every hole gets the given score string.
func cardRows(header []string, players ...string) [][]string {
	rows := [][]string{append([]string{"Hole", "Par", "Stroke_Index"}, header...)}
	for h := 1; h <= scoringdomain.RoundLength; h++ {
		row := []string{strconv.Itoa(h), "4", strconv.Itoa(h)}
		row = append(row, players...)
		rows = append(rows, row)
	}
	return rows
}

func toCSV(rows [][]string, sep string) []byte {
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(strings.Join(row, sep))
		b.WriteString("\r\n")
	}
	return []byte(b.String())
}

func TestFactory_GetParser(t *testing.T) {
	factory := NewFactory()
	tests := []struct {
		name     string
		filename string
		want     string
		wantErr  bool
	}{
		{name: "csv file", filename: "scores.csv", want: "csv"},
		{name: "xlsx file", filename: "score_card_new.xlsx", want: "xlsx"},
		{name: "upper case extension", filename: "SCORES.XLSX", want: "xlsx"},
		{name: "xls file", filename: "scores.xls", want: "xlsx"},
		{name: "unsupported file", filename: "scores.txt", wantErr: true},
		{name: "pdf file", filename: "scores.pdf", wantErr: true},
		{name: "no extension", filename: "scores", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser, err := factory.GetParser(tt.filename)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			switch tt.want {
			case "csv":
				_, ok := parser.(*CSVParser)
				require.True(t, ok)
			case "xlsx":
				_, ok := parser.(*XLSXParser)
				require.True(t, ok)
			default:
				t.Fatalf("unexpected parser type %q", tt.want)
			}
		})
	}
}

func TestXLSXParser_Parse(t *testing.T) {
	parser := NewXLSXParser()
	tests := []struct {
		name        string
		rows        [][]string
		wantErr     error
		wantPlayers []string
	}{
		{
			name:        "two players",
			rows:        cardRows([]string{"Alice", "Bob"}, "5", "4"),
			wantPlayers: []string{"Alice", "Bob"},
		},
		{
			name:        "blank header gets a placeholder later",
			rows:        cardRows([]string{"Alice", ""}, "5", "4"),
			wantPlayers: []string{"Alice", ""},
		},
		{
			name:    "missing stroke index column",
			rows:    [][]string{{"Hole", "Par", "Alice"}, {"1", "4", "4"}},
			wantErr: scoringdomain.ErrStructural,
		},
		{
			name:    "fourteen holes",
			rows:    cardRows([]string{"Alice"}, "4")[:15],
			wantErr: scoringdomain.ErrStructural,
		},
		{
			name: "duplicate stroke index",
			rows: func() [][]string {
				rows := cardRows([]string{"Alice"}, "4")
				rows[2][2] = "1"
				return rows
			}(),
			wantErr: scoringdomain.ErrStructural,
		},
		{
			name: "non-numeric par",
			rows: func() [][]string {
				rows := cardRows([]string{"Alice"}, "4")
				rows[5][1] = "four"
				return rows
			}(),
			wantErr: scoringdomain.ErrStructural,
		},
		{
			name:    "no players",
			rows:    cardRows(nil),
			wantErr: scoringdomain.ErrInput,
		},
		{
			name:    "empty sheet",
			rows:    [][]string{},
			wantErr: scoringdomain.ErrStructural,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parser.Parse(buildXLSX(t, tt.rows))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, scoringdomain.RoundLength, result.Round.Len())

			names := make([]string, len(result.Players))
			for i, p := range result.Players {
				names[i] = p.Name
				require.Len(t, p.Cells, scoringdomain.RoundLength)
			}
			require.Equal(t, tt.wantPlayers, names)
		})
	}
}

func TestXLSXParser_NotAWorkbook(t *testing.T) {
	_, err := NewXLSXParser().Parse([]byte("Hole,Par,Stroke_Index\n"))
	require.ErrorIs(t, err, ErrUnreadable)
	require.Contains(t, err.Error(), "Hint")
}

func TestCSVParser_Parse(t *testing.T) {
	parser := NewCSVParser()

	t.Run("comma separated with BOM", func(t *testing.T) {
		data := append([]byte{0xEF, 0xBB, 0xBF}, toCSV(cardRows([]string{"Alice", "Bob"}, "5", "4"), ",")...)
		result, err := parser.Parse(data)
		require.NoError(t, err)
		require.Len(t, result.Players, 2)
		require.Equal(t, []int{4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4}, result.Round.Pars())
	})

	t.Run("semicolon separated", func(t *testing.T) {
		result, err := parser.Parse(toCSV(cardRows([]string{"Alice"}, "5"), ";"))
		require.NoError(t, err)
		require.Equal(t, "Alice", result.Players[0].Name)
	})

	t.Run("tab separated with alternate headers", func(t *testing.T) {
		rows := cardRows([]string{"Alice"}, "5")
		rows[0][0], rows[0][2] = "hole number", "SI"
		result, err := parser.Parse(toCSV(rows, "\t"))
		require.NoError(t, err)
		require.Len(t, result.Players, 1)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := parser.Parse(nil)
		require.ErrorIs(t, err, ErrUnreadable)
	})
}

func TestParsedScorecard_Roster(t *testing.T) {
	rows := cardRows([]string{"Alice", "", "Carol", "Dave"}, "5", "4", "x", "3")
	rows[7][6] = ""

	result, err := NewCSVParser().Parse(toCSV(rows, ","))
	require.NoError(t, err)

	roster, errs := result.Roster()
	require.Len(t, roster, 4)

	require.Equal(t, "Alice", roster[0].PlayerID)
	require.Len(t, roster[0].Scores, scoringdomain.RoundLength)
	require.Equal(t, "Player_2", roster[1].PlayerID)

	require.Len(t, errs, 2)

	var ie *scoringdomain.InputError
	require.True(t, errors.As(errs[2], &ie))
	require.Equal(t, "Carol", ie.PlayerID)
	require.Equal(t, "scores[1]", ie.Field)

	require.True(t, errors.As(errs[3], &ie))
	require.Equal(t, "Dave", ie.PlayerID)
	require.Equal(t, "scores[7]", ie.Field)
	require.Equal(t, "missing score", ie.Reason)
}

func TestParseWholeNumber(t *testing.T) {
	for in, want := range map[string]int{"4": 4, " 12 ": 12, "5.0": 5} {
		got, err := parseWholeNumber(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	for _, in := range []string{"", "4.5", "four"} {
		_, err := parseWholeNumber(in)
		require.Error(t, err, in)
	}
}

func buildXLSX(t *testing.T, rows [][]string) []byte {
	f := excelize.NewFile()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	for idx, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, idx+1)
		require.NoError(t, err)
		cells := make([]interface{}, len(row))
		for i, val := range row {
			cells[i] = val
		}
		require.NoError(t, f.SetSheetRow(sheet, axis, &cells))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())
	return buf.Bytes()
}

func TestParseHoleList(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{in: "1,2,3,4,5,6,7,8,9,10", want: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}},
		{in: " 1, 3 ,5 ", want: []int{1, 3, 5}},
		{in: "2 4\t6;8", want: []int{2, 4, 6, 8}},
		{in: "", want: []int{}},
		{in: "1,two,3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHoleList(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, scoringdomain.ErrSelection)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
