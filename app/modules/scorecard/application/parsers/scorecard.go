package parsers

import (
	"fmt"
	"strings"

	scoringdomain "github.com/Black-And-White-Club/peoria-stableford/app/modules/scoring/domain"
)

// Header names accepted for the three course columns. Matching ignores case, spaces,
// underscores and hyphens.
var (
	holeColumnNames = []string{"hole", "holes", "hole number", "#"}
	parColumnNames  = []string{"par", "pars"}
	rankColumnNames = []string{"stroke_index", "stroke index", "si", "index", "handicap", "hcp", "difficulty", "difficulty rank", "rank"}
)

// ParsedScorecard is a scorecard whose course layout has been validated.
// Player columns are kept raw so each player can be accepted or rejected on its own.
type ParsedScorecard struct {
	Round   scoringdomain.RoundDefinition
	Players []PlayerColumn
}

// PlayerColumn is one player's header and score cells, hole 1 first.
type PlayerColumn struct {
	Name   string
	Column int // 0-based sheet column
	Cells  []string
}

// PlayerRound converts the cells to scores. position is the 1-based roster position used
// for a placeholder name. Blank or non-numeric cells reject the player.
func (c PlayerColumn) PlayerRound(position int) (scoringdomain.PlayerRound, error) {
	pr := scoringdomain.PlayerRound{PlayerID: strings.TrimSpace(c.Name)}.WithPlaceholderID(position)

	scores := make([]int, len(c.Cells))
	for i, raw := range c.Cells {
		field := fmt.Sprintf("scores[%d]", i+1)
		raw = strings.TrimSpace(raw)
		if raw == "" || raw == "-" {
			return pr, &scoringdomain.InputError{PlayerID: pr.PlayerID, Field: field, Reason: "missing score"}
		}
		score, err := parseWholeNumber(raw)
		if err != nil {
			return pr, &scoringdomain.InputError{PlayerID: pr.PlayerID, Field: field, Reason: fmt.Sprintf("non-numeric score %q", raw)}
		}
		scores[i] = score
	}
	pr.Scores = scores
	return pr, nil
}

// Roster converts every player column, returning the rounds that parsed and the
// per-player errors keyed by 0-based roster position.
func (s *ParsedScorecard) Roster() ([]scoringdomain.PlayerRound, map[int]error) {
	rounds := make([]scoringdomain.PlayerRound, len(s.Players))
	errs := make(map[int]error)
	for i, p := range s.Players {
		pr, err := p.PlayerRound(i + 1)
		if err != nil {
			errs[i] = err
		}
		rounds[i] = pr
	}
	return rounds, errs
}

// parseRows reads the Hole | Par | Stroke_Index | players... layout: a header row
// followed by one row per hole.
func parseRows(rows [][]string) (*ParsedScorecard, error) {
	rows = trimTrailingEmptyRows(rows)
	if len(rows) == 0 {
		return nil, &scoringdomain.StructuralError{Field: "sheet", Reason: "scorecard is empty"}
	}

	header := rows[0]
	holeCol := findColumn(header, holeColumnNames)
	parCol := findColumn(header, parColumnNames)
	rankCol := findColumn(header, rankColumnNames)
	if holeCol < 0 || parCol < 0 || rankCol < 0 {
		return nil, &scoringdomain.StructuralError{
			Field:  "header",
			Reason: fmt.Sprintf("expected Hole, Par and Stroke_Index columns, got %q", header),
		}
	}

	if len(rows)-1 < scoringdomain.RoundLength {
		return nil, &scoringdomain.StructuralError{
			Field:  "holes",
			Reason: fmt.Sprintf("expected %d hole rows, got %d", scoringdomain.RoundLength, len(rows)-1),
		}
	}
	holeRows := rows[1 : scoringdomain.RoundLength+1]

	holes := make([]scoringdomain.Hole, len(holeRows))
	for i, row := range holeRows {
		line := i + 2
		number, err := parseWholeNumber(cell(row, holeCol))
		if err != nil {
			return nil, &scoringdomain.StructuralError{Field: "hole", Reason: fmt.Sprintf("line %d: %v", line, err)}
		}
		par, err := parseWholeNumber(cell(row, parCol))
		if err != nil {
			return nil, &scoringdomain.StructuralError{Field: "par", Reason: fmt.Sprintf("line %d: %v", line, err)}
		}
		rank, err := parseWholeNumber(cell(row, rankCol))
		if err != nil {
			return nil, &scoringdomain.StructuralError{Field: "difficulty_rank", Reason: fmt.Sprintf("line %d: %v", line, err)}
		}
		holes[i] = scoringdomain.Hole{Number: number, Par: par, DifficultyRank: rank}
	}

	round, err := scoringdomain.NewRoundDefinition(holes)
	if err != nil {
		return nil, err
	}

	width := len(header)
	for _, row := range holeRows {
		width = max(width, len(row))
	}

	var players []PlayerColumn
	for col := 0; col < width; col++ {
		if col == holeCol || col == parCol || col == rankCol {
			continue
		}
		cells := make([]string, len(holeRows))
		for i, row := range holeRows {
			cells[i] = cell(row, col)
		}
		if strings.TrimSpace(cell(header, col)) == "" && allBlank(cells) {
			continue
		}
		players = append(players, PlayerColumn{
			Name:   cell(header, col),
			Column: col,
			Cells:  cells,
		})
	}

	if len(players) == 0 {
		return nil, &scoringdomain.InputError{Field: "roster", Reason: "no player columns found"}
	}

	return &ParsedScorecard{Round: round, Players: players}, nil
}
