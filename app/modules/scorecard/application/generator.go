package scorecardservice

import (
	"fmt"
	"io"
	"slices"
	"time"

	scoringdomain "github.com/Black-And-White-Club/peoria-stableford/app/modules/scoring/domain"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/xuri/excelize/v2"
)

// Scorecard is a generated course and the field that played it.
type Scorecard struct {
	Holes          []scoringdomain.Hole
	Roster         []scoringdomain.PlayerRound
	ReferenceHoles []int
}

// ScorecardGenerator produces realistic sample scorecards for demos and tests.
type ScorecardGenerator struct {
	faker *gofakeit.Faker
	seed  int64
}

// NewScorecardGenerator creates a generator with an optional seed. Equal seeds give equal cards.
func NewScorecardGenerator(seed ...int64) *ScorecardGenerator {
	var s int64
	if len(seed) > 0 {
		s = seed[0]
	} else {
		s = time.Now().UnixNano()
	}

	return &ScorecardGenerator{
		faker: gofakeit.New(uint64(s)),
		seed:  s,
	}
}

// Seed returns the seed the generator was created with.
func (g *ScorecardGenerator) Seed() int64 {
	return g.seed
}

// GenerateCourse creates 15 holes with pars between 3 and 5 and shuffled difficulty ranks.
func (g *ScorecardGenerator) GenerateCourse() []scoringdomain.Hole {
	pars := []int{3, 4, 4, 4, 5}
	ranks := make([]int, scoringdomain.RoundLength)
	for i := range ranks {
		ranks[i] = i + 1
	}
	g.faker.ShuffleInts(ranks)

	holes := make([]scoringdomain.Hole, scoringdomain.RoundLength)
	for i := range holes {
		holes[i] = scoringdomain.Hole{
			Number:         i + 1,
			Par:            pars[g.faker.Number(0, len(pars)-1)],
			DifficultyRank: ranks[i],
		}
	}
	return holes
}

// GenerateReferenceHoles picks ReferenceHoleCount distinct holes, sorted.
func (g *ScorecardGenerator) GenerateReferenceHoles() []int {
	holes := make([]int, scoringdomain.RoundLength)
	for i := range holes {
		holes[i] = i + 1
	}
	g.faker.ShuffleInts(holes)

	picked := slices.Clone(holes[:scoringdomain.ReferenceHoleCount])
	slices.Sort(picked)
	return picked
}

// GenerateRoster creates count players with unique names. Each player has a skill offset
// so the field spreads out; harder holes (lower rank) cost an extra stroke more often.
func (g *ScorecardGenerator) GenerateRoster(holes []scoringdomain.Hole, count int) []scoringdomain.PlayerRound {
	roster := make([]scoringdomain.PlayerRound, count)
	seen := make(map[string]int, count)

	for i := range roster {
		name := g.faker.Name()
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s %d", name, n)
		}

		skill := g.faker.Number(-1, 2)
		scores := make([]int, len(holes))
		for h, hole := range holes {
			score := hole.Par + skill + g.faker.Number(-1, 1)
			if hole.DifficultyRank <= 5 && g.faker.Bool() {
				score++
			}
			scores[h] = max(1, score)
		}

		roster[i] = scoringdomain.PlayerRound{PlayerID: name, Scores: scores}
	}
	return roster
}

// GenerateScorecard creates a full sample: course, reference holes and roster.
func (g *ScorecardGenerator) GenerateScorecard(players int) Scorecard {
	holes := g.GenerateCourse()
	return Scorecard{
		Holes:          holes,
		ReferenceHoles: g.GenerateReferenceHoles(),
		Roster:         g.GenerateRoster(holes, players),
	}
}

// WriteXLSX writes the card in the upload layout: Hole | Par | Stroke_Index | players...
func (c Scorecard) WriteXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{"Hole", "Par", "Stroke_Index"}
	for _, p := range c.Roster {
		header = append(header, p.PlayerID)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, h := range c.Holes {
		row := []interface{}{h.Number, h.Par, h.DifficultyRank}
		for _, p := range c.Roster {
			if i < len(p.Scores) {
				row = append(row, p.Scores[i])
			} else {
				row = append(row, nil)
			}
		}
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, axis, &row); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write scorecard: %w", err)
	}
	return nil
}
