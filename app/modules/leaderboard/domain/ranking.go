package leaderboarddomain

import (
	"cmp"
	"errors"
	"slices"

	scoringdomain "github.com/Black-And-White-Club/peoria-stableford/app/modules/scoring/domain"
)

const (
	DefaultGroupSize   = 4
	DefaultTopByPoints = 10
	DefaultTopByNet    = 5
)

// RankingOptions controls grouping and leaderboard lengths. Zero values take the defaults.
type RankingOptions struct {
	GroupSize   int `yaml:"group_size"`
	TopByPoints int `yaml:"top_by_points"`
	TopByNet    int `yaml:"top_by_net"`
}

// DefaultRankingOptions returns groups of 4, a top 10 by points and a top 5 by net.
func DefaultRankingOptions() RankingOptions {
	return RankingOptions{
		GroupSize:   DefaultGroupSize,
		TopByPoints: DefaultTopByPoints,
		TopByNet:    DefaultTopByNet,
	}
}

func (o RankingOptions) withDefaults() RankingOptions {
	if o.GroupSize <= 0 {
		o.GroupSize = DefaultGroupSize
	}
	if o.TopByPoints <= 0 {
		o.TopByPoints = DefaultTopByPoints
	}
	if o.TopByNet <= 0 {
		o.TopByNet = DefaultTopByNet
	}
	return o
}

// Entry is one roster slot after scoring. Exactly one of Card and Err is set.
type Entry struct {
	Position int // 0-based roster index
	PlayerID string
	Card     *scoringdomain.PlayerCard
	Err      error
}

// RejectedPlayer is a roster slot that could not be scored.
type RejectedPlayer struct {
	Position int    `json:"position"`
	PlayerID string `json:"player"`
	Reason   string `json:"reason"`
	Err      error  `json:"-"`
}

// Group is a consecutive block of roster positions and its best gross players.
type Group struct {
	Number  int                           `json:"group"`
	Players []string                      `json:"players"`
	Best    []scoringdomain.PlayerSummary `json:"best_gross"`
}

// TournamentResult is everything derived from one scoring run.
type TournamentResult struct {
	Cards        []scoringdomain.PlayerCard    `json:"cards"`
	Summaries    []scoringdomain.PlayerSummary `json:"summaries"`
	Rejected     []RejectedPlayer              `json:"rejected,omitempty"`
	BestGross    []scoringdomain.PlayerSummary `json:"best_gross"`
	Groups       []Group                       `json:"groups"`
	TopByPoints  []scoringdomain.PlayerSummary `json:"top_by_points"`
	TopByNet     []scoringdomain.PlayerSummary `json:"top_by_net"`
	HoleAverages []HoleAverage                 `json:"hole_averages"`
}

// Rank builds a TournamentResult from scored entries.
//
// Entries are ordered by Position before ranking. Entries rejected with an input error are
// reported and left out of every ranking; any other error is fatal. Groups are cut from
// roster positions, so a rejected player still occupies a seat in their group.
func Rank(entries []Entry, opts RankingOptions) (TournamentResult, error) {
	opts = opts.withDefaults()

	if len(entries) == 0 {
		return TournamentResult{}, &scoringdomain.InputError{Field: "roster", Reason: "no players to score"}
	}

	ordered := slices.Clone(entries)
	slices.SortStableFunc(ordered, func(a, b Entry) int {
		return cmp.Compare(a.Position, b.Position)
	})

	var (
		result  TournamentResult
		rejects []error
	)
	for _, e := range ordered {
		switch {
		case e.Err != nil:
			if !errors.Is(e.Err, scoringdomain.ErrInput) {
				return TournamentResult{}, e.Err
			}
			result.Rejected = append(result.Rejected, RejectedPlayer{
				Position: e.Position,
				PlayerID: e.PlayerID,
				Reason:   e.Err.Error(),
				Err:      e.Err,
			})
			rejects = append(rejects, e.Err)
		case e.Card != nil:
			result.Cards = append(result.Cards, *e.Card)
			result.Summaries = append(result.Summaries, e.Card.Summary)
		}
	}

	if len(result.Summaries) == 0 {
		noPlayers := &scoringdomain.InputError{Field: "roster", Reason: "no player could be scored"}
		return TournamentResult{}, errors.Join(append([]error{noPlayers}, rejects...)...)
	}

	result.BestGross = BestGross(result.Summaries)
	result.Groups = groupBestGross(ordered, opts.GroupSize)
	result.TopByPoints = TopByPoints(result.Summaries, opts.TopByPoints)
	result.TopByNet = TopByNet(result.Summaries, opts.TopByNet)
	result.HoleAverages = HoleAverages(result.Cards)

	return result, nil
}

// BestGross returns every player on the lowest gross total, in input order.
func BestGross(summaries []scoringdomain.PlayerSummary) []scoringdomain.PlayerSummary {
	if len(summaries) == 0 {
		return nil
	}

	low := slices.MinFunc(summaries, func(a, b scoringdomain.PlayerSummary) int {
		return cmp.Compare(a.Gross, b.Gross)
	}).Gross

	var best []scoringdomain.PlayerSummary
	for _, s := range summaries {
		if s.Gross == low {
			best = append(best, s)
		}
	}
	return best
}

// TopByPoints sorts by points, highest first, keeping input order between equal totals.
func TopByPoints(summaries []scoringdomain.PlayerSummary, n int) []scoringdomain.PlayerSummary {
	return topN(summaries, n, func(a, b scoringdomain.PlayerSummary) int {
		return cmp.Compare(b.Points, a.Points)
	})
}

// TopByNet sorts by net total, lowest first, keeping input order between equal totals.
func TopByNet(summaries []scoringdomain.PlayerSummary, n int) []scoringdomain.PlayerSummary {
	return topN(summaries, n, func(a, b scoringdomain.PlayerSummary) int {
		return cmp.Compare(a.Net, b.Net)
	})
}

func topN(summaries []scoringdomain.PlayerSummary, n int, order func(a, b scoringdomain.PlayerSummary) int) []scoringdomain.PlayerSummary {
	sorted := slices.Clone(summaries)
	slices.SortStableFunc(sorted, order)
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func groupBestGross(ordered []Entry, size int) []Group {
	var groups []Group
	for start := 0; start < len(ordered); start += size {
		chunk := ordered[start:min(start+size, len(ordered))]

		var members []scoringdomain.PlayerSummary
		for _, e := range chunk {
			if e.Card != nil {
				members = append(members, e.Card.Summary)
			}
		}
		if len(members) == 0 {
			continue
		}

		players := make([]string, len(members))
		for i, m := range members {
			players[i] = m.PlayerID
		}

		groups = append(groups, Group{
			Number:  start/size + 1,
			Players: players,
			Best:    BestGross(members),
		})
	}
	return groups
}
