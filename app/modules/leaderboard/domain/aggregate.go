package leaderboarddomain

import (
	"errors"

	scoringdomain "github.com/Black-And-White-Club/peoria-stableford/app/modules/scoring/domain"
)

// ScoreEntry scores the player at roster position (0-based). A blank player label is
// replaced with the position's placeholder before scoring.
func ScoreEntry(def scoringdomain.RoundDefinition, ref scoringdomain.ReferenceHoleSet, position int, pr scoringdomain.PlayerRound) Entry {
	pr = pr.WithPlaceholderID(position + 1)

	card, err := scoringdomain.ScoreRound(def, ref, pr)
	if err != nil {
		return Entry{Position: position, PlayerID: pr.PlayerID, Err: err}
	}
	return Entry{Position: position, PlayerID: pr.PlayerID, Card: &card}
}

// Aggregate scores every player of the roster against one round definition and ranks them.
func Aggregate(
	def scoringdomain.RoundDefinition,
	ref scoringdomain.ReferenceHoleSet,
	roster []scoringdomain.PlayerRound,
	opts RankingOptions,
) (TournamentResult, error) {
	if err := ValidateRun(def, ref, len(roster)); err != nil {
		return TournamentResult{}, err
	}

	entries := make([]Entry, len(roster))
	for i, pr := range roster {
		entries[i] = ScoreEntry(def, ref, i, pr)
	}

	return Rank(entries, opts)
}

// ValidateRun checks the run-level preconditions so no partial result is ever produced
// for a broken definition, selection or empty roster.
func ValidateRun(def scoringdomain.RoundDefinition, ref scoringdomain.ReferenceHoleSet, rosterSize int) error {
	var errs []error
	if def.Len() != scoringdomain.RoundLength {
		errs = append(errs, &scoringdomain.StructuralError{Field: "holes", Reason: "round definition is not set"})
	}
	if ref.Len() != scoringdomain.ReferenceHoleCount {
		errs = append(errs, &scoringdomain.SelectionError{Holes: ref.Holes(), Reason: "reference holes are not set"})
	}
	if rosterSize == 0 {
		errs = append(errs, &scoringdomain.InputError{Field: "roster", Reason: "no players to score"})
	}
	return errors.Join(errs...)
}
