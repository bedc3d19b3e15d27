package scoringdomain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// PlayerRound is one player's gross scores, aligned to the round definition's holes.
type PlayerRound struct {
	PlayerID string `json:"player"`
	Scores   []int  `json:"scores"`
}

// PlaceholderPlayerID names a player whose label was left blank. position is 1-based.
func PlaceholderPlayerID(position int) string {
	return fmt.Sprintf("Player_%d", position)
}

// WithPlaceholderID returns pr with a generated identifier if its own is blank.
func (pr PlayerRound) WithPlaceholderID(position int) PlayerRound {
	if strings.TrimSpace(pr.PlayerID) == "" {
		pr.PlayerID = PlaceholderPlayerID(position)
	}
	return pr
}

// HoleResult is the scoring breakdown for one hole.
type HoleResult struct {
	Hole           int `json:"hole"`
	Par            int `json:"par"`
	DifficultyRank int `json:"difficulty_rank"`
	Gross          int `json:"gross"`
	Strokes        int `json:"strokes"`
	Net            int `json:"net"`
	Points         int `json:"points"`
}

// PlayerSummary holds a player's round totals.
type PlayerSummary struct {
	PlayerID      string          `json:"player"`
	Gross         int             `json:"gross"`
	Allowance     int             `json:"allowance"`
	RawAllowance  decimal.Decimal `json:"raw_allowance"`
	Net           int             `json:"net"`
	FractionalNet decimal.Decimal `json:"fractional_net"`
	Points        int             `json:"points"`
}

// PlayerCard is a scored round with the full per-hole breakdown kept for reporting.
type PlayerCard struct {
	Summary   PlayerSummary `json:"summary"`
	Allowance Allowance     `json:"allowance"`
	Strokes   StrokeMap     `json:"strokes"`
	Holes     []HoleResult  `json:"holes"`
}

// ScoreRound scores a single player: allowance from the reference holes, strokes spread
// by difficulty, then net and Stableford points per hole.
func ScoreRound(def RoundDefinition, ref ReferenceHoleSet, pr PlayerRound) (PlayerCard, error) {
	if def.Len() != RoundLength {
		return PlayerCard{}, structuralf("holes", "expected %d holes, got %d", RoundLength, def.Len())
	}
	if err := validateScores(pr); err != nil {
		return PlayerCard{}, err
	}

	raw, err := RawAllowance(def.Pars(), pr.Scores, ref)
	if err != nil {
		return PlayerCard{}, withPlayer(err, pr.PlayerID)
	}
	allowance := NewAllowance(raw)

	strokes, err := AllocateStrokes(allowance.Applied, def.DifficultyRanks())
	if err != nil {
		return PlayerCard{}, withPlayer(err, pr.PlayerID)
	}

	holes := def.Holes()
	results := make([]HoleResult, len(holes))
	summary := PlayerSummary{
		PlayerID:     pr.PlayerID,
		Allowance:    allowance.Applied,
		RawAllowance: allowance.Raw,
	}

	for i, h := range holes {
		gross := pr.Scores[i]
		net := gross - strokes[i]
		points := StablefordPoints(h.Par, net)

		results[i] = HoleResult{
			Hole:           h.Number,
			Par:            h.Par,
			DifficultyRank: h.DifficultyRank,
			Gross:          gross,
			Strokes:        strokes[i],
			Net:            net,
			Points:         points,
		}

		summary.Gross += gross
		summary.Net += net
		summary.Points += points
	}
	summary.FractionalNet = decimal.NewFromInt(int64(summary.Gross)).Sub(allowance.Fractional())

	return PlayerCard{
		Summary:   summary,
		Allowance: allowance,
		Strokes:   strokes,
		Holes:     results,
	}, nil
}

func validateScores(pr PlayerRound) error {
	if len(pr.Scores) != RoundLength {
		return inputf(pr.PlayerID, "scores", "expected %d scores, got %d", RoundLength, len(pr.Scores))
	}
	for i, s := range pr.Scores {
		if s <= 0 {
			return inputf(pr.PlayerID, fmt.Sprintf("scores[%d]", i+1), "missing score (got %d)", s)
		}
	}
	return nil
}

// withPlayer stamps the player onto input errors raised below the scorer.
func withPlayer(err error, playerID string) error {
	var ie *InputError
	if errors.As(err, &ie) && ie.PlayerID == "" {
		return &InputError{PlayerID: playerID, Field: ie.Field, Reason: ie.Reason}
	}
	return err
}
