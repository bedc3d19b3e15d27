package leaderboarddomain

import scoringdomain "github.com/Black-And-White-Club/peoria-stableford/app/modules/scoring/domain"

// HoleAverage is the field's mean result on one hole.
type HoleAverage struct {
	Hole   int     `json:"hole"`
	Par    int     `json:"par"`
	Gross  float64 `json:"avg_gross"`
	Net    float64 `json:"avg_net"`
	Points float64 `json:"avg_points"`
}

// HoleAverages averages gross, net and points per hole across all cards.
func HoleAverages(cards []scoringdomain.PlayerCard) []HoleAverage {
	if len(cards) == 0 {
		return nil
	}

	holes := len(cards[0].Holes)
	avgs := make([]HoleAverage, holes)
	for i := range avgs {
		avgs[i].Hole = cards[0].Holes[i].Hole
		avgs[i].Par = cards[0].Holes[i].Par
	}

	for _, c := range cards {
		for i := 0; i < holes && i < len(c.Holes); i++ {
			avgs[i].Gross += float64(c.Holes[i].Gross)
			avgs[i].Net += float64(c.Holes[i].Net)
			avgs[i].Points += float64(c.Holes[i].Points)
		}
	}

	n := float64(len(cards))
	for i := range avgs {
		avgs[i].Gross /= n
		avgs[i].Net /= n
		avgs[i].Points /= n
	}
	return avgs
}
