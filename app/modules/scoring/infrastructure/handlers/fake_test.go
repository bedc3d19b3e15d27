package scoringhandlers

import (
	"context"

	leaderboarddomain "github.com/Black-And-White-Club/peoria-stableford/app/modules/leaderboard/domain"
	scoringservice "github.com/Black-And-White-Club/peoria-stableford/app/modules/scoring/application"
	scoringdomain "github.com/Black-And-White-Club/peoria-stableford/app/modules/scoring/domain"
)

// ------------------------
// Fake Service
// ------------------------

type FakeService struct {
	ScoreTournamentFunc func(ctx context.Context, def scoringdomain.RoundDefinition, ref scoringdomain.ReferenceHoleSet, roster []scoringdomain.PlayerRound) (leaderboarddomain.TournamentResult, error)
	ScoreScorecardFunc  func(ctx context.Context, filename string, data []byte, holes []int) (leaderboarddomain.TournamentResult, error)
	ReportFunc          func(ctx context.Context, result leaderboarddomain.TournamentResult, includeCharts bool) ([]byte, error)
}

var _ scoringservice.Service = (*FakeService)(nil)

func (f *FakeService) ScoreTournament(ctx context.Context, def scoringdomain.RoundDefinition, ref scoringdomain.ReferenceHoleSet, roster []scoringdomain.PlayerRound) (leaderboarddomain.TournamentResult, error) {
	if f.ScoreTournamentFunc != nil {
		return f.ScoreTournamentFunc(ctx, def, ref, roster)
	}
	return leaderboarddomain.TournamentResult{}, nil
}

func (f *FakeService) ScoreScorecard(ctx context.Context, filename string, data []byte, holes []int) (leaderboarddomain.TournamentResult, error) {
	if f.ScoreScorecardFunc != nil {
		return f.ScoreScorecardFunc(ctx, filename, data, holes)
	}
	return leaderboarddomain.TournamentResult{}, nil
}

func (f *FakeService) Report(ctx context.Context, result leaderboarddomain.TournamentResult, includeCharts bool) ([]byte, error) {
	if f.ReportFunc != nil {
		return f.ReportFunc(ctx, result, includeCharts)
	}
	return []byte("PK"), nil
}
