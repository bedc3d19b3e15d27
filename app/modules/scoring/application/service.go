package scoringservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	leaderboarddomain "github.com/Black-And-White-Club/peoria-stableford/app/modules/leaderboard/domain"
	"github.com/Black-And-White-Club/peoria-stableford/app/modules/scorecard/application/export"
	"github.com/Black-And-White-Club/peoria-stableford/app/modules/scorecard/application/parsers"
	scoringdomain "github.com/Black-And-White-Club/peoria-stableford/app/modules/scoring/domain"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds parallel player scoring when no limit is configured.
const DefaultWorkers = 4

// Service scores rounds and renders reports.
type Service interface {
	ScoreTournament(ctx context.Context, def scoringdomain.RoundDefinition, ref scoringdomain.ReferenceHoleSet, roster []scoringdomain.PlayerRound) (leaderboarddomain.TournamentResult, error)
	ScoreScorecard(ctx context.Context, filename string, data []byte, holes []int) (leaderboarddomain.TournamentResult, error)
	Report(ctx context.Context, result leaderboarddomain.TournamentResult, includeCharts bool) ([]byte, error)
}

// Options tunes the service. Zero values take the defaults.
type Options struct {
	Workers int
	Ranking leaderboarddomain.RankingOptions
	Report  export.Options
}

// ScoringService implements Service.
type ScoringService struct {
	logger  *slog.Logger
	metrics ScoringMetrics
	tracer  trace.Tracer
	parsers parsers.ParserFactory
	opts    Options
}

// NewScoringService creates a new ScoringService.
func NewScoringService(
	logger *slog.Logger,
	metrics ScoringMetrics,
	tracer trace.Tracer,
	parserFactory parsers.ParserFactory,
	opts Options,
) *ScoringService {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if parserFactory == nil {
		parserFactory = parsers.NewFactory()
	}
	if metrics == nil {
		metrics = NoOpMetrics{}
	}
	return &ScoringService{
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		parsers: parserFactory,
		opts:    opts,
	}
}

// operationFunc is the signature of a wrapped service operation.
type operationFunc[T any] func(ctx context.Context) (T, error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[T any](
	s *ScoringService,
	ctx context.Context,
	operationName string,
	runID string,
	op operationFunc[T],
) (result T, err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("run_id", runID),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, time.Since(startTime))
	}()

	s.logger.InfoContext(ctx, operationName+" triggered",
		slog.String("operation", operationName),
		slog.String("run_id", runID),
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				slog.String("run_id", runID),
				slog.Any("error", err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName)
			span.RecordError(err)
			span.SetStatus(codes.Error, "panic")
			var zero T
			result = zero
		}
	}()

	result, err = op(ctx)
	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			slog.String("operation", operationName),
			slog.String("run_id", runID),
			slog.Any("error", wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName)
		span.RecordError(wrappedErr)
		span.SetStatus(codes.Error, errorKind(err))
		return result, wrappedErr
	}

	s.logger.InfoContext(ctx, operationName+" completed successfully",
		slog.String("operation", operationName),
		slog.String("run_id", runID),
	)
	s.metrics.RecordOperationSuccess(ctx, operationName)
	return result, nil
}

// ScoreTournament scores every player of the roster in parallel and ranks the field.
func (s *ScoringService) ScoreTournament(
	ctx context.Context,
	def scoringdomain.RoundDefinition,
	ref scoringdomain.ReferenceHoleSet,
	roster []scoringdomain.PlayerRound,
) (leaderboarddomain.TournamentResult, error) {
	runID := uuid.NewString()
	return withTelemetry(s, ctx, "ScoreTournament", runID, func(ctx context.Context) (leaderboarddomain.TournamentResult, error) {
		if err := leaderboarddomain.ValidateRun(def, ref, len(roster)); err != nil {
			return leaderboarddomain.TournamentResult{}, err
		}
		return s.scoreAndRank(ctx, runID, def, ref, roster, nil)
	})
}

// ScoreScorecard parses an uploaded scorecard and scores it against the selected
// reference holes. Players whose cells could not be read are rejected, not fatal.
func (s *ScoringService) ScoreScorecard(ctx context.Context, filename string, data []byte, holes []int) (leaderboarddomain.TournamentResult, error) {
	runID := uuid.NewString()
	return withTelemetry(s, ctx, "ScoreScorecard", runID, func(ctx context.Context) (leaderboarddomain.TournamentResult, error) {
		parser, err := s.parsers.GetParser(filename)
		if err != nil {
			return leaderboarddomain.TournamentResult{}, err
		}

		card, err := parser.Parse(data)
		if err != nil {
			return leaderboarddomain.TournamentResult{}, fmt.Errorf("failed to parse %s: %w", filename, err)
		}

		ref, err := scoringdomain.NewReferenceHoleSet(holes)
		if err != nil {
			return leaderboarddomain.TournamentResult{}, err
		}

		roster, rejected := card.Roster()
		s.logger.InfoContext(ctx, "Scorecard parsed",
			slog.String("run_id", runID),
			slog.String("filename", filename),
			slog.Int("players", len(roster)),
			slog.Int("unreadable", len(rejected)),
		)

		if err := leaderboarddomain.ValidateRun(card.Round, ref, len(roster)); err != nil {
			return leaderboarddomain.TournamentResult{}, err
		}
		return s.scoreAndRank(ctx, runID, card.Round, ref, roster, rejected)
	})
}

// Report renders the XLSX report for a scored tournament.
func (s *ScoringService) Report(ctx context.Context, result leaderboarddomain.TournamentResult, includeCharts bool) ([]byte, error) {
	return withTelemetry(s, ctx, "Report", uuid.NewString(), func(ctx context.Context) ([]byte, error) {
		opts := s.opts.Report
		opts.IncludeCharts = includeCharts
		if opts.TopByPoints <= 0 {
			opts.TopByPoints = s.opts.Ranking.TopByPoints
		}
		if opts.TopByNet <= 0 {
			opts.TopByNet = s.opts.Ranking.TopByNet
		}
		return export.Bytes(result, opts)
	})
}

// scoreAndRank scores each roster slot on its own goroutine, bounded by the worker limit.
// Every goroutine writes only its own slot; ranking starts after Wait.
func (s *ScoringService) scoreAndRank(
	ctx context.Context,
	runID string,
	def scoringdomain.RoundDefinition,
	ref scoringdomain.ReferenceHoleSet,
	roster []scoringdomain.PlayerRound,
	unreadable map[int]error,
) (leaderboarddomain.TournamentResult, error) {
	entries := make([]leaderboarddomain.Entry, len(roster))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i, pr := range roster {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err, ok := unreadable[i]; ok {
				entries[i] = leaderboarddomain.Entry{Position: i, PlayerID: pr.WithPlaceholderID(i + 1).PlayerID, Err: err}
			} else {
				entries[i] = leaderboarddomain.ScoreEntry(def, ref, i, pr)
			}

			if e := entries[i]; e.Err != nil {
				s.metrics.RecordPlayerRejected(gctx, rejectReason(e.Err))
				s.logger.WarnContext(gctx, "Player rejected",
					slog.String("run_id", runID),
					slog.String("player_id", e.PlayerID),
					slog.Int("position", i+1),
					slog.Any("error", e.Err),
				)
			} else {
				s.metrics.RecordPlayerScored(gctx)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return leaderboarddomain.TournamentResult{}, err
	}

	return leaderboarddomain.Rank(entries, s.opts.Ranking)
}

// rejectReason is a low-cardinality label for a rejected player: the field name without
// its index.
func rejectReason(err error) string {
	var ie *scoringdomain.InputError
	if !errors.As(err, &ie) {
		return "other"
	}
	field, _, _ := strings.Cut(ie.Field, "[")
	if field == "" {
		return "input"
	}
	return field
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, scoringdomain.ErrStructural):
		return "structural"
	case errors.Is(err, scoringdomain.ErrSelection):
		return "selection"
	case errors.Is(err, scoringdomain.ErrInput):
		return "input"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "internal"
	}
}
