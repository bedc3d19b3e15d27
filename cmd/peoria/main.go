package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	leaderboardservice "github.com/Black-And-White-Club/peoria-stableford/app/modules/leaderboard/application"
	leaderboarddomain "github.com/Black-And-White-Club/peoria-stableford/app/modules/leaderboard/domain"
	scorecardservice "github.com/Black-And-White-Club/peoria-stableford/app/modules/scorecard/application"
	"github.com/Black-And-White-Club/peoria-stableford/app/modules/scorecard/application/parsers"
	"github.com/Black-And-White-Club/peoria-stableford/app/modules/scoring"
	scoringdomain "github.com/Black-And-White-Club/peoria-stableford/app/modules/scoring/domain"
	"github.com/Black-And-White-Club/peoria-stableford/config"
	"github.com/urfave/cli/v2"
	"go.opentelemetry.io/otel"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout, os.Stderr).RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "peoria",
		Usage:     "Peoria handicap and Stableford scoring",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to the YAML config file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "score",
				Usage: "score a scorecard file and print the leaderboards",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Required: true, Usage: "scorecard (.xlsx or .csv)"},
					&cli.StringFlag{Name: "holes", Usage: "reference holes, e.g. 1,3,5,7,9,11,12,13,14,15"},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "write the xlsx report here"},
					&cli.BoolFlag{Name: "charts", Usage: "embed charts in the report"},
					&cli.BoolFlag{Name: "json", Usage: "print the full result as JSON"},
				},
				Action: func(c *cli.Context) error {
					return runScore(c, stdout, stderr)
				},
			},
			{
				Name:  "chart",
				Usage: "render one chart of a scored scorecard as PNG",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Required: true, Usage: "scorecard (.xlsx or .csv)"},
					&cli.StringFlag{Name: "holes", Usage: "reference holes, e.g. 1,3,5,7,9,11,12,13,14,15"},
					&cli.StringFlag{Name: "metric", Value: "points", Usage: "gross, net, points, or holes for per-hole averages"},
					&cli.StringFlag{Name: "player", Usage: "chart one player's holes: points per hole for --metric points, otherwise gross vs net"},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "chart.png"},
				},
				Action: func(c *cli.Context) error {
					return runChart(c, stdout, stderr)
				},
			},
			{
				Name:  "serve",
				Usage: "run the HTTP API",
				Action: func(c *cli.Context) error {
					_, module, err := loadModule(c, stderr)
					if err != nil {
						return err
					}
					return module.Serve(c.Context)
				},
			},
			{
				Name:  "sample",
				Usage: "generate a sample scorecard",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "players", Aliases: []string{"n"}, Value: 12},
					&cli.Int64Flag{Name: "seed", Usage: "seed for a reproducible card"},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "sample_scorecard.xlsx"},
				},
				Action: func(c *cli.Context) error {
					return runSample(c, stdout)
				},
			},
		},
	}
}

func loadModule(c *cli.Context, stderr io.Writer) (*config.Config, *scoring.Module, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := config.NewLogger(cfg.Observability, stderr)
	if err != nil {
		return nil, nil, err
	}
	module, err := scoring.NewScoringModule(cfg, logger, otel.Tracer("peoria"))
	if err != nil {
		return nil, nil, err
	}
	return cfg, module, nil
}

// scoreInput scores the --input scorecard against --holes, or the configured holes.
func scoreInput(c *cli.Context, cfg *config.Config, module *scoring.Module) (leaderboarddomain.TournamentResult, error) {
	holes := cfg.Scoring.ReferenceHoles
	if s := c.String("holes"); s != "" {
		var err error
		if holes, err = parsers.ParseHoleList(s); err != nil {
			return leaderboarddomain.TournamentResult{}, err
		}
	}
	if len(holes) == 0 {
		return leaderboarddomain.TournamentResult{}, fmt.Errorf("no reference holes: pass --holes or set scoring.reference_holes")
	}

	input := c.String("input")
	data, err := os.ReadFile(input)
	if err != nil {
		return leaderboarddomain.TournamentResult{}, fmt.Errorf("failed to read scorecard: %w", err)
	}
	return module.Service.ScoreScorecard(c.Context, input, data, holes)
}

func runScore(c *cli.Context, stdout, stderr io.Writer) error {
	cfg, module, err := loadModule(c, stderr)
	if err != nil {
		return err
	}

	result, err := scoreInput(c, cfg, module)
	if err != nil {
		return err
	}

	if c.Bool("json") {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		printResult(stdout, result)
	}

	if out := c.String("out"); out != "" {
		report, err := module.Service.Report(c.Context, result, c.Bool("charts") || cfg.Report.Charts)
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, report, 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Fprintf(stdout, "\nReport written to %s\n", out)
	}
	return nil
}

func runChart(c *cli.Context, stdout, stderr io.Writer) error {
	cfg, module, err := loadModule(c, stderr)
	if err != nil {
		return err
	}

	// validate the flags before scoring
	metric := c.String("metric")
	averages := strings.EqualFold(strings.TrimSpace(metric), "holes")
	var chartMetric leaderboardservice.ChartMetric
	if !averages {
		if chartMetric, err = leaderboardservice.ParseChartMetric(metric); err != nil {
			return err
		}
	}

	result, err := scoreInput(c, cfg, module)
	if err != nil {
		return err
	}

	png, err := renderChart(result, chartMetric, averages, c.String("player"), leaderboardservice.DefaultChartPalette())
	if err != nil {
		return err
	}

	out := c.String("out")
	if err := os.WriteFile(out, png, 0o644); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	fmt.Fprintf(stdout, "Chart written to %s\n", out)
	return nil
}

func renderChart(
	result leaderboarddomain.TournamentResult,
	metric leaderboardservice.ChartMetric,
	averages bool,
	player string,
	palette leaderboardservice.ChartPalette,
) ([]byte, error) {
	if player == "" {
		if averages {
			return leaderboardservice.GenerateHoleAverageChart(result.HoleAverages, palette)
		}
		return leaderboardservice.GeneratePlayerChart(result.Summaries, metric, palette)
	}

	for _, card := range result.Cards {
		if card.Summary.PlayerID != player {
			continue
		}
		if metric == leaderboardservice.MetricPoints {
			return leaderboardservice.GeneratePlayerPointsChart(card, palette)
		}
		return leaderboardservice.GeneratePlayerHoleChart(card, palette)
	}
	return nil, fmt.Errorf("player %q has no scored card", player)
}

func printResult(w io.Writer, result leaderboarddomain.TournamentResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Player\tGross\tAllowance\tNet\tPoints")
	for _, s := range result.Summaries {
		fmt.Fprintf(tw, "%s\t%d\t%d (%s)\t%d\t%d\n", s.PlayerID, s.Gross, s.Allowance, s.RawAllowance.StringFixed(1), s.Net, s.Points)
	}
	tw.Flush()

	fmt.Fprintf(w, "\nBest gross: %s\n", names(result.BestGross))
	for _, g := range result.Groups {
		fmt.Fprintf(w, "  Group %d: %s\n", g.Number, names(g.Best))
	}

	fmt.Fprintln(w, "\nTop Stableford:")
	for i, s := range result.TopByPoints {
		fmt.Fprintf(w, "  %2d. %-24s %d\n", i+1, s.PlayerID, s.Points)
	}
	fmt.Fprintln(w, "\nTop net:")
	for i, s := range result.TopByNet {
		fmt.Fprintf(w, "  %2d. %-24s %d\n", i+1, s.PlayerID, s.Net)
	}

	if len(result.Rejected) > 0 {
		fmt.Fprintln(w, "\nRejected:")
		for _, r := range result.Rejected {
			fmt.Fprintf(w, "  #%d %s: %s\n", r.Position+1, r.PlayerID, r.Reason)
		}
	}
}

func names(summaries []scoringdomain.PlayerSummary) string {
	if len(summaries) == 0 {
		return "-"
	}
	ids := make([]string, len(summaries))
	for i, s := range summaries {
		ids[i] = s.PlayerID
	}
	return strings.Join(ids, ", ")
}

func runSample(c *cli.Context, stdout io.Writer) error {
	var gen *scorecardservice.ScorecardGenerator
	if c.IsSet("seed") {
		gen = scorecardservice.NewScorecardGenerator(c.Int64("seed"))
	} else {
		gen = scorecardservice.NewScorecardGenerator()
	}

	card := gen.GenerateScorecard(c.Int("players"))
	out := c.String("out")

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	if err := card.WriteXLSX(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	holes := make([]string, len(card.ReferenceHoles))
	for i, h := range card.ReferenceHoles {
		holes[i] = fmt.Sprint(h)
	}
	fmt.Fprintf(stdout, "Wrote %d players to %s (seed %d)\n", len(card.Roster), out, gen.Seed())
	fmt.Fprintf(stdout, "Reference holes: %s\n", strings.Join(holes, ","))
	return nil
}
