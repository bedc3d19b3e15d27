package export

import (
	"bytes"
	"fmt"
	"io"

	leaderboardservice "github.com/Black-And-White-Club/peoria-stableford/app/modules/leaderboard/application"
	leaderboarddomain "github.com/Black-And-White-Club/peoria-stableford/app/modules/leaderboard/domain"
	scoringdomain "github.com/Black-And-White-Club/peoria-stableford/app/modules/scoring/domain"
	"github.com/xuri/excelize/v2"
)

// ReportFilename is the download name used for generated reports.
const ReportFilename = "peoria_stableford_report.xlsx"

// Sheet names, in workbook order.
const (
	SheetDetails      = "PerPlayerDetails"
	SheetSummary      = "Summary"
	SheetHoleByHole   = "HoleByHole"
	SheetHoleAverages = "HoleAverages"
	SheetCharts       = "Charts"
)

// chartRowSpan is how many rows one 400px chart covers at the default row height.
const chartRowSpan = 22

// Per-player charts are 300px tall and sit in pairs; the second starts past the first's 800px.
const (
	playerChartRowSpan = 17
	playerChartColumn  = 14
)

// Options controls the optional parts of a report.
type Options struct {
	IncludeCharts bool
	Palette       leaderboardservice.ChartPalette
	TopByPoints   int
	TopByNet      int
}

// DefaultOptions returns a chartless report with the default leaderboard titles.
func DefaultOptions() Options {
	return Options{
		Palette:     leaderboardservice.DefaultChartPalette(),
		TopByPoints: leaderboarddomain.DefaultTopByPoints,
		TopByNet:    leaderboarddomain.DefaultTopByNet,
	}
}

// Bytes renders the report workbook to memory.
func Bytes(result leaderboarddomain.TournamentResult, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, result, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write renders the report workbook to w.
func Write(w io.Writer, result leaderboarddomain.TournamentResult, opts Options) error {
	f, err := Workbook(result, opts)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// Workbook builds the report. The caller closes the returned file.
func Workbook(result leaderboarddomain.TournamentResult, opts Options) (*excelize.File, error) {
	if opts.TopByPoints <= 0 {
		opts.TopByPoints = leaderboarddomain.DefaultTopByPoints
	}
	if opts.TopByNet <= 0 {
		opts.TopByNet = leaderboarddomain.DefaultTopByNet
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetDetails); err != nil {
		f.Close()
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	steps := []struct {
		sheet string
		fill  func(*sheetWriter)
	}{
		{SheetDetails, func(w *sheetWriter) { writeDetails(w, result.Cards) }},
		{SheetSummary, func(w *sheetWriter) { writeSummary(w, result, opts) }},
		{SheetHoleByHole, func(w *sheetWriter) { writeHoleByHole(w, result.Cards) }},
		{SheetHoleAverages, func(w *sheetWriter) { writeHoleAverages(w, result.HoleAverages) }},
	}
	for _, step := range steps {
		if step.sheet != SheetDetails {
			if _, err := f.NewSheet(step.sheet); err != nil {
				f.Close()
				return nil, err
			}
		}
		w := &sheetWriter{f: f, sheet: step.sheet, bold: bold}
		step.fill(w)
		if w.err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write sheet %s: %w", step.sheet, w.err)
		}
	}

	if opts.IncludeCharts {
		if err := addCharts(f, result, opts.Palette); err != nil {
			f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func holeHeaders(first string) []interface{} {
	row := []interface{}{first}
	for h := 1; h <= scoringdomain.RoundLength; h++ {
		row = append(row, fmt.Sprintf("H%d", h))
	}
	return row
}

func writeDetails(w *sheetWriter, cards []scoringdomain.PlayerCard) {
	blocks := []struct {
		title string
		value func(scoringdomain.HoleResult) int
	}{
		{"Players & Gross Scores", func(h scoringdomain.HoleResult) int { return h.Gross }},
		{"Strokes Allocated", func(h scoringdomain.HoleResult) int { return h.Strokes }},
		{"Net Scores", func(h scoringdomain.HoleResult) int { return h.Net }},
		{"Stableford (Net)", func(h scoringdomain.HoleResult) int { return h.Points }},
	}

	for i, b := range blocks {
		if i > 0 {
			w.blank()
		}
		w.heading(holeHeaders(b.title)...)
		for _, c := range cards {
			row := []interface{}{c.Summary.PlayerID}
			for _, h := range c.Holes {
				row = append(row, b.value(h))
			}
			w.append(row...)
		}
	}
}

func writeSummary(w *sheetWriter, result leaderboarddomain.TournamentResult, opts Options) {
	w.heading("Player", "Gross", "Peoria_Raw", "Peoria_Int", "Net_Total", "Net_Fractional", "Stableford")
	for _, s := range result.Summaries {
		w.append(
			s.PlayerID,
			s.Gross,
			s.RawAllowance.InexactFloat64(),
			s.Allowance,
			s.Net,
			s.FractionalNet.InexactFloat64(),
			s.Points,
		)
	}

	w.blank()
	w.heading("Best Gross (ties)")
	for _, s := range result.BestGross {
		w.append(s.PlayerID, s.Gross)
	}

	w.blank()
	w.heading("Best Gross by Group")
	for _, g := range result.Groups {
		row := []interface{}{fmt.Sprintf("Group %d", g.Number)}
		for _, s := range g.Best {
			row = append(row, fmt.Sprintf("%s (%d)", s.PlayerID, s.Gross))
		}
		w.append(row...)
	}

	w.blank()
	w.heading(fmt.Sprintf("Top %d Stableford", opts.TopByPoints))
	for i, s := range result.TopByPoints {
		w.append(i+1, s.PlayerID, s.Points)
	}

	w.blank()
	w.heading(fmt.Sprintf("Top %d Net", opts.TopByNet))
	for i, s := range result.TopByNet {
		w.append(i+1, s.PlayerID, s.Net)
	}

	if len(result.Rejected) > 0 {
		w.blank()
		w.heading("Rejected Players")
		for _, r := range result.Rejected {
			w.append(r.Position+1, r.PlayerID, r.Reason)
		}
	}
}

func writeHoleByHole(w *sheetWriter, cards []scoringdomain.PlayerCard) {
	w.heading("Player", "Hole", "Par", "Stroke_Index", "Gross_Score", "Strokes_Allocated", "Net_Score", "Stableford")
	for _, c := range cards {
		for _, h := range c.Holes {
			w.append(c.Summary.PlayerID, h.Hole, h.Par, h.DifficultyRank, h.Gross, h.Strokes, h.Net, h.Points)
		}
	}
}

func writeHoleAverages(w *sheetWriter, avgs []leaderboarddomain.HoleAverage) {
	w.heading("Hole", "Par", "Avg_Stableford", "Avg_Net", "Avg_Gross")
	for _, a := range avgs {
		w.append(a.Hole, a.Par, a.Points, a.Net, a.Gross)
	}
}

func addCharts(f *excelize.File, result leaderboarddomain.TournamentResult, palette leaderboardservice.ChartPalette) error {
	if _, err := f.NewSheet(SheetCharts); err != nil {
		return err
	}

	place := func(col, row int, name string, png []byte) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		if err := f.AddPictureFromBytes(SheetCharts, cell, &excelize.Picture{
			Extension: ".png",
			File:      png,
			Format:    &excelize.GraphicOptions{AltText: name},
		}); err != nil {
			return fmt.Errorf("failed to embed %s chart: %w", name, err)
		}
		return nil
	}

	row := 1
	for _, metric := range leaderboardservice.ChartMetrics {
		png, err := leaderboardservice.GeneratePlayerChart(result.Summaries, metric, palette)
		if err != nil {
			return err
		}
		if err := place(1, row, string(metric), png); err != nil {
			return err
		}
		row += chartRowSpan
	}
	png, err := leaderboardservice.GenerateHoleAverageChart(result.HoleAverages, palette)
	if err != nil {
		return err
	}
	if err := place(1, row, "hole averages", png); err != nil {
		return err
	}
	row += chartRowSpan

	// one row per player: gross vs net beside Stableford per hole
	for _, card := range result.Cards {
		id := card.Summary.PlayerID
		lines, err := leaderboardservice.GeneratePlayerHoleChart(card, palette)
		if err != nil {
			return err
		}
		if err := place(1, row, id+" gross vs net", lines); err != nil {
			return err
		}
		bars, err := leaderboardservice.GeneratePlayerPointsChart(card, palette)
		if err != nil {
			return err
		}
		if err := place(playerChartColumn, row, id+" stableford", bars); err != nil {
			return err
		}
		row += playerChartRowSpan
	}
	return nil
}

// sheetWriter appends rows to a sheet and keeps the first error.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	bold  int
	row   int
	err   error
}

func (w *sheetWriter) append(values ...interface{}) {
	if w.err != nil {
		return
	}
	w.row++
	axis, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(w.sheet, axis, &values)
}

func (w *sheetWriter) heading(values ...interface{}) {
	w.append(values...)
	if w.err == nil {
		w.err = w.f.SetRowStyle(w.sheet, w.row, w.row, w.bold)
	}
}

func (w *sheetWriter) blank() {
	w.row++
}
