package leaderboardservice

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	leaderboarddomain "github.com/Black-And-White-Club/peoria-stableford/app/modules/leaderboard/domain"
	scoringdomain "github.com/Black-And-White-Club/peoria-stableford/app/modules/scoring/domain"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartPalette holds the colors used by every chart.
type ChartPalette struct {
	Background  drawing.Color
	PrimaryLine drawing.Color
	AccentLine  drawing.Color
	ThirdLine   drawing.Color
	TextColor   drawing.Color
}

// DefaultChartPalette is the dark navy dashboard theme.
func DefaultChartPalette() ChartPalette {
	return ChartPalette{
		Background:  drawing.ColorFromHex("051826"),
		PrimaryLine: drawing.ColorFromHex("4C9BE8"),
		AccentLine:  drawing.ColorFromHex("FFD966"),
		ThirdLine:   drawing.ColorFromHex("7BC67B"),
		TextColor:   drawing.ColorWhite,
	}
}

// ChartMetric selects which summary total a player chart shows.
type ChartMetric string

const (
	MetricGross  ChartMetric = "gross"
	MetricNet    ChartMetric = "net"
	MetricPoints ChartMetric = "points"
)

// ChartMetrics lists the metrics in report order.
var ChartMetrics = []ChartMetric{MetricGross, MetricNet, MetricPoints}

// ParseChartMetric accepts a metric name case-insensitively.
func ParseChartMetric(s string) (ChartMetric, error) {
	m := ChartMetric(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case MetricGross, MetricNet, MetricPoints:
		return m, nil
	}
	return "", fmt.Errorf("unknown chart metric %q", s)
}

func (m ChartMetric) title() string {
	switch m {
	case MetricNet:
		return "Net Total"
	case MetricPoints:
		return "Stableford"
	default:
		return "Gross"
	}
}

func (m ChartMetric) value(s scoringdomain.PlayerSummary) int {
	switch m {
	case MetricNet:
		return s.Net
	case MetricPoints:
		return s.Points
	default:
		return s.Gross
	}
}

// GeneratePlayerChart produces a PNG bar chart of one metric for every player, in roster order.
func GeneratePlayerChart(summaries []scoringdomain.PlayerSummary, metric ChartMetric, palette ChartPalette) ([]byte, error) {
	if len(summaries) == 0 {
		return renderNoDataPlaceholder(palette, "No players scored")
	}

	color := palette.PrimaryLine
	switch metric {
	case MetricNet:
		color = palette.ThirdLine
	case MetricPoints:
		color = palette.AccentLine
	}

	bars := make([]chart.Value, len(summaries))
	low, top := 0, 0
	for i, s := range summaries {
		v := metric.value(s)
		low, top = min(low, v), max(top, v)
		bars[i] = chart.Value{
			Label: s.PlayerID,
			Value: float64(v),
			Style: chart.Style{
				FillColor:   color,
				StrokeColor: color,
			},
		}
	}

	text := chart.Style{FontColor: palette.TextColor}
	graph := chart.BarChart{
		Title:      metric.title(),
		TitleStyle: chart.Style{FontColor: palette.AccentLine},
		Width:      max(800, 60*len(bars)),
		Height:     400,
		BarWidth:   40,
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: text,
		YAxis: chart.YAxis{
			Style: text,
			// go-chart rejects a zero-height range, so the axis always spans at least 0..1.
			Range: &chart.ContinuousRange{Min: float64(low), Max: math.Ceil(float64(top)*1.1) + 1},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render %s chart: %w", metric, err)
	}
	return buffer.Bytes(), nil
}

// GenerateHoleAverageChart produces a PNG line chart of the field's average gross, net and
// Stableford points per hole.
func GenerateHoleAverageChart(avgs []leaderboarddomain.HoleAverage, palette ChartPalette) ([]byte, error) {
	if len(avgs) == 0 {
		return renderNoDataPlaceholder(palette, "No hole data")
	}

	holes := make([]float64, len(avgs))
	gross := make([]float64, len(avgs))
	net := make([]float64, len(avgs))
	points := make([]float64, len(avgs))
	low, top := 0.0, 0.0
	for i, a := range avgs {
		holes[i] = float64(a.Hole)
		gross[i] = a.Gross
		net[i] = a.Net
		points[i] = a.Points
		low = min(low, a.Net)
		top = max(top, a.Gross, a.Net, a.Points)
	}

	line := func(name string, ys []float64, color drawing.Color) chart.ContinuousSeries {
		return chart.ContinuousSeries{
			Name:    name,
			XValues: holes,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: color,
				StrokeWidth: 2,
				DotWidth:    4,
				DotColor:    color,
			},
		}
	}

	text := chart.Style{FontColor: palette.TextColor}
	graph := chart.Chart{
		Title:      "Averages per Hole",
		TitleStyle: chart.Style{FontColor: palette.AccentLine},
		Width:      800,
		Height:     400,
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.XAxis{
			Name:           "Hole",
			Style:          text,
			ValueFormatter: func(v interface{}) string { return fmt.Sprintf("%.0f", v) },
			Range:          &chart.ContinuousRange{Min: holes[0] - 0.5, Max: holes[len(holes)-1] + 0.5},
		},
		YAxis: chart.YAxis{
			Name:  "Average",
			Style: text,
			Range: &chart.ContinuousRange{Min: math.Floor(low), Max: math.Ceil(top) + 1},
		},
		Series: []chart.Series{
			line("Avg Gross", gross, palette.PrimaryLine),
			line("Avg Net", net, palette.ThirdLine),
			line("Avg Stableford", points, palette.AccentLine),
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph, chart.Style{
		FillColor: palette.Background,
		FontColor: palette.TextColor,
	})}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render hole averages chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// GeneratePlayerHoleChart produces a PNG line chart of one player's gross and net per hole.
func GeneratePlayerHoleChart(card scoringdomain.PlayerCard, palette ChartPalette) ([]byte, error) {
	if len(card.Holes) == 0 {
		return renderNoDataPlaceholder(palette, "No holes for "+card.Summary.PlayerID)
	}

	holes := make([]float64, len(card.Holes))
	gross := make([]float64, len(card.Holes))
	net := make([]float64, len(card.Holes))
	low, top := 0.0, 0.0
	for i, h := range card.Holes {
		holes[i] = float64(h.Hole)
		gross[i] = float64(h.Gross)
		net[i] = float64(h.Net)
		low = min(low, net[i])
		top = max(top, gross[i], net[i])
	}

	text := chart.Style{FontColor: palette.TextColor}
	graph := chart.Chart{
		Title:      card.Summary.PlayerID + ": Gross vs Net",
		TitleStyle: chart.Style{FontColor: palette.AccentLine},
		Width:      800,
		Height:     300,
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		Canvas: chart.Style{FillColor: palette.Background},
		XAxis: chart.XAxis{
			Name:           "Hole",
			Style:          text,
			ValueFormatter: func(v interface{}) string { return fmt.Sprintf("%.0f", v) },
			Range:          &chart.ContinuousRange{Min: holes[0] - 0.5, Max: holes[len(holes)-1] + 0.5},
		},
		YAxis: chart.YAxis{
			Name:  "Strokes",
			Style: text,
			Range: &chart.ContinuousRange{Min: low, Max: top + 1},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Gross",
				XValues: holes,
				YValues: gross,
				Style:   chart.Style{StrokeColor: palette.PrimaryLine, StrokeWidth: 2, DotWidth: 4, DotColor: palette.PrimaryLine},
			},
			chart.ContinuousSeries{
				Name:    "Net",
				XValues: holes,
				YValues: net,
				Style:   chart.Style{StrokeColor: palette.ThirdLine, StrokeWidth: 2, DotWidth: 4, DotColor: palette.ThirdLine},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph, chart.Style{
		FillColor: palette.Background,
		FontColor: palette.TextColor,
	})}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render hole chart for %s: %w", card.Summary.PlayerID, err)
	}
	return buffer.Bytes(), nil
}

// GeneratePlayerPointsChart produces a PNG bar chart of one player's Stableford points per hole.
func GeneratePlayerPointsChart(card scoringdomain.PlayerCard, palette ChartPalette) ([]byte, error) {
	if len(card.Holes) == 0 {
		return renderNoDataPlaceholder(palette, "No holes for "+card.Summary.PlayerID)
	}

	bars := make([]chart.Value, len(card.Holes))
	for i, h := range card.Holes {
		bars[i] = chart.Value{
			Label: fmt.Sprintf("H%d", h.Hole),
			Value: float64(h.Points),
			Style: chart.Style{FillColor: palette.AccentLine, StrokeColor: palette.AccentLine},
		}
	}

	text := chart.Style{FontColor: palette.TextColor}
	graph := chart.BarChart{
		Title:      card.Summary.PlayerID + ": Stableford per Hole",
		TitleStyle: chart.Style{FontColor: palette.AccentLine},
		Width:      800,
		Height:     300,
		BarWidth:   30,
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		Canvas: chart.Style{FillColor: palette.Background},
		XAxis:  text,
		YAxis: chart.YAxis{
			Style: text,
			// points top out at 5
			Range: &chart.ContinuousRange{Min: 0, Max: 6},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render points chart for %s: %w", card.Summary.PlayerID, err)
	}
	return buffer.Bytes(), nil
}

// renderNoDataPlaceholder draws the message directly on a PNG canvas. A chart.Chart
// without series refuses to render.
func renderNoDataPlaceholder(palette ChartPalette, msg string) ([]byte, error) {
	const (
		width  = 400
		height = 200
	)

	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("failed to load chart font: %w", err)
	}

	r, err := chart.PNG(width, height)
	if err != nil {
		return nil, err
	}

	r.SetFillColor(palette.Background)
	r.MoveTo(0, 0)
	r.LineTo(width, 0)
	r.LineTo(width, height)
	r.LineTo(0, height)
	r.Close()
	r.Fill()

	r.SetFont(font)
	r.SetFontColor(palette.TextColor)
	r.SetFontSize(12.0)
	tb := r.MeasureText(msg)
	r.Text(msg, (width-tb.Width())/2, (height+tb.Height())/2)

	buffer := bytes.NewBuffer([]byte{})
	if err := r.Save(buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
