package chart

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"

	gochart "github.com/wcharczuk/go-chart/v2"

	"pagelens/internal/domain"
	"pagelens/internal/ports"
)

const (
	defaultWidth  = 800
	defaultHeight = 512

	// wordChartBars caps the bars on the frequency chart so the labels
	// stay readable.
	wordChartBars = 8

	dataURIPrefix = "data:image/png;base64,"
)

// Renderer draws sentiment and word-frequency bar charts as PNG images and
// encodes them as data URIs. Every render draws into its own buffer; no
// drawing state outlives a call.
type Renderer struct {
	width  int
	height int
}

var _ ports.ChartRenderer = (*Renderer)(nil)

// New builds a Renderer; non-positive dimensions fall back to defaults.
func New(width, height int) *Renderer {
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	return &Renderer{width: width, height: height}
}

// Render produces the chart set for one analysis. The word chart is
// omitted when the analysis has no frequency entries.
func (r *Renderer) Render(analysis *domain.Analysis) (domain.ChartSet, error) {
	var set domain.ChartSet

	sentimentURI, err := r.sentimentChart(analysis.Sentiment)
	if err != nil {
		return domain.ChartSet{}, &domain.AnalysisError{Stage: "chart", Err: err}
	}
	set.Sentiment = sentimentURI

	if len(analysis.Lexical.TopWords) > 0 {
		wordsURI, err := r.wordChart(analysis.Lexical.TopWords)
		if err != nil {
			return domain.ChartSet{}, &domain.AnalysisError{Stage: "chart", Err: err}
		}
		set.TopWords = wordsURI
	}

	return set, nil
}

func (r *Renderer) sentimentChart(s domain.Sentiment) (string, error) {
	graph := gochart.BarChart{
		Title:    "Sentiment",
		Width:    r.width,
		Height:   r.height,
		BarWidth: 80,
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: 1},
		},
		Bars: []gochart.Value{
			{Value: s.Positive, Label: "Positive"},
			{Value: s.Negative, Label: "Negative"},
			{Value: s.Neutral, Label: "Neutral"},
		},
	}

	return renderPNG(graph.Render)
}

func (r *Renderer) wordChart(words []domain.WordFreq) (string, error) {
	if len(words) > wordChartBars {
		words = words[:wordChartBars]
	}

	maxCount := 1
	bars := make([]gochart.Value, 0, len(words))
	for _, w := range words {
		if w.Count > maxCount {
			maxCount = w.Count
		}
		bars = append(bars, gochart.Value{Value: float64(w.Count), Label: w.Word})
	}

	graph := gochart.BarChart{
		Title:    "Most Frequent Words",
		Width:    r.width,
		Height:   r.height,
		BarWidth: 60,
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: float64(maxCount) + 1},
		},
		Bars: bars,
	}

	return renderPNG(graph.Render)
}

func renderPNG(render func(gochart.RendererProvider, io.Writer) error) (string, error) {
	var buf bytes.Buffer
	if err := render(gochart.PNG, &buf); err != nil {
		return "", fmt.Errorf("render png: %w", err)
	}
	return dataURIPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
