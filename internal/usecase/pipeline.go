package usecase

import (
	"context"
	"log/slog"
	"sync"

	"pagelens/internal/domain"
	"pagelens/internal/ports"
)

// PipelineDeps wires all driven adapters into the analysis pipeline.
type PipelineDeps struct {
	Fetcher     ports.Fetcher
	Extractor   ports.Extractor
	Sentiment   ports.SentimentAnalyzer
	Readability ports.ReadabilityScorer
	Lexical     ports.LexicalAnalyzer
	Summarizer  ports.Summarizer
	Charts      ports.ChartRenderer
	Store       ports.RecordStore
	Logger      *slog.Logger

	// ContentMaxChars truncates the stored content copy; zero disables
	// truncation.
	ContentMaxChars int
}

// Result is the outcome of one successful pipeline run: the persisted
// record plus the rendered (non-persisted) charts.
type Result struct {
	Analysis *domain.Analysis
	Charts   domain.ChartSet
}

// Pipeline implements the fetch -> extract -> analyze -> chart -> persist
// workflow. Each request is handled independently; the record store is the
// only shared state.
type Pipeline struct {
	deps PipelineDeps
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Pipeline{deps: deps}
}

// Analyze runs the full pipeline for one URL. It fails fast: any stage
// error aborts the request and nothing is persisted; exactly one record is
// saved per successful run.
func (p *Pipeline) Analyze(ctx context.Context, rawURL string) (*Result, error) {
	log := p.deps.Logger.With("url", rawURL)

	page, err := p.deps.Fetcher.Fetch(ctx, rawURL)
	if err != nil {
		log.Error("fetch failed", "stage", "fetch", "error", err)
		return nil, err
	}
	log.Debug("fetched page", "bytes", len(page.Body), "content_type", page.ContentType)

	extracted, err := p.deps.Extractor.Extract(page)
	if err != nil {
		log.Error("extraction failed", "stage", "extract", "error", err)
		return nil, err
	}

	// The three metric stages are pure, infallible functions of the text
	// with no dependency on one another, so they run concurrently.
	var (
		sentiment   domain.Sentiment
		readability domain.Readability
		lexical     domain.Lexical
		summary     string
	)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		sentiment = p.deps.Sentiment.Score(extracted.Text)
	}()
	go func() {
		defer wg.Done()
		readability = p.deps.Readability.Score(extracted.Text)
	}()
	go func() {
		defer wg.Done()
		lexical = p.deps.Lexical.Analyze(extracted.Text)
		if p.deps.Summarizer != nil {
			summary = p.deps.Summarizer.Summarize(extracted.Text)
		}
	}()
	wg.Wait()

	analysis := &domain.Analysis{
		URL:         page.URL,
		Title:       extracted.Title,
		Content:     truncateRunes(extracted.Text, p.deps.ContentMaxChars),
		Summary:     summary,
		Sentiment:   sentiment,
		Readability: readability,
		Lexical:     lexical,
		Keywords:    keywordsOf(lexical),
	}

	var charts domain.ChartSet
	if p.deps.Charts != nil {
		charts, err = p.deps.Charts.Render(analysis)
		if err != nil {
			log.Error("chart rendering failed", "stage", "chart", "error", err)
			return nil, err
		}
	}

	if _, err := p.deps.Store.Save(ctx, analysis); err != nil {
		log.Error("persist failed", "stage", "store", "error", err)
		return nil, err
	}

	log.Info("analysis complete",
		"id", analysis.ID,
		"words", lexical.WordCount,
		"sentiment", string(sentiment.Label),
	)

	return &Result{Analysis: analysis, Charts: charts}, nil
}

func keywordsOf(lexical domain.Lexical) []string {
	if len(lexical.TopWords) == 0 {
		return nil
	}
	keywords := make([]string, 0, len(lexical.TopWords))
	for _, w := range lexical.TopWords {
		keywords = append(keywords, w.Word)
	}
	return keywords
}

func truncateRunes(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
