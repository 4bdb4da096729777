package ports

import (
	"context"

	"pagelens/internal/domain"
)

// Fetcher retrieves raw page content over HTTP.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*domain.Page, error)
}

// Extractor strips boilerplate from a fetched page and returns the main
// textual content plus a title (possibly empty).
type Extractor interface {
	Extract(page *domain.Page) (domain.Extracted, error)
}

// SentimentAnalyzer scores plain text. Pure and deterministic; empty input
// yields a zero compound score with a neutral label.
type SentimentAnalyzer interface {
	Score(text string) domain.Sentiment
}

// ReadabilityScorer computes reading-ease and grade-level estimates.
// Degenerate input yields a zero-valued sentinel rather than failing.
type ReadabilityScorer interface {
	Score(text string) domain.Readability
}

// LexicalAnalyzer computes word/char/sentence counts and the top-N
// word-frequency distribution.
type LexicalAnalyzer interface {
	Analyze(text string) domain.Lexical
}

// Summarizer produces a short extractive summary of the text.
type Summarizer interface {
	Summarize(text string) string
}

// ChartRenderer draws metric charts as inline-displayable payloads.
type ChartRenderer interface {
	Render(analysis *domain.Analysis) (domain.ChartSet, error)
}

// RecordStore persists one row per successful analysis and serves history.
// Records are append-only; there are no update or delete operations.
type RecordStore interface {
	Save(ctx context.Context, analysis *domain.Analysis) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Analysis, error)
	List(ctx context.Context, limit, offset int) ([]domain.Analysis, error)
	Stats(ctx context.Context) (*domain.Stats, error)
	Close() error
}
