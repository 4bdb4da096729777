package domain

import "time"

// SentimentLabel is the categorical polarity derived from the compound score.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

// Page is the raw result of fetching a URL.
type Page struct {
	URL         string
	Body        []byte
	ContentType string
	StatusCode  int
}

// Extracted is the boilerplate-stripped content of a page.
type Extracted struct {
	Title string
	Text  string
}

// Sentiment holds VADER-style polarity scores. Positive, Negative and
// Neutral sum to 1; Compound is normalized to [-1, 1].
type Sentiment struct {
	Compound float64        `json:"compound"`
	Positive float64        `json:"positive"`
	Negative float64        `json:"negative"`
	Neutral  float64        `json:"neutral"`
	Label    SentimentLabel `json:"label"`
}

// Readability holds Flesch reading-ease and Flesch-Kincaid grade estimates.
type Readability struct {
	ReadingEase float64 `json:"reading_ease"`
	GradeLevel  float64 `json:"grade_level"`
}

// WordFreq is one entry of the word-frequency distribution.
type WordFreq struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Lexical holds surface statistics of the extracted text.
type Lexical struct {
	WordCount         int        `json:"word_count"`
	CharCount         int        `json:"char_count"`
	SentenceCount     int        `json:"sentence_count"`
	AvgSentenceLength float64    `json:"avg_sentence_length"`
	TopWords          []WordFreq `json:"top_words,omitempty"`
}

// Analysis is the sole persisted entity: one append-only row per
// successful pipeline run.
type Analysis struct {
	ID          int64       `json:"id"`
	URL         string      `json:"url"`
	Title       string      `json:"title"`
	Content     string      `json:"content,omitempty"`
	Summary     string      `json:"summary,omitempty"`
	Sentiment   Sentiment   `json:"sentiment"`
	Readability Readability `json:"readability"`
	Lexical     Lexical     `json:"lexical"`
	Keywords    []string    `json:"keywords,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// ChartSet carries rendered charts as inline data URIs. A chart that could
// not be drawn (e.g. no words for the frequency chart) is an empty string.
type ChartSet struct {
	Sentiment string `json:"sentiment"`
	TopWords  string `json:"top_words"`
}

// Stats aggregates stored records for the dashboard endpoint.
type Stats struct {
	TotalAnalyses int64                  `json:"total_analyses"`
	AvgSentiment  float64                `json:"avg_sentiment"`
	Distribution  map[SentimentLabel]int `json:"sentiment_distribution"`
}
