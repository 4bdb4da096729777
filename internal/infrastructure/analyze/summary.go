package analyze

import (
	"strings"

	"pagelens/internal/ports"
)

const summaryFallbackChars = 500

// ExtractiveSummarizer builds a short summary from the first, middle, and
// last sentence of the text.
type ExtractiveSummarizer struct{}

var _ ports.Summarizer = (*ExtractiveSummarizer)(nil)

// NewSummarizer builds an ExtractiveSummarizer.
func NewSummarizer() *ExtractiveSummarizer {
	return &ExtractiveSummarizer{}
}

// Summarize returns the text itself when it has at most three sentences,
// otherwise the first, middle, and last sentence joined. The result is
// capped so a single run-on sentence cannot blow up the summary.
func (s *ExtractiveSummarizer) Summarize(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	sentences := SplitSentences(text)
	if len(sentences) <= 3 {
		return truncate(strings.Join(sentences, " "), summaryFallbackChars)
	}

	picks := []string{
		sentences[0],
		sentences[len(sentences)/2],
		sentences[len(sentences)-1],
	}
	return truncate(strings.Join(picks, " "), summaryFallbackChars)
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
