package analyze

import (
	"strings"

	"github.com/grassmudhorses/vader-go/lexicon"
	"github.com/grassmudhorses/vader-go/sentitext"

	"pagelens/internal/domain"
	"pagelens/internal/ports"
)

const (
	// DefaultPositiveThreshold and DefaultNegativeThreshold are the
	// conventional VADER label cutoffs on the compound score.
	DefaultPositiveThreshold = 0.05
	DefaultNegativeThreshold = -0.05
)

// VaderAnalyzer scores text with the VADER lexicon and derives a discrete
// label by thresholding the compound score.
type VaderAnalyzer struct {
	positiveThreshold float64
	negativeThreshold float64
}

var _ ports.SentimentAnalyzer = (*VaderAnalyzer)(nil)

// NewVaderAnalyzer builds an analyzer; zero thresholds select the
// conventional defaults.
func NewVaderAnalyzer(positiveThreshold, negativeThreshold float64) *VaderAnalyzer {
	if positiveThreshold == 0 {
		positiveThreshold = DefaultPositiveThreshold
	}
	if negativeThreshold == 0 {
		negativeThreshold = DefaultNegativeThreshold
	}
	return &VaderAnalyzer{
		positiveThreshold: positiveThreshold,
		negativeThreshold: negativeThreshold,
	}
}

// Score computes compound and sub-scores. Empty or whitespace-only input
// yields the neutral sentinel: compound 0, neutral sub-score 1.
func (a *VaderAnalyzer) Score(text string) domain.Sentiment {
	if strings.TrimSpace(text) == "" {
		return domain.Sentiment{Neutral: 1, Label: domain.SentimentNeutral}
	}

	parsed := sentitext.Parse(text, lexicon.DefaultLexicon)
	score := sentitext.PolarityScore(parsed)

	// Punctuation-only input tokenizes to nothing and scores all-zero;
	// treat it like empty input so the sub-scores still sum to one.
	if score.Positive+score.Negative+score.Neutral == 0 {
		return domain.Sentiment{Neutral: 1, Label: domain.SentimentNeutral}
	}

	result := domain.Sentiment{
		Compound: score.Compound,
		Positive: score.Positive,
		Negative: score.Negative,
		Neutral:  score.Neutral,
	}
	result.Label = a.label(result.Compound)
	return result
}

func (a *VaderAnalyzer) label(compound float64) domain.SentimentLabel {
	switch {
	case compound >= a.positiveThreshold:
		return domain.SentimentPositive
	case compound <= a.negativeThreshold:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}
