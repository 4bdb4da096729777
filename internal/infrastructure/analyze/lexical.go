package analyze

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bbalet/stopwords"

	"pagelens/internal/domain"
	"pagelens/internal/ports"
)

// DefaultTopWords is the frequency-table cutoff used for display.
const DefaultTopWords = 10

// Lexical computes surface statistics: word and character counts, sentence
// counts, and a top-N word-frequency table with stop words excluded.
type Lexical struct {
	topWords int
}

var _ ports.LexicalAnalyzer = (*Lexical)(nil)

// NewLexical builds the analyzer; topWords <= 0 selects the default.
func NewLexical(topWords int) *Lexical {
	if topWords <= 0 {
		topWords = DefaultTopWords
	}
	return &Lexical{topWords: topWords}
}

// Analyze returns counts over the raw text. WordCount is the number of
// whitespace-delimited tokens; CharCount counts runes. The frequency table
// is built from lowercased, punctuation-stripped, alphabetic tokens with
// English stop words removed, ordered by count desc then word asc.
func (l *Lexical) Analyze(text string) domain.Lexical {
	words := strings.Fields(text)

	result := domain.Lexical{
		WordCount: len(words),
		CharCount: utf8.RuneCountInString(text),
	}
	if len(words) == 0 {
		return result
	}

	sentences := SplitSentences(text)
	result.SentenceCount = len(sentences)
	if result.SentenceCount > 0 {
		avg := float64(result.WordCount) / float64(result.SentenceCount)
		result.AvgSentenceLength = math.Round(avg*100) / 100
	}

	cleaned := stopwords.CleanString(text, "en", false)
	freq := make(map[string]int)
	for _, token := range strings.Fields(cleaned) {
		word := normalizeToken(token)
		if word == "" {
			continue
		}
		freq[word]++
	}

	result.TopWords = topN(freq, l.topWords)
	return result
}

func normalizeToken(token string) string {
	word := strings.ToLower(strings.TrimFunc(token, func(r rune) bool {
		return !unicode.IsLetter(r)
	}))
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return ""
		}
	}
	return word
}

func topN(freq map[string]int, n int) []domain.WordFreq {
	if len(freq) == 0 {
		return nil
	}

	entries := make([]domain.WordFreq, 0, len(freq))
	for word, count := range freq {
		entries = append(entries, domain.WordFreq{Word: word, Count: count})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Word < entries[j].Word
	})

	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
