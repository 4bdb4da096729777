package analyze

import (
	"strings"
	"unicode"

	"pagelens/internal/domain"
	"pagelens/internal/ports"
)

// FleschScorer computes Flesch reading ease and Flesch-Kincaid grade from
// syllable, word, and sentence counts. Both formulas are deterministic
// functions of the input text.
type FleschScorer struct{}

var _ ports.ReadabilityScorer = (*FleschScorer)(nil)

// NewFleschScorer builds a scorer.
func NewFleschScorer() *FleschScorer {
	return &FleschScorer{}
}

// Score returns the two readability estimates. Input without words yields
// the zero-valued sentinel instead of dividing by zero.
func (s *FleschScorer) Score(text string) domain.Readability {
	words := strings.Fields(text)
	if len(words) == 0 {
		return domain.Readability{}
	}

	sentences := SplitSentences(text)
	sentenceCount := len(sentences)
	if sentenceCount == 0 {
		sentenceCount = 1
	}

	var syllables int
	for _, word := range words {
		syllables += CountSyllables(word)
	}

	wordsPerSentence := float64(len(words)) / float64(sentenceCount)
	syllablesPerWord := float64(syllables) / float64(len(words))

	return domain.Readability{
		ReadingEase: 206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord,
		GradeLevel:  0.39*wordsPerSentence + 11.8*syllablesPerWord - 15.59,
	}
}

// CountSyllables estimates syllables by counting vowel groups, discounting
// a trailing silent "e" (but keeping consonant+"le" endings). Every word
// has at least one syllable.
func CountSyllables(word string) int {
	var letters []rune
	for _, r := range strings.ToLower(word) {
		if unicode.IsLetter(r) {
			letters = append(letters, r)
		}
	}
	if len(letters) == 0 {
		return 0
	}

	count := 0
	prevVowel := false
	for _, r := range letters {
		v := isVowel(r)
		if v && !prevVowel {
			count++
		}
		prevVowel = v
	}

	n := len(letters)
	if n >= 2 && letters[n-1] == 'e' && !isVowel(letters[n-2]) {
		// "table" keeps its final syllable, "make" does not.
		if !(n >= 3 && letters[n-2] == 'l' && !isVowel(letters[n-3])) {
			count--
		}
	}

	if count < 1 {
		count = 1
	}
	return count
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}
