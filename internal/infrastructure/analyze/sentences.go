package analyze

import "strings"

// sentenceTerminators end a sentence for the splitter below.
func isSentenceTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// SplitSentences breaks plain text into sentences on ./!/? runs. Text with
// words but no terminator counts as a single sentence. The splitter is
// intentionally simple; the readability formulas and the summarizer only
// need consistent, deterministic counts.
func SplitSentences(text string) []string {
	var (
		sentences []string
		current   strings.Builder
		inTerm    bool
	)

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	for _, r := range text {
		if isSentenceTerminator(r) {
			current.WriteRune(r)
			inTerm = true
			continue
		}
		if inTerm {
			flush()
			inTerm = false
		}
		current.WriteRune(r)
	}
	flush()

	return sentences
}
