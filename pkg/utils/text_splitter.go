package utils

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	sentenceRe   = regexp.MustCompile(`[^.!?]+[.!?]+`)
)

// SplitText splits text into chunks of at most maxChars characters, keeping
// at most maxChunks of them. It prefers sentence boundaries and accumulates
// whole sentences into a chunk until the next sentence would overflow it.
// A single sentence longer than maxChars is hard-cut rune-safely.
// Identical input always yields the identical sequence. Empty or
// whitespace-only input yields nil.
func SplitText(text string, maxChars, maxChunks int) []string {
	if maxChars <= 0 {
		maxChars = 500
	}

	text = whitespaceRe.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	// Segment on match end offsets so every byte of the input lands in
	// exactly one sentence: a leading terminator run folds into the first
	// sentence, trailing unpunctuated text becomes the last one.
	var sentences []string
	matches := sentenceRe.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		sentences = []string{text}
	} else {
		start := 0
		for _, m := range matches {
			sentences = append(sentences, text[start:m[1]])
			start = m[1]
		}
		if start < len(text) {
			sentences = append(sentences, text[start:])
		}
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			chunks = append(chunks, s)
		}
		current.Reset()
	}

	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}

		// Oversized sentence: flush what we have and hard-cut it.
		if len(sentence) > maxChars {
			flush()
			chunks = append(chunks, hardCut(sentence, maxChars)...)
			continue
		}

		if current.Len() > 0 && current.Len()+len(sentence)+1 > maxChars {
			flush()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(sentence)
	}
	flush()

	if maxChunks > 0 && len(chunks) > maxChunks {
		chunks = chunks[:maxChunks]
	}
	return chunks
}

// hardCut slices a string into maxChars-sized pieces without splitting a
// multi-byte rune.
func hardCut(text string, maxChars int) []string {
	runes := []rune(text)
	var pieces []string
	for i := 0; i < len(runes); i += maxChars {
		end := i + maxChars
		if end > len(runes) {
			end = len(runes)
		}
		pieces = append(pieces, strings.TrimSpace(string(runes[i:end])))
	}
	return pieces
}
