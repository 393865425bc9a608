// Package chunker splits long transcripts into pieces that fit a translation
// backend's per-request limit while preserving sentence and paragraph
// integrity.
package chunker

import (
	"strings"
	"unicode"
)

// Split breaks text into pieces each no longer than maxChars unicode code
// points. Splits are attempted, in order of preference, at paragraph
// boundaries, sentence-ending punctuation, whitespace, and finally a hard cut
// at maxChars.
//
// Text that already fits is returned as a single-element slice. maxChars ≤ 0
// means unlimited.
func Split(text string, maxChars int) []string {
	if maxChars <= 0 || len([]rune(text)) <= maxChars {
		return []string{text}
	}

	var chunks []string
	remaining := text

	for len([]rune(remaining)) > maxChars {
		split := findSplit(remaining, maxChars)
		chunk := strings.TrimSpace(remaining[:split])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		remaining = strings.TrimSpace(remaining[split:])
	}

	if strings.TrimSpace(remaining) != "" {
		chunks = append(chunks, strings.TrimSpace(remaining))
	}

	return chunks
}

// findSplit returns the byte index at which to split, aiming for at most
// maxChars runes, searching backwards for the best boundary.
func findSplit(text string, maxChars int) int {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return len(text)
	}

	candidate := string(runes[:maxChars])
	candRunes := []rune(candidate)

	// Paragraph boundary.
	if idx := strings.LastIndex(candidate, "\n\n"); idx > 0 {
		return idx + 2
	}
	if idx := strings.LastIndex(candidate, "\r\n\r\n"); idx > 0 {
		return idx + 4
	}

	// Sentence-ending punctuation followed by a space.
	for i := len(candRunes) - 1; i > 0; i-- {
		r := candRunes[i]
		if (r == '.' || r == '!' || r == '?') && i+1 < len(candRunes) && unicode.IsSpace(candRunes[i+1]) {
			return len(string(candRunes[:i+1]))
		}
	}

	// Whitespace word boundary.
	for i := len(candRunes) - 1; i > 0; i-- {
		if unicode.IsSpace(candRunes[i]) {
			return len(string(candRunes[:i]))
		}
	}

	// Hard cut.
	return len(candidate)
}
