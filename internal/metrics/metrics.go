// Package metrics reduces extracted regulatory text to comparable numbers:
// a word count, a content checksum, and a readability grade.
package metrics

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// WordCount counts whitespace-delimited tokens.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// Checksum computes the SHA-256 digest of the exact text as lowercase hex.
// Any single-character change in the input changes the digest, which is what
// makes it usable as a drift detector between dates.
func Checksum(text string) string {
	h := sha256.Sum256([]byte(text))
	return fmt.Sprintf("%x", h[:])
}

// Complexity computes the Flesch-Kincaid grade level of the text. The second
// return value is false when the formula is inapplicable (no words or no
// sentences detected); callers must treat that as an absent value, never as
// zero.
func Complexity(text string) (float64, bool) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0, false
	}
	sentences := countSentences(text)
	if sentences == 0 {
		return 0, false
	}

	syllables := 0
	for _, w := range words {
		syllables += countSyllables(w)
	}

	grade := 0.39*(float64(len(words))/float64(sentences)) +
		11.8*(float64(syllables)/float64(len(words))) - 15.59
	return grade, true
}

// countSentences counts runs of sentence terminators, so "..." and "?!" end
// one sentence, not several.
func countSentences(text string) int {
	count := 0
	prevTerm := false
	for _, r := range text {
		term := r == '.' || r == '!' || r == '?'
		if term && !prevTerm {
			count++
		}
		prevTerm = term
	}
	return count
}

// countSyllables estimates syllables by counting vowel groups, discounting a
// silent trailing "e". Tokens with no letters count as one syllable so that
// numerals and citations do not distort the per-word average.
func countSyllables(word string) int {
	var b strings.Builder
	for _, r := range strings.ToLower(word) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	w := b.String()
	if w == "" {
		return 1
	}

	count := 0
	prevVowel := false
	for _, r := range w {
		vowel := strings.ContainsRune("aeiouy", r)
		if vowel && !prevVowel {
			count++
		}
		prevVowel = vowel
	}
	if count > 1 && strings.HasSuffix(w, "e") && !strings.HasSuffix(w, "le") {
		count--
	}
	if count == 0 {
		count = 1
	}
	return count
}
