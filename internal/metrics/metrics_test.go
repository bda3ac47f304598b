package metrics

import (
	"math"
	"strings"
	"testing"
)

func TestWordCount(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"a b c", 3},
		{"  a   b\tc\nd  ", 4},
	}
	for _, tt := range tests {
		if got := WordCount(tt.text); got != tt.want {
			t.Errorf("WordCount(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestChecksum_KnownValue(t *testing.T) {
	got := Checksum("a b c")
	want := "0e9f64031fcb2bc708b531c2a20441580425d151a38503f38592a7dd36019d3b"
	if got != want {
		t.Errorf("Checksum(\"a b c\") = %s, want %s", got, want)
	}
}

func TestChecksum_Properties(t *testing.T) {
	text := "The quick brown fox."
	if Checksum(text) != Checksum(text) {
		t.Error("checksum of identical text differs")
	}
	if Checksum(text) == Checksum(text+" ") {
		t.Error("single character change did not change the checksum")
	}
	sum := Checksum(text)
	if len(sum) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(sum))
	}
	if sum != strings.ToLower(sum) {
		t.Error("expected lowercase hex encoding")
	}
}

func TestComplexity_Undefined(t *testing.T) {
	for _, text := range []string{"", "   ", "words without any sentence terminator"} {
		if _, ok := Complexity(text); ok {
			t.Errorf("expected undefined complexity for %q", text)
		}
	}
}

func TestComplexity_KnownValue(t *testing.T) {
	// 6 words, 2 sentences, 6 syllables:
	// 0.39*3 + 11.8*1 - 15.59 = -2.62
	got, ok := Complexity("The cat sat. The dog ran.")
	if !ok {
		t.Fatal("expected defined complexity")
	}
	if math.Abs(got-(-2.62)) > 0.01 {
		t.Errorf("expected about -2.62, got %f", got)
	}
}

func TestComplexity_LongerSentencesGradeHigher(t *testing.T) {
	short, ok := Complexity("The cat sat. The dog ran.")
	if !ok {
		t.Fatal("expected defined complexity")
	}
	long, ok := Complexity("The cat sat on the mat near the door while the dog ran around the big yard.")
	if !ok {
		t.Fatal("expected defined complexity")
	}
	if long <= short {
		t.Errorf("expected longer sentences to grade higher: %f <= %f", long, short)
	}
}

func TestCountSyllables(t *testing.T) {
	tests := []struct {
		word string
		want int
	}{
		{"cat", 1},
		{"hello", 2},
		{"table", 2},
		{"make", 1},
		{"rhythm", 1},
		{"regulation", 4},
		{"42", 1},
	}
	for _, tt := range tests {
		if got := countSyllables(tt.word); got != tt.want {
			t.Errorf("countSyllables(%q) = %d, want %d", tt.word, got, tt.want)
		}
	}
}

func TestCountSentences(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"no terminator", 0},
		{"One. Two? Three!", 3},
		{"Trailing dots... and more?!", 2},
	}
	for _, tt := range tests {
		if got := countSentences(tt.text); got != tt.want {
			t.Errorf("countSentences(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}
