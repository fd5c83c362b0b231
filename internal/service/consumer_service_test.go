package service

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Goroutines Explained", "Goroutines Explained"},
		{"surrounding whitespace", "  Goroutines Explained \n", "Goroutines Explained"},
		{"quoted", `"Goroutines Explained"`, "Goroutines Explained"},
		{"single quoted", "'Goroutines Explained'", "Goroutines Explained"},
		{"first line only", "Goroutines Explained\nHere is why:", "Goroutines Explained"},
		{"empty", "  \n ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeTitle(tt.input))
		})
	}
}

func TestSanitizeTitleTruncatesOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("a", 100)
	got := sanitizeTitle(long)
	assert.Len(t, got, 80)

	// Multi-byte output must never be cut mid-rune.
	wide := strings.Repeat("日本語のタイトル", 20)
	got = sanitizeTitle(wide)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 80, utf8.RuneCountInString(got))
}
