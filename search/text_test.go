package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWordPattern(t *testing.T) {
	tests := []struct {
		name    string
		word    string
		content string
		want    int
	}{
		{"case insensitive", "invoice", "Invoice INVOICE invoice", 3},
		{"word boundary", "pay", "payment pay repay", 1},
		{"symbol prefix", "#42", "Invoice #42: paid", 1},
		{"regex metacharacters are literal", "c++", "I write c++ and c", 1},
		{"no match", "refund", "payment received", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wordPattern(tt.word).FindAllStringIndex(tt.content, -1)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		name    string
		word    string
		content string
		want    int
	}{
		{"case insensitive", "invoice", "Invoice INVOICE invoice", 3},
		{"inside longer words", "pay", "payment pay repay", 3},
		{"regex metacharacters are literal", "c++", "I write c++ and c", 1},
		{"no match", "refund", "payment received", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchPattern(tt.word).FindAllStringIndex(tt.content, -1)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestHighlights(t *testing.T) {
	t.Run("short document yields whole text once", func(t *testing.T) {
		content := "Invoice #42: payment received"
		got := highlights(content, wordPatterns([]string{"invoice", "payment"}))
		assert.Equal(t, []string{"Invoice #42: payment received"}, got)
	})

	t.Run("windows are bounded", func(t *testing.T) {
		content := strings.Repeat("a ", 100) + "needle" + strings.Repeat(" b", 100)
		got := highlights(content, wordPatterns([]string{"needle"}))
		assert.Len(t, got, 1)
		assert.Contains(t, got[0], "needle")
		assert.LessOrEqual(t, len(got[0]), 2*highlightContext+len("needle"))
	})

	t.Run("at most two windows per word and three per result", func(t *testing.T) {
		filler := strings.Repeat("x ", 60)
		content := "alpha " + filler + "alpha " + filler + "alpha " + filler + "beta " + filler + "beta"
		got := highlights(content, wordPatterns([]string{"alpha", "beta"}))
		assert.Len(t, got, 3)
		assert.Contains(t, got[0], "alpha")
		assert.Contains(t, got[1], "alpha")
		assert.Contains(t, got[2], "beta")
	})

	t.Run("multibyte text is not split", func(t *testing.T) {
		content := strings.Repeat("é", 60) + " target " + strings.Repeat("ü", 60)
		got := highlights(content, wordPatterns([]string{"target"}))
		assert.Len(t, got, 1)
		assert.True(t, strings.Contains(got[0], "target"))
		for _, r := range got[0] {
			assert.NotEqual(t, '�', r)
		}
	})
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", preview("short", 10))
	assert.Equal(t, "hello...", preview("hello world", 8))
	assert.Equal(t, "abcdefgh...", preview("abcdefghijkl", 8))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "hé", truncateRunes("héllo", 2))
	assert.Equal(t, "héllo", truncateRunes("héllo", 10))
	assert.Equal(t, "", truncateRunes("héllo", 0))
}
