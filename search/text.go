package search

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// queryWords splits a query into lowercase whitespace-separated words.
func queryWords(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// wordPattern matches word case-insensitively. Word boundaries are only
// required on sides where word begins or ends with a word character, so
// tokens such as "#42" still match.
func wordPattern(word string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString("(?i)")
	first, _ := utf8.DecodeRuneInString(word)
	last, _ := utf8.DecodeLastRuneInString(word)
	if isWordRune(first) {
		b.WriteString(`\b`)
	}
	b.WriteString(regexp.QuoteMeta(word))
	if isWordRune(last) {
		b.WriteString(`\b`)
	}
	return regexp.MustCompile(b.String())
}

// matchPattern matches word case-insensitively anywhere, including inside
// longer words.
func matchPattern(word string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(word))
}

func matchPatterns(words []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(words))
	for i, w := range words {
		patterns[i] = matchPattern(w)
	}
	return patterns
}

func wordPatterns(words []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(words))
	for i, w := range words {
		patterns[i] = wordPattern(w)
	}
	return patterns
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// highlights extracts context windows of highlightContext characters on
// each side of the first maxHighlightsPerWord matches of every pattern.
// Identical windows are reported once and at most maxHighlightsPerResult
// are returned.
func highlights(content string, patterns []*regexp.Regexp) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, re := range patterns {
		for _, loc := range re.FindAllStringIndex(content, maxHighlightsPerWord) {
			window := contextWindow(content, loc[0], loc[1], highlightContext)
			if window == "" {
				continue
			}
			if _, dup := seen[window]; dup {
				continue
			}
			seen[window] = struct{}{}
			out = append(out, window)
			if len(out) == maxHighlightsPerResult {
				return out
			}
		}
	}
	return out
}

// contextWindow returns content[start-radius : end+radius] clamped to the
// string and widened to rune boundaries, with whitespace collapsed.
func contextWindow(content string, start, end, radius int) string {
	from := max(0, start-radius)
	to := min(len(content), end+radius)
	for from > 0 && !utf8.RuneStart(content[from]) {
		from--
	}
	for to < len(content) && !utf8.RuneStart(content[to]) {
		to++
	}
	return strings.Join(strings.Fields(content[from:to]), " ")
}

// truncateRunes returns at most n runes of s.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// preview shortens content to about n runes, cutting at the last space
// when one is close to the limit.
func preview(content string, n int) string {
	if utf8.RuneCountInString(content) <= n {
		return content
	}
	cut := truncateRunes(content, n)
	if i := strings.LastIndexAny(cut, " \n\t"); i > len(cut)/2 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut) + "..."
}
