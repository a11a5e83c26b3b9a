package script

import (
	"strings"
	"unicode/utf8"
)

// normalizeWhitespace trims every line, collapses runs of spaces and tabs to
// one space and keeps at most one blank line between paragraphs.
func normalizeWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := false

	for _, line := range lines {
		line = strings.Join(strings.FieldsFunc(line, isInlineSpace), " ")
		if line == "" {
			if len(out) > 0 {
				blank = true
			}
			continue
		}
		if blank {
			out = append(out, "")
			blank = false
		}
		out = append(out, line)
	}

	return strings.Join(out, "\n")
}

func isInlineSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\v', '\f', '\u00a0':
		return true
	}
	return false
}

// preview cuts text to at most limit runes
func preview(text string, limit int) (string, bool) {
	if utf8.RuneCountInString(text) <= limit {
		return text, false
	}

	runes := 0
	for i := range text {
		if runes == limit {
			return text[:i], true
		}
		runes++
	}
	return text, false
}
