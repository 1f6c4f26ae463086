package codefmt

import (
	"strings"
)

// LightFormat is the dependency-free formatter: line endings are normalized
// to \n, trailing whitespace is stripped from every line, and trailing blank
// lines are removed. CSS additionally gets a line break after every semicolon
// that is not already followed by one. The result is idempotent.
func LightFormat(kind Kind, source string) string {
	s := normalizeNewlines(source)
	if kind == KindCSS {
		s = breakAfterSemicolons(s)
	}
	s = stripTrailingSpace(s)
	return strings.TrimRight(s, "\n")
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// breakAfterSemicolons inserts a newline after each semicolon whose next
// character is not already a newline. Semicolons at end of input are left
// alone; the trailing-newline trim would undo the insertion anyway.
func breakAfterSemicolons(s string) string {
	var b strings.Builder
	b.Grow(len(s) + len(s)/8)
	for i := 0; i < len(s); i++ {
		b.WriteByte(s[i])
		if s[i] == ';' && i+1 < len(s) && s[i+1] != '\n' {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func stripTrailingSpace(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
