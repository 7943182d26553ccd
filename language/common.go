package language

import "strings"

// SplitLines normalizes CRLF and splits text into lines.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

// clampColumn bounds a cursor column to the line length.
func clampColumn(line string, character int) int {
	if character < 0 {
		return 0
	}
	if character > len(line) {
		return len(line)
	}
	return character
}

// indentWidth returns the number of leading whitespace characters, counting
// a tab as one column. Good enough for the strictly-smaller comparison the
// scope walk relies on.
func indentWidth(line string) int {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return i
}

// LeadingIndent returns the leading whitespace of a line verbatim.
func LeadingIndent(line string) string {
	return line[:indentWidth(line)]
}

// hasCommentBefore reports whether marker occurs in line before the cursor
// column.
func hasCommentBefore(line string, character int, marker string) bool {
	before := line[:clampColumn(line, character)]
	return strings.Contains(before, marker)
}

// oddUnescapedQuotes counts unescaped occurrences of each quote byte before
// the cursor and reports whether any count is odd. A quote preceded by a
// backslash is treated as escaped; this is a heuristic, not a lexer.
func oddUnescapedQuotes(line string, character int, quotes string) bool {
	before := line[:clampColumn(line, character)]
	for qi := 0; qi < len(quotes); qi++ {
		q := quotes[qi]
		count := 0
		for i := 0; i < len(before); i++ {
			if before[i] != q {
				continue
			}
			if i > 0 && before[i-1] == '\\' {
				continue
			}
			count++
		}
		if count%2 == 1 {
			return true
		}
	}
	return false
}

// collectLines returns the lines for which keep returns true, order
// preserved, joined as one block.
func collectLines(fullText string, keep func(trimmed string) bool) string {
	var matched []string
	for _, line := range SplitLines(fullText) {
		if keep(strings.TrimSpace(line)) {
			matched = append(matched, line)
		}
	}
	return strings.Join(matched, "\n")
}

// endsWithAny reports whether the right-trimmed line ends with one of the
// given suffixes.
func endsWithAny(line string, suffixes ...string) bool {
	trimmed := strings.TrimRight(line, " \t")
	for _, suffix := range suffixes {
		if suffix != "" && strings.HasSuffix(trimmed, suffix) {
			return true
		}
	}
	return false
}

// joinBlocks joins non-empty blocks with a blank line between them.
func joinBlocks(blocks ...string) string {
	var kept []string
	for _, b := range blocks {
		if strings.TrimSpace(b) != "" {
			kept = append(kept, b)
		}
	}
	return strings.Join(kept, "\n\n")
}
