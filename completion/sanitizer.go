package completion

import (
	"regexp"
	"strings"
)

var (
	fenceOpenPattern  = regexp.MustCompile("^`{3,}[A-Za-z0-9_+.-]*\\s*$")
	fenceClosePattern = regexp.MustCompile("^`{3,}\\s*$")
)

// Sanitize normalizes raw model output into insert-ready text: trims
// surrounding whitespace, cuts the text at the first blank line so trailing
// prose never reaches the editor, and strips the Markdown fence lines
// wrapping what remains. Sanitizing already-sanitized text is a no-op.
func Sanitize(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}

	lines := strings.Split(text, "\n")

	// keep only the first paragraph
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines = lines[:i]
			break
		}
	}

	// strip edge fence lines until neither edge matches, so stripping
	// cannot expose another fence layer for a later pass to remove
	for len(lines) > 1 && fenceOpenPattern.MatchString(lines[0]) {
		lines = lines[1:]
	}
	for len(lines) > 0 && fenceClosePattern.MatchString(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// SanitizeWithIndent sanitizes raw output and re-indents continuation lines
// so the suggestion slots in at the cursor's indentation. The first line is
// left alone since it continues the line being typed. Relative indentation
// between continuation lines is preserved by translating each line's lead
// from the suggestion's own base to baseIndent.
func SanitizeWithIndent(raw, baseIndent string) string {
	text := Sanitize(raw)
	if baseIndent == "" || !strings.Contains(text, "\n") {
		return text
	}

	lines := strings.Split(text, "\n")
	suggestionBase := ""
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		suggestionBase = leadingWhitespace(line)
		break
	}

	for i := 1; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			continue
		}
		lead := leadingWhitespace(line)
		switch {
		case lead == baseIndent:
			// already aligned
		case lead == "":
			lines[i] = baseIndent + line
		case suggestionBase != "" && strings.HasPrefix(lead, suggestionBase):
			lines[i] = baseIndent + strings.TrimPrefix(line, suggestionBase)
		default:
			lines[i] = baseIndent + strings.TrimLeft(line, " \t")
		}
	}
	return strings.Join(lines, "\n")
}

func leadingWhitespace(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}
