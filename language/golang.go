package language

import "strings"

// goStrategy implements the heuristics for Go. Import extraction tracks the
// parenthesized import block in addition to single-line forms.
type goStrategy struct{}

func (goStrategy) IsInComment(line string, character int) bool {
	return hasCommentBefore(line, character, "//")
}

func (goStrategy) IsInString(line string, character int) bool {
	return oddUnescapedQuotes(line, character, "'\"`")
}

func (goStrategy) ExtractImports(fullText string) string {
	var matched []string
	inImportBlock := false
	for _, line := range SplitLines(fullText) {
		trimmed := strings.TrimSpace(line)
		switch {
		case inImportBlock:
			matched = append(matched, line)
			if trimmed == ")" {
				inImportBlock = false
			}
		case strings.HasPrefix(trimmed, "package "), strings.HasPrefix(trimmed, "import "):
			matched = append(matched, line)
			if strings.HasSuffix(trimmed, "(") {
				inImportBlock = true
			}
		}
	}
	return strings.Join(matched, "\n")
}

func (s goStrategy) ExtractGlobalDeclarations(fullText string) string {
	decls := collectLines(fullText, func(trimmed string) bool {
		return strings.HasPrefix(trimmed, "func ") ||
			strings.HasPrefix(trimmed, "type ") ||
			strings.HasPrefix(trimmed, "var ") ||
			strings.HasPrefix(trimmed, "const ")
	})
	return joinBlocks(s.ExtractImports(fullText), decls)
}

// ExtractProjectSnippet keeps type headers and function signatures only.
func (goStrategy) ExtractProjectSnippet(fullText string) string {
	return collectLines(fullText, func(trimmed string) bool {
		return strings.HasPrefix(trimmed, "type ") ||
			strings.HasPrefix(trimmed, "func ")
	})
}

func (goStrategy) OpensBlock(line string) bool {
	return endsWithAny(line, "{")
}

func (goStrategy) IsGoodCompletionSite(line string) bool {
	return endsWithAny(line, "{")
}
