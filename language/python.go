package language

import (
	"regexp"
	"strings"
)

var (
	pythonConstLine  = regexp.MustCompile(`^[A-Z_][A-Z0-9_]*\s*=`)
	pythonBlockStart = regexp.MustCompile(`^\s*(def|class|if|elif|else|for|while|with|try|except|finally|match|case|async)\b`)
	pythonMethodDef  = regexp.MustCompile(`^\s+(async\s+)?def\s+\w+\s*\(`)
)

// pythonStrategy implements the heuristics for Python-like indentation
// languages.
type pythonStrategy struct{}

func (pythonStrategy) IsInComment(line string, character int) bool {
	return hasCommentBefore(line, character, "#")
}

func (pythonStrategy) IsInString(line string, character int) bool {
	return oddUnescapedQuotes(line, character, "'\"")
}

// ExtractImports matches import/from lines plus module-level ALLCAPS
// constant assignments, which usually carry configuration worth showing the
// model.
func (pythonStrategy) ExtractImports(fullText string) string {
	return collectLines(fullText, func(trimmed string) bool {
		return strings.HasPrefix(trimmed, "import ") ||
			strings.HasPrefix(trimmed, "from ") ||
			pythonConstLine.MatchString(trimmed)
	})
}

func (s pythonStrategy) ExtractGlobalDeclarations(fullText string) string {
	decls := collectLines(fullText, func(trimmed string) bool {
		return strings.HasPrefix(trimmed, "class ") ||
			strings.HasPrefix(trimmed, "def ") ||
			strings.HasPrefix(trimmed, "async def ")
	})
	return joinBlocks(s.ExtractImports(fullText), decls)
}

// ExtractProjectSnippet keeps class headers and method signature lines.
func (pythonStrategy) ExtractProjectSnippet(fullText string) string {
	var matched []string
	for _, line := range SplitLines(fullText) {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "class ") ||
			strings.HasPrefix(trimmed, "def ") ||
			strings.HasPrefix(trimmed, "async def ") ||
			pythonMethodDef.MatchString(line) {
			matched = append(matched, line)
		}
	}
	return strings.Join(matched, "\n")
}

func (pythonStrategy) OpensBlock(line string) bool {
	return pythonBlockStart.MatchString(line) && endsWithAny(line, ":")
}

func (pythonStrategy) IsGoodCompletionSite(line string) bool {
	return endsWithAny(line, ":")
}
