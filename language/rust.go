package language

import (
	"regexp"
	"strings"
)

var rustDeclLine = regexp.MustCompile(`^\s*(pub(\([^)]*\))?\s+)?(fn|struct|enum|trait|impl|const|static|type|mod)\b`)

// rustStrategy implements the heuristics for Rust. Single quotes are left
// out of the string heuristic because lifetimes ('a) would make every
// generic signature look like an open string.
type rustStrategy struct{}

func (rustStrategy) IsInComment(line string, character int) bool {
	return hasCommentBefore(line, character, "//")
}

func (rustStrategy) IsInString(line string, character int) bool {
	return oddUnescapedQuotes(line, character, "\"")
}

// ExtractImports matches use declarations, extern crate lines and
// item/file-level attributes.
func (rustStrategy) ExtractImports(fullText string) string {
	return collectLines(fullText, func(trimmed string) bool {
		return strings.HasPrefix(trimmed, "use ") ||
			strings.HasPrefix(trimmed, "extern crate ") ||
			strings.HasPrefix(trimmed, "#[") ||
			strings.HasPrefix(trimmed, "#![")
	})
}

func (s rustStrategy) ExtractGlobalDeclarations(fullText string) string {
	decls := collectLines(fullText, func(trimmed string) bool {
		return rustDeclLine.MatchString(trimmed)
	})
	return joinBlocks(s.ExtractImports(fullText), decls)
}

func (rustStrategy) ExtractProjectSnippet(fullText string) string {
	return collectLines(fullText, func(trimmed string) bool {
		return rustDeclLine.MatchString(trimmed)
	})
}

func (rustStrategy) OpensBlock(line string) bool {
	return endsWithAny(line, "{")
}

func (rustStrategy) IsGoodCompletionSite(line string) bool {
	return endsWithAny(line, "{", "=>")
}
