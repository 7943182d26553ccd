package language

import (
	"regexp"
	"strings"
)

// cFamilyStrategy covers the brace-and-// languages: JavaScript, TypeScript
// (and their React dialects), Java, C, C++ and C#. The declaration
// extractors lean toward the TypeScript shapes since those dominate the
// editor traffic, but they behave sanely on the rest of the family.
type cFamilyStrategy struct {
	declHeader *regexp.Regexp
	methodSig  *regexp.Regexp
	constLine  *regexp.Regexp
}

func newCFamilyStrategy() cFamilyStrategy {
	return cFamilyStrategy{
		declHeader: regexp.MustCompile(`^\s*(export\s+)?(declare\s+)?(default\s+)?(abstract\s+)?(interface|type|class|enum)\s+[A-Za-z_$][\w$]*`),
		methodSig:  regexp.MustCompile(`^\s*(public\s+|private\s+|protected\s+|static\s+|async\s+|override\s+)*[A-Za-z_$][\w$]*\s*(<[^>]*>)?\([^)]*\)\s*(:\s*[^{;]+)?[{;]\s*$`),
		constLine:  regexp.MustCompile(`^\s*(export\s+)?const\s+[A-Z_][A-Z0-9_]*\s*=`),
	}
}

func (cFamilyStrategy) IsInComment(line string, character int) bool {
	return hasCommentBefore(line, character, "//")
}

func (cFamilyStrategy) IsInString(line string, character int) bool {
	return oddUnescapedQuotes(line, character, "'\"`")
}

func (cFamilyStrategy) ExtractImports(fullText string) string {
	return collectLines(fullText, func(trimmed string) bool {
		return strings.HasPrefix(trimmed, "import ") ||
			strings.HasPrefix(trimmed, "import{") ||
			strings.HasPrefix(trimmed, "export ") ||
			strings.Contains(trimmed, "require(")
	})
}

// ExtractGlobalDeclarations returns the import block plus the text of every
// top-level interface/type/class/enum declaration, tracked via brace-depth
// balancing from the declaration header until the braces close again.
func (s cFamilyStrategy) ExtractGlobalDeclarations(fullText string) string {
	var decls []string
	lines := SplitLines(fullText)
	for i := 0; i < len(lines); i++ {
		if !s.declHeader.MatchString(lines[i]) {
			continue
		}
		depth := braceDelta(lines[i])
		end := i
		for depth > 0 && end+1 < len(lines) {
			end++
			depth += braceDelta(lines[end])
		}
		decls = append(decls, strings.Join(lines[i:end+1], "\n"))
		i = end
	}
	return joinBlocks(s.ExtractImports(fullText), strings.Join(decls, "\n\n"))
}

// ExtractProjectSnippet keeps only declaration headers, member signatures
// and ALLCAPS constants, which is the shape wanted for cross-file context.
func (s cFamilyStrategy) ExtractProjectSnippet(fullText string) string {
	var matched []string
	inDecl := false
	depth := 0
	for _, line := range SplitLines(fullText) {
		switch {
		case s.declHeader.MatchString(line):
			matched = append(matched, line)
			inDecl = true
			depth = braceDelta(line)
		case inDecl:
			depth += braceDelta(line)
			if s.methodSig.MatchString(line) {
				matched = append(matched, line)
			}
			if depth <= 0 {
				inDecl = false
			}
		case s.constLine.MatchString(line):
			matched = append(matched, line)
		}
	}
	return strings.Join(matched, "\n")
}

func (cFamilyStrategy) OpensBlock(line string) bool {
	return endsWithAny(line, "{", "=>")
}

func (cFamilyStrategy) IsGoodCompletionSite(line string) bool {
	return endsWithAny(line, "{", "=>")
}

// braceDelta returns the net brace depth change contributed by a line.
// Braces inside strings or comments are counted too; acceptable for a
// heuristic extractor.
func braceDelta(line string) int {
	return strings.Count(line, "{") - strings.Count(line, "}")
}
