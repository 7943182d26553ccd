package language

import (
	"regexp"
	"strings"
)

var markupOpenTag = regexp.MustCompile(`<[A-Za-z][^>]*>\s*$`)

// markupStrategy covers HTML, XML and Markdown. There is no import or
// declaration concept worth extracting, so those heuristics degrade to
// empty blocks.
type markupStrategy struct{}

// IsInComment reports whether the cursor sits inside an unterminated
// <!-- --> span on the current line.
func (markupStrategy) IsInComment(line string, character int) bool {
	before := line[:clampColumn(line, character)]
	open := strings.LastIndex(before, "<!--")
	if open < 0 {
		return false
	}
	return !strings.Contains(before[open:], "-->")
}

func (markupStrategy) IsInString(line string, character int) bool {
	return oddUnescapedQuotes(line, character, "'\"")
}

func (markupStrategy) ExtractImports(string) string { return "" }

func (markupStrategy) ExtractGlobalDeclarations(string) string { return "" }

func (markupStrategy) ExtractProjectSnippet(string) string { return "" }

// OpensBlock treats a trailing non-self-closing opening tag as a block
// opener.
func (markupStrategy) OpensBlock(line string) bool {
	trimmed := strings.TrimRight(line, " \t")
	if strings.HasSuffix(trimmed, "/>") {
		return false
	}
	open := strings.LastIndex(trimmed, "<")
	if open >= 0 && strings.HasPrefix(trimmed[open:], "</") {
		return false
	}
	return markupOpenTag.MatchString(line)
}

func (markupStrategy) IsGoodCompletionSite(line string) bool {
	return endsWithAny(line, ">")
}

// plainStrategy is the fallback for unknown language ids: every heuristic
// degrades to false/empty so callers keep making forward progress.
type plainStrategy struct{}

func (plainStrategy) IsInComment(string, int) bool        { return false }
func (plainStrategy) IsInString(string, int) bool         { return false }
func (plainStrategy) ExtractImports(string) string        { return "" }
func (plainStrategy) ExtractGlobalDeclarations(string) string { return "" }
func (plainStrategy) ExtractProjectSnippet(string) string { return "" }
func (plainStrategy) OpensBlock(string) bool              { return false }
func (plainStrategy) IsGoodCompletionSite(string) bool    { return false }
