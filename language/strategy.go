package language

import "strings"

// Strategy is the heuristic capability set for one language id. All methods
// are pure, line-oriented text heuristics; none of them parse. Malformed
// input degrades to false/empty, never panics.
type Strategy interface {
	// IsInComment reports whether the cursor column sits after a comment
	// opener on the current line. Block comments spanning lines are not
	// tracked.
	IsInComment(line string, character int) bool
	// IsInString reports whether the cursor sits inside an unterminated
	// quote span on the current line. Multi-line strings are not tracked.
	IsInString(line string, character int) bool
	// ExtractImports returns the import/declaration prologue lines of the
	// file, original order preserved, joined as one block.
	ExtractImports(fullText string) string
	// ExtractGlobalDeclarations returns imports plus top-level declarations.
	ExtractGlobalDeclarations(fullText string) string
	// ExtractProjectSnippet is the narrower declaration extractor used for
	// cross-file context.
	ExtractProjectSnippet(fullText string) string
	// OpensBlock reports whether the line introduces a nested block.
	OpensBlock(line string) bool
	// IsGoodCompletionSite reports whether the line ends in a pattern
	// indicating a block is about to begin.
	IsGoodCompletionSite(line string) bool
}

// Registry maps language ids to strategies. Unknown ids resolve to a plain
// strategy whose heuristics all degrade to false/empty, so callers never
// need to special-case unsupported languages.
type Registry struct {
	byID     map[string]Strategy
	fallback Strategy
}

// NewRegistry returns a registry with the built-in languages registered.
func NewRegistry() *Registry {
	r := &Registry{
		byID:     make(map[string]Strategy),
		fallback: plainStrategy{},
	}

	cFamily := newCFamilyStrategy()
	for _, id := range []string{"javascript", "javascriptreact", "typescript", "typescriptreact", "java", "c", "cpp", "csharp"} {
		r.Register(id, cFamily)
	}
	r.Register("python", pythonStrategy{})
	r.Register("go", goStrategy{})
	r.Register("rust", rustStrategy{})

	markup := markupStrategy{}
	for _, id := range []string{"html", "xml", "markdown"} {
		r.Register(id, markup)
	}
	return r
}

// Register adds or replaces the strategy for a language id.
func (r *Registry) Register(id string, s Strategy) {
	r.byID[strings.ToLower(id)] = s
}

// Lookup resolves a language id, falling back to the plain strategy.
func (r *Registry) Lookup(id string) Strategy {
	if s, ok := r.byID[strings.ToLower(id)]; ok {
		return s
	}
	return r.fallback
}

// Known reports whether the language id has a registered strategy.
func (r *Registry) Known(id string) bool {
	_, ok := r.byID[strings.ToLower(id)]
	return ok
}

// scopeFallbackLines bounds the backward walk of ExtractEnclosingScope; when
// no block opener is found within this many lines the walk stops and the
// last scopeFallbackLines lines are returned verbatim.
const scopeFallbackLines = 30

// ExtractEnclosingScope walks backward from the cursor line looking for a
// line with strictly smaller indentation that opens a block, and returns
// every line from there to the cursor. The walk is bounded by
// scopeFallbackLines, which guarantees termination on arbitrarily large
// documents.
func ExtractEnclosingScope(s Strategy, fullText string, line int) string {
	lines := SplitLines(fullText)
	if len(lines) == 0 {
		return ""
	}
	if line < 0 || line >= len(lines) {
		return ""
	}

	cursorIndent := indentWidth(lines[line])
	examined := 0
	for i := line - 1; i >= 0 && examined < scopeFallbackLines; i-- {
		examined++
		candidate := lines[i]
		if strings.TrimSpace(candidate) == "" {
			continue
		}
		if indentWidth(candidate) >= cursorIndent {
			continue
		}
		if s.OpensBlock(candidate) {
			return strings.Join(lines[i:line+1], "\n")
		}
	}

	start := line + 1 - scopeFallbackLines
	if start < 0 {
		start = 0
	}
	return strings.Join(lines[start:line+1], "\n")
}
