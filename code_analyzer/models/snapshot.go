package models

import "strings"

// Position is a zero-based (line, character) cursor location.
type Position struct {
	Line      int
	Character int
}

// DocumentSnapshot is an immutable view of one document at the moment a
// completion request is made: full text, language id and cursor position.
// The snapshot is owned by the editor host; the engine only reads it for
// the duration of one request.
type DocumentSnapshot struct {
	Path       string
	LanguageID string
	Text       string
	Position   Position
}

// Lines returns the snapshot text split into lines, CRLF normalized.
func (d DocumentSnapshot) Lines() []string {
	if d.Text == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(d.Text, "\r\n", "\n"), "\n")
}

// CurrentLine returns the line under the cursor, or "" when the position is
// out of range.
func (d DocumentSnapshot) CurrentLine() string {
	lines := d.Lines()
	if d.Position.Line < 0 || d.Position.Line >= len(lines) {
		return ""
	}
	return lines[d.Position.Line]
}

// TextBeforeCursor returns the current line cut at the cursor column.
func (d DocumentSnapshot) TextBeforeCursor() string {
	line := d.CurrentLine()
	c := d.Position.Character
	if c < 0 {
		c = 0
	}
	if c > len(line) {
		c = len(line)
	}
	return line[:c]
}

// AssembleOptions carries the context-assembly budget and toggles for one
// request.
type AssembleOptions struct {
	ContextLineCount  int
	IncludeImports    bool
	UseProjectContext bool
	MaxRelatedFiles   int
	// MaxContextChars bounds the assembled bundle; 0 disables the cap.
	MaxContextChars int
}

// ContextBundle is the assembled prompt context in its fixed section order:
// imports, cross-file project context, enclosing scope, immediate
// pre-cursor window. Overlap between sections is intentional redundancy.
type ContextBundle struct {
	Imports        string
	ProjectContext string
	EnclosingScope string
	CursorWindow   string
}

// Assemble joins the non-empty sections with blank-line separators.
func (b ContextBundle) Assemble() string {
	var sections []string
	for _, s := range []string{b.Imports, b.ProjectContext, b.EnclosingScope, b.CursorWindow} {
		if strings.TrimSpace(s) != "" {
			sections = append(sections, s)
		}
	}
	return strings.Join(sections, "\n\n")
}

// Proposal is a completion returned to the editor host: text proposed for
// pure insertion at the cursor (empty range, no replacement).
type Proposal struct {
	Text        string
	Suggestions []string
	Line        int
	Character   int
}
