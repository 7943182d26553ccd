package code_analyzer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bernabedev/autogem/code_analyzer/models"
	"github.com/bernabedev/autogem/language"
)

// fakeDiscovery and fakeLoader stand in for the editor host collaborators.
type fakeDiscovery struct {
	paths []string
	err   error
}

func (f fakeDiscovery) RelatedFiles(context.Context, string, string, string, int) ([]string, error) {
	return f.paths, f.err
}

type fakeLoader struct {
	docs map[string]string
}

func (f fakeLoader) LoadDocument(_ context.Context, path string) (string, error) {
	if text, ok := f.docs[path]; ok {
		return text, nil
	}
	return "", errors.New("not found")
}

func snapshotAtEnd(languageID, text string) models.DocumentSnapshot {
	lines := strings.Split(text, "\n")
	last := len(lines) - 1
	return models.DocumentSnapshot{
		Path:       "main.src",
		LanguageID: languageID,
		Text:       text,
		Position:   models.Position{Line: last, Character: len(lines[last])},
	}
}

func TestBuildContext_SectionOrderIsFixed(t *testing.T) {
	src := strings.Join([]string{
		`import { api } from "./api";`,
		``,
		`function handler() {`,
		`  const result = `,
	}, "\n")
	snapshot := snapshotAtEnd("typescript", src)

	assembler := NewContextAssembler(language.NewRegistry(),
		fakeDiscovery{paths: []string{"other.ts"}},
		fakeLoader{docs: map[string]string{"other.ts": "export interface Api {\n  fetch(): void;\n}"}},
		"", zap.NewNop())

	bundle, err := assembler.BuildContext(context.Background(), snapshot, models.AssembleOptions{
		ContextLineCount:  20,
		IncludeImports:    true,
		UseProjectContext: true,
		MaxRelatedFiles:   3,
	})
	require.NoError(t, err)

	assembled := bundle.Assemble()
	importsIdx := strings.Index(assembled, `import { api }`)
	projectIdx := strings.Index(assembled, "// File: other.ts")
	scopeIdx := strings.Index(assembled, "function handler() {")
	require.True(t, importsIdx >= 0 && projectIdx >= 0 && scopeIdx >= 0, "all sections present:\n%s", assembled)
	assert.Less(t, importsIdx, projectIdx)
	assert.Less(t, projectIdx, scopeIdx)
}

func TestBuildContext_EmptySectionsOmitted(t *testing.T) {
	snapshot := snapshotAtEnd("typescript", "const x = ")

	assembler := NewContextAssembler(language.NewRegistry(), nil, nil, "", zap.NewNop())
	bundle, err := assembler.BuildContext(context.Background(), snapshot, models.AssembleOptions{
		ContextLineCount: 10,
		IncludeImports:   true,
	})
	require.NoError(t, err)

	assert.Empty(t, bundle.Imports)
	assert.Empty(t, bundle.ProjectContext)
	// No blank-line separator runs from omitted sections.
	assert.NotContains(t, bundle.Assemble(), "\n\n\n")
}

func TestBuildContext_UnreadableRelatedFileIsSkipped(t *testing.T) {
	snapshot := snapshotAtEnd("typescript", "const x = ")

	assembler := NewContextAssembler(language.NewRegistry(),
		fakeDiscovery{paths: []string{"gone.ts"}},
		fakeLoader{docs: map[string]string{}},
		"", zap.NewNop())

	bundle, err := assembler.BuildContext(context.Background(), snapshot, models.AssembleOptions{
		ContextLineCount:  10,
		UseProjectContext: true,
		MaxRelatedFiles:   3,
	})
	require.NoError(t, err)
	assert.Empty(t, bundle.ProjectContext)
}

func TestBuildContext_CancelledDuringProjectLoad(t *testing.T) {
	snapshot := snapshotAtEnd("typescript", "const x = ")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assembler := NewContextAssembler(language.NewRegistry(),
		fakeDiscovery{paths: []string{"other.ts"}},
		fakeLoader{docs: map[string]string{"other.ts": "export class A {}"}},
		"", zap.NewNop())

	_, err := assembler.BuildContext(ctx, snapshot, models.AssembleOptions{
		ContextLineCount:  10,
		UseProjectContext: true,
		MaxRelatedFiles:   3,
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCursorWindow_CutsAtCursorColumn(t *testing.T) {
	snapshot := models.DocumentSnapshot{
		LanguageID: "python",
		Text:       "a = 1\nb = 2\nc = something_long",
		Position:   models.Position{Line: 2, Character: 5},
	}

	got := cursorWindow(snapshot, 2)
	assert.Equal(t, "b = 2\nc = s", got)
}

func TestEnforceBudget_DropsOldestWindowLinesFirst(t *testing.T) {
	var windowLines []string
	for i := 0; i < 40; i++ {
		windowLines = append(windowLines, strings.Repeat("x", 20))
	}
	bundle := models.ContextBundle{
		Imports:      "import os",
		CursorWindow: strings.Join(windowLines, "\n"),
	}

	enforceBudget(&bundle, 300)

	assert.LessOrEqual(t, len(bundle.Assemble()), 300)
	// Imports survive; only window lines were dropped.
	assert.Equal(t, "import os", bundle.Imports)
	assert.Less(t, len(strings.Split(bundle.CursorWindow, "\n")), 40)
}

func TestEnforceBudget_NeverDropsCursorAdjacentTail(t *testing.T) {
	var windowLines []string
	for i := 0; i < 15; i++ {
		windowLines = append(windowLines, strings.Repeat("y", 50))
	}
	bundle := models.ContextBundle{CursorWindow: strings.Join(windowLines, "\n")}

	// Budget far below what the minimum window occupies.
	enforceBudget(&bundle, 10)

	assert.Len(t, strings.Split(bundle.CursorWindow, "\n"), minCursorWindowLines)
}
