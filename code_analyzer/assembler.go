package code_analyzer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/bernabedev/autogem/code_analyzer/contracts"
	"github.com/bernabedev/autogem/code_analyzer/models"
	"github.com/bernabedev/autogem/language"
)

// minCursorWindowLines is the cursor-adjacent tail that budget enforcement
// never drops.
const minCursorWindowLines = 10

// ContextAssembler builds the prompt context bundle from a document
// snapshot: imports, cross-file declarations, enclosing scope and the
// immediate pre-cursor window, in that fixed order.
type ContextAssembler struct {
	registry      *language.Registry
	discovery     contracts.IFileDiscovery
	loader        contracts.IDocumentLoader
	workspaceRoot string
	logger        *zap.Logger
}

// NewContextAssembler initializes a new assembler. discovery and loader may
// be nil, which disables cross-file project context.
func NewContextAssembler(registry *language.Registry, discovery contracts.IFileDiscovery, loader contracts.IDocumentLoader, workspaceRoot string, logger *zap.Logger) contracts.IContextBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContextAssembler{
		registry:      registry,
		discovery:     discovery,
		loader:        loader,
		workspaceRoot: workspaceRoot,
		logger:        logger,
	}
}

func (a *ContextAssembler) BuildContext(ctx context.Context, snapshot models.DocumentSnapshot, opts models.AssembleOptions) (models.ContextBundle, error) {
	strategy := a.registry.Lookup(snapshot.LanguageID)

	bundle := models.ContextBundle{
		EnclosingScope: language.ExtractEnclosingScope(strategy, snapshot.Text, snapshot.Position.Line),
		CursorWindow:   cursorWindow(snapshot, opts.ContextLineCount),
	}
	if opts.IncludeImports {
		bundle.Imports = strategy.ExtractImports(snapshot.Text)
	}
	if opts.UseProjectContext {
		project, err := a.projectContext(ctx, snapshot, strategy, opts.MaxRelatedFiles)
		if err != nil {
			return models.ContextBundle{}, err
		}
		bundle.ProjectContext = project
	}

	enforceBudget(&bundle, opts.MaxContextChars)
	return bundle, nil
}

// projectContext extracts declaration snippets from sibling files of the
// same language, each labeled with its workspace-relative path. Load
// failures are logged and skipped; only cancellation aborts the assembly.
func (a *ContextAssembler) projectContext(ctx context.Context, snapshot models.DocumentSnapshot, strategy language.Strategy, maxFiles int) (string, error) {
	if a.discovery == nil || a.loader == nil || maxFiles <= 0 {
		return "", nil
	}

	paths, err := a.discovery.RelatedFiles(ctx, a.workspaceRoot, snapshot.LanguageID, snapshot.Path, maxFiles)
	if err != nil {
		a.logger.Debug("related file discovery failed", zap.Error(err))
		return "", nil
	}

	var sections []string
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := a.loader.LoadDocument(ctx, path)
		if err != nil {
			a.logger.Debug("skipping unreadable related file", zap.String("path", path), zap.Error(err))
			continue
		}
		snippet := strategy.ExtractProjectSnippet(text)
		if strings.TrimSpace(snippet) == "" {
			continue
		}
		rel := path
		if a.workspaceRoot != "" {
			if r, err := filepath.Rel(a.workspaceRoot, path); err == nil {
				rel = filepath.ToSlash(r)
			}
		}
		sections = append(sections, fmt.Sprintf("// File: %s\n%s", rel, snippet))
	}
	return strings.Join(sections, "\n\n"), nil
}

// cursorWindow returns the last lineCount lines ending at the cursor, with
// the cursor line cut at the cursor column.
func cursorWindow(snapshot models.DocumentSnapshot, lineCount int) string {
	lines := snapshot.Lines()
	if len(lines) == 0 || lineCount <= 0 {
		return ""
	}
	line := snapshot.Position.Line
	if line < 0 {
		return ""
	}
	if line >= len(lines) {
		line = len(lines) - 1
	}

	window := make([]string, 0, lineCount)
	start := line - lineCount + 1
	if start < 0 {
		start = 0
	}
	window = append(window, lines[start:line]...)
	window = append(window, snapshot.TextBeforeCursor())
	return strings.Join(window, "\n")
}

// enforceBudget trims the assembled bundle down to maxChars by dropping the
// oldest lines of the cursor window first. Cursor-adjacent text is never
// dropped: once the window is down to minCursorWindowLines the bundle is
// allowed to exceed the budget.
func enforceBudget(bundle *models.ContextBundle, maxChars int) {
	if maxChars <= 0 {
		return
	}
	for len(bundle.Assemble()) > maxChars {
		lines := strings.Split(bundle.CursorWindow, "\n")
		if len(lines) <= minCursorWindowLines {
			return
		}
		bundle.CursorWindow = strings.Join(lines[1:], "\n")
	}
}
