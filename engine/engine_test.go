package engine

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bernabedev/autogem/code_analyzer/models"
	"github.com/bernabedev/autogem/completion"
	"github.com/bernabedev/autogem/config"
	"github.com/bernabedev/autogem/language"
	providerModels "github.com/bernabedev/autogem/providers/models"
	"github.com/bernabedev/autogem/token_management"
)

type stubProvider struct {
	calls       int32
	lastPrompt  atomic.Value
	lastParams  atomic.Value
	suggestions []string
	err         error
}

func (s *stubProvider) GenerateContent(ctx context.Context, prompt string, params providerModels.GenerationParams) ([]string, error) {
	atomic.AddInt32(&s.calls, 1)
	s.lastPrompt.Store(prompt)
	s.lastParams.Store(params)
	if s.err != nil {
		return nil, s.err
	}
	return s.suggestions, nil
}

func (s *stubProvider) Name() string         { return "stub" }
func (s *stubProvider) DefaultModel() string { return "stub-model" }

type stubBuilder struct {
	bundle models.ContextBundle
	echo   bool
	err    error
}

func (s *stubBuilder) BuildContext(ctx context.Context, snapshot models.DocumentSnapshot, opts models.AssembleOptions) (models.ContextBundle, error) {
	if s.echo {
		return models.ContextBundle{CursorWindow: snapshot.Text}, s.err
	}
	return s.bundle, s.err
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig
	cc := *config.DefaultConfig.CompletionConfig
	pc := *config.DefaultConfig.AIProviderConfig
	cc.DebounceMilliseconds = 5
	pc.ApiKey = "test-key"
	cfg.CompletionConfig = &cc
	cfg.AIProviderConfig = &pc
	return &cfg
}

func newTestEngine(t *testing.T, cfg *config.Config, provider *stubProvider, builder *stubBuilder) *Engine {
	t.Helper()
	eng, err := NewEngine(cfg, provider, builder, language.NewRegistry(), token_management.NewTokenManager(), nil, nil)
	require.NoError(t, err)
	t.Cleanup(eng.Close)
	return eng
}

func pythonSnapshot(text string, line, character int) models.DocumentSnapshot {
	return models.DocumentSnapshot{
		Path:       "main.py",
		LanguageID: "python",
		Text:       text,
		Position:   models.Position{Line: line, Character: character},
	}
}

func TestCompleteExplicitReturnsSanitizedProposal(t *testing.T) {
	provider := &stubProvider{suggestions: []string{"```python\nreturn sum(items)\n```"}}
	builder := &stubBuilder{bundle: models.ContextBundle{CursorWindow: "def total(items):\n    "}}
	eng := newTestEngine(t, testConfig(), provider, builder)

	snapshot := pythonSnapshot("def total(items):\n    ", 1, 4)
	proposal, err := eng.Complete(context.Background(), snapshot, completion.TriggerExplicit, false)
	require.NoError(t, err)

	assert.Equal(t, "return sum(items)", proposal.Text)
	assert.Equal(t, 1, proposal.Line)
	assert.Equal(t, 4, proposal.Character)
}

func TestCompleteAutomaticNotTriggeredOnBlankLine(t *testing.T) {
	provider := &stubProvider{suggestions: []string{"x"}}
	eng := newTestEngine(t, testConfig(), provider, &stubBuilder{})

	snapshot := pythonSnapshot("def total(items):\n    ", 1, 4)
	_, err := eng.Complete(context.Background(), snapshot, completion.TriggerAutomatic, false)
	assert.ErrorIs(t, err, ErrNotTriggered)
	assert.Equal(t, int32(0), atomic.LoadInt32(&provider.calls))
}

func TestCompleteDisabledShortCircuits(t *testing.T) {
	cfg := testConfig()
	cfg.CompletionConfig.Enabled = false
	provider := &stubProvider{suggestions: []string{"x"}}
	eng := newTestEngine(t, cfg, provider, &stubBuilder{})

	_, err := eng.Complete(context.Background(), pythonSnapshot("code", 0, 4), completion.TriggerExplicit, false)
	assert.ErrorIs(t, err, ErrCompletionsDisabled)
	assert.Equal(t, int32(0), atomic.LoadInt32(&provider.calls))
}

func TestCompleteRespectsEnabledLanguages(t *testing.T) {
	cfg := testConfig()
	cfg.CompletionConfig.EnabledLanguages = []string{"go", "rust"}
	provider := &stubProvider{suggestions: []string{"x"}}
	eng := newTestEngine(t, cfg, provider, &stubBuilder{})

	_, err := eng.Complete(context.Background(), pythonSnapshot("code", 0, 4), completion.TriggerExplicit, false)
	assert.ErrorIs(t, err, ErrLanguageDisabled)

	goSnapshot := models.DocumentSnapshot{
		Path:       "main.go",
		LanguageID: "go",
		Text:       "x := compute(",
		Position:   models.Position{Line: 0, Character: 13},
	}
	_, err = eng.Complete(context.Background(), goSnapshot, completion.TriggerExplicit, false)
	assert.NoError(t, err)
}

func TestCompleteMultilineReindentsToCursor(t *testing.T) {
	provider := &stubProvider{suggestions: []string{"foo() {\nbar();\n}"}}
	builder := &stubBuilder{bundle: models.ContextBundle{CursorWindow: "class A {"}}
	eng := newTestEngine(t, testConfig(), provider, builder)

	snapshot := models.DocumentSnapshot{
		Path:       "a.ts",
		LanguageID: "typescript",
		Text:       "class A {\n  method() {",
		Position:   models.Position{Line: 1, Character: 12},
	}
	proposal, err := eng.Complete(context.Background(), snapshot, completion.TriggerExplicit, true)
	require.NoError(t, err)
	assert.Equal(t, "foo() {\n  bar();\n  }", proposal.Text)
}

func TestCompletePromptCarriesLanguageAndContext(t *testing.T) {
	provider := &stubProvider{suggestions: []string{"done"}}
	builder := &stubBuilder{bundle: models.ContextBundle{
		Imports:      "import os",
		CursorWindow: "def run():",
	}}
	eng := newTestEngine(t, testConfig(), provider, builder)

	_, err := eng.Complete(context.Background(), pythonSnapshot("def run():", 0, 10), completion.TriggerExplicit, false)
	require.NoError(t, err)

	prompt, _ := provider.lastPrompt.Load().(string)
	assert.Contains(t, prompt, "python")
	assert.Contains(t, prompt, "import os")
	assert.Contains(t, prompt, "def run():")
}

func TestCompleteRateLimitedSurfacesSentinel(t *testing.T) {
	cfg := testConfig()
	cfg.CompletionConfig.MaxRequestsPerMinute = 1
	provider := &stubProvider{suggestions: []string{"ok"}}
	eng := newTestEngine(t, cfg, provider, &stubBuilder{echo: true})

	first := pythonSnapshot("value = compute(", 0, 16)
	_, err := eng.Complete(context.Background(), first, completion.TriggerExplicit, false)
	require.NoError(t, err)

	second := pythonSnapshot("other = recompute(", 0, 18)
	_, err = eng.Complete(context.Background(), second, completion.TriggerExplicit, false)
	assert.ErrorIs(t, err, completion.ErrRateLimited)
}

func TestMultilineUsesOwnSuggestionBudget(t *testing.T) {
	cfg := testConfig()
	cfg.CompletionConfig.MaxSuggestions = 2
	cfg.CompletionConfig.MaxMultilineSuggestions = 1
	provider := &stubProvider{suggestions: []string{"foo() {\na();\n}", "bar() {\nb();\n}"}}
	eng := newTestEngine(t, cfg, provider, &stubBuilder{echo: true})

	multilineSnapshot := models.DocumentSnapshot{
		Path:       "a.ts",
		LanguageID: "typescript",
		Text:       "class A {\n  method() {",
		Position:   models.Position{Line: 1, Character: 12},
	}
	proposal, err := eng.Complete(context.Background(), multilineSnapshot, completion.TriggerExplicit, true)
	require.NoError(t, err)
	assert.Len(t, proposal.Suggestions, 1)

	params, _ := provider.lastParams.Load().(providerModels.GenerationParams)
	assert.Equal(t, int32(1), params.CandidateCount)
	assert.Equal(t, int32(cfg.CompletionConfig.MultilineMaxTokens), params.MaxOutputTokens)

	// an inline request keeps its own candidate count
	proposal, err = eng.Complete(context.Background(), pythonSnapshot("value = compute(", 0, 16), completion.TriggerExplicit, false)
	require.NoError(t, err)
	assert.Len(t, proposal.Suggestions, 2)

	params, _ = provider.lastParams.Load().(providerModels.GenerationParams)
	assert.Equal(t, int32(2), params.CandidateCount)
	assert.Equal(t, int32(cfg.CompletionConfig.MaxTokens), params.MaxOutputTokens)
}

func TestExplainKeepsParagraphs(t *testing.T) {
	explanation := "This function sums a list.\n\nIt iterates once and accumulates."
	provider := &stubProvider{suggestions: []string{explanation}}
	eng := newTestEngine(t, testConfig(), provider, &stubBuilder{bundle: models.ContextBundle{CursorWindow: "def total"}})

	got, err := eng.Explain(context.Background(), pythonSnapshot("def total(items):", 0, 17))
	require.NoError(t, err)
	assert.Equal(t, explanation, got)
	assert.True(t, strings.Contains(got, "\n\n"))
}

func TestDocumentSanitizesFences(t *testing.T) {
	provider := &stubProvider{suggestions: []string{"```\n# Sums the items in one pass.\n```"}}
	eng := newTestEngine(t, testConfig(), provider, &stubBuilder{bundle: models.ContextBundle{CursorWindow: "def total"}})

	got, err := eng.Document(context.Background(), pythonSnapshot("def total(items):", 0, 17))
	require.NoError(t, err)
	assert.Equal(t, "# Sums the items in one pass.", got)
}
