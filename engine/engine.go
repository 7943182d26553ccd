package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"go.uber.org/zap"

	analyzerContracts "github.com/bernabedev/autogem/code_analyzer/contracts"
	"github.com/bernabedev/autogem/code_analyzer/models"
	"github.com/bernabedev/autogem/completion"
	"github.com/bernabedev/autogem/config"
	"github.com/bernabedev/autogem/embed_data"
	"github.com/bernabedev/autogem/language"
	providerContracts "github.com/bernabedev/autogem/providers/contracts"
	providerModels "github.com/bernabedev/autogem/providers/models"
	"github.com/bernabedev/autogem/telemetry"
	tokenContracts "github.com/bernabedev/autogem/token_management/contracts"
)

var (
	ErrCompletionsDisabled = errors.New("completions are disabled")
	ErrLanguageDisabled    = errors.New("language is not enabled for completions")
	ErrNotTriggered        = errors.New("position does not warrant a completion")
)

// Mode selects which kind of generation a request asks for.
type Mode int

const (
	ModeInline Mode = iota
	ModeMultiline
	ModeDocumentation
	ModeExplanation
)

func (m Mode) String() string {
	switch m {
	case ModeInline:
		return "inline"
	case ModeMultiline:
		return "multiline"
	case ModeDocumentation:
		return "documentation"
	case ModeExplanation:
		return "explanation"
	default:
		return "unknown"
	}
}

type promptData struct {
	Language string
	Context  string
}

// Engine wires the trigger policy, context assembler, request pipeline and
// sanitizer into the operations an editor host calls. One Engine serves one
// workspace; all of its methods are safe for concurrent use.
type Engine struct {
	cfg             *config.Config
	registry        *language.Registry
	policy          *completion.Policy
	builder         analyzerContracts.IContextBuilder
	pipeline        *completion.Pipeline
	tokenManagement tokenContracts.ITokenManagement
	recorder        telemetry.Recorder
	logger          *zap.Logger

	templates map[Mode]*template.Template
}

func NewEngine(
	cfg *config.Config,
	provider providerContracts.IGenerationProvider,
	builder analyzerContracts.IContextBuilder,
	registry *language.Registry,
	tokenManagement tokenContracts.ITokenManagement,
	recorder telemetry.Recorder,
	logger *zap.Logger,
) (*Engine, error) {
	if cfg == nil || cfg.CompletionConfig == nil || cfg.AIProviderConfig == nil {
		return nil, errors.New("engine requires a fully populated configuration")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if recorder == nil {
		recorder = telemetry.NopRecorder{}
	}

	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	cc := cfg.CompletionConfig
	policy := completion.NewPolicy(registry, completion.TriggerOptions{
		TriggerCharacters: cc.TriggerCharacters,
		MultilineTriggers: cc.MultilineTriggers,
		MinTriggerLength:  cc.MinTriggerLength,
		SkipInComments:    cc.SkipInComments,
		SkipInStrings:     cc.SkipInStrings,
	})

	pipeline := completion.NewPipeline(provider, completion.PipelineOptions{
		DebounceInterval:     time.Duration(cc.DebounceMilliseconds) * time.Millisecond,
		RequestTimeout:       time.Duration(cc.RequestTimeoutSeconds) * time.Second,
		MaxRequestsPerMinute: cc.MaxRequestsPerMinute,
		CacheCapacity:        uint64(cc.CacheCapacity),
		CacheTTL:             time.Duration(cc.CacheTTLMinutes) * time.Minute,
	}, tokenManagement, recorder, logger)

	return &Engine{
		cfg:             cfg,
		registry:        registry,
		policy:          policy,
		builder:         builder,
		pipeline:        pipeline,
		tokenManagement: tokenManagement,
		recorder:        recorder,
		logger:          logger,
		templates:       templates,
	}, nil
}

func parseTemplates() (map[Mode]*template.Template, error) {
	sources := map[Mode][]byte{
		ModeInline:        embed_data.InlineCompletionPrompt,
		ModeMultiline:     embed_data.MultilineCompletionPrompt,
		ModeDocumentation: embed_data.DocumentationPrompt,
		ModeExplanation:   embed_data.ExplanationPrompt,
	}
	templates := make(map[Mode]*template.Template, len(sources))
	for mode, src := range sources {
		tmpl, err := template.New(mode.String()).Parse(string(src))
		if err != nil {
			return nil, fmt.Errorf("parsing %s prompt template: %w", mode, err)
		}
		templates[mode] = tmpl
	}
	return templates, nil
}

// Complete resolves a completion request at the snapshot's cursor. It runs
// the trigger policy first and reports ErrNotTriggered (wrapping the
// decision reason) when the site does not qualify; explicit requests always
// qualify for inline mode.
func (e *Engine) Complete(ctx context.Context, snapshot models.DocumentSnapshot, kind completion.TriggerKind, multiline bool) (*models.Proposal, error) {
	if err := e.gate(snapshot.LanguageID); err != nil {
		return nil, err
	}

	mode := ModeInline
	var decision completion.Decision
	if multiline {
		mode = ModeMultiline
		decision = e.policy.DecideMultiline(kind, snapshot)
	} else {
		decision = e.policy.Decide(kind, snapshot)
	}
	if !decision.Fire {
		return nil, fmt.Errorf("%w: %s", ErrNotTriggered, decision.Reason)
	}
	e.logger.Debug("completion triggered",
		zap.String("mode", mode.String()),
		zap.String("reason", string(decision.Reason)),
		zap.String("language", snapshot.LanguageID),
	)

	suggestions, err := e.generate(ctx, mode, snapshot)
	if err != nil {
		return nil, err
	}

	baseIndent := language.LeadingIndent(snapshot.CurrentLine())
	cleaned := make([]string, 0, len(suggestions))
	for _, raw := range suggestions {
		var text string
		if multiline {
			text = completion.SanitizeWithIndent(raw, baseIndent)
		} else {
			text = completion.Sanitize(raw)
		}
		if text != "" {
			cleaned = append(cleaned, text)
		}
	}
	maxSuggestions := e.cfg.CompletionConfig.MaxSuggestions
	if multiline {
		maxSuggestions = e.cfg.CompletionConfig.MaxMultilineSuggestions
	}
	if maxSuggestions > 0 && len(cleaned) > maxSuggestions {
		cleaned = cleaned[:maxSuggestions]
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("%w: model returned nothing usable", ErrNotTriggered)
	}

	return &models.Proposal{
		Text:        cleaned[0],
		Suggestions: cleaned,
		Line:        snapshot.Position.Line,
		Character:   snapshot.Position.Character,
	}, nil
}

// Document generates a documentation comment for the code under the cursor.
func (e *Engine) Document(ctx context.Context, snapshot models.DocumentSnapshot) (string, error) {
	if err := e.gate(snapshot.LanguageID); err != nil {
		return "", err
	}
	suggestions, err := e.generate(ctx, ModeDocumentation, snapshot)
	if err != nil {
		return "", err
	}
	for _, raw := range suggestions {
		if text := completion.Sanitize(raw); text != "" {
			return text, nil
		}
	}
	return "", errors.New("model returned no documentation")
}

// Explain describes the code around the cursor in prose. Unlike code
// output, explanations keep their paragraphs, so they are only trimmed.
func (e *Engine) Explain(ctx context.Context, snapshot models.DocumentSnapshot) (string, error) {
	if err := e.gate(snapshot.LanguageID); err != nil {
		return "", err
	}
	suggestions, err := e.generate(ctx, ModeExplanation, snapshot)
	if err != nil {
		return "", err
	}
	for _, raw := range suggestions {
		if text := strings.TrimSpace(raw); text != "" {
			return text, nil
		}
	}
	return "", errors.New("model returned no explanation")
}

func (e *Engine) generate(ctx context.Context, mode Mode, snapshot models.DocumentSnapshot) ([]string, error) {
	bundle, err := e.builder.BuildContext(ctx, snapshot, e.assembleOptions(mode))
	if err != nil {
		return nil, fmt.Errorf("assembling context: %w", err)
	}

	var prompt bytes.Buffer
	if err := e.templates[mode].Execute(&prompt, promptData{
		Language: snapshot.LanguageID,
		Context:  bundle.Assemble(),
	}); err != nil {
		return nil, fmt.Errorf("rendering %s prompt: %w", mode, err)
	}

	result, err := e.pipeline.RequestCompletion(ctx, prompt.String(), e.generationParams(mode))
	if err != nil {
		return nil, err
	}
	switch result.Outcome {
	case completion.OutcomeRateLimited:
		return nil, completion.ErrRateLimited
	case completion.OutcomeCancelled:
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, context.Canceled
	}
	return result.Suggestions, nil
}

func (e *Engine) gate(languageID string) error {
	cc := e.cfg.CompletionConfig
	if !cc.Enabled {
		return ErrCompletionsDisabled
	}
	if !languageEnabled(cc.EnabledLanguages, languageID) {
		return fmt.Errorf("%w: %s", ErrLanguageDisabled, languageID)
	}
	return nil
}

func languageEnabled(enabled []string, languageID string) bool {
	for _, id := range enabled {
		if id == "*" || strings.EqualFold(id, languageID) {
			return true
		}
	}
	return false
}

func (e *Engine) assembleOptions(mode Mode) models.AssembleOptions {
	cc := e.cfg.CompletionConfig
	opts := models.AssembleOptions{
		ContextLineCount:  cc.ContextLineCount,
		IncludeImports:    cc.IncludeImports,
		UseProjectContext: cc.UseProjectContext,
		MaxRelatedFiles:   cc.MaxRelatedFiles,
		MaxContextChars:   cc.MaxContextChars,
	}
	if mode != ModeInline {
		opts.ContextLineCount = cc.MultilineContextLineCount
		opts.UseProjectContext = cc.UseProjectContextForMultiline
		opts.MaxRelatedFiles = cc.MultilineMaxRelatedFiles
	}
	return opts
}

func (e *Engine) generationParams(mode Mode) providerModels.GenerationParams {
	cc := e.cfg.CompletionConfig
	params := providerModels.GenerationParams{
		Model:           e.cfg.AIProviderConfig.Model,
		MaxOutputTokens: int32(cc.MaxTokens),
		Temperature:     ptr(cc.Temperature),
		CandidateCount:  int32(cc.MaxSuggestions),
		SafetyThreshold: e.cfg.AIProviderConfig.SafetyThreshold,
	}
	if mode != ModeInline {
		params.MaxOutputTokens = int32(cc.MultilineMaxTokens)
		params.Temperature = ptr(cc.MultilineTemperature)
		params.CandidateCount = int32(cc.MaxMultilineSuggestions)
	}
	if mode == ModeInline {
		params.StopSequences = []string{"\n\n"}
	}
	return params
}

func ptr[T any](v T) *T { return &v }

// ClearCache drops all cached suggestions.
func (e *Engine) ClearCache() {
	e.pipeline.ClearCache()
}

// CacheLen reports the number of cached suggestion entries.
func (e *Engine) CacheLen() int {
	return e.pipeline.CacheLen()
}

// Close releases the engine's background resources.
func (e *Engine) Close() {
	e.pipeline.Close()
}
