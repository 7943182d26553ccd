package completion

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/bernabedev/autogem/providers/contracts"
	providerModels "github.com/bernabedev/autogem/providers/models"
	"github.com/bernabedev/autogem/telemetry"
	tokenContracts "github.com/bernabedev/autogem/token_management/contracts"
)

const defaultRequestTimeout = 15 * time.Second

// ErrRateLimited marks a request refused by the per-window call ceiling.
var ErrRateLimited = errors.New("completion rate limit reached")

// Outcome classifies how a pipeline request resolved.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeRateLimited
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeRateLimited:
		return "rate-limited"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Result is what a completion request resolves to. Suggestions is only
// populated on OutcomeSuccess; FromCache marks responses served without an
// upstream call.
type Result struct {
	Suggestions []string
	Outcome     Outcome
	FromCache   bool
}

// PipelineOptions tunes one pipeline instance.
type PipelineOptions struct {
	DebounceInterval     time.Duration
	RequestTimeout       time.Duration
	MaxRequestsPerMinute int
	CacheCapacity        uint64
	CacheTTL             time.Duration
}

// Pipeline shields the provider from editor-typing request volume. Requests
// pass, in order: a cache fast path, the trailing-call debouncer, the
// per-minute rate limiter, and an in-flight collapse keyed by prompt
// fingerprint, before reaching the provider under a hard timeout.
type Pipeline struct {
	provider  contracts.IGenerationProvider
	cache     *SuggestionCache
	limiter   *RateLimiter
	debouncer *Debouncer
	group     singleflight.Group
	timeout   time.Duration

	tokenManagement tokenContracts.ITokenManagement
	recorder        telemetry.Recorder
	logger          *zap.Logger
}

func NewPipeline(
	provider contracts.IGenerationProvider,
	opts PipelineOptions,
	tokenManagement tokenContracts.ITokenManagement,
	recorder telemetry.Recorder,
	logger *zap.Logger,
) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if recorder == nil {
		recorder = telemetry.NopRecorder{}
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Pipeline{
		provider:        provider,
		cache:           NewSuggestionCache(opts.CacheCapacity, opts.CacheTTL),
		limiter:         NewRateLimiter(opts.MaxRequestsPerMinute, time.Minute),
		debouncer:       NewDebouncer(opts.DebounceInterval),
		timeout:         timeout,
		tokenManagement: tokenManagement,
		recorder:        recorder,
		logger:          logger,
	}
}

// RequestCompletion resolves a prompt to suggestions. Cache hits return
// immediately without consulting the debouncer or the rate limiter. A
// refusal by the limiter and a cancellation by the caller are reported as
// outcomes, not errors; only upstream failures surface as errors.
func (p *Pipeline) RequestCompletion(ctx context.Context, prompt string, params providerModels.GenerationParams) (Result, error) {
	if suggestions, ok := p.cache.Get(prompt); ok {
		p.recordCacheHit()
		return Result{Suggestions: suggestions, Outcome: OutcomeSuccess, FromCache: true}, nil
	}

	suggestions, err := p.debouncer.Do(ctx, func(callCtx context.Context) ([]string, error) {
		return p.generate(callCtx, prompt, params)
	})
	switch {
	case err == nil:
	case errors.Is(err, ErrRateLimited):
		return Result{Outcome: OutcomeRateLimited}, nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded) && ctx.Err() != nil:
		return Result{Outcome: OutcomeCancelled}, nil
	default:
		return Result{}, err
	}

	// the caller may have gone away while the burst resolved
	if ctx.Err() != nil {
		return Result{Outcome: OutcomeCancelled}, nil
	}
	return Result{Suggestions: suggestions, Outcome: OutcomeSuccess}, nil
}

func (p *Pipeline) generate(ctx context.Context, prompt string, params providerModels.GenerationParams) ([]string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// a concurrent burst may have filled the cache while we debounced
	if suggestions, ok := p.cache.Get(prompt); ok {
		p.recordCacheHit()
		return suggestions, nil
	}

	value, err, shared := p.group.Do(Fingerprint(prompt), func() (interface{}, error) {
		if !p.limiter.Allow() {
			p.tokenManagement.RecordRateLimited()
			p.recorder.Count("completion.rate_limited", 1)
			p.logger.Debug("completion refused by rate limiter")
			return nil, ErrRateLimited
		}

		callCtx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()

		start := time.Now()
		suggestions, genErr := p.provider.GenerateContent(callCtx, prompt, params)
		p.recorder.Event("completion.upstream",
			zap.Duration("latency", time.Since(start)),
			zap.Bool("failed", genErr != nil),
		)
		if genErr != nil {
			return nil, genErr
		}
		p.cache.Put(prompt, suggestions)
		return suggestions, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		p.recorder.Count("completion.collapsed", 1)
	}
	return value.([]string), nil
}

// ClearCache drops all cached suggestions.
func (p *Pipeline) ClearCache() {
	p.cache.Clear()
}

// CacheLen reports how many suggestions are currently cached.
func (p *Pipeline) CacheLen() int {
	return p.cache.Len()
}

// Close releases the pipeline's background goroutines.
func (p *Pipeline) Close() {
	p.limiter.Stop()
	p.cache.Stop()
}

func (p *Pipeline) recordCacheHit() {
	p.tokenManagement.RecordCacheHit()
	p.recorder.Count("completion.cache_hit", 1)
}
