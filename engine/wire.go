package engine

import (
	"context"

	"go.uber.org/zap"

	analyzerContracts "github.com/bernabedev/autogem/code_analyzer/contracts"
	"github.com/bernabedev/autogem/config"
	"github.com/bernabedev/autogem/language"
	"github.com/bernabedev/autogem/providers"
	"github.com/bernabedev/autogem/telemetry"
	tokenContracts "github.com/bernabedev/autogem/token_management/contracts"
)

// Wire builds the configured generation provider and a ready-to-use Engine
// around it. It fails when the provider cannot be constructed, including
// when no API key is configured.
func Wire(
	ctx context.Context,
	cfg *config.Config,
	registry *language.Registry,
	builder analyzerContracts.IContextBuilder,
	tokenManagement tokenContracts.ITokenManagement,
	recorder telemetry.Recorder,
	logger *zap.Logger,
) (*Engine, error) {
	provider, err := providers.GenerationProviderFactory(ctx, cfg.AIProviderConfig, tokenManagement)
	if err != nil {
		return nil, err
	}
	return NewEngine(cfg, provider, builder, registry, tokenManagement, recorder, logger)
}
