package providers

import (
	"context"
	"fmt"

	"github.com/bernabedev/autogem/providers/contracts"
	"github.com/bernabedev/autogem/providers/gemini"
	contracts2 "github.com/bernabedev/autogem/token_management/contracts"
)

// AIProviderConfig represents the generation-model section of the
// configuration file.
type AIProviderConfig struct {
	Provider        string `mapstructure:"provider"`
	ApiKey          string `mapstructure:"api_key"`
	Model           string `mapstructure:"model"`
	SafetyThreshold string `mapstructure:"safety_threshold"`
}

// GenerationProviderFactory creates the configured generation provider.
func GenerationProviderFactory(ctx context.Context, config *AIProviderConfig, tokenManagement contracts2.ITokenManagement) (contracts.IGenerationProvider, error) {
	switch config.Provider {
	case "", "gemini":
		return gemini.NewGeminiProvider(ctx, &gemini.GeminiConfig{
			ApiKey:          config.ApiKey,
			Model:           config.Model,
			TokenManagement: tokenManagement,
		})
	default:
		return nil, fmt.Errorf("unsupported provider: %s", config.Provider)
	}
}
