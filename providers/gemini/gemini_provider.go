package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/bernabedev/autogem/providers/contracts"
	"github.com/bernabedev/autogem/providers/models"
	contracts2 "github.com/bernabedev/autogem/token_management/contracts"
)

const defaultModel = "gemini-1.5-flash"

// GeminiConfig configures the Gemini generation provider.
type GeminiConfig struct {
	ApiKey          string
	Model           string
	TokenManagement contracts2.ITokenManagement
}

// geminiProvider implements the generation contract on the Google GenAI SDK.
type geminiProvider struct {
	client          *genai.Client
	model           string
	tokenManagement contracts2.ITokenManagement
}

// NewGeminiProvider initializes a Gemini-backed generation provider.
func NewGeminiProvider(ctx context.Context, config *GeminiConfig) (contracts.IGenerationProvider, error) {
	if strings.TrimSpace(config.ApiKey) == "" {
		return nil, errors.New("gemini api key is required")
	}

	model := config.Model
	if model == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: config.ApiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiProvider{
		client:          client,
		model:           model,
		tokenManagement: config.TokenManagement,
	}, nil
}

func (g *geminiProvider) GenerateContent(ctx context.Context, prompt string, params models.GenerationParams) ([]string, error) {
	model := params.Model
	if model == "" {
		model = g.model
	}

	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), buildGenerateConfig(params))
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("gemini generate content failed: %w", err)
	}

	var suggestions []string
	var responseChars int
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		var sb strings.Builder
		for _, part := range candidate.Content.Parts {
			sb.WriteString(part.Text)
		}
		text := sb.String()
		if strings.TrimSpace(text) == "" {
			continue
		}
		suggestions = append(suggestions, text)
		responseChars += len(text)
	}

	if g.tokenManagement != nil {
		g.tokenManagement.RecordRequest(len(prompt), responseChars)
	}

	if len(suggestions) == 0 {
		return nil, errors.New("gemini returned no usable candidates")
	}
	return suggestions, nil
}

func (g *geminiProvider) Name() string {
	return "gemini"
}

func (g *geminiProvider) DefaultModel() string {
	return g.model
}

// buildGenerateConfig maps generation parameters onto the GenAI request
// config. Nil pointer fields keep the provider defaults.
func buildGenerateConfig(params models.GenerationParams) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if params.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = params.MaxOutputTokens
	}
	if params.CandidateCount > 0 {
		cfg.CandidateCount = params.CandidateCount
	}
	if params.Temperature != nil {
		cfg.Temperature = genai.Ptr(*params.Temperature)
	}
	if params.TopP != nil {
		cfg.TopP = genai.Ptr(*params.TopP)
	}
	if params.TopK != nil {
		cfg.TopK = genai.Ptr(*params.TopK)
	}
	if len(params.StopSequences) > 0 {
		cfg.StopSequences = params.StopSequences
	}
	if threshold, ok := safetyThreshold(params.SafetyThreshold); ok {
		cfg.SafetySettings = safetySettings(threshold)
	}
	return cfg
}

func safetyThreshold(name string) (genai.HarmBlockThreshold, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none":
		return genai.HarmBlockThresholdBlockNone, true
	case "only_high":
		return genai.HarmBlockThresholdBlockOnlyHigh, true
	case "medium_and_above":
		return genai.HarmBlockThresholdBlockMediumAndAbove, true
	case "low_and_above":
		return genai.HarmBlockThresholdBlockLowAndAbove, true
	default:
		return "", false
	}
}

func safetySettings(threshold genai.HarmBlockThreshold) []*genai.SafetySetting {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}
	settings := make([]*genai.SafetySetting, 0, len(categories))
	for _, category := range categories {
		settings = append(settings, &genai.SafetySetting{
			Category:  category,
			Threshold: threshold,
		})
	}
	return settings
}
