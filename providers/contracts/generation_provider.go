package contracts

import (
	"context"

	"github.com/bernabedev/autogem/providers/models"
)

// IGenerationProvider is the request/response contract around the generative
// model. The caller supplies the assembled prompt and parameters; the
// provider returns one generated text per candidate. Transport and quota
// failures are returned as errors and are never retried here.
type IGenerationProvider interface {
	GenerateContent(ctx context.Context, prompt string, params models.GenerationParams) ([]string, error)
	Name() string
	DefaultModel() string
}
