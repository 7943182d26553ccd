package contracts

import (
	"context"

	"github.com/bernabedev/autogem/code_analyzer/models"
)

// IContextBuilder assembles the prompt context bundle for one request.
type IContextBuilder interface {
	BuildContext(ctx context.Context, snapshot models.DocumentSnapshot, opts models.AssembleOptions) (models.ContextBundle, error)
}

// IFileDiscovery enumerates workspace sibling files of the same language,
// capped at limit. Supplied by the editor host; a filesystem-backed default
// lives in this package's parent.
type IFileDiscovery interface {
	RelatedFiles(ctx context.Context, root string, languageID string, excludePath string, limit int) ([]string, error)
}

// IDocumentLoader loads the text of a workspace document by path.
type IDocumentLoader interface {
	LoadDocument(ctx context.Context, path string) (string, error)
}
