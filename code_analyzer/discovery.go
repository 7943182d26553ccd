package code_analyzer

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bernabedev/autogem/code_analyzer/contracts"
	"github.com/bernabedev/autogem/utils"
)

// languageExtensions maps editor language ids to the file extensions used
// for related-file discovery.
var languageExtensions = map[string][]string{
	"javascript":      {".js", ".mjs", ".cjs"},
	"javascriptreact": {".jsx", ".js"},
	"typescript":      {".ts"},
	"typescriptreact": {".tsx", ".ts"},
	"python":          {".py"},
	"go":              {".go"},
	"rust":            {".rs"},
	"java":            {".java"},
	"c":               {".c", ".h"},
	"cpp":             {".cpp", ".cc", ".hpp", ".h"},
	"csharp":          {".cs"},
	"html":            {".html", ".htm"},
	"xml":             {".xml"},
	"markdown":        {".md"},
}

// FileDiscovery enumerates workspace sibling files by extension, honoring
// .autogem-ignore patterns and the default ignore list. It is the
// filesystem-backed stand-in for the editor host's glob enumeration.
type FileDiscovery struct{}

// NewFileDiscovery creates a filesystem-backed file discovery.
func NewFileDiscovery() contracts.IFileDiscovery {
	return &FileDiscovery{}
}

func (FileDiscovery) RelatedFiles(ctx context.Context, root string, languageID string, excludePath string, limit int) ([]string, error) {
	if root == "" || limit <= 0 {
		return nil, nil
	}
	extensions, ok := languageExtensions[strings.ToLower(languageID)]
	if !ok {
		return nil, nil
	}

	ignorePatterns, err := utils.GetIgnorePatterns(root)
	if err != nil {
		ignorePatterns = nil
	}

	absExclude, _ := filepath.Abs(excludePath)

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		relativePath, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		if utils.IsDefaultIgnored(relativePath) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if utils.IsIgnored(relativePath, ignorePatterns) {
			return nil
		}
		if !hasExtension(path, extensions) {
			return nil
		}
		if absPath, absErr := filepath.Abs(path); absErr == nil && absPath == absExclude {
			return nil
		}

		paths = append(paths, path)
		if len(paths) >= limit {
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// LanguageForPath maps a file path to an editor language id by extension,
// or "" when the extension is not recognized. Where extensions are shared
// the non-react id wins.
func LanguageForPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	best := ""
	for id, extensions := range languageExtensions {
		for _, e := range extensions {
			if ext != e {
				continue
			}
			if best == "" || len(id) < len(best) {
				best = id
			}
		}
	}
	return best
}

func hasExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// DocumentLoader reads workspace documents from disk.
type DocumentLoader struct{}

// NewDocumentLoader creates a filesystem-backed document loader.
func NewDocumentLoader() contracts.IDocumentLoader {
	return &DocumentLoader{}
}

func (DocumentLoader) LoadDocument(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(content), nil
}
