package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ignoreCacheEntry holds cached ignore patterns with metadata
type ignoreCacheEntry struct {
	patterns []string
	modTime  time.Time
}

// Global cache for ignore patterns
var (
	ignoreCache = make(map[string]*ignoreCacheEntry)
	cacheMutex  sync.RWMutex
)

// defaultIgnoredDirs are skipped during related-file discovery regardless of
// the ignore file contents.
var defaultIgnoredDirs = []string{
	".git", ".idea", ".vscode", ".cache", "node_modules", "vendor",
	"dist", "build", "out", "target", "__pycache__", ".venv", "venv",
}

// GetIgnorePatterns reads and returns the patterns from the .autogem-ignore
// file in the workspace root. If the file does not exist, it returns an
// empty pattern list. Results are cached by file modification time.
func GetIgnorePatterns(root string) ([]string, error) {
	ignorePath := filepath.Join(root, ".autogem-ignore")

	fileInfo, err := os.Stat(ignorePath)
	if os.IsNotExist(err) {
		return []string{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("error checking .autogem-ignore: %w", err)
	}

	// Check cache first
	cacheMutex.RLock()
	if cached, exists := ignoreCache[ignorePath]; exists {
		if fileInfo.ModTime().Equal(cached.modTime) {
			cacheMutex.RUnlock()
			return cached.patterns, nil
		}
	}
	cacheMutex.RUnlock()

	patterns, err := readIgnoreFile(ignorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read .autogem-ignore: %w", err)
	}

	cacheMutex.Lock()
	ignoreCache[ignorePath] = &ignoreCacheEntry{patterns: patterns, modTime: fileInfo.ModTime()}
	cacheMutex.Unlock()

	return patterns, nil
}

func readIgnoreFile(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var patterns []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, nil
}

// IsDefaultIgnored reports whether any segment of the relative path is one
// of the always-skipped directories.
func IsDefaultIgnored(relativePath string) bool {
	for _, segment := range strings.Split(filepath.ToSlash(relativePath), "/") {
		for _, ignored := range defaultIgnoredDirs {
			if segment == ignored {
				return true
			}
		}
	}
	return false
}

// IsIgnored reports whether the relative path matches one of the ignore
// patterns. Patterns match path segments or glob against the base name.
func IsIgnored(relativePath string, patterns []string) bool {
	relativePath = filepath.ToSlash(relativePath)
	base := filepath.Base(relativePath)
	for _, pattern := range patterns {
		if matched, err := filepath.Match(pattern, base); err == nil && matched {
			return true
		}
		if matched, err := filepath.Match(pattern, relativePath); err == nil && matched {
			return true
		}
		for _, segment := range strings.Split(relativePath, "/") {
			if segment == pattern {
				return true
			}
		}
	}
	return false
}
