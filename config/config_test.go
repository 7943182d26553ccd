package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRootCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "autogem-test"}
	InitFlags(cmd)
	return cmd
}

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	cfgFile = ""
	ClearConfigCache()
	t.Cleanup(func() {
		viper.Reset()
		cfgFile = ""
		ClearConfigCache()
	})
}

func TestLoadConfigsUsesDefaultsWithoutFile(t *testing.T) {
	resetViper(t)

	cfg := LoadConfigs(newTestRootCmd(), t.TempDir())
	require.NotNil(t, cfg)
	require.NotNil(t, cfg.CompletionConfig)
	require.NotNil(t, cfg.AIProviderConfig)

	assert.Equal(t, "gemini", cfg.AIProviderConfig.Provider)
	assert.Equal(t, "gemini-1.5-flash", cfg.AIProviderConfig.Model)
	assert.True(t, cfg.CompletionConfig.Enabled)
	assert.Equal(t, []string{"*"}, cfg.CompletionConfig.EnabledLanguages)
	assert.Equal(t, 4, cfg.CompletionConfig.MinTriggerLength)
	assert.Equal(t, 1, cfg.CompletionConfig.MaxSuggestions)
	assert.Equal(t, 1, cfg.CompletionConfig.MaxMultilineSuggestions)
	assert.Equal(t, 400, cfg.CompletionConfig.DebounceMilliseconds)
	assert.Equal(t, 30, cfg.CompletionConfig.MaxRequestsPerMinute)
	assert.Equal(t, 15, cfg.CompletionConfig.RequestTimeoutSeconds)
	assert.Equal(t, 256, cfg.CompletionConfig.CacheCapacity)
}

func TestLoadConfigsReadsYamlFile(t *testing.T) {
	resetViper(t)

	dir := t.TempDir()
	content := []byte(`
theme: "light"
ai_provider_config:
  model: "gemini-1.5-pro"
  api_key: "test-key"
completion_config:
  min_trigger_length: 6
  max_requests_per_minute: 10
  max_multiline_suggestions: 3
  skip_in_strings: false
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "autogem-config.yaml"), content, 0644))

	cfg := LoadConfigs(newTestRootCmd(), dir)
	require.NotNil(t, cfg)

	assert.Equal(t, "light", cfg.Theme)
	assert.Equal(t, "gemini-1.5-pro", cfg.AIProviderConfig.Model)
	assert.Equal(t, "test-key", cfg.AIProviderConfig.ApiKey)
	assert.Equal(t, 6, cfg.CompletionConfig.MinTriggerLength)
	assert.Equal(t, 10, cfg.CompletionConfig.MaxRequestsPerMinute)
	assert.Equal(t, 3, cfg.CompletionConfig.MaxMultilineSuggestions)
	assert.False(t, cfg.CompletionConfig.SkipInStrings)

	// untouched keys keep their defaults
	assert.Equal(t, 400, cfg.CompletionConfig.DebounceMilliseconds)
	assert.True(t, cfg.CompletionConfig.SkipInComments)
}

func TestLoadConfigsHonorsEnvironment(t *testing.T) {
	resetViper(t)

	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("MODEL", "gemini-2.0-flash")

	cfg := LoadConfigs(newTestRootCmd(), t.TempDir())
	require.NotNil(t, cfg)

	assert.Equal(t, "env-key", cfg.AIProviderConfig.ApiKey)
	assert.Equal(t, "gemini-2.0-flash", cfg.AIProviderConfig.Model)
}

func TestLoadConfigWithCacheReusesUnchangedFile(t *testing.T) {
	resetViper(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "autogem-config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`theme: "dark"`), 0644))

	first := LoadConfigWithCache(newTestRootCmd(), dir)
	second := LoadConfigWithCache(newTestRootCmd(), dir)

	assert.Same(t, first, second)

	InvalidateConfigCache(path)
	third := LoadConfigWithCache(newTestRootCmd(), dir)
	assert.NotSame(t, first, third)
	assert.Equal(t, "dark", third.Theme)
}

func TestGetConfigFileType(t *testing.T) {
	assert.Equal(t, "json", GetConfigFileType("autogem-config.json"))
	assert.Equal(t, "yaml", GetConfigFileType("autogem-config.yaml"))
	assert.Equal(t, "yaml", GetConfigFileType("autogem-config.yml"))
	assert.Equal(t, "", GetConfigFileType("autogem-config.toml"))
}
