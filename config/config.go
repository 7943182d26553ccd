package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bernabedev/autogem/constants/lipgloss"
	"github.com/bernabedev/autogem/providers"
)

// configCacheEntry holds cached configuration with metadata
type configCacheEntry struct {
	config  *Config
	modTime time.Time
}

// Global cache for configuration files
var (
	configCache = make(map[string]*configCacheEntry)
	cacheMutex  sync.RWMutex
)

// Config represents the structure of the configuration file
type Config struct {
	Version            string                      `mapstructure:"version"`
	Theme              string                      `mapstructure:"theme"`
	EnableDebugLogging bool                        `mapstructure:"enable_debug_logging"`
	EnableTelemetry    bool                        `mapstructure:"enable_telemetry"`
	AIProviderConfig   *providers.AIProviderConfig `mapstructure:"ai_provider_config"`
	CompletionConfig   *CompletionConfig           `mapstructure:"completion_config"`
}

// CompletionConfig tunes when completions trigger, how much context is
// gathered, and how requests are throttled. The multiline_* variants apply
// to block completions, which gather more context and allow longer output.
type CompletionConfig struct {
	Enabled           bool     `mapstructure:"enabled"`
	EnabledLanguages  []string `mapstructure:"enabled_languages"`
	TriggerCharacters []string `mapstructure:"trigger_characters"`
	MultilineTriggers []string `mapstructure:"multiline_triggers"`
	MinTriggerLength  int      `mapstructure:"min_trigger_length"`
	SkipInComments    bool     `mapstructure:"skip_in_comments"`
	SkipInStrings     bool     `mapstructure:"skip_in_strings"`

	ContextLineCount              int  `mapstructure:"context_line_count"`
	MultilineContextLineCount     int  `mapstructure:"multiline_context_line_count"`
	IncludeImports                bool `mapstructure:"include_imports"`
	UseProjectContext             bool `mapstructure:"use_project_context"`
	UseProjectContextForMultiline bool `mapstructure:"use_project_context_for_multiline"`
	MaxRelatedFiles               int  `mapstructure:"max_related_files"`
	MultilineMaxRelatedFiles      int  `mapstructure:"multiline_max_related_files"`
	MaxContextChars               int  `mapstructure:"max_context_chars"`

	MaxTokens               int     `mapstructure:"max_tokens"`
	MultilineMaxTokens      int     `mapstructure:"multiline_max_tokens"`
	Temperature             float32 `mapstructure:"temperature"`
	MultilineTemperature    float32 `mapstructure:"multiline_temperature"`
	MaxSuggestions          int     `mapstructure:"max_suggestions"`
	MaxMultilineSuggestions int     `mapstructure:"max_multiline_suggestions"`

	DebounceMilliseconds  int `mapstructure:"debounce_milliseconds"`
	MaxRequestsPerMinute  int `mapstructure:"max_requests_per_minute"`
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds"`
	CacheCapacity         int `mapstructure:"cache_capacity"`
	CacheTTLMinutes       int `mapstructure:"cache_ttl_minutes"`
}

// DefaultConfig values
var DefaultConfig = Config{
	Version:            "1.0.0",
	Theme:              "dracula",
	EnableDebugLogging: false,
	EnableTelemetry:    false,
	AIProviderConfig: &providers.AIProviderConfig{
		Provider:        "gemini",
		Model:           "gemini-1.5-flash",
		ApiKey:          "",
		SafetyThreshold: "only_high",
	},
	CompletionConfig: &CompletionConfig{
		Enabled:           true,
		EnabledLanguages:  []string{"*"},
		TriggerCharacters: []string{".", "(", "[", "{", "=", ",", ":"},
		MultilineTriggers: []string{"{", ":", "=>", "do", "then", "("},
		MinTriggerLength:  4,
		SkipInComments:    true,
		SkipInStrings:     true,

		ContextLineCount:              50,
		MultilineContextLineCount:     100,
		IncludeImports:                true,
		UseProjectContext:             false,
		UseProjectContextForMultiline: true,
		MaxRelatedFiles:               3,
		MultilineMaxRelatedFiles:      5,
		MaxContextChars:               12000,

		MaxTokens:               64,
		MultilineMaxTokens:      256,
		Temperature:             0.2,
		MultilineTemperature:    0.3,
		MaxSuggestions:          1,
		MaxMultilineSuggestions: 1,

		DebounceMilliseconds:  400,
		MaxRequestsPerMinute:  30,
		RequestTimeoutSeconds: 15,
		CacheCapacity:         256,
		CacheTTLMinutes:       30,
	},
}

// cfgFile holds the path to the configuration file (set via CLI)
var cfgFile string

// LoadConfigs initializes the configuration from file, flags, and environment variables, and returns the final config.
func LoadConfigs(rootCmd *cobra.Command, cwd string) *Config {
	var config *Config

	// Set default values using Viper
	setDefaults()

	// Automatically read environment variables
	viper.AutomaticEnv()

	// Explicitly bind environment variables to config keys
	bindEnv()

	// Check if the user provided a config file
	if cfgFile != "" {
		// Use the config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Look for configuration files in the current directory
		viper.SetConfigName("autogem-config") // Name of config file (without extension)
		viper.AddConfigPath(cwd)              // Look in the current working directory

		// Support both JSON and YAML formats
		viper.SetConfigType("yaml") // Set default type
		if err := viper.ReadInConfig(); err != nil {
			// If YAML fails, try JSON
			viper.SetConfigType("json")
			_ = viper.ReadInConfig() // If both fail, continue with defaults
		}
	}

	// Read the explicitly specified config file (if any)
	if cfgFile != "" {
		if err := viper.ReadInConfig(); err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error reading config file: %v", err)))
			os.Exit(1)
		}
	}

	// Bind CLI flags to override config values
	bindFlags(rootCmd)

	// Unmarshal the configuration into the Config struct
	if err := viper.Unmarshal(&config); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Unable to decode into struct: %v", err)))
		os.Exit(1)
	}

	return config
}

// setDefaults sets all default configuration values
func setDefaults() {
	viper.SetDefault("version", DefaultConfig.Version)
	viper.SetDefault("theme", DefaultConfig.Theme)
	viper.SetDefault("enable_debug_logging", DefaultConfig.EnableDebugLogging)
	viper.SetDefault("enable_telemetry", DefaultConfig.EnableTelemetry)

	viper.SetDefault("ai_provider_config.provider", DefaultConfig.AIProviderConfig.Provider)
	viper.SetDefault("ai_provider_config.model", DefaultConfig.AIProviderConfig.Model)
	viper.SetDefault("ai_provider_config.api_key", DefaultConfig.AIProviderConfig.ApiKey)
	viper.SetDefault("ai_provider_config.safety_threshold", DefaultConfig.AIProviderConfig.SafetyThreshold)

	cc := DefaultConfig.CompletionConfig
	viper.SetDefault("completion_config.enabled", cc.Enabled)
	viper.SetDefault("completion_config.enabled_languages", cc.EnabledLanguages)
	viper.SetDefault("completion_config.trigger_characters", cc.TriggerCharacters)
	viper.SetDefault("completion_config.multiline_triggers", cc.MultilineTriggers)
	viper.SetDefault("completion_config.min_trigger_length", cc.MinTriggerLength)
	viper.SetDefault("completion_config.skip_in_comments", cc.SkipInComments)
	viper.SetDefault("completion_config.skip_in_strings", cc.SkipInStrings)
	viper.SetDefault("completion_config.context_line_count", cc.ContextLineCount)
	viper.SetDefault("completion_config.multiline_context_line_count", cc.MultilineContextLineCount)
	viper.SetDefault("completion_config.include_imports", cc.IncludeImports)
	viper.SetDefault("completion_config.use_project_context", cc.UseProjectContext)
	viper.SetDefault("completion_config.use_project_context_for_multiline", cc.UseProjectContextForMultiline)
	viper.SetDefault("completion_config.max_related_files", cc.MaxRelatedFiles)
	viper.SetDefault("completion_config.multiline_max_related_files", cc.MultilineMaxRelatedFiles)
	viper.SetDefault("completion_config.max_context_chars", cc.MaxContextChars)
	viper.SetDefault("completion_config.max_tokens", cc.MaxTokens)
	viper.SetDefault("completion_config.multiline_max_tokens", cc.MultilineMaxTokens)
	viper.SetDefault("completion_config.temperature", cc.Temperature)
	viper.SetDefault("completion_config.multiline_temperature", cc.MultilineTemperature)
	viper.SetDefault("completion_config.max_suggestions", cc.MaxSuggestions)
	viper.SetDefault("completion_config.max_multiline_suggestions", cc.MaxMultilineSuggestions)
	viper.SetDefault("completion_config.debounce_milliseconds", cc.DebounceMilliseconds)
	viper.SetDefault("completion_config.max_requests_per_minute", cc.MaxRequestsPerMinute)
	viper.SetDefault("completion_config.request_timeout_seconds", cc.RequestTimeoutSeconds)
	viper.SetDefault("completion_config.cache_capacity", cc.CacheCapacity)
	viper.SetDefault("completion_config.cache_ttl_minutes", cc.CacheTTLMinutes)
}

// bindEnv explicitly binds environment variables to configuration keys
func bindEnv() {
	_ = viper.BindEnv("theme", "THEME")
	_ = viper.BindEnv("enable_debug_logging", "ENABLE_DEBUG_LOGGING")
	_ = viper.BindEnv("enable_telemetry", "ENABLE_TELEMETRY")
	_ = viper.BindEnv("ai_provider_config.provider", "PROVIDER")
	_ = viper.BindEnv("ai_provider_config.model", "MODEL")
	_ = viper.BindEnv("ai_provider_config.api_key", "GEMINI_API_KEY", "API_KEY")
	_ = viper.BindEnv("ai_provider_config.safety_threshold", "SAFETY_THRESHOLD")
	_ = viper.BindEnv("completion_config.max_requests_per_minute", "MAX_REQUESTS_PER_MINUTE")
	_ = viper.BindEnv("completion_config.request_timeout_seconds", "REQUEST_TIMEOUT_SECONDS")
}

// bindFlags binds the CLI flags to configuration values.
func bindFlags(rootCmd *cobra.Command) {
	_ = viper.BindPFlag("theme", rootCmd.PersistentFlags().Lookup("theme"))
	_ = viper.BindPFlag("enable_debug_logging", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("enable_telemetry", rootCmd.PersistentFlags().Lookup("telemetry"))
	_ = viper.BindPFlag("ai_provider_config.provider", rootCmd.PersistentFlags().Lookup("provider"))
	_ = viper.BindPFlag("ai_provider_config.model", rootCmd.PersistentFlags().Lookup("model"))
	_ = viper.BindPFlag("ai_provider_config.api_key", rootCmd.PersistentFlags().Lookup("api_key"))
	_ = viper.BindPFlag("ai_provider_config.safety_threshold", rootCmd.PersistentFlags().Lookup("safety_threshold"))
	_ = viper.BindPFlag("completion_config.max_requests_per_minute", rootCmd.PersistentFlags().Lookup("max_requests_per_minute"))
	_ = viper.BindPFlag("completion_config.debounce_milliseconds", rootCmd.PersistentFlags().Lookup("debounce_milliseconds"))
}

// InitFlags initializes the flags for the root command.
func InitFlags(rootCmd *cobra.Command) {
	// Use PersistentFlags so that these flags are available in all subcommands
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Specifies the path to a configuration file (JSON or YAML) that contains all the settings for the application.")

	rootCmd.PersistentFlags().String("theme", DefaultConfig.Theme, "Set theme for rendering highlighted code. (e.g., 'dracula', 'light', 'dark')")
	rootCmd.PersistentFlags().Bool("debug", DefaultConfig.EnableDebugLogging, "Enable debug-level logging.")
	rootCmd.PersistentFlags().Bool("telemetry", DefaultConfig.EnableTelemetry, "Enable in-process telemetry counters and event logs.")

	// Version flag
	rootCmd.Flags().BoolP("version", "v", false, "Specifies the version of the application.")

	// AI Provider configuration
	rootCmd.PersistentFlags().String("provider", DefaultConfig.AIProviderConfig.Provider, "The name of the AI provider (currently 'gemini').")
	rootCmd.PersistentFlags().String("model", DefaultConfig.AIProviderConfig.Model, "The name of the model used for completions, such as 'gemini-1.5-flash'.")
	rootCmd.PersistentFlags().String("api_key", DefaultConfig.AIProviderConfig.ApiKey, "The API key used to authenticate with the AI service provider.")
	rootCmd.PersistentFlags().String("safety_threshold", DefaultConfig.AIProviderConfig.SafetyThreshold, "Safety filter threshold: 'none', 'only_high', 'medium_and_above' or 'low_and_above'.")

	// Request throttling
	rootCmd.PersistentFlags().Int("max_requests_per_minute", DefaultConfig.CompletionConfig.MaxRequestsPerMinute, "Upper bound on completion requests per minute.")
	rootCmd.PersistentFlags().Int("debounce_milliseconds", DefaultConfig.CompletionConfig.DebounceMilliseconds, "Quiet period before a typing burst resolves to one request.")
}

// GetConfigFileType returns the type of the configuration file based on its extension
func GetConfigFileType(filename string) string {
	if strings.HasSuffix(filename, ".json") {
		return "json"
	} else if strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml") {
		return "yaml"
	}
	return ""
}

// LoadConfigWithCache loads configuration with caching support
func LoadConfigWithCache(rootCmd *cobra.Command, cwd string) *Config {
	var configFilePath string

	// Determine config file path
	if cfgFile != "" {
		configFilePath = cfgFile
	} else {
		// Check for default config files
		yamlPath := fmt.Sprintf("%s/autogem-config.yaml", cwd)
		ymlPath := fmt.Sprintf("%s/autogem-config.yml", cwd)
		jsonPath := fmt.Sprintf("%s/autogem-config.json", cwd)

		if _, err := os.Stat(yamlPath); err == nil {
			configFilePath = yamlPath
		} else if _, err := os.Stat(ymlPath); err == nil {
			configFilePath = ymlPath
		} else if _, err := os.Stat(jsonPath); err == nil {
			configFilePath = jsonPath
		}
	}

	// If no config file exists, return default configuration loading
	if configFilePath == "" {
		return LoadConfigs(rootCmd, cwd)
	}

	// Check file modification time
	fileInfo, err := os.Stat(configFilePath)
	if err != nil {
		return LoadConfigs(rootCmd, cwd)
	}

	// Check cache first
	cacheMutex.RLock()
	if cached, exists := configCache[configFilePath]; exists {
		if fileInfo.ModTime().Equal(cached.modTime) {
			cacheMutex.RUnlock()
			return cached.config
		}
	}
	cacheMutex.RUnlock()

	// Load configuration normally
	config := LoadConfigs(rootCmd, cwd)

	// Update cache
	cacheMutex.Lock()
	configCache[configFilePath] = &configCacheEntry{
		config:  config,
		modTime: fileInfo.ModTime(),
	}
	cacheMutex.Unlock()

	return config
}

// ClearConfigCache clears all cached configuration files
func ClearConfigCache() {
	cacheMutex.Lock()
	defer cacheMutex.Unlock()
	configCache = make(map[string]*configCacheEntry)
}

// InvalidateConfigCache removes a specific config file from cache
func InvalidateConfigCache(configPath string) {
	cacheMutex.Lock()
	defer cacheMutex.Unlock()
	delete(configCache, configPath)
}
