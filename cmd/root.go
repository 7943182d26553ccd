package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bernabedev/autogem/code_analyzer"
	"github.com/bernabedev/autogem/config"
	"github.com/bernabedev/autogem/constants/lipgloss"
	"github.com/bernabedev/autogem/engine"
	"github.com/bernabedev/autogem/language"
	"github.com/bernabedev/autogem/telemetry"
	"github.com/bernabedev/autogem/token_management"
	tokenContracts "github.com/bernabedev/autogem/token_management/contracts"
)

// RootDependencies holds the wired components every subcommand needs.
type RootDependencies struct {
	Config          *config.Config
	Logger          *zap.Logger
	Cwd             string
	Engine          *engine.Engine
	TokenManagement tokenContracts.ITokenManagement
	Recorder        telemetry.Recorder
}

var rootCmd = &cobra.Command{
	Use:   "autogem",
	Short: "AI code completion for your editor, powered by Gemini.",
	Long: `autogem is the completion engine behind the editor plugin: it decides when
a cursor position warrants a completion, assembles prompt context from the
file and its workspace siblings, throttles requests, and sanitizes model
output into insert-ready code.`,
	Run: func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Println(config.DefaultConfig.Version)
			return
		}
		_ = cmd.Help()
	},
}

func init() {
	config.InitFlags(rootCmd)
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}
}

// handleRootCommand loads configuration and wires the engine with its
// provider, context assembler and accounting. It exits the process when the
// provider cannot be constructed, which covers a missing API key.
func handleRootCommand(cmd *cobra.Command) *RootDependencies {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error getting current directory: %v", err)))
		os.Exit(1)
	}

	cfg := config.LoadConfigWithCache(cmd.Root(), cwd)
	logger := newLogger(cfg.EnableDebugLogging)
	tokenManagement := token_management.NewTokenManager()
	recorder := telemetry.New(cfg.EnableTelemetry, logger)
	registry := language.NewRegistry()

	eng, err := engine.Wire(cmd.Context(), cfg, registry,
		code_analyzer.NewContextAssembler(registry, code_analyzer.NewFileDiscovery(), code_analyzer.NewDocumentLoader(), cwd, logger),
		tokenManagement, recorder, logger)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}

	return &RootDependencies{
		Config:          cfg,
		Logger:          logger,
		Cwd:             cwd,
		Engine:          eng,
		TokenManagement: tokenManagement,
		Recorder:        recorder,
	}
}

func newLogger(debug bool) *zap.Logger {
	logCfg := zap.NewProductionConfig()
	logCfg.OutputPaths = []string{"stderr"}
	if debug {
		logCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := logCfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
