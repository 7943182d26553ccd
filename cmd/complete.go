package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/bernabedev/autogem/code_analyzer"
	"github.com/bernabedev/autogem/code_analyzer/models"
	"github.com/bernabedev/autogem/completion"
	"github.com/bernabedev/autogem/constants/lipgloss"
	"github.com/bernabedev/autogem/engine"
	"github.com/bernabedev/autogem/utils"
)

var completeCmd = &cobra.Command{
	Use:   "complete",
	Short: "Request a completion at a cursor position in a file.",
	Long: `The 'complete' subcommand runs one completion request the way the editor
plugin would: the trigger policy is consulted first, context is assembled
from the file and its workspace siblings, and the sanitized suggestion is
printed with syntax highlighting.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rootDependencies := handleRootCommand(cmd)
		defer rootDependencies.Engine.Close()
		return handleCompleteCommand(cmd, rootDependencies)
	},
}

func init() {
	completeCmd.Flags().String("file", "", "Path to the source file.")
	completeCmd.Flags().Int("line", 0, "Zero-based cursor line.")
	completeCmd.Flags().Int("character", -1, "Zero-based cursor column; defaults to end of line.")
	completeCmd.Flags().Bool("multiline", false, "Request a whole-block completion.")
	completeCmd.Flags().Bool("explicit", true, "Treat the request as user-invoked; set to false to simulate an automatic trigger.")
	_ = completeCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(completeCmd)
}

func handleCompleteCommand(cmd *cobra.Command, rootDependencies *RootDependencies) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	snapshot, err := snapshotFromFlags(cmd)
	if err != nil {
		return err
	}

	multiline, _ := cmd.Flags().GetBool("multiline")
	explicit, _ := cmd.Flags().GetBool("explicit")
	kind := completion.TriggerAutomatic
	if explicit {
		kind = completion.TriggerExplicit
	}

	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgLightBlue)).WithRemoveWhenDone(true)
	runningSpinner, _ := spinner.Start("Completing...")

	proposal, err := rootDependencies.Engine.Complete(ctx, snapshot, kind, multiline)
	runningSpinner.Stop()
	fmt.Print("\r")

	switch {
	case err == nil:
	case isQuietRefusal(err):
		fmt.Println(lipgloss.Yellow.Render(err.Error()))
		return nil
	default:
		return err
	}

	if err := utils.RenderProposal(os.Stdout, proposal.Suggestions, snapshot.LanguageID, rootDependencies.Config.Theme); err != nil {
		return err
	}

	rootDependencies.TokenManagement.DisplayUsage(
		rootDependencies.Config.AIProviderConfig.Provider,
		rootDependencies.Config.AIProviderConfig.Model,
	)
	return nil
}

// isQuietRefusal reports whether err is an expected no-completion condition
// rather than a failure. Caller cancellation (Ctrl+C) counts: the request
// was abandoned, not broken.
func isQuietRefusal(err error) bool {
	for _, target := range []error{
		engine.ErrNotTriggered,
		engine.ErrCompletionsDisabled,
		engine.ErrLanguageDisabled,
		completion.ErrRateLimited,
		context.Canceled,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func snapshotFromFlags(cmd *cobra.Command) (models.DocumentSnapshot, error) {
	path, _ := cmd.Flags().GetString("file")
	line, _ := cmd.Flags().GetInt("line")
	character, _ := cmd.Flags().GetInt("character")

	content, err := os.ReadFile(path)
	if err != nil {
		return models.DocumentSnapshot{}, fmt.Errorf("reading %s: %w", path, err)
	}

	snapshot := models.DocumentSnapshot{
		Path:       path,
		LanguageID: code_analyzer.LanguageForPath(path),
		Text:       string(content),
		Position:   models.Position{Line: line, Character: character},
	}
	if character < 0 {
		snapshot.Position.Character = len(snapshot.CurrentLine())
	}
	return snapshot, nil
}
