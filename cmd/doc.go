package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/bernabedev/autogem/utils"
)

var docCmd = &cobra.Command{
	Use:   "doc",
	Short: "Generate a documentation comment for the code under the cursor.",
	RunE: func(cmd *cobra.Command, args []string) error {
		rootDependencies := handleRootCommand(cmd)
		defer rootDependencies.Engine.Close()
		return handleDocCommand(cmd, rootDependencies)
	},
}

func init() {
	docCmd.Flags().String("file", "", "Path to the source file.")
	docCmd.Flags().Int("line", 0, "Zero-based cursor line.")
	docCmd.Flags().Int("character", -1, "Zero-based cursor column; defaults to end of line.")
	_ = docCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(docCmd)
}

func handleDocCommand(cmd *cobra.Command, rootDependencies *RootDependencies) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	snapshot, err := snapshotFromFlags(cmd)
	if err != nil {
		return err
	}

	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgLightBlue)).WithRemoveWhenDone(true)
	runningSpinner, _ := spinner.Start("Documenting...")

	comment, err := rootDependencies.Engine.Document(ctx, snapshot)
	runningSpinner.Stop()
	fmt.Print("\r")
	if err != nil {
		return err
	}

	return utils.RenderSuggestion(os.Stdout, comment, snapshot.LanguageID, rootDependencies.Config.Theme)
}
