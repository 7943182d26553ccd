package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Explain the code around the cursor in plain language.",
	RunE: func(cmd *cobra.Command, args []string) error {
		rootDependencies := handleRootCommand(cmd)
		defer rootDependencies.Engine.Close()
		return handleExplainCommand(cmd, rootDependencies)
	},
}

func init() {
	explainCmd.Flags().String("file", "", "Path to the source file.")
	explainCmd.Flags().Int("line", 0, "Zero-based cursor line.")
	explainCmd.Flags().Int("character", -1, "Zero-based cursor column; defaults to end of line.")
	_ = explainCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(explainCmd)
}

func handleExplainCommand(cmd *cobra.Command, rootDependencies *RootDependencies) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	snapshot, err := snapshotFromFlags(cmd)
	if err != nil {
		return err
	}

	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgLightBlue)).WithRemoveWhenDone(true)
	runningSpinner, _ := spinner.Start("Explaining...")

	explanation, err := rootDependencies.Engine.Explain(ctx, snapshot)
	runningSpinner.Stop()
	fmt.Print("\r")
	if err != nil {
		return err
	}

	fmt.Println(explanation)
	return nil
}
