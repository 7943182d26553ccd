package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/bernabedev/autogem/code_analyzer"
	"github.com/bernabedev/autogem/code_analyzer/models"
	"github.com/bernabedev/autogem/completion"
	"github.com/bernabedev/autogem/constants/lipgloss"
	"github.com/bernabedev/autogem/utils"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Run an interactive completion session.",
	Long: `The 'session' subcommand keeps the engine warm across multiple requests so
the suggestion cache, rate-limit window and usage accounting carry over.
Enter a file path with a cursor position to request a completion.`,
	Run: func(cmd *cobra.Command, args []string) {
		rootDependencies := handleRootCommand(cmd)
		defer rootDependencies.Engine.Close()
		handleSessionCommand(cmd, rootDependencies)
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
}

func handleSessionCommand(cmd *cobra.Command, rootDependencies *RootDependencies) {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	reader := bufio.NewReader(os.Stdin)

	sessionOptionsBox := lipgloss.BoxStyle.Render("<file> <line> [character] [multiline]  Request a completion\n/help  Help for session subcommand")
	fmt.Println(sessionOptionsBox)

	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgLightBlue)).WithRemoveWhenDone(true)

	for {
		select {
		case <-ctx.Done():
			return
		default:
			userInput, err := utils.InputPromptWithContext(ctx, reader)
			if err != nil {
				if err == context.Canceled {
					fmt.Println(lipgloss.Yellow.Render("\nExiting..."))
					return
				}
				fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
				continue
			}
			if userInput == "" {
				fmt.Print("\r")
				continue
			}

			handled, exit := findSessionSubCommand(userInput, rootDependencies)
			if handled {
				continue
			}
			if exit {
				return
			}

			snapshot, multiline, err := parseSessionRequest(userInput)
			if err != nil {
				fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
				continue
			}

			runningSpinner, _ := spinner.Start("Completing...")
			proposal, err := rootDependencies.Engine.Complete(ctx, snapshot, completion.TriggerExplicit, multiline)
			runningSpinner.Stop()
			fmt.Print("\r")

			switch {
			case err == nil:
				if renderErr := utils.RenderProposal(os.Stdout, proposal.Suggestions, snapshot.LanguageID, rootDependencies.Config.Theme); renderErr != nil {
					fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", renderErr)))
				}
			case isQuietRefusal(err):
				fmt.Println(lipgloss.Yellow.Render(err.Error()))
			default:
				fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
			}
		}
	}
}

func findSessionSubCommand(command string, rootDependencies *RootDependencies) (bool, bool) {
	switch command {
	case "/help":
		helps := "/clear  Clear screen\n/exit  Exit from autogem\n/usage  Session usage information\n/clear-usage  Reset session usage accounting\n/clear-cache  Drop all cached suggestions\n/cache  Show cached suggestion count"
		styledHelps := lipgloss.BoxStyle.Render(helps)
		fmt.Println(styledHelps)
		return true, false
	case "/clear":
		fmt.Print("\033[2J\033[H")
		return true, false
	case "/exit":
		return false, true
	case "/usage":
		rootDependencies.TokenManagement.DisplayUsage(
			rootDependencies.Config.AIProviderConfig.Provider,
			rootDependencies.Config.AIProviderConfig.Model,
		)
		return true, false
	case "/clear-usage":
		rootDependencies.TokenManagement.ClearUsage()
		return true, false
	case "/clear-cache":
		rootDependencies.Engine.ClearCache()
		fmt.Println(lipgloss.Green.Render("Suggestion cache cleared."))
		return true, false
	case "/cache":
		fmt.Printf("Cached suggestions: %d\n", rootDependencies.Engine.CacheLen())
		return true, false
	default:
		return false, false
	}
}

// parseSessionRequest parses "<file> <line> [character] [multiline]".
func parseSessionRequest(input string) (models.DocumentSnapshot, bool, error) {
	fields := strings.Fields(input)
	if len(fields) < 2 {
		return models.DocumentSnapshot{}, false, fmt.Errorf("expected: <file> <line> [character] [multiline]")
	}

	path := fields[0]
	line, err := strconv.Atoi(fields[1])
	if err != nil {
		return models.DocumentSnapshot{}, false, fmt.Errorf("invalid line %q", fields[1])
	}

	character := -1
	multiline := false
	for _, field := range fields[2:] {
		if field == "multiline" {
			multiline = true
			continue
		}
		if character < 0 {
			if c, convErr := strconv.Atoi(field); convErr == nil {
				character = c
				continue
			}
		}
		return models.DocumentSnapshot{}, false, fmt.Errorf("unrecognized argument %q", field)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return models.DocumentSnapshot{}, false, fmt.Errorf("reading %s: %w", path, err)
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
	return snapshot, multiline, nil
}
