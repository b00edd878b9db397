package cmd

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const keyTestTimeout = 20 * time.Second

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the assistant API key",
	Long: `Show, save and verify the OpenAI API key used by the assistant.

OPENAI_API_KEY takes precedence over the saved key.`,
}

var keyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a key is configured",
	RunE:  runKeyStatus,
}

var keySetCmd = &cobra.Command{
	Use:   "set [key]",
	Short: "Save a key (read from stdin when omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runKeySet,
}

var keyTestCmd = &cobra.Command{
	Use:   "test [key]",
	Short: "Verify a key, or the key in effect, against the API",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runKeyTest,
}

func init() {
	rootCmd.AddCommand(keyCmd)
	keyCmd.AddCommand(keyStatusCmd, keySetCmd, keyTestCmd)
}

func runKeyStatus(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	status := app.AssistantUC.Status(app.Ctx())
	out := cmd.OutOrStdout()
	if !status.Exists {
		fmt.Fprintln(out, app.Theme.Subtle.Render("No key configured."))
		return nil
	}
	fmt.Fprintf(out, "%s …%s (%s)\n", app.Theme.Highlight.Render("Key configured:"), status.Last4, status.Source)
	return nil
}

func runKeySet(cmd *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	key, err := keyArg(cmd, args)
	if err != nil {
		return err
	}
	last4, err := app.AssistantUC.SaveKey(app.Ctx(), key)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s …%s\n", app.Theme.Highlight.Render("Key saved:"), last4)
	return nil
}

func runKeyTest(cmd *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	key := ""
	if len(args) == 1 {
		key = args[0]
	}
	ctx, cancel := context.WithTimeout(app.Ctx(), keyTestTimeout)
	defer cancel()
	if err := app.AssistantUC.TestKey(ctx, key); err != nil {
		return fmt.Errorf("key test failed: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), app.Theme.Highlight.Render("Key works."))
	return nil
}

// keyArg returns the key argument, or the first line of stdin so the key
// stays out of shell history.
func keyArg(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read key from stdin: %w", err)
	}
	return strings.TrimSpace(line), nil
}
