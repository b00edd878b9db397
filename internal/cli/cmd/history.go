package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/arkium/internal/cli/model"
	"github.com/bnema/arkium/internal/cli/styles"
	"github.com/bnema/arkium/internal/domain/entity"
)

const (
	defaultHistoryMax = 50
	maxURLDisplay     = 60
	maxTitleDisplay   = 40
)

var (
	historyJSON bool
	historyMax  int
	deleteTS    string
	deleteURL   string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse and manage history",
	Long:  `List, delete and clear visited pages. Without a subcommand, opens the interactive browser.`,
	RunE:  runHistoryBrowse,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print recent history, newest first",
	RunE:  runHistoryList,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every history entry",
	RunE:  runHistoryClear,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the first entry matching --ts and/or --url",
	RunE:  runHistoryDelete,
}

var historyBrowseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Interactive history browser; prints the selected URL",
	RunE:  runHistoryBrowse,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyClearCmd, historyDeleteCmd, historyBrowseCmd)

	historyListCmd.Flags().BoolVar(&historyJSON, "json", false, "output as JSON")
	historyListCmd.Flags().IntVar(&historyMax, "max", defaultHistoryMax, "maximum entries to show")
	historyDeleteCmd.Flags().StringVar(&deleteTS, "ts", "", "timestamp in unix milliseconds")
	historyDeleteCmd.Flags().StringVar(&deleteURL, "url", "", "exact URL")
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	entries := newestFirst(app.HistoryUC.List(), historyMax)
	if historyJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}
	return writeHistory(cmd.OutOrStdout(), entries, time.Now())
}

func runHistoryClear(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	app.HistoryUC.Clear(app.Ctx())
	fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
	return nil
}

func runHistoryDelete(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	matcher, err := historyMatcher(deleteTS, deleteURL)
	if err != nil {
		return err
	}
	removed, err := app.HistoryUC.Delete(app.Ctx(), matcher)
	if err != nil {
		return fmt.Errorf("delete history entry: %w", err)
	}
	if !removed {
		fmt.Fprintln(cmd.OutOrStdout(), "No matching entry.")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Entry deleted.")
	return nil
}

func runHistoryBrowse(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	m := model.NewHistoryModel(app.Ctx(), app.Theme, app.HistoryUC)
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("run history browser: %w", err)
	}
	if hm, ok := final.(model.HistoryModel); ok && hm.Selected() != "" {
		fmt.Fprintln(cmd.OutOrStdout(), hm.Selected())
	}
	return nil
}

// historyMatcher builds a matcher from the delete flags. At least one
// must be set.
func historyMatcher(ts, url string) (entity.HistoryMatcher, error) {
	var m entity.HistoryMatcher
	if ts = strings.TrimSpace(ts); ts != "" {
		n, err := strconv.ParseInt(ts, 10, 64)
		if err != nil {
			return m, fmt.Errorf("invalid --ts %q: %w", ts, err)
		}
		m.Timestamp = &n
	}
	m.URL = strings.TrimSpace(url)
	if m.IsEmpty() {
		return m, errors.New("--ts or --url is required")
	}
	return m, nil
}

// newestFirst returns at most limit entries, newest first.
func newestFirst(entries []entity.HistoryEntry, limit int) []entity.HistoryEntry {
	out := slices.Clone(entries)
	slices.Reverse(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func writeHistory(w io.Writer, entries []entity.HistoryEntry, now time.Time) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No history yet.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIMESTAMP\tVISITED\tTITLE\tURL")
	for _, e := range entries {
		title := e.Title
		if title == "" {
			title = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n",
			e.Timestamp,
			styles.RelativeTime(time.UnixMilli(e.Timestamp), now),
			styles.Truncate(title, maxTitleDisplay),
			styles.Truncate(e.URL, maxURLDisplay),
		)
	}
	return tw.Flush()
}
