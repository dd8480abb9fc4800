package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	pmlog "github.com/msto63/parmacl/foundation/core/log"
	"github.com/msto63/parmacl/foundation/utils/stringx"
	"github.com/msto63/parmacl/internal/history"
)

const maxLineWidth = 60

var (
	historyPath    string
	historyLimit   int
	historyFailed  bool
	historySession string
	historyPrune   time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List command lines recorded by the REPL",
	Long: `Lists the most recent entries of the history database, newest
first, followed by a summary.

With --prune entries older than the given duration are deleted first.`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historyPath, "db", "", "history database (default from profile, else ./data/history.db)")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of entries")
	historyCmd.Flags().BoolVar(&historyFailed, "failed", false, "only lines that failed to parse")
	historyCmd.Flags().StringVar(&historySession, "session", "", "only entries of this session")
	historyCmd.Flags().DurationVar(&historyPrune, "prune", 0, "delete entries older than this duration (e.g. 720h)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	path := stringx.FirstNonEmpty(
		historyPath,
		activeProfile.Setting("cli.history", activeProfile.CLI.History),
		history.DefaultConfig().Path,
	)

	store, err := history.New(history.Config{Path: path})
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	out := cmd.OutOrStdout()
	if historyPrune > 0 {
		deleted, err := store.Prune(ctx, historyPrune)
		if err != nil {
			return err
		}
		pmlog.GetDefault().Info("History pruned", pmlog.Fields{"deleted": deleted, "older_than": historyPrune.String()})
		fmt.Fprintf(out, "Pruned %d entries\n", deleted)
	}

	entries, err := store.Recent(ctx, history.Filter{
		SessionID:  historySession,
		FailedOnly: historyFailed,
		Limit:      historyLimit,
	})
	if err != nil {
		return err
	}
	stats, err := store.Stats(ctx)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No history entries.")
	} else {
		fmt.Fprintln(out, renderHistory(entries))
	}
	fmt.Fprintf(out, "%d entries, %d failed, %d sessions\n", stats.Total, stats.Failed, stats.Sessions)
	return nil
}

func renderHistory(entries []*history.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		result := strconv.Itoa(e.ArgCount) + " args"
		if e.Failed() {
			result = e.ErrorID
		}
		rows = append(rows, []string{
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			stringx.Truncate(e.SessionID, 8, ""),
			stringx.Truncate(e.Line, maxLineWidth, "…"),
			result,
		})
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("TIME", "SESSION", "LINE", "RESULT").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.Render()
}
