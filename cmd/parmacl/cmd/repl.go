package cmd

import (
	"github.com/spf13/cobra"

	pmlog "github.com/msto63/parmacl/foundation/core/log"
	"github.com/msto63/parmacl/foundation/utils/stringx"
	"github.com/msto63/parmacl/internal/history"
	"github.com/msto63/parmacl/internal/tui/repl"
)

var replHistoryPath string

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive parser",
	Long: `Starts an interactive terminal UI that parses every entered line
with the active profile and shows the resulting arguments.

With --history (or cli.history in the profile) parsed lines are stored
in a SQLite database and can be recalled across sessions.

Keys:
  Enter     Parse the line
  Up/Down   Recall previous lines
  Ctrl+L    Clear results
  Esc       Quit`,
	RunE: runREPL,
}

func init() {
	rootCmd.AddCommand(replCmd)

	replCmd.Flags().StringVar(&replHistoryPath, "history", "", "history database (default from profile, else disabled)")
}

func runREPL(cmd *cobra.Command, args []string) error {
	parser, err := activeProfile.Build()
	if err != nil {
		return err
	}
	// log lines would corrupt the alternate screen
	parser.Logger = pmlog.Discard()

	path := stringx.FirstNonEmpty(replHistoryPath, activeProfile.Setting("cli.history", activeProfile.CLI.History))

	var store history.Store
	if path != "" {
		sqlStore, err := history.New(history.Config{Path: path})
		if err != nil {
			return err
		}
		defer sqlStore.Close()
		store = sqlStore
	}

	return repl.Run(parser, store, activeProfile.Name)
}
