package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/msto63/parmacl/foundation/cmdline/profile"
	pmerror "github.com/msto63/parmacl/foundation/core/error"
	pmlog "github.com/msto63/parmacl/foundation/core/log"
)

var (
	profilePath string
	logLevel    string
	verbose     bool

	// set by loadProfile before any subcommand runs
	activeProfile *profile.Profile
)

var rootCmd = &cobra.Command{
	Use:   "parmacl",
	Short: "parmacl - matcher-driven command line parsing",
	Long: `parmacl parses command lines into options and parameters using an
ordered list of matchers loaded from a parser profile (TOML or YAML).

Without --profile the first profile found in the default locations is
used (./parmacl.toml, ./configs/, $XDG_CONFIG_HOME/parmacl/ ...). When
none exists every argument is accepted.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadProfile,
}

// Execute runs the root command and prints a returned error to stderr
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	return err
}

// ExitCode maps an error returned by Execute to a process exit status
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return pmerror.GetCode(err).ExitCode()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&profilePath, "profile", "p", "", "parser profile file (default: discovered)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error, off")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (same as --log-level debug)")
}

func loadProfile(cmd *cobra.Command, args []string) error {
	// configure logging from flags first so profile loading is logged too
	level, err := resolveLevel(logLevel, "warn")
	if err != nil {
		return err
	}
	logger := pmlog.NewWithConfig(pmlog.Config{
		Level:  level,
		Format: pmlog.FormatConsole,
		Output: cmd.ErrOrStderr(),
		Name:   "parmacl",
	})
	pmlog.SetDefault(logger)

	var prof *profile.Profile
	if profilePath != "" {
		prof, err = profile.Load(profilePath)
	} else {
		prof, err = profile.Discover()
	}
	if err != nil {
		return err
	}

	if logLevel == "" && !verbose {
		level, err = resolveLevel(prof.Setting("cli.log_level", prof.CLI.LogLevel), "warn")
		if err != nil {
			return err
		}
		logger.SetLevel(level)
	}

	logger.Debug("Profile loaded", pmlog.Fields{
		"profile":  prof.Name,
		"path":     prof.Path(),
		"matchers": len(prof.Matchers),
	})
	activeProfile = prof
	return nil
}

func resolveLevel(name, fallback string) (pmlog.Level, error) {
	if verbose {
		return pmlog.LevelDebug, nil
	}
	if name == "" {
		name = fallback
	}
	level, err := pmlog.ParseLevel(name)
	if err != nil {
		return level, pmerror.Wrap(err, "invalid log level").
			WithCode(pmerror.CodeInvalidInput).
			WithDetail("level", name)
	}
	return level, nil
}

func printError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
