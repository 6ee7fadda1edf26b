// =============================================================================
// CSV to LIWC Dictionary - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (liwcdic)
//   ├── convertCmd  (liwcdic convert)
//   ├── validateCmd (liwcdic validate)
//   ├── settingsCmd (liwcdic settings export)
//   ├── scanCmd     (liwcdic scan)
//   └── versionCmd  (liwcdic version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose, --log-file)
//   2. Resolving settings from flags, environment and the config file
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/internal/config"
	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/internal/logging"
	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to an optional YAML settings file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// settings holds the resolved configuration for the running command.
var settings *config.Config

// logger is the application logger, ready once PersistentPreRunE has run.
var logger logging.Logger = logging.Nop()

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "liwcdic",
	Short: "CSV to LIWC Dictionary - Turn word lists into LIWC dictionary files",
	Long: `liwcdic converts a CSV (or XLSX) word list into a LIWC dictionary file:
a "%"-delimited block of numbered categories followed by one line per word
listing the categories it belongs to.

Two layouts are understood:
  Table   the first column holds the word, every other column is a
          category and a non-blank cell marks membership
  Poster  every column is a category and every cell beneath its header
          is a word of that category

Settings come from flags, LIWCDIC_* environment variables and an optional
YAML file, in that order of precedence.

Example Usage:
  liwcdic convert -i words.csv -o words.dic
  liwcdic convert -i poster.csv -o poster.dic --style poster --delimiter tab
  liwcdic convert --input-dir ./lists --output-dir ./dics --workers 8
  liwcdic validate --dict words.dic
  liwcdic scan --dict words.dic essay.txt`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		resolved, err := resolveSettings(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		if verbose {
			resolved.Logger.Level = "debug"
		}

		zl, err := logging.NewZapLogger(resolved.Logger)
		if err != nil {
			return err
		}

		settings = resolved
		logger = zl
		logger.Debug("Settings resolved", "config", cfgFile, "style", settings.Conversion.Style)
		return nil
	},

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		// Syncing stderr fails on some terminals; nothing useful can be done about it.
		_ = logger.Sync()
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// An interrupt cancels the running conversion between rows.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"Path to a YAML settings file (see 'liwcdic settings export')",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)

	rootCmd.PersistentFlags().String("log-level", config.DefaultLogLevel, "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-file", "", "Also write JSON logs to this file")
}
