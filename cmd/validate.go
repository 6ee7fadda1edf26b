// =============================================================================
// CSV to LIWC Dictionary - Validate Command
// =============================================================================
//
// This file defines the 'validate' command. It checks the effective
// settings without converting anything and, with --dict, checks an existing
// dictionary file.
//
// COMMAND USAGE:
//   liwcdic validate [--config settings.yaml] [flags]
//   liwcdic validate --dict words.dic [--encoding windows-1252]
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/internal/dicparser"
	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/internal/textenc"
	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/internal/validation"
	"github.com/spf13/cobra"
)

// dictPath is the dictionary file to check.
var dictPath string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate settings and, optionally, a dictionary file",
	Long: `Validate checks the settings a conversion would use: encoding, delimiter,
quote, style and line ending. Nothing is read or written.

With --dict it also parses the given dictionary file and reports every
problem found: undeclared or duplicate categories, duplicate words, words
without categories and categories no word uses.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		opts := settings.Conversion

		if err := opts.Validate(); err != nil {
			return err
		}
		fmt.Fprintf(out, "Settings OK (style %s, encoding %s, delimiter %q, quote %q)\n",
			opts.Style, opts.Encoding, opts.Delimiter, opts.Quote)

		if dictPath == "" {
			return nil
		}

		enc, _, err := textenc.Lookup(opts.Encoding)
		if err != nil {
			return err
		}
		dict, err := dicparser.ParseFile(dictPath, enc)
		if err != nil {
			return fmt.Errorf("%s: %w", dictPath, err)
		}

		report := validation.Validate(dict)
		fmt.Fprintf(out, "%s: %d categories, %d words\n", dictPath, report.CategoriesValidated, report.WordsValidated)
		fmt.Fprint(out, validation.FormatErrors(report.Errors))
		if len(report.Errors) == 0 {
			fmt.Fprintln(out)
		}

		if !report.IsValid {
			return fmt.Errorf("%s: %d error(s)", dictPath, report.ErrorCount)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	addConversionFlags(validateCmd)
	validateCmd.Flags().StringVar(&dictPath, "dict", "", "Dictionary file to check")
}
