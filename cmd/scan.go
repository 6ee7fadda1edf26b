// =============================================================================
// CSV to LIWC Dictionary - Scan Command
// =============================================================================
//
// This file defines the 'scan' command, which reports which categories of a
// dictionary occur in one or more text files.
//
// COMMAND USAGE:
//   liwcdic scan --dict words.dic essay.txt notes.txt
//   cat essay.txt | liwcdic scan --dict words.dic
//
// OUTPUT:
//   FILE       TOKENS  CATEGORY  ENTRIES
//   essay.txt  412     Positive  9
//   essay.txt  412     Negative  2
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/internal/dicparser"
	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/internal/scan"
	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/internal/textenc"
	"github.com/spf13/cobra"
)

// scanDictPath is the dictionary to scan with.
var scanDictPath string

// showMatches lists the matched entries per file.
var showMatches bool

var scanCmd = &cobra.Command{
	Use:   "scan [file...]",
	Short: "Show which dictionary categories occur in text files",
	Long: `Scan loads a dictionary and reports, for each text file, how many of its
entries occur per category. Entries ending in "*" match any word with that
prefix. Each entry counts once per file. Without file arguments the text is
read from standard input.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		if scanDictPath == "" {
			return fmt.Errorf("--dict is required")
		}

		enc, _, err := textenc.Lookup(settings.Conversion.Encoding)
		if err != nil {
			return err
		}
		dict, err := dicparser.ParseFile(scanDictPath, enc)
		if err != nil {
			return fmt.Errorf("%s: %w", scanDictPath, err)
		}
		scanner := scan.New(dict)
		logger.Debug("Dictionary loaded", "path", scanDictPath, "words", len(dict.Words))

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "FILE\tTOKENS\tCATEGORY\tENTRIES")

		report := func(name string, r scan.Report) {
			for _, num := range dict.CategoryNumbers() {
				if hits := r.CategoryHits[num]; hits > 0 {
					fmt.Fprintf(tw, "%s\t%d\t%s\t%d\n", name, r.Tokens, dict.Categories[num], hits)
				}
			}
			if showMatches && len(r.Matches) > 0 {
				fmt.Fprintf(tw, "%s\t\tmatches\t%s\n", name, strings.Join(r.Matches, " "))
			}
		}

		if len(args) == 0 {
			r, err := scanner.ScanReader(textenc.NewReader(cmd.InOrStdin(), enc))
			if err != nil {
				return err
			}
			report("-", r)
			return tw.Flush()
		}

		for _, path := range args {
			file, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open text: %w", err)
			}
			r, err := scanner.ScanReader(textenc.NewReader(file, enc))
			file.Close()
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			report(path, r)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringVar(&scanDictPath, "dict", "", "Dictionary file to scan with")
	scanCmd.Flags().String("encoding", "utf-8", "Text encoding of the dictionary and the text files")
	scanCmd.Flags().BoolVar(&showMatches, "matches", false, "Also list the matched entries")
}
