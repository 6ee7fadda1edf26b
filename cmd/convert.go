// =============================================================================
// CSV to LIWC Dictionary - Convert Command
// =============================================================================
//
// This file defines the 'convert' command, which is the main command for
// turning CSV word lists into LIWC dictionaries.
//
// COMMAND USAGE:
//   liwcdic convert -i words.csv -o words.dic [flags]
//   liwcdic convert --input-dir ./lists --output-dir ./dics [flags]
//
// SINGLE FILE:
//   One input, one output. Progress is printed to standard error.
//
// BATCH:
//   1. Discover files in --input-dir matching --pattern
//   2. Name an output for each in --output-dir
//   3. Convert the files concurrently, at most --workers at a time
//   4. Print a summary and optionally write it to the output directory
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/internal/config"
	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/internal/converter"
	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/pkg/utils"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// quiet suppresses the progress line.
var quiet bool

// writeSummary writes a summary file after a batch run.
var writeSummary bool

// =============================================================================
// CONVERT COMMAND DEFINITION
// =============================================================================

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert CSV or XLSX word lists into LIWC dictionaries",
	Long: `The convert command reads a word list and writes a LIWC dictionary.

Give -i/-o for a single file, or --input-dir/--output-dir to convert every
matching file in a directory. In batch mode each file is converted
independently; with --continue-on-error (the default) a failed file does
not stop the others.

Rows with fewer fields than the header are skipped and counted. Words are
written in byte order, each with its category numbers ascending.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		if settings.Batch.InputDir != "" {
			return runBatch(cmd, settings)
		}
		return runSingle(cmd, settings.Conversion)
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringP("input", "i", "", "Input CSV or XLSX file")
	convertCmd.Flags().StringP("output", "o", "", "Output dictionary file")
	addConversionFlags(convertCmd)
	addBatchFlags(convertCmd)

	convertCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print progress")
	convertCmd.Flags().BoolVar(&writeSummary, "summary", false, "Write a summary file to --output-dir after a batch run")

	convertCmd.MarkFlagsMutuallyExclusive("input", "input-dir")
	convertCmd.MarkFlagsMutuallyExclusive("output", "output-dir")
}

// addConversionFlags registers the format options shared by several commands.
func addConversionFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("encoding", config.DefaultEncoding, "Text encoding of input and output (IANA name or label)")
	f.String("delimiter", config.DefaultDelimiter, `Field delimiter: a character, or tab, pipe, semicolon, comma`)
	f.String("quote", config.DefaultQuote, "Quote character")
	f.Bool("lowercase", true, "Lowercase every word")
	f.String("style", string(config.DefaultStyle), "CSV layout: Table or Poster")
	f.String("sheet", "", "Worksheet to read from XLSX input (default: first sheet)")
	f.String("line-ending", config.DefaultLineEnding, "Output line ending: lf or crlf")
	f.Duration("progress-interval", config.DefaultProgressInterval, "How often progress is printed")
}

// addBatchFlags registers the directory options.
func addBatchFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("input-dir", "", "Convert every matching file in this directory")
	f.String("output-dir", "", "Directory for batch output")
	f.String("pattern", config.DefaultPattern, "Glob for batch input file names")
	f.String("output-name", config.DefaultOutputNameFormat, "Batch output name format ({name}, {uuid}, {timestamp}, {date}, {time})")
	f.Int("workers", config.DefaultMaxConcurrency, "Maximum concurrent conversions in batch mode")
	f.Bool("continue-on-error", true, "Keep converting other files after a failure")
}

// =============================================================================
// SINGLE FILE
// =============================================================================

func runSingle(cmd *cobra.Command, opts config.Options) error {
	conv := converter.New(opts, logger)

	progress := cmd.ErrOrStderr()
	if !quiet {
		var mu sync.Mutex
		conv.OnProgress(func(status string) {
			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintf(progress, "\r%s", status)
		})
	}

	result := conv.Run(cmd.Context())
	if !quiet {
		fmt.Fprintln(progress)
	}
	if !result.Success {
		return result.Error
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s -> %s (%d words, %d categories, %d rows skipped)\n",
		filepath.Base(result.InputFile),
		result.OutputFile,
		result.Stats.Words,
		result.Stats.Categories,
		result.Stats.RowsSkipped,
	)
	return nil
}

// =============================================================================
// BATCH
// =============================================================================

func runBatch(cmd *cobra.Command, cfg *config.Config) error {
	startTime := time.Now()
	batch := cfg.Batch
	out := cmd.OutOrStdout()

	if batch.OutputDir == "" {
		return fmt.Errorf("%w: --output-dir is required with --input-dir", config.ErrInvalidOption)
	}

	if err := batch.Validate(); err != nil {
		return err
	}

	// Fail once on bad format options instead of once per file.
	if err := cfg.Conversion.Validate(); err != nil {
		return err
	}

	// =========================================================================
	// STEP 1: DISCOVER INPUT FILES
	// =========================================================================

	fm := utils.NewFileManager(batch.InputDir, batch.OutputDir)

	inputs, err := fm.DiscoverInputFiles(batch.Pattern)
	if err != nil {
		return fmt.Errorf("failed to discover input files: %w", err)
	}
	if len(inputs) == 0 {
		fmt.Fprintf(out, "No files matching %q found in %s.\n", batch.Pattern, batch.InputDir)
		return nil
	}

	jobs, err := fm.PlanJobs(inputs, batch.OutputNameFormat)
	if err != nil {
		return err
	}
	if err := fm.EnsureOutputDir(); err != nil {
		return err
	}

	logger.Info("Starting batch", "files", len(jobs), "workers", batch.MaxConcurrency)

	// =========================================================================
	// STEP 2: CONVERT CONCURRENTLY
	// =========================================================================

	results := convertAll(cmd.Context(), cfg, jobs)

	// =========================================================================
	// STEP 3: SUMMARY
	// =========================================================================

	summary := utils.ProcessingSummary{
		StartTime:  startTime,
		TotalFiles: len(jobs),
	}

	for _, result := range results {
		summary.TotalRows += result.Stats.RowsRead
		summary.SkippedRows += result.Stats.RowsSkipped

		if result.Success {
			summary.SuccessfulFiles++
			summary.TotalWords += result.Stats.Words
			summary.ProcessedFiles = append(summary.ProcessedFiles, utils.ProcessedFileInfo{
				InputFile:   result.InputFile,
				OutputFile:  result.OutputFile,
				Rows:        result.Stats.RowsRead,
				Words:       result.Stats.Words,
				Categories:  result.Stats.Categories,
				ProcessTime: result.Stats.ProcessingTime,
			})
			fmt.Fprintf(out, "  ✓ %s -> %s\n", filepath.Base(result.InputFile), result.OutputFile)
			continue
		}

		summary.FailedFiles++
		message := "not converted"
		if result.Error != nil {
			message = result.Error.Error()
		}
		summary.FailedFilesList = append(summary.FailedFilesList, utils.FailedFileInfo{
			InputFile:    result.InputFile,
			ErrorMessage: message,
		})
		fmt.Fprintf(out, "  ✗ %s: %s\n", filepath.Base(result.InputFile), message)
	}
	summary.EndTime = time.Now()

	fmt.Fprintln(out, "\n=== Conversion Complete ===")
	fmt.Fprintf(out, "Total files:     %d\n", summary.TotalFiles)
	fmt.Fprintf(out, "Successful:      %d\n", summary.SuccessfulFiles)
	fmt.Fprintf(out, "Errors:          %d\n", summary.FailedFiles)
	fmt.Fprintf(out, "Time elapsed:    %s\n", summary.EndTime.Sub(startTime))

	if writeSummary {
		path, err := utils.WriteSummaryLog(summary, batch.OutputDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Summary written to %s\n", path)
	}

	if summary.FailedFiles > 0 {
		return fmt.Errorf("%d of %d files failed", summary.FailedFiles, summary.TotalFiles)
	}
	return nil
}

// convertAll runs one converter per job, at most MaxConcurrency at a time
// and never fewer than one.
// Without ContinueOnError the first failure cancels the jobs still running
// and those not yet started.
//
// RETURNS:
//   - One result per job, in job order.
func convertAll(ctx context.Context, cfg *config.Config, jobs []utils.Job) []converter.Result {
	results := make([]converter.Result, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Batch.MaxConcurrency, 1))

	for i, job := range jobs {
		opts := cfg.Conversion
		opts.InputPath = job.InputFile
		opts.OutputPath = job.OutputFile

		g.Go(func() error {
			result := converter.New(opts, logger).Run(gctx)
			results[i] = result
			if !result.Success && !cfg.Batch.ContinueOnError {
				return result.Error
			}
			return nil
		})
	}

	// Failures are recorded per result.
	_ = g.Wait()
	return results
}
