// =============================================================================
// CSV to LIWC Dictionary - Converter Module
// =============================================================================
//
// This module contains the conversion pipeline for a single file, from
// opening the input to closing the finished dictionary.
//
// CONVERSION PIPELINE:
//   1. Check the options and both paths
//   2. Open the input (CSV, or XLSX by extension) and read its header
//   3. Build the dictionary row by row, reporting progress on the side
//   4. Close the input
//   5. Validate the dictionary and drop words that would break the layout
//   6. Sort and write the output file
//
// Everything that can fail for configuration reasons fails before step 6
// creates or truncates the output.
//
// CONCURRENCY:
//   A single conversion is sequential. Independent Converters may run in
//   parallel; batch mode in cmd does exactly that.
//
// =============================================================================

package converter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/internal/config"
	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/internal/csvparser"
	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/internal/dictionary"
	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/internal/dicwriter"
	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/internal/logging"
	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/internal/textenc"
	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/internal/types"
	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/internal/validation"
	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/internal/xlsxparser"
	"github.com/google/uuid"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of converting a single file.
type Result struct {
	// RunID identifies this conversion in logs.
	RunID string

	// InputFile is the path to the input file.
	InputFile string

	// OutputFile is the path to the written dictionary.
	// This is empty if the conversion failed before writing.
	OutputFile string

	// Success indicates whether the conversion completed.
	Success bool

	// Error contains the error if the conversion failed.
	Error error

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about one conversion.
type ProcessingStats struct {
	// RowsRead is the number of data rows read, malformed ones included.
	RowsRead int

	// RowsSkipped is the number of malformed rows ignored.
	RowsSkipped int

	// WordsProcessed is the number of word-category assignments made.
	WordsProcessed int64

	// Categories is the number of categories in the output.
	Categories int

	// Words is the number of distinct words in the output.
	Words int

	// WordsDropped is the number of words removed because they contain a
	// tab, a line break, or are the "%" marker itself.
	WordsDropped int

	// ValidationWarnings is the number of non-fatal validation findings.
	ValidationWarnings int

	// ProcessingTime is the time taken by the whole conversion.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// ProgressFunc receives the human-readable status string while a
// conversion runs. It is called from a separate goroutine.
type ProgressFunc func(status string)

// Converter converts one input file into one dictionary file.
type Converter struct {
	// opts holds the conversion options, paths included.
	opts config.Options

	// logger receives pipeline events.
	logger logging.Logger

	// progress is optional.
	progress ProgressFunc
}

// rowSource is what both input parsers provide.
type rowSource interface {
	dictionary.RowSource
	Headers() []string
	Skipped() int
	Close() error
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a new Converter instance.
//
// PARAMETERS:
//   - opts: The conversion options, including input and output paths.
//   - logger: The logger to use. Nil discards all log output.
//
// RETURNS:
//   - A new Converter instance.
func New(opts config.Options, logger logging.Logger) *Converter {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Converter{
		opts:   opts,
		logger: logger,
	}
}

// OnProgress registers fn to receive status updates every
// ProgressInterval and once more when the build finishes.
func (c *Converter) OnProgress(fn ProgressFunc) *Converter {
	c.progress = fn
	return c
}

// Status formats the progress message.
func Status(processed, categories int64) string {
	return fmt.Sprintf("Processed: %d words across %d categories", processed, categories)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the conversion pipeline.
//
// PARAMETERS:
//   - ctx: Checked between rows. Cancelling it aborts the run before the
//     output is written.
//
// RETURNS:
//   - A Result struct containing the outcome of the conversion.
func (c *Converter) Run(ctx context.Context) Result {
	startTime := time.Now()
	result := Result{
		RunID:     uuid.NewString(),
		InputFile: c.opts.InputPath,
	}
	log := c.logger.With("run_id", result.RunID, "input", c.opts.InputPath)

	fail := func(err error) Result {
		result.Error = err
		result.Stats.ProcessingTime = time.Since(startTime)
		log.Error("Conversion failed", "error", err)
		return result
	}

	// =========================================================================
	// STEP 1: PREFLIGHT
	// =========================================================================

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	writeOpts, err := c.preflight()
	if err != nil {
		return fail(err)
	}

	log.Info("Converting file", "output", c.opts.OutputPath, "style", c.opts.Style, "encoding", c.opts.Encoding)

	// =========================================================================
	// STEP 2: OPEN INPUT
	// =========================================================================

	source, err := c.openSource()
	if err != nil {
		return fail(err)
	}

	header := source.Headers()
	log.Debug("Read header", "columns", len(header))

	// =========================================================================
	// STEP 3: BUILD DICTIONARY
	// =========================================================================

	builder := dictionary.NewBuilder(dictionary.Options{
		Style:     c.opts.Style,
		Lowercase: c.opts.Lowercase,
	})

	stopProgress := c.startProgress(builder)
	dict, buildErr := builder.Build(ctx, header, source)
	stopProgress()

	// =========================================================================
	// STEP 4: CLOSE INPUT
	// =========================================================================

	closeErr := source.Close()

	result.Stats.RowsRead = builder.RowsRead() + source.Skipped()
	result.Stats.RowsSkipped = builder.RowsSkipped() + source.Skipped()
	result.Stats.WordsProcessed = builder.Processed()

	if buildErr != nil {
		return fail(fmt.Errorf("failed to read input: %w", buildErr))
	}
	if closeErr != nil {
		return fail(fmt.Errorf("failed to close input: %w", closeErr))
	}

	if c.progress != nil {
		c.progress(Status(builder.Processed(), builder.Categories()))
	}

	if result.Stats.RowsSkipped > 0 {
		log.Warn("Skipped malformed rows", "count", result.Stats.RowsSkipped)
	}

	// =========================================================================
	// STEP 5: VALIDATE
	// =========================================================================

	dropped, warnings, err := c.validate(dict, log)
	if err != nil {
		return fail(err)
	}
	result.Stats.WordsDropped = dropped
	result.Stats.ValidationWarnings = warnings

	// =========================================================================
	// STEP 6: WRITE OUTPUT
	// =========================================================================

	dict.Sort()

	if err := dicwriter.WriteFile(c.opts.OutputPath, dict, writeOpts); err != nil {
		return fail(err)
	}

	result.OutputFile = c.opts.OutputPath
	result.Stats.Categories = len(dict.Categories)
	result.Stats.Words = len(dict.Words)

	// =========================================================================
	// COMPLETE
	// =========================================================================

	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)

	log.Info("Wrote dictionary",
		"output", result.OutputFile,
		"words", result.Stats.Words,
		"categories", result.Stats.Categories,
		"duration", result.Stats.ProcessingTime,
	)

	return result
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// preflight validates the options and both paths and resolves the writer
// settings. Nothing is opened or created here.
func (c *Converter) preflight() (dicwriter.Options, error) {
	if err := c.opts.Validate(); err != nil {
		return dicwriter.Options{}, err
	}
	if err := c.opts.ValidatePaths(); err != nil {
		return dicwriter.Options{}, err
	}

	enc, _, err := textenc.Lookup(c.opts.Encoding)
	if err != nil {
		return dicwriter.Options{}, err
	}
	eol, err := config.ParseLineEnding(c.opts.LineEnding)
	if err != nil {
		return dicwriter.Options{}, err
	}

	info, err := os.Stat(c.opts.InputPath)
	if err != nil {
		return dicwriter.Options{}, fmt.Errorf("input file not readable: %w", err)
	}
	if info.IsDir() {
		return dicwriter.Options{}, fmt.Errorf("input path is a directory: %s", c.opts.InputPath)
	}

	outDir := filepath.Dir(c.opts.OutputPath)
	info, err = os.Stat(outDir)
	if err != nil {
		return dicwriter.Options{}, fmt.Errorf("output directory not accessible: %w", err)
	}
	if !info.IsDir() {
		return dicwriter.Options{}, fmt.Errorf("output directory is not a directory: %s", outDir)
	}

	return dicwriter.Options{Encoding: enc, LineEnding: eol}, nil
}

// openSource opens the input with the parser that matches its extension.
func (c *Converter) openSource() (rowSource, error) {
	if xlsxparser.IsWorkbook(c.opts.InputPath) {
		parser, err := xlsxparser.NewStreamingParser(c.opts.InputPath, c.opts.Sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to open workbook: %w", err)
		}
		return parser, nil
	}

	settings, err := csvparser.SettingsFromOptions(c.opts)
	if err != nil {
		return nil, err
	}
	parser, err := csvparser.NewStreamingParser(c.opts.InputPath, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV: %w", err)
	}
	return parser, nil
}

// startProgress reports builder counters every ProgressInterval until the
// returned stop function is called. stop waits for the reporter to exit.
func (c *Converter) startProgress(builder *dictionary.Builder) (stop func()) {
	if c.progress == nil {
		return func() {}
	}

	interval := c.opts.ProgressInterval
	if interval <= 0 {
		interval = config.DefaultProgressInterval
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				c.progress(Status(builder.Processed(), builder.Categories()))
			}
		}
	}()

	return func() {
		close(done)
		wg.Wait()
	}
}

// validate removes words that cannot be written and fails on any other
// error-level finding.
//
// RETURNS:
//   - The number of words dropped and the number of warnings.
func (c *Converter) validate(dict *types.Dictionary, log logging.Logger) (int, int, error) {
	report := validation.Validate(dict)

	dropped := 0
	var fatal []error
	for _, finding := range report.Errors {
		switch {
		case finding.Severity == validation.SeverityWarning:
			log.Warn("Validation warning", "finding", finding.Error())
		case finding.Rule == validation.RuleWordCharacters:
			if dict.Remove(finding.Word) {
				dropped++
				log.Warn("Dropped word", "word", finding.Word, "reason", finding.Message)
			}
		default:
			fatal = append(fatal, finding)
		}
	}

	if len(fatal) > 0 {
		return dropped, report.WarningCount, fmt.Errorf("validation failed with %d errors: %w", len(fatal), errors.Join(fatal...))
	}

	log.Debug("Validation complete", "warnings", report.WarningCount, "dropped", dropped)
	return dropped, report.WarningCount, nil
}
