// =============================================================================
// CSV to LIWC Dictionary - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for batch conversion:
//   - Input discovery in a directory
//   - Output file naming
//   - Output directory management
//   - Processing summaries
//
// BATCH LAYOUT:
//   - Every file in InputDir matching the pattern becomes one job
//   - Each job writes one dictionary into OutputDir
//   - Two inputs may never share an output path; the plan is rejected
//     before any conversion starts
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DictionaryExtension is appended to generated output names that lack it.
const DictionaryExtension = ".dic"

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for batch conversion.
type FileManager struct {
	// InputDir is the directory scanned for input files.
	InputDir string

	// OutputDir is the directory where dictionaries are written.
	OutputDir string
}

// Job pairs one input file with the dictionary it produces.
type Job struct {
	InputFile  string
	OutputFile string
}

// NewFileManager creates a new FileManager with the specified directories.
func NewFileManager(inputDir, outputDir string) *FileManager {
	return &FileManager{
		InputDir:  inputDir,
		OutputDir: outputDir,
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureOutputDir creates the output directory if it doesn't exist.
//
// RETURNS:
//   - An error if the directory cannot be created.
func (fm *FileManager) EnsureOutputDir() error {
	if err := os.MkdirAll(fm.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.OutputDir, err)
	}
	return nil
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverInputFiles scans the input directory for files matching the pattern.
//
// PARAMETERS:
//   - pattern: A glob pattern to match file names (e.g., "*.csv").
//              If empty, defaults to "*.csv".
//
// RETURNS:
//   - The matching regular files, sorted.
//   - An error if the pattern is malformed or the directory is unreadable.
func (fm *FileManager) DiscoverInputFiles(pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "*.csv"
	}

	if _, err := os.ReadDir(fm.InputDir); err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}

	files, err := filepath.Glob(filepath.Join(fm.InputDir, pattern))
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}

	// Filter out directories.
	var result []string
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			result = append(result, file)
		}
	}

	sort.Strings(result)
	return result, nil
}

// PlanJobs names an output file for every input.
//
// PARAMETERS:
//   - inputs: The input files, usually from DiscoverInputFiles.
//   - format: The output name format passed to GenerateOutputFileName.
//
// RETURNS:
//   - One Job per input, in input order.
//   - An error if two inputs would write the same output file.
func (fm *FileManager) PlanJobs(inputs []string, format string) ([]Job, error) {
	jobs := make([]Job, 0, len(inputs))
	owners := make(map[string]string, len(inputs))

	for _, input := range inputs {
		base := filepath.Base(input)
		name := strings.TrimSuffix(base, filepath.Ext(base))

		output := filepath.Join(fm.OutputDir, GenerateOutputFileName(format, map[string]string{"name": name}))
		if other, taken := owners[output]; taken {
			return nil, fmt.Errorf("%s and %s would both write %s", other, input, output)
		}
		owners[output] = input

		jobs = append(jobs, Job{InputFile: input, OutputFile: output})
	}

	return jobs, nil
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName generates an output file name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {uuid}      - A random UUID
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               {time}      - Current time (HHMMSS)
//               {name}      - Input file name (without extension)
//   - params: A map of placeholder values, keyed without braces.
//
// RETURNS:
//   - The generated file name, always ending in ".dic".
//
// EXAMPLE:
//   format: "{name}_{timestamp}.dic"
//   params: {"name": "emotions"}
//   output: "emotions_20240115_143022.dic"
func GenerateOutputFileName(format string, params map[string]string) string {
	if format == "" {
		format = "{name}"
	}
	now := time.Now()

	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	oldnew := make([]string, 0, len(replacements)*2)
	for placeholder, value := range replacements {
		oldnew = append(oldnew, placeholder, value)
	}
	result := strings.NewReplacer(oldnew...).Replace(format)

	if !strings.HasSuffix(strings.ToLower(result), DictionaryExtension) {
		result += DictionaryExtension
	}

	return result
}

// =============================================================================
// PROCESSING SUMMARY
// =============================================================================

// ProcessingSummary contains summary information about a batch run.
type ProcessingSummary struct {
	StartTime       time.Time
	EndTime         time.Time
	TotalFiles      int
	SuccessfulFiles int
	FailedFiles     int
	TotalRows       int
	SkippedRows     int
	TotalWords      int
	ProcessedFiles  []ProcessedFileInfo
	FailedFilesList []FailedFileInfo
}

// ProcessedFileInfo contains information about a converted file.
type ProcessedFileInfo struct {
	InputFile   string
	OutputFile  string
	Rows        int
	Words       int
	Categories  int
	ProcessTime time.Duration
}

// FailedFileInfo contains information about a failed file.
type FailedFileInfo struct {
	InputFile    string
	ErrorMessage string
}

// WriteSummaryLog writes a processing summary to a text file.
//
// PARAMETERS:
//   - summary: The processing summary.
//   - outputDir: The directory to write the summary file.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func WriteSummaryLog(summary ProcessingSummary, outputDir string) (string, error) {
	timestamp := summary.EndTime.Format("20060102_150405")
	summaryPath := filepath.Join(outputDir, fmt.Sprintf("conversion_summary_%s.txt", timestamp))

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	duration := summary.EndTime.Sub(summary.StartTime)
	fmt.Fprintf(writer, "CSV to LIWC Dictionary - Conversion Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n\n"+
		"Statistics:\n"+
		"  Total Files:    %d\n"+
		"  Successful:     %d\n"+
		"  Failed:         %d\n"+
		"  Total Rows:     %d\n"+
		"  Skipped Rows:   %d\n"+
		"  Total Words:    %d\n\n",
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		duration.String(),
		summary.TotalFiles,
		summary.SuccessfulFiles,
		summary.FailedFiles,
		summary.TotalRows,
		summary.SkippedRows,
		summary.TotalWords)

	if len(summary.ProcessedFiles) > 0 {
		writer.WriteString("Successful Files:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, pf := range summary.ProcessedFiles {
			fmt.Fprintf(writer, "  Input:        %s\n", pf.InputFile)
			fmt.Fprintf(writer, "  Output:       %s\n", pf.OutputFile)
			fmt.Fprintf(writer, "  Rows:         %d\n", pf.Rows)
			fmt.Fprintf(writer, "  Words:        %d\n", pf.Words)
			fmt.Fprintf(writer, "  Categories:   %d\n", pf.Categories)
			fmt.Fprintf(writer, "  Process Time: %s\n\n", pf.ProcessTime.String())
		}
	}

	if len(summary.FailedFilesList) > 0 {
		writer.WriteString("Failed Files:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, ff := range summary.FailedFilesList {
			fmt.Fprintf(writer, "  File:  %s\n", ff.InputFile)
			fmt.Fprintf(writer, "  Error: %s\n\n", ff.ErrorMessage)
		}
	}

	writer.WriteString("================================================================================\n" +
		"End of Summary\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	return summaryPath, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
