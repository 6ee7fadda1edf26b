// =============================================================================
// CSV to LIWC Dictionary - Configuration Module
// =============================================================================
//
// This module is responsible for loading, validating and saving the
// converter settings. The same YAML file carries:
//   1. Conversion options: input/output, encoding, delimiter, quote, style
//   2. Batch options: directories and naming for multi-file runs
//   3. Logger options: level and optional log file
//
// Settings can be exported with Save and re-imported with Load, so a run can
// be repeated later with exactly the same options.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/internal/textenc"
	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/internal/types"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	DefaultEncoding         = "utf-8"
	DefaultDelimiter        = ","
	DefaultQuote            = "\""
	DefaultStyle            = types.StyleTable
	DefaultLineEnding       = "lf"
	DefaultProgressInterval = 600 * time.Millisecond
	DefaultPattern          = "*.csv"
	DefaultOutputNameFormat = "{name}.dic"
	DefaultMaxConcurrency   = 4
	DefaultLogLevel         = "info"
)

// ErrInvalidOption marks every validation failure so callers can tell a
// configuration problem from an I/O problem.
var ErrInvalidOption = errors.New("invalid option")

// =============================================================================
// CONFIGURATION STRUCTURES
// =============================================================================

// Config is the top-level settings document.
type Config struct {
	Conversion Options      `yaml:"conversion"`
	Batch      BatchConfig  `yaml:"batch"`
	Logger     LoggerConfig `yaml:"logger"`
}

// Options holds everything a single conversion run needs.
type Options struct {
	// InputPath is the CSV (or XLSX) file to convert.
	InputPath string `yaml:"input_path"`

	// OutputPath is the dictionary file to create or truncate.
	OutputPath string `yaml:"output_path"`

	// Encoding names the text codec used for both reading and writing.
	// Any IANA name or WHATWG label is accepted.
	// Default: "utf-8"
	Encoding string `yaml:"encoding"`

	// Delimiter is the field separator. Besides a literal character the
	// names "tab", "\t", "pipe", "semicolon" and "comma" are understood.
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// Quote is the quote character.
	// Default: "\""
	Quote string `yaml:"quote"`

	// Lowercase folds every extracted word to lower case.
	// Default: true
	Lowercase bool `yaml:"lowercase"`

	// Style selects the CSV layout, "Table" or "Poster".
	// Default: "Table"
	Style types.Style `yaml:"style"`

	// Sheet names the worksheet read from XLSX inputs. Empty means the
	// first sheet.
	Sheet string `yaml:"sheet,omitempty"`

	// LineEnding is "lf" or "crlf".
	// Default: "lf"
	LineEnding string `yaml:"line_ending"`

	// ProgressInterval is how often the status string is refreshed.
	// Default: 600ms
	ProgressInterval time.Duration `yaml:"progress_interval"`
}

// BatchConfig controls directory-wide conversion.
type BatchConfig struct {
	// InputDir is scanned for files matching Pattern.
	InputDir string `yaml:"input_dir"`

	// OutputDir receives one dictionary per input file.
	OutputDir string `yaml:"output_dir"`

	// Pattern is a glob matched against file names in InputDir.
	// Default: "*.csv"
	Pattern string `yaml:"pattern"`

	// OutputNameFormat builds output file names.
	// Placeholders:
	//   {name}      - input file name without extension
	//   {uuid}      - a random UUID
	//   {timestamp} - current timestamp (YYYYMMDD_HHMMSS)
	// Default: "{name}.dic"
	OutputNameFormat string `yaml:"output_name_format"`

	// MaxConcurrency bounds how many files are converted at once.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`

	// ContinueOnError keeps converting the remaining files after a failure.
	// Default: true
	ContinueOnError bool `yaml:"continue_on_error"`
}

// LoggerConfig configures the zap logger.
type LoggerConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// FilePath, when set, adds a JSON log file next to console output.
	FilePath string `yaml:"file_path,omitempty"`
}

// =============================================================================
// CONSTRUCTION & LOADING
// =============================================================================

// Default returns a Config with every option at its default value.
func Default() *Config {
	return &Config{
		Conversion: Options{
			Encoding:         DefaultEncoding,
			Delimiter:        DefaultDelimiter,
			Quote:            DefaultQuote,
			Lowercase:        true,
			Style:            DefaultStyle,
			LineEnding:       DefaultLineEnding,
			ProgressInterval: DefaultProgressInterval,
		},
		Batch: BatchConfig{
			Pattern:          DefaultPattern,
			OutputNameFormat: DefaultOutputNameFormat,
			MaxConcurrency:   DefaultMaxConcurrency,
			ContinueOnError:  true,
		},
		Logger: LoggerConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Load reads a settings file.
//
// PARAMETERS:
//   - path: The path to a YAML settings file.
//
// RETURNS:
//   - The loaded configuration. Keys missing from the file keep their
//     default values.
//   - An error if the file cannot be read or parsed.
//
// Load does not validate; call Validate on the options that will be used,
// after any command-line overrides are applied.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

// Marshal encodes cfg as YAML in the layout Load reads.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}

// Save writes cfg as YAML to path.
func Save(cfg *Config, path string) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// applyDefaults fills options that the file set explicitly to empty values.
func applyDefaults(cfg *Config) {
	c := &cfg.Conversion
	if c.Encoding == "" {
		c.Encoding = DefaultEncoding
	}
	if c.Delimiter == "" {
		c.Delimiter = DefaultDelimiter
	}
	if c.Quote == "" {
		c.Quote = DefaultQuote
	}
	if c.Style == "" {
		c.Style = DefaultStyle
	}
	if c.LineEnding == "" {
		c.LineEnding = DefaultLineEnding
	}
	if c.ProgressInterval <= 0 {
		c.ProgressInterval = DefaultProgressInterval
	}

	b := &cfg.Batch
	if b.Pattern == "" {
		b.Pattern = DefaultPattern
	}
	if b.OutputNameFormat == "" {
		b.OutputNameFormat = DefaultOutputNameFormat
	}
	if b.MaxConcurrency <= 0 {
		b.MaxConcurrency = DefaultMaxConcurrency
	}

	if cfg.Logger.Level == "" {
		cfg.Logger.Level = DefaultLogLevel
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the format options. Paths are not checked here: a batch
// run validates the shared options once, before any path is known.
//
// The style name is normalized in place ("poster" becomes "Poster").
func (o *Options) Validate() error {
	if _, _, err := textenc.Lookup(o.Encoding); err != nil {
		return fmt.Errorf("%w: encoding: %w", ErrInvalidOption, err)
	}

	delim, err := ParseDelimiter(o.Delimiter)
	if err != nil {
		return err
	}
	quote, err := ParseQuote(o.Quote)
	if err != nil {
		return err
	}
	if delim == quote {
		return fmt.Errorf("%w: delimiter and quote are both %q", ErrInvalidOption, delim)
	}

	style, err := types.ParseStyle(string(o.Style))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOption, err)
	}
	o.Style = style

	if _, err := ParseLineEnding(o.LineEnding); err != nil {
		return err
	}
	return nil
}

// Validate checks the batch options that cannot be defaulted silently.
func (b *BatchConfig) Validate() error {
	if b.MaxConcurrency < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidOption, b.MaxConcurrency)
	}
	return nil
}

// ValidatePaths checks that both paths of a single conversion are set.
func (o *Options) ValidatePaths() error {
	if strings.TrimSpace(o.InputPath) == "" {
		return fmt.Errorf("%w: input path is required", ErrInvalidOption)
	}
	if strings.TrimSpace(o.OutputPath) == "" {
		return fmt.Errorf("%w: output path is required", ErrInvalidOption)
	}
	return nil
}

// ParseDelimiter converts a delimiter setting to the field separator rune.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "\\t", "\t", "tab", "TAB":
		return '\t', nil
	case "pipe", "PIPE":
		return '|', nil
	case "semicolon", "SEMICOLON":
		return ';', nil
	case "comma", "COMMA":
		return ',', nil
	}

	r, err := singleRune(s)
	if err != nil {
		return 0, fmt.Errorf("%w: delimiter: %w", ErrInvalidOption, err)
	}
	return r, nil
}

// ParseQuote converts a quote setting to the quote rune.
func ParseQuote(s string) (rune, error) {
	r, err := singleRune(s)
	if err != nil {
		return 0, fmt.Errorf("%w: quote: %w", ErrInvalidOption, err)
	}
	return r, nil
}

// ParseLineEnding maps "lf" or "crlf" to the record terminator.
func ParseLineEnding(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lf":
		return "\n", nil
	case "crlf":
		return "\r\n", nil
	default:
		return "", fmt.Errorf("%w: line ending %q (want lf or crlf)", ErrInvalidOption, s)
	}
}

func singleRune(s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("%q must be exactly one character", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || r == '\r' || r == '\n' {
		return 0, fmt.Errorf("%q is not allowed", s)
	}
	return r, nil
}
