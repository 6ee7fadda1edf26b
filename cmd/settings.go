// =============================================================================
// CSV to LIWC Dictionary - Settings
// =============================================================================
//
// This file resolves the effective settings for a command and defines the
// 'settings export' command that writes them back out as YAML.
//
// PRECEDENCE (highest first):
//   1. Command-line flags that were given explicitly
//   2. LIWCDIC_* environment variables (LIWCDIC_LINE_ENDING for --line-ending)
//   3. The YAML file named by --config
//   4. Built-in defaults
//
// COMMAND USAGE:
//   liwcdic settings export [file] [flags]
//
// =============================================================================

package cmd

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/internal/config"
	"github.com/ginjaninja78/CSV-to-LIWC-dictionary/internal/types"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the CLI reads.
const EnvPrefix = "LIWCDIC"

// setting ties a flag/environment key to the config field it overrides.
type setting struct {
	key   string
	apply func(cfg *config.Config, v *viper.Viper, key string)
}

func stringSetting(key string, field func(cfg *config.Config) *string) setting {
	return setting{key: key, apply: func(cfg *config.Config, v *viper.Viper, key string) {
		*field(cfg) = v.GetString(key)
	}}
}

// settingsTable lists every overridable option.
var settingsTable = []setting{
	stringSetting("input", func(c *config.Config) *string { return &c.Conversion.InputPath }),
	stringSetting("output", func(c *config.Config) *string { return &c.Conversion.OutputPath }),
	stringSetting("encoding", func(c *config.Config) *string { return &c.Conversion.Encoding }),
	stringSetting("delimiter", func(c *config.Config) *string { return &c.Conversion.Delimiter }),
	stringSetting("quote", func(c *config.Config) *string { return &c.Conversion.Quote }),
	stringSetting("sheet", func(c *config.Config) *string { return &c.Conversion.Sheet }),
	stringSetting("line-ending", func(c *config.Config) *string { return &c.Conversion.LineEnding }),
	{key: "style", apply: func(c *config.Config, v *viper.Viper, key string) {
		c.Conversion.Style = types.Style(v.GetString(key))
	}},
	{key: "lowercase", apply: func(c *config.Config, v *viper.Viper, key string) {
		c.Conversion.Lowercase = v.GetBool(key)
	}},
	{key: "progress-interval", apply: func(c *config.Config, v *viper.Viper, key string) {
		c.Conversion.ProgressInterval = v.GetDuration(key)
	}},
	stringSetting("input-dir", func(c *config.Config) *string { return &c.Batch.InputDir }),
	stringSetting("output-dir", func(c *config.Config) *string { return &c.Batch.OutputDir }),
	stringSetting("pattern", func(c *config.Config) *string { return &c.Batch.Pattern }),
	stringSetting("output-name", func(c *config.Config) *string { return &c.Batch.OutputNameFormat }),
	{key: "workers", apply: func(c *config.Config, v *viper.Viper, key string) {
		c.Batch.MaxConcurrency = v.GetInt(key)
	}},
	{key: "continue-on-error", apply: func(c *config.Config, v *viper.Viper, key string) {
		c.Batch.ContinueOnError = v.GetBool(key)
	}},
	stringSetting("log-level", func(c *config.Config) *string { return &c.Logger.Level }),
	stringSetting("log-file", func(c *config.Config) *string { return &c.Logger.FilePath }),
}

// resolveSettings merges defaults, the optional config file, environment
// variables and explicitly set flags.
//
// PARAMETERS:
//   - path: The YAML settings file. Empty means none.
//   - flags: The running command's flags. Only flags the user changed
//     override anything.
//
// RETURNS:
//   - The merged configuration, not yet validated.
func resolveSettings(path string, flags *pflag.FlagSet) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for _, s := range settingsTable {
		if flag := flags.Lookup(s.key); flag != nil {
			if err := v.BindPFlag(s.key, flag); err != nil {
				return nil, fmt.Errorf("error binding flag '--%s': %w", s.key, err)
			}
		}
		if v.IsSet(s.key) {
			s.apply(cfg, v, s.key)
		}
	}

	return cfg, nil
}

// =============================================================================
// SETTINGS COMMAND DEFINITION
// =============================================================================

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect the effective settings",
}

var settingsExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write the effective settings as YAML",
	Long: `Write the settings that a conversion with the same flags, environment and
config file would use. The output can be passed back with --config.
Without a file argument the YAML is printed to standard output.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			if err := config.Save(settings, args[0]); err != nil {
				return err
			}
			logger.Info("Settings exported", "path", args[0])
			return nil
		}

		data, err := config.Marshal(settings)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsExportCmd)
	addConversionFlags(settingsExportCmd)
	addBatchFlags(settingsExportCmd)
}
