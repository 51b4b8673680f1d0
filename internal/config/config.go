package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/zjy-dev/covtree/internal/coverage"
)

// DefaultConfigName is the base name of the configuration file looked up in the configs directories.
const DefaultConfigName = "covtree"

// Config holds the settings of the covtree tool. It lives under the top-level
// "covtree" key of the configuration file.
type Config struct {
	LogLevel      string          `mapstructure:"log_level"`
	LogDir        string          `mapstructure:"log_dir"`
	IndexFile     string          `mapstructure:"index_file"`
	StrictNumbers bool            `mapstructure:"strict_numbers"`
	Output        OutputConfig    `mapstructure:"output"`
	Filter        FilterConfig    `mapstructure:"filter"`
	Layout        coverage.Layout `mapstructure:"layout"`
}

// OutputConfig controls how results are written.
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// FilterConfig restricts which report entries take part in a diff.
type FilterConfig struct {
	Include []string `mapstructure:"include"`
	Exclude []string `mapstructure:"exclude"`
}

// CoverageFilter converts the filter settings for coverage.Prune.
func (f FilterConfig) CoverageFilter() coverage.Filter {
	return coverage.Filter{Include: f.Include, Exclude: f.Exclude}
}

type fileConfig struct {
	Covtree Config `mapstructure:"covtree"`
}

// Load reads a configuration file from the "configs" directory into a struct.
// The configName parameter should be the base name of the file without the extension (e.g., "covtree").
// The result parameter should be a pointer to a struct that the configuration will be unmarshaled into.
func Load(configName string, result interface{}) error {
	v := newViper()
	v.SetConfigName(configName)
	addSearchPaths(v)

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := v.Unmarshal(result); err != nil {
		return fmt.Errorf("failed to unmarshal config data: %w", err)
	}

	return nil
}

// LoadConfig returns the defaults overridden by configs/covtree.yaml, when
// present, and by COVTREE_* environment variables.
func LoadConfig() (*Config, error) {
	var fc fileConfig
	err := Load(DefaultConfigName, &fc)

	var notFound viper.ConfigFileNotFoundError
	switch {
	case errors.As(err, &notFound):
		return unmarshal(newViper())
	case err != nil:
		return nil, err
	}
	return validated(fc.Covtree)
}

// LoadFile is LoadConfig for an explicit file path, which must exist.
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data: %w", err)
	}
	return validated(fc.Covtree)
}

func validated(cfg Config) (*Config, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be caught by unmarshaling.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Output.Format) {
	case "yaml", "yml", "json":
	default:
		return fmt.Errorf("invalid output format %q", c.Output.Format)
	}
	if c.Layout.HeaderRows < 0 {
		return fmt.Errorf("layout.header_rows must not be negative")
	}
	if err := c.Filter.CoverageFilter().Validate(); err != nil {
		return fmt.Errorf("invalid filter: %w", err)
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func addSearchPaths(v *viper.Viper) {
	v.AddConfigPath("configs")       // relative to the working directory
	v.AddConfigPath("../configs")    // go test runs inside the package directory
	v.AddConfigPath("../../configs") // deeper packages
}

func setDefaults(v *viper.Viper) {
	layout := coverage.DefaultLayout()

	v.SetDefault("covtree.log_level", "info")
	v.SetDefault("covtree.log_dir", "")
	v.SetDefault("covtree.index_file", "index.html")
	v.SetDefault("covtree.strict_numbers", true)
	v.SetDefault("covtree.output.format", "yaml")
	v.SetDefault("covtree.filter.include", []string{})
	v.SetDefault("covtree.filter.exclude", []string{})
	v.SetDefault("covtree.layout.summary_header", layout.SummaryHeader)
	v.SetDefault("covtree.layout.summary_values", layout.SummaryValues)
	v.SetDefault("covtree.layout.table_kind", layout.TableKind)
	v.SetDefault("covtree.layout.listing_rows", layout.ListingRows)
	v.SetDefault("covtree.layout.header_rows", layout.HeaderRows)
	v.SetDefault("covtree.layout.numeric_column", layout.NumericColumn)
	v.SetDefault("covtree.layout.directory_class", layout.DirectoryClass)
	v.SetDefault("covtree.layout.file_class", layout.FileClass)
	v.SetDefault("covtree.layout.tier_classes", layout.TierClasses)
}
