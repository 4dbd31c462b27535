// Package config loads the cxxscope configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"cxxscope/pkg/ast"
	"cxxscope/pkg/parser"
)

// FileName is the configuration file looked up in the working directory
const FileName = ".cxxscope.yaml"

// Config is the complete configuration
type Config struct {
	// Dialect is "c" or "c++"
	Dialect      string   `mapstructure:"dialect" yaml:"dialect"`
	GNU          bool     `mapstructure:"gnu" yaml:"gnu"`
	IncludePaths []string `mapstructure:"includePaths" yaml:"includePaths"`
	// Defines holds NAME or NAME=VALUE entries. A list keeps the case of
	// macro names, which viper would fold for map keys.
	Defines []string      `mapstructure:"defines" yaml:"defines"`
	Workers int           `mapstructure:"workers" yaml:"workers"`
	Index   IndexConfig   `mapstructure:"index" yaml:"index"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// IndexConfig configures the declaration index
type IndexConfig struct {
	Path    string   `mapstructure:"path" yaml:"path"`
	Include []string `mapstructure:"include" yaml:"include"`
	Exclude []string `mapstructure:"exclude" yaml:"exclude"`
}

// LoggingConfig configures the logger
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		Dialect: "c++",
		Workers: runtime.NumCPU(),
		Index: IndexConfig{
			Path:    ".cxxscope.db",
			Include: []string{"**/*.{c,cc,cpp,cxx,h,hh,hpp,hxx}"},
			Exclude: []string{"**/.git/**", "**/build/**"},
		},
		Logging: LoggingConfig{Level: "warn", Format: "text"},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("dialect", d.Dialect)
	v.SetDefault("gnu", d.GNU)
	v.SetDefault("includePaths", d.IncludePaths)
	v.SetDefault("defines", d.Defines)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("index.path", d.Index.Path)
	v.SetDefault("index.include", d.Index.Include)
	v.SetDefault("index.exclude", d.Index.Exclude)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
}

// Load reads the configuration. An explicit file must exist; otherwise
// FileName is searched in dir and the defaults apply when it is missing.
// CXXSCOPE_* environment variables override file values.
func Load(file, dir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("cxxscope")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, ".yaml"))
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Error reports an invalid configuration value
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}

// Validate checks the values Load cannot check by type
func (c *Config) Validate() error {
	if _, err := ast.ParseLanguage(c.Dialect); err != nil {
		return &Error{Field: "dialect", Message: err.Error()}
	}
	if c.Workers < 0 {
		return &Error{Field: "workers", Message: "must not be negative"}
	}
	for _, d := range c.Defines {
		if name, _, _ := strings.Cut(d, "="); strings.TrimSpace(name) == "" {
			return &Error{Field: "defines", Message: fmt.Sprintf("entry %q has no macro name", d)}
		}
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return &Error{Field: "logging.format", Message: "must be text or json"}
	}
	return nil
}

// Language returns the parser language of the dialect
func (c *Config) Language() ast.Language {
	lang, _ := ast.ParseLanguage(c.Dialect)
	return lang
}

// DefineMap returns the predefined macros. An entry without a value
// defines the macro as 1.
func (c *Config) DefineMap() map[string]string {
	out := make(map[string]string, len(c.Defines))
	for _, d := range c.Defines {
		name, value, ok := strings.Cut(d, "=")
		if !ok {
			value = "1"
		}
		out[strings.TrimSpace(name)] = value
	}
	return out
}

// ParserOptions builds parser options from the configuration
func (c *Config) ParserOptions(logger *slog.Logger) parser.Options {
	return parser.Options{
		Language:     c.Language(),
		GNU:          c.GNU,
		IncludePaths: c.IncludePaths,
		Defines:      c.DefineMap(),
		Logger:       logger,
	}
}

// Marshal encodes c as YAML with a header comment
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return append([]byte("# cxxscope configuration\n"), data...), nil
}

// Save writes c as YAML to path. An existing file is only replaced with
// overwrite set.
func (c *Config) Save(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s: %w", path, fs.ErrExist)
		}
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
