package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cxxscope/pkg/config"
	"cxxscope/pkg/logging"
)

// Version information
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Settings shared by all commands, filled in before a command runs
var (
	cfg    *config.Config
	logger *slog.Logger
)

var (
	configFile   string
	logLevel     string
	logFormat    string
	dialect      string
	gnu          bool
	includePaths []string
	defines      []string
)

var rootCmd = &cobra.Command{
	Use:   "cxxscope",
	Short: "A C and C++ parser with name resolution",
	Long: `cxxscope parses C and C++ sources into syntax trees, resolves every
name to the entity it denotes (including overloads, inheritance, using
directives and argument-dependent lookup) and answers navigation questions:
completion at an offset, the node under a selection, and where a name is
declared, across files through a SQLite index.`,
	Version:           getVersionString(),
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "cxxscope %s\n", getVersionString())
		fmt.Fprintf(out, "  Version: %s\n", version)
		fmt.Fprintf(out, "  Commit:  %s\n", commit)
		fmt.Fprintf(out, "  Date:    %s\n", date)
	},
}

func getVersionString() string {
	if version == "dev" {
		return fmt.Sprintf("%s (%s)", version, commit)
	}
	return version
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = getVersionString()
}

func Execute() error {
	return rootCmd.Execute()
}

// setup loads the configuration and applies the flags that override it
func setup(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	loaded, err := config.Load(configFile, wd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("dialect") {
		loaded.Dialect = dialect
	}
	if flags.Changed("gnu") {
		loaded.GNU = gnu
	}
	if flags.Changed("include") {
		loaded.IncludePaths = append(loaded.IncludePaths, includePaths...)
	}
	if flags.Changed("define") {
		loaded.Defines = append(loaded.Defines, defines...)
	}
	if flags.Changed("log-level") {
		loaded.Logging.Level = logLevel
	}
	if flags.Changed("log-format") {
		loaded.Logging.Format = logFormat
	}
	if err := loaded.Validate(); err != nil {
		return err
	}

	cfg = loaded
	logger = logging.New(cmd.ErrOrStderr(), logging.LevelFromString(cfg.Logging.Level), cfg.Logging.Format)
	logger.Debug("configuration loaded",
		"dialect", cfg.Dialect,
		"includePaths", strings.Join(cfg.IncludePaths, ","),
		"defines", len(cfg.Defines))
	return nil
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "Configuration file (default ./"+config.FileName+")")
	pf.StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	pf.StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
	pf.StringVar(&dialect, "dialect", "c++", "Source dialect (c, c++)")
	pf.BoolVar(&gnu, "gnu", false, "Accept GNU extensions")
	pf.StringSliceVarP(&includePaths, "include", "I", nil, "Additional include path")
	pf.StringSliceVarP(&defines, "define", "D", nil, "Predefined macro as NAME or NAME=VALUE")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(printCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
