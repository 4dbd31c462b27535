package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/cobra"

	"cxxscope/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Write a " + config.FileName + " file with the default settings",
	Long: `Write a ` + config.FileName + ` configuration file with the default settings
into the given directory (the current one by default). Flags given on the
command line, such as --dialect or -I, are written too.

Examples:
  # Initialize the current directory for C sources
  cxxscope config init --dialect c

  # Add include paths and overwrite an existing file
  cxxscope config init -I include -I third_party --overwrite src/`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		overwrite, _ := cmd.Flags().GetBool("overwrite")
		path := filepath.Join(dir, config.FileName)

		err := cfg.Save(path, overwrite)
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%s already exists, use --overwrite to replace it", path)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := cfg.Marshal()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	configInitCmd.Flags().Bool("overwrite", false, "Overwrite an existing configuration file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
