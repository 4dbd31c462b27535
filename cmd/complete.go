package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cxxscope/pkg/completion"
	"cxxscope/pkg/parser"
)

var completeCmd = &cobra.Command{
	Use:   "complete [file] [offset|line:column]",
	Short: "List the names that can complete the identifier at a position",
	Long: `Parse the file up to the given position and list the declarations in
scope whose names start with the text typed before it. After "." or "->"
the members of the object are listed, after "N::" the members of N.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]
		content, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", filename, err)
		}
		offset, err := parseOffset(string(content), args[1])
		if err != nil {
			return err
		}

		opts := completion.DefaultOptions
		opts.Fuzzy, _ = cmd.Flags().GetBool("fuzzy")
		opts.Limit, _ = cmd.Flags().GetInt("limit")

		p := parser.New(parserOptions(parser.ModeSyntax))
		node, err := p.Complete(cmd.Context(), filename, string(content), offset)
		if err != nil {
			return err
		}
		if node == nil {
			return fmt.Errorf("offset %d was not reached by the parser", offset)
		}
		candidates, err := opts.Names(node.Unit, node)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, c := range candidates {
			if c.Type != "" {
				fmt.Fprintf(out, "%s\t%s\t%s\n", c.Name, c.Kind, c.Type)
			} else {
				fmt.Fprintf(out, "%s\t%s\n", c.Name, c.Kind)
			}
		}
		logger.Debug("completion", "prefix", node.Prefix, "context", node.Context().String(), "candidates", len(candidates))
		return nil
	},
}

func init() {
	completeCmd.Flags().Bool("fuzzy", true, "Rank near misses when nothing matches the prefix")
	completeCmd.Flags().Int("limit", completion.DefaultOptions.Limit, "Maximum number of candidates (0 for all)")
}
