package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"cxxscope/pkg/ast"
	"cxxscope/pkg/formatter"
	"cxxscope/pkg/parser"
)

var selectCmd = &cobra.Command{
	Use:   "select [file] [offset|line:column] [length]",
	Short: "Print the syntax node spanning a selection",
	Long: `Map the selection [offset, offset+length) to the most specific syntax
node that spans it exactly. A selection must start and end on token
boundaries. Names print the entity they resolve to.`,
	Args: cobra.ExactArgs(3),
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
		length, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid length %q", args[2])
		}

		p := parser.New(parserOptions(parser.ModeSyntax))
		node, err := p.Select(cmd.Context(), filename, string(content), offset, length)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		r := node.Range()
		fmt.Fprintf(out, "%s %s\n", node.Kind(), formatter.FormatLocation(filename, r.Start.Line, r.Start.Column))
		if name, ok := node.(ast.NameNode); ok {
			fmt.Fprintf(out, "name: %s\n", name)
			if b := name.ResolveBinding(); b != nil {
				fmt.Fprintf(out, "binding: %v\n", b)
			}
		}
		if tree, _ := cmd.Flags().GetBool("tree"); tree {
			fmt.Fprint(out, formatter.New().FormatTree(node))
		}
		return nil
	},
}

func init() {
	selectCmd.Flags().BoolP("tree", "t", false, "Also print the subtree of the selected node")
}
