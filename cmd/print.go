package cmd

import (
	"github.com/spf13/cobra"

	"cxxscope/pkg/formatter"
	"cxxscope/pkg/index"
	"cxxscope/pkg/parser"
)

var printCmd = &cobra.Command{
	Use:   "print [file]",
	Short: "Print the syntax tree of a file",
	Long: `Print the syntax tree of a source file with one node per line,
indented by depth. With --outline only the declarations are printed,
nested by scope.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		outline, _ := flags.GetBool("outline")
		bindings, _ := flags.GetBool("bindings")

		mode := parser.ModeSyntax
		if outline || bindings {
			mode = parser.ModeFull
		}
		_, tu, _, err := parseFile(cmd.Context(), args[0], mode)
		if err != nil {
			return err
		}

		indent, _ := flags.GetInt("indent")
		f := formatter.New().WithIndent(indent)
		if outline {
			_, err := cmd.OutOrStdout().Write([]byte(f.FormatOutline(index.Collect(tu))))
			return err
		}
		f.ShowBindings = bindings
		f.ShowRanges, _ = flags.GetBool("ranges")
		f.ShowProperties, _ = flags.GetBool("properties")
		return f.WriteTree(cmd.OutOrStdout(), tu)
	},
}

func init() {
	printCmd.Flags().BoolP("outline", "o", false, "Print declarations only")
	printCmd.Flags().BoolP("bindings", "b", false, "Print what every name resolves to")
	printCmd.Flags().BoolP("ranges", "r", false, "Print source ranges")
	printCmd.Flags().BoolP("properties", "p", false, "Print the role of each node in its parent")
	printCmd.Flags().Int("indent", 2, "Indentation width, 0 for tabs")
}
