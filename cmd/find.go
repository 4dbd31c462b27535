package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"cxxscope/pkg/document"
	"cxxscope/pkg/formatter"
	"cxxscope/pkg/utils"
)

var findCmd = &cobra.Command{
	Use:   "find [name] | find [file] [offset|line:column] [length]",
	Short: "Find where a name is declared",
	Long: `Find the declarations of a name. With a single argument the qualified
name (namespace::class::method, or a plain name) is looked up in the index.
With a file and a selection the name under the selection is resolved in the
file first; the index is consulted when the selection does not resolve
there.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 && len(args) != 3 {
			return fmt.Errorf("accepts 1 or 3 arg(s), received %d", len(args))
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openIndex(cmd)
		if err != nil {
			return err
		}
		defer store.Close()
		out := cmd.OutOrStdout()

		if len(args) == 1 {
			name := args[0]
			if !utils.IsQualifiedName(name) {
				return fmt.Errorf("not a name: %s", name)
			}
			entries, err := store.Lookup(cmd.Context(), utils.JoinPath(utils.SplitPath(name)))
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				return fmt.Errorf("%w: %s", document.ErrNoDeclaration, name)
			}
			for _, e := range entries {
				printLocation(out, document.Location{
					File: e.File, Line: e.Line, Column: e.Column,
					QualifiedName: e.QualifiedName, Kind: e.Kind, Definition: e.Definition,
				})
			}
			return nil
		}

		opts := cfg.ParserOptions(logger)
		doc, err := document.NewFromFile(cmd.Context(), args[0], opts)
		if err != nil {
			return err
		}
		offset, err := parseOffset(doc.GetContent(), args[1])
		if err != nil {
			return err
		}
		length, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid length %q", args[2])
		}

		var locs []document.Location
		if refs, _ := cmd.Flags().GetBool("references"); refs {
			locs, err = doc.References(offset, length)
		} else {
			locs, err = doc.FindDeclaration(cmd.Context(), offset, length, store)
		}
		if err != nil {
			return err
		}
		for _, l := range locs {
			printLocation(out, l)
		}
		return nil
	},
}

func init() {
	findCmd.Flags().BoolP("references", "r", false, "List every use in the file instead of the declaration")
}

func printLocation(w io.Writer, l document.Location) {
	what := "declaration"
	if l.Definition {
		what = "definition"
	}
	fmt.Fprintf(w, "%s: %s %s %s\n", formatter.FormatLocation(l.File, l.Line, l.Column), what, l.Kind, l.QualifiedName)
}
