package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"cxxscope/pkg/ast"
	"cxxscope/pkg/formatter"
	"cxxscope/pkg/index"
	"cxxscope/pkg/parser"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a C or C++ file and list its declarations and problems",
	Long: `Parse a source file, resolve its names and list the declarations it
introduces together with any syntax problems. The output can be in JSON
format for further processing or human-readable format.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		_, tu, _, err := parseFile(cmd.Context(), filename, parser.ModeFull)
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "json":
			return outputJSON(cmd.OutOrStdout(), tu)
		default:
			return outputHuman(cmd.OutOrStdout(), tu)
		}
	},
}

func init() {
	parseCmd.Flags().StringP("format", "f", "human", "Output format (human, json)")
}

type jsonDeclaration struct {
	Name          string `json:"name"`
	QualifiedName string `json:"qualifiedName"`
	Kind          string `json:"kind"`
	Line          int    `json:"line"`
	Column        int    `json:"column"`
	Definition    bool   `json:"definition,omitempty"`
}

type jsonProblem struct {
	Message string `json:"message"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

func outputJSON(w io.Writer, tu *ast.TranslationUnit) error {
	decls := []jsonDeclaration{}
	for _, e := range index.Collect(tu) {
		decls = append(decls, jsonDeclaration{
			Name:          e.Name,
			QualifiedName: e.QualifiedName,
			Kind:          e.Kind,
			Line:          e.Line,
			Column:        e.Column,
			Definition:    e.Definition,
		})
	}
	problems := []jsonProblem{}
	for _, p := range append(append([]*ast.Problem(nil), tu.PreprocessorProblems()...), tu.Problems()...) {
		r := p.Range()
		problems = append(problems, jsonProblem{Message: p.Message, Line: r.Start.Line, Column: r.Start.Column})
	}

	output := map[string]any{
		"filename":     tu.FilePath,
		"language":     tu.Language.String(),
		"declarations": decls,
		"problems":     problems,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func outputHuman(w io.Writer, tu *ast.TranslationUnit) error {
	fmt.Fprintf(w, "Parsed file: %s\n", tu.FilePath)
	fmt.Fprintf(w, "=====================================\n\n")

	entries := index.Collect(tu)
	fmt.Fprint(w, formatter.New().FormatOutline(entries))

	problems := append(append([]*ast.Problem(nil), tu.PreprocessorProblems()...), tu.Problems()...)
	if len(problems) > 0 {
		fmt.Fprintf(w, "\nProblems:\n")
		for _, p := range problems {
			r := p.Range()
			fmt.Fprintf(w, "  %s: %s\n", formatter.FormatLocation(tu.FilePath, r.Start.Line, r.Start.Column), p.Message)
		}
	}

	// Summary
	fmt.Fprintf(w, "\nSummary:\n")
	fmt.Fprintf(w, "--------\n")
	fmt.Fprintf(w, "Declarations: %d\n", len(entries))

	// Count by kind
	counts := make(map[string]int)
	for _, e := range entries {
		counts[e.Kind]++
	}
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	for _, k := range kinds {
		fmt.Fprintf(w, "%s: %d\n", k, counts[k])
	}
	fmt.Fprintf(w, "Problems: %d\n", len(problems))

	return nil
}
