package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"cxxscope/pkg/ast"
	"cxxscope/pkg/formatter"
	"cxxscope/pkg/parser"
	"cxxscope/pkg/semantic"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [file]",
	Short: "Resolve every name of a file and print its binding",
	Long: `Resolve every name in a source file and print, per name, the entity it
denotes. Names that do not resolve are reported with the reason: not found,
ambiguous, or no viable overload.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, tu, _, err := parseFile(cmd.Context(), args[0], parser.ModeFull)
		if err != nil {
			return err
		}
		onlyProblems, _ := cmd.Flags().GetBool("unresolved")

		p := &bindingPrinter{w: cmd.OutOrStdout(), file: tu.FilePath, onlyProblems: onlyProblems}
		ast.Walk(tu, p, ast.VisitOptions{Names: true})
		if p.err != nil {
			return p.err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d names, %d unresolved, %d problems\n", p.names, p.unresolved, problemCount(tu))
		return nil
	},
}

func init() {
	resolveCmd.Flags().BoolP("unresolved", "u", false, "Only print names that did not resolve")
}

type bindingPrinter struct {
	ast.BaseCPPVisitor
	w            io.Writer
	file         string
	onlyProblems bool
	names        int
	unresolved   int
	err          error
}

func (p *bindingPrinter) VisitName(n ast.NameNode) ast.Directive {
	r := n.Range()
	if r.File != "" && r.File != p.file {
		return ast.Continue
	}
	p.names++
	b := n.ResolveBinding()
	problem, failed := b.(*semantic.ProblemBinding)
	if failed {
		p.unresolved++
	}
	if p.onlyProblems && !failed {
		return ast.Continue
	}

	loc := formatter.FormatLocation(p.file, r.Start.Line, r.Start.Column)
	switch {
	case failed:
		_, p.err = fmt.Fprintf(p.w, "%s %s: %s\n", loc, n, problem.Reason())
	case b == nil:
		_, p.err = fmt.Fprintf(p.w, "%s %s: unbound\n", loc, n)
	default:
		_, p.err = fmt.Fprintf(p.w, "%s %s -> %v\n", loc, n, b)
	}
	if p.err != nil {
		return ast.Abort
	}
	return ast.Continue
}
