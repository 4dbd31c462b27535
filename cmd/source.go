package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"cxxscope/pkg/ast"
	"cxxscope/pkg/parser"
)

func parserOptions(mode parser.Mode) parser.Options {
	opts := cfg.ParserOptions(logger)
	opts.Mode = mode
	return opts
}

// parseFile reads and parses filename
func parseFile(ctx context.Context, filename string, mode parser.Mode) (*parser.Parser, *ast.TranslationUnit, string, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	p := parser.New(parserOptions(mode))
	tu, err := p.Parse(ctx, filename, string(content))
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to parse file %s: %w", filename, err)
	}
	return p, tu, string(content), nil
}

// parseOffset accepts a byte offset or a 1-based line:column position
func parseOffset(content, arg string) (int, error) {
	lineStr, colStr, ok := strings.Cut(arg, ":")
	if !ok {
		off, err := strconv.Atoi(arg)
		if err != nil || off < 0 || off > len(content) {
			return 0, fmt.Errorf("invalid offset %q", arg)
		}
		return off, nil
	}

	line, err1 := strconv.Atoi(lineStr)
	col, err2 := strconv.Atoi(colStr)
	if err1 != nil || err2 != nil || line < 1 || col < 1 {
		return 0, fmt.Errorf("invalid position %q", arg)
	}
	off := 0
	for i := 1; i < line; i++ {
		nl := strings.IndexByte(content[off:], '\n')
		if nl < 0 {
			return 0, fmt.Errorf("position %q is past the end of the file", arg)
		}
		off += nl + 1
	}
	end := len(content)
	if nl := strings.IndexByte(content[off:], '\n'); nl >= 0 {
		end = off + nl
	}
	if off+col-1 > end {
		return 0, fmt.Errorf("position %q is past the end of line %d", arg, line)
	}
	return off + col - 1, nil
}

// problemCount counts syntax and preprocessor problems of tu
func problemCount(tu *ast.TranslationUnit) int {
	return len(tu.Problems()) + len(tu.PreprocessorProblems())
}
