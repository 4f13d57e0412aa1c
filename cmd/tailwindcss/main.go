// Command tailwindcss compiles a stylesheet's directives and builds the
// candidate classes given on the command line.
//
// Usage:
//
//	tailwindcss -i input.css [-o output.css] [-journal builds.db] [-v] [candidates...]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/lusayo-nyondo/tailwindcss/ast"
	"github.com/lusayo-nyondo/tailwindcss/buildlog"
	"github.com/lusayo-nyondo/tailwindcss/engine"
)

func main() {
	input := flag.String("i", "", "input stylesheet (default: stdin)")
	output := flag.String("o", "", "output file (default: stdout)")
	journalPath := flag.String("journal", "", "SQLite build journal path")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	if err := run(*input, *output, *journalPath, *verbose, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(input, output, journalPath string, verbose bool, candidates []string) error {
	source, err := readInput(input)
	if err != nil {
		return err
	}
	nodes, err := ast.Parse(source)
	if err != nil {
		return err
	}

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	opts := engine.Options{Base: ".", Logger: &log}
	if journalPath != "" {
		journal, err := buildlog.Open(journalPath)
		if err != nil {
			return err
		}
		defer journal.Close()
		opts.Journal = journal
	}

	compiler, err := engine.Compile(context.Background(), nodes, opts)
	if err != nil {
		return err
	}
	css := ast.ToCSS(compiler.Build(candidates))
	return writeOutput(output, css)
}

func readInput(path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func writeOutput(path, css string) error {
	if path == "" {
		_, err := os.Stdout.WriteString(css)
		return err
	}
	return os.WriteFile(path, []byte(css), 0o644)
}
