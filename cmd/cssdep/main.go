// Command cssdep is a thin driver over the cssdep library: given a
// stylesheet file it builds and prints the Simple-CSS model; given no
// file it reads selectors from standard input two lines at a time and
// reports whether each pair's intersection is empty.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/MeKo-Christian/cssdep"
	"github.com/MeKo-Christian/cssdep/overlap"
	"github.com/MeKo-Christian/cssdep/simplecss"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("cssdep", flag.ContinueOnError)
	fs.SetOutput(stderr)
	stats := fs.Bool("stats", false, "print overlap cache statistics to stderr on exit")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: cssdep [-stats] [<file>]\n\n")
		fmt.Fprintf(stderr, "With a stylesheet file, builds and prints the Simple-CSS model.\n")
		fmt.Fprintf(stderr, "With no file, reads selectors from stdin two lines at a time (one\n")
		fmt.Fprintf(stderr, "selector per line) and prints E (empty) or N (non-empty) per pair.\n")
		fmt.Fprintf(stderr, "A line containing only '.' flushes stdout.\n")
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	var err error
	if fs.NArg() > 0 {
		err = runBuild(fs.Arg(0), stdout)
	} else {
		err = runEmptinessMode(stdin, stdout)
	}

	if *stats {
		printStats(stderr)
	}
	return err
}

func runBuild(path string, stdout io.Writer) error {
	src, readErr := os.ReadFile(path)
	if readErr != nil {
		return fmt.Errorf("reading stylesheet: %w", readErr)
	}
	model, err := cssdep.BuildSimpleCSS(string(src))
	if err != nil {
		return fmt.Errorf("building model: %w", err)
	}
	printModel(model, stdout)
	return nil
}

func printModel(model *simplecss.SimpleCSS, stdout io.Writer) {
	fmt.Fprintf(stdout, "edges: %d\n", len(model.Edges))
	for _, e := range model.Edges {
		fmt.Fprintf(stdout, "  %s { %s }\n", e.Selector, e.PropVal)
	}
	fmt.Fprintf(stdout, "order: %d\n", len(model.Order))
	for _, pair := range model.Order {
		fmt.Fprintf(stdout, "  %s{%s} < %s{%s}\n",
			pair.Before.Selector, pair.Before.PropVal, pair.After.Selector, pair.After.PropVal)
	}
}

func runEmptinessMode(stdin io.Reader, stdout io.Writer) error {
	scanner := bufio.NewScanner(stdin)
	w := bufio.NewWriter(stdout)
	defer w.Flush()

	for {
		sel1, ok := nextNonBlankLine(scanner)
		if !ok {
			break
		}
		if sel1 == "." {
			if err := w.Flush(); err != nil {
				return err
			}
			continue
		}

		sel2, ok := nextNonBlankLine(scanner)
		if !ok {
			break // trailing selector with no partner; nothing more to read
		}

		does, err := cssdep.SelectorsOverlapStr(sel1, sel2)
		if err != nil {
			return fmt.Errorf("parsing selector pair (%q, %q): %w", sel1, sel2, err)
		}
		if does {
			fmt.Fprintln(w, "N")
		} else {
			fmt.Fprintln(w, "E")
		}
	}
	return scanner.Err()
}

// nextNonBlankLine reads lines until it finds one with content, reporting
// false once the scanner is exhausted.
func nextNonBlankLine(scanner *bufio.Scanner) (string, bool) {
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			return line, true
		}
	}
	return "", false
}

func printStats(stderr io.Writer) {
	s := overlap.CurrentStats()
	fmt.Fprintf(stderr, "overlap stats: queries=%d cache_hits=%d fast_path=%d slow_path=%d\n",
		s.Queries, s.CacheHits, s.FastPath, s.SlowPath)
}
