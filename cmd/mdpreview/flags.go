package main

import (
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"
)

// Sentinel errors for flag parsing.
var (
	ErrNoInputs = errors.New("no input files: usage: mdpreview [flags] <input.md> [more.md ...]")
)

// cliFlags holds parsed command-line flags.
type cliFlags struct {
	output    string // output file (single input) or directory
	format    string // "html" or "pdf"
	assetBase string // asset base locator for vendored runtimes
	style     string // theme name, CSS path, or raw CSS
	assetPath string // custom theme directory
	config    string // explicit config file path
	timeout   int    // capture timeout in seconds
	workers   int    // render pool size
	verbose   bool
	version   bool
}

// parseFlags parses args (including the program name) into flags and the
// list of input files.
func parseFlags(args []string) (*cliFlags, []string, error) {
	f := &cliFlags{}

	fs := flag.NewFlagSet("mdpreview", flag.ContinueOnError)
	fs.StringVarP(&f.output, "output", "o", "", "output file (single input) or directory")
	fs.StringVarP(&f.format, "format", "f", "", "output format: html or pdf (default html)")
	fs.StringVar(&f.assetBase, "assets", "", "asset base locator for bundled runtimes (default: CDN)")
	fs.StringVar(&f.style, "style", "", "theme name, CSS file path, or raw CSS")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory with custom theme styles")
	fs.StringVar(&f.config, "config", "", "config file path (default: auto-discover)")
	fs.IntVar(&f.timeout, "timeout", 0, "PDF capture timeout in seconds")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel renderers for batch conversion (default: auto)")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "verbose output")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	if err := fs.Parse(args[1:]); err != nil {
		return nil, nil, fmt.Errorf("parsing flags: %w", err)
	}

	return f, fs.Args(), nil
}
