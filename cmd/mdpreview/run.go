package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	mdpreview "github.com/alnah/go-mdpreview"
	"github.com/alnah/go-mdpreview/internal/config"
)

// Sentinel errors for CLI operations.
var (
	ErrInvalidExtension = errors.New("file must have .md or .markdown extension")
	ErrReadMarkdown     = errors.New("failed to read markdown file")
	ErrWriteOutput      = errors.New("failed to write output file")
	ErrOutputConflict   = errors.New("--output must be a directory when converting multiple files")
)

// documentRenderer is the subset of mdpreview.Renderer the CLI needs.
// Narrowed for testability.
type documentRenderer interface {
	RenderHTML(ctx context.Context, in mdpreview.Input) (string, error)
	RenderPDF(ctx context.Context, in mdpreview.Input) ([]byte, error)
}

// runParams is the merged flag + config view run operates on.
type runParams struct {
	inputs    []string
	output    string
	format    string
	assetBase string
	verbose   bool
}

// mergeParams overlays flags on top of the loaded config. Flags win.
func mergeParams(f *cliFlags, cfg config.Config, inputs []string) runParams {
	p := runParams{
		inputs:    inputs,
		output:    f.output,
		format:    strings.ToLower(f.format),
		assetBase: f.assetBase,
		verbose:   f.verbose,
	}
	if p.format == "" {
		p.format = strings.ToLower(cfg.Format)
	}
	if p.format == "" {
		p.format = config.FormatHTML
	}
	if p.assetBase == "" {
		p.assetBase = cfg.Assets.Base
	}
	if p.output == "" {
		p.output = cfg.Output.Dir
	}
	return p
}

// run converts every input file, fanning out over the pool.
func run(ctx context.Context, p runParams, pool *mdpreview.RendererPool, stdout, stderr io.Writer) error {
	if len(p.inputs) == 0 {
		return ErrNoInputs
	}

	for _, in := range p.inputs {
		if err := validateMarkdownExtension(in); err != nil {
			return err
		}
	}

	if len(p.inputs) > 1 && p.output != "" {
		info, err := os.Stat(p.output)
		if err != nil || !info.IsDir() {
			return ErrOutputConflict
		}
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for _, input := range p.inputs {
		wg.Add(1)
		go func(input string) {
			defer wg.Done()

			r, err := pool.Acquire()
			if err == nil {
				defer pool.Release(r)
				err = convertOne(ctx, r, p, input, stdout)
			}

			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("%s: %w", input, err)
				}
				mu.Unlock()
				fmt.Fprintf(stderr, "error: %s: %v\n", input, err)
			}
		}(input)
	}

	wg.Wait()
	return firstErr
}

// convertOne renders a single file and writes the result.
func convertOne(ctx context.Context, r documentRenderer, p runParams, inputPath string, stdout io.Writer) error {
	content, err := os.ReadFile(inputPath) // #nosec G304 -- user-provided path
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadMarkdown, err)
	}

	outputPath := resolveOutputPath(p, inputPath)

	in := mdpreview.Input{
		Markdown:  string(content),
		AssetBase: p.assetBase,
	}

	var data []byte
	switch p.format {
	case config.FormatPDF:
		data, err = r.RenderPDF(ctx, in)
	default:
		in.Mode = mdpreview.ModeExportHTML
		var doc string
		doc, err = r.RenderHTML(ctx, in)
		data = []byte(doc)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, data, 0o644); err != nil { // #nosec G306 -- document output
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	if p.verbose {
		fmt.Fprintf(stdout, "Created %s\n", outputPath)
	}
	return nil
}

// resolveOutputPath picks the destination for one input: an explicit file
// for single conversions, a directory when given, else next to the source
// with the extension swapped.
func resolveOutputPath(p runParams, inputPath string) string {
	ext := "." + p.format

	if p.output != "" {
		if info, err := os.Stat(p.output); err == nil && info.IsDir() {
			return filepath.Join(p.output, swapExtension(filepath.Base(inputPath), ext))
		}
		if len(p.inputs) == 1 {
			return p.output
		}
		return filepath.Join(p.output, swapExtension(filepath.Base(inputPath), ext))
	}

	return swapExtension(inputPath, ext)
}

// swapExtension replaces the markdown extension with ext.
func swapExtension(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// validateMarkdownExtension checks that the file has a .md or .markdown extension.
func validateMarkdownExtension(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".md" && ext != ".markdown" {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, ext)
	}
	return nil
}
