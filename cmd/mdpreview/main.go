package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/automaxprocs/maxprocs"

	mdpreview "github.com/alnah/go-mdpreview"
	"github.com/alnah/go-mdpreview/internal/config"
	"github.com/alnah/go-mdpreview/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	flags, inputs, err := parseFlags(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if flags.version {
		fmt.Println("mdpreview " + Version)
		return
	}

	// Configure GOMAXPROCS with conditional logging.
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if flags.verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	cfg, err := config.Load(flags.config)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			err = fmt.Errorf("%w%s", err, hints.ForConfigNotFound(config.SearchPaths()))
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	opts := rendererOptions(flags, cfg)

	poolSize := flags.workers
	if poolSize == 0 {
		poolSize = cfg.Workers
	}
	if poolSize == 0 {
		poolSize = mdpreview.DefaultPoolSize()
	}
	if flags.verbose {
		fmt.Fprintf(os.Stderr, "Pool size: %d\n", poolSize)
	}

	pool := mdpreview.NewRendererPool(poolSize, opts...)
	defer pool.Close()

	params := mergeParams(flags, cfg, inputs)
	if err := run(context.Background(), params, pool, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// rendererOptions builds library options from flags with config fallbacks.
func rendererOptions(f *cliFlags, cfg config.Config) []mdpreview.Option {
	var opts []mdpreview.Option

	style := f.style
	if style == "" {
		style = cfg.Style
	}
	if style != "" {
		opts = append(opts, mdpreview.WithStyle(style))
	}

	assetPath := f.assetPath
	if assetPath == "" {
		assetPath = cfg.Assets.Path
	}
	if assetPath != "" {
		opts = append(opts, mdpreview.WithAssetPath(assetPath))
	}

	timeout := f.timeout
	if timeout == 0 {
		timeout = cfg.Timeout
	}
	if timeout > 0 {
		opts = append(opts, mdpreview.WithTimeout(time.Duration(timeout)*time.Second))
	}

	return opts
}
