package mdpreview

import (
	"log/slog"
	"time"
)

// Mode selects how the rendered document will be consumed.
type Mode int

const (
	// ModePreview renders for an interactive preview surface.
	ModePreview Mode = iota

	// ModeExportHTML renders a standalone HTML export.
	ModeExportHTML

	// ModeExportPDF renders for headless PDF capture: print-media rules are
	// embedded and emoji glyphs are replaced with image references.
	ModeExportPDF
)

// String returns the mode name for logs and errors.
func (m Mode) String() string {
	switch m {
	case ModePreview:
		return "preview"
	case ModeExportHTML:
		return "export-html"
	case ModeExportPDF:
		return "export-pdf"
	default:
		return "unknown"
	}
}

// Input contains per-render parameters. Every field is read once per call;
// renders share no state, so independent calls may run concurrently.
type Input struct {
	// Markdown is the source text (required).
	Markdown string

	// Mode selects emoji postprocessing and print styling.
	Mode Mode

	// AssetBase is an optional locator prefix (URL or file-scheme path) for
	// vendored runtime assets. Empty means remote fallbacks per asset.
	AssetBase string
}

// Option configures a Renderer.
type Option func(*Renderer)

// rendererConfig holds internal configuration for Renderer.
type rendererConfig struct {
	timeout    time.Duration
	styleInput string
	assetPath  string
}

// defaultTimeout bounds PDF capture when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the PDF capture timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mdpreview: WithTimeout duration must be positive")
	}
	return func(r *Renderer) {
		r.cfg.timeout = d
	}
}

// WithStyle sets the base visual theme. Accepts a style name resolved by the
// asset loader, a path to a CSS file, or raw CSS content.
func WithStyle(style string) Option {
	return func(r *Renderer) {
		r.cfg.styleInput = style
	}
}

// WithAssetPath points the theme loader at a custom asset directory.
// Styles found there take precedence over embedded ones.
func WithAssetPath(path string) Option {
	return func(r *Renderer) {
		r.cfg.assetPath = path
	}
}

// WithLogger sets the logger used for recovered pipeline failures.
// Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(r *Renderer) {
		if log != nil {
			r.log = log
		}
	}
}
