package mdpreview

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alnah/go-mdpreview/internal/assets"
	"github.com/alnah/go-mdpreview/internal/fileutil"
	"github.com/alnah/go-mdpreview/internal/pipeline"
)

// Compile-time interface implementation checks.
// These ensure implementations satisfy their interfaces at compile time,
// catching signature mismatches before runtime.
var (
	_ pipeline.CodeRenderer = (*pipeline.ChromaCodeRenderer)(nil)
	_ pipeline.Transformer  = (*pipeline.GoldmarkTransformer)(nil)
	_ pipeline.Sanitizer    = (*pipeline.BluemondaySanitizer)(nil)
	_ assets.Loader         = (*assets.Resolver)(nil)
	_ pdfCapturer           = (*rodCapturer)(nil)
)

// Renderer orchestrates the Markdown rendering pipeline.
// Create with NewRenderer, render with RenderHTML or RenderPDF, and Close
// when done to release the browser.
type Renderer struct {
	cfg         rendererConfig
	log         *slog.Logger
	assetLoader assets.Loader
	transformer pipeline.Transformer
	sanitizer   pipeline.Sanitizer
	assembler   *pipeline.DocumentAssembler
	pdf         pdfCapturer
}

// NewRenderer creates a Renderer with default configuration.
// Use options to customize behavior (e.g. WithTimeout, WithStyle,
// WithAssetPath). Returns an error if style resolution fails.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		cfg:       rendererConfig{timeout: defaultTimeout},
		log:       slog.Default(),
		sanitizer: pipeline.NewSanitizer(),
	}

	for _, opt := range opts {
		opt(r)
	}

	r.transformer = pipeline.NewGoldmarkTransformer(pipeline.NewChromaCodeRenderer(r.log))

	loader, err := assets.NewResolver(r.cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	r.assetLoader = loader

	themeCSS, err := r.resolveStyle()
	if err != nil {
		return nil, err
	}
	r.assembler = pipeline.NewDocumentAssembler(themeCSS)

	// Created lazily here but connected lazily inside: the browser only
	// launches on the first PDF capture.
	if r.pdf == nil {
		r.pdf = newRodCapturer(r.cfg.timeout, r.log)
	}

	return r, nil
}

// RenderHTML runs the full pipeline and returns the assembled document.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (r *Renderer) RenderHTML(ctx context.Context, input Input) (doc string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("internal error: %v", rec)
		}
	}()

	if input.Markdown == "" {
		return "", ErrEmptyMarkdown
	}

	fragment, err := r.transformer.Transform(ctx, input.Markdown)
	if err != nil {
		return "", fmt.Errorf("transforming markdown: %w", err)
	}

	sanitized := r.sanitizer.Sanitize(fragment)

	if input.Mode == ModeExportPDF {
		sanitized = pipeline.ReplaceEmoji(sanitized)
	}

	return r.assembler.Assemble(sanitized, pipeline.AssembleOptions{
		AssetBase: input.AssetBase,
		PrintMode: input.Mode == ModeExportPDF,
	}), nil
}

// RenderPDF renders the document in ModeExportPDF and captures it to PDF
// bytes with headless Chrome. The capture waits for the diagram completion
// flag before printing.
func (r *Renderer) RenderPDF(ctx context.Context, input Input) ([]byte, error) {
	input.Mode = ModeExportPDF

	doc, err := r.RenderHTML(ctx, input)
	if err != nil {
		return nil, err
	}

	pdf, err := r.pdf.Capture(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}
	return pdf, nil
}

// Close releases resources (headless Chrome browser).
func (r *Renderer) Close() error {
	if r.pdf != nil {
		return r.pdf.Close()
	}
	return nil
}

// resolveStyle resolves the style input (name, path, or CSS content) to CSS
// content. Called during NewRenderer after options are applied.
func (r *Renderer) resolveStyle() (string, error) {
	input := r.cfg.styleInput
	if input == "" {
		return r.assetLoader.LoadStyle(assets.DefaultStyleName)
	}

	if fileutil.IsCSS(input) {
		return input, nil
	}

	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return "", fmt.Errorf("loading style file %q: %w", input, err)
		}
		return string(content), nil
	}

	css, err := r.assetLoader.LoadStyle(input)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, input)
	}
	return css, nil
}
