// Package mdpreview renders Markdown into styled, sanitized HTML documents
// for interactive preview and for export to HTML or PDF.
//
// # Quick Start
//
// Create a renderer, render markdown, and close when done:
//
//	r, err := mdpreview.NewRenderer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	html, err := r.RenderHTML(ctx, mdpreview.Input{
//	    Markdown: "# Hello\n\nWorld",
//	    Mode:     mdpreview.ModePreview,
//	})
//
// Use RenderPDF to capture the document with headless Chrome:
//
//	pdf, err := r.RenderPDF(ctx, mdpreview.Input{Markdown: content})
//	os.WriteFile("output.pdf", pdf, 0644)
//
// # Rendering Pipeline
//
// Each render call runs these stages:
//
//  1. Markdown to HTML via Goldmark (GFM, KaTeX math, chroma-highlighted
//     fenced code, mermaid diagram passthrough)
//  2. Sanitization with an allow-list covering math and SVG markup
//  3. Emoji image substitution (PDF exports only)
//  4. Document assembly: stylesheets, diagram and highlight runtimes,
//     clipboard helper, embedded theme CSS
//
// The pipeline is pure per call and safe for concurrent independent renders.
//
// # Configuration
//
// Use functional options to customize the renderer:
//
//	r, err := mdpreview.NewRenderer(
//	    mdpreview.WithTimeout(2 * time.Minute),
//	    mdpreview.WithStyle("default"),
//	    mdpreview.WithAssetPath("/path/to/themes"),
//	)
//
// Per-render options travel in Input: the mode, and an optional asset base
// used to resolve the highlight, KaTeX, and mermaid runtimes from a local
// bundle instead of their CDN fallbacks.
//
// # Parallel Processing
//
// For batch conversion, use RendererPool to manage multiple browser instances:
//
//	pool := mdpreview.NewRendererPool(4)
//	defer pool.Close()
//
//	r, err := pool.Acquire()
//	defer pool.Release(r)
package mdpreview
