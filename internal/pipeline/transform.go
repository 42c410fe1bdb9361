package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	katex "github.com/FurqanSoftware/goldmark-katex"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// ErrTransform indicates Markdown to HTML conversion failed.
var ErrTransform = errors.New("markdown transformation failed")

// Transformer abstracts Markdown to HTML fragment conversion.
type Transformer interface {
	Transform(ctx context.Context, source string) (string, error)
}

// GoldmarkTransformer converts Markdown to an HTML fragment using goldmark,
// configured with GFM rules, KaTeX math, and a pluggable fenced-code
// renderer. Hard wraps, smart punctuation, and XHTML output are off.
type GoldmarkTransformer struct {
	md goldmark.Markdown
}

// NewGoldmarkTransformer creates a GoldmarkTransformer with the given code
// block renderer installed for every fence.
func NewGoldmarkTransformer(code CodeRenderer) *GoldmarkTransformer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM, // Tables, strikethrough, autolinks, task lists
			&katex.Extender{},
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			// Raw HTML passes through here; the sanitizer constrains it
			// immediately afterwards.
			html.WithUnsafe(),
			renderer.WithNodeRenderers(
				util.Prioritized(&codeBlockHTMLRenderer{code: code}, 100),
			),
		),
	)
	return &GoldmarkTransformer{md: md}
}

// Transform converts Markdown content to an HTML fragment.
// Supports context cancellation via goroutine + select pattern since
// Goldmark doesn't natively support context.
func (t *GoldmarkTransformer) Transform(ctx context.Context, source string) (string, error) {
	// Fast path: check context before starting
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := t.md.Convert([]byte(source), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrTransform, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}
