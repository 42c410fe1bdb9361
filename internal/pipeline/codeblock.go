package pipeline

import (
	"fmt"
	stdhtml "html"
	"log/slog"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// DiagramLanguage is the fence tag reserved for diagram blocks. Blocks
// carrying it are handed to the diagram runtime instead of the highlighter.
const DiagramLanguage = "mermaid"

// fallbackLanguage is used when a fence has no tag or an unknown one.
const fallbackLanguage = "plaintext"

// chromaStyle is the highlight palette embedded into assembled documents.
// Must stay in sync with the highlight theme stylesheet linked by the
// assembler (github-dark).
const chromaStyle = "github-dark"

// CodeRenderer turns a fenced code block into an HTML fragment.
type CodeRenderer interface {
	RenderCode(code, lang string) string
}

// ChromaCodeRenderer highlights fenced code with chroma, emitting CSS classes
// so the palette lives in the document stylesheet. Diagram fences bypass
// highlighting entirely.
type ChromaCodeRenderer struct {
	log *slog.Logger
}

// NewChromaCodeRenderer creates a ChromaCodeRenderer.
// A nil logger falls back to slog.Default().
func NewChromaCodeRenderer(log *slog.Logger) *ChromaCodeRenderer {
	if log == nil {
		log = slog.Default()
	}
	return &ChromaCodeRenderer{log: log}
}

// RenderCode renders one fenced block.
//
// Diagram fences are passed through verbatim: the diagram runtime parses the
// text itself, and the sanitizer still constrains everything around the
// container. All other fences are highlighted; a highlighting failure
// degrades to an escaped plain block and is never propagated.
func (r *ChromaCodeRenderer) RenderCode(code, lang string) string {
	if strings.EqualFold(strings.TrimSpace(lang), DiagramLanguage) {
		return `<div class="mermaid">` + code + `</div>`
	}

	highlighted, err := highlight(code, lang)
	if err != nil {
		r.log.Warn("syntax highlighting failed, using plain block",
			"language", lang, "error", err)
		highlighted = `<pre class="chroma"><code>` + stdhtml.EscapeString(code) + `</code></pre>`
	}
	return codeShell(lang, highlighted)
}

// codeShell wraps highlighted output in the labeled block with its copy
// control. The label shows the original fence tag, not the resolved lexer.
func codeShell(label, inner string) string {
	if label == "" {
		label = fallbackLanguage
	}

	var b strings.Builder
	b.WriteString(`<div class="code-block"><div class="code-header"><span class="code-lang">`)
	b.WriteString(stdhtml.EscapeString(label))
	b.WriteString(`</span><span class="copy-btn">Copy</span></div>`)
	b.WriteString(inner)
	b.WriteString(`</div>`)
	return b.String()
}

// highlight runs chroma over the code. Unknown languages resolve to the
// plaintext lexer. Panics inside lexers are converted to errors so a broken
// grammar cannot abort the whole transformation.
func highlight(code, lang string) (out string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("highlighter panic: %v", rec)
		}
	}()

	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Get(fallbackLanguage)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("tokenising: %w", err)
	}

	style := styles.Get(chromaStyle)
	formatter := chromahtml.New(chromahtml.WithClasses(true))

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return "", fmt.Errorf("formatting: %w", err)
	}
	return buf.String(), nil
}

// codeBlockHTMLRenderer routes fenced code blocks through a CodeRenderer.
// Registered with a priority above Goldmark's default HTML renderer so it
// owns every fence.
type codeBlockHTMLRenderer struct {
	code CodeRenderer
}

func (r *codeBlockHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.render)
}

func (r *codeBlockHTMLRenderer) render(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	n, ok := node.(*ast.FencedCodeBlock)
	if !ok {
		return ast.WalkContinue, nil
	}

	lang := string(n.Language(source))

	var code strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		code.Write(segment.Value(source))
	}

	_, _ = w.WriteString(r.code.RenderCode(code.String(), lang))
	return ast.WalkSkipChildren, nil
}
