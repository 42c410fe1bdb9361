package pipeline

import (
	"fmt"
	"strings"
	"sync"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

// CompletionFlag is the page-global boolean the diagram bootstrap sets once
// every diagram container has settled, on success and on failure alike.
// Headless capture gates on it before printing.
const CompletionFlag = "mermaidRenderDone"

// Vendored asset paths (relative to the asset base) and their remote
// fallbacks. Each resource resolves independently, so a partially populated
// asset base still works.
const (
	highlightThemePath     = "highlight/styles/github-dark.min.css"
	highlightThemeFallback = "https://cdnjs.cloudflare.com/ajax/libs/highlight.js/11.9.0/styles/github-dark.min.css"

	highlightScriptPath     = "highlight/highlight.min.js"
	highlightScriptFallback = "https://cdnjs.cloudflare.com/ajax/libs/highlight.js/11.9.0/highlight.min.js"

	katexStylePath     = "katex/katex.min.css"
	katexStyleFallback = "https://cdn.jsdelivr.net/npm/katex@0.16.10/dist/katex.min.css"

	mermaidModulePath     = "mermaid/mermaid.esm.min.mjs"
	mermaidModuleFallback = "https://cdn.jsdelivr.net/npm/mermaid@10.9.1/dist/mermaid.esm.min.mjs"
)

// AssembleOptions control document assembly for one render call.
type AssembleOptions struct {
	// AssetBase is an optional locator prefix for vendored runtime assets.
	// Empty means every asset uses its remote fallback.
	AssetBase string

	// PrintMode embeds print-media page-break rules for PDF capture.
	PrintMode bool
}

// DocumentAssembler wraps a sanitized HTML fragment in a complete document
// shell: stylesheet links, the diagram bootstrap, the highlight runtime with
// its defensive re-highlight pass, the clipboard helper, and embedded CSS.
type DocumentAssembler struct {
	themeCSS string
}

// NewDocumentAssembler creates a DocumentAssembler using themeCSS as the
// base visual theme embedded into every document.
func NewDocumentAssembler(themeCSS string) *DocumentAssembler {
	return &DocumentAssembler{themeCSS: themeCSS}
}

// Assemble produces the final document. The body is inserted verbatim; it is
// trusted at this point, everything user-supplied went through the sanitizer.
func (a *DocumentAssembler) Assemble(body string, opts AssembleOptions) string {
	var b strings.Builder
	b.Grow(len(body) + 8192)

	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>Document</title>\n")

	b.WriteString(`<link rel="stylesheet" href="`)
	b.WriteString(resolveAsset(opts.AssetBase, highlightThemePath, highlightThemeFallback))
	b.WriteString("\">\n")

	b.WriteString(`<link rel="stylesheet" href="`)
	b.WriteString(resolveAsset(opts.AssetBase, katexStylePath, katexStyleFallback))
	b.WriteString("\">\n")

	b.WriteString("<style>\n")
	b.WriteString(chromaCSS())
	b.WriteString(a.themeCSS)
	if opts.PrintMode {
		b.WriteString(printCSS)
	}
	b.WriteString("</style>\n")

	b.WriteString(fmt.Sprintf(mermaidBootstrap,
		resolveAsset(opts.AssetBase, mermaidModulePath, mermaidModuleFallback),
		CompletionFlag))

	b.WriteString(`<script src="`)
	b.WriteString(resolveAsset(opts.AssetBase, highlightScriptPath, highlightScriptFallback))
	b.WriteString("\"></script>\n")
	b.WriteString(rehighlightScript)
	b.WriteString(clipboardScript)

	b.WriteString("</head>\n<body>\n")
	b.WriteString(body)
	b.WriteString("\n</body>\n</html>\n")

	return b.String()
}

// resolveAsset joins path onto base with any trailing slash stripped, or
// returns the remote fallback when no base is configured.
func resolveAsset(base, path, fallback string) string {
	if base == "" {
		return fallback
	}
	return strings.TrimRight(base, "/") + "/" + path
}

var (
	chromaCSSOnce sync.Once
	chromaCSSText string
)

// chromaCSS returns the class-based stylesheet for the highlight palette,
// generated once from the chroma style registry.
func chromaCSS() string {
	chromaCSSOnce.Do(func() {
		formatter := chromahtml.New(chromahtml.WithClasses(true))
		var buf strings.Builder
		if err := formatter.WriteCSS(&buf, styles.Get(chromaStyle)); err != nil {
			// The registry style is compiled in; failure here means a broken
			// chroma upgrade, surfaced as missing colors rather than a panic.
			chromaCSSText = ""
			return
		}
		chromaCSSText = buf.String() + "\n"
	})
	return chromaCSSText
}

// mermaidBootstrap initializes the diagram runtime and renders every diagram
// container once the page has loaded. The completion flag is set in a finally
// so a failed diagram can never strand a waiting capture driver.
const mermaidBootstrap = `<script type="module">
import mermaid from "%[1]s";
mermaid.initialize({
  startOnLoad: true,
  theme: "default",
  securityLevel: "loose",
  fontFamily: '-apple-system, "Segoe UI", Helvetica, Arial, sans-serif'
});
window.addEventListener("load", async () => {
  try {
    await mermaid.run({ querySelector: ".mermaid" });
  } catch (err) {
    console.error("mermaid render failed:", err);
  } finally {
    window.%[2]s = true;
  }
});
</script>
`

// rehighlightScript re-applies highlighting to any code element the
// conversion step left plain. Blocks already highlighted, by chroma (element
// children) or by a previous hljs pass (hljs class), are skipped, so the
// pass is idempotent.
const rehighlightScript = `<script>
document.addEventListener("DOMContentLoaded", () => {
  if (!window.hljs) return;
  document.querySelectorAll("pre code").forEach((el) => {
    if (el.classList.contains("hljs") || el.childElementCount > 0) return;
    hljs.highlightElement(el);
  });
});
</script>
`

// clipboardScript binds each code block's copy control to the system
// clipboard with a transient acknowledgment.
const clipboardScript = `<script>
document.addEventListener("DOMContentLoaded", () => {
  document.querySelectorAll(".copy-btn").forEach((btn) => {
    btn.addEventListener("click", () => {
      const block = btn.closest(".code-block");
      const pre = block && block.querySelector("pre");
      if (!pre) return;
      navigator.clipboard.writeText(pre.textContent).then(() => {
        const prev = btn.textContent;
        btn.textContent = "Copied!";
        setTimeout(() => { btn.textContent = prev; }, 2000);
      }).catch((err) => {
        console.error("copy failed:", err);
      });
    });
  });
});
</script>
`

// printCSS keeps headings, code blocks, figures, tables, and diagram
// containers intact across page boundaries during PDF capture.
const printCSS = `@media print {
  h1, h2, h3, h4, h5, h6 {
    break-after: avoid;
    page-break-after: avoid;
  }
  pre, .code-block, figure, table, .mermaid {
    break-inside: avoid;
    page-break-inside: avoid;
  }
}
`
