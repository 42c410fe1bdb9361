package pipeline

import (
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips unsafe HTML while keeping the vocabulary the math and
// diagram runtimes need.
type Sanitizer interface {
	Sanitize(htmlContent string) string
}

// svgElements is the vector-diagram vocabulary allowed through sanitization.
var svgElements = []string{
	"svg", "path", "rect", "g", "text", "tspan", "defs", "marker",
	"line", "polyline", "polygon", "circle", "ellipse", "foreignObject",
}

// mathElements is the math-markup vocabulary emitted by the KaTeX extension.
var mathElements = []string{
	"math", "semantics", "mrow", "mi", "mo", "mn", "msup", "msub", "annotation",
}

// svgAttrs covers geometry, styling, and reference attributes on the SVG
// vocabulary. The set is load-bearing: removing an entry breaks diagram
// rendering, adding one risks reopening an injection vector.
var svgAttrs = []string{
	"xmlns", "viewBox", "fill", "stroke", "stroke-width", "d",
	"x", "y", "x1", "y1", "x2", "y2", "width", "height", "rx", "ry",
	"id", "class", "transform", "cx", "cy", "r", "points",
	"font-family", "font-size", "font-weight", "text-anchor",
	"dominant-baseline", "style", "marker-start", "marker-mid", "marker-end",
}

// BluemondaySanitizer applies a UGC baseline policy extended with the math
// and SVG allow-lists. Policies are immutable after construction and safe
// for concurrent use.
type BluemondaySanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer creates a BluemondaySanitizer with the curated allow-list.
func NewSanitizer() *BluemondaySanitizer {
	return &BluemondaySanitizer{policy: buildPolicy()}
}

func buildPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()

	// Heading anchors from goldmark's auto heading IDs.
	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")

	// Chroma and KaTeX both emit class-addressed spans; KaTeX additionally
	// positions glyphs with inline style.
	p.AllowAttrs("class").OnElements("div", "pre", "code", "span")
	p.AllowAttrs("style").OnElements("span")

	p.AllowElements(mathElements...)

	p.AllowElements(svgElements...)
	p.AllowAttrs(svgAttrs...).OnElements(svgElements...)

	return p
}

// Sanitize returns htmlContent with all disallowed tags and attributes
// removed. Idempotent: sanitizing sanitized output is a no-op.
//
// Diagram container bodies bypass the policy: bluemonday re-serializes text
// nodes entity-escaped, which would corrupt diagram source (arrow syntax like
// --> relies on literal > and &). The container element itself is still
// policed; only the text the diagram runtime parses is carried verbatim.
func (s *BluemondaySanitizer) Sanitize(htmlContent string) string {
	content, bodies := extractDiagramBodies(htmlContent)
	content = s.policy.Sanitize(content)
	return restoreDiagramBodies(content, bodies)
}

// diagramOpenTag matches the container emitted for diagram fences. Bodies end
// at the first closing div; diagram source has no markup of its own.
const (
	diagramOpenTag  = `<div class="mermaid">`
	diagramCloseTag = `</div>`
)

// extractDiagramBodies swaps each diagram container body for a placeholder
// token and returns the bodies in order.
func extractDiagramBodies(htmlContent string) (string, []string) {
	if !strings.Contains(htmlContent, diagramOpenTag) {
		return htmlContent, nil
	}

	var b strings.Builder
	var bodies []string

	rest := htmlContent
	for {
		start := strings.Index(rest, diagramOpenTag)
		if start < 0 {
			break
		}
		bodyStart := start + len(diagramOpenTag)
		bodyLen := strings.Index(rest[bodyStart:], diagramCloseTag)
		if bodyLen < 0 {
			break
		}

		b.WriteString(rest[:bodyStart])
		b.WriteString(diagramPlaceholder(len(bodies)))
		bodies = append(bodies, rest[bodyStart:bodyStart+bodyLen])
		rest = rest[bodyStart+bodyLen:]
	}
	b.WriteString(rest)

	return b.String(), bodies
}

// restoreDiagramBodies puts extracted bodies back in place of their tokens.
func restoreDiagramBodies(htmlContent string, bodies []string) string {
	for i, body := range bodies {
		htmlContent = strings.Replace(htmlContent, diagramPlaceholder(i), body, 1)
	}
	return htmlContent
}

func diagramPlaceholder(i int) string {
	return fmt.Sprintf("@@diagram-body-%d@@", i)
}
