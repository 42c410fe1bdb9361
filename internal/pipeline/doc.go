// Package pipeline implements the Markdown-to-HTML rendering pipeline.
//
// Stages, in order:
//   - Markdown to HTML fragment conversion via Goldmark (GFM, KaTeX math,
//     pluggable fenced-code rendering)
//   - HTML sanitization with an allow-list covering the math and
//     vector-diagram vocabulary
//   - emoji image substitution (PDF exports only)
//   - document assembly: stylesheet links, diagram and highlight runtime
//     bootstraps, clipboard helper, embedded CSS
//
// PDF capture is handled separately by the root mdpreview package using
// headless Chrome (go-rod). This separation keeps the pipeline pure: it is
// synchronous, shares no state between calls, and is safe for concurrent
// independent renders.
package pipeline
