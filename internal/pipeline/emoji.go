package pipeline

import (
	stdhtml "html"
	"strings"

	"github.com/rivo/uniseg"
)

// Headless Chrome builds often ship without an emoji font, so PDF-bound
// documents rewrite emoji glyphs into remote SVG image references.
const (
	emojiBaseURL   = "https://cdn.jsdelivr.net/gh/jdecked/twemoji@15.1.0/assets/svg/"
	emojiExtension = ".svg"
)

// ReplaceEmoji rewrites every emoji grapheme in the text content of
// htmlContent with an <img> reference into the versioned SVG set. Markup
// between < and > is left untouched, which also makes the rewrite idempotent:
// the alt attribute of an inserted image still holds the glyph, but it sits
// inside a tag and is skipped on a second pass.
func ReplaceEmoji(htmlContent string) string {
	var b strings.Builder
	b.Grow(len(htmlContent))

	var text strings.Builder
	inTag := false

	for _, r := range htmlContent {
		switch {
		case !inTag && r == '<':
			b.WriteString(replaceEmojiInText(text.String()))
			text.Reset()
			inTag = true
			b.WriteRune(r)
		case inTag && r == '>':
			inTag = false
			b.WriteRune(r)
		case inTag:
			b.WriteRune(r)
		default:
			text.WriteRune(r)
		}
	}
	b.WriteString(replaceEmojiInText(text.String()))

	return b.String()
}

// replaceEmojiInText rewrites emoji graphemes in a run of plain text.
func replaceEmojiInText(text string) string {
	if !containsEmoji(text) {
		return text
	}

	var b strings.Builder
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		runes := gr.Runes()
		if isEmojiGrapheme(runes) {
			b.WriteString(emojiImage(gr.Str(), runes))
			continue
		}
		b.WriteString(gr.Str())
	}
	return b.String()
}

// emojiImage builds the image reference for one emoji grapheme. File names
// join the codepoints in hex, omitting variation selectors, which matches
// the naming of the remote set.
func emojiImage(glyph string, runes []rune) string {
	var code strings.Builder
	for _, r := range runes {
		if r == 0xFE0F || r == 0xFE0E {
			continue
		}
		if code.Len() > 0 {
			code.WriteByte('-')
		}
		writeHex(&code, r)
	}
	if code.Len() == 0 {
		return glyph
	}

	return `<img class="emoji" alt="` + stdhtml.EscapeString(glyph) +
		`" src="` + emojiBaseURL + code.String() + emojiExtension + `"/>`
}

func writeHex(b *strings.Builder, r rune) {
	const digits = "0123456789abcdef"
	v := uint32(r)
	started := false
	for shift := 28; shift >= 0; shift -= 4 {
		d := (v >> uint(shift)) & 0xF
		if d == 0 && !started && shift > 0 {
			continue
		}
		started = true
		b.WriteByte(digits[d])
	}
}

func containsEmoji(text string) bool {
	for _, r := range text {
		if isEmojiRune(r) || r == 0x20E3 {
			return true
		}
	}
	return false
}

// isEmojiRune reports whether a rune belongs to an emoji-bearing Unicode
// block.
func isEmojiRune(r rune) bool {
	switch {
	case r >= 0x23E9 && r <= 0x23FF: // time symbols
		return true
	case r >= 0x2600 && r <= 0x26FF: // miscellaneous symbols
		return true
	case r >= 0x2700 && r <= 0x27BF: // dingbats
		return true
	case r >= 0x2B00 && r <= 0x2BFF: // miscellaneous symbols and arrows
		return true
	case r >= 0x1F000: // standard emoji planes
		return true
	}
	return false
}

// isEmojiGrapheme reports whether a full grapheme cluster renders as emoji.
// Handles keycap sequences, flags, skin tones, and ZWJ sequences.
func isEmojiGrapheme(runes []rune) bool {
	if len(runes) == 0 {
		return false
	}

	// Keycap sequences like 1️⃣ are digit + U+FE0F + U+20E3.
	for _, r := range runes {
		if r == 0x20E3 {
			return true
		}
	}

	return isEmojiRune(runes[0])
}
