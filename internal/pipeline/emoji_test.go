package pipeline

import (
	"strings"
	"testing"
)

func TestReplaceEmoji(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text untouched",
			input: "<p>hello world</p>",
			want:  "<p>hello world</p>",
		},
		{
			name:  "single emoji replaced",
			input: "<p>hi \U0001F600</p>",
			want:  `<p>hi <img class="emoji" alt="😀" src="https://cdn.jsdelivr.net/gh/jdecked/twemoji@15.1.0/assets/svg/1f600.svg"/></p>`,
		},
		{
			name:  "variation selector dropped from file name",
			input: "<p>⚠️</p>",
			want:  `<p><img class="emoji" alt="⚠️" src="https://cdn.jsdelivr.net/gh/jdecked/twemoji@15.1.0/assets/svg/26a0.svg"/></p>`,
		},
		{
			name:  "keycap sequence joins codepoints",
			input: "<p>1️⃣</p>",
			want:  `<p><img class="emoji" alt="1️⃣" src="https://cdn.jsdelivr.net/gh/jdecked/twemoji@15.1.0/assets/svg/31-20e3.svg"/></p>`,
		},
		{
			name:  "emoji inside attribute is not rewritten",
			input: `<img alt="😀" src="x.png"/>ok`,
			want:  `<img alt="😀" src="x.png"/>ok`,
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ReplaceEmoji(tt.input)
			if got != tt.want {
				t.Errorf("ReplaceEmoji() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReplaceEmojiIdempotent(t *testing.T) {
	t.Parallel()

	input := "<p>ship it \U0001F680 now</p>"

	once := ReplaceEmoji(input)
	twice := ReplaceEmoji(once)

	if once != twice {
		t.Errorf("ReplaceEmoji() not idempotent:\nonce:  %q\ntwice: %q", once, twice)
	}
	if !strings.Contains(once, "1f680.svg") {
		t.Errorf("ReplaceEmoji() missing image reference, got %q", once)
	}
}

func TestReplaceEmojiFlagSequence(t *testing.T) {
	t.Parallel()

	// Regional indicators F-R form one grapheme.
	got := ReplaceEmoji("<p>\U0001F1EB\U0001F1F7</p>")

	if !strings.Contains(got, "1f1eb-1f1f7.svg") {
		t.Errorf("ReplaceEmoji() flag file name wrong, got %q", got)
	}
	if strings.Count(got, "<img") != 1 {
		t.Errorf("ReplaceEmoji() should emit one image per grapheme, got %q", got)
	}
}

func TestIsEmojiRune(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		r    rune
		want bool
	}{
		{name: "latin letter", r: 'a', want: false},
		{name: "CJK ideograph", r: '漢', want: false},
		{name: "warning sign", r: 0x26A0, want: true},
		{name: "check mark dingbat", r: 0x2705, want: true},
		{name: "rocket", r: 0x1F680, want: true},
		{name: "em dash", r: 0x2014, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := isEmojiRune(tt.r); got != tt.want {
				t.Errorf("isEmojiRune(%U) = %v, want %v", tt.r, got, tt.want)
			}
		})
	}
}
