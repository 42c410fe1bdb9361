package fileutil_test

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/alnah/go-mdpreview/internal/fileutil"
)

func TestValidateExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		extension string
		wantErr   error
	}{
		{name: "valid extension html", extension: "html", wantErr: nil},
		{name: "valid extension md", extension: "md", wantErr: nil},
		{name: "empty extension", extension: "", wantErr: fileutil.ErrExtensionEmpty},
		{name: "slash in extension", extension: "a/b", wantErr: fileutil.ErrExtensionPathTraversal},
		{name: "backslash in extension", extension: `a\b`, wantErr: fileutil.ErrExtensionPathTraversal},
		{name: "null byte in extension", extension: "a\x00b", wantErr: fileutil.ErrExtensionPathTraversal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := fileutil.ValidateExtension(tt.extension)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateExtension(%q) error = %v, want %v", tt.extension, err, tt.wantErr)
			}
		})
	}
}

func TestWriteTempFile(t *testing.T) {
	t.Parallel()

	path, cleanup, err := fileutil.WriteTempFile("<html></html>", "html")
	if err != nil {
		t.Fatalf("WriteTempFile() error = %v", err)
	}
	defer cleanup()

	if !strings.HasSuffix(path, ".html") {
		t.Errorf("WriteTempFile() path = %q, want .html suffix", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading temp file: %v", err)
	}
	if string(content) != "<html></html>" {
		t.Errorf("temp file content = %q", content)
	}

	cleanup()
	if fileutil.FileExists(path) {
		t.Error("cleanup did not remove temp file")
	}
}

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	if fileutil.FileExists(dir) {
		t.Error("FileExists() = true for directory")
	}
	if fileutil.FileExists(dir + "/absent") {
		t.Error("FileExists() = true for missing file")
	}

	path := dir + "/f"
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !fileutil.FileExists(path) {
		t.Error("FileExists() = false for regular file")
	}
}

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "style name", input: "default", want: false},
		{name: "relative path", input: "./style.css", want: true},
		{name: "absolute path", input: "/etc/style.css", want: true},
		{name: "windows path", input: `C:\styles\x.css`, want: true},
		{name: "hyphenated name", input: "dark-mode", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.IsFilePath(tt.input); got != tt.want {
				t.Errorf("IsFilePath(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsCSS(t *testing.T) {
	t.Parallel()

	if !fileutil.IsCSS("body { color: red; }") {
		t.Error("IsCSS() = false for raw CSS")
	}
	if fileutil.IsCSS("default") {
		t.Error("IsCSS() = true for style name")
	}
}

func TestIsURL(t *testing.T) {
	t.Parallel()

	if !fileutil.IsURL("https://example.com/x.css") {
		t.Error("IsURL() = false for https URL")
	}
	if fileutil.IsURL("/local/path") {
		t.Error("IsURL() = true for local path")
	}
}
