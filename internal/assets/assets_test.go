package assets_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-mdpreview/internal/assets"
)

func TestEmbeddedLoaderDefaultStyle(t *testing.T) {
	t.Parallel()

	loader := assets.NewEmbeddedLoader()
	css, err := loader.LoadStyle(assets.DefaultStyleName)
	if err != nil {
		t.Fatalf("LoadStyle() error = %v", err)
	}

	if !strings.Contains(css, "body") {
		t.Errorf("LoadStyle() returned unexpected content: %q", css[:min(len(css), 80)])
	}
	if !strings.Contains(css, "img.emoji") {
		t.Error("default style missing emoji image sizing")
	}
}

func TestEmbeddedLoaderUnknownStyle(t *testing.T) {
	t.Parallel()

	loader := assets.NewEmbeddedLoader()
	_, err := loader.LoadStyle("nope")
	if !errors.Is(err, assets.ErrStyleNotFound) {
		t.Errorf("LoadStyle() error = %v, want ErrStyleNotFound", err)
	}
}

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		assetName string
		wantErr   bool
	}{
		{name: "simple name", assetName: "default", wantErr: false},
		{name: "hyphenated name", assetName: "dark-mode", wantErr: false},
		{name: "empty name", assetName: "", wantErr: true},
		{name: "path traversal", assetName: "../secrets", wantErr: true},
		{name: "dot extension", assetName: "style.css", wantErr: true},
		{name: "backslash", assetName: `a\b`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := assets.ValidateAssetName(tt.assetName)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAssetName(%q) error = %v, wantErr %v", tt.assetName, err, tt.wantErr)
			}
		})
	}
}

func TestFilesystemLoader(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	stylesDir := filepath.Join(dir, "styles")
	if err := os.MkdirAll(stylesDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(stylesDir, "custom.css"), []byte(".x {}"), 0o644); err != nil {
		t.Fatal(err)
	}

	loader, err := assets.NewFilesystemLoader(dir)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error = %v", err)
	}

	css, err := loader.LoadStyle("custom")
	if err != nil {
		t.Fatalf("LoadStyle() error = %v", err)
	}
	if css != ".x {}" {
		t.Errorf("LoadStyle() = %q, want %q", css, ".x {}")
	}

	if _, err := loader.LoadStyle("missing"); !errors.Is(err, assets.ErrStyleNotFound) {
		t.Errorf("LoadStyle(missing) error = %v, want ErrStyleNotFound", err)
	}
}

func TestFilesystemLoaderInvalidBasePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
	}{
		{name: "empty path", path: ""},
		{name: "nonexistent directory", path: "/no/such/dir/mdpreview-test"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := assets.NewFilesystemLoader(tt.path)
			if !errors.Is(err, assets.ErrInvalidBasePath) {
				t.Errorf("NewFilesystemLoader() error = %v, want ErrInvalidBasePath", err)
			}
		})
	}
}

func TestResolverPrefersCustomThenFallsBack(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	stylesDir := filepath.Join(dir, "styles")
	if err := os.MkdirAll(stylesDir, 0o755); err != nil {
		t.Fatal(err)
	}
	// Shadow the embedded default.
	if err := os.WriteFile(filepath.Join(stylesDir, "default.css"), []byte(".shadowed {}"), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := assets.NewResolver(dir)
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	css, err := r.LoadStyle("default")
	if err != nil {
		t.Fatalf("LoadStyle() error = %v", err)
	}
	if css != ".shadowed {}" {
		t.Errorf("LoadStyle() = %q, want custom override", css)
	}

	// Not in the custom dir: falls back to embedded... which also lacks it.
	if _, err := r.LoadStyle("absent"); !errors.Is(err, assets.ErrStyleNotFound) {
		t.Errorf("LoadStyle(absent) error = %v, want ErrStyleNotFound", err)
	}
}

func TestResolverEmbeddedOnly(t *testing.T) {
	t.Parallel()

	r, err := assets.NewResolver("")
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	if _, err := r.LoadStyle(assets.DefaultStyleName); err != nil {
		t.Errorf("LoadStyle() error = %v", err)
	}
}
