package hints

import (
	"strings"
	"testing"
)

// Note: these tests mutate process environment via t.Setenv and therefore
// do not run in parallel.

func TestForBrowserConnectInCI(t *testing.T) {
	t.Setenv("CI", "true")
	t.Setenv("ROD_NO_SANDBOX", "")
	t.Setenv("ROD_BROWSER_BIN", "")

	got := ForBrowserConnect()

	if !strings.Contains(got, "ROD_NO_SANDBOX") {
		t.Errorf("ForBrowserConnect() = %q, want sandbox hint", got)
	}
	if !strings.Contains(got, "ROD_BROWSER_BIN") {
		t.Errorf("ForBrowserConnect() = %q, want browser bin hint", got)
	}
}

func TestForBrowserConnectOutsideCI(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("GITHUB_ACTIONS", "")
	t.Setenv("GITLAB_CI", "")
	t.Setenv("JENKINS_URL", "")
	t.Setenv("ROD_BROWSER_BIN", "/usr/bin/chromium")

	orig := IsInContainer
	IsInContainer = func() bool { return false }
	defer func() { IsInContainer = orig }()

	got := ForBrowserConnect()
	if got != "" {
		t.Errorf("ForBrowserConnect() = %q, want no hints", got)
	}
}

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	got := ForConfigNotFound([]string{
		"mdpreview.yaml",
		"/home/u/.config/mdpreview/config.yaml",
	})

	if !strings.Contains(got, "--config") {
		t.Errorf("ForConfigNotFound() = %q, want --config hint", got)
	}
	if !strings.Contains(got, "/home/u/.config/mdpreview/config.yaml") {
		t.Errorf("ForConfigNotFound() = %q, want user config path", got)
	}
}

func TestForTimeout(t *testing.T) {
	t.Parallel()

	got := ForTimeout()
	if !strings.Contains(got, "--timeout") {
		t.Errorf("ForTimeout() = %q, want --timeout hint", got)
	}
	if !strings.HasPrefix(got, "\n  hint: ") {
		t.Errorf("ForTimeout() = %q, want hint prefix", got)
	}
}
