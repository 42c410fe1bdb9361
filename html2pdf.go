package mdpreview

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-mdpreview/internal/fileutil"
	"github.com/alnah/go-mdpreview/internal/hints"
	"github.com/alnah/go-mdpreview/internal/pipeline"
)

// pdfCapturer abstracts HTML-to-PDF capture to enable testing without a browser.
type pdfCapturer interface {
	Capture(ctx context.Context, htmlContent string) ([]byte, error)
	Close() error
}

// PDF page dimensions in inches (US Letter format).
const (
	paperWidthInches  = 8.5
	paperHeightInches = 11
	marginInches      = 0.5
)

// Diagram rendering happens asynchronously inside the page; capture waits on
// the completion flag, bounded so a broken bootstrap cannot hang a caller.
const (
	diagramWaitTimeout  = 10 * time.Second
	diagramPollInterval = 100 * time.Millisecond
)

// rodCapturer implements pdfCapturer using go-rod.
// Rod automatically downloads Chromium on first run if not found.
//
// The browser handle is a single-slot cache guarded by a mutex: concurrent
// captures share one instance, and a failed connect leaves the slot empty so
// the next call retries fresh.
type rodCapturer struct {
	mu      sync.Mutex
	browser *rod.Browser
	timeout time.Duration
	log     *slog.Logger
}

// newRodCapturer creates a rodCapturer with the given timeout.
func newRodCapturer(timeout time.Duration, log *slog.Logger) *rodCapturer {
	if log == nil {
		log = slog.Default()
	}
	return &rodCapturer{timeout: timeout, log: log}
}

// ensureBrowser lazily launches and connects to the browser.
func (c *rodCapturer) ensureBrowser() (*rod.Browser, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.browser != nil {
		return c.browser, nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v%s", ErrBrowserConnect, err, hints.ForBrowserConnect())
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("%w: %v%s", ErrBrowserConnect, err, hints.ForBrowserConnect())
	}

	c.browser = browser
	return browser, nil
}

// Close releases browser resources.
func (c *rodCapturer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.browser != nil {
		err := c.browser.Close()
		c.browser = nil
		return err
	}
	return nil
}

// Capture loads the assembled document in headless Chrome, waits for diagram
// rendering to settle, and prints it to PDF bytes.
func (c *rodCapturer) Capture(ctx context.Context, htmlContent string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	filePath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	defer cleanup()

	browser, err := c.ensureBrowser()
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v%s", ErrPageLoad, err, hints.ForTimeout())
	}

	c.waitForDiagrams(ctx, page)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.PDF(&proto.PagePrintToPDF{
		PaperWidth:      floatPtr(paperWidthInches),
		PaperHeight:     floatPtr(paperHeightInches),
		MarginTop:       floatPtr(marginInches),
		MarginBottom:    floatPtr(marginInches),
		MarginLeft:      floatPtr(marginInches),
		MarginRight:     floatPtr(marginInches),
		PrintBackground: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}

	return pdfBuf, nil
}

// waitForDiagrams polls the page-global completion flag. On timeout the
// capture proceeds anyway: a stuck diagram degrades output, it must not
// block the export.
func (c *rodCapturer) waitForDiagrams(ctx context.Context, page *rod.Page) {
	expr := diagramWaitExpression()
	deadline := time.Now().Add(diagramWaitTimeout)

	for time.Now().Before(deadline) {
		if ctx.Err() != nil {
			return
		}

		res, err := page.Eval(expr)
		if err == nil && res.Value.Bool() {
			return
		}

		time.Sleep(diagramPollInterval)
	}

	c.log.Warn("diagram completion flag not set before deadline, capturing anyway",
		"timeout", diagramWaitTimeout)
}

// diagramWaitExpression builds the JS predicate polled before capture.
func diagramWaitExpression() string {
	return "() => window." + pipeline.CompletionFlag + " === true"
}

func floatPtr(f float64) *float64 { return &f }
