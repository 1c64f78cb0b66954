package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Viewport approximates an A4 landscape document; rendered at 2x scale for
// print-quality output.
const (
	viewportWidth  = 1400
	viewportHeight = 900
	viewportScale  = 2
)

// Rasterizer captures rendered HTML documents as PNG images using a
// headless browser. One isolated browser process is launched per call and
// released on every exit path; processes are never pooled or reused.
type Rasterizer struct {
	locator     *Locator
	settleDelay time.Duration // minimum wait after load, lets fonts/images paint
	timeout     time.Duration
}

func NewRasterizer(locator *Locator, settleDelay, timeout time.Duration) *Rasterizer {
	return &Rasterizer{
		locator:     locator,
		settleDelay: settleDelay,
		timeout:     timeout,
	}
}

// Rasterize loads html as the active page content of a fresh headless
// browser, waits for the document to finish loading plus the settle delay,
// and returns a full-page PNG screenshot.
//
// The browser executable is resolved before any process is launched, so a
// missing browser is surfaced as a configuration error without side
// effects. Every failure is terminal for the call; no retry is performed.
func (r *Rasterizer) Rasterize(ctx context.Context, html string) ([]byte, error) {
	execPath, err := r.locator.Find()
	if err != nil {
		return nil, err
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(execPath),
		chromedp.NoSandbox,
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	// The deferred cancels guarantee the browser process is torn down on
	// every exit path. chromedp swallows close-time errors on cancel, so
	// they never mask the original failure.
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	var buf []byte
	err = chromedp.Run(tabCtx,
		chromedp.EmulateViewport(viewportWidth, viewportHeight, chromedp.EmulateScale(viewportScale)),
		chromedp.Navigate("about:blank"),
		setDocumentContent(html),
		// The document and all its resources are inlined (the QR image is a
		// data URL), so readiness plus the settle delay is the quiescent
		// point: there is no in-flight network activity to wait out.
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(r.settleDelay),
		chromedp.FullScreenshot(&buf, 100),
	)
	if err != nil {
		return nil, fmt.Errorf("rasterize with browser at %s: %w", execPath, err)
	}

	slog.Debug("rasterized document", "browser", execPath, "bytes", len(buf))
	return buf, nil
}

// setDocumentContent replaces the page's document with html, the CDP
// equivalent of loading it as the page source.
func setDocumentContent(html string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		tree, err := page.GetFrameTree().Do(ctx)
		if err != nil {
			return fmt.Errorf("get frame tree: %w", err)
		}
		return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
	})
}
