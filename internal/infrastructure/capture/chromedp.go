// Package capture produces chart screenshots through a Chrome DevTools
// Protocol session.
package capture

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"chartsnap-backend/internal/domain"
)

// Options configures the browser-backed capturer.
type Options struct {
	// RemoteURL points at an already-running browser's CDP endpoint
	// (http://host:port). Empty means launch a headless browser locally.
	RemoteURL string
	Viewport  domain.Viewport
	// SettleDelay is waited after the page reports ready, giving the chart
	// widget time to render its candles.
	SettleDelay time.Duration
	// Timeout bounds one capture end to end.
	Timeout time.Duration
}

// ChromeCapturer implements the capturer port with chromedp. Each capture
// runs in a fresh tab so a stuck page never poisons the next pair.
type ChromeCapturer struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	opts        Options
}

func NewChromeCapturer(opts Options) *ChromeCapturer {
	if opts.Viewport.Width <= 0 || opts.Viewport.Height <= 0 {
		opts.Viewport = domain.Viewport{Width: 1920, Height: 1080}
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = 3 * time.Second
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}

	var allocCtx context.Context
	var cancel context.CancelFunc
	if opts.RemoteURL != "" {
		allocCtx, cancel = chromedp.NewRemoteAllocator(context.Background(), opts.RemoteURL)
	} else {
		execOpts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.WindowSize(opts.Viewport.Width, opts.Viewport.Height),
			chromedp.Flag("hide-scrollbars", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)
		allocCtx, cancel = chromedp.NewExecAllocator(context.Background(), execOpts...)
	}

	return &ChromeCapturer{allocCtx: allocCtx, allocCancel: cancel, opts: opts}
}

// CaptureFullScreenshot navigates to url and returns the viewport as PNG
// bytes.
func (c *ChromeCapturer) CaptureFullScreenshot(ctx context.Context, url string) ([]byte, error) {
	tabCtx, tabCancel := chromedp.NewContext(c.allocCtx)
	defer tabCancel()

	runCtx, cancel := context.WithTimeout(tabCtx, c.opts.Timeout)
	defer cancel()

	// Stop when the caller gives up, not only on our own timeout.
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	var buf []byte
	err := chromedp.Run(runCtx,
		chromedp.EmulateViewport(int64(c.opts.Viewport.Width), int64(c.opts.Viewport.Height)),
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(c.opts.SettleDelay),
		chromedp.ActionFunc(func(ctx context.Context) error {
			shot, err := page.CaptureScreenshot().
				WithFormat(page.CaptureScreenshotFormatPng).
				Do(ctx)
			if err != nil {
				return err
			}
			buf = shot
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("capture screenshot of %s: %w", url, err)
	}
	return buf, nil
}

// Crop cuts the crop box out of previously captured PNG bytes.
func (c *ChromeCapturer) Crop(data []byte, box domain.CropBox) ([]byte, error) {
	return CropPNG(data, box)
}

// Close tears down the browser allocator.
func (c *ChromeCapturer) Close() {
	c.allocCancel()
}

var _ domain.Capturer = (*ChromeCapturer)(nil)
