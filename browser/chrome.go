// Package browser drives Chrome through the DevTools protocol.
package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	cdpbrowser "github.com/chromedp/cdproto/browser"
	"github.com/chromedp/chromedp"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/f4hrenh9it/sauce-e2e/integration"
)

// ErrNotVisible is returned when an element does not show up in time.
var ErrNotVisible = errors.New("element not visible")

type Options struct {
	BaseURL     string
	Headless    bool
	WaitTimeout time.Duration
	// ExecPath overrides Chrome discovery.
	ExecPath string
}

// Chrome is one browser tab bound to a base URL.
type Chrome struct {
	opts Options
	l    *zap.SugaredLogger

	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc

	capsOnce sync.Once
	caps     integration.BrowserInfo
	capsErr  error
}

func allocatorOptions(o Options) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", o.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("ignore-certificate-errors", true),
		chromedp.WindowSize(1920, 1080),
	)
	if o.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(o.ExecPath))
	}
	return opts
}

// Launch starts Chrome and opens a blank tab.
func Launch(o Options, l *zap.SugaredLogger) (*Chrome, error) {
	if l == nil {
		l = zap.NewNop().Sugar()
	}
	if o.WaitTimeout <= 0 {
		o.WaitTimeout = 10 * time.Second
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocatorOptions(o)...)
	ctx, cancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			l.Debugf("[browser] "+format, args...)
		}),
	)
	// first Run starts the browser process
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		allocCancel()
		return nil, errors.Wrap(err, "start chrome")
	}
	l.Infow("browser started", "headless", o.Headless, "base_url", o.BaseURL)
	return &Chrome{
		opts:        o,
		l:           l,
		ctx:         ctx,
		cancel:      cancel,
		allocCancel: allocCancel,
	}, nil
}

func (c *Chrome) Close() {
	if c.cancel != nil {
		c.cancel()
	}
	if c.allocCancel != nil {
		c.allocCancel()
	}
	c.l.Info("browser closed")
}

func (c *Chrome) run(timeout time.Duration, actions ...chromedp.Action) error {
	if timeout <= 0 {
		timeout = c.opts.WaitTimeout
	}
	ctx, cancel := context.WithTimeout(c.ctx, timeout)
	defer cancel()
	return chromedp.Run(ctx, actions...)
}

// Open navigates to path relative to the base URL and waits for the document.
func (c *Chrome) Open(path string) error {
	u := c.opts.BaseURL + "/" + strings.TrimLeft(path, "/")
	c.l.Debugw("navigate", "url", u)
	start := time.Now()
	err := c.run(3*c.opts.WaitTimeout,
		chromedp.Navigate(u),
		chromedp.WaitReady("body", chromedp.ByQuery),
		c.waitDocumentComplete(),
	)
	if err != nil {
		return errors.Wrapf(err, "open %s", u)
	}
	c.l.Debugw("navigation completed", "url", u, "elapsed", time.Since(start))
	return nil
}

func (c *Chrome) waitDocumentComplete() chromedp.Action {
	var ready bool
	return chromedp.Poll(`document.readyState === "complete"`, &ready, chromedp.WithPollingInterval(100*time.Millisecond))
}

func (c *Chrome) WaitVisible(sel string, timeout time.Duration) error {
	if err := c.run(timeout, chromedp.WaitVisible(sel, chromedp.ByQuery)); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return errors.Wrapf(ErrNotVisible, "%s", sel)
		}
		return errors.Wrapf(err, "wait for %s", sel)
	}
	return nil
}

func (c *Chrome) Click(sel string) error {
	if err := c.WaitVisible(sel, 0); err != nil {
		return err
	}
	if err := c.run(0, chromedp.Click(sel, chromedp.ByQuery, chromedp.NodeVisible)); err != nil {
		return errors.Wrapf(err, "click %s", sel)
	}
	return nil
}

func (c *Chrome) SetValue(sel, value string) error {
	if err := c.WaitVisible(sel, 0); err != nil {
		return err
	}
	err := c.run(0,
		chromedp.Clear(sel, chromedp.ByQuery),
		chromedp.SendKeys(sel, value, chromedp.ByQuery),
	)
	if err != nil {
		return errors.Wrapf(err, "set value of %s", sel)
	}
	return nil
}

func (c *Chrome) Text(sel string) (string, error) {
	if err := c.WaitVisible(sel, 0); err != nil {
		return "", err
	}
	var text string
	if err := c.run(0, chromedp.Text(sel, &text, chromedp.ByQuery)); err != nil {
		return "", errors.Wrapf(err, "read text of %s", sel)
	}
	return strings.TrimSpace(text), nil
}

// IsDisplayed reports whether sel becomes visible within a second.
func (c *Chrome) IsDisplayed(sel string) bool {
	return c.WaitVisible(sel, time.Second) == nil
}

func (c *Chrome) CurrentURL() (string, error) {
	var u string
	if err := c.run(0, chromedp.Location(&u)); err != nil {
		return "", errors.Wrap(err, "read location")
	}
	return u, nil
}

// SelectByText picks the option of a <select> whose visible text is text.
func (c *Chrome) SelectByText(sel, text string) error {
	if err := c.WaitVisible(sel, 0); err != nil {
		return err
	}
	selJSON, _ := json.Marshal(sel)
	textJSON, _ := json.Marshal(text)
	script := fmt.Sprintf(`(function(sel, text) {
	const el = document.querySelector(sel);
	if (!el) { return false; }
	const opt = Array.from(el.options).find(o => o.text.trim() === text);
	if (!opt) { return false; }
	el.value = opt.value;
	el.dispatchEvent(new Event('change', { bubbles: true }));
	return true;
})(%s, %s)`, selJSON, textJSON)
	var ok bool
	if err := c.run(0, chromedp.Evaluate(script, &ok)); err != nil {
		return errors.Wrapf(err, "select %q in %s", text, sel)
	}
	if !ok {
		return errors.Newf("option %q not found in %s", text, sel)
	}
	return nil
}

func (c *Chrome) Count(sel string) (int, error) {
	selJSON, _ := json.Marshal(sel)
	var n int
	if err := c.run(0, chromedp.Evaluate(fmt.Sprintf(`document.querySelectorAll(%s).length`, selJSON), &n)); err != nil {
		return 0, errors.Wrapf(err, "count %s", sel)
	}
	return n, nil
}

// Screenshot captures the viewport as PNG.
func (c *Chrome) Screenshot() ([]byte, error) {
	var buf []byte
	if err := c.run(0, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, errors.Wrap(err, "capture screenshot")
	}
	return buf, nil
}

// Capabilities asks the browser for its product name and version.
func (c *Chrome) Capabilities() (integration.BrowserInfo, error) {
	c.capsOnce.Do(func() {
		var product string
		c.capsErr = c.run(0, chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			_, product, _, _, _, err = cdpbrowser.GetVersion().Do(ctx)
			return err
		}))
		c.caps = parseProduct(product)
	})
	return c.caps, c.capsErr
}

// BrowserInfo implements integration.BrowserInfoSource.
func (c *Chrome) BrowserInfo() (integration.BrowserInfo, bool) {
	info, err := c.Capabilities()
	if err != nil {
		c.l.Debugw("browser capabilities unavailable", "error", err)
		return integration.BrowserInfo{}, false
	}
	return info, true
}

// parseProduct splits a DevTools product string such as
// "HeadlessChrome/126.0.6478.126".
func parseProduct(product string) integration.BrowserInfo {
	info := integration.BrowserInfo{Name: "chrome", Version: "latest", Platform: runtime.GOOS}
	name, version, found := strings.Cut(product, "/")
	if name = strings.TrimSpace(name); name != "" {
		info.Name = strings.ToLower(strings.TrimPrefix(name, "Headless"))
	}
	if found && version != "" {
		info.Version = version
	}
	return info
}
