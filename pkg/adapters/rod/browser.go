package rod

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// LaunchOptions selects the browser to drive.
type LaunchOptions struct {
	// ControlURL attaches to a running browser (DevTools websocket URL). Empty launches one.
	ControlURL string
	// Bin is the browser executable used when launching. Empty lets the launcher find or download one.
	Bin      string
	Headless bool
	Width    int
	Height   int
}

// Browser is a connected browser with one page open on the host application.
type Browser struct {
	browser *rod.Browser
	Page    *rod.Page
}

// Launch connects to (or starts) a browser and opens url.
func Launch(ctx context.Context, url string, opts LaunchOptions) (*Browser, error) {
	controlURL := opts.ControlURL
	if controlURL == "" {
		l := launcher.New().Headless(opts.Headless)
		if opts.Bin != "" {
			l = l.Bin(opts.Bin)
		}
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch browser: %w", err)
		}
		controlURL = u
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("open %s: %w", url, err)
	}
	if opts.Width > 0 && opts.Height > 0 {
		if err := (proto.EmulationSetDeviceMetricsOverride{
			Width:             opts.Width,
			Height:            opts.Height,
			DeviceScaleFactor: 1.0,
			Mobile:            false,
		}).Call(page); err != nil {
			browser.Close()
			return nil, fmt.Errorf("set viewport: %w", err)
		}
	}
	if err := page.WaitLoad(); err != nil {
		browser.Close()
		return nil, fmt.Errorf("wait load: %w", err)
	}
	return &Browser{browser: browser, Page: page}, nil
}

// Surface returns the host surface of the open page.
func (b *Browser) Surface() *Surface {
	return NewSurface(b.Page)
}

// Storage returns the localStorage of the open page.
func (b *Browser) Storage() *LocalStorage {
	return NewLocalStorage(b.Page)
}

// Close shuts the browser connection down.
func (b *Browser) Close() error {
	return b.browser.Close()
}
