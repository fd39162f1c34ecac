package pfr

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/chromedp"
)

type BrowserOptions struct {
	Base        string
	Headless    bool
	PageTimeout time.Duration
	ExecPath    string // optional chrome/chromium binary
}

// Browser is a single headless Chrome tab reused for every letter.
// Callers must defer Close right after NewBrowser succeeds.
type Browser struct {
	base        string
	pageTimeout time.Duration

	tabCtx      context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
}

// listingJS returns one {text, href} per listing paragraph, reading the anchor from
// inside the paragraph so text and link always belong to the same player.
const listingJS = `Array.from(document.querySelectorAll(%q)).map(p => {
  const a = p.querySelector("a[href]");
  return {text: p.innerText, href: a ? a.href : ""};
})`

func NewBrowser(ctx context.Context, o BrowserOptions) (*Browser, error) {
	if o.Base == "" {
		o.Base = BaseURL
	}
	if o.PageTimeout <= 0 {
		o.PageTimeout = 60 * time.Second
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", o.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(ua),
	)
	if o.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(o.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	// first Run launches the browser; do it here so launch errors surface before the scan
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("start browser: %w", err)
	}
	if osBool("DEBUG") {
		log.Printf("players: browser started (headless=%v)", o.Headless)
	}
	return &Browser{
		base:        o.Base,
		pageTimeout: o.PageTimeout,
		tabCtx:      tabCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
	}, nil
}

// Listing loads the letter's index page and returns its paragraphs in document order.
func (b *Browser) Listing(ctx context.Context, letter string) ([]Entry, error) {
	pageURL := ListingURL(b.base, letter)

	pageCtx, cancel := context.WithTimeout(b.tabCtx, b.pageTimeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var raw []struct {
		Text string `json:"text"`
		Href string `json:"href"`
	}
	err := chromedp.Run(pageCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("#div_players", chromedp.ByQuery),
		chromedp.Evaluate(fmt.Sprintf(listingJS, ListingSelector), &raw),
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("load %s: %w", pageURL, err)
	}

	out := make([]Entry, 0, len(raw))
	for _, r := range raw {
		out = append(out, Entry{Text: collapseSpace(r.Text), Href: absolutize(b.base, r.Href)})
	}
	return out, nil
}

// Close shuts the browser down. Safe to call more than once.
func (b *Browser) Close() error {
	if b == nil || b.cancelAlloc == nil {
		return nil
	}
	err := chromedp.Cancel(b.tabCtx)
	b.cancelTab()
	b.cancelAlloc()
	b.cancelAlloc = nil
	if osBool("DEBUG") {
		log.Printf("players: browser closed")
	}
	return err
}
