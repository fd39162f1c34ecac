package pfr

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// HTTPSource reads listing pages with a plain GET and goquery instead of a browser.
type HTTPSource struct {
	Base        string
	Client      *http.Client
	MaxAttempts int           // <=1 means a single attempt
	RetryBase   time.Duration // base backoff on 5xx
	Cooldown    time.Duration // used on 429 when no Retry-After
}

func NewHTTPSource(base string, timeout time.Duration, maxAttempts int) *HTTPSource {
	if base == "" {
		base = BaseURL
	}
	return &HTTPSource{
		Base:        base,
		Client:      &http.Client{Timeout: timeout},
		MaxAttempts: maxAttempts,
		RetryBase:   400 * time.Millisecond,
		Cooldown:    7 * time.Second,
	}
}

func (s *HTTPSource) Listing(ctx context.Context, letter string) ([]Entry, error) {
	pageURL := ListingURL(s.Base, letter)
	html, err := s.getText(ctx, pageURL, strings.TrimRight(s.Base, "/")+"/players/")
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	return parseListingHTML(html, s.Base)
}

// parseListingHTML pulls text + first anchor href out of every listing paragraph.
func parseListingHTML(html, host string) ([]Entry, error) {
	// PFR sometimes ships blocks inside comments
	clean := strings.ReplaceAll(html, "<!--", "")
	clean = strings.ReplaceAll(clean, "-->", "")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(clean))
	if err != nil {
		return nil, fmt.Errorf("parse listing html: %w", err)
	}
	if doc.Find("#div_players").Length() == 0 {
		return nil, fmt.Errorf("listing container #div_players not found")
	}

	out := make([]Entry, 0, 512)
	doc.Find(ListingSelector).Each(func(_ int, p *goquery.Selection) {
		href, _ := p.Find("a").First().Attr("href")
		out = append(out, Entry{
			Text: collapseSpace(p.Text()),
			Href: absolutize(host, strings.TrimSpace(href)),
		})
	})
	return out, nil
}

// collapseSpace folds newlines and runs of spaces from wrapped markup into single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func parseRetryAfter(h string) time.Duration {
	h = strings.TrimSpace(h)
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(h); err == nil {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

func backoff(attempt int, base, ceiling time.Duration) time.Duration {
	d := base * time.Duration(1<<attempt)
	j := time.Duration(rand.Intn(250)) * time.Millisecond
	if d+j > ceiling {
		return ceiling
	}
	return d + j
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// getText fetches url with UA/Referer headers. Only 429/5xx are retried, and only when
// MaxAttempts > 1.
func (s *HTTPSource) getText(ctx context.Context, url, referer string) (string, error) {
	maxAttempts := s.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 && osBool("DEBUG") {
			log.Printf("players: retry %d for %s after %v", attempt, url, lastErr)
		}
		body, retryAfter, err := s.getOnce(ctx, url, referer)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if retryAfter < 0 || attempt == maxAttempts-1 {
			break
		}
		wait := retryAfter
		if wait == 0 {
			wait = backoff(attempt, s.RetryBase, 6*time.Second)
		}
		if err := sleepCtx(ctx, wait); err != nil {
			return "", err
		}
	}
	return "", lastErr
}

// getOnce returns retryAfter < 0 for non-retryable failures.
func (s *HTTPSource) getOnce(ctx context.Context, url, referer string) (string, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", -1, err
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", -1, err
		}
		return "", 0, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", 0, err
		}
		return string(b), 0, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		wait := parseRetryAfter(resp.Header.Get("Retry-After"))
		if wait == 0 {
			wait = s.Cooldown
		}
		return "", wait, fmt.Errorf("status %d for %s", resp.StatusCode, url)
	case resp.StatusCode >= 500 && resp.StatusCode <= 599:
		return "", 0, fmt.Errorf("status %d for %s", resp.StatusCode, url)
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", -1, fmt.Errorf("status %d for %s (body len=%d)", resp.StatusCode, url, len(b))
	}
}
