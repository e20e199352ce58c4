// Package scraper fetches raw listing records from public job boards. Each
// scraper emits model.RawRecord values only; normalization, classification,
// and recency filtering happen downstream in the pipeline.
package scraper

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"

	"internscout/internal/model"
	"internscout/internal/ratelimit"
)

// userAgents is rotated per request so repeated polls do not present a
// single static fingerprint.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.3 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:124.0) Gecko/20100101 Firefox/124.0",
}

// Client is the shared fetch helper: browser-like headers, a rotating
// User-Agent, and per-host rate limiting. All scrapers go through it.
type Client struct {
	http    *http.Client
	limiter *ratelimit.HostLimiter
}

// NewClient wraps httpClient with the shared host limiter. limiter may be
// nil to disable throttling (tests).
func NewClient(httpClient *http.Client, limiter *ratelimit.HostLimiter) *Client {
	return &Client{http: httpClient, limiter: limiter}
}

// GetDocument fetches url and parses the response body as HTML. Non-200
// responses become a *model.HTTPError carrying any Retry-After hint so the
// retry layer can back off correctly.
func (c *Client) GetDocument(ctx context.Context, url string) (*goquery.Document, error) {
	return c.getDocument(ctx, url, "")
}

// GetDocumentReferer is GetDocument with a Referer header; some boards
// reject referer-less requests outright.
func (c *Client) GetDocumentReferer(ctx context.Context, url, referer string) (*goquery.Document, error) {
	return c.getDocument(ctx, url, referer)
}

func (c *Client) getDocument(ctx context.Context, url, referer string) (*goquery.Document, error) {
	if c.limiter != nil {
		if err := c.limiter.WaitURL(ctx, url); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgents[rand.IntN(len(userAgents))])
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("fetching %s", url),
		}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", url, err)
	}
	return doc, nil
}

// parseRetryAfter parses the Retry-After header value into a duration.
// Supports seconds format (e.g. "120"). Returns zero if absent or
// unparseable.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
