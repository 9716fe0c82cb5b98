// Package quote fetches the motivational line shown under the greeting.
package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultURL serves a random quote as {"content": "...", "author": "..."}.
const DefaultURL = "https://api.quotable.io/random"

// DefaultFallback is shown whenever a quote cannot be fetched.
const DefaultFallback = "Keep going!!"

const defaultTimeout = 5 * time.Second

// Fetcher gets one quote per call.
type Fetcher struct {
	URL      string
	Client   *http.Client
	Fallback string
}

// New returns a Fetcher for url. Empty arguments use the defaults.
func New(url, fallback string) *Fetcher {
	return &Fetcher{URL: url, Fallback: fallback}
}

type response struct {
	Content string `json:"content"`
	Author  string `json:"author"`
}

// Fetch returns the quote text, or the fallback when anything goes wrong.
func (f *Fetcher) Fetch(ctx context.Context) string {
	q, err := f.Get(ctx)
	if err != nil {
		return f.fallback()
	}
	return q
}

// Get is Fetch without the fallback.
func (f *Fetcher) Get(ctx context.Context) (string, error) {
	url := f.URL
	if url == "" {
		url = DefaultURL
	}
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build quote request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch quote: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch quote: unexpected status %s", resp.Status)
	}

	var body response
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err != nil {
		return "", fmt.Errorf("decode quote: %w", err)
	}
	content := strings.TrimSpace(body.Content)
	if content == "" {
		return "", fmt.Errorf("decode quote: empty content")
	}
	return content, nil
}

func (f *Fetcher) fallback() string {
	if f.Fallback == "" {
		return DefaultFallback
	}
	return f.Fallback
}
