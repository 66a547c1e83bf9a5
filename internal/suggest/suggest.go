// Package suggest reads keyword suggestions from the Google autocomplete
// endpoint.
package suggest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"kwtrends/internal/fetch"
)

const DefaultURL = "http://suggestqueries.google.com/complete/search"

// Client asks the autocomplete endpoint with the firefox client id, which
// makes it answer with plain JSON: ["query", ["suggestion", ...]].
type Client struct {
	Getter *fetch.Getter
	URL    string
}

func NewClient() *Client {
	g := fetch.NewGetter(&http.Client{Timeout: 15 * time.Second})
	g.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Firefox/91.0"
	return &Client{Getter: g, URL: DefaultURL}
}

// Suggestions returns the autocomplete list for keyword in language hl.
// hl may be a full locale ("en-US"); only the language part is sent.
func (c *Client) Suggestions(ctx context.Context, keyword, hl string) ([]string, error) {
	body, err := c.Getter.Get(ctx, c.URL, url.Values{
		"client": {"firefox"},
		"q":      {keyword},
		"hl":     {language(hl)},
	})
	if err != nil {
		return nil, err
	}

	var raw []json.RawMessage
	if err := fetch.DecodeJSON(body, &raw); err != nil {
		return nil, err
	}
	if len(raw) < 2 {
		return nil, fetch.Empty("suggestion list")
	}

	var list []string
	if err := json.Unmarshal(raw[1], &list); err != nil {
		return nil, fetch.Failf(fetch.FailureMalformed, "suggestion list: %v", err)
	}

	out := list[:0]
	for _, s := range list {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil, fetch.Empty("suggestions")
	}
	return out, nil
}

func language(hl string) string {
	hl = strings.TrimSpace(hl)
	if hl == "" {
		return "en"
	}
	if i := strings.IndexAny(hl, "-_"); i > 0 {
		return strings.ToLower(hl[:i])
	}
	return strings.ToLower(hl)
}
