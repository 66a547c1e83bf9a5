package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// UserAgent is sent on every upstream request. The trends endpoints reject
// obvious non-browser clients.
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// maxBody caps how much of a response is read.
const maxBody = 8 << 20

type Getter struct {
	Client    *http.Client
	UserAgent string
	Accept    string
}

func NewGetter(client *http.Client) *Getter {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Getter{
		Client:    client,
		UserAgent: UserAgent,
		Accept:    "application/json, text/javascript, */*;q=0.1",
	}
}

// Get issues a GET for rawURL with params merged into its query string and
// returns the body of a 200 response.
func (g *Getter) Get(ctx context.Context, rawURL string, params url.Values) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, Fail(FailureNetwork, fmt.Errorf("bad url %q: %w", rawURL, err))
	}
	if len(params) > 0 {
		q := u.Query()
		for k, vs := range params {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, Fail(FailureNetwork, err)
	}
	req.Header.Set("User-Agent", g.UserAgent)
	if g.Accept != "" {
		req.Header.Set("Accept", g.Accept)
	}

	resp, err := g.Client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, Fail(FailureCanceled, ctx.Err())
		}
		return nil, Fail(FailureNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &FetchError{
			Kind:   FailureStatus,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("%s http %d: %s", u.Host, resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, Fail(FailureNetwork, fmt.Errorf("reading body: %w", err))
	}
	return raw, nil
}

var xssiPrefix = []byte(")]}'")

// StripJSONPrefix removes the anti-XSSI guard some endpoints put in front
// of their JSON (")]}'" optionally followed by a comma or newline). Any
// other junk before the first '{' or '[' is dropped too.
func StripJSONPrefix(body []byte) []byte {
	b := bytes.TrimSpace(body)
	b = bytes.TrimPrefix(b, xssiPrefix)
	b = bytes.TrimLeft(b, ", \t\r\n")
	if len(b) > 0 && b[0] != '{' && b[0] != '[' {
		if i := bytes.IndexAny(b, "{["); i >= 0 {
			b = b[i:]
		}
	}
	return b
}

// DecodeJSON strips any guard prefix and unmarshals body into v.
func DecodeJSON(body []byte, v any) error {
	b := StripJSONPrefix(body)
	if len(b) == 0 {
		return Failf(FailureMalformed, "empty body")
	}
	if err := json.Unmarshal(b, v); err != nil {
		return Fail(FailureMalformed, fmt.Errorf("decoding json: %w", err))
	}
	return nil
}
