package suggest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kwtrends/internal/fetch"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := NewClient()
	c.URL = srv.URL + "/complete/search"
	return c
}

func TestSuggestions(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "firefox", q.Get("client"))
		assert.Equal(t, "pizza", q.Get("q"))
		assert.Equal(t, "en", q.Get("hl"))
		assert.Contains(t, r.Header.Get("User-Agent"), "Firefox")
		_, _ = w.Write([]byte(`["pizza",["pizza near me","pizza recipe"," ","pizza dough"]]`))
	})

	got, err := c.Suggestions(context.Background(), "pizza", "en-US")

	require.NoError(t, err)
	assert.Equal(t, []string{"pizza near me", "pizza recipe", "pizza dough"}, got)
}

func TestSuggestions_Failures(t *testing.T) {
	tests := map[string]struct {
		body   string
		status int
		want   fetch.FailureKind
	}{
		"empty list":       {body: `["pizza",[]]`, want: fetch.FailureEmpty},
		"missing list":     {body: `["pizza"]`, want: fetch.FailureEmpty},
		"list not strings": {body: `["pizza",{"a":1}]`, want: fetch.FailureMalformed},
		"not json":         {body: `<html>captcha</html>`, want: fetch.FailureMalformed},
		"server error":     {body: "oops", status: http.StatusInternalServerError, want: fetch.FailureStatus},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if tc.status != 0 {
					w.WriteHeader(tc.status)
				}
				_, _ = w.Write([]byte(tc.body))
			})

			_, err := c.Suggestions(context.Background(), "pizza", "en")

			var fe *fetch.FetchError
			require.True(t, errors.As(err, &fe), "got %v", err)
			assert.Equal(t, tc.want, fe.Kind)
		})
	}
}

func TestLanguage(t *testing.T) {
	assert.Equal(t, "en", language(""))
	assert.Equal(t, "en", language("en-US"))
	assert.Equal(t, "pt", language("pt_BR"))
	assert.Equal(t, "de", language("DE"))
}
