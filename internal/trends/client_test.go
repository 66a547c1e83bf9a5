package trends

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kwtrends/internal/fetch"
)

const exploreBody = `)]}'
{"widgets":[
 {"id":"TIMESERIES","title":"Interest over time","token":"tok-ts","request":{"time":"today 12-m","resolution":"WEEK","restriction":{"geo":{"country":"US"}}}},
 {"id":"GEO_MAP","title":"Interest by subregion","token":"tok-geo","request":{"geo":{"country":"US"},"resolution":"REGION"}},
 {"id":"RELATED_TOPICS","token":"tok-topics","request":{}},
 {"id":"RELATED_QUERIES","token":"tok-rq","request":{"restriction":{"geo":{"country":"US"}}}}
]}`

const multilineBody = `)]}',
{"default":{"timelineData":[
 {"time":"1704067200","formattedTime":"Jan 1 2024","value":[40],"hasData":[true]},
 {"time":"1704672000","formattedTime":"Jan 8 2024","value":[100],"hasData":[true]},
 {"time":"1705276800","formattedTime":"Jan 15 2024","value":[70],"hasData":[true],"isPartial":true}
]}}`

const relatedBody = `)]}',
{"default":{"rankedList":[
 {"rankedKeyword":[{"query":"pizza hut","value":100,"formattedValue":"100"},{"query":"dominos pizza","value":64,"formattedValue":"64"}]},
 {"rankedKeyword":[{"query":"pizza day deals","value":2750,"formattedValue":"Breakout"}]}
]}}`

const geoBody = `)]}',
{"default":{"geoMapData":[
 {"geoCode":"US-NY","geoName":"New York","value":[88],"hasData":[true]},
 {"geoCode":"US-NJ","geoName":"New Jersey","value":[100],"hasData":[true]},
 {"geoCode":"US-WY","geoName":"Wyoming","value":[0],"hasData":[false]}
]}}`

type fakeTrends struct {
	*httptest.Server
	warmups atomic.Int32
	explore atomic.Int32
	geoReq  atomic.Value
}

func newFakeTrends(t *testing.T, override map[string]http.HandlerFunc) *fakeTrends {
	t.Helper()
	f := &fakeTrends{}
	mux := http.NewServeMux()
	handlers := map[string]http.HandlerFunc{
		"GET /{$}": func(w http.ResponseWriter, r *http.Request) {
			f.warmups.Add(1)
			http.SetCookie(w, &http.Cookie{Name: "NID", Value: "abc"})
		},
		"GET " + explorePath: func(w http.ResponseWriter, r *http.Request) {
			f.explore.Add(1)
			_, _ = w.Write([]byte(exploreBody))
		},
		"GET " + multilinePath: func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "tok-ts", r.URL.Query().Get("token"))
			_, _ = w.Write([]byte(multilineBody))
		},
		"GET " + relatedSearchPath: func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "tok-rq", r.URL.Query().Get("token"))
			_, _ = w.Write([]byte(relatedBody))
		},
		"GET " + comparedGeoPath: func(w http.ResponseWriter, r *http.Request) {
			f.geoReq.Store(r.URL.Query().Get("req"))
			_, _ = w.Write([]byte(geoBody))
		},
	}
	for pattern, h := range override {
		handlers[pattern] = h
	}
	for pattern, h := range handlers {
		mux.HandleFunc(pattern, h)
	}
	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func newTestClient(baseURL string) *Client {
	c := NewClient(slog.New(slog.DiscardHandler))
	c.BaseURL = baseURL
	c.Pause = 0
	return c
}

func defaultParams() Params {
	return Params{HL: "en-US", Geo: "US", Timeframe: "today 12-m"}
}

func TestExplore_SendsComparisonItem(t *testing.T) {
	var got exploreRequest
	srv := newFakeTrends(t, map[string]http.HandlerFunc{
		"GET " + explorePath: func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "en-GB", r.URL.Query().Get("hl"))
			assert.Equal(t, "360", r.URL.Query().Get("tz"))
			assert.NoError(t, json.Unmarshal([]byte(r.URL.Query().Get("req")), &got))
			_, _ = w.Write([]byte(exploreBody))
		},
	})
	c := newTestClient(srv.URL)

	widgets, err := c.Explore(context.Background(), "pizza", Params{HL: "en-GB", Geo: "GB", Timeframe: "today 3-m", Category: 71})

	require.NoError(t, err)
	assert.Len(t, widgets, 4)
	require.Len(t, got.ComparisonItem, 1)
	assert.Equal(t, comparisonItem{Keyword: "pizza", Time: "today 3-m", Geo: "GB"}, got.ComparisonItem[0])
	assert.Equal(t, 71, got.Category)
}

func TestExplore_WarmsUpOnce(t *testing.T) {
	srv := newFakeTrends(t, nil)
	c := newTestClient(srv.URL)

	_, err := c.Explore(context.Background(), "pizza", defaultParams())
	require.NoError(t, err)
	_, err = c.Explore(context.Background(), "pizza", defaultParams())
	require.NoError(t, err)

	assert.Equal(t, int32(1), srv.warmups.Load())
	assert.Equal(t, int32(2), srv.explore.Load())
}

func TestExplore_NoWidgets(t *testing.T) {
	srv := newFakeTrends(t, map[string]http.HandlerFunc{
		"GET " + explorePath: func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`)]}'` + "\n" + `{"widgets":[]}`))
		},
	})

	_, err := newTestClient(srv.URL).Explore(context.Background(), "pizza", defaultParams())

	var fe *fetch.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, fetch.FailureEmpty, fe.Kind)
}

func TestResearch_CollectsAllWidgets(t *testing.T) {
	srv := newFakeTrends(t, nil)
	c := newTestClient(srv.URL)

	data, err := c.Research(context.Background(), "pizza", defaultParams())
	require.NoError(t, err)

	assert.Equal(t, "pizza", data.Keyword)
	require.Len(t, data.InterestOverTime, 3)
	assert.Equal(t, 100, data.InterestOverTime[1].Value)
	assert.Equal(t, time.Unix(1704067200, 0).UTC(), data.InterestOverTime[0].Time)
	assert.True(t, data.InterestOverTime[2].IsPartial)

	require.NotNil(t, data.Related)
	assert.Equal(t, []string{"pizza hut", "dominos pizza"}, []string{data.Related.Top[0].Query, data.Related.Top[1].Query})
	require.Len(t, data.Related.Rising, 1)
	assert.Equal(t, "Breakout", data.Related.Rising[0].FormattedValue)

	require.Len(t, data.Regional, 3)
	assert.Equal(t, "New Jersey", data.Regional[1].GeoName)
	assert.False(t, data.Regional[2].HasData)

	var geoReq map[string]any
	require.NoError(t, json.Unmarshal([]byte(srv.geoReq.Load().(string)), &geoReq))
	assert.Equal(t, "REGION", geoReq["resolution"])
	assert.Equal(t, false, geoReq["includeLowSearchVolumeGeos"])
}

func TestResearch_WorldwideUsesCountryResolution(t *testing.T) {
	srv := newFakeTrends(t, nil)
	p := defaultParams()
	p.Geo = ""

	_, err := newTestClient(srv.URL).Research(context.Background(), "pizza", p)
	require.NoError(t, err)

	var geoReq map[string]any
	require.NoError(t, json.Unmarshal([]byte(srv.geoReq.Load().(string)), &geoReq))
	assert.Equal(t, "COUNTRY", geoReq["resolution"])
}

func TestResearch_EmptyPayload(t *testing.T) {
	srv := newFakeTrends(t, map[string]http.HandlerFunc{
		"GET " + multilinePath: func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`)]}',{"default":{"timelineData":[]}}`))
		},
		"GET " + relatedSearchPath: func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`)]}',{"default":{"rankedList":[{"rankedKeyword":[]},{"rankedKeyword":[]}]}}`))
		},
	})

	_, err := newTestClient(srv.URL).Research(context.Background(), "pizza", defaultParams())

	var fe *fetch.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, fetch.FailureEmpty, fe.Kind)
}

func TestResearch_RelatedQueriesOnly(t *testing.T) {
	var timelineCalls atomic.Int32
	srv := newFakeTrends(t, map[string]http.HandlerFunc{
		"GET " + explorePath: func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`)]}'
{"widgets":[{"id":"RELATED_QUERIES","token":"tok-rq","request":{}}]}`))
		},
		"GET " + multilinePath: func(w http.ResponseWriter, r *http.Request) {
			timelineCalls.Add(1)
		},
	})

	data, err := newTestClient(srv.URL).Research(context.Background(), "pizza", defaultParams())

	require.NoError(t, err)
	assert.Empty(t, data.InterestOverTime)
	assert.Empty(t, data.Regional)
	require.NotNil(t, data.Related)
	assert.Equal(t, "pizza hut", data.Related.Top[0].Query)
	assert.Zero(t, timelineCalls.Load())
}

func TestResearch_NoUsableWidgets(t *testing.T) {
	srv := newFakeTrends(t, map[string]http.HandlerFunc{
		"GET " + explorePath: func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`)]}'
{"widgets":[{"id":"RELATED_TOPICS","token":"tok-topics","request":{}}]}`))
		},
	})

	_, err := newTestClient(srv.URL).Research(context.Background(), "pizza", defaultParams())

	var fe *fetch.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, fetch.FailureEmpty, fe.Kind)
}

func TestResearch_UpstreamStatus(t *testing.T) {
	srv := newFakeTrends(t, map[string]http.HandlerFunc{
		"GET " + multilinePath: func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "quota", http.StatusTooManyRequests)
		},
	})

	_, err := newTestClient(srv.URL).Research(context.Background(), "pizza", defaultParams())

	var fe *fetch.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, fetch.FailureStatus, fe.Kind)
	assert.Equal(t, http.StatusTooManyRequests, fe.Status)
}

func TestResearch_MalformedBody(t *testing.T) {
	srv := newFakeTrends(t, map[string]http.HandlerFunc{
		"GET " + relatedSearchPath: func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`)]}',{"default":`))
		},
	})

	_, err := newTestClient(srv.URL).Research(context.Background(), "pizza", defaultParams())

	var fe *fetch.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, fetch.FailureMalformed, fe.Kind)
}

func TestExploreWindow(t *testing.T) {
	var got exploreRequest
	srv := newFakeTrends(t, map[string]http.HandlerFunc{
		"GET " + explorePath: func(w http.ResponseWriter, r *http.Request) {
			assert.NoError(t, json.Unmarshal([]byte(r.URL.Query().Get("req")), &got))
			_, _ = w.Write([]byte(exploreBody))
		},
	})
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)

	data, err := newTestClient(srv.URL).ExploreWindow(context.Background(), "pizza", defaultParams(), now)
	require.NoError(t, err)

	require.Len(t, got.ComparisonItem, 1)
	assert.Equal(t, "2024-01-01 2024-03-31", got.ComparisonItem[0].Time)
	assert.Equal(t, "", got.ComparisonItem[0].Geo)
	assert.Equal(t, "2024-01-01 to 2024-03-31", data.TimeRange())
	assert.Equal(t, map[string]any{"country": "US"}, data.Geo)
}

func TestDailyTrends(t *testing.T) {
	srv := newFakeTrends(t, map[string]http.HandlerFunc{
		"GET " + dailyTrendsPath: func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "20240315", r.URL.Query().Get("ed"))
			assert.Equal(t, "US", r.URL.Query().Get("geo"))
			_, _ = w.Write([]byte(`)]}',
{"default":{"trendingSearchesDays":[{"date":"20240315","trendingSearches":[
 {"title":{"query":"Pizza Hut Deal"},"formattedTraffic":"50K+","relatedQueries":[{"query":"pizza hut coupon"}]},
 {"title":{"query":"March Madness"},"formattedTraffic":"2M+","relatedQueries":[]}
]}]}}`))
		},
	})

	got, err := newTestClient(srv.URL).DailyTrends(context.Background(), Params{HL: "en-US"}, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, TrendingSearch{Title: "Pizza Hut Deal", Traffic: "50K+", Related: []string{"pizza hut coupon"}}, got[0])
	assert.Equal(t, "2M+", got[1].Traffic)
}

func TestDailyTrends_NoDays(t *testing.T) {
	srv := newFakeTrends(t, map[string]http.HandlerFunc{
		"GET " + dailyTrendsPath: func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`)]}',{"default":{}}`))
		},
	})

	_, err := newTestClient(srv.URL).DailyTrends(context.Background(), defaultParams(), time.Now())

	var fe *fetch.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, fetch.FailureEmpty, fe.Kind)
}

const trendingFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:ht="https://trends.google.com/trending/rss">
<channel>
<title>Daily Search Trends</title>
<item>
  <title>pizza day</title>
  <ht:approx_traffic>20000+</ht:approx_traffic>
  <ht:news_item>
    <ht:news_item_title>National Pizza Day deals</ht:news_item_title>
    <ht:news_item_url>https://example.com/a</ht:news_item_url>
  </ht:news_item>
  <ht:news_item>
    <ht:news_item_title>Where to eat today</ht:news_item_title>
  </ht:news_item>
</item>
<item>
  <title>eclipse</title>
  <ht:approx_traffic>1000000+</ht:approx_traffic>
</item>
</channel>
</rss>`

func TestTrendingRSS(t *testing.T) {
	srv := newFakeTrends(t, map[string]http.HandlerFunc{
		"GET " + trendingRSSPath: func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "GB", r.URL.Query().Get("geo"))
			assert.Contains(t, r.Header.Get("Accept"), "application/rss+xml")
			w.Header().Set("Content-Type", "application/rss+xml")
			_, _ = w.Write([]byte(trendingFeed))
		},
	})

	got, err := newTestClient(srv.URL).TrendingRSS(context.Background(), "GB")
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "pizza day", got[0].Title)
	assert.Equal(t, "20000+", got[0].Traffic)
	assert.Equal(t, []string{"National Pizza Day deals", "Where to eat today"}, got[0].Related)
	assert.Empty(t, got[1].Related)
}

func TestTrendingRSS_NotAFeed(t *testing.T) {
	srv := newFakeTrends(t, map[string]http.HandlerFunc{
		"GET " + trendingRSSPath: func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not xml at all`))
		},
	})

	_, err := newTestClient(srv.URL).TrendingRSS(context.Background(), "US")

	var fe *fetch.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, fetch.FailureMalformed, fe.Kind)
}
