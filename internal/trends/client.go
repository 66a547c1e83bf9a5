// Package trends talks to the Google Trends web endpoints: explore, the
// widget data calls behind it, daily trending searches and the trending RSS
// feed. Every call is a single attempt; retries belong to the caller.
package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"kwtrends/internal/fetch"
)

const (
	DefaultBaseURL = "https://trends.google.com"
	// DefaultTZ is the timezone offset in minutes sent with every request.
	DefaultTZ = 360

	explorePath        = "/trends/api/explore"
	multilinePath      = "/trends/api/widgetdata/multiline"
	relatedSearchPath  = "/trends/api/widgetdata/relatedsearches"
	comparedGeoPath    = "/trends/api/widgetdata/comparedgeo"
	dailyTrendsPath    = "/trends/api/dailytrends"
	trendingRSSPath    = "/trending/rss"
	widgetTimeseries   = "TIMESERIES"
	widgetGeoMap       = "GEO_MAP"
	widgetRelatedQuery = "RELATED_QUERIES"

	dateLayout = "2006-01-02"
)

type Client struct {
	Getter  *fetch.Getter
	BaseURL string
	TZ      int
	// Pause is slept between the widget calls of one research attempt.
	Pause time.Duration

	logger *slog.Logger
	warmed bool
}

func NewClient(logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	jar, _ := cookiejar.New(nil)
	return &Client{
		Getter:  fetch.NewGetter(&http.Client{Timeout: 20 * time.Second, Jar: jar}),
		BaseURL: DefaultBaseURL,
		TZ:      DefaultTZ,
		Pause:   2 * time.Second,
		logger:  logger,
	}
}

func (c *Client) url(path string) string {
	return strings.TrimRight(c.BaseURL, "/") + path
}

// warmUp loads the home page once so the cookie jar holds the session
// cookie the API endpoints expect. Failures only cost a log line.
func (c *Client) warmUp(ctx context.Context, geo string) {
	if c.warmed {
		return
	}
	c.warmed = true
	if geo == "" {
		geo = "US"
	}
	if _, err := c.Getter.Get(ctx, c.url("/"), url.Values{"geo": {geo}}); err != nil {
		c.logger.Debug("trends cookie warm-up failed", "error", err)
	}
}

type comparisonItem struct {
	Keyword string `json:"keyword"`
	Time    string `json:"time"`
	Geo     string `json:"geo"`
}

type exploreRequest struct {
	ComparisonItem []comparisonItem `json:"comparisonItem"`
	Category       int              `json:"category"`
	Property       string           `json:"property"`
}

type exploreResponse struct {
	Widgets []Widget `json:"widgets"`
}

// Explore returns the widgets (with their tokens) describing the data
// available for one keyword.
func (c *Client) Explore(ctx context.Context, keyword string, p Params) ([]Widget, error) {
	c.warmUp(ctx, p.Geo)

	req, err := json.Marshal(exploreRequest{
		ComparisonItem: []comparisonItem{{Keyword: keyword, Time: p.Timeframe, Geo: p.Geo}},
		Category:       p.Category,
		Property:       "",
	})
	if err != nil {
		return nil, fmt.Errorf("encoding explore request: %w", err)
	}

	body, err := c.Getter.Get(ctx, c.url(explorePath), url.Values{
		"hl":  {p.HL},
		"tz":  {strconv.Itoa(c.TZ)},
		"req": {string(req)},
	})
	if err != nil {
		return nil, err
	}

	var resp exploreResponse
	if err := fetch.DecodeJSON(body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Widgets) == 0 {
		return nil, fetch.Empty("explore widgets")
	}
	return resp.Widgets, nil
}

func findWidget(widgets []Widget, id string) (Widget, bool) {
	for _, w := range widgets {
		if w.ID == id || strings.HasPrefix(w.ID, id+"_") {
			return w, true
		}
	}
	return Widget{}, false
}

func (c *Client) widgetData(ctx context.Context, path string, w Widget, request []byte, v any) error {
	if request == nil {
		request = w.Request
	}
	body, err := c.Getter.Get(ctx, c.url(path), url.Values{
		"req":   {string(request)},
		"token": {w.Token},
		"tz":    {strconv.Itoa(c.TZ)},
	})
	if err != nil {
		return err
	}
	return fetch.DecodeJSON(body, v)
}

type multilineResponse struct {
	Default struct {
		TimelineData []struct {
			Time          string `json:"time"`
			FormattedTime string `json:"formattedTime"`
			Value         []int  `json:"value"`
			HasData       []bool `json:"hasData"`
			IsPartial     bool   `json:"isPartial"`
		} `json:"timelineData"`
	} `json:"default"`
}

// InterestOverTime returns the 0-100 interest timeline of the TIMESERIES
// widget. A missing widget yields nil without an error.
func (c *Client) InterestOverTime(ctx context.Context, widgets []Widget) ([]TimelinePoint, error) {
	w, ok := findWidget(widgets, widgetTimeseries)
	if !ok {
		return nil, nil
	}

	var resp multilineResponse
	if err := c.widgetData(ctx, multilinePath, w, nil, &resp); err != nil {
		return nil, fmt.Errorf("interest over time: %w", err)
	}

	out := make([]TimelinePoint, 0, len(resp.Default.TimelineData))
	for _, d := range resp.Default.TimelineData {
		pt := TimelinePoint{FormattedTime: d.FormattedTime, IsPartial: d.IsPartial}
		if secs, err := strconv.ParseInt(d.Time, 10, 64); err == nil {
			pt.Time = time.Unix(secs, 0).UTC()
		}
		if len(d.Value) > 0 {
			pt.Value = d.Value[0]
		}
		if len(d.HasData) > 0 {
			pt.HasData = d.HasData[0]
		}
		out = append(out, pt)
	}
	return out, nil
}

type relatedSearchesResponse struct {
	Default struct {
		RankedList []struct {
			RankedKeyword []RankedQuery `json:"rankedKeyword"`
		} `json:"rankedList"`
	} `json:"default"`
}

// RelatedQueries returns the top and rising related queries. A missing
// widget yields nil without an error.
func (c *Client) RelatedQueries(ctx context.Context, widgets []Widget) (*RelatedQueries, error) {
	w, ok := findWidget(widgets, widgetRelatedQuery)
	if !ok {
		return nil, nil
	}

	var resp relatedSearchesResponse
	if err := c.widgetData(ctx, relatedSearchPath, w, nil, &resp); err != nil {
		return nil, fmt.Errorf("related queries: %w", err)
	}

	out := &RelatedQueries{}
	lists := resp.Default.RankedList
	if len(lists) > 0 {
		out.Top = lists[0].RankedKeyword
	}
	if len(lists) > 1 {
		out.Rising = lists[1].RankedKeyword
	}
	return out, nil
}

type comparedGeoResponse struct {
	Default struct {
		GeoMapData []struct {
			GeoCode string `json:"geoCode"`
			GeoName string `json:"geoName"`
			Value   []int  `json:"value"`
			HasData []bool `json:"hasData"`
		} `json:"geoMapData"`
	} `json:"default"`
}

// InterestByRegion returns the per-region scores of the GEO_MAP widget,
// by country for a worldwide query and by sub-region otherwise.
func (c *Client) InterestByRegion(ctx context.Context, widgets []Widget, geo string) ([]RegionInterest, error) {
	w, ok := findWidget(widgets, widgetGeoMap)
	if !ok {
		return nil, nil
	}

	var request map[string]any
	if err := json.Unmarshal(w.Request, &request); err != nil || request == nil {
		return nil, fetch.Failf(fetch.FailureMalformed, "geo widget request: %v", err)
	}
	request["resolution"] = "COUNTRY"
	if geo != "" {
		request["resolution"] = "REGION"
	}
	request["includeLowSearchVolumeGeos"] = false
	raw, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("encoding geo request: %w", err)
	}

	var resp comparedGeoResponse
	if err := c.widgetData(ctx, comparedGeoPath, w, raw, &resp); err != nil {
		return nil, fmt.Errorf("interest by region: %w", err)
	}

	out := make([]RegionInterest, 0, len(resp.Default.GeoMapData))
	for _, d := range resp.Default.GeoMapData {
		r := RegionInterest{GeoCode: d.GeoCode, GeoName: d.GeoName}
		if len(d.Value) > 0 {
			r.Value = d.Value[0]
		}
		if len(d.HasData) > 0 {
			r.HasData = d.HasData[0]
		}
		out = append(out, r)
	}
	return out, nil
}
