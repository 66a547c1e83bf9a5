package trends

import (
	"bytes"
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"kwtrends/internal/fetch"
)

type dailyTrendsResponse struct {
	Default struct {
		TrendingSearchesDays []struct {
			Date             string `json:"date"`
			TrendingSearches []struct {
				Title struct {
					Query string `json:"query"`
				} `json:"title"`
				FormattedTraffic string `json:"formattedTraffic"`
				RelatedQueries   []struct {
					Query string `json:"query"`
				} `json:"relatedQueries"`
			} `json:"trendingSearches"`
		} `json:"trendingSearchesDays"`
	} `json:"default"`
}

// DailyTrends returns the daily trending searches for p.Geo ending on day.
func (c *Client) DailyTrends(ctx context.Context, p Params, day time.Time) ([]TrendingSearch, error) {
	geo := p.Geo
	if geo == "" {
		geo = "US"
	}
	body, err := c.Getter.Get(ctx, c.url(dailyTrendsPath), url.Values{
		"hl":  {p.HL},
		"geo": {geo},
		"ed":  {day.Format("20060102")},
	})
	if err != nil {
		return nil, err
	}

	var resp dailyTrendsResponse
	if err := fetch.DecodeJSON(body, &resp); err != nil {
		return nil, err
	}

	var out []TrendingSearch
	for _, d := range resp.Default.TrendingSearchesDays {
		for _, s := range d.TrendingSearches {
			ts := TrendingSearch{
				Title:   s.Title.Query,
				Traffic: s.FormattedTraffic,
			}
			for _, rq := range s.RelatedQueries {
				ts.Related = append(ts.Related, rq.Query)
			}
			out = append(out, ts)
		}
	}
	if len(out) == 0 {
		return nil, fetch.Empty("trending searches")
	}
	return out, nil
}

// TrendingRSS reads the public trending-now feed for geo. Traffic comes
// from ht:approx_traffic and related items from the attached news titles.
func (c *Client) TrendingRSS(ctx context.Context, geo string) ([]TrendingSearch, error) {
	if geo == "" {
		geo = "US"
	}
	g := *c.Getter
	g.Accept = "application/rss+xml, application/xml;q=0.9, text/xml;q=0.8, */*;q=0.1"

	body, err := g.Get(ctx, c.url(trendingRSSPath), url.Values{"geo": {geo}})
	if err != nil {
		return nil, err
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fetch.Failf(fetch.FailureMalformed, "parsing trending feed: %v", err)
	}

	out := make([]TrendingSearch, 0, len(feed.Items))
	for _, it := range feed.Items {
		title := strings.TrimSpace(it.Title)
		if title == "" {
			continue
		}
		ts := TrendingSearch{Title: title}
		if ht, ok := it.Extensions["ht"]; ok {
			if traffic := ht["approx_traffic"]; len(traffic) > 0 {
				ts.Traffic = strings.TrimSpace(traffic[0].Value)
			}
			for _, news := range ht["news_item"] {
				if titles := news.Children["news_item_title"]; len(titles) > 0 {
					ts.Related = append(ts.Related, strings.TrimSpace(titles[0].Value))
				}
			}
		}
		out = append(out, ts)
	}
	if len(out) == 0 {
		return nil, fetch.Empty("trending feed items")
	}
	return out, nil
}
