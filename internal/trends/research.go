package trends

import (
	"context"
	"encoding/json"
	"time"

	"kwtrends/internal/fetch"
)

// ExploreDays is the width of the explore command's window.
const ExploreDays = 90

// Research runs one attempt of the research sequence: explore, interest over
// time, related queries and interest by region, pausing between the widget
// calls. The attempt is usable when either the timeline or the related
// queries came back non-empty.
func (c *Client) Research(ctx context.Context, keyword string, p Params) (ResearchData, error) {
	widgets, err := c.Explore(ctx, keyword, p)
	if err != nil {
		return ResearchData{}, err
	}

	data := ResearchData{Keyword: keyword, Timeframe: p.Timeframe, Geo: p.Geo}

	data.InterestOverTime, err = c.InterestOverTime(ctx, widgets)
	if err != nil {
		return ResearchData{}, err
	}
	if err := fetch.Sleep(ctx, c.Pause); err != nil {
		return ResearchData{}, err
	}

	data.Related, err = c.RelatedQueries(ctx, widgets)
	if err != nil {
		return ResearchData{}, err
	}
	if err := fetch.Sleep(ctx, c.Pause); err != nil {
		return ResearchData{}, err
	}

	data.Regional, err = c.InterestByRegion(ctx, widgets, p.Geo)
	if err != nil {
		return ResearchData{}, err
	}

	if len(data.InterestOverTime) == 0 && data.Related.Empty() {
		return ResearchData{}, fetch.Empty("interest over time or related queries")
	}
	return data, nil
}

type widgetRestriction struct {
	Restriction struct {
		Geo map[string]any `json:"geo"`
	} `json:"restriction"`
}

// ExploreWindow explores keyword worldwide over the ExploreDays days ending
// at now and returns the geo restriction of the first widget. That field is
// request metadata rather than interest data; it is what the explore
// command has always shown.
func (c *Client) ExploreWindow(ctx context.Context, keyword string, p Params, now time.Time) (ExploreData, error) {
	from := now.AddDate(0, 0, -ExploreDays)
	p.Timeframe = from.Format(dateLayout) + " " + now.Format(dateLayout)
	p.Geo = ""
	p.Category = 0

	widgets, err := c.Explore(ctx, keyword, p)
	if err != nil {
		return ExploreData{}, err
	}

	var req widgetRestriction
	if len(widgets[0].Request) > 0 {
		if err := json.Unmarshal(widgets[0].Request, &req); err != nil {
			return ExploreData{}, fetch.Failf(fetch.FailureMalformed, "explore widget request: %v", err)
		}
	}

	return ExploreData{
		Keyword: keyword,
		From:    from,
		To:      now,
		Geo:     req.Restriction.Geo,
	}, nil
}
