package output

import (
	"fmt"
	"strconv"

	"kwtrends/internal/keyword"
	"kwtrends/internal/trends"
)

const (
	// ResearchRows caps the related-query and region tables.
	ResearchRows = 10

	NoData = "No data to display"
)

// Research prints the research tables. A nil data prints NoData on the
// error stream.
func Research(p *Printer, kw string, data *trends.ResearchData) error {
	if data == nil {
		p.Error(NoData)
		return nil
	}

	p.Header(fmt.Sprintf("Keyword Research Results for '%s'", kw))

	var top, rising []trends.RankedQuery
	if data.Related != nil {
		top, rising = data.Related.Top, data.Related.Rising
	}

	p.Header("Top Related Keywords")
	if err := related(p, data.Related != nil, top, "top"); err != nil {
		return err
	}

	p.Header("Rising Related Keywords")
	if err := related(p, data.Related != nil, rising, "rising"); err != nil {
		return err
	}

	p.Header("Regional Interest")
	regions := keyword.TopRegions(data.Regional, ResearchRows)
	if len(regions) == 0 {
		p.Print("No regional interest data available")
	} else {
		t := p.Table("Region", kw)
		for _, r := range regions {
			t.AddRow(r.GeoName, strconv.Itoa(r.Value))
		}
		if err := t.Render(); err != nil {
			return err
		}
	}

	p.Header("Interest Over Time Summary")
	if len(data.InterestOverTime) == 0 {
		p.Print("No interest over time data available")
		return nil
	}
	t := p.Table("Metric", "Value")
	t.AddRows(keyword.Describe(keyword.TimelineValues(data.InterestOverTime)).Rows())
	return t.Render()
}

func related(p *Printer, available bool, list []trends.RankedQuery, kind string) error {
	if !available {
		p.Print("No %s related queries data available", kind)
		return nil
	}
	list = keyword.TopRanked(list, ResearchRows)
	if len(list) == 0 {
		p.Print("No %s related queries found", kind)
		return nil
	}
	t := p.Table("Query", "Value")
	for _, q := range list {
		t.AddRow(q.Query, rankedValue(q))
	}
	return t.Render()
}

func rankedValue(q trends.RankedQuery) string {
	if q.FormattedValue != "" {
		return q.FormattedValue
	}
	return strconv.Itoa(q.Value)
}

// Suggestions prints the labeled suggestion table and its summary.
func Suggestions(p *Printer, kw string, items []keyword.Suggestion) error {
	if len(items) == 0 {
		p.Warning("No suggestions found for keyword: %s", kw)
		return nil
	}

	p.Header(fmt.Sprintf("Keyword Research Results for '%s'", kw))
	t := p.Table("Suggested Keyword", "Est. Volume", "Est. Competition", "Word Count")
	for _, it := range items {
		t.AddRow(it.Keyword, string(it.Volume), string(it.Competition), strconv.Itoa(it.Words))
	}
	if err := t.Render(); err != nil {
		return err
	}

	sum := keyword.Summarize(items)
	p.Print("\nSummary:")
	p.Print("- Total suggestions found: %d", sum.Total)
	p.Print("- Long-tail keywords (%d+ words): %d", keyword.LongTailWords, sum.LongTail)
	p.Print("- Short-tail keywords (1-%d words): %d", keyword.LongTailWords-1, sum.ShortTail)
	return nil
}

// Trending prints the trending rows that matched kw.
func Trending(p *Printer, kw string, rows []keyword.TrendRow) error {
	if len(rows) == 0 {
		p.Warning("No trending data found for keyword: %s", kw)
		return nil
	}

	p.Header(fmt.Sprintf("Trend Results for '%s'", kw))
	t := p.Table("Search Term", "Traffic", "Related Queries")
	for _, r := range rows {
		t.AddRow(r.Query, r.Traffic, r.Related)
	}
	return t.Render()
}

// Explore prints the explore window and its geographic restriction.
func Explore(p *Printer, data *trends.ExploreData) error {
	if data == nil {
		p.Warning("No data available")
		return nil
	}

	p.Header("Keyword Research Results")
	p.Print("Keyword: %s", data.Keyword)
	p.Print("Time Range: %s", data.TimeRange())
	p.Print("\nGeographic Interest:")
	if len(data.Geo) == 0 {
		p.Print("No geographic interest data available")
		return nil
	}
	t := p.Table("Region", "Interest Score")
	t.AddRows(keyword.GeoRows(data.Geo))
	return t.Render()
}
