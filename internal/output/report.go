package output

import (
	"fmt"
	"time"

	"github.com/gingfrederik/docx"

	"kwtrends/internal/keyword"
	"kwtrends/internal/trends"
)

const rule = "--------------------------------------------------"

// WriteResearchReport saves the research results as a .docx document.
func WriteResearchReport(path string, data trends.ResearchData, now time.Time) error {
	f := docx.NewFile()

	p := f.AddParagraph()
	run := p.AddText(fmt.Sprintf("Keyword Research Report: %s", data.Keyword))
	run.Size(20)

	geo := data.Geo
	if geo == "" {
		geo = "Worldwide"
	}
	p = f.AddParagraph()
	run = p.AddText(fmt.Sprintf("Region: %s | Timeframe: %s | Generated: %s", geo, data.Timeframe, now.Format(time.RFC1123)))
	run.Size(10)
	run.Color("808080")

	f.AddParagraph() // Spacer

	var top, rising []trends.RankedQuery
	if data.Related != nil {
		top, rising = data.Related.Top, data.Related.Rising
	}
	rankedSection(f, "Top Related Keywords", keyword.TopRanked(top, ResearchRows))
	rankedSection(f, "Rising Related Keywords", keyword.TopRanked(rising, ResearchRows))

	heading(f, "Regional Interest")
	regions := keyword.TopRegions(data.Regional, ResearchRows)
	if len(regions) == 0 {
		f.AddParagraph().AddText("No regional interest data available")
	}
	for _, r := range regions {
		f.AddParagraph().AddText(fmt.Sprintf("- %s: %d", r.GeoName, r.Value))
	}

	heading(f, "Interest Over Time Summary")
	if len(data.InterestOverTime) == 0 {
		f.AddParagraph().AddText("No interest over time data available")
	} else {
		for _, row := range keyword.Describe(keyword.TimelineValues(data.InterestOverTime)).Rows() {
			f.AddParagraph().AddText(fmt.Sprintf("%s: %s", row[0], row[1]))
		}
	}

	return f.Save(path)
}

// WriteSuggestionsReport saves the labeled suggestions as a .docx document.
func WriteSuggestionsReport(path, kw string, items []keyword.Suggestion, now time.Time) error {
	f := docx.NewFile()

	p := f.AddParagraph()
	run := p.AddText(fmt.Sprintf("Keyword Suggestions Report: %s", kw))
	run.Size(20)

	p = f.AddParagraph()
	run = p.AddText("Generated: " + now.Format(time.RFC1123))
	run.Size(10)
	run.Color("808080")

	p = f.AddParagraph()
	p.AddText("Volume is guessed from the suggestion's position and competition from its word count. Both are rough heuristics.")

	f.AddParagraph() // Spacer
	f.AddParagraph().AddText(rule)

	for _, it := range items {
		p = f.AddParagraph()
		run = p.AddText(it.Keyword)
		run.Size(14)

		p = f.AddParagraph()
		run = p.AddText(fmt.Sprintf("Volume: %s | Competition: %s | Words: %d", it.Volume, it.Competition, it.Words))
		run.Color("008000")
	}

	sum := keyword.Summarize(items)
	heading(f, "Summary")
	f.AddParagraph().AddText(fmt.Sprintf("- Total suggestions found: %d", sum.Total))
	f.AddParagraph().AddText(fmt.Sprintf("- Long-tail keywords (%d+ words): %d", keyword.LongTailWords, sum.LongTail))
	f.AddParagraph().AddText(fmt.Sprintf("- Short-tail keywords (1-%d words): %d", keyword.LongTailWords-1, sum.ShortTail))

	return f.Save(path)
}

func heading(f *docx.File, title string) {
	f.AddParagraph() // Spacer
	run := f.AddParagraph().AddText(title)
	run.Size(16)
}

func rankedSection(f *docx.File, title string, list []trends.RankedQuery) {
	heading(f, title)
	if len(list) == 0 {
		f.AddParagraph().AddText("None found")
		return
	}
	for _, q := range list {
		f.AddParagraph().AddText(fmt.Sprintf("- %s (%s)", q.Query, rankedValue(q)))
	}
}
