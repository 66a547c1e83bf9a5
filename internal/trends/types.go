package trends

import (
	"encoding/json"
	"time"
)

// Params are the per-request knobs of the trends endpoints.
type Params struct {
	HL        string // interface language, e.g. "en-US"
	Geo       string // "" for worldwide, "US", "US-CA"
	Timeframe string // "today 12-m", "now 7-d" or "2024-01-01 2024-03-31"
	Category  int
}

type Widget struct {
	ID      string          `json:"id"`
	Title   string          `json:"title"`
	Token   string          `json:"token"`
	Request json.RawMessage `json:"request"`
}

type TimelinePoint struct {
	Time          time.Time
	FormattedTime string
	Value         int
	HasData       bool
	IsPartial     bool
}

type RankedQuery struct {
	Query          string `json:"query"`
	Value          int    `json:"value"`
	FormattedValue string `json:"formattedValue"`
}

// RelatedQueries holds the steady-popularity (Top) and recently-growing
// (Rising) lists returned alongside a keyword's trend data.
type RelatedQueries struct {
	Top    []RankedQuery
	Rising []RankedQuery
}

func (r *RelatedQueries) Empty() bool {
	return r == nil || (len(r.Top) == 0 && len(r.Rising) == 0)
}

type RegionInterest struct {
	GeoCode string
	GeoName string
	Value   int
	HasData bool
}

// ResearchData is the payload of the research pipeline. Related is nil when
// the upstream returned no related-queries widget.
type ResearchData struct {
	Keyword          string
	Timeframe        string
	Geo              string
	InterestOverTime []TimelinePoint
	Related          *RelatedQueries
	Regional         []RegionInterest
}

type TrendingSearch struct {
	Title   string
	Traffic string
	Related []string
}

// ExploreData is the payload of the explore pipeline. Geo is the geographic
// restriction the upstream echoed back for the first widget.
type ExploreData struct {
	Keyword string
	From    time.Time
	To      time.Time
	Geo     map[string]any
}

// TimeRange renders the window as "YYYY-MM-DD to YYYY-MM-DD".
func (d ExploreData) TimeRange() string {
	return d.From.Format(dateLayout) + " to " + d.To.Format(dateLayout)
}
