package keyword

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"kwtrends/internal/trends"
)

// RelatedShown is how many related queries a trending row lists.
const RelatedShown = 3

type TrendRow struct {
	Query   string
	Traffic string
	Related string
}

// FilterTrending keeps the trending searches whose lowercased title
// contains the keyword. A daily trending list says nothing about the
// search volume of an arbitrary keyword, so an empty result is the common
// case.
func FilterTrending(searches []trends.TrendingSearch, kw string) []TrendRow {
	needle := strings.ToLower(strings.TrimSpace(kw))
	var out []TrendRow
	for _, s := range searches {
		title := strings.ToLower(s.Title)
		if !strings.Contains(title, needle) {
			continue
		}
		traffic := s.Traffic
		if traffic == "" {
			traffic = "N/A"
		}
		out = append(out, TrendRow{
			Query:   title,
			Traffic: traffic,
			Related: joinRelated(s.Related),
		})
	}
	return out
}

func joinRelated(related []string) string {
	var kept []string
	for _, r := range related {
		if r = strings.TrimSpace(r); r != "" {
			kept = append(kept, r)
		}
		if len(kept) == RelatedShown {
			break
		}
	}
	if len(kept) == 0 {
		return "None"
	}
	return strings.Join(kept, ", ")
}

func TopRanked(list []trends.RankedQuery, n int) []trends.RankedQuery {
	if len(list) > n {
		return list[:n]
	}
	return list
}

// TopRegions returns the n highest scores. Regions without data sort after
// every region with data, so they only show up when fewer than n regions
// have any. Ties keep upstream order.
func TopRegions(regions []trends.RegionInterest, n int) []trends.RegionInterest {
	out := slices.Clone(regions)
	slices.SortStableFunc(out, func(a, b trends.RegionInterest) int {
		if a.HasData != b.HasData {
			if a.HasData {
				return -1
			}
			return 1
		}
		return cmp.Compare(b.Value, a.Value)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

type Stats struct {
	Count int
	Mean  float64
	Std   float64
	Min   float64
	P25   float64
	P50   float64
	P75   float64
	Max   float64
}

// Rows returns the statistics in display order.
func (s Stats) Rows() [][]string {
	f := func(v float64) string {
		if math.IsNaN(v) {
			return "NaN"
		}
		return fmt.Sprintf("%.6f", v)
	}
	return [][]string{
		{"count", f(float64(s.Count))},
		{"mean", f(s.Mean)},
		{"std", f(s.Std)},
		{"min", f(s.Min)},
		{"25%", f(s.P25)},
		{"50%", f(s.P50)},
		{"75%", f(s.P75)},
		{"max", f(s.Max)},
	}
}

// Describe summarizes values with the sample standard deviation and
// linearly interpolated quartiles. Std is NaN for fewer than two values.
func Describe(values []float64) Stats {
	n := len(values)
	if n == 0 {
		nan := math.NaN()
		return Stats{Mean: nan, Std: nan, Min: nan, P25: nan, P50: nan, P75: nan, Max: nan}
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(n)

	std := math.NaN()
	if n > 1 {
		var sq float64
		for _, v := range sorted {
			sq += (v - mean) * (v - mean)
		}
		std = math.Sqrt(sq / float64(n-1))
	}

	return Stats{
		Count: n,
		Mean:  mean,
		Std:   std,
		Min:   sorted[0],
		P25:   quantile(sorted, 0.25),
		P50:   quantile(sorted, 0.50),
		P75:   quantile(sorted, 0.75),
		Max:   sorted[n-1],
	}
}

func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// TimelineValues extracts the interest scores of a timeline.
func TimelineValues(points []trends.TimelinePoint) []float64 {
	out := make([]float64, 0, len(points))
	for _, p := range points {
		out = append(out, float64(p.Value))
	}
	return out
}

// GeoRows flattens the explore geo restriction into rows sorted by key.
func GeoRows(geo map[string]any) [][]string {
	keys := make([]string, 0, len(geo))
	for k := range geo {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, fmt.Sprint(geo[k])})
	}
	return rows
}
