// Package keyword turns fetched payloads into display rows. The volume and
// competition labels are positional and length heuristics with arbitrary
// thresholds; they carry no statistical meaning.
package keyword

import "strings"

type Label string

const (
	High   Label = "High"
	Medium Label = "Medium"
	Low    Label = "Low"
)

// LongTailWords is the word count at which a keyword counts as long-tail.
const LongTailWords = 3

type Suggestion struct {
	Keyword     string
	Volume      Label
	Competition Label
	Words       int
}

type SuggestionSummary struct {
	Total     int
	LongTail  int
	ShortTail int
}

func WordCount(s string) int {
	return len(strings.Fields(s))
}

// VolumeByPosition guesses search volume from the 0-based rank of a
// suggestion: the first three are High, the next three Medium, the rest Low.
func VolumeByPosition(i int) Label {
	switch {
	case i < 3:
		return High
	case i < 6:
		return Medium
	default:
		return Low
	}
}

// CompetitionByWords guesses competition from the word count: three or more
// words is High, two is Medium, one or none is Low.
func CompetitionByWords(n int) Label {
	switch {
	case n >= 3:
		return High
	case n == 2:
		return Medium
	default:
		return Low
	}
}

func LabelSuggestions(suggestions []string) []Suggestion {
	out := make([]Suggestion, 0, len(suggestions))
	for i, s := range suggestions {
		words := WordCount(s)
		out = append(out, Suggestion{
			Keyword:     s,
			Volume:      VolumeByPosition(i),
			Competition: CompetitionByWords(words),
			Words:       words,
		})
	}
	return out
}

func Summarize(items []Suggestion) SuggestionSummary {
	sum := SuggestionSummary{Total: len(items)}
	for _, it := range items {
		if it.Words >= LongTailWords {
			sum.LongTail++
		} else {
			sum.ShortTail++
		}
	}
	return sum
}
