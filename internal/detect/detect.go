// Package detect finds quantity mentions such as "5 km" or "98.6°F" in free
// text. Detection is a pure function over the static pattern table.
package detect

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/saadjs/unitconv/internal/units"
)

// Detection is a single quantity mention. Start and End are byte offsets
// into the scanned text, so text[Start:End] == FullMatch.
type Detection struct {
	Value     float64        `json:"value"`
	UnitToken string         `json:"unitToken"`
	UnitCode  string         `json:"unitCode"`
	Category  units.Category `json:"category"`
	FullMatch string         `json:"fullMatchText"`
	Start     int            `json:"startOffset"`
	End       int            `json:"endOffset"`
}

type candidate struct {
	Detection
	priority int
}

// Detect scans text with every unit pattern and returns the mentions found,
// ordered by offset and with overlaps removed: a mention is kept only when it
// starts at or after the end of the previously kept one. When two mentions
// start at the same offset the higher-priority pattern wins.
func Detect(text string) []Detection {
	out := make([]Detection, 0)
	if strings.TrimSpace(text) == "" {
		return out
	}

	var found []candidate
	for i := range patterns {
		found = append(found, patterns[i].scan(text, i)...)
	}
	sort.SliceStable(found, func(i, j int) bool {
		if found[i].Start != found[j].Start {
			return found[i].Start < found[j].Start
		}
		return found[i].priority < found[j].priority
	})

	lastEnd := -1
	for _, c := range found {
		if c.Start < lastEnd {
			continue
		}
		out = append(out, c.Detection)
		lastEnd = c.End
	}
	return out
}

// First returns the leftmost detection in text.
func First(text string) (Detection, bool) {
	all := Detect(text)
	if len(all) == 0 {
		return Detection{}, false
	}
	return all[0], true
}

func (p *tokenPattern) scan(text string, priority int) []candidate {
	var out []candidate
	offset := 0
	for offset < len(text) {
		loc := p.re.FindStringSubmatchIndex(text[offset:])
		if loc == nil {
			break
		}
		base := offset
		start, end := base+loc[0], base+loc[1]
		if !p.boundaryAt(text, end) {
			// A match starting later inside the same number ends on the same
			// token, so resume after the number.
			offset = base + loc[3]
			continue
		}
		offset = end

		value, err := strconv.ParseFloat(text[base+loc[2]:base+loc[3]], 64)
		if err != nil {
			continue
		}
		if p.prescale != nil {
			value = p.prescale(value)
		}
		if math.IsInf(value, 0) || math.IsNaN(value) {
			continue
		}
		out = append(out, candidate{
			Detection: Detection{
				Value:     value,
				UnitToken: text[base+loc[4] : base+loc[5]],
				UnitCode:  p.unit,
				Category:  p.category,
				FullMatch: text[start:end],
				Start:     start,
				End:       end,
			},
			priority: priority,
		})
	}
	return out
}

// boundaryAt reports whether a token ending at end is not glued to a longer
// word or to one of the pattern's excluded runes.
func (p *tokenPattern) boundaryAt(text string, end int) bool {
	if end >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[end:])
	if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
		return false
	}
	return !strings.ContainsRune(p.exclude, r)
}
