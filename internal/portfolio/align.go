package portfolio

import (
	"sort"
	"time"

	"portdash/internal/market"
)

// Align merges per-instrument price series into one date-aligned table.
// It takes the union of all observed dates, forward-fills each instrument
// with its last known price, and drops every date where at least one
// instrument still has no value. Forward-fill can only fail before an
// instrument's first observation, so the dropped rows are a prefix.
//
// An entirely empty input series makes the whole table empty, as does an
// empty input map. Callers treat an empty table as insufficient data,
// not an error.
func Align(series map[string]market.PriceSeries) AlignedTable {
	if len(series) == 0 {
		return AlignedTable{}
	}

	names := make([]string, 0, len(series))
	for name := range series {
		if series[name].Empty() {
			return AlignedTable{}
		}
		names = append(names, name)
	}
	sort.Strings(names)

	// Outer join on date.
	seen := make(map[int64]time.Time)
	for _, name := range names {
		for _, d := range series[name].Dates {
			seen[d.Unix()] = d
		}
	}
	dates := make([]time.Time, 0, len(seen))
	for _, d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	// Forward-fill each instrument over the union timeline, tracking the
	// first date at which it has a value at all.
	columns := make(map[string][]float64, len(names))
	start := 0
	for _, name := range names {
		s := series[name]
		col := make([]float64, len(dates))
		idx, first := 0, -1
		var last float64
		for i, d := range dates {
			for idx < s.Len() && !s.Dates[idx].After(d) {
				last = s.Closes[idx]
				idx++
				if first < 0 {
					first = i
				}
			}
			if first >= 0 {
				col[i] = last
			}
		}
		if first > start {
			start = first
		}
		columns[name] = col
	}

	// Drop the incomplete prefix.
	dates = dates[start:]
	if len(dates) == 0 {
		return AlignedTable{}
	}
	for name, col := range columns {
		columns[name] = col[start:]
	}
	return AlignedTable{Dates: dates, Names: names, Columns: columns}
}
