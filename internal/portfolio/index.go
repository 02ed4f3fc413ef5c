package portfolio

import "time"

// normalizationBase is the value each instrument's first price is
// rescaled to before weighting, so that a cheap and an expensive ETF
// contribute by allocation rather than by price level.
const normalizationBase = 100.0

// BuildIndex normalizes each instrument's column to the base value at
// the first aligned date, applies the portfolio weights, and sums into a
// single index series. Weights are taken as given: the first index value
// equals base × Σ(weights), and renormalizing weights to 1 is the
// configuration's responsibility.
//
// Returns an empty Index when the table has fewer than 2 rows.
func BuildIndex(table AlignedTable, weights map[string]float64) Index {
	if len(table.Dates) < 2 {
		return Index{}
	}

	values := make([]float64, len(table.Dates))
	for _, name := range table.Names {
		w := weights[name]
		if w == 0 {
			continue
		}
		col := table.Columns[name]
		base := col[0]
		if base <= 0 {
			return Index{}
		}
		for i, price := range col {
			values[i] += price / base * normalizationBase * w
		}
	}

	dates := make([]time.Time, len(table.Dates))
	copy(dates, table.Dates)
	return Index{Dates: dates, Values: values}
}
