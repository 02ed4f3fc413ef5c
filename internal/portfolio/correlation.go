package portfolio

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// correlate computes the pairwise Pearson correlation of instrument
// daily returns from an aligned table. The table must have at least 3
// rows so every column yields 2 or more returns.
func correlate(table AlignedTable, names []string) [][]float64 {
	returns := make(map[string][]float64, len(names))
	for _, name := range names {
		returns[name] = columnReturns(table.Columns[name])
	}

	matrix := make([][]float64, len(names))
	for i, a := range names {
		matrix[i] = make([]float64, len(names))
		for j, b := range names {
			if i == j {
				matrix[i][j] = 1
				continue
			}
			c := stat.Correlation(returns[a], returns[b], nil)
			if math.IsNaN(c) {
				// Flat column: correlation is undefined, report 0.
				c = 0
			}
			matrix[i][j] = c
		}
	}
	return matrix
}

func columnReturns(prices []float64) []float64 {
	out := make([]float64, len(prices)-1)
	for t := 1; t < len(prices); t++ {
		out[t-1] = prices[t]/prices[t-1] - 1
	}
	return out
}
