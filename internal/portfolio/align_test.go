package portfolio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portdash/internal/market"
)

func day(n int) time.Time {
	return time.Date(2024, 12, 9, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func series(t *testing.T, points map[int]float64, order []int) market.PriceSeries {
	t.Helper()
	var s market.PriceSeries
	for _, n := range order {
		require.NoError(t, s.Append(day(n), points[n]))
	}
	return s
}

func TestAlignForwardFillsGaps(t *testing.T) {
	a := series(t, map[int]float64{0: 100, 1: 101, 2: 102, 3: 103, 4: 104}, []int{0, 1, 2, 3, 4})
	b := series(t, map[int]float64{1: 200, 3: 210}, []int{1, 3})

	table := Align(map[string]market.PriceSeries{"A": a, "B": b})

	// B has no value on day 0, so that date is dropped; the rest are kept
	// with B forward-filled.
	require.Equal(t, []time.Time{day(1), day(2), day(3), day(4)}, table.Dates)
	assert.Equal(t, []float64{101, 102, 103, 104}, table.Columns["A"])
	assert.Equal(t, []float64{200, 200, 210, 210}, table.Columns["B"])
}

func TestAlignEveryCellPopulated(t *testing.T) {
	a := series(t, map[int]float64{0: 10, 3: 11, 7: 12}, []int{0, 3, 7})
	b := series(t, map[int]float64{2: 50, 4: 51, 5: 52}, []int{2, 4, 5})
	c := series(t, map[int]float64{1: 7, 6: 8}, []int{1, 6})

	table := Align(map[string]market.PriceSeries{"A": a, "B": b, "C": c})

	require.False(t, table.Empty())
	for _, name := range table.Names {
		col := table.Columns[name]
		require.Len(t, col, len(table.Dates))
		for i, v := range col {
			assert.Greater(t, v, 0.0, "instrument %s missing value at row %d", name, i)
		}
	}
	// Dates strictly increasing.
	for i := 1; i < len(table.Dates); i++ {
		assert.True(t, table.Dates[i].After(table.Dates[i-1]))
	}
}

func TestAlignEmptySeriesEmptiesTable(t *testing.T) {
	a := series(t, map[int]float64{0: 100, 1: 101}, []int{0, 1})

	table := Align(map[string]market.PriceSeries{"A": a, "B": {}})
	assert.True(t, table.Empty())
}

func TestAlignNoInput(t *testing.T) {
	assert.True(t, Align(nil).Empty())
	assert.True(t, Align(map[string]market.PriceSeries{}).Empty())
}

func TestAlignLateSingleObservationLeavesOneRow(t *testing.T) {
	// One instrument only ever traded on the final date: everything
	// before it is dropped and a single aligned row remains, which the
	// index builder then rejects as insufficient.
	a := series(t, map[int]float64{0: 100, 1: 101, 2: 102}, []int{0, 1, 2})
	b := series(t, map[int]float64{2: 55}, []int{2})

	table := Align(map[string]market.PriceSeries{"A": a, "B": b})
	require.Len(t, table.Dates, 1)
	assert.True(t, BuildIndex(table, map[string]float64{"A": 0.5, "B": 0.5}).Len() == 0)
}
