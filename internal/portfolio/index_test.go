package portfolio

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portdash/internal/market"
)

func tableFrom(t *testing.T, cols map[string][]float64) AlignedTable {
	t.Helper()
	series := make(map[string]market.PriceSeries, len(cols))
	for name, prices := range cols {
		var s market.PriceSeries
		for i, p := range prices {
			require.NoError(t, s.Append(day(i), p))
		}
		series[name] = s
	}
	return Align(series)
}

func TestBuildIndexNormalizesPriceLevels(t *testing.T) {
	// A cheap and an expensive instrument with identical relative moves
	// must contribute identically.
	table := tableFrom(t, map[string][]float64{
		"cheap":     {10, 11, 12.1},
		"expensive": {100000, 110000, 121000},
	})
	ix := BuildIndex(table, map[string]float64{"cheap": 0.5, "expensive": 0.5})

	require.Equal(t, 3, ix.Len())
	assert.InDelta(t, 100, ix.Values[0], 1e-9)
	assert.InDelta(t, 110, ix.Values[1], 1e-9)
	assert.InDelta(t, 121, ix.Values[2], 1e-9)
}

func TestBuildIndexFirstValueIsBaseTimesWeightSum(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 100; trial++ {
		n := 2 + rng.Intn(4)
		cols := make(map[string][]float64, n)
		weights := make(map[string]float64, n)
		remaining := 1.0
		for i := 0; i < n; i++ {
			name := string(rune('A' + i))
			cols[name] = []float64{1 + rng.Float64()*1000, 1 + rng.Float64()*1000, 1 + rng.Float64()*1000}
			w := remaining
			if i < n-1 {
				w = remaining * rng.Float64()
			}
			weights[name] = w
			remaining -= w
		}
		ix := BuildIndex(tableFrom(t, cols), weights)
		require.Equal(t, 3, ix.Len())
		assert.InDelta(t, 100, ix.Values[0], 1e-9, "weights summing to 1 must anchor the index at 100")
	}
}

func TestBuildIndexPartialWeights(t *testing.T) {
	table := tableFrom(t, map[string][]float64{"A": {50, 55}})
	ix := BuildIndex(table, map[string]float64{"A": 0.6})

	require.Equal(t, 2, ix.Len())
	// Weights are not renormalized: first value is 100 x sum(weights).
	assert.InDelta(t, 60, ix.Values[0], 1e-9)
	assert.InDelta(t, 66, ix.Values[1], 1e-9)
}

func TestBuildIndexInsufficientRows(t *testing.T) {
	assert.Equal(t, 0, BuildIndex(AlignedTable{}, nil).Len())

	table := tableFrom(t, map[string][]float64{"A": {50}})
	assert.Equal(t, 0, BuildIndex(table, map[string]float64{"A": 1}).Len())
}
