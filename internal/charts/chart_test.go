package charts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portdash/internal/portfolio"
)

func sampleResult() *portfolio.PerformanceResult {
	base := time.Date(2024, 12, 9, 0, 0, 0, 0, time.UTC)
	ix := portfolio.Index{}
	for i, v := range []float64{100, 102.5, 105.625, 103, 108} {
		ix.Dates = append(ix.Dates, base.AddDate(0, 0, i))
		ix.Values = append(ix.Values, v)
	}
	return &portfolio.PerformanceResult{
		Portfolio:      "Balanced",
		TotalReturnPct: 8,
		SharpeRatio:    1.1,
		TargetSharpe:   1.5,
		MDDPct:         -2.48,
		Days:           ix.Len(),
		Index:          ix,
		LastUpdated:    ix.Dates[ix.Len()-1],
	}
}

func TestRenderProducesPNG(t *testing.T) {
	r := NewRenderer()
	img, err := r.Render(sampleResult())
	require.NoError(t, err)
	require.NotEmpty(t, img)

	// PNG magic bytes.
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, img[:4])
}

func TestRenderCachesByRecency(t *testing.T) {
	r := NewRenderer()
	res := sampleResult()

	first, err := r.Render(res)
	require.NoError(t, err)
	second, err := r.Render(res)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRenderRejectsEmptyResult(t *testing.T) {
	r := NewRenderer()
	_, err := r.Render(nil)
	assert.Error(t, err)

	_, err = r.Render(&portfolio.PerformanceResult{})
	assert.Error(t, err)
}
