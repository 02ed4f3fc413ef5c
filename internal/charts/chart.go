// Package charts renders the cumulative-return chart for a computed
// portfolio performance result.
package charts

import (
	"fmt"
	"time"

	"github.com/vicanso/go-charts/v2"

	"portdash/internal/portfolio"
)

const defaultTTL = 60 * time.Second

// Renderer turns a PerformanceResult into a PNG line chart of cumulative
// return since the window start, with the headline metrics as subtitle.
type Renderer struct {
	cache *imageCache
}

func NewRenderer() *Renderer {
	return &Renderer{cache: newImageCache(defaultTTL)}
}

// Render produces the cumulative-return PNG for res.
func (r *Renderer) Render(res *portfolio.PerformanceResult) ([]byte, error) {
	if res == nil || res.Index.Len() < 2 {
		return nil, fmt.Errorf("no index data to chart")
	}

	key := fmt.Sprintf("%s-%s-%d", res.Portfolio, res.LastUpdated.Format("2006-01-02"), res.Days)
	if img, ok := r.cache.get(key); ok {
		return img, nil
	}

	// Cumulative return in percent, anchored at the first index value.
	base := res.Index.Values[0]
	values := make([]float64, res.Index.Len())
	xLabels := make([]string, res.Index.Len())
	for i, v := range res.Index.Values {
		values[i] = (v/base - 1) * 100
		if res.Index.Len() <= 60 {
			xLabels[i] = res.Index.Dates[i].Format("Jan 02")
		} else {
			xLabels[i] = res.Index.Dates[i].Format("Jan '06")
		}
	}

	minVal, maxVal := values[0], values[0]
	for _, v := range values {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	padding := (maxVal - minVal) * 0.05
	if padding == 0 {
		padding = 1
	}
	yMin := minVal - padding
	yMax := maxVal + padding

	splitNum := 6
	if len(xLabels) <= 30 {
		splitNum = len(xLabels) / 3
		if splitNum < 3 {
			splitNum = 3
		}
	}

	title := fmt.Sprintf("%s Cumulative Return", res.Portfolio)
	subtitle := fmt.Sprintf("Return: %.2f%% | Sharpe: %.2f (target %.2f) | MDD: %.2f%%",
		res.TotalReturnPct, res.SharpeRatio, res.TargetSharpe, res.MDDPct)

	p, err := charts.LineRender(
		[][]float64{values},
		charts.TitleTextOptionFunc(title+"\n"+subtitle),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        xLabels,
			SplitNumber: splitNum,
			BoundaryGap: charts.FalseFlag(),
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{
			Min:         &yMin,
			Max:         &yMax,
			DivideCount: 5,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart bytes: %w", err)
	}

	r.cache.set(key, buf)
	return buf, nil
}
