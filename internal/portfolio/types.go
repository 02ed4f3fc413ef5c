// Package portfolio implements the performance computation pipeline:
// aligning per-instrument price series, building the weighted portfolio
// index, and deriving return-based risk metrics from it.
package portfolio

import (
	"time"
)

// Instrument is one ETF position inside a portfolio definition.
type Instrument struct {
	Name        string  `json:"name"`
	Ticker      string  `json:"ticker"`
	Weight      float64 `json:"weight"`
	Description string  `json:"description,omitempty"`
}

// Portfolio is an immutable, already-parsed portfolio definition.
// Instruments are ordered by name; weights need not sum to exactly 1.
type Portfolio struct {
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	TargetSharpe float64      `json:"target_sharpe"`
	Instruments  []Instrument `json:"instruments"`
}

// Active returns the instruments that participate in computation
// (weight > 0). Zero-weight instruments are excluded entirely.
func (p Portfolio) Active() []Instrument {
	var out []Instrument
	for _, inst := range p.Instruments {
		if inst.Weight > 0 {
			out = append(out, inst)
		}
	}
	return out
}

// AlignedTable is a date-aligned price table covering only dates where,
// after forward-fill, every instrument has a known price. Every column
// has exactly len(Dates) values.
type AlignedTable struct {
	Dates   []time.Time
	Names   []string
	Columns map[string][]float64
}

// Empty reports whether no aligned dates remain.
func (t AlignedTable) Empty() bool { return len(t.Dates) == 0 }

// Index is the weighted portfolio index series. The first value equals
// the normalization base (100) times the sum of weights. Derived,
// recomputed on every request, never persisted.
type Index struct {
	Dates  []time.Time `json:"dates"`
	Values []float64   `json:"values"`
}

// Len returns the number of index points.
func (ix Index) Len() int { return len(ix.Values) }

// PerformanceResult is the immutable outcome of one computation request.
type PerformanceResult struct {
	Portfolio       string    `json:"portfolio"`
	TotalReturnPct  float64   `json:"total_return_pct"`
	AnnualReturnPct float64   `json:"annual_return_pct"`
	WindowReturnPct float64   `json:"window_return_pct"`
	MDDPct          float64   `json:"mdd_pct"`
	SharpeRatio     float64   `json:"sharpe_ratio"`
	TargetSharpe    float64   `json:"target_sharpe"`
	MeanDailyPct    float64   `json:"mean_daily_return_pct"`
	DailyVolPct     float64   `json:"daily_volatility_pct"`
	Days            int       `json:"days"`
	Index           Index     `json:"index"`
	DailyReturns    []float64 `json:"daily_returns"`
	LastUpdated     time.Time `json:"last_updated"`
}

// CorrelationMatrix holds pairwise correlations of instrument daily
// returns over the aligned window.
type CorrelationMatrix struct {
	Portfolio string      `json:"portfolio"`
	Names     []string    `json:"names"`
	Matrix    [][]float64 `json:"matrix"`
}
