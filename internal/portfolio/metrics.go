package portfolio

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// tradingDays is the annualization convention: 252 trading days per year.
const tradingDays = 252.0

// DailyReturns computes r[t] = index[t]/index[t-1] - 1 for t = 1..n-1.
// Returns nil when the index has fewer than 2 points; callers must guard
// before feeding dependent metrics.
func DailyReturns(ix Index) []float64 {
	if ix.Len() < 2 {
		return nil
	}
	out := make([]float64, ix.Len()-1)
	for t := 1; t < ix.Len(); t++ {
		out[t-1] = ix.Values[t]/ix.Values[t-1] - 1
	}
	return out
}

// TotalReturn is the percentage change of the index over the whole
// window. Returns 0 for fewer than 2 points.
func TotalReturn(ix Index) float64 {
	if ix.Len() < 2 {
		return 0
	}
	return (ix.Values[ix.Len()-1]/ix.Values[0] - 1) * 100
}

// AnnualizedReturn annualizes the mean daily return with the simple
// (non-compounding) 252-day convention, in percent. Returns 0 on empty
// input.
func AnnualizedReturn(dailyReturns []float64) float64 {
	if len(dailyReturns) == 0 {
		return 0
	}
	return stat.Mean(dailyReturns, nil) * tradingDays * 100
}

// WindowReturn is the simple price-ratio return over the window, the
// convention earlier revisions of the dashboard reported as the annual
// figure. Kept alongside AnnualizedReturn for compatibility; it equals
// TotalReturn of the index.
func WindowReturn(ix Index) float64 {
	return TotalReturn(ix)
}

// MaxDrawdown is the worst peak-to-trough percentage decline of the
// index, in percent. The running peak must precede the trough, so the
// result is always <= 0, and exactly 0 for a series that never dips
// below its running maximum or has fewer than 2 points.
func MaxDrawdown(ix Index) float64 {
	if ix.Len() < 2 {
		return 0
	}
	peak := ix.Values[0]
	mdd := 0.0
	for _, v := range ix.Values {
		if v > peak {
			peak = v
		}
		dd := (v - peak) / peak * 100
		if dd < mdd {
			mdd = dd
		}
	}
	return mdd
}

// SharpeRatio is the annualized excess return over riskFree divided by
// annualized volatility. Volatility uses the sample (n-1) standard
// deviation, scaled by sqrt(252). Returns the 0 sentinel when fewer than
// 2 daily returns are available or the series is flat, so a division by
// zero never propagates.
func SharpeRatio(dailyReturns []float64, riskFree float64) float64 {
	if len(dailyReturns) < 2 {
		return 0
	}
	annualRet := stat.Mean(dailyReturns, nil) * tradingDays
	annualStd := stat.StdDev(dailyReturns, nil) * math.Sqrt(tradingDays)
	if annualStd == 0 {
		return 0
	}
	return (annualRet - riskFree) / annualStd
}

// meanDailyPct and dailyVolPct back the dashboard's stats block.

func meanDailyPct(dailyReturns []float64) float64 {
	if len(dailyReturns) == 0 {
		return 0
	}
	return stat.Mean(dailyReturns, nil) * 100
}

func dailyVolPct(dailyReturns []float64) float64 {
	if len(dailyReturns) < 2 {
		return 0
	}
	return stat.StdDev(dailyReturns, nil) * 100
}
