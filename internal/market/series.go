// Package market defines the price-series data model and the providers
// that fetch daily closing prices for a ticker.
package market

import (
	"context"
	"fmt"
	"time"
)

// PriceSeries is a date-indexed series of daily closing prices.
// Dates are strictly increasing, date-only values (midnight UTC), and
// every close is positive. Dates and Closes always have equal length.
type PriceSeries struct {
	Dates  []time.Time `json:"dates"`
	Closes []float64   `json:"closes"`
}

// Provider fetches the daily closing-price series for a ticker over a
// date range. Implementations return an empty series (not an error) when
// the ticker simply has no data in the range; errors are reserved for
// transport-level failures.
type Provider interface {
	Fetch(ctx context.Context, ticker string, start, end time.Time) (PriceSeries, error)
}

// Date truncates t to a date-only value in UTC.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Len returns the number of observations.
func (s PriceSeries) Len() int { return len(s.Dates) }

// Empty reports whether the series has no observations.
func (s PriceSeries) Empty() bool { return len(s.Dates) == 0 }

// Append adds an observation, enforcing the series invariants:
// strictly increasing dates and positive closes.
func (s *PriceSeries) Append(date time.Time, close float64) error {
	if close <= 0 {
		return fmt.Errorf("non-positive close %f for %s", close, date.Format("2006-01-02"))
	}
	d := Date(date)
	if n := len(s.Dates); n > 0 && !s.Dates[n-1].Before(d) {
		return fmt.Errorf("out-of-order date %s (last %s)",
			d.Format("2006-01-02"), s.Dates[n-1].Format("2006-01-02"))
	}
	s.Dates = append(s.Dates, d)
	s.Closes = append(s.Closes, close)
	return nil
}

// Last returns the final observation. It panics on an empty series;
// callers must check Empty first.
func (s PriceSeries) Last() (time.Time, float64) {
	n := len(s.Dates)
	return s.Dates[n-1], s.Closes[n-1]
}
