package portfolio

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"portdash/internal/market"
)

// Options control the computation window and Sharpe inputs. The zero
// value is not usable; use DefaultOptions as a starting point.
type Options struct {
	StartDate    time.Time
	Location     *time.Location
	RiskFreeRate float64
	Now          func() time.Time // injectable clock, defaults to time.Now
}

// DefaultOptions mirrors the dashboard's fixed anchor: lookups start at
// 2024-12-09 and end "today" in Asia/Seoul.
func DefaultOptions() Options {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		loc = time.FixedZone("KST", 9*3600)
	}
	return Options{
		StartDate:    time.Date(2024, 12, 9, 0, 0, 0, 0, time.UTC),
		Location:     loc,
		RiskFreeRate: 0.02,
	}
}

// Service orchestrates the pipeline for named portfolio definitions:
// resolve config, fetch per-instrument series, align, build the index,
// and derive metrics. A Service is safe for concurrent use; each Compute
// call is a pure function of its config and the provider's responses.
type Service struct {
	provider   market.Provider
	portfolios map[string]Portfolio
	order      []string
	opts       Options
	log        zerolog.Logger
}

func NewService(provider market.Provider, portfolios []Portfolio, opts Options, log zerolog.Logger) *Service {
	byName := make(map[string]Portfolio, len(portfolios))
	order := make([]string, 0, len(portfolios))
	for _, p := range portfolios {
		byName[p.Name] = p
		order = append(order, p.Name)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		provider:   provider,
		portfolios: byName,
		order:      order,
		opts:       opts,
		log:        log.With().Str("component", "portfolio").Logger(),
	}
}

// List returns the portfolio definitions in configuration order.
func (s *Service) List() []Portfolio {
	out := make([]Portfolio, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.portfolios[name])
	}
	return out
}

// Lookup returns the definition for name, if configured.
func (s *Service) Lookup(name string) (Portfolio, bool) {
	p, ok := s.portfolios[name]
	return p, ok
}

// Compute runs the full pipeline for the named portfolio. Every
// data-availability failure (unknown name, provider failures, fewer than
// 2 aligned points) collapses to a nil result with a nil error; errors
// are reserved for programming faults.
func (s *Service) Compute(ctx context.Context, name string) (*PerformanceResult, error) {
	cfg, ok := s.portfolios[name]
	if !ok {
		s.log.Debug().Str("portfolio", name).Msg("unknown portfolio")
		return nil, nil
	}

	active := cfg.Active()
	if len(active) == 0 {
		s.log.Warn().Str("portfolio", name).Msg("no instruments with positive weight")
		return nil, nil
	}

	series, err := s.fetchAll(ctx, active)
	if err != nil {
		return nil, err
	}

	table := Align(series)
	if table.Empty() {
		s.log.Warn().Str("portfolio", name).Msg("no aligned price data")
		return nil, nil
	}

	weights := make(map[string]float64, len(active))
	for _, inst := range active {
		weights[inst.Name] = inst.Weight
	}
	index := BuildIndex(table, weights)
	if index.Len() < 2 {
		s.log.Warn().Str("portfolio", name).Int("points", index.Len()).Msg("insufficient history")
		return nil, nil
	}

	returns := DailyReturns(index)
	res := &PerformanceResult{
		Portfolio:       cfg.Name,
		TotalReturnPct:  TotalReturn(index),
		AnnualReturnPct: AnnualizedReturn(returns),
		WindowReturnPct: WindowReturn(index),
		MDDPct:          MaxDrawdown(index),
		SharpeRatio:     SharpeRatio(returns, s.opts.RiskFreeRate),
		TargetSharpe:    cfg.TargetSharpe,
		MeanDailyPct:    meanDailyPct(returns),
		DailyVolPct:     dailyVolPct(returns),
		Days:            index.Len(),
		Index:           index,
		DailyReturns:    returns,
		LastUpdated:     table.Dates[len(table.Dates)-1],
	}
	s.log.Info().
		Str("portfolio", name).
		Int("days", res.Days).
		Float64("total_return_pct", res.TotalReturnPct).
		Float64("sharpe", res.SharpeRatio).
		Msg("computed performance")
	return res, nil
}

// fetchAll fans the per-instrument fetches out as parallel tasks with
// per-task error isolation: a failed fetch becomes an empty series and
// never aborts its siblings.
func (s *Service) fetchAll(ctx context.Context, instruments []Instrument) (map[string]market.PriceSeries, error) {
	start := market.Date(s.opts.StartDate)
	end := market.Date(s.opts.Now().In(s.opts.Location))

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		series = make(map[string]market.PriceSeries, len(instruments))
	)
	for _, inst := range instruments {
		wg.Add(1)
		go func(inst Instrument) {
			defer wg.Done()
			ps, err := s.provider.Fetch(ctx, inst.Ticker, start, end)
			if err != nil {
				s.log.Warn().Err(err).
					Str("instrument", inst.Name).
					Str("ticker", inst.Ticker).
					Msg("fetch failed")
				ps = market.PriceSeries{}
			}
			mu.Lock()
			series[inst.Name] = ps
			mu.Unlock()
		}(inst)
	}
	wg.Wait()
	return series, nil
}

// Correlations computes the pairwise correlation matrix of instrument
// daily returns over the aligned window. Follows the same failure
// semantics as Compute: nil result when data is insufficient. At least 3
// aligned dates are required for a meaningful correlation.
func (s *Service) Correlations(ctx context.Context, name string) (*CorrelationMatrix, error) {
	cfg, ok := s.portfolios[name]
	if !ok {
		return nil, nil
	}
	active := cfg.Active()
	if len(active) == 0 {
		return nil, nil
	}

	series, err := s.fetchAll(ctx, active)
	if err != nil {
		return nil, err
	}
	table := Align(series)
	if len(table.Dates) < 3 {
		s.log.Warn().Str("portfolio", name).Msg("insufficient data for correlations")
		return nil, nil
	}

	names := make([]string, len(table.Names))
	copy(names, table.Names)
	sort.Strings(names)
	return &CorrelationMatrix{
		Portfolio: cfg.Name,
		Names:     names,
		Matrix:    correlate(table, names),
	}, nil
}
