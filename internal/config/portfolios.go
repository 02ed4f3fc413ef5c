package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"portdash/internal/portfolio"
)

// portfolioDoc mirrors the on-disk portfolio document:
//
//	{"portfolios": {"ISA Core": {
//	    "target_sharpe": 1.2,
//	    "description": "...",
//	    "etfs": {"KODEX 200": {"ticker": "069500.KS", "weight": 0.4}}}}}
type portfolioDoc struct {
	Portfolios map[string]portfolioEntry `json:"portfolios"`
}

type portfolioEntry struct {
	TargetSharpe float64             `json:"target_sharpe"`
	Description  string              `json:"description"`
	ETFs         map[string]etfEntry `json:"etfs"`
}

type etfEntry struct {
	Ticker      string  `json:"ticker"`
	Weight      float64 `json:"weight"`
	Description string  `json:"description"`
}

// LoadPortfolios reads and parses the portfolio document at path.
func LoadPortfolios(path string) ([]portfolio.Portfolio, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read portfolio config: %w", err)
	}
	return ParsePortfolios(data)
}

// ParsePortfolios parses and validates a portfolio document. A malformed
// document is a structural error and fails loudly; it is the one failure
// mode the pipeline does not absorb into an empty result.
func ParsePortfolios(data []byte) ([]portfolio.Portfolio, error) {
	var doc portfolioDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse portfolio config: %w", err)
	}
	if len(doc.Portfolios) == 0 {
		return nil, fmt.Errorf("portfolio config defines no portfolios")
	}

	names := make([]string, 0, len(doc.Portfolios))
	for name := range doc.Portfolios {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]portfolio.Portfolio, 0, len(names))
	for _, name := range names {
		entry := doc.Portfolios[name]
		p := portfolio.Portfolio{
			Name:         name,
			Description:  entry.Description,
			TargetSharpe: entry.TargetSharpe,
		}

		etfNames := make([]string, 0, len(entry.ETFs))
		for etfName := range entry.ETFs {
			etfNames = append(etfNames, etfName)
		}
		sort.Strings(etfNames)

		for _, etfName := range etfNames {
			etf := entry.ETFs[etfName]
			if etf.Weight < 0 || etf.Weight > 1 {
				return nil, fmt.Errorf("portfolio %q: instrument %q has weight %f outside [0, 1]",
					name, etfName, etf.Weight)
			}
			if etf.Weight > 0 && etf.Ticker == "" {
				return nil, fmt.Errorf("portfolio %q: instrument %q has no ticker", name, etfName)
			}
			p.Instruments = append(p.Instruments, portfolio.Instrument{
				Name:        etfName,
				Ticker:      etf.Ticker,
				Weight:      etf.Weight,
				Description: etf.Description,
			})
		}
		out = append(out, p)
	}
	return out, nil
}
