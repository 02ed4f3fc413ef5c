package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// chartResp mirrors the Yahoo v8 chart response (trimmed to needed fields).
type chartResp struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Timezone  string `json:"timezone"`
				GmtOffset int    `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"chart"`
}

var defaultHosts = []string{"query1.finance.yahoo.com", "query2.finance.yahoo.com"}

// YahooProvider fetches daily close prices from the Yahoo chart API.
// It rotates across query hosts and retries with backoff before giving up.
type YahooProvider struct {
	client *http.Client
	hosts  []string
	log    zerolog.Logger
}

// NewYahooProvider creates a provider with the default hosts.
func NewYahooProvider(log zerolog.Logger) *YahooProvider {
	return &YahooProvider{
		client: &http.Client{Timeout: 15 * time.Second},
		hosts:  defaultHosts,
		log:    log.With().Str("component", "yahoo").Logger(),
	}
}

// Fetch retrieves the daily closing-price series for ticker in [start, end].
func (p *YahooProvider) Fetch(ctx context.Context, ticker string, start, end time.Time) (PriceSeries, error) {
	backoffs := []time.Duration{200 * time.Millisecond, 500 * time.Millisecond, 1 * time.Second}

	// end is inclusive: extend period2 by a day so the final session is covered.
	period1 := Date(start).Unix()
	period2 := Date(end).AddDate(0, 0, 1).Unix()

	var yc chartResp
	var lastErr error
	for attempt := 0; attempt < len(backoffs)+1; attempt++ {
		for _, host := range p.hosts {
			url := fmt.Sprintf("https://%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d&events=div,splits",
				host, ticker, period1, period2)
			body, err := p.get(ctx, url, ticker)
			if err != nil {
				lastErr = err
				continue
			}
			if err := json.Unmarshal(body, &yc); err != nil {
				lastErr = fmt.Errorf("failed to parse chart json for %s: %w", ticker, err)
				continue
			}
			lastErr = nil
			break
		}
		if lastErr == nil {
			break
		}
		if attempt < len(backoffs) {
			select {
			case <-ctx.Done():
				return PriceSeries{}, ctx.Err()
			case <-time.After(backoffs[attempt]):
			}
		}
	}
	if lastErr != nil {
		return PriceSeries{}, lastErr
	}

	if len(yc.Chart.Result) == 0 || len(yc.Chart.Result[0].Indicators.Quote) == 0 {
		// Ticker resolved but carries no bars in the window.
		return PriceSeries{}, nil
	}
	res := yc.Chart.Result[0]
	loc := time.FixedZone(res.Meta.Timezone, res.Meta.GmtOffset)
	s := toDailySeries(res.Timestamp, res.Indicators.Quote[0].Close, loc)
	p.log.Debug().Str("ticker", ticker).Int("bars", s.Len()).Msg("fetched")
	return s, nil
}

func (p *YahooProvider) get(ctx context.Context, url, ticker string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15")
	req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", fmt.Sprintf("https://finance.yahoo.com/quote/%s/chart", strings.ToUpper(ticker)))

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read chart response: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests || strings.HasPrefix(string(body), "Edge: Too Many Requests") {
		return nil, fmt.Errorf("chart api returned 429 for %s", ticker)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart api returned %d for %s: %s", resp.StatusCode, ticker, preview(body))
	}
	if strings.HasPrefix(string(body), "<") || strings.HasPrefix(string(body), "Edge:") {
		return nil, fmt.Errorf("chart api returned non-json body for %s: %s", ticker, preview(body))
	}
	return body, nil
}

func preview(body []byte) string {
	s := string(body)
	if len(s) > 120 {
		s = s[:120]
	}
	return s
}

// toDailySeries converts raw bars into a clean daily series: timestamps
// collapse to their exchange-local date, non-positive closes are skipped,
// and the last close seen for a date wins.
func toDailySeries(ts []int64, closes []float64, loc *time.Location) PriceSeries {
	n := len(ts)
	if len(closes) < n {
		n = len(closes)
	}
	var s PriceSeries
	for i := 0; i < n; i++ {
		if closes[i] <= 0 {
			continue
		}
		d := Date(time.Unix(ts[i], 0).In(loc))
		if k := s.Len(); k > 0 && s.Dates[k-1].Equal(d) {
			s.Closes[k-1] = closes[i]
			continue
		}
		// Out-of-order bars are rare but possible around DST; drop them.
		_ = s.Append(d, closes[i])
	}
	return s
}
