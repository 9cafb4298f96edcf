package provider

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	apperrors "options-dashboard/internal/errors"
	"options-dashboard/internal/models"
)

// MemoryProvider serves chains and bars from memory. It backs offline mode
// and tests.
type MemoryProvider struct {
	mu      sync.RWMutex
	tickers map[string]*memoryTicker
}

type memoryTicker struct {
	chains   map[string]*models.Chain
	daily    []models.Candle
	intraday map[string][]models.Candle // keyed by interval
}

// NewMemoryProvider creates an empty in-memory provider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{tickers: make(map[string]*memoryTicker)}
}

// Name implements QuoteProvider.
func (m *MemoryProvider) Name() string {
	return "memory"
}

func (m *MemoryProvider) entry(ticker string) *memoryTicker {
	t, ok := m.tickers[ticker]
	if !ok {
		t = &memoryTicker{
			chains:   make(map[string]*models.Chain),
			intraday: make(map[string][]models.Candle),
		}
		m.tickers[ticker] = t
	}
	return t
}

// AddChain registers a chain under its ticker and expiry.
func (m *MemoryProvider) AddChain(c *models.Chain) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entry(c.Ticker).chains[models.FormatExpiry(c.Expiry)] = c
}

// SetDaily replaces the daily bars for a ticker.
func (m *MemoryProvider) SetDaily(ticker string, bars []models.Candle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entry(ticker).daily = bars
}

// SetIntraday replaces the intraday bars for a ticker and interval.
func (m *MemoryProvider) SetIntraday(ticker, interval string, bars []models.Candle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entry(ticker).intraday[interval] = bars
}

// ListExpiries implements QuoteProvider.
func (m *MemoryProvider) ListExpiries(ctx context.Context, ticker string) ([]time.Time, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tickers[ticker]
	if !ok {
		return nil, apperrors.NewTickerNotFound(ticker)
	}
	out := make([]time.Time, 0, len(t.chains))
	for _, c := range t.chains {
		out = append(out, c.Expiry)
	}
	return out, nil
}

// FetchChain implements QuoteProvider. The returned chain is a copy.
func (m *MemoryProvider) FetchChain(ctx context.Context, ticker string, expiry time.Time) (*models.Chain, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tickers[ticker]
	if !ok {
		return nil, apperrors.NewTickerNotFound(ticker)
	}
	c, ok := t.chains[models.FormatExpiry(expiry)]
	if !ok {
		return nil, apperrors.NewExpiryNotFound(ticker, models.FormatExpiry(expiry))
	}
	return &models.Chain{
		Ticker: c.Ticker,
		Expiry: c.Expiry,
		Calls:  append([]models.Contract(nil), c.Calls...),
		Puts:   append([]models.Contract(nil), c.Puts...),
	}, nil
}

// FetchHistory implements QuoteProvider. Daily requests are trimmed to the
// sessions the range covers; intraday requests return the stored bars.
func (m *MemoryProvider) FetchHistory(ctx context.Context, ticker string, req HistoryRequest) ([]models.Candle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tickers[ticker]
	if !ok {
		return nil, apperrors.NewTickerNotFound(ticker)
	}

	if req.Interval != "" && req.Interval != IntervalDaily {
		return append([]models.Candle{}, t.intraday[req.Interval]...), nil
	}

	bars := t.daily
	if n := RangeSessions(req.Range); n > 0 && len(bars) > n {
		bars = bars[len(bars)-n:]
	}
	return append([]models.Candle{}, bars...), nil
}

// SampleAsOf is the last session of the built-in sample data.
var SampleAsOf = time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)

// NewSampleProvider returns a MemoryProvider seeded with deterministic
// sample data for AAPL and SPY.
func NewSampleProvider() *MemoryProvider {
	m := NewMemoryProvider()
	seedTicker(m, "AAPL", 212.5, 5, 260)
	seedTicker(m, "SPY", 542.0, 5, 260)
	return m
}

func seedTicker(m *MemoryProvider, ticker string, spot, step float64, sessions int) {
	expiries := []time.Time{
		time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 7, 19, 0, 0, 0, 0, time.UTC),
	}
	for i, exp := range expiries {
		m.AddChain(sampleChain(ticker, exp, spot, step, i))
	}
	m.SetDaily(ticker, sampleDaily(spot, sessions))
	m.SetIntraday(ticker, "5m", sampleIntraday(spot))
}

func sampleChain(ticker string, expiry time.Time, spot, step float64, seq int) *models.Chain {
	chain := &models.Chain{Ticker: ticker, Expiry: expiry}
	center := math.Round(spot/step) * step
	tradeDate := SampleAsOf.Add(15*time.Hour + 59*time.Minute)

	for k := -8; k <= 8; k++ {
		strike := center + float64(k)*step
		dist := math.Abs(float64(k))
		vol := int64(4000/(1+dist)) + int64(seq*37)
		oi := int64(12000/(1+dist/2)) + int64(seq*111)

		for _, typ := range []models.OptionType{models.OptionTypeCall, models.OptionTypePut} {
			intrinsic := math.Max(spot-strike, 0)
			letter := "C"
			if typ == models.OptionTypePut {
				intrinsic = math.Max(strike-spot, 0)
				letter = "P"
			}
			price := intrinsic + 2.5/(1+dist/3) + float64(seq)*0.75
			c := models.Contract{
				ContractSymbol:    fmt.Sprintf("%s%s%s%08d", ticker, expiry.Format("060102"), letter, int64(strike*1000)),
				Type:              typ,
				Strike:            strike,
				Expiry:            expiry,
				LastTradeDate:     tradeDate,
				LastPrice:         price,
				Bid:               price - 0.05,
				Ask:               price + 0.05,
				Change:            0.125 * float64(k%3),
				PercentChange:     1.2345 * float64(k%3),
				Volume:            models.Int64(vol),
				OpenInterest:      models.Int64(oi),
				ImpliedVolatility: 0.22 + 0.015*dist,
				InTheMoney:        intrinsic > 0,
				ContractSize:      "REGULAR",
				Currency:          "USD",
			}
			if typ == models.OptionTypePut {
				c.Volume = models.Int64(vol * 3 / 4)
			}
			// far wings report no open interest
			if dist == 8 {
				c.OpenInterest = nil
			}
			chain.Append(c)
		}
	}
	return chain
}

func sampleDaily(spot float64, sessions int) []models.Candle {
	bars := make([]models.Candle, 0, sessions)
	day := SampleAsOf
	dates := make([]time.Time, 0, sessions)
	for len(dates) < sessions {
		if wd := day.Weekday(); wd != time.Saturday && wd != time.Sunday {
			dates = append(dates, day)
		}
		day = day.AddDate(0, 0, -1)
	}
	for i := len(dates) - 1; i >= 0; i-- {
		n := float64(sessions - 1 - i)
		base := spot * (0.85 + 0.15*n/float64(sessions))
		closePrice := base + 3*math.Sin(n/7)
		bars = append(bars, models.Candle{
			Timestamp: dates[i],
			Open:      closePrice - 0.8*math.Cos(n/5),
			High:      closePrice + 1.5,
			Low:       closePrice - 1.5,
			Close:     closePrice,
			Volume:    50_000_000 + int64(8_000_000*math.Sin(n/3)),
		})
	}
	return bars
}

func sampleIntraday(spot float64) []models.Candle {
	open := SampleAsOf.Add(13*time.Hour + 30*time.Minute)
	bars := make([]models.Candle, 0, 78)
	for i := 0; i < 78; i++ {
		p := spot + 0.4*math.Sin(float64(i)/6)
		bars = append(bars, models.Candle{
			Timestamp: open.Add(time.Duration(i) * 5 * time.Minute),
			Open:      p - 0.05,
			High:      p + 0.1,
			Low:       p - 0.1,
			Close:     p,
			Volume:    200_000 + int64(i*1_000),
		})
	}
	return bars
}
