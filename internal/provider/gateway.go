package provider

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	apperrors "options-dashboard/internal/errors"
	"options-dashboard/internal/logging"
	"options-dashboard/internal/metrics"
	"options-dashboard/internal/models"
	"options-dashboard/internal/validation"
)

// Gateway operation names used in logs and metrics.
const (
	OpListExpiries  = "list_expiries"
	OpFetchChain    = "fetch_chain"
	OpFetchSnapshot = "fetch_snapshot"
	OpFetchCloses   = "fetch_closes"
	OpFetchIntraday = "fetch_intraday"
)

// snapshotRange reaches back far enough to find the prior session across
// weekends and holidays.
const snapshotRange = "5d"

// GatewayConfig holds gateway tuning.
type GatewayConfig struct {
	// HistoryRange overrides the lookback used by FetchCloses when it covers
	// more sessions than requested.
	HistoryRange string
}

// Gateway validates input, calls the provider once per operation, and logs
// and meters every call. It never retries.
type Gateway struct {
	provider QuoteProvider
	cfg      GatewayConfig
	logger   zerolog.Logger
}

// NewGateway creates a gateway over a provider.
func NewGateway(p QuoteProvider, cfg GatewayConfig, logger zerolog.Logger) *Gateway {
	return &Gateway{
		provider: p,
		cfg:      cfg,
		logger:   logger.With().Str("component", "gateway").Str("provider", p.Name()).Logger(),
	}
}

// ProviderName returns the underlying provider's name.
func (g *Gateway) ProviderName() string {
	return g.provider.Name()
}

// ListExpiries returns the listed expiries in ascending order without duplicates.
func (g *Gateway) ListExpiries(ctx context.Context, ticker string) ([]time.Time, error) {
	ticker, err := validation.ValidateSymbol(ticker)
	if err != nil {
		return nil, err
	}

	var expiries []time.Time
	err = g.observe(ctx, OpListExpiries, ticker, func() error {
		var err error
		expiries, err = g.provider.ListExpiries(ctx, ticker)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sortExpiries(expiries), nil
}

// FetchChain returns the chain for a listed expiry. An expiry not returned by
// ListExpiries is a NotFoundError.
func (g *Gateway) FetchChain(ctx context.Context, ticker string, expiry time.Time) (*models.Chain, error) {
	ticker, err := validation.ValidateSymbol(ticker)
	if err != nil {
		return nil, err
	}

	expiries, err := g.ListExpiries(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if !listed(expiries, expiry) {
		return nil, apperrors.NewExpiryNotFound(ticker, models.FormatExpiry(expiry))
	}

	var chain *models.Chain
	err = g.observe(ctx, OpFetchChain, ticker, func() error {
		var err error
		chain, err = g.provider.FetchChain(ctx, ticker, expiry)
		return err
	})
	if err != nil {
		return nil, err
	}
	if chain == nil {
		return nil, apperrors.NewDataUnavailableError("chain", ticker, "provider returned no chain", nil)
	}
	return chain, nil
}

// FetchSnapshot returns the most recent daily bar and the prior session.
func (g *Gateway) FetchSnapshot(ctx context.Context, ticker string) (*models.StockSnapshot, error) {
	ticker, err := validation.ValidateSymbol(ticker)
	if err != nil {
		return nil, err
	}

	var bars []models.Candle
	err = g.observe(ctx, OpFetchSnapshot, ticker, func() error {
		var err error
		bars, err = g.provider.FetchHistory(ctx, ticker, HistoryRequest{Range: snapshotRange, Interval: IntervalDaily})
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, apperrors.NewDataUnavailableError("history", ticker, "no daily bars", nil)
	}

	last := bars[len(bars)-1]
	prev := last
	if len(bars) >= 2 {
		prev = bars[len(bars)-2]
	}
	return &models.StockSnapshot{
		Ticker:     ticker,
		AsOf:       last.Timestamp,
		Close:      last.Close,
		Volume:     last.Volume,
		PrevClose:  prev.Close,
		PrevVolume: prev.Volume,
	}, nil
}

// FetchCloses returns up to the last sessions daily closes, oldest first.
func (g *Gateway) FetchCloses(ctx context.Context, ticker string, sessions int) ([]float64, error) {
	ticker, err := validation.ValidateSymbol(ticker)
	if err != nil {
		return nil, err
	}
	if sessions < 1 {
		return nil, apperrors.NewValidationError("sessions", sessions, "must be positive")
	}

	rng := RangeFor(sessions)
	if h := g.cfg.HistoryRange; ValidRange(h) && rng != "max" {
		if n := RangeSessions(h); n < 0 || n > RangeSessions(rng) {
			rng = h
		}
	}

	var bars []models.Candle
	err = g.observe(ctx, OpFetchCloses, ticker, func() error {
		var err error
		bars, err = g.provider.FetchHistory(ctx, ticker, HistoryRequest{Range: rng, Interval: IntervalDaily})
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(bars) > sessions {
		bars = bars[len(bars)-sessions:]
	}
	return models.ClosePrices(bars), nil
}

// FetchIntraday returns intraday bars. No bars is an empty slice, not an error.
func (g *Gateway) FetchIntraday(ctx context.Context, ticker, interval, period string) ([]models.Candle, error) {
	ticker, err := validation.ValidateSymbol(ticker)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateInterval(interval); err != nil {
		return nil, err
	}
	if err := validation.ValidatePeriod(period); err != nil {
		return nil, err
	}

	var bars []models.Candle
	err = g.observe(ctx, OpFetchIntraday, ticker, func() error {
		var err error
		bars, err = g.provider.FetchHistory(ctx, ticker, HistoryRequest{Range: period, Interval: interval})
		return err
	})
	if err != nil {
		return nil, err
	}
	if bars == nil {
		bars = []models.Candle{}
	}
	return bars, nil
}

func (g *Gateway) observe(ctx context.Context, op, ticker string, call func() error) error {
	logger := logging.WithOperation(logging.WithSymbol(g.logger, ticker), op)
	if id := logging.RequestID(ctx); id != "" {
		logger = logger.With().Str("request_id", id).Logger()
	}

	start := time.Now()
	err := call()
	elapsed := time.Since(start)

	logging.LogAPICall(logger, "GET", op, elapsed, err)
	metrics.RecordProviderCall(g.provider.Name(), op, elapsed, err)
	return err
}

func sortExpiries(in []time.Time) []time.Time {
	out := make([]time.Time, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, e := range in {
		key := models.FormatExpiry(e)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func listed(expiries []time.Time, expiry time.Time) bool {
	want := models.FormatExpiry(expiry)
	for _, e := range expiries {
		if models.FormatExpiry(e) == want {
			return true
		}
	}
	return false
}
