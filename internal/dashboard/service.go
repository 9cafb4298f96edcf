// Package dashboard assembles the chart-ready views served to the
// presentation layer from gateway data, the normalizer and the exposure
// synthesizer.
package dashboard

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"options-dashboard/internal/chain"
	"options-dashboard/internal/exposure"
	"options-dashboard/internal/indicators"
	"options-dashboard/internal/logging"
	"options-dashboard/internal/models"
	"options-dashboard/internal/palette"
	"options-dashboard/internal/validation"
)

// MarketData is the slice of the gateway the service depends on.
type MarketData interface {
	ListExpiries(ctx context.Context, ticker string) ([]time.Time, error)
	FetchChain(ctx context.Context, ticker string, expiry time.Time) (*models.Chain, error)
	FetchSnapshot(ctx context.Context, ticker string) (*models.StockSnapshot, error)
	FetchCloses(ctx context.Context, ticker string, sessions int) ([]float64, error)
}

// Config tunes the service.
type Config struct {
	TopN int
}

// Service builds dashboard views. It holds no per-request state.
type Service struct {
	data   MarketData
	synth  *exposure.Synthesizer
	topN   int
	logger zerolog.Logger
}

// NewService creates a Service. A nil greek provider falls back to random greeks.
func NewService(data MarketData, greeks exposure.GreekProvider, cfg Config, logger zerolog.Logger) *Service {
	topN := cfg.TopN
	if topN <= 0 {
		topN = chain.DefaultTopN
	}
	return &Service{
		data:   data,
		synth:  exposure.NewSynthesizer(greeks),
		topN:   topN,
		logger: logger.With().Str("component", "dashboard").Logger(),
	}
}

// Options builds the chain view for the first selected expiry. With no
// expiry selected it returns metrics and a prompt without fetching a chain.
func (s *Service) Options(ctx context.Context, req OptionsRequest) (*OptionsView, error) {
	ticker, err := validation.ValidateSymbol(req.Ticker)
	if err != nil {
		return nil, err
	}
	disc, err := palette.LookupDiscrete(req.Palette)
	if err != nil {
		return nil, err
	}
	scale, err := palette.LookupScale(req.Scale)
	if err != nil {
		return nil, err
	}

	snap, err := s.data.FetchSnapshot(ctx, ticker)
	if err != nil {
		return nil, err
	}
	view := &OptionsView{Metrics: MetricsOf(snap), Palette: disc, Scale: scale}

	if len(req.Expiries) == 0 {
		view.Prompt = EmptySelectionPrompt
		return view, nil
	}

	expiry := req.Expiries[0]
	c, err := s.data.FetchChain(ctx, ticker, expiry)
	if err != nil {
		return nil, err
	}

	label := models.FormatExpiry(expiry)
	view.Expiry = label
	view.Donut = donut(c, disc)
	view.Treemap = treemap(c, label, scale)
	view.OpenInterest = strikeSeries(c, "openInterest", "Open Interest by Strike", disc, func(ct models.Contract) *int64 { return ct.OpenInterest })
	view.Volume = strikeSeries(c, "volume", "Volume by Strike", disc, func(ct models.Contract) *int64 { return ct.Volume })

	top, err := chain.TopByVolume(c.Calls, c.Puts, s.topN)
	if err != nil {
		return nil, fmt.Errorf("failed to rank contracts: %w", err)
	}
	view.Top = top

	logger := logging.WithSymbol(s.logger, ticker)
	logger.Debug().
		Str("expiry", label).
		Int("contracts", c.Len()).
		Msg("Options view built")
	return view, nil
}

// Exposure builds exposure charts for every selected expiry. A failure for
// one expiry is recorded on that entry and does not affect the others.
func (s *Service) Exposure(ctx context.Context, req ExposureRequest) (*ExposureView, error) {
	ticker, err := validation.ValidateSymbol(req.Ticker)
	if err != nil {
		return nil, err
	}

	snap, err := s.data.FetchSnapshot(ctx, ticker)
	if err != nil {
		return nil, err
	}
	view := &ExposureView{Metrics: MetricsOf(snap), Expiries: []ExpiryExposure{}}

	if len(req.Expiries) == 0 {
		view.Prompt = EmptySelectionPrompt
		return view, nil
	}

	for _, expiry := range req.Expiries {
		entry := s.expiryExposure(ctx, ticker, expiry)
		if entry.Err != nil {
			logger := logging.WithExpiry(logging.WithSymbol(s.logger, ticker), entry.Expiry)
			logger.Warn().
				Err(entry.Err).
				Msg("Exposure failed for expiry")
		}
		view.Expiries = append(view.Expiries, entry)
	}
	return view, nil
}

func (s *Service) expiryExposure(ctx context.Context, ticker string, expiry time.Time) ExpiryExposure {
	label := models.FormatExpiry(expiry)
	entry := ExpiryExposure{Expiry: label}

	fail := func(err error) ExpiryExposure {
		return ExpiryExposure{Expiry: label, Error: err.Error(), Err: err}
	}

	c, err := s.data.FetchChain(ctx, ticker, expiry)
	if err != nil {
		return fail(err)
	}
	raw, err := s.synth.SynthesizeChain(c)
	if err != nil {
		return fail(err)
	}
	gex, err := exposure.GEXPoints(raw)
	if err != nil {
		return fail(err)
	}

	normalized := chain.Normalize(raw)
	bars := make([]*exposure.Bars, len(exposure.ExposureColumns))
	for i, col := range exposure.ExposureColumns {
		b, err := exposure.BarSeries(normalized, col)
		if err != nil {
			return fail(err)
		}
		b.Title = fmt.Sprintf("%s for %s Options Expiring on %s", b.Label, ticker, label)
		bars[i] = b
	}

	entry.Title = fmt.Sprintf("Exposure for %s Options Expiring on %s", ticker, label)
	entry.Table = normalized
	entry.Gamma, entry.Delta, entry.Vanna = bars[0], bars[1], bars[2]
	entry.GEX = gex
	return entry
}

// Indicators computes RSI and moving averages from recent daily closes.
func (s *Service) Indicators(ctx context.Context, ticker string) (*IndicatorsView, error) {
	ticker, err := validation.ValidateSymbol(ticker)
	if err != nil {
		return nil, err
	}

	closes, err := s.data.FetchCloses(ctx, ticker, indicators.Sessions)
	if err != nil {
		return nil, err
	}
	ind, err := indicators.Compute(closes)
	if err != nil {
		return nil, err
	}
	ind.Ticker = ticker

	return &IndicatorsView{Indicators: ind, LatestClose: closes[len(closes)-1]}, nil
}

func donut(c *models.Chain, disc palette.Discrete) *Donut {
	var calls, puts int64
	for _, ct := range c.Calls {
		calls += ct.VolumeOrZero()
	}
	for _, ct := range c.Puts {
		puts += ct.VolumeOrZero()
	}
	return &Donut{
		Title:  "Call vs Put Volume Ratio",
		Labels: []string{"Calls", "Puts"},
		Values: []int64{calls, puts},
		Colors: disc.Colors(),
	}
}

func treemap(c *models.Chain, expiry string, scale palette.Scale) []TreemapNode {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, side := range [][]models.Contract{c.Calls, c.Puts} {
		for _, ct := range side {
			if ct.OpenInterest != nil {
				v := float64(*ct.OpenInterest)
				lo, hi = math.Min(lo, v), math.Max(hi, v)
			}
		}
	}

	nodes := make([]TreemapNode, 0, c.Len())
	add := func(side []models.Contract, typ models.OptionType) {
		for _, ct := range side {
			node := TreemapNode{
				Path:         []string{string(typ), expiry, strconv.FormatFloat(ct.Strike, 'f', -1, 64)},
				Size:         ct.VolumeOrZero(),
				OpenInterest: ct.OpenInterest,
			}
			if ct.OpenInterest != nil {
				t := 0.0
				if hi > lo {
					t = (float64(*ct.OpenInterest) - lo) / (hi - lo)
				}
				node.Color = scale.At(t)
			}
			nodes = append(nodes, node)
		}
	}
	add(c.Calls, models.OptionTypeCall)
	add(c.Puts, models.OptionTypePut)
	return nodes
}

func strikeSeries(c *models.Chain, metric, title string, disc palette.Discrete, value func(models.Contract) *int64) *StrikeSeries {
	series := &StrikeSeries{
		Title:  title,
		Metric: metric,
		Calls:  make([]StrikePoint, 0, len(c.Calls)),
		Puts:   make([]StrikePoint, 0, len(c.Puts)),
		Colors: disc.Colors(),
	}
	for _, ct := range c.Calls {
		series.Calls = append(series.Calls, StrikePoint{Strike: ct.Strike, Value: value(ct)})
	}
	for _, ct := range c.Puts {
		series.Puts = append(series.Puts, StrikePoint{Strike: ct.Strike, Value: value(ct)})
	}
	return series
}
