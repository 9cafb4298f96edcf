package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	apperrors "options-dashboard/internal/errors"
	"options-dashboard/internal/models"
)

// Yahoo defaults.
const (
	DefaultYahooBaseURL   = "https://query2.finance.yahoo.com"
	DefaultYahooUserAgent = "Mozilla/5.0 (compatible; options-dashboard/1.0)"
	DefaultYahooTimeout   = 10 * time.Second

	maxBodyBytes = 10 * 1024 * 1024
)

// YahooConfig configures the Yahoo Finance client.
type YahooConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 disables limiting
	Burst     int
}

// YahooProvider reads expiries, chains and bars from the Yahoo Finance JSON API.
type YahooProvider struct {
	baseURL   string
	userAgent string
	client    *http.Client
	limiter   *rate.Limiter
}

// NewYahooProvider creates a Yahoo Finance provider.
func NewYahooProvider(cfg YahooConfig) *YahooProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultYahooBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultYahooUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultYahooTimeout
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &YahooProvider{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: cfg.Timeout},
		limiter:   limiter,
	}
}

// Name implements QuoteProvider.
func (y *YahooProvider) Name() string {
	return "yahoo"
}

type yahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type yahooContract struct {
	ContractSymbol    string  `json:"contractSymbol"`
	Strike            float64 `json:"strike"`
	Currency          string  `json:"currency"`
	LastPrice         float64 `json:"lastPrice"`
	Change            float64 `json:"change"`
	PercentChange     float64 `json:"percentChange"`
	Volume            *int64  `json:"volume"`
	OpenInterest      *int64  `json:"openInterest"`
	Bid               float64 `json:"bid"`
	Ask               float64 `json:"ask"`
	ContractSize      string  `json:"contractSize"`
	Expiration        int64   `json:"expiration"`
	LastTradeDate     int64   `json:"lastTradeDate"`
	ImpliedVolatility float64 `json:"impliedVolatility"`
	InTheMoney        bool    `json:"inTheMoney"`
}

type yahooOptionsResponse struct {
	OptionChain struct {
		Result []struct {
			UnderlyingSymbol string  `json:"underlyingSymbol"`
			ExpirationDates  []int64 `json:"expirationDates"`
			Options          []struct {
				ExpirationDate int64           `json:"expirationDate"`
				Calls          []yahooContract `json:"calls"`
				Puts           []yahooContract `json:"puts"`
			} `json:"options"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"optionChain"`
}

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Timestamps []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"chart"`
}

// ListExpiries implements QuoteProvider.
func (y *YahooProvider) ListExpiries(ctx context.Context, ticker string) ([]time.Time, error) {
	var resp yahooOptionsResponse
	if err := y.get(ctx, ticker, "expiries", "/v7/finance/options/"+url.PathEscape(ticker), nil, &resp); err != nil {
		return nil, err
	}
	if e := resp.OptionChain.Error; e != nil {
		return nil, y.upstreamError(ticker, "expiries", e)
	}
	if len(resp.OptionChain.Result) == 0 {
		return nil, apperrors.NewTickerNotFound(ticker)
	}

	dates := resp.OptionChain.Result[0].ExpirationDates
	out := make([]time.Time, 0, len(dates))
	for _, ts := range dates {
		out = append(out, expiryDate(ts))
	}
	return out, nil
}

// FetchChain implements QuoteProvider.
func (y *YahooProvider) FetchChain(ctx context.Context, ticker string, expiry time.Time) (*models.Chain, error) {
	q := url.Values{}
	q.Set("date", strconv.FormatInt(expiry.UTC().Unix(), 10))

	var resp yahooOptionsResponse
	if err := y.get(ctx, ticker, "chain", "/v7/finance/options/"+url.PathEscape(ticker), q, &resp); err != nil {
		return nil, err
	}
	if e := resp.OptionChain.Error; e != nil {
		return nil, y.upstreamError(ticker, "chain", e)
	}
	if len(resp.OptionChain.Result) == 0 {
		return nil, apperrors.NewTickerNotFound(ticker)
	}
	result := resp.OptionChain.Result[0]
	if len(result.Options) == 0 {
		return nil, apperrors.NewDataUnavailableError("chain", ticker, "no options for "+models.FormatExpiry(expiry), nil)
	}

	opts := result.Options[0]
	chain := &models.Chain{
		Ticker: ticker,
		Expiry: expiryDate(opts.ExpirationDate),
		Calls:  make([]models.Contract, 0, len(opts.Calls)),
		Puts:   make([]models.Contract, 0, len(opts.Puts)),
	}
	for _, c := range opts.Calls {
		chain.Calls = append(chain.Calls, c.toContract(models.OptionTypeCall))
	}
	for _, c := range opts.Puts {
		chain.Puts = append(chain.Puts, c.toContract(models.OptionTypePut))
	}
	return chain, nil
}

// FetchHistory implements QuoteProvider.
func (y *YahooProvider) FetchHistory(ctx context.Context, ticker string, req HistoryRequest) ([]models.Candle, error) {
	q := url.Values{}
	q.Set("range", req.Range)
	q.Set("interval", req.Interval)
	q.Set("includePrePost", "false")

	var resp yahooChartResponse
	if err := y.get(ctx, ticker, "history", "/v8/finance/chart/"+url.PathEscape(ticker), q, &resp); err != nil {
		return nil, err
	}
	if e := resp.Chart.Error; e != nil {
		return nil, y.upstreamError(ticker, "history", e)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, apperrors.NewTickerNotFound(ticker)
	}

	result := resp.Chart.Result[0]
	if len(result.Timestamps) == 0 || len(result.Indicators.Quote) == 0 {
		return []models.Candle{}, nil
	}
	quote := result.Indicators.Quote[0]
	if len(quote.Close) != len(result.Timestamps) {
		return nil, apperrors.NewDataUnavailableError("history", ticker, "timestamp and close series differ in length", nil)
	}

	candles := make([]models.Candle, 0, len(result.Timestamps))
	for i, ts := range result.Timestamps {
		if quote.Close[i] == nil {
			continue
		}
		closePrice := *quote.Close[i]
		candles = append(candles, models.Candle{
			Timestamp: time.Unix(ts, 0).UTC(),
			Open:      floatAt(quote.Open, i, closePrice),
			High:      floatAt(quote.High, i, closePrice),
			Low:       floatAt(quote.Low, i, closePrice),
			Close:     closePrice,
			Volume:    intAt(quote.Volume, i),
		})
	}
	return candles, nil
}

func (y *YahooProvider) get(ctx context.Context, ticker, dataType, path string, query url.Values, out interface{}) error {
	if err := y.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	endpoint := y.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", y.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := y.client.Do(req)
	if err != nil {
		return apperrors.NewDataUnavailableError(dataType, ticker, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return apperrors.NewDataUnavailableError(dataType, ticker, "failed to read response", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		// Yahoo still sends a JSON error body; decode it when possible so the
		// caller sees the upstream description.
		if json.Unmarshal(body, out) == nil {
			return nil
		}
		return apperrors.NewTickerNotFound(ticker)
	case resp.StatusCode != http.StatusOK:
		return apperrors.NewDataUnavailableError(dataType, ticker, fmt.Sprintf("HTTP %d", resp.StatusCode), nil)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.NewDataUnavailableError(dataType, ticker, "malformed response", err)
	}
	return nil
}

func (y *YahooProvider) upstreamError(ticker, dataType string, e *yahooError) error {
	if strings.EqualFold(e.Code, "Not Found") {
		return apperrors.NewTickerNotFound(ticker)
	}
	return apperrors.NewDataUnavailableError(dataType, ticker, e.Code+": "+e.Description, nil)
}

func (c yahooContract) toContract(typ models.OptionType) models.Contract {
	contract := models.Contract{
		ContractSymbol:    c.ContractSymbol,
		Type:              typ,
		Strike:            c.Strike,
		Expiry:            expiryDate(c.Expiration),
		LastPrice:         c.LastPrice,
		Bid:               c.Bid,
		Ask:               c.Ask,
		Change:            c.Change,
		PercentChange:     c.PercentChange,
		Volume:            c.Volume,
		OpenInterest:      c.OpenInterest,
		ImpliedVolatility: c.ImpliedVolatility,
		InTheMoney:        c.InTheMoney,
		ContractSize:      c.ContractSize,
		Currency:          c.Currency,
	}
	if c.LastTradeDate > 0 {
		contract.LastTradeDate = time.Unix(c.LastTradeDate, 0).UTC()
	}
	return contract
}

// expiryDate truncates a unix timestamp to its UTC calendar date.
func expiryDate(ts int64) time.Time {
	t := time.Unix(ts, 0).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func floatAt(values []*float64, i int, fallback float64) float64 {
	if i < len(values) && values[i] != nil {
		return *values[i]
	}
	return fallback
}

func intAt(values []*int64, i int) int64 {
	if i < len(values) && values[i] != nil {
		return *values[i]
	}
	return 0
}
