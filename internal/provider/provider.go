// Package provider defines the quote provider capability and the gateway
// that fronts it for the rest of the application.
package provider

import (
	"context"
	"time"

	"options-dashboard/internal/models"
)

// QuoteProvider is the upstream market data capability.
type QuoteProvider interface {
	// Name identifies the provider in logs and metrics.
	Name() string

	// ListExpiries returns the listed option expiries for a ticker.
	ListExpiries(ctx context.Context, ticker string) ([]time.Time, error)

	// FetchChain returns the calls and puts for one expiry.
	FetchChain(ctx context.Context, ticker string, expiry time.Time) (*models.Chain, error)

	// FetchHistory returns bars oldest first. An existing ticker with no bars
	// yields an empty slice.
	FetchHistory(ctx context.Context, ticker string, req HistoryRequest) ([]models.Candle, error)
}

// HistoryRequest selects a lookback range and bar interval, using the
// upstream vocabulary (range "5d", "1y"; interval "1d", "5m").
type HistoryRequest struct {
	Range    string
	Interval string
}

// Daily bar interval.
const IntervalDaily = "1d"

// Lookback ranges in ascending order with their approximate session counts.
var ranges = []struct {
	name     string
	sessions int
}{
	{"1d", 1},
	{"5d", 5},
	{"1mo", 21},
	{"3mo", 63},
	{"6mo", 126},
	{"1y", 252},
	{"2y", 504},
	{"5y", 1260},
	{"10y", 2520},
}

// RangeSessions returns the number of daily sessions a range covers, or -1
// for "max" and unknown ranges.
func RangeSessions(r string) int {
	for _, rg := range ranges {
		if rg.name == r {
			return rg.sessions
		}
	}
	return -1
}

// RangeFor returns the smallest range covering the given number of sessions.
func RangeFor(sessions int) string {
	for _, rg := range ranges {
		if rg.sessions >= sessions {
			return rg.name
		}
	}
	return "max"
}

// ValidRange reports whether r is a known lookback range.
func ValidRange(r string) bool {
	return r == "max" || RangeSessions(r) > 0
}
