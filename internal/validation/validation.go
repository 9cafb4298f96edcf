// Package validation normalizes and validates user-supplied tickers, expiry
// dates and intraday parameters.
package validation

import (
	"regexp"
	"strings"
	"time"

	apperrors "options-dashboard/internal/errors"
	"options-dashboard/internal/models"
)

// Validation patterns
var (
	// Yahoo-style symbols: letters, digits, class suffixes (BRK-B, RDS.A) and index carets (^SPX)
	symbolPattern = regexp.MustCompile(`^\^?[A-Z0-9][A-Z0-9.=-]{0,11}$`)

	// Injection characters never valid in a ticker
	injectionPattern = regexp.MustCompile(`[;&|$\x60'"<>/\\]`)
)

// Intraday intervals and periods accepted by FetchIntraday.
var (
	Intervals = []string{"1m", "2m", "5m", "15m", "30m", "60m", "90m", "1h"}
	Periods   = []string{"1d", "5d", "1mo"}
)

// NormalizeSymbol trims and upper-cases a ticker.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// ValidateSymbol normalizes a ticker and checks its format.
func ValidateSymbol(symbol string) (string, error) {
	symbol = NormalizeSymbol(symbol)

	if symbol == "" {
		return "", apperrors.NewValidationError("ticker", symbol, "ticker cannot be empty")
	}
	if len(symbol) > 12 {
		return "", apperrors.NewValidationError("ticker", symbol, "ticker too long (max 12 characters)")
	}
	if injectionPattern.MatchString(symbol) {
		return "", apperrors.NewValidationError("ticker", symbol, "invalid characters detected")
	}
	if !symbolPattern.MatchString(symbol) {
		return "", apperrors.NewValidationError("ticker", symbol, "invalid ticker format")
	}
	return symbol, nil
}

// ParseExpiry parses a YYYY-MM-DD expiry date.
func ParseExpiry(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, apperrors.NewValidationError("expiry", s, "expiry cannot be empty")
	}
	t, err := models.ParseExpiry(s)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError("expiry", s, "expected YYYY-MM-DD")
	}
	return t, nil
}

// ParseExpiries parses a comma separated expiry selection. Blank entries are
// ignored, so an empty string yields an empty selection.
func ParseExpiries(s string) ([]time.Time, error) {
	out := []time.Time{}
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		t, err := ParseExpiry(part)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// ValidateInterval checks an intraday bar interval.
func ValidateInterval(interval string) error {
	if !contains(Intervals, interval) {
		return apperrors.NewValidationError("interval", interval, "unsupported interval")
	}
	return nil
}

// ValidatePeriod checks an intraday lookback period.
func ValidatePeriod(period string) error {
	if !contains(Periods, period) {
		return apperrors.NewValidationError("period", period, "unsupported period")
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
