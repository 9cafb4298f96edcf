package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelMatching(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"ticker not found", NewTickerNotFound("ZZZZ"), ErrNotFound},
		{"expiry not found", NewExpiryNotFound("AAPL", "2031-01-17"), ErrNotFound},
		{"data unavailable", NewDataUnavailableError("chain", "AAPL", "empty result", nil), ErrDataUnavailable},
		{"insufficient history", NewInsufficientHistoryError("MA_200", 200, 150), ErrInsufficientHistory},
		{"validation", NewValidationError("ticker", "", "cannot be empty"), ErrInvalidInput},
		{"schema", &SchemaError{Left: []string{"a"}, Right: []string{"b"}}, ErrSchemaMismatch},
	}

	sentinels := []error{ErrNotFound, ErrDataUnavailable, ErrInsufficientHistory, ErrInvalidInput, ErrSchemaMismatch}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.target))
			assert.True(t, Is(Wrap(tt.err, "outer"), tt.target), "matches through wrapping")
			for _, s := range sentinels {
				if s != tt.target {
					assert.False(t, errors.Is(tt.err, s), "must not match %v", s)
				}
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "ticker not found: ZZZZ", NewTickerNotFound("ZZZZ").Error())
	assert.Equal(t, "expiry not found: AAPL 2031-01-17", NewExpiryNotFound("AAPL", "2031-01-17").Error())
	assert.Equal(t, "insufficient history for RSI_14: need 15 sessions, have 3",
		NewInsufficientHistoryError("RSI_14", 15, 3).Error())
	assert.Contains(t, NewValidationError("palette", "Neon", "unknown palette").Error(), "palette (Neon)")
}

func TestDataUnavailableUnwraps(t *testing.T) {
	err := NewDataUnavailableError("history", "AAPL", "request failed", context.DeadlineExceeded)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, err, ErrDataUnavailable)
	assert.Contains(t, err.Error(), "[history] AAPL")
}

func TestAs(t *testing.T) {
	err := fmt.Errorf("fetching: %w", NewInsufficientHistoryError("MA_50", 50, 10))

	var hist *InsufficientHistoryError
	assert.True(t, As(err, &hist))
	assert.Equal(t, 50, hist.Required)
	assert.Equal(t, 10, hist.Available)
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "context"))
	assert.NoError(t, Wrapf(nil, "context %d", 1))
	assert.EqualError(t, Wrapf(ErrNotFound, "looking up %s", "AAPL"), "looking up AAPL: not found")
}
