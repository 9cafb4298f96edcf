// Package indicators computes RSI and simple moving averages from daily closes.
package indicators

import (
	"errors"
	"fmt"
	"math"

	"github.com/markcheno/go-talib"

	apperrors "options-dashboard/internal/errors"
	"options-dashboard/internal/models"
)

// ErrUndefinedRSI is returned when no close ever moved, so average gain and
// average loss are both zero.
var ErrUndefinedRSI = errors.New("RSI undefined for a flat series")

// Standard windows.
const (
	RSIPeriod   = 14
	ShortWindow = 50
	LongWindow  = 200
)

// Sessions is the number of daily closes needed for every window.
const Sessions = LongWindow

// RSI returns the Wilder relative strength index at the last close.
func RSI(closes []float64, period int) (float64, error) {
	if period < 2 {
		return 0, apperrors.NewValidationError("period", period, "must be at least 2")
	}
	if len(closes) < period+1 {
		return 0, apperrors.NewInsufficientHistoryError(fmt.Sprintf("RSI_%d", period), period+1, len(closes))
	}
	if flat(closes) {
		return 0, ErrUndefinedRSI
	}
	out := talib.Rsi(closes, period)
	v := out[len(out)-1]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrUndefinedRSI
	}
	return v, nil
}

// SMA returns the simple mean of the trailing window closes.
func SMA(closes []float64, window int) (float64, error) {
	if window < 1 {
		return 0, apperrors.NewValidationError("window", window, "must be positive")
	}
	if len(closes) < window {
		return 0, apperrors.NewInsufficientHistoryError(fmt.Sprintf("SMA_%d", window), window, len(closes))
	}
	if window == 1 {
		return closes[len(closes)-1], nil
	}
	out := talib.Sma(closes, window)
	return finite(out[len(out)-1]), nil
}

// Compute evaluates RSI(14), MA50 and MA200 at the most recent session.
// Windows the series cannot cover are left nil.
func Compute(closes []float64) (models.Indicators, error) {
	if len(closes) == 0 {
		return models.Indicators{}, apperrors.NewDataUnavailableError("history", "", "no closing prices", nil)
	}

	ind := models.Indicators{
		Sessions:    len(closes),
		DeltaStatus: models.DeltaStatusUnimplemented,
	}
	if v, err := RSI(closes, RSIPeriod); err == nil {
		ind.RSI = &v
	}
	if v, err := SMA(closes, ShortWindow); err == nil {
		ind.MA50 = &v
	}
	if v, err := SMA(closes, LongWindow); err == nil {
		ind.MA200 = &v
	}
	return ind, nil
}

func flat(closes []float64) bool {
	for _, c := range closes[1:] {
		if c != closes[0] {
			return false
		}
	}
	return true
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
