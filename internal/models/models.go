// Package models provides domain models for the options dashboard.
package models

import (
	"time"
)

// Candle represents OHLCV data for a time period.
type Candle struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

// ClosePrices extracts close prices from candles, oldest first.
func ClosePrices(candles []Candle) []float64 {
	prices := make([]float64, len(candles))
	for i, c := range candles {
		prices[i] = c.Close
	}
	return prices
}

// Direction is the arrow shown next to a changed metric.
type Direction string

const (
	DirectionUp   Direction = "↑"
	DirectionDown Direction = "↓"
	DirectionFlat Direction = "→"
)

// DirectionOf returns the arrow for a signed change.
func DirectionOf(change float64) Direction {
	switch {
	case change > 0:
		return DirectionUp
	case change < 0:
		return DirectionDown
	default:
		return DirectionFlat
	}
}

// StockSnapshot is the latest daily bar for a ticker plus the prior session's
// values. When only one bar exists the prior fields equal the current ones.
type StockSnapshot struct {
	Ticker     string    `json:"ticker"`
	AsOf       time.Time `json:"as_of"`
	Close      float64   `json:"close"`
	Volume     int64     `json:"volume"`
	PrevClose  float64   `json:"prev_close"`
	PrevVolume int64     `json:"prev_volume"`
}

// PriceChange returns close minus the prior close.
func (s StockSnapshot) PriceChange() float64 {
	return s.Close - s.PrevClose
}

// VolumeChange returns volume minus the prior volume.
func (s StockSnapshot) VolumeChange() int64 {
	return s.Volume - s.PrevVolume
}

// PriceDirection returns the arrow for the price change.
func (s StockSnapshot) PriceDirection() Direction {
	return DirectionOf(s.PriceChange())
}

// VolumeDirection returns the arrow for the volume change.
func (s StockSnapshot) VolumeDirection() Direction {
	return DirectionOf(float64(s.VolumeChange()))
}

// DeltaStatusUnimplemented marks the delta signal as not derived.
const DeltaStatusUnimplemented = "unimplemented"

// Indicators holds technical indicators evaluated at the most recent session.
// A nil value means the series was too short for that window.
type Indicators struct {
	Ticker      string   `json:"ticker,omitempty"`
	Sessions    int      `json:"sessions"`
	RSI         *float64 `json:"rsi"`
	MA50        *float64 `json:"ma50"`
	MA200       *float64 `json:"ma200"`
	DeltaStatus string   `json:"delta_status"`
}
