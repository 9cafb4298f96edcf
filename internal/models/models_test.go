package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotChanges(t *testing.T) {
	s := StockSnapshot{Ticker: "AAPL", Close: 212.5, PrevClose: 210, Volume: 40_000_000, PrevVolume: 52_000_000}

	assert.InDelta(t, 2.5, s.PriceChange(), 1e-9)
	assert.Equal(t, int64(-12_000_000), s.VolumeChange())
	assert.Equal(t, DirectionUp, s.PriceDirection())
	assert.Equal(t, DirectionDown, s.VolumeDirection())

	flat := StockSnapshot{Close: 100, PrevClose: 100, Volume: 5, PrevVolume: 5}
	assert.Equal(t, DirectionFlat, flat.PriceDirection())
	assert.Equal(t, DirectionFlat, flat.VolumeDirection())
}

func TestChainAppend(t *testing.T) {
	c := &Chain{Ticker: "AAPL"}
	c.Append(Contract{Type: OptionTypeCall, Strike: 100})
	c.Append(Contract{Type: OptionTypePut, Strike: 100})
	c.Append(Contract{Type: OptionTypeCall, Strike: 105})

	assert.Len(t, c.Calls, 2)
	assert.Len(t, c.Puts, 1)
	assert.Equal(t, 3, c.Len())
	for _, ct := range c.Calls {
		assert.Equal(t, OptionTypeCall, ct.Type)
	}
}

func TestOrZero(t *testing.T) {
	var c Contract
	assert.Zero(t, c.VolumeOrZero())
	assert.Zero(t, c.OpenInterestOrZero())

	c.Volume, c.OpenInterest = Int64(12), Int64(340)
	assert.Equal(t, int64(12), c.VolumeOrZero())
	assert.Equal(t, int64(340), c.OpenInterestOrZero())
}

func TestExpiryFormat(t *testing.T) {
	e, err := ParseExpiry("2024-06-21")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC), e)
	assert.Equal(t, "2024-06-21", FormatExpiry(e))

	_, err = ParseExpiry("06/21/2024")
	assert.Error(t, err)
}

func TestClosePrices(t *testing.T) {
	bars := []Candle{{Close: 1}, {Close: 2.5}, {Close: 3}}
	assert.Equal(t, []float64{1, 2.5, 3}, ClosePrices(bars))
	assert.Empty(t, ClosePrices(nil))
}
