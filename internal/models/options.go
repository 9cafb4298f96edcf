package models

import "time"

// OptionType discriminates calls from puts.
type OptionType string

const (
	OptionTypeCall OptionType = "Call"
	OptionTypePut  OptionType = "Put"
)

// Greeks holds per-contract sensitivities. The values attached by the
// exposure synthesizer are synthetic unless a real provider is injected.
type Greeks struct {
	Gamma float64 `json:"gamma"`
	Delta float64 `json:"delta"`
	Vanna float64 `json:"vanna"`
}

// Contract is one option instrument in a chain.
type Contract struct {
	ContractSymbol    string     `json:"contract_symbol"`
	Type              OptionType `json:"type"`
	Strike            float64    `json:"strike"`
	Expiry            time.Time  `json:"expiry"`
	LastTradeDate     time.Time  `json:"last_trade_date"`
	LastPrice         float64    `json:"last_price"`
	Bid               float64    `json:"bid"`
	Ask               float64    `json:"ask"`
	Change            float64    `json:"change"`
	PercentChange     float64    `json:"percent_change"`
	Volume            *int64     `json:"volume"`
	OpenInterest      *int64     `json:"open_interest"`
	ImpliedVolatility float64    `json:"implied_volatility"`
	InTheMoney        bool       `json:"in_the_money"`
	ContractSize      string     `json:"contract_size"`
	Currency          string     `json:"currency"`
	Greeks            Greeks     `json:"greeks"`
}

// VolumeOrZero returns the traded volume, treating a missing value as zero.
func (c Contract) VolumeOrZero() int64 {
	if c.Volume == nil {
		return 0
	}
	return *c.Volume
}

// OpenInterestOrZero returns open interest, treating a missing value as zero.
func (c Contract) OpenInterestOrZero() int64 {
	if c.OpenInterest == nil {
		return 0
	}
	return *c.OpenInterest
}

// Chain is the set of contracts for one ticker and expiry.
type Chain struct {
	Ticker string     `json:"ticker"`
	Expiry time.Time  `json:"expiry"`
	Calls  []Contract `json:"calls"`
	Puts   []Contract `json:"puts"`
}

// Len returns the total number of contracts on both sides.
func (c *Chain) Len() int {
	return len(c.Calls) + len(c.Puts)
}

// Append adds a contract to the side matching its type.
func (c *Chain) Append(contract Contract) {
	if contract.Type == OptionTypePut {
		c.Puts = append(c.Puts, contract)
		return
	}
	c.Calls = append(c.Calls, contract)
}

// Int64 returns a pointer to v.
func Int64(v int64) *int64 {
	return &v
}

// ExpiryLayout is the wire format for expiry dates.
const ExpiryLayout = "2006-01-02"

// FormatExpiry renders an expiry date as YYYY-MM-DD.
func FormatExpiry(t time.Time) string {
	return t.Format(ExpiryLayout)
}

// ParseExpiry parses a YYYY-MM-DD expiry date in UTC.
func ParseExpiry(s string) (time.Time, error) {
	return time.ParseInLocation(ExpiryLayout, s, time.UTC)
}
