// Package chain turns provider option chains into display-ready tables.
package chain

import (
	"regexp"

	"options-dashboard/internal/models"
	"options-dashboard/internal/table"
)

// Provider column names.
const (
	ColContractSymbol    = "contractSymbol"
	ColCurrentSymbol     = "currentSymbol"
	ColLastTradeDate     = "lastTradeDate"
	ColStrike            = "strike"
	ColLastPrice         = "lastPrice"
	ColBid               = "bid"
	ColAsk               = "ask"
	ColChange            = "change"
	ColPercentChange     = "percentChange"
	ColVolume            = "volume"
	ColOpenInterest      = "openInterest"
	ColImpliedVolatility = "impliedVolatility"
	ColInTheMoney        = "inTheMoney"
	ColContractSize      = "contractSize"
	ColCurrency          = "currency"

	ColTicker = "Ticker"
	ColType   = "type"
)

// RawColumns is the column order of a provider chain table.
var RawColumns = []string{
	ColContractSymbol,
	ColLastTradeDate,
	ColStrike,
	ColLastPrice,
	ColBid,
	ColAsk,
	ColChange,
	ColPercentChange,
	ColVolume,
	ColOpenInterest,
	ColImpliedVolatility,
	ColInTheMoney,
	ColContractSize,
	ColCurrency,
}

// noiseColumns are provider bookkeeping fields with no display value.
var noiseColumns = []string{ColLastTradeDate, ColCurrency, ColContractSize}

// identifierColumns carry the OCC-style contract identifier. Older provider
// payloads used currentSymbol.
var identifierColumns = []string{ColContractSymbol, ColCurrentSymbol}

var tickerPrefix = regexp.MustCompile(`^[A-Za-z]+`)

// DisplayPlaces is the rounding applied to numeric columns.
const DisplayPlaces = 2

// ExtractTicker returns the leading alphabetic run of a contract identifier,
// e.g. "AAPL" for "AAPL240621C00150000". It returns "" when there is none.
func ExtractTicker(identifier string) string {
	return tickerPrefix.FindString(identifier)
}

// ContractsTable lays contracts out in the provider's raw column schema.
func ContractsTable(contracts []models.Contract) *table.Table {
	n := len(contracts)
	cols := make(map[string][]any, len(RawColumns))
	for _, name := range RawColumns {
		cols[name] = make([]any, n)
	}

	for i, c := range contracts {
		cols[ColContractSymbol][i] = c.ContractSymbol
		cols[ColLastTradeDate][i] = timeCell(c)
		cols[ColStrike][i] = c.Strike
		cols[ColLastPrice][i] = c.LastPrice
		cols[ColBid][i] = c.Bid
		cols[ColAsk][i] = c.Ask
		cols[ColChange][i] = c.Change
		cols[ColPercentChange][i] = c.PercentChange
		cols[ColVolume][i] = intCell(c.Volume)
		cols[ColOpenInterest][i] = intCell(c.OpenInterest)
		cols[ColImpliedVolatility][i] = c.ImpliedVolatility
		cols[ColInTheMoney][i] = c.InTheMoney
		cols[ColContractSize][i] = c.ContractSize
		cols[ColCurrency][i] = c.Currency
	}

	t := table.New(n)
	for _, name := range RawColumns {
		// lengths match by construction
		_ = t.Add(name, cols[name])
	}
	return t
}

// Normalize prepares a chain table for display:
//
//  1. a Ticker column is derived from the contract identifier, which is dropped
//  2. lastTradeDate, currency and contractSize are dropped, each when present
//  3. Ticker is moved to the front
//  4. numeric columns are rounded to two decimals
//
// The input is not modified and Normalize(Normalize(t)) equals Normalize(t).
// Exposure columns must be derived before normalizing.
func Normalize(t *table.Table) *table.Table {
	out := t.Clone()

	for _, id := range identifierColumns {
		values, ok := out.Column(id)
		if !ok {
			continue
		}
		tickers := make([]any, len(values))
		for i, v := range values {
			s, _ := v.(string)
			if tk := ExtractTicker(s); tk != "" {
				tickers[i] = tk
			}
		}
		_ = out.Add(ColTicker, tickers)
		out = out.Drop(id)
	}

	out = out.Drop(noiseColumns...)
	out = out.MoveFirst(ColTicker)
	return out.RoundNumeric(DisplayPlaces)
}

func intCell(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func timeCell(c models.Contract) any {
	if c.LastTradeDate.IsZero() {
		return nil
	}
	return c.LastTradeDate
}
