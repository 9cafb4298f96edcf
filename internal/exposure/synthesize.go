package exposure

import (
	"options-dashboard/internal/chain"
	"options-dashboard/internal/models"
	"options-dashboard/internal/table"
)

// Greek and exposure column names.
const (
	ColGamma         = "gamma"
	ColDelta         = "delta"
	ColVanna         = "vanna"
	ColGammaExposure = "gamma_exposure"
	ColDeltaExposure = "delta_exposure"
	ColVannaExposure = "vanna_exposure"
)

// ExposureColumns lists the derived exposure columns.
var ExposureColumns = []string{ColGammaExposure, ColDeltaExposure, ColVannaExposure}

// Synthesizer builds combined exposure tables from a chain.
type Synthesizer struct {
	greeks GreekProvider
}

// NewSynthesizer creates a Synthesizer. A nil provider falls back to random greeks.
func NewSynthesizer(greeks GreekProvider) *Synthesizer {
	if greeks == nil {
		greeks = NewRandomGreeks()
	}
	return &Synthesizer{greeks: greeks}
}

// Synthesize returns calls followed by puts, each in their original order,
// with greek, exposure and type columns appended to the raw schema.
// Exposure is greek * openInterest, and missing when open interest is.
func (s *Synthesizer) Synthesize(calls, puts []models.Contract) (*table.Table, error) {
	callTable := side(s.greeks.AssignGreeks(calls), models.OptionTypeCall)
	putTable := side(s.greeks.AssignGreeks(puts), models.OptionTypePut)
	return table.Concat(callTable, putTable)
}

// SynthesizeChain is Synthesize over a chain's two sides.
func (s *Synthesizer) SynthesizeChain(c *models.Chain) (*table.Table, error) {
	return s.Synthesize(c.Calls, c.Puts)
}

func side(contracts []models.Contract, typ models.OptionType) *table.Table {
	t := chain.ContractsTable(contracts)
	n := len(contracts)

	gamma, delta, vanna := make([]any, n), make([]any, n), make([]any, n)
	gex, dex, vex := make([]any, n), make([]any, n), make([]any, n)
	types := make([]any, n)

	for i, c := range contracts {
		gamma[i] = c.Greeks.Gamma
		delta[i] = c.Greeks.Delta
		vanna[i] = c.Greeks.Vanna
		gex[i] = weighted(c.Greeks.Gamma, c.OpenInterest)
		dex[i] = weighted(c.Greeks.Delta, c.OpenInterest)
		vex[i] = weighted(c.Greeks.Vanna, c.OpenInterest)
		types[i] = string(typ)
	}

	_ = t.Add(ColGamma, gamma)
	_ = t.Add(ColDelta, delta)
	_ = t.Add(ColVanna, vanna)
	_ = t.Add(ColGammaExposure, gex)
	_ = t.Add(ColDeltaExposure, dex)
	_ = t.Add(ColVannaExposure, vex)
	_ = t.Add(chain.ColType, types)
	return t
}

func weighted(greek float64, openInterest *int64) any {
	if openInterest == nil {
		return nil
	}
	return greek * float64(*openInterest)
}
