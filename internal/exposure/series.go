package exposure

import (
	"fmt"
	"math"
	"strings"

	"options-dashboard/internal/chain"
	"options-dashboard/internal/models"
	"options-dashboard/internal/table"
)

// GEXMultiplier is the contract multiplier applied to gamma exposure points.
const GEXMultiplier = 100

// BarPoint is one bar of an exposure chart.
type BarPoint struct {
	Strike float64 `json:"strike"`
	Value  float64 `json:"value"`
}

// Bars is the overlay bar chart for one exposure column. Put values are
// negated so they hang below the axis.
type Bars struct {
	Column    string     `json:"column"`
	Label     string     `json:"label"`
	Title     string     `json:"title"`
	Calls     []BarPoint `json:"calls"`
	Puts      []BarPoint `json:"puts"`
	TickBound float64    `json:"tick_bound"`
}

// BarSeries extracts call and put bars for an exposure column. Rows with a
// missing strike or value are skipped. TickBound is the larger of the column
// maximum and the negated minimum, giving a symmetric axis.
func BarSeries(t *table.Table, column string) (*Bars, error) {
	values, ok := t.Column(column)
	if !ok {
		return nil, fmt.Errorf("column %q not found", column)
	}
	strikes, ok := t.Column(chain.ColStrike)
	if !ok {
		return nil, fmt.Errorf("column %q not found", chain.ColStrike)
	}
	types, ok := t.Column(chain.ColType)
	if !ok {
		return nil, fmt.Errorf("column %q not found", chain.ColType)
	}

	bars := &Bars{
		Column: column,
		Label:  label(column),
		Calls:  []BarPoint{},
		Puts:   []BarPoint{},
	}

	hi, lo := math.Inf(-1), math.Inf(1)
	for i := range values {
		v, ok := table.Float(values[i])
		if !ok {
			continue
		}
		strike, ok := table.Float(strikes[i])
		if !ok {
			continue
		}
		hi = math.Max(hi, v)
		lo = math.Min(lo, v)

		switch types[i] {
		case string(models.OptionTypeCall):
			bars.Calls = append(bars.Calls, BarPoint{Strike: strike, Value: v})
		case string(models.OptionTypePut):
			bars.Puts = append(bars.Puts, BarPoint{Strike: strike, Value: -v})
		}
	}

	if !math.IsInf(hi, 0) {
		bars.TickBound = math.Max(hi, -lo)
	}
	return bars, nil
}

// label turns a column name such as gamma_exposure into "Gamma Exposure".
func label(column string) string {
	words := strings.Fields(strings.ReplaceAll(column, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// GEXPoint is one marker of the gamma exposure bubble chart.
type GEXPoint struct {
	Strike float64           `json:"strike"`
	GEX    float64           `json:"gex"`
	Type   models.OptionType `json:"type"`
	Size   float64           `json:"size"`
}

// GEXPoints computes gamma * openInterest * 100 per contract. Rows without
// open interest are skipped.
func GEXPoints(t *table.Table) ([]GEXPoint, error) {
	for _, name := range []string{chain.ColStrike, ColGamma, chain.ColOpenInterest, chain.ColType} {
		if !t.Has(name) {
			return nil, fmt.Errorf("column %q not found", name)
		}
	}

	points := []GEXPoint{}
	for i := 0; i < t.Len(); i++ {
		strike, ok1 := table.Float(t.Value(i, chain.ColStrike))
		gamma, ok2 := table.Float(t.Value(i, ColGamma))
		oi, ok3 := table.Float(t.Value(i, chain.ColOpenInterest))
		typ, _ := t.Value(i, chain.ColType).(string)
		if !ok1 || !ok2 || !ok3 {
			continue
		}
		gex := gamma * oi * GEXMultiplier
		points = append(points, GEXPoint{
			Strike: strike,
			GEX:    gex,
			Type:   models.OptionType(typ),
			Size:   math.Abs(gex) / 1000,
		})
	}
	return points, nil
}
