package dashboard

import (
	"time"

	"options-dashboard/internal/exposure"
	"options-dashboard/internal/models"
	"options-dashboard/internal/palette"
	"options-dashboard/internal/table"
)

// EmptySelectionPrompt is returned instead of charts when no expiry is selected.
const EmptySelectionPrompt = "Please select at least one expiration date."

// Metrics are the headline price and volume figures for a ticker.
type Metrics struct {
	Ticker       string           `json:"ticker"`
	AsOf         time.Time        `json:"as_of"`
	Price        float64          `json:"price"`
	PriceChange  float64          `json:"price_change"`
	PriceArrow   models.Direction `json:"price_arrow"`
	Volume       int64            `json:"volume"`
	VolumeChange int64            `json:"volume_change"`
	VolumeArrow  models.Direction `json:"volume_arrow"`
}

// MetricsOf derives headline metrics from a snapshot.
func MetricsOf(s *models.StockSnapshot) Metrics {
	return Metrics{
		Ticker:       s.Ticker,
		AsOf:         s.AsOf,
		Price:        s.Close,
		PriceChange:  s.PriceChange(),
		PriceArrow:   s.PriceDirection(),
		Volume:       s.Volume,
		VolumeChange: s.VolumeChange(),
		VolumeArrow:  s.VolumeDirection(),
	}
}

// OptionsRequest selects the chain view.
type OptionsRequest struct {
	Ticker   string
	Expiries []time.Time
	Palette  string
	Scale    string
}

// Donut is the call versus put volume split.
type Donut struct {
	Title  string   `json:"title"`
	Labels []string `json:"labels"`
	Values []int64  `json:"values"`
	Colors []string `json:"colors"`
}

// TreemapNode is one leaf of the type / expiry / strike treemap. Size is
// volume and Color encodes open interest on the selected scale.
type TreemapNode struct {
	Path         []string `json:"path"`
	Size         int64    `json:"size"`
	OpenInterest *int64   `json:"open_interest"`
	Color        string   `json:"color,omitempty"`
}

// StrikePoint is one grouped bar.
type StrikePoint struct {
	Strike float64 `json:"strike"`
	Value  *int64  `json:"value"`
}

// StrikeSeries is a grouped bar chart of a metric by strike.
type StrikeSeries struct {
	Title  string        `json:"title"`
	Metric string        `json:"metric"`
	Calls  []StrikePoint `json:"calls"`
	Puts   []StrikePoint `json:"puts"`
	Colors []string      `json:"colors"`
}

// OptionsView is the chain page: metrics plus, for the first selected
// expiry, the volume donut, treemap, strike charts and top contracts.
type OptionsView struct {
	Metrics      Metrics          `json:"metrics"`
	Prompt       string           `json:"prompt,omitempty"`
	Expiry       string           `json:"expiry,omitempty"`
	Palette      palette.Discrete `json:"palette"`
	Scale        palette.Scale    `json:"scale"`
	Donut        *Donut           `json:"donut,omitempty"`
	Treemap      []TreemapNode    `json:"treemap,omitempty"`
	OpenInterest *StrikeSeries    `json:"open_interest,omitempty"`
	Volume       *StrikeSeries    `json:"volume,omitempty"`
	Top          *table.Table     `json:"top,omitempty"`
}

// ExposureRequest selects the exposure view.
type ExposureRequest struct {
	Ticker   string
	Expiries []time.Time
}

// ExpiryExposure is the exposure breakdown for one expiry. Err is set when
// that expiry failed; the other fields are then empty.
type ExpiryExposure struct {
	Expiry string              `json:"expiry"`
	Title  string              `json:"title,omitempty"`
	Table  *table.Table        `json:"table,omitempty"`
	Gamma  *exposure.Bars      `json:"gamma,omitempty"`
	Delta  *exposure.Bars      `json:"delta,omitempty"`
	Vanna  *exposure.Bars      `json:"vanna,omitempty"`
	GEX    []exposure.GEXPoint `json:"gex,omitempty"`
	Error  string              `json:"error,omitempty"`
	Err    error               `json:"-"`
}

// ExposureView is the exposure page.
type ExposureView struct {
	Metrics  Metrics          `json:"metrics"`
	Prompt   string           `json:"prompt,omitempty"`
	Expiries []ExpiryExposure `json:"expiries"`
}

// IndicatorsView is the technical indicator panel.
type IndicatorsView struct {
	models.Indicators
	LatestClose float64 `json:"latest_close"`
}
