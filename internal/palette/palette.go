// Package palette holds the discrete call/put colour pairs and continuous
// colour scales offered to the presentation layer.
package palette

import (
	"fmt"
	"math"
	"sort"
	"strings"

	apperrors "options-dashboard/internal/errors"
)

// Default selections.
const (
	DefaultDiscrete   = "Plotly"
	DefaultContinuous = "Hot"
)

// Discrete is a call/put colour pair.
type Discrete struct {
	Name string `json:"name"`
	Call string `json:"call"`
	Put  string `json:"put"`
}

// Colors returns the pair in call, put order.
func (d Discrete) Colors() []string {
	return []string{d.Call, d.Put}
}

// Scale is a continuous colour scale given as evenly spaced hex stops.
type Scale struct {
	Name  string   `json:"name"`
	Stops []string `json:"stops"`
}

var discretes = map[string]Discrete{
	"plotly": {Name: "Plotly", Call: "#636EFA", Put: "#EF553B"},
	"pastel": {Name: "Pastel", Call: "#FFB6C1", Put: "#87CEFA"},
	"dark2":  {Name: "Dark2", Call: "#1B9E77", Put: "#D95F02"},
}

var scales = map[string]Scale{
	"hot":     {Name: "Hot", Stops: []string{"#000000", "#E60000", "#FFD200", "#FFFFFF"}},
	"reds":    {Name: "Reds", Stops: []string{"#FFF5F0", "#FEE0D2", "#FCBBA1", "#FC9272", "#FB6A4A", "#EF3B2C", "#CB181D", "#A50F15", "#67000D"}},
	"viridis": {Name: "Viridis", Stops: []string{"#440154", "#482878", "#3E4989", "#31688E", "#26828E", "#1F9E89", "#35B779", "#6ECE58", "#B5DE2B", "#FDE725"}},
}

// LookupDiscrete finds a discrete palette by case-insensitive name. An empty
// name selects the default.
func LookupDiscrete(name string) (Discrete, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = strings.ToLower(DefaultDiscrete)
	}
	d, ok := discretes[key]
	if !ok {
		return Discrete{}, apperrors.NewValidationError("palette", name,
			fmt.Sprintf("unknown palette (want one of %s)", strings.Join(DiscreteNames(), ", ")))
	}
	return d, nil
}

// LookupScale finds a continuous scale by case-insensitive name. An empty
// name selects the default.
func LookupScale(name string) (Scale, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = strings.ToLower(DefaultContinuous)
	}
	s, ok := scales[key]
	if !ok {
		return Scale{}, apperrors.NewValidationError("scale", name,
			fmt.Sprintf("unknown scale (want one of %s)", strings.Join(ScaleNames(), ", ")))
	}
	return s, nil
}

// DiscreteNames lists the discrete palette names in display order.
func DiscreteNames() []string {
	return []string{"Plotly", "Pastel", "Dark2"}
}

// ScaleNames lists the continuous scale names in display order.
func ScaleNames() []string {
	return []string{"Hot", "Reds", "Viridis"}
}

// AllDiscrete returns every discrete palette in display order.
func AllDiscrete() []Discrete {
	out := make([]Discrete, 0, len(discretes))
	for _, d := range discretes {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return order(DiscreteNames(), out[i].Name) < order(DiscreteNames(), out[j].Name) })
	return out
}

// AllScales returns every continuous scale in display order.
func AllScales() []Scale {
	out := make([]Scale, 0, len(scales))
	for _, s := range scales {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return order(ScaleNames(), out[i].Name) < order(ScaleNames(), out[j].Name) })
	return out
}

func order(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return len(names)
}

// At returns the colour at position t in [0, 1], interpolating linearly
// between neighbouring stops. t is clamped; NaN maps to the first stop.
func (s Scale) At(t float64) string {
	if len(s.Stops) == 0 {
		return ""
	}
	if math.IsNaN(t) || t <= 0 || len(s.Stops) == 1 {
		return s.Stops[0]
	}
	if t >= 1 {
		return s.Stops[len(s.Stops)-1]
	}

	pos := t * float64(len(s.Stops)-1)
	i := int(pos)
	frac := pos - float64(i)

	r1, g1, b1 := parseHex(s.Stops[i])
	r2, g2, b2 := parseHex(s.Stops[i+1])
	return fmt.Sprintf("#%02X%02X%02X", mix(r1, r2, frac), mix(g1, g2, frac), mix(b1, b2, frac))
}

func mix(a, b int, frac float64) int {
	return int(math.Round(float64(a) + (float64(b)-float64(a))*frac))
}

func parseHex(hex string) (int, int, int) {
	var r, g, b int
	_, _ = fmt.Sscanf(strings.TrimPrefix(hex, "#"), "%02x%02x%02x", &r, &g, &b)
	return r, g, b
}
