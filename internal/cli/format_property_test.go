package cli

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

// FormatPrice groups thousands, keeps two decimals and round-trips the value.
func TestProperty_PriceFormatting(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	grouped := regexp.MustCompile(`^-?\d{1,3}(,\d{3})*\.\d{2}$`)

	properties.Property("FormatPrice produces grouped two-decimal output", prop.ForAll(
		func(price float64) bool {
			formatted := FormatPrice(price)
			if !grouped.MatchString(formatted) {
				t.Logf("Invalid format for %f: %s", price, formatted)
				return false
			}
			return true
		},
		gen.Float64Range(-1e12, 1e12),
	))

	properties.Property("FormatPrice preserves value", prop.ForAll(
		func(price float64) bool {
			formatted := FormatPrice(price)
			parsed, err := strconv.ParseFloat(strings.ReplaceAll(formatted, ",", ""), 64)
			if err != nil {
				return false
			}
			if math.Abs(parsed-price) > 0.005+1e-9 {
				t.Logf("Value not preserved: original=%f, formatted=%s", price, formatted)
				return false
			}
			return true
		},
		gen.Float64Range(-1e9, 1e9),
	))

	properties.TestingRun(t)
}

// FormatVolume picks the unit by magnitude.
func TestProperty_VolumeFormatting(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("FormatVolume uses correct units", prop.ForAll(
		func(volume int64) bool {
			formatted := FormatVolume(volume)
			switch {
			case volume >= 1_000_000_000:
				return strings.HasSuffix(formatted, "B")
			case volume >= 1_000_000:
				return strings.HasSuffix(formatted, "M")
			case volume >= 1_000:
				return strings.HasSuffix(formatted, "K")
			default:
				return formatted == strconv.FormatInt(volume, 10)
			}
		},
		gen.Int64Range(0, 1e12),
	))

	properties.Property("negative volume mirrors positive", prop.ForAll(
		func(volume int64) bool {
			return FormatVolume(-volume) == "-"+FormatVolume(volume)
		},
		gen.Int64Range(1, 1e12),
	))

	properties.TestingRun(t)
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, "-"},
		{12.35, "12.35"},
		{175.0, "175"},
		{math.NaN(), "-"},
		{int64(1200), "1200"},
		{true, "yes"},
		{false, "no"},
		{"AAPL", "AAPL"},
		{time.Date(2024, 6, 14, 15, 30, 0, 0, time.UTC), "2024-06-14 15:30"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCell(tt.in))
	}
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "1,234,567.89", FormatPrice(1234567.891))
	assert.Equal(t, "-1,000.00", FormatPrice(-1000))
	assert.Equal(t, "+2.50", FormatChange(2.5))
	assert.Equal(t, "-2.50", FormatChange(-2.5))
	assert.Equal(t, "+1.50K", FormatVolumeChange(1500))
	assert.Equal(t, "n/a", FormatOptional(nil))
	v := 199.5
	assert.Equal(t, "199.50", FormatOptional(&v))
	assert.Equal(t, "AAP...", TruncateString("AAPL240621C00150000", 6))
	assert.Equal(t, "2024-06-21, 2024-06-28", FormatExpiries([]time.Time{
		time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC),
	}))
}
