package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"options-dashboard/internal/models"
)

// FormatPrice formats a price with two decimals and thousands separators.
func FormatPrice(price float64) string {
	negative := price < 0
	s := strconv.FormatFloat(math.Abs(price), 'f', 2, 64)
	intPart, decPart, _ := strings.Cut(s, ".")
	out := groupThousands(intPart) + "." + decPart
	if negative {
		return "-" + out
	}
	return out
}

// groupThousands inserts commas every three digits from the right.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var b strings.Builder
	lead := n % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatVolume formats volume in compact form.
func FormatVolume(volume int64) string {
	abs := volume
	sign := ""
	if abs < 0 {
		abs, sign = -abs, "-"
	}
	switch {
	case abs >= 1_000_000_000:
		return fmt.Sprintf("%s%.2fB", sign, float64(abs)/1e9)
	case abs >= 1_000_000:
		return fmt.Sprintf("%s%.2fM", sign, float64(abs)/1e6)
	case abs >= 1_000:
		return fmt.Sprintf("%s%.2fK", sign, float64(abs)/1e3)
	}
	return fmt.Sprintf("%s%d", sign, abs)
}

// FormatChange formats a signed change.
func FormatChange(change float64) string {
	if change > 0 {
		return "+" + FormatPrice(change)
	}
	return FormatPrice(change)
}

// FormatVolumeChange formats a signed volume change.
func FormatVolumeChange(change int64) string {
	if change > 0 {
		return "+" + FormatVolume(change)
	}
	return FormatVolume(change)
}

// FormatOptional formats a nullable indicator value.
func FormatOptional(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return FormatPrice(*v)
}

// FormatCell renders a table cell. Missing values print as a dash.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case float64:
		if math.IsNaN(x) {
			return "-"
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		if x {
			return "yes"
		}
		return "no"
	case time.Time:
		return x.UTC().Format("2006-01-02 15:04")
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

// FormatExpiries joins expiry dates for display.
func FormatExpiries(expiries []time.Time) string {
	parts := make([]string, len(expiries))
	for i, e := range expiries {
		parts[i] = models.FormatExpiry(e)
	}
	return strings.Join(parts, ", ")
}

// TruncateString truncates a string to max length with ellipsis.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
