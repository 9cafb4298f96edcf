package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Options Dashboard Configuration

[provider]
# Quote provider: "yahoo" or "memory" (built-in sample data, no network)
kind = "yahoo"
# Yahoo Finance API base URL
base_url = "https://query2.finance.yahoo.com"
# User agent sent with every request
user_agent = "Mozilla/5.0 (compatible; options-dashboard/1.0)"
# Per-request timeout
timeout = "10s"
# Client-side rate limit in requests per second (0 disables)
rate_limit = 2.0
# Burst allowance for the rate limiter
burst = 4
# Daily history lookback for indicators: 1y, 2y, 5y, max
history_range = "1y"

[server]
# Listen address for the HTTP API
addr = ":8050"
# Compress responses with zstd when the client accepts it
compression = true
read_timeout = "15s"
write_timeout = "60s"

[display]
# Ticker shown when none is given
default_ticker = "AAPL"
# Discrete palette: Plotly, Pastel, Dark2
palette = "Plotly"
# Continuous scale: Hot, Reds, Viridis
scale = "Hot"
# Rows in the top contracts by volume table
top_n = 20

[logging]
# Level: debug, info, warn, error
level = "info"
# Log to the console (stderr)
console = true
# Log to a rotated file
file = false
file_path = "~/.config/options-dashboard/logs/optionsdash.log"
max_size = 50
max_backups = 5
max_age = 14
`

func createTemplateConfig(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Created config template at %s\n", path)
	return nil
}
