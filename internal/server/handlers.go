package server

import (
	"net/http"
	"strings"
	"time"

	"options-dashboard/internal/chain"
	"options-dashboard/internal/dashboard"
	apperrors "options-dashboard/internal/errors"
	"options-dashboard/internal/models"
	"options-dashboard/internal/palette"
	"options-dashboard/internal/table"
	"options-dashboard/internal/validation"
)

// Intraday defaults.
const (
	DefaultInterval = "5m"
	DefaultPeriod   = "1d"
)

// ChainData is a normalized union of one expiry's calls and puts.
type ChainData struct {
	Expiry string       `json:"expiry"`
	Calls  int          `json:"calls"`
	Puts   int          `json:"puts"`
	Table  *table.Table `json:"table"`
}

// PaletteData lists the colour choices.
type PaletteData struct {
	Discrete          []palette.Discrete `json:"discrete"`
	Continuous        []palette.Scale    `json:"continuous"`
	DefaultDiscrete   string             `json:"default_discrete"`
	DefaultContinuous string             `json:"default_continuous"`
}

func (s *Server) ticker(r *http.Request) string {
	t := r.URL.Query().Get("ticker")
	if strings.TrimSpace(t) == "" {
		t = s.cfg.DefaultTicker
	}
	return validation.NormalizeSymbol(t)
}

func (s *Server) meta(ticker string) Meta {
	return Meta{Provider: s.data.ProviderName(), Ticker: ticker}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeData(w, r, map[string]string{"status": "ok"}, Meta{Provider: s.data.ProviderName()})
}

func (s *Server) handlePalettes(w http.ResponseWriter, r *http.Request) {
	writeData(w, r, PaletteData{
		Discrete:          palette.AllDiscrete(),
		Continuous:        palette.AllScales(),
		DefaultDiscrete:   s.cfg.Palette,
		DefaultContinuous: s.cfg.Scale,
	}, Meta{})
}

func (s *Server) handleExpiries(w http.ResponseWriter, r *http.Request) {
	ticker := s.ticker(r)
	meta := s.meta(ticker)

	expiries, err := s.data.ListExpiries(r.Context(), ticker)
	if err != nil {
		writeError(w, r, err, meta)
		return
	}
	writeData(w, r, formatExpiries(expiries), meta)
}

// handleChain serves the normalized chain for one expiry, the nearest listed
// expiry when none is given.
func (s *Server) handleChain(w http.ResponseWriter, r *http.Request) {
	ticker := s.ticker(r)
	meta := s.meta(ticker)

	var expiry time.Time
	if raw := r.URL.Query().Get("expiry"); raw != "" {
		e, err := validation.ParseExpiry(raw)
		if err != nil {
			writeError(w, r, err, meta)
			return
		}
		expiry = e
	} else {
		listed, err := s.data.ListExpiries(r.Context(), ticker)
		if err != nil {
			writeError(w, r, err, meta)
			return
		}
		if len(listed) == 0 {
			writeError(w, r, apperrors.NewExpiryNotFound(ticker, ""), meta)
			return
		}
		expiry = listed[0]
	}
	meta.Expiry = models.FormatExpiry(expiry)

	c, err := s.data.FetchChain(r.Context(), ticker, expiry)
	if err != nil {
		writeError(w, r, err, meta)
		return
	}
	combined, err := chain.Combine(c.Calls, c.Puts)
	if err != nil {
		writeError(w, r, err, meta)
		return
	}

	writeData(w, r, ChainData{
		Expiry: meta.Expiry,
		Calls:  len(c.Calls),
		Puts:   len(c.Puts),
		Table:  chain.Normalize(combined),
	}, meta)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	ticker := s.ticker(r)
	meta := s.meta(ticker)

	snap, err := s.data.FetchSnapshot(r.Context(), ticker)
	if err != nil {
		writeError(w, r, err, meta)
		return
	}
	writeData(w, r, dashboard.MetricsOf(snap), meta)
}

func (s *Server) handleIntraday(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ticker := s.ticker(r)
	meta := s.meta(ticker)
	meta.Interval = orDefault(q.Get("interval"), DefaultInterval)
	meta.Period = orDefault(q.Get("period"), DefaultPeriod)

	bars, err := s.data.FetchIntraday(r.Context(), ticker, meta.Interval, meta.Period)
	if err != nil {
		writeError(w, r, err, meta)
		return
	}
	writeData(w, r, bars, meta)
}

func (s *Server) handleIndicators(w http.ResponseWriter, r *http.Request) {
	ticker := s.ticker(r)
	meta := s.meta(ticker)

	view, err := s.svc.Indicators(r.Context(), ticker)
	if err != nil {
		writeError(w, r, err, meta)
		return
	}
	writeData(w, r, view, meta)
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ticker := s.ticker(r)
	meta := s.meta(ticker)

	expiries, err := validation.ParseExpiries(q.Get("expiry"))
	if err != nil {
		writeError(w, r, err, meta)
		return
	}
	meta.Expiries = formatExpiries(expiries)

	view, err := s.svc.Options(r.Context(), dashboard.OptionsRequest{
		Ticker:   ticker,
		Expiries: expiries,
		Palette:  orDefault(q.Get("palette"), s.cfg.Palette),
		Scale:    orDefault(q.Get("scale"), s.cfg.Scale),
	})
	if err != nil {
		writeError(w, r, err, meta)
		return
	}
	writeData(w, r, view, meta)
}

func (s *Server) handleExposure(w http.ResponseWriter, r *http.Request) {
	ticker := s.ticker(r)
	meta := s.meta(ticker)

	expiries, err := validation.ParseExpiries(r.URL.Query().Get("expiry"))
	if err != nil {
		writeError(w, r, err, meta)
		return
	}
	meta.Expiries = formatExpiries(expiries)

	view, err := s.svc.Exposure(r.Context(), dashboard.ExposureRequest{Ticker: ticker, Expiries: expiries})
	if err != nil {
		writeError(w, r, err, meta)
		return
	}
	writeData(w, r, view, meta)
}

func formatExpiries(expiries []time.Time) []string {
	out := make([]string, len(expiries))
	for i, e := range expiries {
		out[i] = models.FormatExpiry(e)
	}
	return out
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
