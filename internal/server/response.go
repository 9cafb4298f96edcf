package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	apperrors "options-dashboard/internal/errors"
	"options-dashboard/internal/logging"
)

// Response is the envelope for every API payload.
type Response[T any] struct {
	Data  T         `json:"data"`
	Meta  Meta      `json:"meta"`
	Error *APIError `json:"error,omitempty"`
}

// Meta describes the request a payload answers.
type Meta struct {
	RequestID   string    `json:"request_id,omitempty"`
	Provider    string    `json:"provider,omitempty"`
	Ticker      string    `json:"ticker,omitempty"`
	Expiry      string    `json:"expiry,omitempty"`
	Expiries    []string  `json:"expiries,omitempty"`
	Interval    string    `json:"interval,omitempty"`
	Period      string    `json:"period,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// APIError is the error body.
type APIError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// statusFor maps a core error onto an HTTP status and error kind.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, apperrors.ErrInsufficientHistory):
		return http.StatusUnprocessableEntity, "insufficient_history"
	case errors.Is(err, apperrors.ErrDataUnavailable):
		return http.StatusBadGateway, "data_unavailable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeJSON[T any](w http.ResponseWriter, r *http.Request, status int, resp Response[T]) {
	resp.Meta.RequestID = logging.RequestID(r.Context())
	if resp.Meta.GeneratedAt.IsZero() {
		resp.Meta.GeneratedAt = time.Now().UTC()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger := logging.FromContext(r.Context())
		logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeData[T any](w http.ResponseWriter, r *http.Request, data T, meta Meta) {
	writeJSON(w, r, http.StatusOK, Response[T]{Data: data, Meta: meta})
}

func writeError(w http.ResponseWriter, r *http.Request, err error, meta Meta) {
	status, kind := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger := logging.FromContext(r.Context())
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	}
	writeJSON(w, r, status, Response[any]{
		Meta:  meta,
		Error: &APIError{Kind: kind, Message: err.Error()},
	})
}
