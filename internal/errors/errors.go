// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrNotFound            = errors.New("not found")
	ErrDataUnavailable     = errors.New("data unavailable")
	ErrInsufficientHistory = errors.New("insufficient history")
	ErrInvalidInput        = errors.New("input validation failed")
	ErrSchemaMismatch      = errors.New("schema mismatch")
	ErrConfigInvalid       = errors.New("invalid configuration")
)

// NotFoundError is returned when a ticker or expiry is unknown to the provider.
type NotFoundError struct {
	Kind   string // "ticker" or "expiry"
	Ticker string
	Expiry string
}

func (e *NotFoundError) Error() string {
	if e.Expiry != "" {
		return fmt.Sprintf("%s not found: %s %s", e.Kind, e.Ticker, e.Expiry)
	}
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Ticker)
}

// Is lets errors.Is match ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewTickerNotFound creates a NotFoundError for an unknown ticker.
func NewTickerNotFound(ticker string) *NotFoundError {
	return &NotFoundError{Kind: "ticker", Ticker: ticker}
}

// NewExpiryNotFound creates a NotFoundError for an expiry that is not listed.
func NewExpiryNotFound(ticker, expiry string) *NotFoundError {
	return &NotFoundError{Kind: "expiry", Ticker: ticker, Expiry: expiry}
}

// DataUnavailableError represents an empty or malformed provider response.
type DataUnavailableError struct {
	DataType string
	Ticker   string
	Message  string
	Err      error
}

func (e *DataUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data unavailable [%s] %s: %s: %v", e.DataType, e.Ticker, e.Message, e.Err)
	}
	return fmt.Sprintf("data unavailable [%s] %s: %s", e.DataType, e.Ticker, e.Message)
}

func (e *DataUnavailableError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match ErrDataUnavailable.
func (e *DataUnavailableError) Is(target error) bool {
	return target == ErrDataUnavailable
}

// NewDataUnavailableError creates a new DataUnavailableError.
func NewDataUnavailableError(dataType, ticker, message string, err error) *DataUnavailableError {
	return &DataUnavailableError{
		DataType: dataType,
		Ticker:   ticker,
		Message:  message,
		Err:      err,
	}
}

// InsufficientHistoryError is returned when a series is shorter than an
// indicator's window.
type InsufficientHistoryError struct {
	Indicator string
	Required  int
	Available int
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("insufficient history for %s: need %d sessions, have %d", e.Indicator, e.Required, e.Available)
}

// Is lets errors.Is match ErrInsufficientHistory.
func (e *InsufficientHistoryError) Is(target error) bool {
	return target == ErrInsufficientHistory
}

// NewInsufficientHistoryError creates a new InsufficientHistoryError.
func NewInsufficientHistoryError(indicator string, required, available int) *InsufficientHistoryError {
	return &InsufficientHistoryError{
		Indicator: indicator,
		Required:  required,
		Available: available,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// Is lets errors.Is match ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// SchemaError is returned when two tables cannot be unioned.
type SchemaError struct {
	Left  []string
	Right []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema mismatch: %v vs %v", e.Left, e.Right)
}

// Is lets errors.Is match ErrSchemaMismatch.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchemaMismatch
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
