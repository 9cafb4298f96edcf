package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "options-dashboard/internal/errors"
)

func TestValidateSymbol(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"aapl", "AAPL", false},
		{"  msft ", "MSFT", false},
		{"BRK-B", "BRK-B", false},
		{"^spx", "^SPX", false},
		{"rds.a", "RDS.A", false},
		{"", "", true},
		{"   ", "", true},
		{"AAPL;rm", "", true},
		{"TOOLONGTICKER1", "", true},
		{"-ABC", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ValidateSymbol(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseExpiry(t *testing.T) {
	got, err := ParseExpiry(" 2024-06-21 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseExpiry("06/21/2024")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestParseExpiries(t *testing.T) {
	got, err := ParseExpiries("")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = ParseExpiries("2024-06-21, 2024-06-28,")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = ParseExpiries("2024-06-21,nope")
	assert.Error(t, err)
}

func TestIntervalAndPeriod(t *testing.T) {
	assert.NoError(t, ValidateInterval("5m"))
	assert.Error(t, ValidateInterval("7m"))
	assert.NoError(t, ValidatePeriod("1d"))
	assert.Error(t, ValidatePeriod("10y"))
}
