package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	apperrors "options-dashboard/internal/errors"
)

func TestStatus(t *testing.T) {
	assert.Equal(t, "success", Status(nil))
	assert.Equal(t, "not_found", Status(apperrors.NewTickerNotFound("ZZZZ")))
	assert.Equal(t, "unavailable", Status(apperrors.NewDataUnavailableError("chain", "AAPL", "empty", nil)))
	assert.Equal(t, "error", Status(errors.New("boom")))
}

func TestRecordProviderCall(t *testing.T) {
	Init()
	Init()

	before := testutil.ToFloat64(ProviderCalls.WithLabelValues("memory", "fetch_chain", "success"))
	RecordProviderCall("memory", "fetch_chain", 10*time.Millisecond, nil)
	after := testutil.ToFloat64(ProviderCalls.WithLabelValues("memory", "fetch_chain", "success"))
	assert.Equal(t, before+1, after)
}

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequests.WithLabelValues("/api/v1/healthz", "GET", "200"))
	RecordHTTPRequest("/api/v1/healthz", "GET", 200, time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequests.WithLabelValues("/api/v1/healthz", "GET", "200")))
}
