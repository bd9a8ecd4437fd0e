package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/v1/periods/today", "200"))
	ObserveRequest("GET", "/v1/periods/today", http.StatusOK, 12*time.Millisecond)
	after := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/v1/periods/today", "200"))
	assert.Equal(t, before+1, after)
}

func TestObserveClassification(t *testing.T) {
	ObserveClassification("In Progress")
	ObserveClassification("In Progress")
	assert.GreaterOrEqual(t, testutil.ToFloat64(Classifications.WithLabelValues("In Progress")), 2.0)
}

func TestHandler(t *testing.T) {
	ObserveDBPing(time.Millisecond)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "eden_db_ping_seconds")
}
