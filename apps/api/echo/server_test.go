package echoapi_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServer_home(t *testing.T) {
	f := setup(t)
	req, rec := newRequest(http.MethodGet, "/")
	f.app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Eden API!", rec.Body.String())
}

func TestServer_health(t *testing.T) {
	f := setup(t)
	req, rec := newRequest(http.MethodGet, "/healthz")
	f.app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestServer_metrics(t *testing.T) {
	f := setup(t)
	req, rec := newRequest(http.MethodGet, "/v1/periods")
	f.app.ServeHTTP(rec, req)

	req, rec = newRequest(http.MethodGet, "/metrics")
	f.app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `eden_http_requests_total{code="200",method="GET",route="/v1/periods"}`)
}

func TestServer_notFound(t *testing.T) {
	f := setup(t)
	runHTTPTests(t, f.app, []httpTest{
		{name: "unknown route", path: "/v1/lol", wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "Not Found"})},
	})
}
