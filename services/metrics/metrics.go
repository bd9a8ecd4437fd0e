package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "eden", Name: "http_requests_total", Help: "Handled HTTP requests",
	}, []string{"method", "route", "code"})
	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "eden", Name: "http_request_duration_seconds", Help: "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	Classifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "eden", Name: "period_classifications_total", Help: "Periods classified by the today endpoint",
	}, []string{"status"})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "eden", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPDuration, Classifications, DBPing)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveRequest(method, route string, code int, d time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func ObserveClassification(status string) { Classifications.WithLabelValues(status).Inc() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }
