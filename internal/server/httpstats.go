package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPStats instruments the status server: request counts by path and
// code, latency histograms, and an in-flight gauge. The collectors
// land on the registry the /metrics exporter gathers from.
type HTTPStats struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

// NewHTTPStats creates and registers the collectors.
func NewHTTPStats(reg prometheus.Registerer) *HTTPStats {
	s := &HTTPStats{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "etatrack_http_requests_total",
				Help: "HTTP requests served, by path and status code.",
			},
			[]string{"path", "code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "etatrack_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path"},
		),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "etatrack_http_requests_in_flight",
			Help: "HTTP requests currently being served.",
		}),
	}
	reg.MustRegister(s.requests, s.duration, s.inFlight)
	return s
}

// Middleware wraps next with request instrumentation.
func (s *HTTPStats) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		s.inFlight.Inc()
		defer s.inFlight.Dec()

		rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		s.requests.WithLabelValues(r.URL.Path, strconv.Itoa(rw.status)).Inc()
		s.duration.WithLabelValues(r.URL.Path).Observe(time.Since(start).Seconds())
	})
}

// statusWriter captures the response status code for the counters.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
