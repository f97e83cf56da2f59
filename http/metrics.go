package http

import (
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the request collectors of a Client.
// A nil *Metrics records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the client collectors with reg.
// A nil reg registers with prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shwary_client_requests_total",
				Help: "Total number of Shwary API requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shwary_client_request_duration_seconds",
				Help:    "Duration of Shwary API requests",
				Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10, 30},
			},
			[]string{"method", "endpoint"},
		),
	}
}

func (m *Metrics) observe(method, endpoint, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	label := EndpointLabel(endpoint)
	m.requests.WithLabelValues(method, label, status).Inc()
	m.duration.WithLabelValues(method, label).Observe(elapsed.Seconds())
}

// idSegments names the path segments whose successor is a caller-supplied identifier.
var idSegments = map[string]bool{
	"transactions": true,
}

// EndpointLabel reduces an endpoint to a bounded metric label. Query strings
// and hosts are dropped and transaction ids are replaced by "{id}".
func EndpointLabel(endpoint string) string {
	path := endpoint
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		path = u.Path
	}
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimPrefix(strings.Trim(path, "/"), APIVersion+"/")

	segments := strings.Split(path, "/")
	for i := 0; i < len(segments)-1; i++ {
		if idSegments[segments[i]] {
			segments[i+1] = "{id}"
			i++
		}
	}
	return strings.Join(segments, "/")
}
