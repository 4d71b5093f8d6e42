package telegram

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Call outcomes recorded in botapi_requests_total.
const (
	outcomeOK             = "ok"
	outcomeInvalidParams  = "invalid_params"
	outcomeTransportError = "transport_error"
	outcomeDecodeError    = "decode_error"
	outcomeAPIError       = "api_error"
	outcomeMappingError   = "mapping_error"
)

// Metrics holds the Prometheus collectors updated by Bot, Poller and
// WebhookHandler. A nil *Metrics records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	updates  *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "botapi_requests_total",
			Help: "Bot API calls by method and outcome.",
		}, []string{"method", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "botapi_request_duration_seconds",
			Help:    "Bot API call latency, including long polls.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"method"}),
		updates: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "botapi_updates_total",
			Help: "Updates received by kind.",
		}, []string{"kind"}),
	}
}

func (m *Metrics) observeCall(method, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, outcome).Inc()
	if outcome != outcomeInvalidParams {
		m.duration.WithLabelValues(method).Observe(elapsed.Seconds())
	}
}

func (m *Metrics) observeUpdate(kind UpdateKind) {
	if m == nil {
		return
	}
	m.updates.WithLabelValues(string(kind)).Inc()
}
