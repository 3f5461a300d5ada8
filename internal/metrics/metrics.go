// Package metrics exposes Prometheus instruments for the bot and a small HTTP
// server for /metrics and /health.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	messages      *prometheus.CounterVec
	storeDuration *prometheus.HistogramVec
	sendErrors    prometheus.Counter
}

// New registers the instruments with reg. Pass prometheus.DefaultRegisterer in
// production and prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cherdak_messages_total",
			Help: "Messages handled, by dialogue state and outcome.",
		}, []string{"state", "outcome"}),
		storeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cherdak_store_duration_seconds",
			Help:    "Catalog store call latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
		sendErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cherdak_send_errors_total",
			Help: "Outbound Telegram messages that failed to send.",
		}),
	}

	reg.MustRegister(m.messages, m.storeDuration, m.sendErrors)
	return m
}

// ObserveMessage counts one handled message. state is the state the message
// arrived in.
func (m *Metrics) ObserveMessage(state, outcome string) {
	m.messages.WithLabelValues(state, outcome).Inc()
}

func (m *Metrics) ObserveSendError() {
	m.sendErrors.Inc()
}
