// Package metrics records API and query activity in a private Prometheus
// registry that can be dumped in text format on exit.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"robin/internal/domain"
	"robin/internal/eventbus"
)

const namespace = "robin"

// Recorder holds the application metrics
type Recorder struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	EventsTotal     *prometheus.CounterVec
	QueriesTotal    *prometheus.CounterVec
	SelectionSize   *prometheus.GaugeVec
}

// New creates a recorder with its own registry
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Count of API requests by operation and HTTP status (0 for transport errors).",
		}, []string{"op", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Time taken for an API request to complete.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		EventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Count of domain events published.",
		}, []string{"type"}),
		QueriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Count of stats queries by outcome.",
		}, []string{"outcome"}),
		SelectionSize: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "selection_size",
			Help:      "Number of selected items per collection.",
		}, []string{"collection"}),
	}
}

// ObserveRequest implements api.Observer
func (r *Recorder) ObserveRequest(op string, status int, elapsed time.Duration) {
	r.RequestsTotal.WithLabelValues(op, strconv.Itoa(status)).Inc()
	r.RequestDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// Subscribe records domain events from bus. The returned func unsubscribes.
func (r *Recorder) Subscribe(bus eventbus.EventBus) func() {
	types := []domain.EventType{
		domain.EventPageLoaded,
		domain.EventSelectionChanged,
		domain.EventQueryOpened,
		domain.EventQueryRejected,
		domain.EventQuerySubmitted,
		domain.EventQuerySucceeded,
		domain.EventQueryCleared,
		domain.EventPendingToggled,
		domain.EventRequestFailed,
	}

	unsubs := make([]func(), 0, len(types))
	for _, t := range types {
		unsubs = append(unsubs, bus.Subscribe(t, r.Record))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// Record updates counters for a single event
func (r *Recorder) Record(e domain.DomainEvent) {
	r.EventsTotal.WithLabelValues(string(e.Type())).Inc()

	switch ev := e.(type) {
	case domain.SelectionChangedEvent:
		r.SelectionSize.WithLabelValues(string(ev.Collection)).Set(float64(ev.Total))
	case domain.QueryRejectedEvent:
		r.QueriesTotal.WithLabelValues("rejected").Inc()
	case domain.QuerySucceededEvent:
		r.QueriesTotal.WithLabelValues("success").Inc()
	case domain.RequestFailedEvent:
		if ev.Collection == domain.CollectionStats {
			r.QueriesTotal.WithLabelValues("failed").Inc()
		}
	}
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// WriteTextfile writes all metrics in Prometheus text format to path
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
