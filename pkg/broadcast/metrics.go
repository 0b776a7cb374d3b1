package broadcast

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exports hub activity as Prometheus metrics.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	published   prometheus.Counter
	delivered   prometheus.Counter
	overwhelmed prometheus.Counter
	feeds       prometheus.Gauge
	buffered    prometheus.Gauge
}

// NewMetrics creates the hub metrics labelled with name and registers them
// with reg. A nil reg uses prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer, name string) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	labels := prometheus.Labels{"hub": name}

	m := &Metrics{
		published: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "reactive",
			Subsystem:   "hub",
			Name:        "published_total",
			ConstLabels: labels,
			Help:        "Total number of items published into the hub",
		}),
		delivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "reactive",
			Subsystem:   "hub",
			Name:        "delivered_total",
			ConstLabels: labels,
			Help:        "Total number of items handed to feed subscribers",
		}),
		overwhelmed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "reactive",
			Subsystem:   "hub",
			Name:        "overwhelmed_total",
			ConstLabels: labels,
			Help:        "Total number of feeds detached for lagging behind",
		}),
		feeds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "reactive",
			Subsystem:   "hub",
			Name:        "feeds",
			ConstLabels: labels,
			Help:        "Current number of attached feeds",
		}),
		buffered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "reactive",
			Subsystem:   "hub",
			Name:        "buffered",
			ConstLabels: labels,
			Help:        "Current number of items retained for replay",
		}),
	}

	var errs []error
	for _, c := range []prometheus.Collector{m.published, m.delivered, m.overwhelmed, m.feeds, m.buffered} {
		if err := reg.Register(c); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) recordPublish(buffered int) {
	if m == nil {
		return
	}
	m.published.Inc()
	m.buffered.Set(float64(buffered))
}

func (m *Metrics) recordDelivery() {
	if m == nil {
		return
	}
	m.delivered.Inc()
}

func (m *Metrics) recordOverwhelmed() {
	if m == nil {
		return
	}
	m.overwhelmed.Inc()
}

func (m *Metrics) setFeeds(n int) {
	if m == nil {
		return
	}
	m.feeds.Set(float64(n))
}
