package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Provider holds the relay's Prometheus instruments. A nil Provider is
// valid and turns every observation into a no-op, which keeps tests free of
// global registry collisions.
type Provider struct {
	commands         *prometheus.CounterVec
	liveEntries      prometheus.Gauge
	sweptEntries     prometheus.Counter
	deliveryFailures prometheus.Counter
}

// Attach registers the relay metrics on the default registry and returns a
// provider handle.
func Attach() *Provider {
	return &Provider{
		commands: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "penny",
			Name:      "commands_total",
			Help:      "Registration commands processed, labelled by outcome",
		}, []string{"outcome"}),
		liveEntries: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "penny",
			Name:      "registry_entries",
			Help:      "Registration entries currently held in memory",
		}),
		sweptEntries: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "penny",
			Name:      "registry_swept_entries_total",
			Help:      "Expired entries removed by the background sweep",
		}),
		deliveryFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "penny",
			Name:      "private_delivery_failures_total",
			Help:      "Private deliveries that the chat platform rejected",
		}),
	}
}

// ObserveCommand counts one processed command under its outcome label.
func (p *Provider) ObserveCommand(outcome string) {
	if p == nil {
		return
	}
	p.commands.WithLabelValues(outcome).Inc()
}

// SetLiveEntries records the current registry size.
func (p *Provider) SetLiveEntries(n int) {
	if p == nil {
		return
	}
	p.liveEntries.Set(float64(n))
}

// AddSwept accumulates entries removed by a sweep pass.
func (p *Provider) AddSwept(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.sweptEntries.Add(float64(n))
}

// IncDeliveryFailure counts a failed private delivery.
func (p *Provider) IncDeliveryFailure() {
	if p == nil {
		return
	}
	p.deliveryFailures.Inc()
}
