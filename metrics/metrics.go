package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/jrsteele09/go-token-server/internal/errors"
	"github.com/jrsteele09/go-token-server/token"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const (
	namespace     = "tokensrv"
	outcomeOK     = "success"
	scrapeTimeout = 2 * time.Second
)

// Metrics records auth operation outcomes and exposes registry size.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	reg        *prometheus.Registry
	operations *prometheus.CounterVec
}

// New registers the collectors on a fresh prometheus registry.
func New(registry token.Registry) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		reg: reg,
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_operations_total",
			Help:      "Auth operations by operation and outcome.",
		}, []string{"operation", "outcome"}),
	}

	reg.MustRegister(
		m.operations,
		newRegistryCollector(registry),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Observe counts one operation. A nil err is a success; otherwise the outcome is
// the error kind.
func (m *Metrics) Observe(operation string, err error) {
	if m == nil {
		return
	}
	outcome := outcomeOK
	if err != nil {
		outcome = errors.KindOf(err).String()
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
}

// Gatherer exposes the underlying registry, mainly for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.reg
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// registryCollector reads both registry sizes with a single Len call per scrape.
type registryCollector struct {
	registry token.Registry
	desc     *prometheus.Desc
}

func newRegistryCollector(registry token.Registry) *registryCollector {
	return &registryCollector{
		registry: registry,
		desc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "registry", "tokens"),
			"Live tokens held in the registry by kind.",
			[]string{"kind"}, nil,
		),
	}
}

func (c *registryCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

func (c *registryCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), scrapeTimeout)
	defer cancel()

	access, refresh, err := c.registry.Len(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Unable to read token registry size")
		return
	}
	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(access), "access")
	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(refresh), "refresh")
}
