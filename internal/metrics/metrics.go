package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the feed pipeline metrics on a private registry
type Collector struct {
	reg *prometheus.Registry

	Fetches       *prometheus.CounterVec // group, result: ok|error
	FetchDuration *prometheus.HistogramVec
	DecodeErrors  *prometheus.CounterVec
	Entities      *prometheus.GaugeVec
	LastUpdate    *prometheus.GaugeVec // unix seconds
}

// NewCollector registers all metrics on a fresh registry
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		Fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nexttrain_feed_fetches_total",
			Help: "Feed group fetches by result.",
		}, []string{"group", "result"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nexttrain_feed_fetch_seconds",
			Help:    "Feed group fetch latency including retries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"group"}),
		DecodeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nexttrain_feed_decode_errors_total",
			Help: "Feed payloads that failed to decode.",
		}, []string{"group"}),
		Entities: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "nexttrain_feed_entities",
			Help: "Entities in the latest snapshot of a feed group.",
		}, []string{"group"}),
		LastUpdate: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "nexttrain_feed_last_update_seconds",
			Help: "Unix time of the latest successful snapshot of a feed group.",
		}, []string{"group"}),
	}

	reg.MustRegister(
		c.Fetches,
		c.FetchDuration,
		c.DecodeErrors,
		c.Entities,
		c.LastUpdate,
		collectors.NewGoCollector(),
	)
	return c
}

// ObserveFetch records one fetch attempt sequence for a group
func (c *Collector) ObserveFetch(group string, d time.Duration, err error) {
	if c == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.Fetches.WithLabelValues(label(group), result).Inc()
	c.FetchDuration.WithLabelValues(label(group)).Observe(d.Seconds())
}

// ObserveDecodeError counts a payload that failed to decode
func (c *Collector) ObserveDecodeError(group string) {
	if c == nil {
		return
	}
	c.DecodeErrors.WithLabelValues(label(group)).Inc()
}

// ObserveSnapshot records the size and time of a stored snapshot
func (c *Collector) ObserveSnapshot(group string, entities int, at time.Time) {
	if c == nil {
		return
	}
	c.Entities.WithLabelValues(label(group)).Set(float64(entities))
	c.LastUpdate.WithLabelValues(label(group)).Set(float64(at.Unix()))
}

// Registry exposes the underlying registry, mostly for tests
func (c *Collector) Registry() *prometheus.Registry { return c.reg }

// Handler serves the registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

// the numbered-line group has an empty suffix
func label(group string) string {
	if group == "" {
		return "numbered"
	}
	return group
}
