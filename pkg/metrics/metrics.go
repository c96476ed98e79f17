// Package metrics exports queue statistics to Prometheus.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/huynhanx03/go-workqueue/pkg/datastructs/queue"
)

const namespace = "workqueue"

// Source is a queue the Collector reads. Every queue type is a Source.
type Source interface {
	Name() string
	Stats() queue.Stats
}

// Collector is a prometheus.Collector reporting the Stats of its sources at
// scrape time.
type Collector struct {
	mu      sync.RWMutex
	sources []Source

	length       *prometheus.Desc
	maxSize      *prometheus.Desc
	pushed       *prometheus.Desc
	popped       *prometheus.Desc
	dropped      *prometheus.Desc
	waits        *prometheus.Desc
	waitDuration *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a Collector over sources.
func NewCollector(sources ...Source) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, []string{"queue"}, nil)
	}

	return &Collector{
		sources:      sources,
		length:       desc("length", "Number of items waiting in the queue"),
		maxSize:      desc("max_size", "Bound of the queue, 0 when unbounded"),
		pushed:       desc("pushed_total", "Items added to the queue"),
		popped:       desc("popped_total", "Items removed by consumers"),
		dropped:      desc("dropped_total", "Items discarded by the dropping policy"),
		waits:        desc("producer_waits_total", "Adds that waited for space"),
		waitDuration: desc("producer_wait_seconds_total", "Time producers spent waiting for space"),
	}
}

// Add registers more sources.
func (c *Collector) Add(sources ...Source) {
	c.mu.Lock()
	c.sources = append(c.sources, sources...)
	c.mu.Unlock()
}

// Describe sends metric descriptors to the channel
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.length
	ch <- c.maxSize
	ch <- c.pushed
	ch <- c.popped
	ch <- c.dropped
	ch <- c.waits
	ch <- c.waitDuration
}

// Collect snapshots every source and sends its metrics to the channel
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, src := range c.sources {
		s := src.Stats()
		name := src.Name()

		ch <- prometheus.MustNewConstMetric(c.length, prometheus.GaugeValue, float64(s.Len), name)
		ch <- prometheus.MustNewConstMetric(c.maxSize, prometheus.GaugeValue, float64(s.MaxSize), name)
		ch <- prometheus.MustNewConstMetric(c.pushed, prometheus.CounterValue, float64(s.Pushed), name)
		ch <- prometheus.MustNewConstMetric(c.popped, prometheus.CounterValue, float64(s.Popped), name)
		ch <- prometheus.MustNewConstMetric(c.dropped, prometheus.CounterValue, float64(s.Dropped), name)
		ch <- prometheus.MustNewConstMetric(c.waits, prometheus.CounterValue, float64(s.ProducerWaits), name)
		ch <- prometheus.MustNewConstMetric(c.waitDuration, prometheus.CounterValue, s.ProducerWaitTime.Seconds(), name)
	}
}

// Handler returns an http.Handler serving the metrics of c from a dedicated
// registry.
func Handler(c *Collector) http.Handler {
	registry := prometheus.NewRegistry()
	registry.MustRegister(c)
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
