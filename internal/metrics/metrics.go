package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agbru/sitterdiff/internal/editscript"
	apperrors "github.com/agbru/sitterdiff/internal/errors"
	"github.com/agbru/sitterdiff/internal/truediff"
)

const namespace = "sitterdiff"

// Metrics holds the Prometheus collectors for diff activity. Each instance
// owns its registry, so several can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	diffsTotal    prometheus.Counter
	errorsTotal   *prometheus.CounterVec
	editsTotal    *prometheus.CounterVec
	duration      prometheus.Histogram
	reusedTotal   prometheus.Counter
	nodesTotal    *prometheus.CounterVec
	heapAllocated prometheus.GaugeFunc
	systemCPU     prometheus.GaugeFunc
	systemMemory  prometheus.GaugeFunc
}

// NewMetrics registers the diff collectors together with the Go runtime
// and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	memory := NewMemoryCollector()

	m := &Metrics{
		registry: reg,
		diffsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "diffs_total",
			Help:      "Number of completed tree comparisons.",
		}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "diff_errors_total",
			Help:      "Number of failed comparisons by error kind.",
		}, []string{"kind"}),
		editsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edits_total",
			Help:      "Number of emitted edits by edit kind.",
		}, []string{"kind"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "diff_duration_seconds",
			Help:      "Time spent comparing two prepared trees.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		reusedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_reused_total",
			Help:      "Number of old nodes carried over into new trees.",
		}),
		nodesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_total",
			Help:      "Number of compared nodes by side.",
		}, []string{"side"}),
		heapAllocated: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "heap_alloc_bytes",
			Help:      "Heap bytes in use at scrape time.",
		}, func() float64 { return float64(memory.Snapshot().HeapAlloc) }),
		systemCPU: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "system_cpu_percent",
			Help:      "System-wide CPU usage since the previous scrape.",
		}, func() float64 { return SampleSystem().CPUPercent }),
		systemMemory: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "system_memory_percent",
			Help:      "System-wide memory in use.",
		}, func() float64 { return SampleSystem().MemPercent }),
	}

	reg.MustRegister(
		m.diffsTotal, m.errorsTotal, m.editsTotal, m.duration,
		m.reusedTotal, m.nodesTotal, m.heapAllocated,
		m.systemCPU, m.systemMemory,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	return m
}

// Registry exposes the underlying registry, e.g. for gathering in tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler returns the exposition handler for this instance's registry.
func (m *Metrics) Handler() http.Handler { return m.handler }

// WritePrometheus serves the exposition format.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}

// ObserveDiff records a successful comparison. It satisfies
// truediff.Recorder.
func (m *Metrics) ObserveDiff(stats truediff.Stats, counts map[editscript.Kind]int) {
	m.diffsTotal.Inc()
	m.duration.Observe(stats.Duration.Seconds())
	m.reusedTotal.Add(float64(stats.Reused))
	m.nodesTotal.WithLabelValues("old").Add(float64(stats.OldNodes))
	m.nodesTotal.WithLabelValues("new").Add(float64(stats.NewNodes))
	for kind, n := range counts {
		if n > 0 {
			m.editsTotal.WithLabelValues(kind.String()).Add(float64(n))
		}
	}
}

// ObserveError records a failed comparison under the kind of err. Errors
// that never passed through the unified error value count as "message",
// cancellations as "canceled".
func (m *Metrics) ObserveError(err error) {
	if err == nil {
		return
	}
	label := "canceled"
	if !apperrors.IsContextError(err) {
		kind, _ := apperrors.KindOf(err)
		label = kind.String()
	}
	m.errorsTotal.WithLabelValues(label).Inc()
}

var _ truediff.Recorder = (*Metrics)(nil)
