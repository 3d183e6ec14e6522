package pubgen

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the build collectors. A nil *Metrics records nothing.
type Metrics struct {
	buildDuration prometheus.Histogram
	pagesWritten  *prometheus.CounterVec
	buildFailures *prometheus.CounterVec
	corpusPosts   prometheus.Gauge
	corpusTags    prometheus.Gauge
}

// NewMetrics creates the build collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		buildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pubgen",
			Name:      "build_duration_seconds",
			Help:      "Duration of full site builds.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		pagesWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pubgen",
			Name:      "pages_written_total",
			Help:      "Output files written, by kind.",
		}, []string{"kind"}),
		buildFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pubgen",
			Name:      "build_failures_total",
			Help:      "Builds aborted, by stage.",
		}, []string{"stage"}),
		corpusPosts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pubgen",
			Name:      "corpus_posts",
			Help:      "Posts in the last loaded corpus.",
		}),
		corpusTags: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pubgen",
			Name:      "corpus_tags",
			Help:      "Distinct tags in the last loaded corpus.",
		}),
	}
	for _, c := range []prometheus.Collector{m.buildDuration, m.pagesWritten, m.buildFailures, m.corpusPosts, m.corpusTags} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeBuild(d time.Duration) {
	if m == nil {
		return
	}
	m.buildDuration.Observe(d.Seconds())
}

func (m *Metrics) pageWritten(kind string) {
	if m == nil {
		return
	}
	m.pagesWritten.WithLabelValues(kind).Inc()
}

func (m *Metrics) buildFailed(stage string) {
	if m == nil {
		return
	}
	m.buildFailures.WithLabelValues(stage).Inc()
}

func (m *Metrics) corpusLoaded(posts, tags int) {
	if m == nil {
		return
	}
	m.corpusPosts.Set(float64(posts))
	m.corpusTags.Set(float64(tags))
}
