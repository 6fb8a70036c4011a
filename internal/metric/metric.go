// Package metric exposes the calendar's Prometheus collectors.
package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gridcal"

// Recorder groups the collectors. A nil *Recorder is valid and records
// nothing, so packages can take one without caring whether metrics are on.
type Recorder struct {
	mutations  *prometheus.CounterVec
	rejections *prometheus.CounterVec
	events     prometheus.Gauge
	viewBuild  *prometheus.HistogramVec
	captures   *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		mutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_mutations_total",
			Help:      "Accepted event store mutations by operation.",
		}, []string{"op"}),
		rejections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_rejections_total",
			Help:      "Rejected event mutations by reason.",
		}, []string{"reason"}),
		events: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "events",
			Help:      "Events currently held by the store.",
		}),
		viewBuild: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "view_build_seconds",
			Help:      "Time spent building a view model.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
		}, []string{"mode"}),
		captures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "preview_captures_total",
			Help:      "Preview captures by result.",
		}, []string{"result"}),
	}
}

func (r *Recorder) Mutation(op string, total int) {
	if r == nil {
		return
	}
	r.mutations.WithLabelValues(op).Inc()
	r.events.Set(float64(total))
}

func (r *Recorder) Rejection(reason string) {
	if r == nil {
		return
	}
	r.rejections.WithLabelValues(reason).Inc()
}

func (r *Recorder) Events(total int) {
	if r == nil {
		return
	}
	r.events.Set(float64(total))
}

func (r *Recorder) ViewBuilt(mode string, d time.Duration) {
	if r == nil {
		return
	}
	r.viewBuild.WithLabelValues(mode).Observe(d.Seconds())
}

func (r *Recorder) Capture(err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.captures.WithLabelValues(result).Inc()
}
