// Package metrics records conversion counters for a batch run.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Conversion results.
const (
	ResultOK     = "ok"
	ResultFailed = "failed"
)

// Recorder holds the collectors of one run on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	PointsExtracted *prometheus.CounterVec
	EntitiesSkipped *prometheus.CounterVec
	PointsFiltered  prometheus.Counter
	Groups          prometheus.Counter
	Lines           prometheus.Counter
	SafetyChecks    prometheus.Counter
	Conversions     *prometheus.CounterVec
	StageDuration   *prometheus.HistogramVec
}

func New() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Recorder{
		registry: reg,
		PointsExtracted: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edgedrill_points_extracted_total",
				Help: "Drill points read from DXF documents",
			},
			[]string{"direction"},
		),
		EntitiesSkipped: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edgedrill_entities_skipped_total",
				Help: "Entities on drilling layers that were skipped",
			},
			[]string{"severity"},
		),
		PointsFiltered: f.NewCounter(prometheus.CounterOpts{
			Name: "edgedrill_points_filtered_total",
			Help: "Vertical drill points removed before grouping",
		}),
		Groups: f.NewCounter(prometheus.CounterOpts{
			Name: "edgedrill_tool_groups_total",
			Help: "Tool groups emitted into programs",
		}),
		Lines: f.NewCounter(prometheus.CounterOpts{
			Name: "edgedrill_gcode_lines_total",
			Help: "G-code lines written",
		}),
		SafetyChecks: f.NewCounter(prometheus.CounterOpts{
			Name: "edgedrill_safety_checks_total",
			Help: "Safety checks inserted before feed moves",
		}),
		Conversions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edgedrill_conversions_total",
				Help: "DXF documents converted, by result",
			},
			[]string{"result"},
		),
		StageDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "edgedrill_stage_duration_seconds",
				Help:    "Time spent in each pipeline stage",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"stage"},
		),
	}
}

// Time observes the time since start for stage.
func (r *Recorder) Time(stage string, start time.Time) {
	r.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

func (r *Recorder) Conversion(err error) {
	result := ResultOK
	if err != nil {
		result = ResultFailed
	}
	r.Conversions.WithLabelValues(result).Inc()
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes the registry in the text exposition format, for
// collection by a node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
