// Package metrics records conversion statistics as Prometheus metrics.
//
// A conversion is a batch job, so metrics are not served over HTTP but
// written to a file in the text exposition format, for collection by the
// node exporter's textfile collector.
package metrics

import (
	"time"

	"github.com/arnodel/jtlstream/jtl"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "jtlstream"

type Recorder struct {
	registry          *prometheus.Registry
	topLevelSamples   prometheus.Counter
	samples           prometheus.Counter
	responseDataBytes prometheus.Counter
	maxDepth          prometheus.Gauge
	duration          prometheus.Gauge
	lastSuccess       prometheus.Gauge
	conversions       *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		topLevelSamples: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "top_level_samples_total",
			Help:      "Number of top-level samples written as JSON lines.",
		}),
		samples: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_total",
			Help:      "Number of samples decoded at any nesting depth.",
		}),
		responseDataBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "response_data_bytes_total",
			Help:      "Total size of the response data captured.",
		}),
		maxDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "max_sample_depth",
			Help:      "Deepest sample nesting seen in the last conversion.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "conversion_duration_seconds",
			Help:      "Duration of the last conversion.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful conversion.",
		}),
		conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversions_total",
			Help:      "Number of conversions by result.",
		}, []string{"result"}),
	}
	r.registry.MustRegister(
		r.topLevelSamples,
		r.samples,
		r.responseDataBytes,
		r.maxDepth,
		r.duration,
		r.lastSuccess,
		r.conversions,
	)
	return r
}

// Observe records the outcome of one conversion.
func (r *Recorder) Observe(stats jtl.Stats, elapsed time.Duration, err error) {
	r.topLevelSamples.Add(float64(stats.TopLevelSamples))
	r.samples.Add(float64(stats.Samples))
	r.responseDataBytes.Add(float64(stats.ResponseDataBytes))
	r.maxDepth.Set(float64(stats.MaxDepth))
	r.duration.Set(elapsed.Seconds())
	if err != nil {
		r.conversions.WithLabelValues("failure").Inc()
		return
	}
	r.conversions.WithLabelValues("success").Inc()
	r.lastSuccess.SetToCurrentTime()
}

func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile atomically writes the current metrics to path.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
