package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"boxoffice/internal/pipeline"
)

type Registry struct {
	reg *prometheus.Registry

	RecordsRead    prometheus.Counter
	RecordsKept    prometheus.Counter
	RecordsDropped *prometheus.CounterVec
	Undecodable    prometheus.Counter
	PipelineSec    prometheus.Histogram
	MeanBoxOffice  prometheus.Gauge
	DatasetRecords prometheus.Gauge
	SinkPublished  *prometheus.CounterVec
	SinkFailed     *prometheus.CounterVec
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	read := prometheus.NewCounter(prometheus.CounterOpts{Name: "boxoffice_records_read_total", Help: "Raw movie records decoded from the input."})
	kept := prometheus.NewCounter(prometheus.CounterOpts{Name: "boxoffice_records_kept_total", Help: "Records kept in the working dataset."})
	dropped := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "boxoffice_records_dropped_total", Help: "Records excluded during normalization, by reason."}, []string{"reason"})
	undecodable := prometheus.NewCounter(prometheus.CounterOpts{Name: "boxoffice_records_undecodable_total", Help: "Array elements that did not decode as a movie record."})
	pipelineSec := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "boxoffice_pipeline_seconds",
		Help:    "Time spent normalizing and summarizing the input.",
		Buckets: prometheus.DefBuckets,
	})
	mean := prometheus.NewGauge(prometheus.GaugeOpts{Name: "boxoffice_mean_box_office", Help: "Mean inflation-adjusted box office of the working dataset."})
	records := prometheus.NewGauge(prometheus.GaugeOpts{Name: "boxoffice_dataset_records", Help: "Records in the last published dataset."})
	published := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "boxoffice_sink_published_total", Help: "Datasets published, by sink."}, []string{"sink"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "boxoffice_sink_failed_total", Help: "Dataset publish failures, by sink."}, []string{"sink"})

	r.MustRegister(read, kept, dropped, undecodable, pipelineSec, mean, records, published, failed)

	// Expose every reason at zero so absent drops still show up.
	for _, reason := range pipeline.DropReasons {
		dropped.WithLabelValues(string(reason))
	}

	return &Registry{
		reg:            r,
		RecordsRead:    read,
		RecordsKept:    kept,
		RecordsDropped: dropped,
		Undecodable:    undecodable,
		PipelineSec:    pipelineSec,
		MeanBoxOffice:  mean,
		DatasetRecords: records,
		SinkPublished:  published,
		SinkFailed:     failed,
	}
}

// ObserveReport records the outcome of a normalize pass.
func (r *Registry) ObserveReport(rep pipeline.Report) {
	r.RecordsRead.Add(float64(rep.Read))
	r.RecordsKept.Add(float64(rep.Kept))
	for reason, n := range rep.Dropped {
		r.RecordsDropped.WithLabelValues(string(reason)).Add(float64(n))
	}
}

// ObserveStats records the summary of the working dataset.
func (r *Registry) ObserveStats(st pipeline.Stats, records int) {
	r.MeanBoxOffice.Set(st.MeanBoxOffice)
	r.DatasetRecords.Set(float64(records))
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }

// WriteTextfile writes the current metrics in the text exposition format,
// for the node exporter textfile collector.
func (r *Registry) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
