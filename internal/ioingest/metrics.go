package ioingest

import (
	"github.com/mdverse/mddb/pkg/mddb"
	"github.com/prometheus/client_golang/prometheus"
)

// writeMetrics stores the run summary in Prometheus text format, to be
// picked up by node_exporter's textfile collector.
func writeMetrics(path string, s *mddb.Summary) error {
	reg := prometheus.NewRegistry()
	labels := prometheus.Labels{"run_id": s.RunID}

	inserted := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name:        "mddb_ingest_inserted_rows",
		Help:        "Rows inserted by the last ingestion run.",
		ConstLabels: labels,
	}, []string{"table"})
	skipped := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name:        "mddb_ingest_skipped_records",
		Help:        "Records skipped by the last ingestion run.",
		ConstLabels: labels,
	}, []string{"kind"})
	resolved := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name:        "mddb_ingest_created_dimension_rows",
		Help:        "Dimension rows created by the last ingestion run.",
		ConstLabels: labels,
	}, []string{"table"})
	recovered := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "mddb_ingest_recovered_duplicates",
		Help:        "Unique violations recovered by a lookup.",
		ConstLabels: labels,
	})
	duration := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "mddb_ingest_duration_seconds",
		Help:        "Duration of the last ingestion run.",
		ConstLabels: labels,
	})

	reg.MustRegister(inserted, skipped, resolved, recovered, duration)

	for k, v := range s.Inserted {
		inserted.WithLabelValues(k).Set(float64(v))
	}
	for _, kind := range []mddb.ErrorKind{
		mddb.Referential, mddb.Duplicate, mddb.Malformed,
	} {
		skipped.WithLabelValues(string(kind)).Set(float64(s.Skipped[kind]))
	}
	for k, v := range s.Resolved {
		resolved.WithLabelValues(k).Set(float64(v))
	}
	recovered.Set(float64(s.RecoveredDuplicates))
	duration.Set(s.Duration.Seconds())

	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return MetricsError(path, err)
	}
	return nil
}
