// Package metrics records batch run outcomes.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics stay optional:
//
//	recorder := metrics.NewPrometheusRecorder(prometheus.NewRegistry())
//	runner := pipeline.NewRunner(table, opts).WithRecorder(recorder)
//
// A one-shot CLI has no scrape endpoint, so the Prometheus recorder exports
// its registry in text exposition format for the node_exporter textfile
// collector (see PrometheusRecorder.WriteTextfile).
package metrics
