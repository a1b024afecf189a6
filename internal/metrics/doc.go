// Package metrics records what a rewrite run did.
//
// Components receive a Recorder and default to NoopRecorder, so nothing needs a
// nil check. The CLI swaps in a PrometheusRecorder when --metrics-file is set and
// writes the registry in text exposition format after the run, ready for the
// node exporter's textfile collector:
//
//	reg := prometheus.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	rw, _ := rewrite.New(cfg, links, rewrite.WithRecorder(rec))
//	...
//	_ = metrics.WriteTextfile(path, reg)
package metrics
