// Package metrics records run, stage and per-route counters.
//
// Components hold a Recorder and default to NoopRecorder, so no call site
// needs a nil check:
//
//	p := processing.NewRouteProcessor(...).WithRecorder(recorder)
//
// PrometheusRecorder registers its collectors on a caller-supplied registry.
// The CLI writes that registry to a node-exporter textfile after each run
// when --metrics-file is set.
package metrics
