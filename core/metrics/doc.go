// Package metrics defines the sinks that observe allocation runs. Sinks such
// as the Prometheus and InfluxDB implementations in infra/metrics record one
// AllocationEvent per run and can be combined with NewMultiSink. The factory
// helpers build sinks by type name and return a MultiSink automatically when
// several are configured.
package metrics
