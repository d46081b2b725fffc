package metrics

import "github.com/kilianp07/parkalloc/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusAddr, when set, exposes /metrics on this address while the
	// command runs.
	PrometheusAddr string `json:"prometheus_addr"`
}
