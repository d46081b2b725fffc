package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	coremetrics "github.com/kilianp07/parkalloc/core/metrics"
)

// PromSink records allocation runs in Prometheus metrics.
type PromSink struct {
	runs      *prometheus.CounterVec
	allocated *prometheus.GaugeVec
	capacity  *prometheus.GaugeVec
	shortfall prometheus.Gauge
	objective prometheus.Gauge
	latency   *prometheus.HistogramVec
	stages    *prometheus.CounterVec
}

// NewPromSink registers allocation metrics on the default Prometheus registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "parkalloc_runs_total",
			Help: "Allocation runs by path and solver status",
		}, []string{"path", "status"}),
		allocated: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "parkalloc_facility_allocated_vehicles",
			Help: "Vehicles allocated to each facility by the last run",
		}, []string{"facility_id"}),
		capacity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "parkalloc_facility_capacity_vehicles",
			Help: "Capacity of each facility in the last run",
		}, []string{"facility_id"}),
		shortfall: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "parkalloc_fallback_shortfall_vehicles",
			Help: "Demand left unplaced by the last fallback run",
		}),
		objective: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "parkalloc_objective_value",
			Help: "Weighted cost of the last allocation",
		}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "parkalloc_solve_duration_seconds",
			Help:    "Time spent in the linear program solver",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"status"}),
		stages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "parkalloc_stage_transitions_total",
			Help: "Allocator state machine transitions",
		}, []string{"stage"}),
	}

	var err error
	if s.runs, err = register(reg, s.runs); err != nil {
		return nil, err
	}
	if s.allocated, err = register(reg, s.allocated); err != nil {
		return nil, err
	}
	if s.capacity, err = register(reg, s.capacity); err != nil {
		return nil, err
	}
	if s.shortfall, err = register(reg, s.shortfall); err != nil {
		return nil, err
	}
	if s.objective, err = register(reg, s.objective); err != nil {
		return nil, err
	}
	if s.latency, err = register(reg, s.latency); err != nil {
		return nil, err
	}
	if s.stages, err = register(reg, s.stages); err != nil {
		return nil, err
	}
	return s, nil
}

// register returns the already registered collector when c was registered
// before, so several sinks can share one registry.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordAllocation updates run counters and per-facility gauges.
func (s *PromSink) RecordAllocation(ev coremetrics.AllocationEvent) error {
	s.runs.WithLabelValues(ev.Path, ev.SolverStatus).Inc()
	for _, f := range ev.Facilities {
		s.allocated.WithLabelValues(f.FacilityID).Set(f.Allocated)
		s.capacity.WithLabelValues(f.FacilityID).Set(float64(f.Capacity))
	}
	s.objective.Set(ev.Objective)
	return nil
}

// RecordFallback sets the shortfall gauge.
func (s *PromSink) RecordFallback(ev coremetrics.FallbackEvent) error {
	s.shortfall.Set(ev.Shortfall)
	return nil
}

// RecordSolveLatency observes the solver duration histogram.
func (s *PromSink) RecordSolveLatency(l coremetrics.SolveLatency) error {
	s.latency.WithLabelValues(l.SolverStatus).Observe(l.Latency.Seconds())
	return nil
}

// RecordStage counts a state machine transition.
func (s *PromSink) RecordStage(stage string) error {
	s.stages.WithLabelValues(stage).Inc()
	return nil
}

// StartPromServer starts an HTTP server exposing Prometheus metrics on the given address.
// The server runs until the provided context is canceled.
func StartPromServer(ctx context.Context, addr string, gatherer prometheus.Gatherer) error {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
