package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/kilianp07/parkalloc/config"
	"github.com/kilianp07/parkalloc/core/allocation"
	"github.com/kilianp07/parkalloc/core/events"
	coremetrics "github.com/kilianp07/parkalloc/core/metrics"
	"github.com/kilianp07/parkalloc/infra/logger"
	"github.com/kilianp07/parkalloc/infra/metrics"
	"github.com/kilianp07/parkalloc/infra/mqtt"
	"github.com/kilianp07/parkalloc/internal/eventbus"
	"github.com/kilianp07/parkalloc/pkg/export"
)

// Service wires the allocator to its metrics sinks and report outputs.
type Service struct {
	cfg       *config.Config
	allocator *allocation.Allocator
	sink      coremetrics.MetricsSink
	bus       *eventbus.Bus[events.StageEvent]
	publisher mqtt.Publisher
	log       logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	if err := logger.Configure(cfg.Logging.Level, nil); err != nil {
		return nil, err
	}
	logg := logger.New("service")

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	var publisher mqtt.Publisher = mqtt.NopPublisher{}
	if cfg.MQTT.Enabled {
		p, err := mqtt.NewPahoPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		publisher = p
	}
	return NewWithDeps(cfg, sink, publisher, logg)
}

// NewWithDeps creates a Service with explicit sink, publisher and logger,
// used by New and by tests. The allocator logs through logg as well.
func NewWithDeps(cfg *config.Config, sink coremetrics.MetricsSink, publisher mqtt.Publisher, logg logger.Logger) (*Service, error) {
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	if publisher == nil {
		publisher = mqtt.NopPublisher{}
	}
	if logg == nil {
		logg = logger.NopLogger{}
	}
	bus := eventbus.New[events.StageEvent](16)
	alloc, err := allocation.NewAllocator(cfg.Allocation, nil, logg, sink, bus)
	if err != nil {
		return nil, err
	}
	return &Service{
		cfg:       cfg,
		allocator: alloc,
		sink:      sink,
		bus:       bus,
		publisher: publisher,
		log:       logg,
	}, nil
}

// Run computes one allocation for the configured facilities, writes the
// report to w in the configured format and publishes it when MQTT is
// enabled. A publish failure is logged and does not fail the run.
func (s *Service) Run(ctx context.Context, w io.Writer) (allocation.Result, error) {
	collectorCtx, stop := context.WithCancel(ctx)
	done := metrics.StartStageCollector(collectorCtx, s.bus, s.sink, s.log)
	defer func() {
		stop()
		<-done
	}()

	res := s.allocator.Allocate(ctx, s.cfg.Snapshot())
	if !res.Exact() {
		s.log.Warnf("exact allocation unavailable, fallback used: %s", res.Reason)
	}
	report := export.NewReport(res, time.Now())
	if err := export.Write(w, s.cfg.Report.Format, report); err != nil {
		return res, fmt.Errorf("write report: %w", err)
	}
	if err := s.publisher.Publish(ctx, report); err != nil {
		s.log.Errorf("publish report: %v", err)
	}
	return res, nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	return s.publisher.Close()
}
