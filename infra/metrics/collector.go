package metrics

import (
	"context"

	"github.com/kilianp07/parkalloc/core/events"
	coremetrics "github.com/kilianp07/parkalloc/core/metrics"
	"github.com/kilianp07/parkalloc/infra/logger"
	"github.com/kilianp07/parkalloc/internal/eventbus"
)

// StartStageCollector subscribes to the allocator stage bus and forwards each
// transition to sinks implementing StageRecorder. It returns a channel closed
// once the collector has stopped, which happens when ctx is cancelled or the
// bus is closed. Events already buffered when ctx is cancelled are still
// recorded.
func StartStageCollector(ctx context.Context, bus *eventbus.Bus[events.StageEvent], sink coremetrics.MetricsSink, log logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	rec, ok := sink.(coremetrics.StageRecorder)
	if bus == nil || !ok {
		close(done)
		return done
	}
	sub := bus.Subscribe()
	record := func(ev events.StageEvent) {
		if err := rec.RecordStage(string(ev.Stage)); err != nil && log != nil {
			log.Errorf("record stage %s: %v", ev.Stage, err)
		}
	}
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				for {
					select {
					case ev, ok := <-sub:
						if !ok {
							return
						}
						record(ev)
					default:
						return
					}
				}
			case ev, ok := <-sub:
				if !ok {
					return
				}
				record(ev)
			}
		}
	}()
	return done
}
