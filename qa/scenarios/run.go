package scenarios

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kilianp07/parkalloc/core/allocation"
	"github.com/kilianp07/parkalloc/infra/logger"
	"github.com/kilianp07/parkalloc/infra/metrics"
)

// RunScenario allocates the scenario snapshot and checks the result against
// the expectation and the allocation invariants.
func RunScenario(t *testing.T, sc *Scenario) {
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}

	alloc, err := allocation.NewAllocator(allocation.Config{MinUtilization: sc.MinUtilization}, nil, logger.NopLogger{}, sink, nil)
	if err != nil {
		t.Fatalf("allocator: %v", err)
	}

	snap := sc.Snapshot()
	res := alloc.Allocate(context.Background(), snap)

	if string(res.Path) != sc.Expected.Path {
		t.Errorf("path = %s, want %s (reason: %s)", res.Path, sc.Expected.Path, res.Reason)
	}
	if sc.Expected.SolverStatus != "" && res.SolverStatus.String() != sc.Expected.SolverStatus {
		t.Errorf("solver status = %s, want %s", res.SolverStatus, sc.Expected.SolverStatus)
	}

	counts := res.Counts()
	if len(counts) != len(sc.Expected.Counts) {
		t.Fatalf("got %d counts, want %d", len(counts), len(sc.Expected.Counts))
	}
	for i, want := range sc.Expected.Counts {
		if counts[i] != want {
			t.Errorf("%s: %d cars, want %d", res.IDs[i], counts[i], want)
		}
	}

	total := 0
	for i, c := range counts {
		f := snap.Facilities[i]
		if c < 0 || c > f.Capacity {
			t.Errorf("%s: %d cars outside [0,%d]", f.ID, c, f.Capacity)
		}
		total += c
	}
	if res.Exact() && total != snap.TotalDemand() {
		t.Errorf("exact total = %d, want demand %d", total, snap.TotalDemand())
	}

	series, err := testutil.GatherAndCount(reg, "parkalloc_runs_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if series != 1 {
		t.Errorf("runs series = %d, want 1", series)
	}
}
