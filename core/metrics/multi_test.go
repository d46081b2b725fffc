package metrics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordSink struct {
	count int
	err   error
}

func (r *recordSink) RecordAllocation(AllocationEvent) error {
	r.count++
	return r.err
}

func (r *recordSink) RecordFallback(FallbackEvent) error {
	r.count++
	return nil
}

// allocOnly does not implement the optional recorders.
type allocOnly struct{ count int }

func (a *allocOnly) RecordAllocation(AllocationEvent) error {
	a.count++
	return nil
}

func TestMultiSink(t *testing.T) {
	s1 := &recordSink{}
	s2 := &allocOnly{}
	m := NewMultiSink(s1, s2)
	require.NoError(t, m.RecordAllocation(AllocationEvent{}))
	require.NoError(t, m.RecordFallback(FallbackEvent{}))
	require.NoError(t, m.RecordSolveLatency(SolveLatency{}))
	assert.Equal(t, 2, s1.count)
	assert.Equal(t, 1, s2.count)
}

func TestMultiSinkStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	s1 := &recordSink{err: boom}
	s2 := &recordSink{}
	m := NewMultiSink(s1, s2)
	assert.ErrorIs(t, m.RecordAllocation(AllocationEvent{}), boom)
	assert.Equal(t, 0, s2.count)
}

func TestAllocationEventAllocated(t *testing.T) {
	ev := AllocationEvent{Facilities: []FacilityAllocation{{Allocated: 20}, {Allocated: 15.5}}}
	assert.InDelta(t, 35.5, ev.Allocated(), 1e-9)
}

type stageSink struct {
	allocOnly
	stages []string
	closed bool
}

func (s *stageSink) RecordStage(stage string) error {
	s.stages = append(s.stages, stage)
	return nil
}

func (s *stageSink) Close() { s.closed = true }

func TestMultiSinkStagesAndClose(t *testing.T) {
	s1 := &stageSink{}
	m := NewMultiSink(s1, &allocOnly{})
	require.NoError(t, m.RecordStage("fallback"))
	m.Close()
	assert.Equal(t, []string{"fallback"}, s1.stages)
	assert.True(t, s1.closed)
}
