package allocation

import (
	"errors"
	"math"
	"testing"

	"github.com/kilianp07/parkalloc/core/model"
)

func parkingSnapshot(demands ...int) model.Snapshot {
	fs := []model.Facility{
		{ID: "P1", Capacity: 50, Cost: 10, Proximity: 0.9, Traffic: 0.8, Preference: 0.7},
		{ID: "P2", Capacity: 30, Cost: 7, Proximity: 0.7, Traffic: 0.5, Preference: 0.9},
		{ID: "P3", Capacity: 20, Cost: 5, Proximity: 0.5, Traffic: 0.3, Preference: 0.6},
	}
	for i := range fs {
		if i < len(demands) {
			fs[i].Demand = demands[i]
		}
	}
	return model.NewSnapshot(fs)
}

func TestWeights(t *testing.T) {
	got := Weights(parkingSnapshot(20, 15, 10))
	want := []float64{10.6, 7.7, 5.4}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("weight %d: expected %v got %v", i, want[i], got[i])
		}
	}
}

func TestWeightCanBeNegative(t *testing.T) {
	w := Weight(model.Facility{ID: "x", Cost: 0, Proximity: 1, Traffic: 0, Preference: 0})
	if w != -1 {
		t.Fatalf("expected -1 got %v", w)
	}
}

func TestBuild(t *testing.T) {
	p, err := Build(parkingSnapshot(20, 0, 10), 0.5)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if p.NumVars() != 3 {
		t.Fatalf("expected 3 vars got %d", p.NumVars())
	}
	if r, c := p.Aeq.Dims(); r != 1 || c != 3 {
		t.Fatalf("equality matrix %dx%d", r, c)
	}
	for j := 0; j < 3; j++ {
		if p.Aeq.At(0, j) != 1 {
			t.Fatalf("equality coefficient %d is %v", j, p.Aeq.At(0, j))
		}
	}
	if p.Beq[0] != 30 {
		t.Fatalf("expected total demand 30 got %v", p.Beq[0])
	}

	if r, c := p.Aub.Dims(); r != 6 || c != 3 {
		t.Fatalf("inequality matrix %dx%d", r, c)
	}
	wantB := []float64{50, 30, 20, -25, 0, -10}
	for i, w := range wantB {
		if p.Bub[i] != w {
			t.Fatalf("bub[%d]: expected %v got %v", i, w, p.Bub[i])
		}
	}
	for i := 0; i < 3; i++ {
		if p.Aub.At(i, i) != 1 || p.Aub.At(3+i, i) != -1 {
			t.Fatalf("row layout wrong for facility %d", i)
		}
	}
	for i, b := range p.Bounds {
		if b.Lower != 0 || b.Upper != float64(parkingSnapshot().Facilities[i].Capacity) {
			t.Fatalf("bound %d: %+v", i, b)
		}
	}
}

func TestBuildErrors(t *testing.T) {
	if _, err := Build(model.Snapshot{}, 0.5); !errors.Is(err, model.ErrInvalidSnapshot) {
		t.Fatalf("expected ErrInvalidSnapshot got %v", err)
	}
	if _, err := Build(parkingSnapshot(1, 1, 1), 1.5); err == nil {
		t.Fatal("expected min utilization range error")
	}
}
