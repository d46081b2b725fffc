package model

import (
	"errors"
	"math"
	"testing"
)

func sampleFacilities() []Facility {
	return []Facility{
		{ID: "P1", Capacity: 50, Cost: 10, Proximity: 0.9, Traffic: 0.8, Preference: 0.7, Demand: 20},
		{ID: "P2", Capacity: 30, Cost: 7, Proximity: 0.7, Traffic: 0.5, Preference: 0.9, Demand: 15},
		{ID: "P3", Capacity: 20, Cost: 5, Proximity: 0.5, Traffic: 0.3, Preference: 0.6, Demand: 10},
	}
}

func TestSnapshotTotals(t *testing.T) {
	s := NewSnapshot(sampleFacilities())
	if s.TotalDemand() != 45 {
		t.Fatalf("expected demand 45 got %d", s.TotalDemand())
	}
	if s.TotalCapacity() != 100 {
		t.Fatalf("expected capacity 100 got %d", s.TotalCapacity())
	}
	ids := s.IDs()
	if len(ids) != 3 || ids[0] != "P1" || ids[2] != "P3" {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestNewSnapshotCopies(t *testing.T) {
	fs := sampleFacilities()
	s := NewSnapshot(fs)
	fs[0].Capacity = 1
	if s.Facilities[0].Capacity != 50 {
		t.Fatalf("snapshot shares caller slice")
	}
}

func TestSnapshotValidate(t *testing.T) {
	if err := NewSnapshot(sampleFacilities()).Validate(); err != nil {
		t.Fatalf("valid snapshot rejected: %v", err)
	}

	cases := map[string]func(f []Facility){
		"empty id":       func(f []Facility) { f[0].ID = "" },
		"duplicate id":   func(f []Facility) { f[1].ID = "P1" },
		"neg capacity":   func(f []Facility) { f[0].Capacity = -1 },
		"neg demand":     func(f []Facility) { f[2].Demand = -5 },
		"neg cost":       func(f []Facility) { f[1].Cost = -0.1 },
		"nan cost":       func(f []Facility) { f[1].Cost = math.NaN() },
		"proximity high": func(f []Facility) { f[0].Proximity = 1.2 },
		"traffic low":    func(f []Facility) { f[0].Traffic = -0.1 },
		"preference nan": func(f []Facility) { f[0].Preference = math.NaN() },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			fs := sampleFacilities()
			mutate(fs)
			err := NewSnapshot(fs).Validate()
			if !errors.Is(err, ErrInvalidSnapshot) {
				t.Fatalf("expected ErrInvalidSnapshot got %v", err)
			}
		})
	}

	if err := (Snapshot{}).Validate(); !errors.Is(err, ErrInvalidSnapshot) {
		t.Fatalf("empty snapshot should be invalid")
	}
}
