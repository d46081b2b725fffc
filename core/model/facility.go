package model

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSnapshot is wrapped by every validation failure of a Snapshot.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Facility represents a parking site able to receive allocated vehicles.
type Facility struct {
	ID         string  `json:"id" yaml:"id"`
	Capacity   int     `json:"capacity" yaml:"capacity"`     // upper bound on assigned vehicles
	Cost       float64 `json:"cost" yaml:"cost"`             // per-vehicle usage cost
	Proximity  float64 `json:"proximity" yaml:"proximity"`   // 0..1, higher is closer
	Traffic    float64 `json:"traffic" yaml:"traffic"`       // 0..1, higher is worse
	Preference float64 `json:"preference" yaml:"preference"` // 0..1, higher is better
	Demand     int     `json:"demand" yaml:"demand"`         // vehicles requested at this site
}

// Validate checks that the facility attributes are within their domains.
func (f Facility) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("facility id is required")
	}
	if f.Capacity < 0 {
		return fmt.Errorf("facility %s: capacity must be non-negative", f.ID)
	}
	if f.Demand < 0 {
		return fmt.Errorf("facility %s: demand must be non-negative", f.ID)
	}
	if math.IsNaN(f.Cost) || math.IsInf(f.Cost, 0) || f.Cost < 0 {
		return fmt.Errorf("facility %s: cost must be a finite non-negative number", f.ID)
	}
	scores := []struct {
		name string
		v    float64
	}{
		{"proximity", f.Proximity},
		{"traffic", f.Traffic},
		{"preference", f.Preference},
	}
	for _, s := range scores {
		if math.IsNaN(s.v) || s.v < 0 || s.v > 1 {
			return fmt.Errorf("facility %s: %s must be in [0,1]", f.ID, s.name)
		}
	}
	return nil
}

// Snapshot is the ordered set of facilities for one allocation run. The order
// of Facilities is significant: every parallel array derived from it shares
// the same order, and the greedy fallback breaks ties by it.
type Snapshot struct {
	Facilities []Facility `json:"facilities" yaml:"facilities"`
}

// NewSnapshot copies the facilities so later changes by the caller do not
// leak into a running allocation.
func NewSnapshot(facilities []Facility) Snapshot {
	cp := make([]Facility, len(facilities))
	copy(cp, facilities)
	return Snapshot{Facilities: cp}
}

// Len returns the number of facilities.
func (s Snapshot) Len() int { return len(s.Facilities) }

// Validate checks every facility and that identifiers are unique.
func (s Snapshot) Validate() error {
	if len(s.Facilities) == 0 {
		return fmt.Errorf("%w: no facilities", ErrInvalidSnapshot)
	}
	seen := make(map[string]struct{}, len(s.Facilities))
	for _, f := range s.Facilities {
		if err := f.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
		}
		if _, dup := seen[f.ID]; dup {
			return fmt.Errorf("%w: duplicate facility id %s", ErrInvalidSnapshot, f.ID)
		}
		seen[f.ID] = struct{}{}
	}
	return nil
}

// IDs returns the facility identifiers in snapshot order.
func (s Snapshot) IDs() []string {
	out := make([]string, len(s.Facilities))
	for i, f := range s.Facilities {
		out[i] = f.ID
	}
	return out
}

// Capacities returns the capacities in snapshot order.
func (s Snapshot) Capacities() []int {
	out := make([]int, len(s.Facilities))
	for i, f := range s.Facilities {
		out[i] = f.Capacity
	}
	return out
}

// Demands returns the demands in snapshot order.
func (s Snapshot) Demands() []int {
	out := make([]int, len(s.Facilities))
	for i, f := range s.Facilities {
		out[i] = f.Demand
	}
	return out
}

// TotalDemand sums the demand of all facilities.
func (s Snapshot) TotalDemand() int {
	total := 0
	for _, f := range s.Facilities {
		total += f.Demand
	}
	return total
}

// TotalCapacity sums the capacity of all facilities.
func (s Snapshot) TotalCapacity() int {
	total := 0
	for _, f := range s.Facilities {
		total += f.Capacity
	}
	return total
}
