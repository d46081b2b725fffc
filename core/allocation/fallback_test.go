package allocation

import (
	"reflect"
	"testing"
)

func TestGreedy(t *testing.T) {
	cases := []struct {
		name       string
		capacities []int
		demands    []int
		want       []float64
	}{
		{"within capacity", []int{50, 30, 20}, []int{20, 15, 10}, []float64{20, 15, 10}},
		{"overcommitted", []int{50, 30, 20}, []int{60, 40, 30}, []float64{50, 30, 20}},
		{"shortfall to spare capacity", []int{10, 50, 30}, []int{30, 5, 5}, []float64{10, 25, 5}},
		{"shortfall split in order", []int{10, 12, 30}, []int{30, 5, 5}, []float64{10, 12, 18}},
		{"negative treated as zero", []int{-5, 10}, []int{3, -2}, []float64{0, 3}},
		{"empty", nil, nil, []float64{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Greedy(tc.capacities, tc.demands)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %v got %v", tc.want, got)
			}
		})
	}
}

func TestGreedyNeverExceedsCapacity(t *testing.T) {
	caps := []int{3, 0, 7, 1}
	demands := []int{9, 4, 2, 8}
	got := Greedy(caps, demands)
	var sum float64
	for i, a := range got {
		if a < 0 || a > float64(caps[i]) {
			t.Fatalf("allocation %d out of range: %v", i, a)
		}
		sum += a
	}
	if sum != 11 {
		t.Fatalf("expected every seat used, got %v", sum)
	}
}

func TestGreedyDeterministic(t *testing.T) {
	caps := []int{10, 50, 30}
	demands := []int{30, 5, 5}
	first := Greedy(caps, demands)
	for i := 0; i < 10; i++ {
		if got := Greedy(caps, demands); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs: %v vs %v", i, got, first)
		}
	}
}

func TestGreedyOrderIsTieBreak(t *testing.T) {
	a := Greedy([]int{10, 20, 20}, []int{25, 0, 0})
	b := Greedy([]int{10, 20, 20}, []int{25, 0, 0})
	if !reflect.DeepEqual(a, []float64{10, 15, 0}) || !reflect.DeepEqual(a, b) {
		t.Fatalf("shortfall must go to the first facility with room, got %v", a)
	}
}

func TestGreedyDoesNotMutateInputs(t *testing.T) {
	caps := []int{5, 5}
	demands := []int{9, 0}
	Greedy(caps, demands)
	if caps[0] != 5 || demands[0] != 9 {
		t.Fatalf("inputs mutated: %v %v", caps, demands)
	}
}
