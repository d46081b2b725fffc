package allocation

// Greedy allocates with capacity and demand only, ignoring the facility
// scores. Each facility first receives min(demand, capacity); the remaining
// shortfall is then handed out in input order to facilities with spare
// capacity until it is absorbed or every facility is full.
//
// Input order is the tie-break: facilities earlier in the slice always get
// the shortfall first. Negative values are treated as zero. The result never
// exceeds a facility's capacity.
func Greedy(capacities, demands []int) []float64 {
	n := len(capacities)
	alloc := make([]int, n)
	totalDemand := 0
	assigned := 0
	for i := 0; i < n; i++ {
		c := nonNegative(capacities[i])
		d := 0
		if i < len(demands) {
			d = nonNegative(demands[i])
		}
		alloc[i] = min(d, c)
		totalDemand += d
		assigned += alloc[i]
	}
	// Demand declared past the last facility still counts toward the total.
	for i := n; i < len(demands); i++ {
		totalDemand += nonNegative(demands[i])
	}

	shortfall := totalDemand - assigned
	for i := 0; i < n && shortfall > 0; i++ {
		extra := min(nonNegative(capacities[i])-alloc[i], shortfall)
		alloc[i] += extra
		shortfall -= extra
	}

	out := make([]float64, n)
	for i, a := range alloc {
		out[i] = float64(a)
	}
	return out
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
