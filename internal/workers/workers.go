package workers

import (
	"runtime"
)

// Count returns a worker count of multiplier workers per available CPU,
// at least 1 and at most limit (0 = no limit). A positive override wins
// over the computed value.
func Count(override int, multiplier float64, limit int) int {
	workers := override
	if workers <= 0 {
		workers = int(float64(runtime.GOMAXPROCS(0)) * multiplier)
	}

	if workers < 1 {
		workers = 1
	}
	if limit > 0 && workers > limit {
		workers = limit
	}
	return workers
}

// ForCPU returns worker count for CPU-bound tasks (1 per CPU).
func ForCPU(override, limit int) int {
	return Count(override, 1.0, limit)
}
