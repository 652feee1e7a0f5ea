package workers

import (
	"runtime"
	"testing"
)

func TestCount(t *testing.T) {
	procs := runtime.GOMAXPROCS(0)

	tests := []struct {
		name       string
		override   int
		multiplier float64
		limit      int
		want       int
	}{
		{"One per CPU, no limit", 0, 1.0, 0, procs},
		{"Limit caps", 0, 1000.0, 3, 3},
		{"Tiny multiplier floors at one", 0, 0.0001, 0, 1},
		{"Override wins", 7, 1.0, 0, 7},
		{"Override capped by limit", 7, 1.0, 4, 4},
		{"Negative override ignored", -2, 1.0, 0, procs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Count(tt.override, tt.multiplier, tt.limit); got != tt.want {
				t.Errorf("Count(%d, %v, %d) = %d, want %d", tt.override, tt.multiplier, tt.limit, got, tt.want)
			}
		})
	}
}

func TestForCPU(t *testing.T) {
	procs := runtime.GOMAXPROCS(0)

	want := procs
	if want > 4 {
		want = 4
	}
	if got := ForCPU(0, 4); got != want {
		t.Errorf("ForCPU(0, 4) = %d, want %d", got, want)
	}
	if got := ForCPU(2, 4); got != 2 {
		t.Errorf("ForCPU(2, 4) = %d, want 2", got)
	}
}
