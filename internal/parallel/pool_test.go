package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
)

func TestWorkerPoolCreate(t *testing.T) {
	tests := []struct {
		workers int
		want    int
	}{
		{4, 4},
		{0, runtime.GOMAXPROCS(0)},
		{-5, runtime.GOMAXPROCS(0)},
	}
	for _, tt := range tests {
		pool := NewWorkerPool(tt.workers)
		if pool.Workers() != tt.want {
			t.Errorf("NewWorkerPool(%d).Workers() = %d, want %d", tt.workers, pool.Workers(), tt.want)
		}
		if !pool.IsRunning() {
			t.Errorf("NewWorkerPool(%d) is not running", tt.workers)
		}
		pool.Close()
	}
}

func TestWorkerPoolExecuteAll(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var counter atomic.Int64
	work := make([]func(), 100)
	for i := range work {
		work[i] = func() { counter.Add(1) }
	}
	pool.ExecuteAll(work)

	if counter.Load() != 100 {
		t.Errorf("counter = %d, want 100", counter.Load())
	}
}

func TestWorkerPoolExecuteAllAfterClose(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Close()
	pool.Close()

	if pool.IsRunning() {
		t.Error("IsRunning() = true after Close")
	}
	ran := 0
	pool.ExecuteAll([]func(){func() { ran++ }, func() { ran++ }})
	if ran != 2 {
		t.Errorf("ran = %d after Close, want 2", ran)
	}
}

func TestWorkerPoolBands(t *testing.T) {
	tests := []struct {
		n, minBand int
		wantBands  int
	}{
		{0, 8, 0},
		{5, 8, 1},
		{16, 8, 2},
		{100, 1, 4},
		{100, 0, 4},
	}
	pool := NewWorkerPool(4)
	defer pool.Close()

	for _, tt := range tests {
		var mu sync.Mutex
		seen := make([]int, tt.n)
		bands := 0
		pool.Bands(tt.n, tt.minBand, func(lo, hi int) {
			mu.Lock()
			defer mu.Unlock()
			bands++
			for i := lo; i < hi; i++ {
				seen[i]++
			}
		})
		if bands != tt.wantBands {
			t.Errorf("Bands(%d, %d) ran %d bands, want %d", tt.n, tt.minBand, bands, tt.wantBands)
		}
		for i, c := range seen {
			if c != 1 {
				t.Errorf("Bands(%d, %d) visited %d %d times", tt.n, tt.minBand, i, c)
				break
			}
		}
	}
}
