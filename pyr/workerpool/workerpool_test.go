// Copyright 2025 go-pyramid Authors. SPDX-License-Identifier: Apache-2.0

package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
)

func TestNew(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	if pool.NumWorkers() != 4 {
		t.Errorf("NumWorkers() = %d, want 4", pool.NumWorkers())
	}
}

func TestNewDefault(t *testing.T) {
	pool := New(0)
	defer pool.Close()

	if pool.NumWorkers() != runtime.GOMAXPROCS(0) {
		t.Errorf("NumWorkers() = %d, want %d", pool.NumWorkers(), runtime.GOMAXPROCS(0))
	}
}

func TestParallelForWorker(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	n := 1000
	results := make([]int, n)
	var busy [4]atomic.Int32
	var overlap atomic.Bool

	pool.ParallelForWorker(n, func(worker, i int) {
		if busy[worker].Add(1) != 1 {
			overlap.Store(true)
		}
		results[i] = i + 1
		busy[worker].Add(-1)
	})

	if overlap.Load() {
		t.Error("two concurrent calls shared a worker slot")
	}
	for i := range n {
		if results[i] != i+1 {
			t.Fatalf("results[%d] = %d, want %d", i, results[i], i+1)
		}
	}
}

func TestParallelForWorker_SlotRange(t *testing.T) {
	pool := New(3)
	defer pool.Close()

	var mu sync.Mutex
	seen := map[int]bool{}
	pool.ParallelForWorker(50, func(worker, i int) {
		mu.Lock()
		seen[worker] = true
		mu.Unlock()
	})
	for w := range seen {
		if w < 0 || w >= 3 {
			t.Errorf("worker slot %d outside [0,3)", w)
		}
	}
}

func TestClosedPoolRunsSequentially(t *testing.T) {
	pool := New(4)
	pool.Close()
	pool.Close()

	sum := 0
	pool.ParallelForWorker(10, func(worker, i int) {
		if worker != 0 {
			t.Errorf("closed pool: worker = %d, want 0", worker)
		}
		sum += i
	})
	if sum != 45 {
		t.Errorf("sum = %d, want 45", sum)
	}
}

func TestZeroItems(t *testing.T) {
	pool := New(2)
	defer pool.Close()

	pool.ParallelForWorker(0, func(worker, i int) { t.Error("fn called for n=0") })
}

func BenchmarkParallelForWorker(b *testing.B) {
	pool := New(0)
	defer pool.Close()
	data := make([]float32, 1<<16)

	for b.Loop() {
		pool.ParallelForWorker(len(data)/1024, func(worker, i int) {
			chunk := data[i*1024 : (i+1)*1024]
			for j := range chunk {
				chunk[j] += 1
			}
		})
	}
}
