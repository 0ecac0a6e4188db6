// Copyright 2025 go-pyramid Authors. SPDX-License-Identifier: Apache-2.0

package pyramid

import (
	"errors"
	"testing"

	"github.com/ajroetker/go-pyramid/pyr/engine/enginetest"
	"github.com/ajroetker/go-pyramid/pyr/engine/soft"
	"github.com/ajroetker/go-pyramid/pyr/image"
)

func TestPoolDownsampleBatch(t *testing.T) {
	e := enginetest.New[uint8](soft.New[uint8]())
	pool, err := NewPool[uint8](e, 3, 96, 64, 12, 8)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	if pool.NumWorkers() != 3 {
		t.Errorf("NumWorkers: got %d, want 3", pool.NumWorkers())
	}
	if got := len(pool.Levels()); got != 4 {
		t.Errorf("Levels: got %d, want 4", got)
	}

	const n = 20
	srcs := make([][]uint8, n)
	dsts := make([][]uint8, n)
	for i := range n {
		srcs[i] = make([]uint8, 96*64)
		for j := range srcs[i] {
			srcs[i][j] = uint8(10 * i)
		}
		dsts[i] = make([]uint8, 12*8)
	}
	if err := pool.DownsampleBatch(srcs, dsts); err != nil {
		t.Fatalf("DownsampleBatch: %v", err)
	}
	for i := range n {
		for _, v := range dsts[i] {
			if v != uint8(10*i) {
				t.Fatalf("image %d: got %d, want %d", i, v, 10*i)
			}
		}
	}

	pool.Close()
	if e.Live() != 0 || e.BadFrees() != 0 {
		t.Errorf("after Close: %d live, %d bad frees", e.Live(), e.BadFrees())
	}
	if err := pool.DownsampleBatch(srcs, dsts); !errors.Is(err, ErrClosed) {
		t.Errorf("after Close: got %v, want ErrClosed", err)
	}
}

func TestPoolBatchErrors(t *testing.T) {
	pool, err := NewPool[float32](soft.New[float32](), 2, 32, 32, 8, 8)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	defer pool.Close()

	srcs := [][]float32{make([]float32, 32*32), make([]float32, 5), make([]float32, 32*32)}
	dsts := [][]float32{make([]float32, 64), make([]float32, 64), make([]float32, 64)}
	err = pool.DownsampleBatch(srcs, dsts)
	if !errors.Is(err, image.ErrLengthMismatch) {
		t.Errorf("got %v, want ErrLengthMismatch", err)
	}
	if err := pool.DownsampleBatch(srcs, dsts[:2]); err == nil {
		t.Errorf("mismatched batch: want error")
	}
}

func TestNewPoolFailure(t *testing.T) {
	e := enginetest.New[uint8](soft.New[uint8]())
	e.FailOn(enginetest.OpAlloc2D, 7, errors.New("boom"))
	if _, err := NewPool[uint8](e, 4, 32, 32, 8, 8); err == nil {
		t.Fatalf("NewPool: want error")
	}
	if e.Live() != 0 {
		t.Errorf("Live: got %d, want 0", e.Live())
	}
}
