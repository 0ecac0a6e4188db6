// Copyright 2025 go-pyramid Authors. SPDX-License-Identifier: Apache-2.0

package pyramid

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ajroetker/go-pyramid/pyr"
	"github.com/ajroetker/go-pyramid/pyr/engine"
	"github.com/ajroetker/go-pyramid/pyr/workerpool"
)

// Pool downsamples batches of same-sized images in parallel. It owns one
// Pyramid per worker; a pyramid is only ever driven by one goroutine at a
// time, so the single-threaded contract of Pyramid holds.
type Pool[T pyr.Pixel] struct {
	mu       sync.Mutex // serializes batches
	workers  *workerpool.Pool
	pyramids []*Pyramid[T]
}

// NewPool builds numWorkers identical pyramids (GOMAXPROCS when <= 0).
// eng must be safe for concurrent use.
func NewPool[T pyr.Pixel](eng engine.Engine[T], numWorkers, srcW, srcH, dstW, dstH int, opts ...Option) (*Pool[T], error) {
	wp := workerpool.New(numWorkers)
	p := &Pool[T]{
		workers:  wp,
		pyramids: make([]*Pyramid[T], 0, wp.NumWorkers()),
	}
	for range wp.NumWorkers() {
		py, err := New(eng, srcW, srcH, dstW, dstH, opts...)
		if err != nil {
			p.Close()
			return nil, err
		}
		p.pyramids = append(p.pyramids, py)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.log().WithFields(logrus.Fields{
		"workers": wp.NumWorkers(),
		"src":     engine.Sz(srcW, srcH).String(),
		"dst":     engine.Sz(dstW, dstH).String(),
	}).Info("pyramid pool started")
	return p, nil
}

// NumWorkers returns the number of parallel pyramids.
func (p *Pool[T]) NumWorkers() int {
	return len(p.pyramids)
}

// Levels returns the level resolutions shared by every pyramid.
func (p *Pool[T]) Levels() []engine.Size {
	if len(p.pyramids) == 0 {
		return nil
	}
	return p.pyramids[0].Levels()
}

// DownsampleBatch downsamples srcs[i] into dsts[i] for every i. All images
// are attempted; the returned error joins every per-image failure.
func (p *Pool[T]) DownsampleBatch(srcs, dsts [][]T) error {
	if len(srcs) != len(dsts) {
		return fmt.Errorf("pyramid: batch of %d sources and %d destinations", len(srcs), len(dsts))
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.pyramids) == 0 {
		return ErrClosed
	}

	errs := make([]error, len(srcs))
	p.workers.ParallelForWorker(len(srcs), func(worker, i int) {
		if err := p.pyramids[worker].Downsample(srcs[i], dsts[i]); err != nil {
			errs[i] = fmt.Errorf("image %d: %w", i, err)
		}
	})
	return errors.Join(errs...)
}

// Close stops the workers and closes every pyramid.
func (p *Pool[T]) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.workers.Close()
	for _, py := range p.pyramids {
		py.Close()
	}
	p.pyramids = nil
}
