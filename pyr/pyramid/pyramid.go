// Copyright 2025 go-pyramid Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pyramid

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ajroetker/go-pyramid/pyr"
	"github.com/ajroetker/go-pyramid/pyr/engine"
	"github.com/ajroetker/go-pyramid/pyr/image"
	"github.com/ajroetker/go-pyramid/pyr/resize"
)

// ErrClosed reports use of a pyramid after Close.
var ErrClosed = errors.New("pyramid: closed")

// Pyramid is a fixed chain of buffers and resize operators from one source
// resolution to one destination resolution. Operator k reads buffer k and
// writes buffer k+1.
type Pyramid[T pyr.Pixel] struct {
	levels []engine.Size
	bufs   []*image.Buffer[T]    // len(levels)
	ops    []*resize.Operator[T] // len(levels)-1
	policy Policy
	log    logrus.FieldLogger
}

// New plans the level chain from srcW x srcH to dstW x dstH and allocates
// every buffer and operator up front.
func New[T pyr.Pixel](eng engine.Engine[T], srcW, srcH, dstW, dstH int, opts ...Option) (*Pyramid[T], error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	levels, err := Plan(engine.Sz(srcW, srcH), engine.Sz(dstW, dstH), cfg.policy)
	if err != nil {
		return nil, err
	}

	p := &Pyramid[T]{
		levels: levels,
		bufs:   make([]*image.Buffer[T], 0, len(levels)),
		ops:    make([]*resize.Operator[T], 0, len(levels)-1),
		policy: cfg.policy,
		log:    cfg.log(),
	}
	opOpts := append([]resize.Option{resize.WithLogger(p.log)}, cfg.opOpts...)
	for k, size := range levels {
		buf, err := image.Alloc(eng, size.Width, size.Height)
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("pyramid: level %d: %w", k, err)
		}
		p.bufs = append(p.bufs, buf)
		if k == 0 {
			continue
		}
		op, err := resize.New(eng, cfg.kind, levels[k-1], size, opOpts...)
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("pyramid: step %d: %w", k-1, err)
		}
		p.ops = append(p.ops, op)
	}

	p.log.WithFields(logrus.Fields{
		"levels": formatLevels(levels),
		"steps":  len(p.ops),
		"policy": cfg.policy.String(),
		"kind":   cfg.kind.String(),
	}).Debug("pyramid built")
	return p, nil
}

// MustNew is like New but panics on failure.
func MustNew[T pyr.Pixel](eng engine.Engine[T], srcW, srcH, dstW, dstH int, opts ...Option) *Pyramid[T] {
	p, err := New(eng, srcW, srcH, dstW, dstH, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// Levels returns a copy of the level resolutions, source first.
func (p *Pyramid[T]) Levels() []engine.Size {
	return append([]engine.Size(nil), p.levels...)
}

// NumSteps returns the number of resize steps.
func (p *Pyramid[T]) NumSteps() int {
	return len(p.levels) - 1
}

// Src returns the source resolution.
func (p *Pyramid[T]) Src() engine.Size {
	return p.levels[0]
}

// Dst returns the destination resolution.
func (p *Pyramid[T]) Dst() engine.Size {
	return p.levels[len(p.levels)-1]
}

// Policy returns the termination policy the chain was planned with.
func (p *Pyramid[T]) Policy() Policy {
	return p.policy
}

// Downsample scales src, a packed Src() image, into dst, a packed Dst()
// image. Lengths are checked before any engine call. Steps run strictly in
// order; dst is only written after the last step succeeds.
func (p *Pyramid[T]) Downsample(src, dst []T) error {
	if p.ops == nil && p.bufs == nil {
		return ErrClosed
	}
	s, d := p.Src(), p.Dst()
	if len(src) != s.Area() {
		return fmt.Errorf("pyramid: source: %w: got %d elements, want %s", image.ErrLengthMismatch, len(src), s)
	}
	if len(dst) != d.Area() {
		return fmt.Errorf("pyramid: destination: %w: got %d elements, want %s", image.ErrLengthMismatch, len(dst), d)
	}

	if err := p.bufs[0].Load(src); err != nil {
		return fmt.Errorf("pyramid: %w", err)
	}
	for k, op := range p.ops {
		if err := op.Resize(p.bufs[k], p.bufs[k+1]); err != nil {
			return fmt.Errorf("pyramid: step %d: %w", k, err)
		}
	}
	if err := p.bufs[len(p.bufs)-1].Store(dst); err != nil {
		return fmt.Errorf("pyramid: %w", err)
	}
	return nil
}

// MustDownsample is like Downsample but panics on failure.
func (p *Pyramid[T]) MustDownsample(src, dst []T) {
	if err := p.Downsample(src, dst); err != nil {
		panic(err)
	}
}

// Level exposes buffer k for inspection of intermediate results.
func (p *Pyramid[T]) Level(k int) *image.Buffer[T] {
	if k < 0 || k >= len(p.bufs) {
		return nil
	}
	return p.bufs[k]
}

// Close releases the operators, last step first, and then the buffers, last
// level first. Calling Close again is a no-op.
func (p *Pyramid[T]) Close() {
	for k := len(p.ops) - 1; k >= 0; k-- {
		p.ops[k].Close()
	}
	for k := len(p.bufs) - 1; k >= 0; k-- {
		p.bufs[k].Free()
	}
	p.ops, p.bufs = nil, nil
}

func formatLevels(levels []engine.Size) string {
	parts := make([]string, len(levels))
	for i, l := range levels {
		parts[i] = l.String()
	}
	return strings.Join(parts, " -> ")
}
