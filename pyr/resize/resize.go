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

// Package resize binds an interpolation kind and a fixed source/destination
// resolution pair to an engine filter spec and a reusable work buffer.
//
// Building the spec is the expensive part of a resize; an Operator does it
// once and can then run any number of resizes without allocating:
//
//	op, err := resize.New(eng, engine.Linear(), engine.Sz(1024, 768), engine.Sz(512, 384))
//	if err != nil {
//	    return err
//	}
//	defer op.Close()
//	for _, frame := range frames {
//	    src.Load(frame)
//	    op.Resize(src, dst)
//	}
//
// An Operator is not safe for concurrent use: every Resize overwrites the
// work buffer.
package resize

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ajroetker/go-pyramid/pyr"
	"github.com/ajroetker/go-pyramid/pyr/engine"
	"github.com/ajroetker/go-pyramid/pyr/image"
)

var (
	// ErrResolutionMismatch reports a buffer smaller than the resolution the
	// operator was built for.
	ErrResolutionMismatch = errors.New("resize: buffer smaller than operator resolution")
	// ErrUnexpectedInitBuffer reports an engine asking for init scratch on a
	// linear resize, whose initializer takes none.
	ErrUnexpectedInitBuffer = errors.New("resize: engine requested init scratch for a linear resize")
	// ErrClosed reports use of an operator after Close.
	ErrClosed = errors.New("resize: operator closed")
)

// resizeFunc is the signature shared by the engine's kind-specific entry points.
type resizeFunc[T pyr.Pixel] func(src []T, srcPitch int, dst []T, dstPitch int, dstOffset engine.Point,
	dstSize engine.Size, border engine.Border, borderValue *T, spec, work []byte) error

// Operator resizes images of one source resolution to one destination
// resolution with one interpolation kind.
type Operator[T pyr.Pixel] struct {
	eng         engine.Engine[T]
	kind        engine.Kind
	src         engine.Size
	dst         engine.Size
	border      engine.Border
	borderValue *T

	spec *image.Scratch[T] // read-only after New
	work *image.Scratch[T] // overwritten by every Resize
	exec resizeFunc[T]
}

// New queries eng for the spec size, initializes the spec for kind and
// allocates the work buffer. On error nothing stays allocated.
func New[T pyr.Pixel](eng engine.Engine[T], kind engine.Kind, src, dst engine.Size, opts ...Option) (*Operator[T], error) {
	if !src.Valid() || !dst.Valid() {
		return nil, fmt.Errorf("resize: %s -> %s: %w", src, dst, engine.ErrSize)
	}
	if err := kind.Validate(); err != nil {
		return nil, fmt.Errorf("resize: %w", err)
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	op := &Operator[T]{
		eng:    eng,
		kind:   kind,
		src:    src,
		dst:    dst,
		border: cfg.border,
	}
	if cfg.border == engine.BorderConstant {
		bv := cfg.borderValue
		if !pyr.IsFloat[T]() {
			bv = min(max(bv, 0), 255)
		}
		v := T(bv)
		op.borderValue = &v
	}
	if err := op.init(); err != nil {
		op.Close()
		return nil, fmt.Errorf("resize: %s %s -> %s: %w", kind, src, dst, err)
	}

	cfg.log().WithFields(logrus.Fields{
		"kind":      kind.String(),
		"src":       src.String(),
		"dst":       dst.String(),
		"spec_size": op.spec.Len(),
		"work_size": op.work.Len(),
	}).Debug("resize operator ready")
	return op, nil
}

// MustNew is like New but panics on failure.
func MustNew[T pyr.Pixel](eng engine.Engine[T], kind engine.Kind, src, dst engine.Size, opts ...Option) *Operator[T] {
	op, err := New(eng, kind, src, dst, opts...)
	if err != nil {
		panic(err)
	}
	return op
}

func (op *Operator[T]) init() error {
	specSize, initSize, err := op.eng.ResizeGetSize(op.src, op.dst, op.kind, false)
	if err != nil {
		return err
	}
	if op.spec, err = image.AllocScratch(op.eng, specSize); err != nil {
		return err
	}
	spec := op.spec.Bytes()

	switch op.kind.Interp {
	case engine.InterpLinear:
		if initSize != 0 {
			return fmt.Errorf("%w: %d bytes", ErrUnexpectedInitBuffer, initSize)
		}
		err = op.eng.ResizeLinearInit(op.src, op.dst, spec)
		op.exec = op.eng.ResizeLinear
	case engine.InterpCubic:
		err = op.withInitScratch(initSize, func(init []byte) error {
			return op.eng.ResizeCubicInit(op.src, op.dst, op.kind.B, op.kind.C, spec, init)
		})
		op.exec = op.eng.ResizeCubic
	case engine.InterpLanczos:
		err = op.withInitScratch(initSize, func(init []byte) error {
			return op.eng.ResizeLanczosInit(op.src, op.dst, op.kind.Lobes, spec, init)
		})
		op.exec = op.eng.ResizeLanczos
	}
	if err != nil {
		return err
	}

	workSize, err := op.eng.ResizeGetBufferSize(spec, op.dst, 1)
	if err != nil {
		return err
	}
	op.work, err = image.AllocScratch(op.eng, workSize)
	return err
}

// withInitScratch runs fn with a temporary init scratch of size bytes.
func (op *Operator[T]) withInitScratch(size int, fn func(init []byte) error) error {
	init, err := image.AllocScratch(op.eng, size)
	if err != nil {
		return err
	}
	defer init.Free()
	return fn(init.Bytes())
}

// Kind returns the interpolation kind.
func (op *Operator[T]) Kind() engine.Kind {
	return op.kind
}

// Src returns the source resolution the operator reads.
func (op *Operator[T]) Src() engine.Size {
	return op.src
}

// Dst returns the destination resolution the operator writes.
func (op *Operator[T]) Dst() engine.Size {
	return op.dst
}

// Border returns the border policy.
func (op *Operator[T]) Border() engine.Border {
	return op.border
}

// SpecSize and WorkSize return the scratch sizes in bytes.
func (op *Operator[T]) SpecSize() int { return op.spec.Len() }
func (op *Operator[T]) WorkSize() int { return op.work.Len() }

// BorderSize reports how many pixels past each source edge the filter reads.
func (op *Operator[T]) BorderSize() (engine.BorderSize, error) {
	if op.spec == nil || op.spec.Bytes() == nil {
		return engine.BorderSize{}, ErrClosed
	}
	return op.eng.ResizeGetBorderSize(op.spec.Bytes())
}

// Resize reads the top-left Src() rectangle of src and writes the top-left
// Dst() rectangle of dst. Buffers may be larger than the operator resolution.
func (op *Operator[T]) Resize(src, dst *image.Buffer[T]) error {
	if op.exec == nil || op.spec == nil || op.spec.Bytes() == nil {
		return ErrClosed
	}
	if !src.Size().Covers(op.src) {
		return fmt.Errorf("%w: source %s, operator %s", ErrResolutionMismatch, src.Size(), op.src)
	}
	if !dst.Size().Covers(op.dst) {
		return fmt.Errorf("%w: destination %s, operator %s", ErrResolutionMismatch, dst.Size(), op.dst)
	}
	if src.Pix() == nil || dst.Pix() == nil {
		return image.ErrFreed
	}
	err := op.exec(src.Pix(), src.Pitch(), dst.Pix(), dst.Pitch(), engine.Point{}, op.dst,
		op.border, op.borderValue, op.spec.Bytes(), op.work.Bytes())
	if err != nil {
		return fmt.Errorf("resize: %s %s -> %s: %w", op.kind, op.src, op.dst, err)
	}
	return nil
}

// MustResize is like Resize but panics on failure.
func (op *Operator[T]) MustResize(src, dst *image.Buffer[T]) {
	if err := op.Resize(src, dst); err != nil {
		panic(err)
	}
}

// Close releases the work buffer and then the spec. Calling Close again is
// a no-op.
func (op *Operator[T]) Close() {
	if op.work != nil {
		op.work.Free()
	}
	if op.spec != nil {
		op.spec.Free()
	}
	op.exec = nil
}
