// Copyright 2025 go-pyramid Authors. SPDX-License-Identifier: Apache-2.0

// Package enginetest provides a recording engine for tests. It forwards every
// call to a real engine, logs it, tracks the lifetime of each allocation and
// can be told to fail a given operation.
package enginetest

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/ajroetker/go-pyramid/pyr"
	"github.com/ajroetker/go-pyramid/pyr/engine"
)

// Op names an engine entry point.
type Op string

const (
	OpAlloc2D             Op = "Alloc2D"
	OpFree2D              Op = "Free2D"
	OpAlloc1D             Op = "Alloc1D"
	OpFree1D              Op = "Free1D"
	OpCopy2D              Op = "Copy2D"
	OpResizeGetSize       Op = "ResizeGetSize"
	OpResizeLinearInit    Op = "ResizeLinearInit"
	OpResizeCubicInit     Op = "ResizeCubicInit"
	OpResizeLanczosInit   Op = "ResizeLanczosInit"
	OpResizeGetBufferSize Op = "ResizeGetBufferSize"
	OpResizeGetBorderSize Op = "ResizeGetBorderSize"
	OpResizeLinear        Op = "ResizeLinear"
	OpResizeCubic         Op = "ResizeCubic"
	OpResizeLanczos       Op = "ResizeLanczos"
)

// Call is one recorded engine call. ID identifies the allocation an
// Alloc*/Free* call created or released; Size is the resolution involved
// (image size, copy rectangle, resize destination) or Bytes for 1D calls.
type Call struct {
	Op    Op
	ID    int
	Size  engine.Size
	Bytes int
	Err   error
}

func (c Call) String() string {
	switch c.Op {
	case OpAlloc1D, OpFree1D:
		return fmt.Sprintf("%s#%d(%dB)", c.Op, c.ID, c.Bytes)
	case OpAlloc2D, OpFree2D:
		return fmt.Sprintf("%s#%d(%s)", c.Op, c.ID, c.Size)
	default:
		return fmt.Sprintf("%s(%s)", c.Op, c.Size)
	}
}

// Engine records calls made through it. It is safe for concurrent use.
type Engine[T pyr.Pixel] struct {
	inner engine.Engine[T]

	mu       sync.Mutex
	calls    []Call
	nextID   int
	live     map[unsafe.Pointer]int
	badFrees int
	fail     map[Op]failure
	// initOverride, when non-negative, replaces the init scratch size
	// reported by ResizeGetSize.
	initOverride int
}

type failure struct {
	err   error
	after int // successful calls left before failing
}

var (
	_ engine.Engine[uint8]   = (*Engine[uint8])(nil)
	_ engine.Engine[float32] = (*Engine[float32])(nil)
)

// New wraps inner.
func New[T pyr.Pixel](inner engine.Engine[T]) *Engine[T] {
	return &Engine[T]{
		inner:        inner,
		live:         make(map[unsafe.Pointer]int),
		fail:         make(map[Op]failure),
		initOverride: -1,
	}
}

// FailOn makes op return err once it has succeeded `after` more times.
// A nil err clears the failure.
func (e *Engine[T]) FailOn(op Op, after int, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err == nil {
		delete(e.fail, op)
		return
	}
	e.fail[op] = failure{err: err, after: after}
}

// ReportInitScratch makes ResizeGetSize report size bytes of init scratch
// regardless of the wrapped engine. A negative size restores forwarding.
func (e *Engine[T]) ReportInitScratch(size int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.initOverride = size
}

// Calls returns a copy of the call log.
func (e *Engine[T]) Calls() []Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Call(nil), e.calls...)
}

// Count returns how many times op was called.
func (e *Engine[T]) Count(op Op) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, c := range e.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Live returns the number of allocations not yet freed.
func (e *Engine[T]) Live() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.live)
}

// BadFrees returns the number of frees of unknown or already freed memory.
func (e *Engine[T]) BadFrees() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.badFrees
}

// Reset clears the call log. Live allocations are still tracked.
func (e *Engine[T]) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = nil
}

// enter records c and returns its log index and the injected failure for
// its op, if due.
func (e *Engine[T]) enter(c Call) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if f, ok := e.fail[c.Op]; ok {
		if f.after <= 0 {
			c.Err = f.err
			e.calls = append(e.calls, c)
			return len(e.calls) - 1, f.err
		}
		f.after--
		e.fail[c.Op] = f
	}
	e.calls = append(e.calls, c)
	return len(e.calls) - 1, nil
}

func (e *Engine[T]) track(p unsafe.Pointer, idx int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	e.live[p] = e.nextID
	if idx < len(e.calls) {
		e.calls[idx].ID = e.nextID
	}
}

func (e *Engine[T]) release(p unsafe.Pointer, c Call) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id, ok := e.live[p]
	if !ok {
		e.badFrees++
	} else {
		delete(e.live, p)
	}
	c.ID = id
	e.calls = append(e.calls, c)
}

func (e *Engine[T]) Alloc2D(width, height int) ([]T, int, error) {
	idx, err := e.enter(Call{Op: OpAlloc2D, Size: engine.Sz(width, height)})
	if err != nil {
		return nil, 0, err
	}
	data, pitch, err := e.inner.Alloc2D(width, height)
	if err != nil {
		return nil, 0, err
	}
	e.track(unsafe.Pointer(unsafe.SliceData(data)), idx)
	return data, pitch, nil
}

func (e *Engine[T]) Free2D(data []T) {
	if data == nil {
		return
	}
	e.release(unsafe.Pointer(unsafe.SliceData(data)), Call{Op: OpFree2D})
	e.inner.Free2D(data)
}

func (e *Engine[T]) Alloc1D(size int) ([]byte, error) {
	idx, err := e.enter(Call{Op: OpAlloc1D, Bytes: size})
	if err != nil {
		return nil, err
	}
	// Never hand out zero-length backing arrays: they may share an address.
	buf, err := e.inner.Alloc1D(max(size, 1))
	if err != nil {
		return nil, err
	}
	e.track(unsafe.Pointer(unsafe.SliceData(buf)), idx)
	return buf[:size], nil
}

func (e *Engine[T]) Free1D(buf []byte) {
	if buf == nil {
		return
	}
	e.release(unsafe.Pointer(unsafe.SliceData(buf)), Call{Op: OpFree1D, Bytes: len(buf)})
	e.inner.Free1D(buf[:cap(buf)])
}

func (e *Engine[T]) Copy2D(size engine.Size, src []T, srcPitch int, dst []T, dstPitch int) error {
	if _, err := e.enter(Call{Op: OpCopy2D, Size: size}); err != nil {
		return err
	}
	return e.inner.Copy2D(size, src, srcPitch, dst, dstPitch)
}

func (e *Engine[T]) ResizeGetSize(src, dst engine.Size, kind engine.Kind, antialias bool) (int, int, error) {
	if _, err := e.enter(Call{Op: OpResizeGetSize, Size: dst}); err != nil {
		return 0, 0, err
	}
	specSize, initSize, err := e.inner.ResizeGetSize(src, dst, kind, antialias)
	e.mu.Lock()
	if e.initOverride >= 0 {
		initSize = e.initOverride
	}
	e.mu.Unlock()
	return specSize, initSize, err
}

func (e *Engine[T]) ResizeLinearInit(src, dst engine.Size, spec []byte) error {
	if _, err := e.enter(Call{Op: OpResizeLinearInit, Size: dst}); err != nil {
		return err
	}
	return e.inner.ResizeLinearInit(src, dst, spec)
}

func (e *Engine[T]) ResizeCubicInit(src, dst engine.Size, b, c float32, spec, init []byte) error {
	if _, err := e.enter(Call{Op: OpResizeCubicInit, Size: dst}); err != nil {
		return err
	}
	return e.inner.ResizeCubicInit(src, dst, b, c, spec, init)
}

func (e *Engine[T]) ResizeLanczosInit(src, dst engine.Size, lobes int, spec, init []byte) error {
	if _, err := e.enter(Call{Op: OpResizeLanczosInit, Size: dst}); err != nil {
		return err
	}
	return e.inner.ResizeLanczosInit(src, dst, lobes, spec, init)
}

func (e *Engine[T]) ResizeGetBufferSize(spec []byte, dst engine.Size, channels int) (int, error) {
	if _, err := e.enter(Call{Op: OpResizeGetBufferSize, Size: dst}); err != nil {
		return 0, err
	}
	return e.inner.ResizeGetBufferSize(spec, dst, channels)
}

func (e *Engine[T]) ResizeGetBorderSize(spec []byte) (engine.BorderSize, error) {
	if _, err := e.enter(Call{Op: OpResizeGetBorderSize}); err != nil {
		return engine.BorderSize{}, err
	}
	return e.inner.ResizeGetBorderSize(spec)
}

func (e *Engine[T]) ResizeLinear(src []T, srcPitch int, dst []T, dstPitch int, dstOffset engine.Point, dstSize engine.Size,
	border engine.Border, borderValue *T, spec, work []byte) error {
	if _, err := e.enter(Call{Op: OpResizeLinear, Size: dstSize}); err != nil {
		return err
	}
	return e.inner.ResizeLinear(src, srcPitch, dst, dstPitch, dstOffset, dstSize, border, borderValue, spec, work)
}

func (e *Engine[T]) ResizeCubic(src []T, srcPitch int, dst []T, dstPitch int, dstOffset engine.Point, dstSize engine.Size,
	border engine.Border, borderValue *T, spec, work []byte) error {
	if _, err := e.enter(Call{Op: OpResizeCubic, Size: dstSize}); err != nil {
		return err
	}
	return e.inner.ResizeCubic(src, srcPitch, dst, dstPitch, dstOffset, dstSize, border, borderValue, spec, work)
}

func (e *Engine[T]) ResizeLanczos(src []T, srcPitch int, dst []T, dstPitch int, dstOffset engine.Point, dstSize engine.Size,
	border engine.Border, borderValue *T, spec, work []byte) error {
	if _, err := e.enter(Call{Op: OpResizeLanczos, Size: dstSize}); err != nil {
		return err
	}
	return e.inner.ResizeLanczos(src, srcPitch, dst, dstPitch, dstOffset, dstSize, border, borderValue, spec, work)
}
