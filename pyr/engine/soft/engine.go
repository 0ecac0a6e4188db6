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

// Package soft is a pure-Go resampling engine.
//
// Resizes are separable: a horizontal pass writes float32 rows into the work
// buffer, then a vertical pass writes the destination. Filter weights come
// from golang.org/x/image/draw kernels and are stored in the spec buffer as
// per-column and per-row tap tables, so a spec can be reused for any number
// of images of the same resolution.
//
// Antialiasing (stretching the kernel on downscale) is not offered; callers
// that need large reductions cascade steps of at most 2x instead.
package soft

import (
	"fmt"
	"unsafe"

	"github.com/ajroetker/go-pyramid/pyr"
	"github.com/ajroetker/go-pyramid/pyr/engine"
)

// maxElements caps a single 2D allocation.
const maxElements = 1 << 31

// Engine implements engine.Engine[T]. The zero value is not usable; call New.
type Engine[T pyr.Pixel] struct {
	isFloat bool
}

var (
	_ engine.Engine[uint8]   = (*Engine[uint8])(nil)
	_ engine.Engine[float32] = (*Engine[float32])(nil)
)

// New returns a pure-Go engine for element type T.
func New[T pyr.Pixel]() *Engine[T] {
	return &Engine[T]{isFloat: pyr.IsFloat[T]()}
}

// Alloc2D returns a row-aligned image: the pitch is rounded up to
// pyr.RowAlign bytes and the first row starts on that boundary.
func (e *Engine[T]) Alloc2D(width, height int) ([]T, int, error) {
	if width < 1 || height < 1 {
		return nil, 0, fmt.Errorf("%w: %dx%d", engine.ErrSize, width, height)
	}
	pitch := pyr.AlignedPitch[T](width)
	n := pitch * height
	if n/height != pitch || n > maxElements {
		return nil, 0, fmt.Errorf("%w: %dx%d exceeds %d elements", engine.ErrAlloc, width, height, maxElements)
	}

	elem := pyr.SizeOf[T]()
	slack := pyr.RowAlign() / elem
	backing := make([]T, n+slack)
	off := 0
	if rem := int(uintptr(unsafe.Pointer(unsafe.SliceData(backing))) % uintptr(pyr.RowAlign())); rem != 0 {
		off = (pyr.RowAlign() - rem) / elem
	}
	return backing[off : off+n : off+n], pitch, nil
}

// Free2D is a no-op; memory is reclaimed by the garbage collector once the
// owning buffer drops its reference.
func (e *Engine[T]) Free2D([]T) {}

// Alloc1D returns size bytes backed by 64-bit words, so specs and init
// scratch can be read as word tables.
func (e *Engine[T]) Alloc1D(size int) ([]byte, error) {
	if size < 0 || size > maxElements {
		return nil, fmt.Errorf("%w: %d bytes", engine.ErrAlloc, size)
	}
	if size == 0 {
		return []byte{}, nil
	}
	words := make([]uint64, (size+7)/8)
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(words))), size), nil
}

// Free1D is a no-op.
func (e *Engine[T]) Free1D([]byte) {}

// Copy2D copies a rectangle row by row.
func (e *Engine[T]) Copy2D(size engine.Size, src []T, srcPitch int, dst []T, dstPitch int) error {
	return engine.Copy2D(size, src, srcPitch, dst, dstPitch)
}

// wordView reinterprets b as 32-bit words. b must come from Alloc1D or be
// otherwise 4-byte aligned.
func wordView(b []byte) ([]uint32, error) {
	if len(b) == 0 {
		return nil, nil
	}
	if len(b)%4 != 0 || uintptr(unsafe.Pointer(unsafe.SliceData(b)))%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes not word aligned", engine.ErrSpec, len(b))
	}
	return unsafe.Slice((*uint32)(unsafe.Pointer(unsafe.SliceData(b))), len(b)/4), nil
}

func floatView(b []byte) ([]float32, error) {
	w, err := wordView(b)
	if err != nil || w == nil {
		return nil, err
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(unsafe.SliceData(w))), len(w)), nil
}

func float64View(b []byte) ([]float64, error) {
	if len(b) == 0 {
		return nil, nil
	}
	if len(b)%8 != 0 || uintptr(unsafe.Pointer(unsafe.SliceData(b)))%8 != 0 {
		return nil, fmt.Errorf("%w: init buffer of %d bytes not 8-byte aligned", engine.ErrSize, len(b))
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(unsafe.SliceData(b))), len(b)/8), nil
}
