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

package image

import (
	"errors"
	"fmt"

	"github.com/ajroetker/go-pyramid/pyr"
	"github.com/ajroetker/go-pyramid/pyr/engine"
)

var (
	// ErrLengthMismatch reports a flat slice whose length does not match the
	// buffer or rectangle it is copied to or from.
	ErrLengthMismatch = errors.New("image: flat length mismatch")
	// ErrBounds reports a rectangle larger than the buffer.
	ErrBounds = errors.New("image: rectangle out of bounds")
	// ErrFreed reports use of a buffer after Free.
	ErrFreed = errors.New("image: buffer already freed")
)

// Buffer is a single-channel 2D image in engine-allocated pitched memory.
// A Buffer exclusively owns its allocation; Free releases it exactly once.
type Buffer[T pyr.Pixel] struct {
	eng    engine.Engine[T]
	data   []T
	width  int
	height int
	pitch  int // elements per row (includes padding)
}

// Alloc asks eng for a width x height image. The pitch is whatever the
// engine chose.
func Alloc[T pyr.Pixel](eng engine.Engine[T], width, height int) (*Buffer[T], error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("image: alloc %dx%d: %w", width, height, engine.ErrSize)
	}
	data, pitch, err := eng.Alloc2D(width, height)
	if err != nil {
		return nil, fmt.Errorf("image: alloc %dx%d: %w", width, height, err)
	}
	if data == nil || pitch < width || len(data) < pitch*(height-1)+width {
		eng.Free2D(data)
		return nil, fmt.Errorf("image: alloc %dx%d: engine returned pitch %d, %d elements: %w",
			width, height, pitch, len(data), engine.ErrAlloc)
	}
	return &Buffer[T]{
		eng:    eng,
		data:   data,
		width:  width,
		height: height,
		pitch:  pitch,
	}, nil
}

// MustAlloc is like Alloc but panics on failure.
func MustAlloc[T pyr.Pixel](eng engine.Engine[T], width, height int) *Buffer[T] {
	b, err := Alloc(eng, width, height)
	if err != nil {
		panic(err)
	}
	return b
}

// Width returns the image width in pixels.
func (b *Buffer[T]) Width() int {
	return b.width
}

// Height returns the image height in pixels.
func (b *Buffer[T]) Height() int {
	return b.height
}

// Pitch returns the number of elements between row starts.
func (b *Buffer[T]) Pitch() int {
	return b.pitch
}

// Size returns the logical resolution.
func (b *Buffer[T]) Size() engine.Size {
	return engine.Sz(b.width, b.height)
}

// Pix returns the underlying pitched storage, for passing to engine calls.
// It is nil after Free. Callers must not retain it beyond the buffer's life.
func (b *Buffer[T]) Pix() []T {
	return b.data
}

// Row returns a mutable slice for row y, including padding when the
// allocation extends past the logical width.
func (b *Buffer[T]) Row(y int) []T {
	if y < 0 || y >= b.height || b.data == nil {
		return nil
	}
	start := y * b.pitch
	return b.data[start:min(start+b.pitch, len(b.data))]
}

// RowSlice returns row y limited to the logical width.
func (b *Buffer[T]) RowSlice(y int) []T {
	if y < 0 || y >= b.height || b.data == nil {
		return nil
	}
	start := y * b.pitch
	return b.data[start : start+b.width]
}

// At returns the value at (x, y), or zero out of bounds.
func (b *Buffer[T]) At(x, y int) T {
	if x < 0 || x >= b.width || y < 0 || y >= b.height || b.data == nil {
		var zero T
		return zero
	}
	return b.data[y*b.pitch+x]
}

// Set sets the value at (x, y). Out of bounds is a no-op.
func (b *Buffer[T]) Set(x, y int, value T) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height || b.data == nil {
		return
	}
	b.data[y*b.pitch+x] = value
}

// Fill sets every logical pixel to value. Padding is left alone.
func (b *Buffer[T]) Fill(value T) {
	for y := range b.height {
		row := b.RowSlice(y)
		for i := range row {
			row[i] = value
		}
	}
}

// Load fills the buffer from a packed slice of exactly Width*Height elements.
func (b *Buffer[T]) Load(flat []T) error {
	if len(flat) != b.width*b.height {
		return fmt.Errorf("%w: load %d elements into %dx%d", ErrLengthMismatch, len(flat), b.width, b.height)
	}
	return b.copyIn(b.width, b.height, flat)
}

// Store drains the buffer into a packed slice of exactly Width*Height elements.
func (b *Buffer[T]) Store(flat []T) error {
	if len(flat) != b.width*b.height {
		return fmt.Errorf("%w: store %dx%d into %d elements", ErrLengthMismatch, b.width, b.height, len(flat))
	}
	return b.copyOut(b.width, b.height, flat)
}

// LoadStrided fills the top-left extW x extH rectangle from a packed slice
// with row stride extW. The rest of the buffer is untouched.
func (b *Buffer[T]) LoadStrided(extW, extH int, flat []T) error {
	if err := b.checkStrided(extW, extH, flat); err != nil {
		return fmt.Errorf("image: load strided: %w", err)
	}
	return b.copyIn(extW, extH, flat)
}

// StoreStrided drains the top-left extW x extH rectangle into a packed slice
// with row stride extW. Elements of flat past extW*extH are untouched.
func (b *Buffer[T]) StoreStrided(extW, extH int, flat []T) error {
	if err := b.checkStrided(extW, extH, flat); err != nil {
		return fmt.Errorf("image: store strided: %w", err)
	}
	return b.copyOut(extW, extH, flat)
}

func (b *Buffer[T]) checkStrided(extW, extH int, flat []T) error {
	if extW < 0 || extH < 0 || extW > b.width || extH > b.height {
		return fmt.Errorf("%w: %dx%d in %dx%d", ErrBounds, extW, extH, b.width, b.height)
	}
	if len(flat) > b.width*b.height || len(flat) < extW*extH {
		return fmt.Errorf("%w: %d elements for %dx%d in %dx%d", ErrLengthMismatch, len(flat), extW, extH, b.width, b.height)
	}
	return nil
}

func (b *Buffer[T]) copyIn(w, h int, flat []T) error {
	if b.data == nil {
		return ErrFreed
	}
	if err := b.eng.Copy2D(engine.Sz(w, h), flat, w, b.data, b.pitch); err != nil {
		return fmt.Errorf("image: copy %dx%d in: %w", w, h, err)
	}
	return nil
}

func (b *Buffer[T]) copyOut(w, h int, flat []T) error {
	if b.data == nil {
		return ErrFreed
	}
	if err := b.eng.Copy2D(engine.Sz(w, h), b.data, b.pitch, flat, w); err != nil {
		return fmt.Errorf("image: copy %dx%d out: %w", w, h, err)
	}
	return nil
}

// Free returns the allocation to the engine. Calling Free again is a no-op.
func (b *Buffer[T]) Free() {
	if b.data == nil {
		return
	}
	b.eng.Free2D(b.data)
	b.data = nil
}
