// Copyright 2025 go-pyramid Authors. SPDX-License-Identifier: Apache-2.0

package image

import (
	"fmt"

	"github.com/ajroetker/go-pyramid/pyr"
	"github.com/ajroetker/go-pyramid/pyr/engine"
)

// Scratch is an engine-allocated byte region holding state only the engine
// understands: a filter spec, init scratch or work memory. T records which
// element type the region was sized for, so a uint8 operator's scratch cannot
// be handed to a float32 engine.
type Scratch[T pyr.Pixel] struct {
	eng engine.Engine[T]
	buf []byte
}

// AllocScratch asks eng for size bytes. A zero size is valid.
func AllocScratch[T pyr.Pixel](eng engine.Engine[T], size int) (*Scratch[T], error) {
	if size < 0 {
		return nil, fmt.Errorf("image: scratch of %d bytes: %w", size, engine.ErrSize)
	}
	buf, err := eng.Alloc1D(size)
	if err != nil {
		return nil, fmt.Errorf("image: scratch of %d bytes: %w", size, err)
	}
	if len(buf) < size {
		eng.Free1D(buf)
		return nil, fmt.Errorf("image: scratch of %d bytes: engine returned %d: %w", size, len(buf), engine.ErrAlloc)
	}
	return &Scratch[T]{eng: eng, buf: buf[:size]}, nil
}

// Bytes returns the region. It is nil after Free.
func (s *Scratch[T]) Bytes() []byte {
	return s.buf
}

// Len returns the region size in bytes.
func (s *Scratch[T]) Len() int {
	return len(s.buf)
}

// Free returns the region to the engine. Calling Free again is a no-op.
func (s *Scratch[T]) Free() {
	if s.buf == nil {
		return
	}
	s.eng.Free1D(s.buf)
	s.buf = nil
}
