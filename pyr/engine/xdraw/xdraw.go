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

// Package xdraw is an 8-bit engine that resizes with
// golang.org/x/image/draw. Pitched buffers are wrapped as image.Gray views
// (Pix, Stride, Rect) so no pixels are copied on the way in or out.
//
// x/image/draw widens its kernels when shrinking, so results are always
// antialiased, and it renormalizes weights at the image edge instead of
// synthesizing border samples; only engine.BorderReplicate is accepted.
// Allocation and copies are delegated to the pure-Go engine.
package xdraw

import (
	"encoding/binary"
	"fmt"
	stdimage "image"
	"math"

	"golang.org/x/image/draw"

	"github.com/ajroetker/go-pyramid/pyr/engine"
	"github.com/ajroetker/go-pyramid/pyr/engine/soft"
)

const (
	wMagic = iota
	wInterp
	wSrcW
	wSrcH
	wDstW
	wDstH
	wParamB
	wParamC
	wLobes
	specWords
)

const specMagic = 0x50595258 // "PYRX"

// Engine implements engine.Engine[uint8].
type Engine struct {
	*soft.Engine[uint8]
}

var _ engine.Engine[uint8] = (*Engine)(nil)

// New returns an x/image/draw backed engine.
func New() *Engine {
	return &Engine{Engine: soft.New[uint8]()}
}

// ResizeGetSize returns a fixed-size spec and no init scratch. The
// antialias flag is accepted either way; see the package comment.
func (e *Engine) ResizeGetSize(src, dst engine.Size, kind engine.Kind, antialias bool) (int, int, error) {
	if !src.Valid() || !dst.Valid() {
		return 0, 0, fmt.Errorf("%w: resize %s -> %s", engine.ErrSize, src, dst)
	}
	if err := kind.Validate(); err != nil {
		return 0, 0, err
	}
	return 4 * specWords, 0, nil
}

// ResizeLinearInit fills spec for a linear resize.
func (e *Engine) ResizeLinearInit(src, dst engine.Size, spec []byte) error {
	return e.init(src, dst, engine.Linear(), spec)
}

// ResizeCubicInit fills spec for a cubic resize.
func (e *Engine) ResizeCubicInit(src, dst engine.Size, b, c float32, spec, _ []byte) error {
	return e.init(src, dst, engine.Cubic(b, c), spec)
}

// ResizeLanczosInit fills spec for a Lanczos resize.
func (e *Engine) ResizeLanczosInit(src, dst engine.Size, lobes int, spec, _ []byte) error {
	return e.init(src, dst, engine.Lanczos(lobes), spec)
}

func (e *Engine) init(src, dst engine.Size, kind engine.Kind, spec []byte) error {
	if _, _, err := e.ResizeGetSize(src, dst, kind, true); err != nil {
		return err
	}
	if len(spec) < 4*specWords {
		return fmt.Errorf("%w: spec has %d bytes, need %d", engine.ErrSpec, len(spec), 4*specWords)
	}
	w := [specWords]uint32{
		wMagic:  specMagic,
		wInterp: uint32(kind.Interp),
		wSrcW:   uint32(src.Width),
		wSrcH:   uint32(src.Height),
		wDstW:   uint32(dst.Width),
		wDstH:   uint32(dst.Height),
		wParamB: math.Float32bits(kind.B),
		wParamC: math.Float32bits(kind.C),
		wLobes:  uint32(kind.Lobes),
	}
	for i, v := range w {
		binary.LittleEndian.PutUint32(spec[4*i:], v)
	}
	return nil
}

type spec struct {
	kind     engine.Kind
	src, dst engine.Size
}

func parse(b []byte) (spec, error) {
	if len(b) < 4*specWords || word(b, wMagic) != specMagic {
		return spec{}, fmt.Errorf("%w: not an initialized xdraw spec", engine.ErrSpec)
	}
	return spec{
		kind: engine.Kind{
			Interp: engine.Interpolation(word(b, wInterp)),
			B:      math.Float32frombits(word(b, wParamB)),
			C:      math.Float32frombits(word(b, wParamC)),
			Lobes:  int(word(b, wLobes)),
		},
		src: engine.Sz(int(word(b, wSrcW)), int(word(b, wSrcH))),
		dst: engine.Sz(int(word(b, wDstW)), int(word(b, wDstH))),
	}, nil
}

// ResizeGetBufferSize returns 0: Kernel.Scale manages its own scratch.
func (e *Engine) ResizeGetBufferSize(b []byte, dst engine.Size, channels int) (int, error) {
	s, err := parse(b)
	if err != nil {
		return 0, err
	}
	if channels != 1 {
		return 0, fmt.Errorf("%w: %d channels", engine.ErrUnsupported, channels)
	}
	if !s.dst.Covers(dst) {
		return 0, fmt.Errorf("%w: tile %s outside %s", engine.ErrSize, dst, s.dst)
	}
	return 0, nil
}

// ResizeGetBorderSize returns the widened kernel reach on each side.
func (e *Engine) ResizeGetBorderSize(b []byte) (engine.BorderSize, error) {
	s, err := parse(b)
	if err != nil {
		return engine.BorderSize{}, err
	}
	k := soft.Kernel(s.kind)
	bx := int(math.Ceil(k.Support * max(float64(s.src.Width)/float64(s.dst.Width), 1)))
	by := int(math.Ceil(k.Support * max(float64(s.src.Height)/float64(s.dst.Height), 1)))
	return engine.BorderSize{Left: bx, Top: by, Right: bx, Bottom: by}, nil
}

// ResizeLinear executes a linear spec.
func (e *Engine) ResizeLinear(src []uint8, srcPitch int, dst []uint8, dstPitch int, off engine.Point, size engine.Size,
	border engine.Border, borderValue *uint8, spec, work []byte) error {
	return e.resize(engine.InterpLinear, src, srcPitch, dst, dstPitch, off, size, border, spec)
}

// ResizeCubic executes a cubic spec.
func (e *Engine) ResizeCubic(src []uint8, srcPitch int, dst []uint8, dstPitch int, off engine.Point, size engine.Size,
	border engine.Border, borderValue *uint8, spec, work []byte) error {
	return e.resize(engine.InterpCubic, src, srcPitch, dst, dstPitch, off, size, border, spec)
}

// ResizeLanczos executes a Lanczos spec.
func (e *Engine) ResizeLanczos(src []uint8, srcPitch int, dst []uint8, dstPitch int, off engine.Point, size engine.Size,
	border engine.Border, borderValue *uint8, spec, work []byte) error {
	return e.resize(engine.InterpLanczos, src, srcPitch, dst, dstPitch, off, size, border, spec)
}

func (e *Engine) resize(interp engine.Interpolation, src []uint8, srcPitch int, dst []uint8, dstPitch int,
	off engine.Point, size engine.Size, border engine.Border, b []byte) error {
	s, err := parse(b)
	if err != nil {
		return err
	}
	if s.kind.Interp != interp {
		return fmt.Errorf("%w: %s spec passed to %s resize", engine.ErrSpec, s.kind.Interp, interp)
	}
	if border != engine.BorderReplicate {
		return fmt.Errorf("%w: %s border", engine.ErrUnsupported, border)
	}
	if off.X < 0 || off.Y < 0 || !size.Valid() || !s.dst.Covers(engine.Sz(off.X+size.Width, off.Y+size.Height)) {
		return fmt.Errorf("%w: tile %s at (%d,%d) outside %s", engine.ErrSize, size, off.X, off.Y, s.dst)
	}
	if srcPitch < s.src.Width || len(src) < srcPitch*(s.src.Height-1)+s.src.Width {
		return fmt.Errorf("%w: source smaller than %s", engine.ErrSize, s.src)
	}
	if dstPitch < size.Width || len(dst) < dstPitch*(size.Height-1)+size.Width {
		return fmt.Errorf("%w: destination smaller than %s", engine.ErrSize, size)
	}

	srcImg := &stdimage.Gray{
		Pix:    src,
		Stride: srcPitch,
		Rect:   stdimage.Rect(0, 0, s.src.Width, s.src.Height),
	}
	// The tile view starts at dst[0] but reports its position in the full
	// destination, so Scale maps the whole source and clips to the tile.
	dstImg := &stdimage.Gray{
		Pix:    dst,
		Stride: dstPitch,
		Rect:   stdimage.Rect(off.X, off.Y, off.X+size.Width, off.Y+size.Height),
	}
	full := stdimage.Rect(0, 0, s.dst.Width, s.dst.Height)
	soft.Kernel(s.kind).Scale(dstImg, full, srcImg, srcImg.Rect, draw.Src, nil)
	return nil
}

func word(b []byte, i int) uint32 {
	return binary.LittleEndian.Uint32(b[4*i:])
}
