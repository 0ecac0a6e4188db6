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

//go:build gocv

// Package opencv is an engine backed by OpenCV's cv::resize through gocv.
// It needs cgo and an installed OpenCV, so it is only built with -tags gocv.
//
// OpenCV has fixed kernels: cubic always uses a = -0.75 (B=0, C=0.75) and
// Lanczos always uses 4 lobes. Other cubic parameters are accepted with a
// warning; other lobe counts are rejected. cv::resize replicates edges, so
// only engine.BorderReplicate is accepted, and it cannot write a tile of a
// larger destination, so dstOffset must be (0,0) and dstSize the full spec
// destination. Pixels are staged through OpenCV-owned Mats on every call.
package opencv

import (
	"encoding/binary"
	"fmt"
	stdimage "image"
	"unsafe"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"github.com/ajroetker/go-pyramid/pyr"
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
	specWords
)

const specMagic = 0x50595243 // "PYRC"

// Engine implements engine.Engine[T] on top of gocv.
type Engine[T pyr.Pixel] struct {
	*soft.Engine[T]
	matType gocv.MatType
}

var (
	_ engine.Engine[uint8]   = (*Engine[uint8])(nil)
	_ engine.Engine[float32] = (*Engine[float32])(nil)
)

// New returns an OpenCV backed engine for T.
func New[T pyr.Pixel]() *Engine[T] {
	mt := gocv.MatTypeCV8U
	if pyr.IsFloat[T]() {
		mt = gocv.MatTypeCV32F
	}
	return &Engine[T]{Engine: soft.New[T](), matType: mt}
}

// ResizeGetSize validates a resize and returns the spec size. Only
// Lanczos(4) and antialias=false are supported.
func (e *Engine[T]) ResizeGetSize(src, dst engine.Size, kind engine.Kind, antialias bool) (int, int, error) {
	if !src.Valid() || !dst.Valid() {
		return 0, 0, fmt.Errorf("%w: resize %s -> %s", engine.ErrSize, src, dst)
	}
	if err := kind.Validate(); err != nil {
		return 0, 0, err
	}
	if kind.Interp == engine.InterpLanczos && kind.Lobes != 4 {
		return 0, 0, fmt.Errorf("%w: OpenCV Lanczos has 4 lobes, got %d", engine.ErrUnsupported, kind.Lobes)
	}
	if antialias {
		return 0, 0, fmt.Errorf("%w: antialiased resize", engine.ErrUnsupported)
	}
	return 4 * specWords, 0, nil
}

// ResizeLinearInit fills spec for a linear resize.
func (e *Engine[T]) ResizeLinearInit(src, dst engine.Size, spec []byte) error {
	return e.init(src, dst, engine.Linear(), spec)
}

// ResizeCubicInit fills spec for a cubic resize.
func (e *Engine[T]) ResizeCubicInit(src, dst engine.Size, b, c float32, spec, _ []byte) error {
	if b != 0 || c != 0.75 {
		pyr.Logger().WithFields(logrus.Fields{"b": b, "c": c}).
			Warn("OpenCV cubic ignores B/C and uses B=0, C=0.75")
	}
	return e.init(src, dst, engine.Cubic(b, c), spec)
}

// ResizeLanczosInit fills spec for a Lanczos resize.
func (e *Engine[T]) ResizeLanczosInit(src, dst engine.Size, lobes int, spec, _ []byte) error {
	return e.init(src, dst, engine.Lanczos(lobes), spec)
}

func (e *Engine[T]) init(src, dst engine.Size, kind engine.Kind, spec []byte) error {
	if _, _, err := e.ResizeGetSize(src, dst, kind, false); err != nil {
		return err
	}
	if len(spec) < 4*specWords {
		return fmt.Errorf("%w: spec has %d bytes, need %d", engine.ErrSpec, len(spec), 4*specWords)
	}
	for i, v := range [specWords]uint32{
		wMagic:  specMagic,
		wInterp: uint32(kind.Interp),
		wSrcW:   uint32(src.Width),
		wSrcH:   uint32(src.Height),
		wDstW:   uint32(dst.Width),
		wDstH:   uint32(dst.Height),
	} {
		binary.LittleEndian.PutUint32(spec[4*i:], v)
	}
	return nil
}

type spec struct {
	interp   engine.Interpolation
	src, dst engine.Size
}

func parse(b []byte) (spec, error) {
	word := func(i int) int { return int(binary.LittleEndian.Uint32(b[4*i:])) }
	if len(b) < 4*specWords || uint32(word(wMagic)) != specMagic {
		return spec{}, fmt.Errorf("%w: not an initialized OpenCV spec", engine.ErrSpec)
	}
	return spec{
		interp: engine.Interpolation(word(wInterp)),
		src:    engine.Sz(word(wSrcW), word(wSrcH)),
		dst:    engine.Sz(word(wDstW), word(wDstH)),
	}, nil
}

// ResizeGetBufferSize returns 0: staging Mats are owned by OpenCV.
func (e *Engine[T]) ResizeGetBufferSize(b []byte, dst engine.Size, channels int) (int, error) {
	s, err := parse(b)
	if err != nil {
		return 0, err
	}
	if channels != 1 || dst != s.dst {
		return 0, fmt.Errorf("%w: %d channels, tile %s of %s", engine.ErrUnsupported, channels, dst, s.dst)
	}
	return 0, nil
}

// ResizeGetBorderSize returns the fixed OpenCV kernel radius.
func (e *Engine[T]) ResizeGetBorderSize(b []byte) (engine.BorderSize, error) {
	s, err := parse(b)
	if err != nil {
		return engine.BorderSize{}, err
	}
	r := map[engine.Interpolation]int{engine.InterpLinear: 1, engine.InterpCubic: 2, engine.InterpLanczos: 4}[s.interp]
	return engine.BorderSize{Left: r, Top: r, Right: r, Bottom: r}, nil
}

// ResizeLinear executes a linear spec.
func (e *Engine[T]) ResizeLinear(src []T, srcPitch int, dst []T, dstPitch int, off engine.Point, size engine.Size,
	border engine.Border, _ *T, spec, _ []byte) error {
	return e.resize(engine.InterpLinear, gocv.InterpolationLinear, src, srcPitch, dst, dstPitch, off, size, border, spec)
}

// ResizeCubic executes a cubic spec.
func (e *Engine[T]) ResizeCubic(src []T, srcPitch int, dst []T, dstPitch int, off engine.Point, size engine.Size,
	border engine.Border, _ *T, spec, _ []byte) error {
	return e.resize(engine.InterpCubic, gocv.InterpolationCubic, src, srcPitch, dst, dstPitch, off, size, border, spec)
}

// ResizeLanczos executes a Lanczos spec.
func (e *Engine[T]) ResizeLanczos(src []T, srcPitch int, dst []T, dstPitch int, off engine.Point, size engine.Size,
	border engine.Border, _ *T, spec, _ []byte) error {
	return e.resize(engine.InterpLanczos, gocv.InterpolationLanczos4, src, srcPitch, dst, dstPitch, off, size, border, spec)
}

func (e *Engine[T]) resize(interp engine.Interpolation, flag gocv.InterpolationFlags, src []T, srcPitch int,
	dst []T, dstPitch int, off engine.Point, size engine.Size, border engine.Border, b []byte) error {
	s, err := parse(b)
	if err != nil {
		return err
	}
	if s.interp != interp {
		return fmt.Errorf("%w: %s spec passed to %s resize", engine.ErrSpec, s.interp, interp)
	}
	if border != engine.BorderReplicate {
		return fmt.Errorf("%w: %s border", engine.ErrUnsupported, border)
	}
	if off != (engine.Point{}) || size != s.dst {
		return fmt.Errorf("%w: tile %s at (%d,%d) of %s", engine.ErrUnsupported, size, off.X, off.Y, s.dst)
	}
	if err := engine.CheckCopy(s.src, src, srcPitch, src, srcPitch); err != nil {
		return fmt.Errorf("source: %w", err)
	}
	if err := engine.CheckCopy(s.dst, dst, dstPitch, dst, dstPitch); err != nil {
		return fmt.Errorf("destination: %w", err)
	}

	in := gocv.NewMatWithSize(s.src.Height, s.src.Width, e.matType)
	defer in.Close()
	out := gocv.NewMat()
	defer out.Close()

	if err := e.stage(s.src, src, srcPitch, &in, true); err != nil {
		return err
	}
	if err := gocv.Resize(in, &out, stdimage.Pt(s.dst.Width, s.dst.Height), 0, 0, flag); err != nil {
		return fmt.Errorf("opencv resize: %w", err)
	}
	return e.stage(s.dst, dst, dstPitch, &out, false)
}

// stage copies between pitched Go memory and a continuous Mat, row by row.
func (e *Engine[T]) stage(size engine.Size, pix []T, pitch int, m *gocv.Mat, toMat bool) error {
	raw, err := m.DataPtrUint8()
	if err != nil {
		return fmt.Errorf("opencv mat data: %w", err)
	}
	elem := pyr.SizeOf[T]()
	all := unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(pix))), len(pix)*elem)
	rowBytes := size.Width * elem
	if len(raw) < size.Height*rowBytes {
		return fmt.Errorf("%w: mat holds %d bytes, need %d", engine.ErrSize, len(raw), size.Height*rowBytes)
	}
	for y := range size.Height {
		g := all[y*pitch*elem : y*pitch*elem+rowBytes]
		c := raw[y*rowBytes : (y+1)*rowBytes]
		if toMat {
			copy(c, g)
		} else {
			copy(g, c)
		}
	}
	return nil
}
