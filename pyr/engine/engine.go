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

// Package engine defines the capability set a resampling backend provides to
// the pitched-image pipeline: aligned allocation, structured 2D copy, and a
// get-size / init / get-buffer-size / execute resize protocol.
//
// Engines own the meaning of the filter spec and work buffers. Callers size
// them through ResizeGetSize and ResizeGetBufferSize, allocate them through
// Alloc1D, and otherwise treat them as opaque bytes.
//
// Available backends:
//
//	engine/soft        pure Go, every kind and border (default)
//	engine/xdraw       golang.org/x/image/draw kernels, uint8 only
//	engine/opencv      OpenCV via gocv (build tag gocv)
//	engine/enginetest  recording fake for tests
package engine

import "github.com/ajroetker/go-pyramid/pyr"

// Engine is the resampling capability for one element type T. An Engine
// value carries no per-image state and may be shared by any number of
// buffers and operators; the buffers it returns are not safe for concurrent
// mutation.
type Engine[T pyr.Pixel] interface {
	// Alloc2D returns storage for a width x height image and the pitch, in
	// elements, between row starts. len(data) >= pitch*(height-1)+width.
	Alloc2D(width, height int) (data []T, pitch int, err error)
	// Free2D releases storage returned by Alloc2D.
	Free2D(data []T)
	// Alloc1D returns a scratch region of exactly size bytes.
	Alloc1D(size int) ([]byte, error)
	// Free1D releases storage returned by Alloc1D.
	Free1D(buf []byte)

	// Copy2D copies a size.Width x size.Height rectangle row by row. The
	// regions must not overlap.
	Copy2D(size Size, src []T, srcPitch int, dst []T, dstPitch int) error

	// ResizeGetSize returns the byte sizes of the filter spec and of the
	// scratch needed while initializing it.
	ResizeGetSize(src, dst Size, kind Kind, antialias bool) (specSize, initSize int, err error)
	// ResizeLinearInit fills spec for a linear resize.
	ResizeLinearInit(src, dst Size, spec []byte) error
	// ResizeCubicInit fills spec for a cubic resize using init as scratch.
	ResizeCubicInit(src, dst Size, b, c float32, spec, init []byte) error
	// ResizeLanczosInit fills spec for a Lanczos resize using init as scratch.
	ResizeLanczosInit(src, dst Size, lobes int, spec, init []byte) error
	// ResizeGetBufferSize returns the work buffer size for an initialized spec.
	ResizeGetBufferSize(spec []byte, dst Size, channels int) (int, error)
	// ResizeGetBorderSize returns how far the spec's filter reads outside
	// the source image.
	ResizeGetBorderSize(spec []byte) (BorderSize, error)

	// ResizeLinear, ResizeCubic and ResizeLanczos resample src into the
	// dstSize tile of the destination image starting at dstOffset. dst
	// points at the tile's first pixel. borderValue is read only for
	// BorderConstant.
	ResizeLinear(src []T, srcPitch int, dst []T, dstPitch int, dstOffset Point, dstSize Size,
		border Border, borderValue *T, spec, work []byte) error
	ResizeCubic(src []T, srcPitch int, dst []T, dstPitch int, dstOffset Point, dstSize Size,
		border Border, borderValue *T, spec, work []byte) error
	ResizeLanczos(src []T, srcPitch int, dst []T, dstPitch int, dstOffset Point, dstSize Size,
		border Border, borderValue *T, spec, work []byte) error
}

// CheckCopy validates Copy2D arguments. Engines call it before copying.
func CheckCopy[T pyr.Pixel](size Size, src []T, srcPitch int, dst []T, dstPitch int) error {
	if size.Width < 0 || size.Height < 0 || srcPitch < size.Width || dstPitch < size.Width {
		return ErrSize
	}
	if size.Width == 0 || size.Height == 0 {
		return nil
	}
	need := func(pitch int) int { return pitch*(size.Height-1) + size.Width }
	if len(src) < need(srcPitch) || len(dst) < need(dstPitch) {
		return ErrSize
	}
	return nil
}

// Copy2D is the row-wise copy shared by the Go engines.
func Copy2D[T pyr.Pixel](size Size, src []T, srcPitch int, dst []T, dstPitch int) error {
	if err := CheckCopy(size, src, srcPitch, dst, dstPitch); err != nil {
		return err
	}
	if srcPitch == size.Width && dstPitch == size.Width {
		copy(dst[:size.Area()], src[:size.Area()])
		return nil
	}
	for y := range size.Height {
		copy(dst[y*dstPitch:y*dstPitch+size.Width], src[y*srcPitch:y*srcPitch+size.Width])
	}
	return nil
}
