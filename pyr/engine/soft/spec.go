// Copyright 2025 go-pyramid Authors. SPDX-License-Identifier: Apache-2.0

package soft

import (
	"fmt"
	"math"

	"golang.org/x/image/draw"

	"github.com/ajroetker/go-pyramid/pyr/engine"
)

// Spec layout, in 32-bit words:
//
//	header   [headerWords]
//	x table  dstW entries of (start, tapsX weights)
//	y table  dstH entries of (start, tapsY weights)
//
// start is a signed source index that may fall outside the image; the border
// policy resolves it at resize time. Weights are float32 bits and each entry
// sums to 1.
const (
	hMagic = iota
	hInterp
	hSrcW
	hSrcH
	hDstW
	hDstH
	hTapsX
	hTapsY
	hParamB
	hParamC
	hLobes
	hBorderLeft
	hBorderTop
	hBorderRight
	hBorderBottom
	headerWords
)

const specMagic = 0x50595253 // "PYRS"

// axisTaps returns the number of taps per output sample for a kernel of the
// given support. Without antialiasing the kernel is never stretched, so the
// count does not depend on the scale.
func axisTaps(support float64) int {
	return int(math.Ceil(2 * support))
}

func support(k engine.Kind) float64 {
	switch k.Interp {
	case engine.InterpLinear:
		return 1
	case engine.InterpCubic:
		return 2
	case engine.InterpLanczos:
		return float64(k.Lobes)
	}
	return 0
}

func specWords(dst engine.Size, taps int) int {
	return headerWords + dst.Width*(1+taps) + dst.Height*(1+taps)
}

// ResizeGetSize returns the spec size for (src, dst, kind). Linear specs need
// no init scratch; cubic and Lanczos use one float64 weight row.
func (e *Engine[T]) ResizeGetSize(src, dst engine.Size, kind engine.Kind, antialias bool) (int, int, error) {
	if !src.Valid() || !dst.Valid() {
		return 0, 0, fmt.Errorf("%w: resize %s -> %s", engine.ErrSize, src, dst)
	}
	if err := kind.Validate(); err != nil {
		return 0, 0, err
	}
	if antialias {
		return 0, 0, fmt.Errorf("%w: antialiased resize", engine.ErrUnsupported)
	}
	taps := axisTaps(support(kind))
	initSize := 0
	if kind.Interp != engine.InterpLinear {
		initSize = 8 * taps
	}
	return 4 * specWords(dst, taps), initSize, nil
}

// ResizeLinearInit fills spec for a linear resize.
func (e *Engine[T]) ResizeLinearInit(src, dst engine.Size, spec []byte) error {
	return e.initSpec(src, dst, engine.Linear(), spec, nil)
}

// ResizeCubicInit fills spec for a cubic resize.
func (e *Engine[T]) ResizeCubicInit(src, dst engine.Size, b, c float32, spec, init []byte) error {
	return e.initSpec(src, dst, engine.Cubic(b, c), spec, init)
}

// ResizeLanczosInit fills spec for a Lanczos resize.
func (e *Engine[T]) ResizeLanczosInit(src, dst engine.Size, lobes int, spec, init []byte) error {
	return e.initSpec(src, dst, engine.Lanczos(lobes), spec, init)
}

func (e *Engine[T]) initSpec(src, dst engine.Size, kind engine.Kind, spec, init []byte) error {
	specSize, initSize, err := e.ResizeGetSize(src, dst, kind, false)
	if err != nil {
		return err
	}
	if len(spec) < specSize {
		return fmt.Errorf("%w: spec has %d bytes, need %d", engine.ErrSpec, len(spec), specSize)
	}
	if len(init) < initSize {
		return fmt.Errorf("%w: init buffer has %d bytes, need %d", engine.ErrSize, len(init), initSize)
	}
	words, err := wordView(spec[:specSize])
	if err != nil {
		return err
	}
	var tmp []float64
	if initSize > 0 {
		if tmp, err = float64View(init[:initSize]); err != nil {
			return err
		}
	}

	kernel := Kernel(kind)
	taps := axisTaps(kernel.Support)

	h := words[:headerWords]
	h[hMagic] = specMagic
	h[hInterp] = uint32(kind.Interp)
	h[hSrcW], h[hSrcH] = uint32(src.Width), uint32(src.Height)
	h[hDstW], h[hDstH] = uint32(dst.Width), uint32(dst.Height)
	h[hTapsX], h[hTapsY] = uint32(taps), uint32(taps)
	h[hParamB], h[hParamC] = math.Float32bits(kind.B), math.Float32bits(kind.C)
	h[hLobes] = uint32(kind.Lobes)

	xTable := words[headerWords : headerWords+dst.Width*(1+taps)]
	yTable := words[headerWords+dst.Width*(1+taps) : headerWords+dst.Width*(1+taps)+dst.Height*(1+taps)]
	left, right := buildAxis(xTable, src.Width, dst.Width, taps, kernel, tmp)
	top, bottom := buildAxis(yTable, src.Height, dst.Height, taps, kernel, tmp)
	h[hBorderLeft], h[hBorderRight] = uint32(left), uint32(right)
	h[hBorderTop], h[hBorderBottom] = uint32(top), uint32(bottom)
	return nil
}

// buildAxis fills one tap table distributing n source samples over m
// destination samples, and returns how far the taps reach before index 0 and
// after index n-1. Raw weights are accumulated in tmp when given (float64
// keeps negative-lobe kernels well normalized), otherwise in place.
func buildAxis(table []uint32, n, m, taps int, kernel *draw.Kernel, tmp []float64) (before, after int) {
	scale := float64(n) / float64(m)
	stride := 1 + taps
	for x := range m {
		entry := table[x*stride : (x+1)*stride]
		center := (float64(x)+0.5)*scale - 0.5
		start := int(math.Floor(center-kernel.Support)) + 1
		entry[0] = uint32(int32(start))

		total := 0.0
		for k := range taps {
			t := math.Abs(center - float64(start+k))
			w := 0.0
			if t < kernel.Support {
				w = kernel.At(t)
			}
			total += w
			if tmp != nil {
				tmp[k] = w
			} else {
				entry[1+k] = math.Float32bits(float32(w))
			}
		}
		if total == 0 {
			// Degenerate kernel: fall back to the nearest sample.
			for k := range taps {
				entry[1+k] = 0
			}
			nearest := min(max(int(math.Round(center))-start, 0), taps-1)
			entry[1+nearest] = math.Float32bits(1)
		} else {
			inv := 1 / total
			for k := range taps {
				w := float64(math.Float32frombits(entry[1+k]))
				if tmp != nil {
					w = tmp[k]
				}
				entry[1+k] = math.Float32bits(float32(w * inv))
			}
		}

		first, last := start, start+taps-1
		for k := 0; k < taps && zeroWeight(entry[1+k]); k++ {
			first++
		}
		for k := taps - 1; k >= 0 && zeroWeight(entry[1+k]); k-- {
			last--
		}
		before = max(before, -first)
		after = max(after, last-(n-1))
	}
	return before, after
}

func zeroWeight(bits uint32) bool {
	return bits&0x7fffffff == 0
}
