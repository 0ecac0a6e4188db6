// Copyright 2025 go-pyramid Authors. SPDX-License-Identifier: Apache-2.0

package soft

import (
	"fmt"
	"math"

	"github.com/ajroetker/go-pyramid/pyr/engine"
)

// plan is a decoded view over an initialized spec. It holds no copies.
type plan struct {
	interp engine.Interpolation
	src    engine.Size
	dst    engine.Size
	tapsX  int
	tapsY  int
	xTable []uint32
	yTable []uint32
	words  []uint32
}

func parseSpec(spec []byte) (plan, error) {
	words, err := wordView(spec[:len(spec)&^3])
	if err != nil {
		return plan{}, err
	}
	if len(words) < headerWords || words[hMagic] != specMagic {
		return plan{}, fmt.Errorf("%w: not an initialized spec", engine.ErrSpec)
	}
	p := plan{
		interp: engine.Interpolation(words[hInterp]),
		src:    engine.Sz(int(words[hSrcW]), int(words[hSrcH])),
		dst:    engine.Sz(int(words[hDstW]), int(words[hDstH])),
		tapsX:  int(words[hTapsX]),
		tapsY:  int(words[hTapsY]),
		words:  words,
	}
	xEnd := headerWords + p.dst.Width*(1+p.tapsX)
	yEnd := xEnd + p.dst.Height*(1+p.tapsY)
	if len(words) < yEnd {
		return plan{}, fmt.Errorf("%w: truncated spec for %s -> %s", engine.ErrSpec, p.src, p.dst)
	}
	p.xTable = words[headerWords:xEnd]
	p.yTable = words[xEnd:yEnd]
	return p, nil
}

// ResizeGetBufferSize returns the size of the float32 intermediate holding
// the horizontally resampled source rows.
func (e *Engine[T]) ResizeGetBufferSize(spec []byte, dst engine.Size, channels int) (int, error) {
	p, err := parseSpec(spec)
	if err != nil {
		return 0, err
	}
	if channels < 1 {
		return 0, fmt.Errorf("%w: %d channels", engine.ErrSize, channels)
	}
	if !dst.Valid() || !p.dst.Covers(dst) {
		return 0, fmt.Errorf("%w: tile %s outside spec destination %s", engine.ErrSize, dst, p.dst)
	}
	return 4 * dst.Width * p.src.Height * channels, nil
}

// ResizeGetBorderSize reports how far the spec's taps reach outside the source.
func (e *Engine[T]) ResizeGetBorderSize(spec []byte) (engine.BorderSize, error) {
	p, err := parseSpec(spec)
	if err != nil {
		return engine.BorderSize{}, err
	}
	w := p.words
	return engine.BorderSize{
		Left:   int(w[hBorderLeft]),
		Top:    int(w[hBorderTop]),
		Right:  int(w[hBorderRight]),
		Bottom: int(w[hBorderBottom]),
	}, nil
}

// ResizeLinear executes a linear spec.
func (e *Engine[T]) ResizeLinear(src []T, srcPitch int, dst []T, dstPitch int, dstOffset engine.Point, dstSize engine.Size,
	border engine.Border, borderValue *T, spec, work []byte) error {
	return e.resize(engine.InterpLinear, src, srcPitch, dst, dstPitch, dstOffset, dstSize, border, borderValue, spec, work)
}

// ResizeCubic executes a cubic spec.
func (e *Engine[T]) ResizeCubic(src []T, srcPitch int, dst []T, dstPitch int, dstOffset engine.Point, dstSize engine.Size,
	border engine.Border, borderValue *T, spec, work []byte) error {
	return e.resize(engine.InterpCubic, src, srcPitch, dst, dstPitch, dstOffset, dstSize, border, borderValue, spec, work)
}

// ResizeLanczos executes a Lanczos spec.
func (e *Engine[T]) ResizeLanczos(src []T, srcPitch int, dst []T, dstPitch int, dstOffset engine.Point, dstSize engine.Size,
	border engine.Border, borderValue *T, spec, work []byte) error {
	return e.resize(engine.InterpLanczos, src, srcPitch, dst, dstPitch, dstOffset, dstSize, border, borderValue, spec, work)
}

func (e *Engine[T]) resize(interp engine.Interpolation, src []T, srcPitch int, dst []T, dstPitch int,
	off engine.Point, size engine.Size, border engine.Border, borderValue *T, spec, work []byte) error {
	p, err := parseSpec(spec)
	if err != nil {
		return err
	}
	if p.interp != interp {
		return fmt.Errorf("%w: %s spec passed to %s resize", engine.ErrSpec, p.interp, interp)
	}
	if off.X < 0 || off.Y < 0 || !size.Valid() || !p.dst.Covers(engine.Sz(off.X+size.Width, off.Y+size.Height)) {
		return fmt.Errorf("%w: tile %s at (%d,%d) outside %s", engine.ErrSize, size, off.X, off.Y, p.dst)
	}
	if srcPitch < p.src.Width || len(src) < srcPitch*(p.src.Height-1)+p.src.Width {
		return fmt.Errorf("%w: source smaller than %s", engine.ErrSize, p.src)
	}
	if dstPitch < size.Width || len(dst) < dstPitch*(size.Height-1)+size.Width {
		return fmt.Errorf("%w: destination smaller than %s", engine.ErrSize, size)
	}

	var constant float32
	switch border {
	case engine.BorderReplicate, engine.BorderWrap, engine.BorderMirror, engine.BorderMirrorRepeat:
	case engine.BorderConstant:
		if borderValue == nil {
			return fmt.Errorf("%w: constant border without a value", engine.ErrUnsupported)
		}
		constant = float32(*borderValue)
	default:
		return fmt.Errorf("%w: %s border", engine.ErrUnsupported, border)
	}

	need := size.Width * p.src.Height
	tmp, err := floatView(work[:len(work)&^3])
	if err != nil {
		return err
	}
	if len(tmp) < need {
		return fmt.Errorf("%w: work buffer has %d bytes, need %d", engine.ErrSize, len(work), 4*need)
	}
	tmp = tmp[:need]

	// Horizontal pass: every source row, tile columns only.
	xStride := 1 + p.tapsX
	for y := range p.src.Height {
		row := src[y*srcPitch : y*srcPitch+p.src.Width]
		out := tmp[y*size.Width : (y+1)*size.Width]
		for x := range out {
			entry := p.xTable[(off.X+x)*xStride : (off.X+x+1)*xStride]
			start := int(int32(entry[0]))
			var acc float32
			for k, bits := range entry[1:] {
				if zeroWeight(bits) {
					continue
				}
				i := start + k
				var v float32
				if i >= 0 && i < len(row) {
					v = float32(row[i])
				} else if border == engine.BorderConstant {
					v = constant
				} else {
					v = float32(row[border.Resolve(i, len(row))])
				}
				acc += math.Float32frombits(bits) * v
			}
			out[x] = acc
		}
	}

	// Vertical pass into the destination tile.
	yStride := 1 + p.tapsY
	for y := range size.Height {
		entry := p.yTable[(off.Y+y)*yStride : (off.Y+y+1)*yStride]
		start := int(int32(entry[0]))
		out := dst[y*dstPitch : y*dstPitch+size.Width]
		for x := range out {
			var acc float32
			for k, bits := range entry[1:] {
				if zeroWeight(bits) {
					continue
				}
				i := start + k
				var v float32
				if i >= 0 && i < p.src.Height {
					v = tmp[i*size.Width+x]
				} else if border == engine.BorderConstant {
					v = constant
				} else {
					v = tmp[border.Resolve(i, p.src.Height)*size.Width+x]
				}
				acc += math.Float32frombits(bits) * v
			}
			out[x] = e.fromFloat(acc)
		}
	}
	return nil
}

// fromFloat converts an accumulated sample to T, rounding and saturating for
// 8-bit pixels.
func (e *Engine[T]) fromFloat(v float32) T {
	if e.isFloat {
		return T(v)
	}
	v += 0.5
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return T(v)
}
