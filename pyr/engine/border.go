// Copyright 2025 go-pyramid Authors. SPDX-License-Identifier: Apache-2.0

package engine

// Resolve maps an out-of-range index to an index in [0, n) according to the
// border rule. BorderConstant has no source index; Resolve treats it like
// BorderReplicate and callers substitute the constant themselves.
func (b Border) Resolve(index, n int) int {
	switch b {
	case BorderWrap:
		return Wrap(index, n)
	case BorderMirror:
		return Reflect(index, n)
	case BorderMirrorRepeat:
		return Mirror(index, n)
	default:
		return Clamp(index, n)
	}
}

// Mirror returns the mirrored index for out-of-bounds coordinates.
// Given bounds [0, size), -1 maps to 0 and size maps to size-1.
func Mirror(index, size int) int {
	if size <= 0 {
		return 0
	}
	if index < 0 {
		index = -index - 1
	}
	if index >= size {
		period := 2 * size
		index = index % period
		if index >= size {
			index = period - index - 1
		}
	}
	return index
}

// Clamp returns index clamped to [0, size-1].
func Clamp(index, size int) int {
	if index < 0 {
		return 0
	}
	if index >= size {
		return size - 1
	}
	return index
}

// Wrap returns index wrapped to [0, size) using modulo.
func Wrap(index, size int) int {
	if size <= 0 {
		return 0
	}
	index = index % size
	if index < 0 {
		index += size
	}
	return index
}

// Reflect mirrors out-of-bounds coordinates about the edge pixels without
// repeating them. Given bounds [0, size), -1 maps to 1 and size maps to
// size-2.
func Reflect(index, size int) int {
	if size <= 1 {
		return 0
	}
	period := 2 * (size - 1)
	index %= period
	if index < 0 {
		index += period
	}
	if index >= size {
		index = period - index
	}
	return index
}
