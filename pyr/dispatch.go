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

package pyr

import (
	"os"
	"strconv"
)

// DispatchLevel is the widest SIMD instruction set detected on this machine.
// It only drives row alignment; the pure-Go engine does not emit vector code.
type DispatchLevel int

const (
	// DispatchScalar indicates no usable SIMD extension.
	DispatchScalar DispatchLevel = iota

	// DispatchSSE2 indicates SSE2 (x86-64 baseline, 128-bit).
	DispatchSSE2

	// DispatchAVX2 indicates AVX2 (256-bit).
	DispatchAVX2

	// DispatchAVX512 indicates AVX-512 (512-bit).
	DispatchAVX512

	// DispatchNEON indicates ARM NEON (128-bit).
	DispatchNEON
)

// String returns a human-readable name for the dispatch level.
func (d DispatchLevel) String() string {
	switch d {
	case DispatchScalar:
		return "scalar"
	case DispatchSSE2:
		return "sse2"
	case DispatchAVX2:
		return "avx2"
	case DispatchAVX512:
		return "avx512"
	case DispatchNEON:
		return "neon"
	default:
		return "unknown"
	}
}

// Set by init() in dispatch_*.go files.
var (
	currentLevel DispatchLevel
	currentWidth int
)

// CurrentLevel returns the detected SIMD level.
func CurrentLevel() DispatchLevel {
	return currentLevel
}

// CurrentWidth returns the SIMD register width in bytes: 16 for SSE2, NEON
// and scalar mode, 32 for AVX2, 64 for AVX-512.
func CurrentWidth() int {
	return currentWidth
}

// NoSimdEnv reports whether the PYR_NO_SIMD environment variable is set.
func NoSimdEnv() bool {
	val := os.Getenv("PYR_NO_SIMD")
	if val == "" {
		return false
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}

func setScalarMode() {
	currentLevel = DispatchScalar
	currentWidth = 16
}

// RowAlign returns the byte boundary every image row starts on.
func RowAlign() int {
	return currentWidth
}

// AlignedPitch returns the smallest pitch, in elements, that is >= width and
// whose byte length is a multiple of RowAlign.
func AlignedPitch[T Pixel](width int) int {
	if width <= 0 {
		return 0
	}
	lanes := RowAlign() / SizeOf[T]()
	return ((width + lanes - 1) / lanes) * lanes
}
