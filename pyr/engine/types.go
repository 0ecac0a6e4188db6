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

package engine

import (
	"fmt"
)

// Size is a 2D resolution in pixels.
type Size struct {
	Width, Height int
}

// Sz is shorthand for Size{Width: w, Height: h}.
func Sz(w, h int) Size {
	return Size{Width: w, Height: h}
}

// Area returns Width*Height.
func (s Size) Area() int {
	return s.Width * s.Height
}

// Valid reports whether both dimensions are at least one pixel.
func (s Size) Valid() bool {
	return s.Width >= 1 && s.Height >= 1
}

// Covers reports whether s is at least as large as o in both dimensions.
func (s Size) Covers(o Size) bool {
	return s.Width >= o.Width && s.Height >= o.Height
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Point is a pixel offset.
type Point struct {
	X, Y int
}

// BorderSize is how far, in pixels, a filter reads outside each edge of the
// source image.
type BorderSize struct {
	Left, Top, Right, Bottom int
}

// Interpolation selects the resampling kernel family.
type Interpolation int

const (
	// InterpLinear is the 2-tap triangle filter.
	InterpLinear Interpolation = iota + 1
	// InterpCubic is the 4-tap Mitchell-Netravali family.
	InterpCubic
	// InterpLanczos is the windowed sinc with a configurable lobe count.
	InterpLanczos
)

func (i Interpolation) String() string {
	switch i {
	case InterpLinear:
		return "linear"
	case InterpCubic:
		return "cubic"
	case InterpLanczos:
		return "lanczos"
	default:
		return fmt.Sprintf("Interpolation(%d)", int(i))
	}
}

// Kind is an interpolation family together with its shape parameters.
// The zero value is invalid; build one with Linear, Cubic or Lanczos.
type Kind struct {
	Interp Interpolation
	B, C   float32 // cubic only
	Lobes  int     // lanczos only
}

// Linear returns the linear interpolation kind.
func Linear() Kind {
	return Kind{Interp: InterpLinear}
}

// Cubic returns a cubic kind with Mitchell-Netravali parameters b and c.
// (0, 0.5) is Catmull-Rom, (1/3, 1/3) is Mitchell, (1, 0) is the B-spline.
func Cubic(b, c float32) Kind {
	return Kind{Interp: InterpCubic, B: b, C: c}
}

// Lanczos returns a Lanczos kind with the given number of lobes.
func Lanczos(lobes int) Kind {
	return Kind{Interp: InterpLanczos, Lobes: lobes}
}

// Validate checks the kind parameters.
func (k Kind) Validate() error {
	switch k.Interp {
	case InterpLinear:
		return nil
	case InterpCubic:
		if k.B < 0 || k.B > 1 || k.C < 0 || k.C > 1 {
			return fmt.Errorf("%w: cubic parameters b=%g c=%g outside [0,1]", ErrUnsupported, k.B, k.C)
		}
		return nil
	case InterpLanczos:
		if k.Lobes < 1 || k.Lobes > MaxLanczosLobes {
			return fmt.Errorf("%w: lanczos lobes %d outside [1,%d]", ErrUnsupported, k.Lobes, MaxLanczosLobes)
		}
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnsupported, k.Interp)
	}
}

func (k Kind) String() string {
	switch k.Interp {
	case InterpCubic:
		return fmt.Sprintf("cubic(b=%g,c=%g)", k.B, k.C)
	case InterpLanczos:
		return fmt.Sprintf("lanczos(%d)", k.Lobes)
	default:
		return k.Interp.String()
	}
}

// MaxLanczosLobes bounds the Lanczos lobe count accepted by Kind.Validate.
const MaxLanczosLobes = 8

// Border is the rule for synthesizing samples outside the source image.
type Border int

const (
	// BorderReplicate repeats the edge pixel.
	BorderReplicate Border = iota
	// BorderWrap tiles the image.
	BorderWrap
	// BorderMirror reflects about the edge pixel without repeating it:
	// -1 maps to 1.
	BorderMirror
	// BorderMirrorRepeat reflects and repeats the edge pixel: -1 maps to 0.
	BorderMirrorRepeat
	// BorderConstant uses a caller-supplied value.
	BorderConstant
)

func (b Border) String() string {
	switch b {
	case BorderReplicate:
		return "replicate"
	case BorderWrap:
		return "wrap"
	case BorderMirror:
		return "mirror"
	case BorderMirrorRepeat:
		return "mirror_repeat"
	case BorderConstant:
		return "constant"
	default:
		return fmt.Sprintf("Border(%d)", int(b))
	}
}

// ParseBorder maps a name as printed by Border.String back to a Border.
func ParseBorder(s string) (Border, error) {
	for b := BorderReplicate; b <= BorderConstant; b++ {
		if b.String() == s {
			return b, nil
		}
	}
	return 0, fmt.Errorf("%w: border %q", ErrUnsupported, s)
}
