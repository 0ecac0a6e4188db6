// Copyright 2025 go-pyramid Authors. SPDX-License-Identifier: Apache-2.0

package soft

import (
	"math"

	"golang.org/x/image/draw"

	"github.com/ajroetker/go-pyramid/pyr/engine"
)

// Kernel returns the x/image/draw kernel for k, or nil for an invalid kind.
// Kernel.At is only ever evaluated for 0 <= t < Support.
func Kernel(k engine.Kind) *draw.Kernel {
	switch k.Interp {
	case engine.InterpLinear:
		return draw.BiLinear
	case engine.InterpCubic:
		if k.B == 0 && k.C == 0.5 {
			return draw.CatmullRom
		}
		return &draw.Kernel{Support: 2, At: mitchellNetravali(float64(k.B), float64(k.C))}
	case engine.InterpLanczos:
		return &draw.Kernel{Support: float64(k.Lobes), At: lanczos(float64(k.Lobes))}
	}
	return nil
}

func mitchellNetravali(b, c float64) func(float64) float64 {
	p0 := (6 - 2*b) / 6
	p2 := (-18 + 12*b + 6*c) / 6
	p3 := (12 - 9*b - 6*c) / 6
	q0 := (8*b + 24*c) / 6
	q1 := (-12*b - 48*c) / 6
	q2 := (6*b + 30*c) / 6
	q3 := (-b - 6*c) / 6
	return func(t float64) float64 {
		if t < 1 {
			return p0 + t*t*(p2+t*p3)
		}
		return q0 + t*(q1+t*(q2+t*q3))
	}
}

func lanczos(a float64) func(float64) float64 {
	return func(t float64) float64 {
		if t == 0 {
			return 1
		}
		return sinc(t) * sinc(t/a)
	}
}

func sinc(x float64) float64 {
	x *= math.Pi
	return math.Sin(x) / x
}
