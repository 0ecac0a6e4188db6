// Copyright 2025 go-pyramid Authors. SPDX-License-Identifier: Apache-2.0

package engine

import (
	"errors"
	"testing"
)

func TestSize(t *testing.T) {
	s := Sz(640, 480)
	if s.Area() != 640*480 {
		t.Errorf("Area: got %d, want %d", s.Area(), 640*480)
	}
	if got := s.String(); got != "640x480" {
		t.Errorf("String: got %q, want %q", got, "640x480")
	}
	for _, tt := range []struct {
		s    Size
		want bool
	}{
		{Sz(1, 1), true},
		{Sz(0, 1), false},
		{Sz(1, 0), false},
		{Sz(-3, 4), false},
	} {
		if got := tt.s.Valid(); got != tt.want {
			t.Errorf("%v.Valid(): got %v, want %v", tt.s, got, tt.want)
		}
	}
	if !s.Covers(Sz(640, 1)) || s.Covers(Sz(641, 1)) || s.Covers(Sz(1, 481)) {
		t.Errorf("Covers: wrong answer for %s", s)
	}
}

func TestKindValidate(t *testing.T) {
	tests := []struct {
		kind Kind
		ok   bool
	}{
		{Linear(), true},
		{Cubic(0, 0.5), true},
		{Cubic(1.0/3, 1.0/3), true},
		{Cubic(-0.1, 0.5), false},
		{Cubic(0, 1.5), false},
		{Lanczos(3), true},
		{Lanczos(0), false},
		{Lanczos(MaxLanczosLobes + 1), false},
		{Kind{}, false},
	}
	for _, tt := range tests {
		err := tt.kind.Validate()
		if tt.ok && err != nil {
			t.Errorf("%s: unexpected error %v", tt.kind, err)
		}
		if !tt.ok && !errors.Is(err, ErrUnsupported) {
			t.Errorf("%s: got %v, want ErrUnsupported", tt.kind, err)
		}
	}
}

func TestKindString(t *testing.T) {
	for _, tt := range []struct {
		kind Kind
		want string
	}{
		{Linear(), "linear"},
		{Cubic(0, 0.5), "cubic(b=0,c=0.5)"},
		{Lanczos(3), "lanczos(3)"},
	} {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("String: got %q, want %q", got, tt.want)
		}
	}
}

func TestParseBorder(t *testing.T) {
	for _, b := range []Border{BorderReplicate, BorderWrap, BorderMirror, BorderMirrorRepeat, BorderConstant} {
		got, err := ParseBorder(b.String())
		if err != nil || got != b {
			t.Errorf("ParseBorder(%q): got %v, %v, want %v", b.String(), got, err, b)
		}
	}
	if _, err := ParseBorder("reflect"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("ParseBorder(reflect): got %v, want ErrUnsupported", err)
	}
}

func TestBorderResolve(t *testing.T) {
	const n = 4
	tests := []struct {
		border Border
		in     []int
		want   []int
	}{
		{BorderReplicate, []int{-2, -1, 0, 3, 4, 5}, []int{0, 0, 0, 3, 3, 3}},
		{BorderWrap, []int{-2, -1, 0, 3, 4, 5}, []int{2, 3, 0, 3, 0, 1}},
		{BorderMirror, []int{-2, -1, 0, 3, 4, 5}, []int{2, 1, 0, 3, 2, 1}},
		{BorderMirrorRepeat, []int{-2, -1, 0, 3, 4, 5}, []int{1, 0, 0, 3, 3, 2}},
	}
	for _, tt := range tests {
		for i, idx := range tt.in {
			if got := tt.border.Resolve(idx, n); got != tt.want[i] {
				t.Errorf("%s.Resolve(%d, %d): got %d, want %d", tt.border, idx, n, got, tt.want[i])
			}
		}
	}
}

func TestMirrorLongReach(t *testing.T) {
	// Indices far outside the image still land in range.
	for i := -20; i < 20; i++ {
		if got := Mirror(i, 3); got < 0 || got >= 3 {
			t.Errorf("Mirror(%d, 3): got %d, out of range", i, got)
		}
		if got := Reflect(i, 3); got < 0 || got >= 3 {
			t.Errorf("Reflect(%d, 3): got %d, out of range", i, got)
		}
		if got := Wrap(i, 3); got < 0 || got >= 3 {
			t.Errorf("Wrap(%d, 3): got %d, out of range", i, got)
		}
	}
	if got := Reflect(-5, 1); got != 0 {
		t.Errorf("Reflect(-5, 1): got %d, want 0", got)
	}
}

func TestCopy2D(t *testing.T) {
	src := []uint8{
		1, 2, 3, 0,
		4, 5, 6, 0,
	}
	dst := make([]uint8, 3*2)
	if err := Copy2D(Sz(3, 2), src, 4, dst, 3); err != nil {
		t.Fatalf("Copy2D: %v", err)
	}
	want := []uint8{1, 2, 3, 4, 5, 6}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("Copy2D: got %v, want %v", dst, want)
		}
	}

	// The last row may end before the pitch does.
	short := make([]float32, 4+2)
	if err := Copy2D(Sz(2, 2), []float32{1, 2, 3, 4}, 2, short, 4); err != nil {
		t.Fatalf("Copy2D short last row: %v", err)
	}
	if short[4] != 3 || short[5] != 4 {
		t.Errorf("Copy2D short last row: got %v", short)
	}
}

func TestCopy2DErrors(t *testing.T) {
	buf := make([]uint8, 16)
	tests := []struct {
		name               string
		size               Size
		src                []uint8
		srcPitch, dstPitch int
	}{
		{"pitch below width", Sz(5, 1), buf, 4, 8},
		{"source too short", Sz(4, 4), buf[:12], 4, 4},
		{"negative", Sz(-1, 2), buf, 4, 4},
	}
	for _, tt := range tests {
		if err := Copy2D(tt.size, tt.src, tt.srcPitch, buf, tt.dstPitch); !errors.Is(err, ErrSize) {
			t.Errorf("%s: got %v, want ErrSize", tt.name, err)
		}
	}
	if err := Copy2D[uint8](Sz(0, 3), nil, 0, nil, 0); err != nil {
		t.Errorf("empty copy: got %v, want nil", err)
	}
}
