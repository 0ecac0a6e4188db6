// Copyright 2025 go-pyramid Authors. SPDX-License-Identifier: Apache-2.0

package pyramid

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/ajroetker/go-pyramid/pyr/engine"
	"github.com/ajroetker/go-pyramid/pyr/engine/enginetest"
	"github.com/ajroetker/go-pyramid/pyr/engine/soft"
	"github.com/ajroetker/go-pyramid/pyr/image"
	"github.com/ajroetker/go-pyramid/pyr/resize"
)

func TestNewAllocatesChain(t *testing.T) {
	e := enginetest.New[uint8](soft.New[uint8]())
	p, err := New[uint8](e, 1024, 768, 100, 100)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	if p.NumSteps() != 4 {
		t.Errorf("NumSteps: got %d, want 4", p.NumSteps())
	}
	if p.Src() != engine.Sz(1024, 768) || p.Dst() != engine.Sz(100, 100) {
		t.Errorf("endpoints: got %s -> %s", p.Src(), p.Dst())
	}
	if p.Policy() != ContinueWhileAny {
		t.Errorf("Policy: got %s, want any", p.Policy())
	}
	if got := e.Count(enginetest.OpAlloc2D); got != 5 {
		t.Errorf("Alloc2D calls: got %d, want 5", got)
	}
	if got := e.Count(enginetest.OpResizeLinearInit); got != 4 {
		t.Errorf("ResizeLinearInit calls: got %d, want 4", got)
	}
	// Five buffers plus spec and work per step.
	if e.Live() != 5+2*4 {
		t.Errorf("Live: got %d, want %d", e.Live(), 5+2*4)
	}

	levels := p.Levels()
	levels[0] = engine.Sz(1, 1)
	if p.Src() != engine.Sz(1024, 768) {
		t.Errorf("Levels returned internal storage")
	}
	for k := range 5 {
		if p.Level(k) == nil {
			t.Errorf("Level(%d): nil", k)
		}
	}
	if p.Level(5) != nil {
		t.Errorf("Level(5): want nil")
	}
}

func TestNewRejectsUpscale(t *testing.T) {
	e := enginetest.New[uint8](soft.New[uint8]())
	if _, err := New[uint8](e, 100, 100, 200, 50); !errors.Is(err, ErrInvalidResolution) {
		t.Errorf("got %v, want ErrInvalidResolution", err)
	}
	if len(e.Calls()) != 0 {
		t.Errorf("engine called for an invalid plan: %v", e.Calls())
	}
}

func TestNewFailureReleasesEverything(t *testing.T) {
	boom := errors.New("boom")
	for _, tt := range []struct {
		op    enginetest.Op
		after int
	}{
		{enginetest.OpAlloc2D, 0},
		{enginetest.OpAlloc2D, 3},
		{enginetest.OpAlloc1D, 5},
		{enginetest.OpResizeLinearInit, 2},
	} {
		e := enginetest.New[float32](soft.New[float32]())
		e.FailOn(tt.op, tt.after, boom)
		_, err := New[float32](e, 1024, 768, 100, 100)
		if !errors.Is(err, boom) {
			t.Errorf("%s after %d: got %v, want boom", tt.op, tt.after, err)
		}
		if e.Live() != 0 || e.BadFrees() != 0 {
			t.Errorf("%s after %d: %d live, %d bad frees", tt.op, tt.after, e.Live(), e.BadFrees())
		}
	}
}

func TestDownsampleConstant(t *testing.T) {
	for _, policy := range []Policy{ContinueWhileAny, ContinueWhileAll} {
		p := MustNew[uint8](soft.New[uint8](), 1024, 256, 100, 100, WithPolicy(policy))
		src := make([]uint8, 1024*256)
		for i := range src {
			src[i] = 200
		}
		dst := make([]uint8, 100*100)
		p.MustDownsample(src, dst)
		for i, v := range dst {
			if v != 200 {
				t.Fatalf("%s: pixel %d: got %d, want 200", policy, i, v)
			}
		}
		p.Close()
	}
}

func TestDownsampleMatchesOperatorChain(t *testing.T) {
	eng := soft.New[float32]()
	src := make([]float32, 300*200)
	for i := range src {
		src[i] = float32((i*7919)%251) / 251
	}
	kind := engine.Cubic(1.0/3, 1.0/3)

	p := MustNew[float32](eng, 300, 200, 40, 30, WithKind(kind))
	defer p.Close()
	got := make([]float32, 40*30)
	p.MustDownsample(src, got)

	// The same chain assembled by hand.
	levels := p.Levels()
	bufs := make([]*image.Buffer[float32], len(levels))
	for k, l := range levels {
		bufs[k] = image.MustAlloc[float32](eng, l.Width, l.Height)
		defer bufs[k].Free()
	}
	if err := bufs[0].Load(src); err != nil {
		t.Fatalf("Load: %v", err)
	}
	for k := 1; k < len(levels); k++ {
		op := resize.MustNew[float32](eng, kind, levels[k-1], levels[k])
		op.MustResize(bufs[k-1], bufs[k])
		op.Close()
	}
	want := make([]float32, 40*30)
	if err := bufs[len(bufs)-1].Store(want); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("pyramid vs hand-built chain (-want +got):\n%s", diff)
	}

	// Repeated runs are deterministic.
	again := make([]float32, 40*30)
	p.MustDownsample(src, again)
	if diff := cmp.Diff(got, again); diff != "" {
		t.Errorf("second run differs (-first +second):\n%s", diff)
	}
}

func TestDownsamplePreservesMean(t *testing.T) {
	// Exact 2x linear halvings average 2x2 blocks, so the mean survives.
	p := MustNew[float32](soft.New[float32](), 64, 32, 16, 8)
	defer p.Close()
	src := make([]float32, 64*32)
	var sum float64
	for i := range src {
		src[i] = float32(i % 13)
		sum += float64(src[i])
	}
	dst := make([]float32, 16*8)
	p.MustDownsample(src, dst)
	var got float64
	for _, v := range dst {
		got += float64(v)
	}
	if want := sum / float64(len(src)); math.Abs(got/float64(len(dst))-want) > 1e-4 {
		t.Errorf("mean: got %g, want %g", got/float64(len(dst)), want)
	}
}

func TestDownsampleIdentity(t *testing.T) {
	e := enginetest.New[uint8](soft.New[uint8]())
	p := MustNew[uint8](e, 16, 16, 16, 16)
	defer p.Close()
	if p.NumSteps() != 0 {
		t.Fatalf("NumSteps: got %d, want 0", p.NumSteps())
	}
	src := make([]uint8, 256)
	for i := range src {
		src[i] = uint8(i)
	}
	dst := make([]uint8, 256)
	p.MustDownsample(src, dst)
	if diff := cmp.Diff(src, dst); diff != "" {
		t.Errorf("identity mismatch (-want +got):\n%s", diff)
	}
	if e.Count(enginetest.OpResizeLinear) != 0 {
		t.Errorf("identity pyramid ran a resize")
	}
}

func TestDownsampleLengthCheckedFirst(t *testing.T) {
	e := enginetest.New[uint8](soft.New[uint8]())
	p := MustNew[uint8](e, 64, 64, 16, 16)
	defer p.Close()
	e.Reset()

	if err := p.Downsample(make([]uint8, 64*64-1), make([]uint8, 256)); !errors.Is(err, image.ErrLengthMismatch) {
		t.Errorf("short source: got %v, want ErrLengthMismatch", err)
	}
	if err := p.Downsample(make([]uint8, 64*64), make([]uint8, 257)); !errors.Is(err, image.ErrLengthMismatch) {
		t.Errorf("long destination: got %v, want ErrLengthMismatch", err)
	}
	if len(e.Calls()) != 0 {
		t.Errorf("engine called before length checks: %v", e.Calls())
	}
}

func TestDownsampleStepFailure(t *testing.T) {
	boom := errors.New("boom")
	e := enginetest.New[uint8](soft.New[uint8]())
	p := MustNew[uint8](e, 64, 64, 8, 8)
	defer p.Close()
	e.FailOn(enginetest.OpResizeLinear, 1, boom)

	dst := make([]uint8, 64)
	for i := range dst {
		dst[i] = 9
	}
	err := p.Downsample(make([]uint8, 64*64), dst)
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want boom", err)
	}
	if e.Count(enginetest.OpResizeLinear) != 2 {
		t.Errorf("steps run: got %d, want 2", e.Count(enginetest.OpResizeLinear))
	}
	for _, v := range dst {
		if v != 9 {
			t.Fatalf("destination written after a failed step")
		}
	}
}

func TestCloseReleasesInReverse(t *testing.T) {
	e := enginetest.New[uint8](soft.New[uint8]())
	p := MustNew[uint8](e, 64, 64, 8, 8)

	var bufIDs []int
	for _, c := range e.Calls() {
		if c.Op == enginetest.OpAlloc2D {
			bufIDs = append(bufIDs, c.ID)
		}
	}
	e.Reset()
	p.Close()
	p.Close()

	calls := e.Calls()
	var freed []int
	seenBuffer := false
	for _, c := range calls {
		switch c.Op {
		case enginetest.OpFree2D:
			seenBuffer = true
			freed = append(freed, c.ID)
		case enginetest.OpFree1D:
			if seenBuffer {
				t.Errorf("operator scratch freed after a buffer: %v", calls)
			}
		}
	}
	want := make([]int, len(bufIDs))
	for i, id := range bufIDs {
		want[len(bufIDs)-1-i] = id
	}
	if diff := cmp.Diff(want, freed); diff != "" {
		t.Errorf("buffer release order (-want +got):\n%s", diff)
	}
	if e.Live() != 0 || e.BadFrees() != 0 {
		t.Errorf("after Close: %d live, %d bad frees", e.Live(), e.BadFrees())
	}
	if err := p.Downsample(nil, nil); !errors.Is(err, ErrClosed) {
		t.Errorf("Downsample after Close: got %v, want ErrClosed", err)
	}
}

func TestOptions(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	p, err := New[uint8](soft.New[uint8](), 40, 40, 10, 10,
		WithKind(engine.Lanczos(3)),
		WithBorder(engine.BorderMirror),
		WithLogger(logger))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()
	entry := hook.LastEntry()
	if entry == nil || entry.Message != "pyramid built" {
		t.Fatalf("log: got %v, want pyramid built", entry)
	}
	if entry.Data["levels"] != "40x40 -> 20x20 -> 10x10" || entry.Data["kind"] != "lanczos(3)" {
		t.Errorf("log fields: got %v", entry.Data)
	}
	// Operators log to the pyramid's logger, one entry per step.
	var opEntries int
	for _, e := range hook.AllEntries() {
		if e.Message == "resize operator ready" {
			opEntries++
		}
	}
	if opEntries != p.NumSteps() {
		t.Errorf("operator log entries: got %d, want %d", opEntries, p.NumSteps())
	}

	pc, err := New[uint8](soft.New[uint8](), 40, 40, 10, 10, WithBorderValue(12))
	if err != nil {
		t.Fatalf("New constant border: %v", err)
	}
	defer pc.Close()
	src := make([]uint8, 1600)
	dst := make([]uint8, 100)
	for i := range dst {
		dst[i] = 0xff
	}
	pc.MustDownsample(src, dst)
	// Pixels whose taps stay inside the image never see the border value.
	for y := 2; y < 8; y++ {
		for x := 2; x < 8; x++ {
			if got := dst[y*10+x]; got != 0 {
				t.Errorf("constant border interior (%d,%d): got %d, want 0", x, y, got)
			}
		}
	}
	again := make([]uint8, 100)
	pc.MustDownsample(src, again)
	if diff := cmp.Diff(dst, again); diff != "" {
		t.Errorf("constant border rerun mismatch (-first +second):\n%s", diff)
	}
}
