// Copyright 2025 go-pyramid Authors. SPDX-License-Identifier: Apache-2.0

package pyramid

import (
	"errors"
	"fmt"

	"github.com/ajroetker/go-pyramid/pyr/engine"
)

// ErrInvalidResolution reports an empty resolution or a destination larger
// than the source.
var ErrInvalidResolution = errors.New("pyramid: invalid resolution")

// Policy decides when the halving loop stops.
type Policy int

const (
	// ContinueWhileAny steps while either dimension exceeds its target.
	ContinueWhileAny Policy = iota
	// ContinueWhileAll steps while both dimensions exceed their targets, then
	// appends one direct step to the destination if it was not reached.
	ContinueWhileAll
)

func (p Policy) String() string {
	switch p {
	case ContinueWhileAny:
		return "any"
	case ContinueWhileAll:
		return "all"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy accepts "any" or "all".
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "any":
		return ContinueWhileAny, nil
	case "all":
		return ContinueWhileAll, nil
	}
	return 0, fmt.Errorf("pyramid: unknown policy %q", s)
}

func (p Policy) proceed(prev, dst engine.Size) bool {
	if p == ContinueWhileAll {
		return prev.Width > dst.Width && prev.Height > dst.Height
	}
	return prev.Width > dst.Width || prev.Height > dst.Height
}

// Plan returns the level resolutions from src to dst, both included.
// When src == dst the result has a single level and no resize steps.
func Plan(src, dst engine.Size, policy Policy) ([]engine.Size, error) {
	if !src.Valid() || !dst.Valid() {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidResolution, src, dst)
	}
	if !src.Covers(dst) {
		return nil, fmt.Errorf("%w: destination %s larger than source %s", ErrInvalidResolution, dst, src)
	}
	if policy != ContinueWhileAny && policy != ContinueWhileAll {
		return nil, fmt.Errorf("pyramid: unknown policy %d", int(policy))
	}

	levels := []engine.Size{src}
	prev := src
	for policy.proceed(prev, dst) {
		next := engine.Sz(halve(prev.Width, dst.Width), halve(prev.Height, dst.Height))
		levels = append(levels, next)
		prev = next
	}
	if prev != dst {
		// Only ContinueWhileAll gets here.
		levels = append(levels, dst)
	}
	return levels, nil
}

// halve returns ceil(n/2) while n is at least twice the target, else the target.
func halve(n, target int) int {
	if n >= 2*target {
		return (n + 1) / 2
	}
	return target
}
