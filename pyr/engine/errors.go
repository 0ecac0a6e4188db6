// Copyright 2025 go-pyramid Authors. SPDX-License-Identifier: Apache-2.0

package engine

import "errors"

var (
	// ErrAlloc reports that the engine could not allocate memory.
	ErrAlloc = errors.New("engine: allocation failed")
	// ErrSize reports an invalid resolution, pitch or buffer length.
	ErrSize = errors.New("engine: invalid size")
	// ErrSpec reports a filter spec that is too small, misaligned or was
	// produced for a different resize.
	ErrSpec = errors.New("engine: invalid filter spec")
	// ErrUnsupported reports a kind, border or parameter the engine cannot handle.
	ErrUnsupported = errors.New("engine: unsupported")
)
