// Copyright 2025 go-pyramid Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/ajroetker/go-pyramid/pyr/engine"
	"github.com/ajroetker/go-pyramid/pyr/engine/soft"
	"github.com/ajroetker/go-pyramid/pyr/engine/xdraw"
)

// backend constructs engines for each pixel type it supports. A nil
// constructor means the type is not supported.
type backend struct {
	u8  func() engine.Engine[uint8]
	f32 func() engine.Engine[float32]
}

var backends = map[string]backend{
	"soft": {
		u8:  func() engine.Engine[uint8] { return soft.New[uint8]() },
		f32: func() engine.Engine[float32] { return soft.New[float32]() },
	},
	"xdraw": {
		u8: func() engine.Engine[uint8] { return xdraw.New() },
	},
}
