// Copyright 2025 go-pyramid Authors. SPDX-License-Identifier: Apache-2.0

//go:build gocv

package main

import (
	"github.com/ajroetker/go-pyramid/pyr/engine"
	"github.com/ajroetker/go-pyramid/pyr/engine/opencv"
)

func init() {
	backends["opencv"] = backend{
		u8:  func() engine.Engine[uint8] { return opencv.New[uint8]() },
		f32: func() engine.Engine[float32] { return opencv.New[float32]() },
	}
}
