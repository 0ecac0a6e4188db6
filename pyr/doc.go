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

// Package pyr holds the pieces shared by every go-pyramid package: the
// Pixel element-type constraint, the row alignment used when allocating
// pitched images, and the package-wide logger.
//
// The image pipeline itself lives in sub-packages:
//
//	pyr/engine    resampling engine capability (alloc, copy, resize)
//	pyr/image     pitched single-channel buffers and opaque scratch regions
//	pyr/resize    resize operators with precomputed filter state
//	pyr/pyramid   cascading downsample pyramids
//
// # Row Alignment
//
// Rows of pitched images start on a boundary equal to the widest SIMD
// register detected at startup (16, 32 or 64 bytes). Set PYR_NO_SIMD=1 to
// force the 16-byte baseline, which is useful when comparing layouts across
// machines.
package pyr
