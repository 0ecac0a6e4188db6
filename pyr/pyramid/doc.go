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

// Package pyramid downsamples images through a chain of intermediate
// resolutions so that no single resize shrinks either dimension by more than
// half. With a 2-tap linear filter and no antialiasing, that keeps every
// source pixel contributing to the result, which bounds aliasing for large
// reductions.
//
// # Topology
//
// Each step halves (rounding up) every dimension that is still at least twice
// its target, and snaps the others straight to the target:
//
//	1024x768 -> 512x384 -> 256x192 -> 128x100 -> 100x100
//
// The chain stops according to a Policy. ContinueWhileAny, the default, keeps
// going while either dimension is above its target and always ends exactly at
// the requested resolution. ContinueWhileAll stops as soon as one dimension
// reaches its target and then adds a single direct step to the destination;
// it reproduces an older variant of the algorithm and can exceed the 2x bound
// on that last step for aspect-ratio changes.
//
// # Usage
//
//	p, err := pyramid.New[uint8](soft.New[uint8](), 1024, 768, 100, 100)
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
//	out := make([]uint8, 100*100)
//	err = p.Downsample(frame, out)
//
// All buffers and operators are allocated by New. Downsample reuses them and
// is therefore not safe for concurrent use on one Pyramid; use a Pool to
// process several images in parallel.
package pyramid
