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

// Package image provides engine-allocated storage for the resize pipeline.
//
// Buffer[T] is a single-channel 2D image whose rows are pitch elements apart,
// with pitch >= width chosen by the engine for alignment. Scratch[T] is an
// opaque byte region used for engine filter specs and work memory; its type
// parameter only ties it to the element type of the operator that owns it.
//
// # Loading and Storing
//
// Flat slices are always packed (row stride == logical width):
//
//	buf, _ := image.Alloc[uint8](eng, 640, 480)
//	defer buf.Free()
//	buf.Load(pixels)  // fills the buffer, len(pixels) == 640*480
//	buf.Store(out)    // drains the buffer
//
// LoadStrided and StoreStrided copy only the top-left extW x extH rectangle,
// for operators that run on a sub-rectangle of a larger buffer.
//
// # Edge Handling
//
// Out-of-bounds coordinate helpers live in package engine:
//
//	engine.Mirror(index, size) - reflect at boundaries
//	engine.Clamp(index, size)  - repeat edge pixels
//	engine.Wrap(index, size)   - tile/wrap around
package image
