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

package pyr

import "unsafe"

// Pixel is the constraint for single-channel element types supported by the
// resampling pipeline: 8-bit unsigned and 32-bit float.
type Pixel interface {
	~uint8 | ~float32
}

// SizeOf returns the size in bytes of one element of type T.
func SizeOf[T Pixel]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// IsFloat reports whether T is a floating-point pixel type.
func IsFloat[T Pixel]() bool {
	return SizeOf[T]() == 4
}
