// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides type-safe tensor operations for the laplace library.
//
// # Overview
//
// Tensors hold batched walker configurations and everything derived from
// them. This package provides:
//   - Generic type-safe tensors (Tensor[T, B])
//   - NumPy-style broadcasting
//   - Uniform random configuration sampling (gonum/stat/distuv)
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/laplace/tensor"
//	    "github.com/born-ml/laplace/backend/cpu"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    // One batch of 4 walkers, 1 particle each, 2 coordinates
//	    x := tensor.Uniform[float64](tensor.Shape{4, 1, 2}, -1, 1, backend)
//
//	    y := x.Mul(x).SumDim(-1, false)
//	}
//
// # Supported Data Types
//
// The DType constraint covers float32 and float64. Differentiation is only
// meaningful over floating point, so no other types exist here.
package tensor
