// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for tensor operations.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - Float32 and Float64 support
//   - NumPy-compatible broadcasting
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/laplace/backend/cpu"
//	    "github.com/born-ml/laplace/autodiff"
//	    "github.com/born-ml/laplace/tensor"
//	)
//
//	func main() {
//	    backend := autodiff.New(cpu.New())
//
//	    x := tensor.Uniform[float64](tensor.Shape{4, 1, 2}, -1, 1, backend)
//	    y := x.Mul(x).SumDim(-1, false).SumDim(-1, false)
//	}
//
// Every operation allocates a fresh result tensor: the gradient tape keys
// recorded operations by tensor identity, so inputs are never reused.
package cpu
