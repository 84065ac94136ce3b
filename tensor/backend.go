// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/laplace/internal/tensor"

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Implementations:
//   - backend/cpu: pure Go
//
// Decorator backends for additional functionality:
//   - autodiff: automatic differentiation (wraps any backend)
//
// The operation set is the differentiable closure a scalar field needs:
// every operation's derivative is again expressible with operations from
// this set, which is what makes recorded backward passes differentiable.
//
// Example:
//
//	import (
//	    "github.com/born-ml/laplace/tensor"
//	    "github.com/born-ml/laplace/backend/cpu"
//	)
//
//	backend := cpu.New()
//	x := tensor.Zeros[float64](tensor.Shape{4, 1, 2}, backend)
//	y := x.Mul(x) // Uses backend.Mul under the hood
type Backend = tensor.Backend
