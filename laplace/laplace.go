// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package laplace computes per-walker gradients, Hessians, and Laplacians
// of scalar fields over batched particle configurations.
//
// A configuration tensor has shape (walkers, particles, dim): a batch of
// independent walkers whose outputs must never couple. A Field maps a
// configuration to one scalar per walker. The central operation recovers
// the unmixed second partial derivatives ∂²f/∂x², which a naive
// differentiate-twice-then-reduce contaminates with mixed partials.
//
// Example:
//
//	import (
//	    "github.com/born-ml/laplace/autodiff"
//	    "github.com/born-ml/laplace/backend/cpu"
//	    "github.com/born-ml/laplace/laplace"
//	    "github.com/born-ml/laplace/tensor"
//	)
//
//	func main() {
//	    backend := autodiff.New(cpu.New())
//	    x := tensor.Uniform[float64](tensor.Shape{4, 1, 2}, -1, 1, backend)
//
//	    field := laplace.Quadratic[float64, *autodiff.Backend[*cpu.Backend]](0.1, 0.2, 0.5)
//	    lap, _ := laplace.Laplacian(field, x)
//	    // Every walker: [0.2, 0.4]
//	    _ = lap
//	}
package laplace

import (
	"github.com/born-ml/laplace/internal/autodiff"
	"github.com/born-ml/laplace/internal/laplace"
	"github.com/born-ml/laplace/internal/tensor"
)

// ErrShapeMismatch reports a field/input combination whose axes cannot be
// aligned for diagonal extraction.
var ErrShapeMismatch = laplace.ErrShapeMismatch

// Field is a scalar-valued function of a batched configuration: it must
// return one scalar per walker and be built from recorded backend
// operations.
type Field[T tensor.DType, B autodiff.BackwardCapable] = laplace.Field[T, B]

// Gradient computes ∂field/∂x, with the same shape as x.
func Gradient[T tensor.DType, B autodiff.BackwardCapable](field Field[T, B], x *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error) {
	return laplace.Gradient(field, x)
}

// Laplacian computes the unmixed second partial derivatives of the field,
// with the same shape as x: entry (w, p, d) is ∂²field_w/∂x_{w,p,d}².
// This is the batch-restricted strategy; cross-walker zero blocks are never
// materialized.
func Laplacian[T tensor.DType, B autodiff.BackwardCapable](field Field[T, B], x *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error) {
	return laplace.Laplacian(field, x)
}

// LaplacianFull computes the same result as Laplacian via the full-Hessian
// strategy: materialize the doubled-rank tensor, then extract the entries
// whose leading index triple matches the trailing triple. Prefer Laplacian.
func LaplacianFull[T tensor.DType, B autodiff.BackwardCapable](field Field[T, B], x *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error) {
	return laplace.LaplacianFull(field, x)
}

// LaplacianSum computes the per-walker scalar Laplacian ∇²field_w, the
// trace of each walker's Hessian block, shape {walkers}.
func LaplacianSum[T tensor.DType, B autodiff.BackwardCapable](field Field[T, B], x *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error) {
	return laplace.LaplacianSum(field, x)
}

// BatchHessian computes the per-walker second-derivative blocks, shape
// (walkers, particles, dim, particles, dim).
func BatchHessian[T tensor.DType, B autodiff.BackwardCapable](field Field[T, B], x *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error) {
	return laplace.BatchHessian(field, x)
}

// Hessian computes the full doubled-rank second-derivative tensor, shape
// (walkers, particles, dim, walkers, particles, dim). It is block-diagonal
// in the two walker indices.
func Hessian[T tensor.DType, B autodiff.BackwardCapable](field Field[T, B], x *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error) {
	return laplace.Hessian(field, x)
}

// Quadratic returns the reference scalar field f(x, y) = αx² + βy² + γxy
// summed over particles, for configurations of spatial dimension 2.
func Quadratic[T tensor.DType, B autodiff.BackwardCapable](alpha, beta, gamma float64) Field[T, B] {
	return laplace.Quadratic[T, B](alpha, beta, gamma)
}
