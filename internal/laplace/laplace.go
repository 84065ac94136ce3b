// Package laplace computes per-walker derivatives of scalar fields over
// batched particle configurations.
//
// Inputs follow the (walkers, particles, dim) layout: a batch of independent
// walkers, each holding particle coordinates. A Field maps such a
// configuration to one scalar per walker. The package provides the gradient,
// the batched Hessian, and the Laplacian diagonal: the unmixed second
// partial derivatives ∂²f/∂x² that a naive differentiate-twice-and-reduce
// would contaminate with mixed partials.
//
// Derivatives come from composing two reverse-mode passes on the autodiff
// tape: the first backward runs while the tape is still recording, which
// makes the gradient a recorded computation, and the second backward
// differentiates it. Cross-walker second derivatives are always zero (each
// walker's output depends only on its own coordinates), so the preferred
// entry points never materialize the walker×walker blocks.
package laplace

import (
	"errors"
	"fmt"

	"github.com/born-ml/laplace/internal/autodiff"
	"github.com/born-ml/laplace/internal/tensor"
)

// ErrShapeMismatch reports a field/input combination whose axes cannot be
// aligned for diagonal extraction.
var ErrShapeMismatch = errors.New("laplace: shape mismatch")

// Field is a scalar-valued function of a batched configuration: it must
// return one scalar per walker (shape {walkers}, or {walkers, 1, ...}) and
// be built from the backend's recorded operations.
//
// Non-differentiable or numerically unstable fields are not handled
// specially: NaN and Inf propagate into the results exactly as the
// arithmetic produces them.
type Field[T tensor.DType, B autodiff.BackwardCapable] func(x *tensor.Tensor[T, B]) *tensor.Tensor[T, B]

// Gradient computes ∂field/∂x, with the same shape as x.
func Gradient[T tensor.DType, B autodiff.BackwardCapable](field Field[T, B], x *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error) {
	g, tape, err := recordGradient(field, x)
	if err != nil {
		return nil, err
	}
	defer tape.Clear()

	return tensor.New[T, B](g, x.Backend()), nil
}

// Laplacian computes the unmixed second partial derivatives of the field,
// with the same shape as x: entry (w, p, d) is ∂²field_w/∂x_{w,p,d}².
//
// This is the batch-restricted strategy: one reverse pass per non-walker
// coordinate, each seeded with a unit cotangent replicated across the walker
// axis. The zero cross-walker blocks are never materialized, so the cost is
// independent of the number of walkers beyond the tensor arithmetic itself.
//
// The scalar Laplacian ∇²field_w is the sum of the result over the
// non-walker axes; see LaplacianSum.
func Laplacian[T tensor.DType, B autodiff.BackwardCapable](field Field[T, B], x *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error) {
	g, tape, err := recordGradient(field, x)
	if err != nil {
		return nil, err
	}
	defer tape.Clear()

	backend := x.Backend()
	walkers := x.Shape()[0]
	coords := x.NumElements() / walkers

	out := tensor.Zeros[T, B](x.Shape(), backend)
	outData := out.Data()

	for j := 0; j < coords; j++ {
		// Unit cotangent at coordinate j of every walker.
		seed := zerosLike(x.Raw())
		seedData := tensor.New[T, B](seed, backend).Data()
		for w := 0; w < walkers; w++ {
			seedData[w*coords+j] = 1
		}

		col := hessianColumn[T, B](tape, g, seed, x)

		// Diagonal selection: keep only the entry whose (particle, dim)
		// pair matches the seeded coordinate. The off-diagonal entries of
		// col are the mixed partials that must not leak into the result.
		for w := 0; w < walkers; w++ {
			outData[w*coords+j] = col[w*coords+j]
		}
	}

	return out, nil
}

// LaplacianSum computes the per-walker scalar Laplacian ∇²field_w: the
// trace of each walker's Hessian block, shape {walkers}.
func LaplacianSum[T tensor.DType, B autodiff.BackwardCapable](field Field[T, B], x *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error) {
	diag, err := Laplacian(field, x)
	if err != nil {
		return nil, err
	}

	walkers := x.Shape()[0]
	coords := x.NumElements() / walkers

	out := tensor.Zeros[T, B](tensor.Shape{walkers}, x.Backend())
	outData := out.Data()
	diagData := diag.Data()
	for w := 0; w < walkers; w++ {
		var sum T
		for j := 0; j < coords; j++ {
			sum += diagData[w*coords+j]
		}
		outData[w] = sum
	}
	return out, nil
}

// BatchHessian computes the per-walker second-derivative blocks, shape
// (walkers, particles, dim, particles, dim): entry (w, p, d, q, e) is
// ∂²field_w/∂x_{w,p,d}∂x_{w,q,e}. Cross-walker terms are identically zero
// and are not materialized.
func BatchHessian[T tensor.DType, B autodiff.BackwardCapable](field Field[T, B], x *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error) {
	g, tape, err := recordGradient(field, x)
	if err != nil {
		return nil, err
	}
	defer tape.Clear()

	backend := x.Backend()
	walkers := x.Shape()[0]
	coords := x.NumElements() / walkers

	outShape := append(x.Shape().Clone(), x.Shape()[1:]...)
	out := tensor.Zeros[T, B](outShape, backend)
	outData := out.Data()

	for j := 0; j < coords; j++ {
		seed := zerosLike(x.Raw())
		seedData := tensor.New[T, B](seed, backend).Data()
		for w := 0; w < walkers; w++ {
			seedData[w*coords+j] = 1
		}

		col := hessianColumn[T, B](tape, g, seed, x)

		for w := 0; w < walkers; w++ {
			for i := 0; i < coords; i++ {
				outData[(w*coords+i)*coords+j] = col[w*coords+i]
			}
		}
	}

	return out, nil
}

// Hessian computes the full doubled-rank second-derivative tensor, shape
// (walkers, particles, dim, walkers, particles, dim). It is block-diagonal
// in the two walker indices; the off-diagonal blocks are computed (and come
// out exactly zero) rather than assumed, which makes this the expensive
// strategy: one reverse pass per (walker, coordinate) pair.
func Hessian[T tensor.DType, B autodiff.BackwardCapable](field Field[T, B], x *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error) {
	g, tape, err := recordGradient(field, x)
	if err != nil {
		return nil, err
	}
	defer tape.Clear()

	backend := x.Backend()
	walkers := x.Shape()[0]
	coords := x.NumElements() / walkers

	outShape := append(x.Shape().Clone(), x.Shape()...)
	out := tensor.Zeros[T, B](outShape, backend)
	outData := out.Data()

	n := walkers * coords
	for wj := 0; wj < walkers; wj++ {
		for j := 0; j < coords; j++ {
			seed := zerosLike(x.Raw())
			seedData := tensor.New[T, B](seed, backend).Data()
			seedData[wj*coords+j] = 1

			col := hessianColumn[T, B](tape, g, seed, x)

			for wi := 0; wi < walkers; wi++ {
				for i := 0; i < coords; i++ {
					outData[(wi*coords+i)*n+wj*coords+j] = col[wi*coords+i]
				}
			}
		}
	}

	return out, nil
}

// LaplacianFull computes the same result as Laplacian via the full-Hessian
// strategy: materialize the doubled-rank tensor, then extract the entries
// whose leading (walker, particle, dim) triple equals the trailing triple.
// It exists as the reference contraction; prefer Laplacian.
func LaplacianFull[T tensor.DType, B autodiff.BackwardCapable](field Field[T, B], x *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error) {
	h, err := Hessian(field, x)
	if err != nil {
		return nil, err
	}

	walkers := x.Shape()[0]
	coords := x.NumElements() / walkers
	n := walkers * coords

	out := tensor.Zeros[T, B](x.Shape(), x.Backend())
	outData := out.Data()
	hData := h.Data()

	// Diagonal extraction over the matching index triple: the 6-axis tensor
	// is reduced by keeping h[w,p,d,w,p,d] only. A plain reduction over the
	// trailing axes would instead sum whole Hessian rows, folding mixed
	// partials (and, without the block-diagonal invariant, other walkers'
	// couplings) into every entry.
	for w := 0; w < walkers; w++ {
		for j := 0; j < coords; j++ {
			flat := w*coords + j
			outData[flat] = hData[flat*n+flat]
		}
	}

	return out, nil
}

// recordGradient runs the field forward with a fresh tape and performs the
// first, recorded backward pass. On success the returned gradient has the
// shape of x and is itself differentiable via the returned tape; the tape is
// left non-recording with the gradient computation on it.
func recordGradient[T tensor.DType, B autodiff.BackwardCapable](field Field[T, B], x *tensor.Tensor[T, B]) (*tensor.RawTensor, *autodiff.GradientTape, error) {
	if len(x.Shape()) < 2 {
		return nil, nil, fmt.Errorf("%w: input must be at least (walkers, dim), got shape %v", ErrShapeMismatch, x.Shape())
	}

	backend := x.Backend()
	tape := backend.GetTape()
	tape.Clear()
	tape.StartRecording()

	y := field(x)

	if err := checkScalarPerWalker(y.Shape(), x.Shape()[0]); err != nil {
		tape.StopRecording()
		tape.Clear()
		return nil, nil, err
	}

	grads := tape.Backward(y.Raw(), autodiff.OnesLike(y.Raw()), backend)
	tape.StopRecording()

	g, ok := grads[x.Raw()]
	if !ok {
		// Field is constant in x: zero gradient, zero Hessian.
		g = zerosLike(x.Raw())
	}
	return g, tape, nil
}

// hessianColumn runs the second backward pass, seeded at the recorded
// gradient, and returns ∂(seed·g)/∂x as a flat slice.
func hessianColumn[T tensor.DType, B autodiff.BackwardCapable](tape *autodiff.GradientTape, g, seed *tensor.RawTensor, x *tensor.Tensor[T, B]) []T {
	grads := tape.Backward(g, seed, x.Backend())
	col, ok := grads[x.Raw()]
	if !ok {
		col = zerosLike(x.Raw())
	}
	return tensor.New[T, B](col, x.Backend()).Data()
}

// checkScalarPerWalker verifies the field output is one scalar per walker:
// shape {walkers} or {walkers, 1, ...}.
func checkScalarPerWalker(out tensor.Shape, walkers int) error {
	if len(out) == 0 || out[0] != walkers {
		return fmt.Errorf("%w: field output shape %v does not lead with walker count %d", ErrShapeMismatch, out, walkers)
	}
	for _, dim := range out[1:] {
		if dim != 1 {
			return fmt.Errorf("%w: field output shape %v is not one scalar per walker", ErrShapeMismatch, out)
		}
	}
	return nil
}

// zerosLike creates an unrecorded zero tensor matching t.
func zerosLike(t *tensor.RawTensor) *tensor.RawTensor {
	z, err := tensor.NewRaw(t.Shape(), t.DType())
	if err != nil {
		panic(fmt.Sprintf("laplace: failed to create zero tensor: %v", err))
	}
	return z
}
