package laplace

import (
	"fmt"

	"github.com/born-ml/laplace/internal/autodiff"
	"github.com/born-ml/laplace/internal/tensor"
)

// Quadratic returns the reference scalar field
//
//	f(x, y) = αx² + βy² + γxy
//
// summed over particles, for configurations of spatial dimension 2. Its
// gradient is (2αx+γy, 2βy+γx) and its Laplacian diagonal is the constant
// (2α, 2β) regardless of input, which makes it the standard probe for
// mixed-partial contamination: any γ leaking into the Laplacian means the
// contraction picked up off-diagonal Hessian entries.
func Quadratic[T tensor.DType, B autodiff.BackwardCapable](alpha, beta, gamma float64) Field[T, B] {
	return func(x *tensor.Tensor[T, B]) *tensor.Tensor[T, B] {
		shape := x.Shape()
		if len(shape) != 3 || shape[2] != 2 {
			panic(fmt.Sprintf("laplace: quadratic field requires (walkers, particles, 2) input, got shape %v", shape))
		}

		backend := x.Backend()
		coef, err := tensor.FromSlice([]T{T(alpha), T(beta)}, tensor.Shape{1, 1, 2}, backend)
		if err != nil {
			panic(fmt.Sprintf("laplace: quadratic coefficients: %v", err))
		}

		sq := x.Mul(x)

		// αx² + βy², reduced over dim then particles.
		weighted := sq.Mul(coef).SumDim(-1, false).SumDim(-1, false)

		// xy = ((x+y)² - x² - y²)/2, expressed through reductions so the
		// field needs no indexing primitives.
		rowSum := x.SumDim(-1, false)
		cross := rowSum.Mul(rowSum).Sub(sq.SumDim(-1, false)).MulScalar(0.5)
		crossTerm := cross.MulScalar(gamma).SumDim(-1, false)

		return weighted.Add(crossTerm)
	}
}
