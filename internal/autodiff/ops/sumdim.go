package ops

import "github.com/born-ml/laplace/internal/tensor"

// SumDimOp represents a reduction sum along a dimension: output = sum(x, dim).
//
// Forward:
//
//	y = sum(x, dim, keepDim)
//
// Backward:
//
//	grad_x = expand(grad_y, x.shape)
//
// If keepDim=false the gradient is first reshaped to reinsert the reduced
// dimension at size 1, then expanded back to the input shape. Both steps go
// through the backend so the backward pass stays recordable.
type SumDimOp struct {
	inputs  []*tensor.RawTensor // [x]
	output  *tensor.RawTensor   // sum(x, dim)
	dim     int                 // dimension reduced (normalized, non-negative)
	keepDim bool                // whether the dimension was kept
}

// NewSumDimOp creates a new SumDimOp. dim must already be normalized.
func NewSumDimOp(x, output *tensor.RawTensor, dim int, keepDim bool) *SumDimOp {
	return &SumDimOp{
		inputs:  []*tensor.RawTensor{x},
		output:  output,
		dim:     dim,
		keepDim: keepDim,
	}
}

// Backward computes the input gradient for the sum reduction.
// Each input element contributed with weight 1, so the output gradient is
// replicated across the reduced dimension.
func (op *SumDimOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	x := op.inputs[0]
	grad := outputGrad

	if !op.keepDim {
		keptShape := x.Shape().Clone()
		keptShape[op.dim] = 1
		grad = backend.Reshape(grad, keptShape)
	}

	return []*tensor.RawTensor{backend.Expand(grad, x.Shape())}
}

// Inputs returns the input tensors [x].
func (op *SumDimOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the output tensor sum(x, dim).
func (op *SumDimOp) Output() *tensor.RawTensor {
	return op.output
}
