package ops

import "github.com/born-ml/laplace/internal/tensor"

// ExpandOp represents a broadcast to a larger shape: output = expand(x, shape).
//
// Backward pass: each source element was replicated across the broadcast
// dimensions, so its gradient is the sum of the output gradient over those
// dimensions (the reverse of the expansion).
type ExpandOp struct {
	inputs []*tensor.RawTensor // [x]
	output *tensor.RawTensor   // expand(x, shape)
}

// NewExpandOp creates a new ExpandOp.
func NewExpandOp(x, output *tensor.RawTensor) *ExpandOp {
	return &ExpandOp{
		inputs: []*tensor.RawTensor{x},
		output: output,
	}
}

// Backward computes the input gradient for the expansion.
func (op *ExpandOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	x := op.inputs[0]
	return []*tensor.RawTensor{reduceBroadcast(outputGrad, x.Shape(), backend)}
}

// Inputs returns the input tensors [x].
func (op *ExpandOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the expanded output tensor.
func (op *ExpandOp) Output() *tensor.RawTensor {
	return op.output
}
