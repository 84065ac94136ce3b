package ops

import "github.com/born-ml/laplace/internal/tensor"

// SinOp represents the element-wise sine: output = sin(x).
//
// Backward pass: d(sin(x))/dx = cos(x), so grad_x = outputGrad * cos(x).
type SinOp struct {
	inputs []*tensor.RawTensor // [x]
	output *tensor.RawTensor   // sin(x)
}

// NewSinOp creates a new SinOp.
func NewSinOp(x, output *tensor.RawTensor) *SinOp {
	return &SinOp{
		inputs: []*tensor.RawTensor{x},
		output: output,
	}
}

// Backward computes the input gradient for the sine.
func (op *SinOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	x := op.inputs[0]
	return []*tensor.RawTensor{backend.Mul(outputGrad, backend.Cos(x))}
}

// Inputs returns the input tensors [x].
func (op *SinOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the output tensor sin(x).
func (op *SinOp) Output() *tensor.RawTensor {
	return op.output
}
