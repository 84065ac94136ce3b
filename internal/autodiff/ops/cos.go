package ops

import "github.com/born-ml/laplace/internal/tensor"

// CosOp represents the element-wise cosine: output = cos(x).
//
// Backward pass: d(cos(x))/dx = -sin(x), so grad_x = -outputGrad * sin(x).
type CosOp struct {
	inputs []*tensor.RawTensor // [x]
	output *tensor.RawTensor   // cos(x)
}

// NewCosOp creates a new CosOp.
func NewCosOp(x, output *tensor.RawTensor) *CosOp {
	return &CosOp{
		inputs: []*tensor.RawTensor{x},
		output: output,
	}
}

// Backward computes the input gradient for the cosine.
func (op *CosOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	x := op.inputs[0]
	return []*tensor.RawTensor{backend.Neg(backend.Mul(outputGrad, backend.Sin(x)))}
}

// Inputs returns the input tensors [x].
func (op *CosOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the output tensor cos(x).
func (op *CosOp) Output() *tensor.RawTensor {
	return op.output
}
