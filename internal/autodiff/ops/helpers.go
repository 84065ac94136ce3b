package ops

import "github.com/born-ml/laplace/internal/tensor"

// reduceBroadcast reduces a gradient tensor to match the target shape.
// This is necessary when broadcasting was used in the forward pass.
//
// Example:
//
//	Forward: a[4,1,2] * b[1,1,2] -> c[4,1,2]  (b was broadcast along dim 0)
//	Backward: grad_c[4,1,2] -> grad_b[1,1,2]  (sum along dim 0)
//
// The reduction goes through backend.SumDim/backend.Reshape rather than raw
// buffer loops: if the backend is recording, the reduction stays on the tape
// and the gradient remains differentiable. For the same reason a gradient
// whose shape already matches is returned as-is, never cloned.
func reduceBroadcast(grad *tensor.RawTensor, targetShape tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	gradShape := grad.Shape()
	if gradShape.Equal(targetShape) {
		return grad
	}

	// Broadcasting aligns shapes from the right: sum away extra leading
	// dimensions first.
	result := grad
	for len(result.Shape()) > len(targetShape) {
		result = backend.SumDim(result, 0, false)
	}

	// Then sum along dimensions the target holds at size 1.
	for i := 0; i < len(targetShape); i++ {
		if targetShape[i] == 1 && result.Shape()[i] > 1 {
			result = backend.SumDim(result, i, true)
		}
	}

	if !result.Shape().Equal(targetShape) {
		result = backend.Reshape(result, targetShape)
	}

	return result
}
