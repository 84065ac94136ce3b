package cpu

import (
	"fmt"

	"github.com/born-ml/laplace/internal/tensor"
)

// Reshape returns a tensor with the same data but a new shape.
// The element count must be preserved.
func (cpu *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	result, err := t.WithShape(newShape)
	if err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	return result
}

// Expand broadcasts a tensor to a larger shape.
// The source shape must broadcast to the target (size-1 dims replicate).
func (cpu *CPUBackend) Expand(x *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	outShape, _, err := tensor.BroadcastShapes(x.Shape(), shape)
	if err != nil || !outShape.Equal(shape) {
		panic(fmt.Sprintf("expand: cannot expand %v to %v", x.Shape(), shape))
	}

	result, err := tensor.NewRaw(shape, x.DType())
	if err != nil {
		panic(fmt.Sprintf("expand: %v", err))
	}

	strides := shape.ComputeStrides()
	switch x.DType() {
	case tensor.Float32:
		expandInto(result.AsFloat32(), x.AsFloat32(), shape, strides, x.Shape())
	case tensor.Float64:
		expandInto(result.AsFloat64(), x.AsFloat64(), shape, strides, x.Shape())
	default:
		panic(fmt.Sprintf("expand: unsupported dtype %v", x.DType()))
	}

	return result
}

func expandInto[T float32 | float64](dst, src []T, outShape tensor.Shape, outStrides []int, srcShape tensor.Shape) {
	for i := range dst {
		dst[i] = src[broadcastOffset(i, outShape, outStrides, srcShape)]
	}
}
