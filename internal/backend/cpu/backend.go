// Package cpu implements the pure-Go CPU backend.
package cpu

import (
	"fmt"

	"github.com/born-ml/laplace/internal/tensor"
)

// CPUBackend implements tensor operations on CPU.
//
// All operations allocate a fresh result tensor. The gradient tape keys
// recorded operations by tensor identity, so in-place reuse of input buffers
// would corrupt the computation graph.
type CPUBackend struct{}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("add", a, b, func(x, y float64) float64 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("sub", a, b, func(x, y float64) float64 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("mul", a, b, func(x, y float64) float64 { return x * y })
}

// Div performs element-wise division with broadcasting.
// Division by zero follows IEEE-754 (Inf/NaN propagate to the caller).
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("div", a, b, func(x, y float64) float64 { return x / y })
}

// binary applies fn element-wise over two (possibly broadcast) tensors.
func (cpu *CPUBackend) binary(name string, a, b *tensor.RawTensor, fn func(x, y float64) float64) *tensor.RawTensor {
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch: %s vs %s", name, a.DType(), b.DType()))
	}

	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	result, err := tensor.NewRaw(outShape, a.DType())
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", name, err))
	}

	if !needsBroadcast {
		// Fast path: aligned element-wise loop.
		switch a.DType() {
		case tensor.Float32:
			binaryAligned(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), fn)
		case tensor.Float64:
			binaryAligned(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), fn)
		}
		return result
	}

	switch a.DType() {
	case tensor.Float32:
		binaryBroadcast(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), outShape, a.Shape(), b.Shape(), fn)
	case tensor.Float64:
		binaryBroadcast(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), outShape, a.Shape(), b.Shape(), fn)
	}
	return result
}

// binaryAligned applies fn over same-shape operands.
func binaryAligned[T float32 | float64](dst, a, b []T, fn func(x, y float64) float64) {
	for i := range dst {
		dst[i] = T(fn(float64(a[i]), float64(b[i])))
	}
}

// binaryBroadcast applies fn over broadcast operands by mapping each output
// coordinate back to the (possibly size-1) source coordinates.
func binaryBroadcast[T float32 | float64](dst, a, b []T, outShape, aShape, bShape tensor.Shape, fn func(x, y float64) float64) {
	outStrides := outShape.ComputeStrides()
	for i := range dst {
		ai := broadcastOffset(i, outShape, outStrides, aShape)
		bi := broadcastOffset(i, outShape, outStrides, bShape)
		dst[i] = T(fn(float64(a[ai]), float64(b[bi])))
	}
}

// broadcastOffset maps a flat output offset to the flat offset in a source
// tensor whose shape broadcasts to the output shape.
func broadcastOffset(flat int, outShape tensor.Shape, outStrides []int, srcShape tensor.Shape) int {
	srcStrides := srcShape.ComputeStrides()
	srcOffset := 0
	rem := flat
	for d := 0; d < len(outShape); d++ {
		coord := rem / outStrides[d]
		rem %= outStrides[d]

		srcDim := d - (len(outShape) - len(srcShape))
		if srcDim < 0 {
			continue
		}
		if srcShape[srcDim] == 1 {
			coord = 0
		}
		srcOffset += coord * srcStrides[srcDim]
	}
	return srcOffset
}
