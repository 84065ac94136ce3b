package tensor

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	backend := cpu.New()
//	t := tensor.Zeros[float64](Shape{4, 1, 2}, backend)
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	var dummy T
	dtype := inferDataType(dummy)

	raw, err := NewRaw(shape, dtype)
	if err != nil {
		panic(err) // Shape validation should prevent this
	}

	// Data is already zero-initialized by make()
	return New[T, B](raw, b)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return Full[T, B](shape, 1, b)
}

// Full creates a tensor filled with a specific value.
//
// Example:
//
//	t := tensor.Full[float64](Shape{4, 1, 2}, 3.14, backend)
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t
}

// Uniform creates a tensor with values sampled uniformly from [low, high).
//
// This is the walker-configuration generator: Uniform(Shape{walkers,
// particles, dim}, ...) produces one random coordinate set per walker.
// It draws from gonum's distuv with the shared global source; use
// UniformSource for reproducible sampling.
//
// Example:
//
//	x := tensor.Uniform[float64](Shape{4, 1, 2}, -1, 1, backend)
func Uniform[T DType, B Backend](shape Shape, low, high float64, b B) *Tensor[T, B] {
	return uniform[T, B](shape, distuv.Uniform{Min: low, Max: high}, b)
}

// UniformSource is Uniform with an explicit random source for
// deterministic sampling.
//
// Example:
//
//	src := rand.NewSource(42)
//	x := tensor.UniformSource[float64](Shape{4, 1, 2}, -1, 1, src, backend)
func UniformSource[T DType, B Backend](shape Shape, low, high float64, src rand.Source, b B) *Tensor[T, B] {
	return uniform[T, B](shape, distuv.Uniform{Min: low, Max: high, Src: src}, b)
}

func uniform[T DType, B Backend](shape Shape, dist distuv.Uniform, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := range data {
		data[i] = T(dist.Rand())
	}
	return t
}
