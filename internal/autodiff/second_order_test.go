package autodiff_test

import (
	"math"
	"testing"

	"github.com/born-ml/laplace/internal/autodiff"
	"github.com/born-ml/laplace/internal/backend/cpu"
	"github.com/born-ml/laplace/internal/tensor"
)

// Second derivatives are computed by composing two backward passes: the
// first runs with the tape still recording, so the gradient itself becomes a
// recorded computation; the second is seeded at the gradient tensor.

// TestSecondOrder_Cubic tests d²(x³)/dx² = 6x.
func TestSecondOrder_Cubic(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()
	tape.StartRecording()

	const at = 2.0
	x, _ := tensor.FromSlice([]float64{at}, tensor.Shape{1}, backend)
	y := x.Mul(x).Mul(x)

	// First pass, recorded: g = dy/dx = 3x²
	grads := autodiff.Backward(y, backend)
	g := grads[x.Raw()]

	want1 := 3 * at * at
	if math.Abs(g.AsFloat64()[0]-want1) > 1e-12 {
		t.Fatalf("dy/dx = %v, want %v", g.AsFloat64()[0], want1)
	}

	// Second pass: h = dg/dx = 6x. The gradient arithmetic needs no
	// further differentiation, so recording stops here.
	tape.StopRecording()
	grads2 := tape.Backward(g, autodiff.OnesLike(g), backend)
	h := grads2[x.Raw()]

	want2 := 6 * at
	if math.Abs(h.AsFloat64()[0]-want2) > 1e-12 {
		t.Errorf("d²y/dx² = %v, want %v", h.AsFloat64()[0], want2)
	}
}

// TestSecondOrder_ExpSin tests d²(exp(sin x))/dx² against the closed form.
func TestSecondOrder_ExpSin(t *testing.T) {
	backend := autodiff.New(cpu.New())

	// f = exp(sin x), f' = cos(x) f, f'' = (cos²x - sin x) f
	for _, at := range []float64{-0.8, 0.4, 1.9} {
		tape := backend.Tape()
		tape.Clear()
		tape.StartRecording()

		x, _ := tensor.FromSlice([]float64{at}, tensor.Shape{1}, backend)
		y := x.Sin().Exp()

		grads := autodiff.Backward(y, backend)
		g := grads[x.Raw()]

		tape.StopRecording()
		grads2 := tape.Backward(g, autodiff.OnesLike(g), backend)
		h := grads2[x.Raw()].AsFloat64()[0]

		f := math.Exp(math.Sin(at))
		want := (math.Cos(at)*math.Cos(at) - math.Sin(at)) * f
		if math.Abs(h-want) > 1e-10 {
			t.Errorf("f''(%v) = %v, want %v", at, h, want)
		}
	}
}

// TestSecondOrder_MultiElement tests per-element second derivatives of a
// reduced output, the pattern the Laplacian extractor relies on.
func TestSecondOrder_MultiElement(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()
	tape.StartRecording()

	// y = sum_d x_d³ over a 3-vector
	x, _ := tensor.FromSlice([]float64{1, 2, 3}, tensor.Shape{3}, backend)
	y := x.Mul(x).Mul(x).SumDim(0, false)

	grads := autodiff.Backward(y, backend)
	g := grads[x.Raw()]

	tape.StopRecording()

	// Column j of the Hessian via a unit seed at j. The Hessian of a
	// separable sum is diagonal: d²y/dx_j² = 6x_j, off-diagonal zero.
	for j := 0; j < 3; j++ {
		seed, _ := tensor.NewRaw(tensor.Shape{3}, tensor.Float64)
		seed.AsFloat64()[j] = 1

		grads2 := tape.Backward(g, seed, backend)
		col := grads2[x.Raw()].AsFloat64()

		for i := 0; i < 3; i++ {
			want := 0.0
			if i == j {
				want = 6 * x.Data()[j]
			}
			if math.Abs(col[i]-want) > 1e-12 {
				t.Errorf("H[%d,%d] = %v, want %v", i, j, col[i], want)
			}
		}
	}
}
