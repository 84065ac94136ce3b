package laplace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/born-ml/laplace/internal/autodiff"
	"github.com/born-ml/laplace/internal/backend/cpu"
	"github.com/born-ml/laplace/internal/tensor"
)

type Backend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

func newBackend() Backend {
	return autodiff.New(cpu.New())
}

// randomWalkers samples a deterministic (walkers, particles, dim) configuration.
func randomWalkers(backend Backend, walkers, particles, dim int, seed uint64) *tensor.Tensor[float64, Backend] {
	return tensor.UniformSource[float64](
		tensor.Shape{walkers, particles, dim}, -2, 2, rand.NewSource(seed), backend)
}

// TestLaplacian_QuadraticConstant: the Laplacian diagonal of the quadratic
// field is (2α, 2β) for every walker and particle, independent of input.
func TestLaplacian_QuadraticConstant(t *testing.T) {
	backend := newBackend()
	const alpha, beta, gamma = 0.3, 0.7, 1.1

	x := randomWalkers(backend, 5, 1, 2, 1)
	lap, err := Laplacian(Quadratic[float64, Backend](alpha, beta, gamma), x)
	require.NoError(t, err)

	require.True(t, lap.Shape().Equal(x.Shape()), "laplacian shape %v, want %v", lap.Shape(), x.Shape())
	for w := 0; w < 5; w++ {
		assert.InDelta(t, 2*alpha, lap.At(w, 0, 0), 1e-10)
		assert.InDelta(t, 2*beta, lap.At(w, 0, 1), 1e-10)
	}
}

// TestLaplacian_ConcreteScenario: α=0.1, β=0.2, γ=0.5 over shape (4,1,2)
// gives [0.2, 0.4] everywhere.
func TestLaplacian_ConcreteScenario(t *testing.T) {
	backend := newBackend()
	x := randomWalkers(backend, 4, 1, 2, 2)

	lap, err := Laplacian(Quadratic[float64, Backend](0.1, 0.2, 0.5), x)
	require.NoError(t, err)

	require.True(t, lap.Shape().Equal(tensor.Shape{4, 1, 2}))
	for w := 0; w < 4; w++ {
		assert.InDelta(t, 0.2, lap.At(w, 0, 0), 1e-10)
		assert.InDelta(t, 0.4, lap.At(w, 0, 1), 1e-10)
	}
}

// TestGradient_QuadraticAnalytic: gradient matches (2αx+γy, 2βy+γx).
func TestGradient_QuadraticAnalytic(t *testing.T) {
	backend := newBackend()
	const alpha, beta, gamma = 0.1, 0.2, 0.5

	x := randomWalkers(backend, 4, 1, 2, 3)
	grad, err := Gradient(Quadratic[float64, Backend](alpha, beta, gamma), x)
	require.NoError(t, err)

	require.True(t, grad.Shape().Equal(x.Shape()))
	for w := 0; w < 4; w++ {
		xv, yv := x.At(w, 0, 0), x.At(w, 0, 1)
		assert.InDelta(t, 2*alpha*xv+gamma*yv, grad.At(w, 0, 0), 1e-5)
		assert.InDelta(t, 2*beta*yv+gamma*xv, grad.At(w, 0, 1), 1e-5)
	}
}

// TestHessian_BlockDiagonal: cross-walker blocks of the full Hessian are
// exactly zero, not merely small.
func TestHessian_BlockDiagonal(t *testing.T) {
	backend := newBackend()
	x := randomWalkers(backend, 3, 1, 2, 4)

	h, err := Hessian(Quadratic[float64, Backend](0.3, 0.7, 1.1), x)
	require.NoError(t, err)

	require.True(t, h.Shape().Equal(tensor.Shape{3, 1, 2, 3, 1, 2}))
	for wi := 0; wi < 3; wi++ {
		for wj := 0; wj < 3; wj++ {
			for i := 0; i < 2; i++ {
				for j := 0; j < 2; j++ {
					v := h.At(wi, 0, i, wj, 0, j)
					if wi != wj {
						assert.Zero(t, v, "cross-walker entry H[%d,0,%d,%d,0,%d] must be exactly zero", wi, i, wj, j)
					}
				}
			}
		}
	}

	// Within-walker blocks carry the quadratic form's constant Hessian.
	for w := 0; w < 3; w++ {
		assert.InDelta(t, 0.6, h.At(w, 0, 0, w, 0, 0), 1e-10) // 2α
		assert.InDelta(t, 1.4, h.At(w, 0, 1, w, 0, 1), 1e-10) // 2β
		assert.InDelta(t, 1.1, h.At(w, 0, 0, w, 0, 1), 1e-10) // γ
		assert.InDelta(t, 1.1, h.At(w, 0, 1, w, 0, 0), 1e-10) // γ
	}
}

// TestBatchHessian_MatchesFullBlocks: the batch-restricted Hessian equals
// the on-diagonal blocks of the full tensor.
func TestBatchHessian_MatchesFullBlocks(t *testing.T) {
	backend := newBackend()
	field := Quadratic[float64, Backend](0.2, 0.9, -0.4)
	x := randomWalkers(backend, 3, 1, 2, 5)

	bh, err := BatchHessian(field, x)
	require.NoError(t, err)
	h, err := Hessian(field, x)
	require.NoError(t, err)

	require.True(t, bh.Shape().Equal(tensor.Shape{3, 1, 2, 1, 2}))
	for w := 0; w < 3; w++ {
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				assert.InDelta(t, h.At(w, 0, i, w, 0, j), bh.At(w, 0, i, 0, j), 1e-12)
			}
		}
	}
}

// TestLaplacian_StrategiesAgree: the batch-restricted and the
// full-Hessian-then-contract strategies produce identical results.
func TestLaplacian_StrategiesAgree(t *testing.T) {
	backend := newBackend()
	field := Quadratic[float64, Backend](0.1, 0.2, 0.5)
	x := randomWalkers(backend, 4, 1, 2, 6)

	fast, err := Laplacian(field, x)
	require.NoError(t, err)
	full, err := LaplacianFull(field, x)
	require.NoError(t, err)

	require.True(t, fast.Shape().Equal(full.Shape()))
	fastData, fullData := fast.Data(), full.Data()
	for i := range fastData {
		assert.InDelta(t, fullData[i], fastData[i], 1e-12)
	}
}

// TestLaplacian_Idempotent: identical calls yield identical results, with
// no hidden state carried between them.
func TestLaplacian_Idempotent(t *testing.T) {
	backend := newBackend()
	field := Quadratic[float64, Backend](0.1, 0.2, 0.5)
	x := randomWalkers(backend, 4, 1, 2, 7)

	first, err := Laplacian(field, x)
	require.NoError(t, err)
	second, err := Laplacian(field, x)
	require.NoError(t, err)

	assert.Equal(t, first.Data(), second.Data())
	assert.Zero(t, backend.Tape().NumOps(), "tape must be cleared after extraction")
}

// TestLaplacian_MultiParticle: the diagonal match includes the particle
// index, so a field summed over several particles still yields per-particle
// constants.
func TestLaplacian_MultiParticle(t *testing.T) {
	backend := newBackend()
	const alpha, beta, gamma = 0.4, 0.6, 0.8

	x := randomWalkers(backend, 2, 3, 2, 8)
	lap, err := Laplacian(Quadratic[float64, Backend](alpha, beta, gamma), x)
	require.NoError(t, err)

	for w := 0; w < 2; w++ {
		for p := 0; p < 3; p++ {
			assert.InDelta(t, 2*alpha, lap.At(w, p, 0), 1e-10)
			assert.InDelta(t, 2*beta, lap.At(w, p, 1), 1e-10)
		}
	}
}

// TestLaplacian_SingleWalkerSingleDim: degenerate batch and dimension sizes.
func TestLaplacian_SingleWalkerSingleDim(t *testing.T) {
	backend := newBackend()

	// f_w = Σ x³ over a (1, 1, 1) input: f'' = 6x.
	cubic := func(x *tensor.Tensor[float64, Backend]) *tensor.Tensor[float64, Backend] {
		return x.Mul(x).Mul(x).SumDim(-1, false).SumDim(-1, false)
	}

	x, err := tensor.FromSlice([]float64{1.5}, tensor.Shape{1, 1, 1}, backend)
	require.NoError(t, err)

	lap, err := Laplacian(cubic, x)
	require.NoError(t, err)
	assert.InDelta(t, 9.0, lap.At(0, 0, 0), 1e-10)

	full, err := LaplacianFull(cubic, x)
	require.NoError(t, err)
	assert.InDelta(t, 9.0, full.At(0, 0, 0), 1e-10)
}

// TestLaplacianSum_Trace: the per-walker scalar Laplacian is the trace of
// the walker's Hessian block.
func TestLaplacianSum_Trace(t *testing.T) {
	backend := newBackend()
	const alpha, beta, gamma = 0.1, 0.2, 0.5

	x := randomWalkers(backend, 4, 1, 2, 9)
	sum, err := LaplacianSum(Quadratic[float64, Backend](alpha, beta, gamma), x)
	require.NoError(t, err)

	require.True(t, sum.Shape().Equal(tensor.Shape{4}))
	for w := 0; w < 4; w++ {
		assert.InDelta(t, 2*alpha+2*beta, sum.At(w), 1e-10)
	}
}

// TestLaplacian_ShapeMismatch: fields whose output is not one scalar per
// walker are rejected.
func TestLaplacian_ShapeMismatch(t *testing.T) {
	backend := newBackend()
	x := randomWalkers(backend, 4, 1, 2, 10)

	// Identity field: output keeps the full input shape.
	identity := func(x *tensor.Tensor[float64, Backend]) *tensor.Tensor[float64, Backend] {
		return x.Add(tensor.Zeros[float64](x.Shape(), x.Backend()))
	}
	_, err := Laplacian(identity, x)
	require.ErrorIs(t, err, ErrShapeMismatch)

	// Wrong batch cardinality: reduces over walkers too.
	collapse := func(x *tensor.Tensor[float64, Backend]) *tensor.Tensor[float64, Backend] {
		return x.SumDim(-1, false).SumDim(-1, false).SumDim(0, false)
	}
	_, err = Gradient(collapse, x)
	require.ErrorIs(t, err, ErrShapeMismatch)

	// Rank too low for a batched configuration.
	flat, err := tensor.FromSlice([]float64{1, 2}, tensor.Shape{2}, backend)
	require.NoError(t, err)
	_, err = Laplacian(Quadratic[float64, Backend](1, 1, 0), flat)
	require.ErrorIs(t, err, ErrShapeMismatch)
}

// TestGradient_Float32 exercises the float32 instantiation end to end.
func TestGradient_Float32(t *testing.T) {
	backend := newBackend()

	x, err := tensor.FromSlice([]float32{1, 2}, tensor.Shape{1, 1, 2}, backend)
	require.NoError(t, err)

	grad, err := Gradient(Quadratic[float32, Backend](0.1, 0.2, 0.5), x)
	require.NoError(t, err)

	// (2αx+γy, 2βy+γx) at (1, 2)
	assert.InDelta(t, 0.2*1+0.5*2, float64(grad.At(0, 0, 0)), 1e-5)
	assert.InDelta(t, 0.4*2+0.5*1, float64(grad.At(0, 0, 1)), 1e-5)
}
