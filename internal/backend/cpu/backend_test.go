package cpu

import (
	"math"
	"testing"

	"github.com/born-ml/laplace/internal/tensor"
)

func rawFromSlice(t *testing.T, data []float64, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Float64)
	if err != nil {
		t.Fatalf("NewRaw(%v): %v", shape, err)
	}
	copy(raw.AsFloat64(), data)
	return raw
}

func TestAdd_SameShape(t *testing.T) {
	backend := New()
	a := rawFromSlice(t, []float64{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := rawFromSlice(t, []float64{10, 20, 30, 40}, tensor.Shape{2, 2})

	c := backend.Add(a, b)

	want := []float64{11, 22, 33, 44}
	for i, v := range c.AsFloat64() {
		if v != want[i] {
			t.Errorf("Add[%d] = %v, want %v", i, v, want[i])
		}
	}
	// Inputs must stay untouched (the tape depends on it).
	if a.AsFloat64()[0] != 1 {
		t.Error("Add modified its input")
	}
}

func TestAdd_Broadcast(t *testing.T) {
	backend := New()
	a := rawFromSlice(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{3, 1, 2})
	b := rawFromSlice(t, []float64{10, 20}, tensor.Shape{1, 1, 2})

	c := backend.Add(a, b)

	if !c.Shape().Equal(tensor.Shape{3, 1, 2}) {
		t.Fatalf("shape = %v, want [3 1 2]", c.Shape())
	}
	want := []float64{11, 22, 13, 24, 15, 26}
	for i, v := range c.AsFloat64() {
		if v != want[i] {
			t.Errorf("Add[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestMul_Broadcast(t *testing.T) {
	backend := New()
	a := rawFromSlice(t, []float64{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := rawFromSlice(t, []float64{10, 100}, tensor.Shape{1, 2})

	c := backend.Mul(a, b)

	want := []float64{10, 200, 30, 400}
	for i, v := range c.AsFloat64() {
		if v != want[i] {
			t.Errorf("Mul[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestSub_Neg(t *testing.T) {
	backend := New()
	a := rawFromSlice(t, []float64{5, 7}, tensor.Shape{2})
	b := rawFromSlice(t, []float64{1, 9}, tensor.Shape{2})

	c := backend.Sub(a, b)
	if c.AsFloat64()[0] != 4 || c.AsFloat64()[1] != -2 {
		t.Errorf("Sub = %v, want [4 -2]", c.AsFloat64())
	}

	n := backend.Neg(c)
	if n.AsFloat64()[0] != -4 || n.AsFloat64()[1] != 2 {
		t.Errorf("Neg = %v, want [-4 2]", n.AsFloat64())
	}
}

func TestDiv(t *testing.T) {
	backend := New()
	a := rawFromSlice(t, []float64{6, 9}, tensor.Shape{2})
	b := rawFromSlice(t, []float64{2, 3}, tensor.Shape{2})

	c := backend.Div(a, b)
	if c.AsFloat64()[0] != 3 || c.AsFloat64()[1] != 3 {
		t.Errorf("Div = %v, want [3 3]", c.AsFloat64())
	}
}

func TestScalarOps(t *testing.T) {
	backend := New()
	x := rawFromSlice(t, []float64{1, 2, 3}, tensor.Shape{3})

	m := backend.MulScalar(x, 2.5)
	want := []float64{2.5, 5, 7.5}
	for i, v := range m.AsFloat64() {
		if v != want[i] {
			t.Errorf("MulScalar[%d] = %v, want %v", i, v, want[i])
		}
	}

	a := backend.AddScalar(x, -1)
	want = []float64{0, 1, 2}
	for i, v := range a.AsFloat64() {
		if v != want[i] {
			t.Errorf("AddScalar[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestUnaryMath(t *testing.T) {
	backend := New()
	x := rawFromSlice(t, []float64{0, 1, math.Pi / 2}, tensor.Shape{3})

	e := backend.Exp(x).AsFloat64()
	s := backend.Sin(x).AsFloat64()
	c := backend.Cos(x).AsFloat64()

	if math.Abs(e[1]-math.E) > 1e-12 {
		t.Errorf("Exp(1) = %v, want e", e[1])
	}
	if math.Abs(s[2]-1) > 1e-12 {
		t.Errorf("Sin(pi/2) = %v, want 1", s[2])
	}
	if math.Abs(c[0]-1) > 1e-12 {
		t.Errorf("Cos(0) = %v, want 1", c[0])
	}
}

func TestSumDim(t *testing.T) {
	backend := New()
	x := rawFromSlice(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	// Reduce last dim, keep it.
	kept := backend.SumDim(x, -1, true)
	if !kept.Shape().Equal(tensor.Shape{2, 1}) {
		t.Fatalf("keepDim shape = %v, want [2 1]", kept.Shape())
	}
	if kept.AsFloat64()[0] != 6 || kept.AsFloat64()[1] != 15 {
		t.Errorf("SumDim keepDim = %v, want [6 15]", kept.AsFloat64())
	}

	// Reduce first dim, drop it.
	dropped := backend.SumDim(x, 0, false)
	if !dropped.Shape().Equal(tensor.Shape{3}) {
		t.Fatalf("shape = %v, want [3]", dropped.Shape())
	}
	want := []float64{5, 7, 9}
	for i, v := range dropped.AsFloat64() {
		if v != want[i] {
			t.Errorf("SumDim[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestExpand(t *testing.T) {
	backend := New()
	x := rawFromSlice(t, []float64{1, 2}, tensor.Shape{1, 2})

	e := backend.Expand(x, tensor.Shape{3, 2})
	want := []float64{1, 2, 1, 2, 1, 2}
	for i, v := range e.AsFloat64() {
		if v != want[i] {
			t.Errorf("Expand[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestReshape(t *testing.T) {
	backend := New()
	x := rawFromSlice(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	r := backend.Reshape(x, tensor.Shape{3, 2})
	if !r.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("shape = %v, want [3 2]", r.Shape())
	}
	for i, v := range r.AsFloat64() {
		if v != float64(i+1) {
			t.Errorf("Reshape[%d] = %v, want %v", i, v, float64(i+1))
		}
	}
}
