package cpu

import (
	"testing"

	"github.com/gozoo-ml/gozoo/internal/tensor"
)

// TestAdd_SameShape tests the fast path for identical shapes.
func TestAdd_SameShape(t *testing.T) {
	backend := New()

	a, _ := tensor.NewRaw(tensor.Shape{2, 2})
	copy(a.Data(), []float32{1, 2, 3, 4})
	b, _ := tensor.NewRaw(tensor.Shape{2, 2})
	copy(b.Data(), []float32{10, 20, 30, 40})

	c := backend.Add(a, b)

	expected := []float32{11, 22, 33, 44}
	for i, exp := range expected {
		if c.Data()[i] != exp {
			t.Errorf("Output[%d]: expected %.1f, got %.1f", i, exp, c.Data()[i])
		}
	}
}

// TestMul_BroadcastGate tests the squeeze-excite broadcast pattern:
// [N,H,W,C] scaled by a [N,1,1,C] gate.
func TestMul_BroadcastGate(t *testing.T) {
	backend := New()

	x, _ := tensor.NewRaw(tensor.Shape{1, 2, 2, 2})
	copy(x.Data(), []float32{1, 10, 2, 20, 3, 30, 4, 40})

	gate, _ := tensor.NewRaw(tensor.Shape{1, 1, 1, 2})
	copy(gate.Data(), []float32{2, 0.5})

	y := backend.Mul(x, gate)

	if !y.Shape().Equal(x.Shape()) {
		t.Fatalf("Expected shape %v, got %v", x.Shape(), y.Shape())
	}
	expected := []float32{2, 5, 4, 10, 6, 15, 8, 20}
	for i, exp := range expected {
		if y.Data()[i] != exp {
			t.Errorf("Output[%d]: expected %.1f, got %.1f", i, exp, y.Data()[i])
		}
	}
}

// TestAdd_BroadcastBias tests the bias broadcast pattern: [N,H,W,C] plus
// a [1,1,1,C] bias.
func TestAdd_BroadcastBias(t *testing.T) {
	backend := New()

	x, _ := tensor.NewRaw(tensor.Shape{2, 1, 2, 2})
	copy(x.Data(), []float32{1, 2, 3, 4, 5, 6, 7, 8})

	bias, _ := tensor.NewRaw(tensor.Shape{1, 1, 1, 2})
	copy(bias.Data(), []float32{100, 200})

	y := backend.Add(x, bias)

	expected := []float32{101, 202, 103, 204, 105, 206, 107, 208}
	for i, exp := range expected {
		if y.Data()[i] != exp {
			t.Errorf("Output[%d]: expected %.1f, got %.1f", i, exp, y.Data()[i])
		}
	}
}

// TestAdd_IncompatibleShapes verifies the broadcast validation panic.
func TestAdd_IncompatibleShapes(t *testing.T) {
	backend := New()

	a, _ := tensor.NewRaw(tensor.Shape{2, 3})
	b, _ := tensor.NewRaw(tensor.Shape{2, 4})

	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for incompatible shapes, got none")
		}
	}()
	backend.Add(a, b)
}
