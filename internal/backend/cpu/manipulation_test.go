package cpu

import (
	"testing"

	"github.com/gozoo-ml/gozoo/internal/tensor"
)

// TestTranspose_2D tests a standard matrix transpose.
func TestTranspose_2D(t *testing.T) {
	backend := New()

	input, _ := tensor.NewRaw(tensor.Shape{2, 3})
	copy(input.Data(), []float32{1, 2, 3, 4, 5, 6})

	output := backend.Transpose(input)

	if !output.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("Expected shape [3 2], got %v", output.Shape())
	}
	expected := []float32{1, 4, 2, 5, 3, 6}
	for i, exp := range expected {
		if output.Data()[i] != exp {
			t.Errorf("Output[%d]: expected %.1f, got %.1f", i, exp, output.Data()[i])
		}
	}
}

// TestTranspose_LastTwoAxes tests the permutation the channel shuffle
// relies on: swap the trailing [groups, per_group] axes.
func TestTranspose_LastTwoAxes(t *testing.T) {
	backend := New()

	// [1, 1, 1, 2, 3] viewed as 2 groups of 3 channels
	input, _ := tensor.NewRaw(tensor.Shape{1, 1, 1, 2, 3})
	copy(input.Data(), []float32{0, 1, 2, 3, 4, 5})

	output := backend.Transpose(input, 0, 1, 2, 4, 3)

	if !output.Shape().Equal(tensor.Shape{1, 1, 1, 3, 2}) {
		t.Fatalf("Expected shape [1 1 1 3 2], got %v", output.Shape())
	}
	expected := []float32{0, 3, 1, 4, 2, 5}
	for i, exp := range expected {
		if output.Data()[i] != exp {
			t.Errorf("Output[%d]: expected %.1f, got %.1f", i, exp, output.Data()[i])
		}
	}
}

// TestTranspose_InvalidPermutation verifies the axes validation panic.
func TestTranspose_InvalidPermutation(t *testing.T) {
	backend := New()

	input, _ := tensor.NewRaw(tensor.Shape{2, 3, 4})

	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for repeated axis, got none")
		}
	}()
	backend.Transpose(input, 0, 0, 1)
}

// TestReshape_SharesBuffer verifies reshape is a view, not a copy.
func TestReshape_SharesBuffer(t *testing.T) {
	backend := New()

	input, _ := tensor.NewRaw(tensor.Shape{2, 3})
	output := backend.Reshape(input, tensor.Shape{3, 2})

	if !output.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("Expected shape [3 2], got %v", output.Shape())
	}

	input.Data()[0] = 42
	if output.Data()[0] != 42 {
		t.Error("Reshape copied the buffer; expected a view")
	}
}

// TestCat_ChannelDim tests concatenation along the channel dimension, the
// way strided shuffle blocks join shortcut and main branch.
func TestCat_ChannelDim(t *testing.T) {
	backend := New()

	a, _ := tensor.NewRaw(tensor.Shape{1, 1, 2, 2})
	copy(a.Data(), []float32{1, 2, 3, 4})
	b, _ := tensor.NewRaw(tensor.Shape{1, 1, 2, 1})
	copy(b.Data(), []float32{10, 20})

	output := backend.Cat([]*tensor.RawTensor{a, b}, 3)

	if !output.Shape().Equal(tensor.Shape{1, 1, 2, 3}) {
		t.Fatalf("Expected shape [1 1 2 3], got %v", output.Shape())
	}
	// Per spatial position: a's channels first, then b's.
	expected := []float32{1, 2, 10, 3, 4, 20}
	for i, exp := range expected {
		if output.Data()[i] != exp {
			t.Errorf("Output[%d]: expected %.1f, got %.1f", i, exp, output.Data()[i])
		}
	}
}

// TestCat_ShapeMismatch verifies non-concat dimensions must agree.
func TestCat_ShapeMismatch(t *testing.T) {
	backend := New()

	a, _ := tensor.NewRaw(tensor.Shape{1, 2, 2, 2})
	b, _ := tensor.NewRaw(tensor.Shape{1, 3, 2, 2})

	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for incompatible shapes, got none")
		}
	}()
	backend.Cat([]*tensor.RawTensor{a, b}, 3)
}

// TestNarrow_ChannelSlice tests channel-range slicing, the way grouped
// pointwise convolutions split their input.
func TestNarrow_ChannelSlice(t *testing.T) {
	backend := New()

	input, _ := tensor.NewRaw(tensor.Shape{1, 1, 2, 4})
	copy(input.Data(), []float32{0, 1, 2, 3, 4, 5, 6, 7})

	output := backend.Narrow(input, 3, 1, 2)

	if !output.Shape().Equal(tensor.Shape{1, 1, 2, 2}) {
		t.Fatalf("Expected shape [1 1 2 2], got %v", output.Shape())
	}
	expected := []float32{1, 2, 5, 6}
	for i, exp := range expected {
		if output.Data()[i] != exp {
			t.Errorf("Output[%d]: expected %.1f, got %.1f", i, exp, output.Data()[i])
		}
	}
}

// TestNarrow_RoundTripCat verifies slicing into groups and concatenating
// reconstructs the original tensor.
func TestNarrow_RoundTripCat(t *testing.T) {
	backend := New()

	input, _ := tensor.NewRaw(tensor.Shape{2, 1, 1, 6})
	for i := range input.Data() {
		input.Data()[i] = float32(i)
	}

	groups := make([]*tensor.RawTensor, 3)
	for g := range groups {
		groups[g] = backend.Narrow(input, 3, g*2, 2)
	}
	output := backend.Cat(groups, 3)

	if !output.Shape().Equal(input.Shape()) {
		t.Fatalf("Expected shape %v, got %v", input.Shape(), output.Shape())
	}
	for i := range input.Data() {
		if output.Data()[i] != input.Data()[i] {
			t.Fatalf("Round trip mismatch at %d: expected %.1f, got %.1f", i, input.Data()[i], output.Data()[i])
		}
	}
}

// TestNarrow_OutOfBounds verifies the range validation panic.
func TestNarrow_OutOfBounds(t *testing.T) {
	backend := New()

	input, _ := tensor.NewRaw(tensor.Shape{1, 1, 1, 4})

	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for out-of-bounds narrow, got none")
		}
	}()
	backend.Narrow(input, 3, 3, 2)
}
