package autodiff

import (
	"github.com/born-ml/laplace/internal/autodiff/ops"
	"github.com/born-ml/laplace/internal/tensor"
)

// GradientTape records operations during the forward pass and computes
// gradients during the backward pass using reverse-mode automatic
// differentiation.
//
// Usage:
//
//	tape := backend.Tape()
//	tape.StartRecording()
//	// ... perform operations ...
//	grads := tape.Backward(y.Raw(), seed, backend)
type GradientTape struct {
	operations []ops.Operation // Recorded operations (in execution order)
	recording  bool            // Whether tape is currently recording
}

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return &GradientTape{
		operations: make([]ops.Operation, 0, 64), // Pre-allocate for common case
		recording:  false,
	}
}

// StartRecording enables operation recording.
func (t *GradientTape) StartRecording() {
	t.recording = true
}

// StopRecording disables operation recording.
func (t *GradientTape) StopRecording() {
	t.recording = false
}

// IsRecording returns true if the tape is currently recording operations.
func (t *GradientTape) IsRecording() bool {
	return t.recording
}

// Record adds an operation to the tape.
// Only records if the tape is currently recording.
func (t *GradientTape) Record(op ops.Operation) {
	if t.recording {
		t.operations = append(t.operations, op)
	}
}

// Clear resets the tape, removing all recorded operations.
// Recording state is preserved.
func (t *GradientTape) Clear() {
	t.operations = t.operations[:0]
}

// Backward computes gradients of root with respect to every tensor it
// depends on, seeded with the given cotangent.
//
// Algorithm:
//  1. Seed the gradient map with grads[root] = seed
//  2. Walk recorded operations in reverse order
//  3. For each operation whose output has a gradient, compute input
//     gradients via its chain rule
//  4. Accumulate gradients when the same tensor feeds several operations
//
// Backward deliberately does NOT stop the tape: if the backend is still
// recording, the gradient computation itself lands on the tape, and a later
// Backward seeded at a gradient tensor yields second derivatives. Only the
// operations present when Backward is entered are walked; operations it
// records while running are not visited by its own traversal.
//
// Returns a map from RawTensor to its accumulated gradient. Tensors the root
// does not depend on are absent from the map.
func (t *GradientTape) Backward(root, seed *tensor.RawTensor, backend tensor.Backend) map[*tensor.RawTensor]*tensor.RawTensor {
	grads := make(map[*tensor.RawTensor]*tensor.RawTensor)
	grads[root] = seed

	// Snapshot: appends during a differentiable backward must not be walked.
	recorded := t.operations[:len(t.operations)]

	for i := len(recorded) - 1; i >= 0; i-- {
		op := recorded[i]
		outputGrad, ok := grads[op.Output()]
		if !ok {
			continue // No gradient flows through this operation
		}

		inputGrads := op.Backward(outputGrad, backend)
		t.accumulate(op, inputGrads, grads, backend)
	}

	return grads
}

// accumulate folds input gradients into the gradient map.
func (t *GradientTape) accumulate(
	op ops.Operation,
	inputGrads []*tensor.RawTensor,
	grads map[*tensor.RawTensor]*tensor.RawTensor,
	backend tensor.Backend,
) {
	inputs := op.Inputs()
	for j, input := range inputs {
		if j >= len(inputGrads) {
			break
		}
		inputGrad := inputGrads[j]
		if inputGrad == nil {
			continue
		}
		if existing, ok := grads[input]; ok {
			grads[input] = backend.Add(existing, inputGrad)
		} else {
			grads[input] = inputGrad
		}
	}
}

// NumOps returns the number of recorded operations.
func (t *GradientTape) NumOps() int {
	return len(t.operations)
}
