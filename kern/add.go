package kern

import (
	"gonum.org/v1/gonum/mat"
)

var (
	add *Add
	_   Kernel = add // Check that Add respects the Kernel interface.
)

// Add is the sum of two or more kernels over the same input space.
type Add struct {
	parts    []Kernel
	inputDim int
}

// NewAdd combines two kernels into their sum, flattening nested sums.
func NewAdd(first, second Kernel) *Add {
	parts := make([]Kernel, 0, 2)
	switch first := first.(type) {
	case *Add:
		parts = append(parts, first.parts...)
	default:
		parts = append(parts, first)
	}
	switch second := second.(type) {
	case *Add:
		parts = append(parts, second.parts...)
	default:
		parts = append(parts, second)
	}
	return &Add{
		parts:    parts,
		inputDim: parts[0].InputDim(),
	}
}

// Parts returns the flattened summands.
func (k *Add) Parts() []Kernel {
	return k.parts
}

func (k *Add) InputDim() int {
	return k.inputDim
}

func (k *Add) K(x *mat.Dense) *mat.SymDense {
	out := k.parts[0].K(x)
	for _, part := range k.parts[1:] {
		out.AddSym(out, part.K(x))
	}
	return out
}

func (k *Add) KCross(x, x2 *mat.Dense) *mat.Dense {
	out := k.parts[0].KCross(x, x2)
	for _, part := range k.parts[1:] {
		out.Add(out, part.KCross(x, x2))
	}
	return out
}

func (k *Add) KDiag(x *mat.Dense) *mat.VecDense {
	out := k.parts[0].KDiag(x)
	for _, part := range k.parts[1:] {
		out.AddVec(out, part.KDiag(x))
	}
	return out
}
