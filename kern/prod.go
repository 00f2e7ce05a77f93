package kern

import (
	"gonum.org/v1/gonum/mat"
)

var (
	prod *Prod
	_    Kernel = prod // Check that Prod respects the Kernel interface.
)

// Prod is the elementwise product of two or more kernels over the same
// input space.
type Prod struct {
	parts    []Kernel
	inputDim int
}

// NewProd combines two kernels into their product, flattening nested
// products.
func NewProd(first, second Kernel) *Prod {
	parts := make([]Kernel, 0, 2)
	switch first := first.(type) {
	case *Prod:
		parts = append(parts, first.parts...)
	default:
		parts = append(parts, first)
	}
	switch second := second.(type) {
	case *Prod:
		parts = append(parts, second.parts...)
	default:
		parts = append(parts, second)
	}
	return &Prod{
		parts:    parts,
		inputDim: parts[0].InputDim(),
	}
}

// Parts returns the flattened factors.
func (k *Prod) Parts() []Kernel {
	return k.parts
}

func (k *Prod) InputDim() int {
	return k.inputDim
}

func (k *Prod) K(x *mat.Dense) *mat.SymDense {
	n, _ := x.Dims()
	out := k.parts[0].K(x)
	for _, part := range k.parts[1:] {
		pk := part.K(x)
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				out.SetSym(i, j, out.At(i, j)*pk.At(i, j))
			}
		}
	}
	return out
}

func (k *Prod) KCross(x, x2 *mat.Dense) *mat.Dense {
	out := k.parts[0].KCross(x, x2)
	for _, part := range k.parts[1:] {
		out.MulElem(out, part.KCross(x, x2))
	}
	return out
}

func (k *Prod) KDiag(x *mat.Dense) *mat.VecDense {
	out := k.parts[0].KDiag(x)
	for _, part := range k.parts[1:] {
		out.MulElemVec(out, part.KDiag(x))
	}
	return out
}
