package kern

import (
	"gonum.org/v1/gonum/mat"
)

var (
	linear *Linear
	_      Kernel = linear // Check that Linear respects the Kernel interface.
)

// Linear is the dot-product kernel k(x, x') = σ²·xᵀx'.
type Linear struct {
	variance float64
	inputDim int
}

func NewLinear(variance float64, inputDim int) *Linear {
	return &Linear{
		variance: variance,
		inputDim: inputDim,
	}
}

func (k *Linear) InputDim() int {
	return k.inputDim
}

func (k *Linear) dot(x, x2 *mat.Dense, i, j int) float64 {
	val := 0.0
	for q := 0; q < k.inputDim; q++ {
		val += x.At(i, q) * x2.At(j, q)
	}
	return k.variance * val
}

func (k *Linear) K(x *mat.Dense) *mat.SymDense {
	n, _ := x.Dims()
	out := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			out.SetSym(i, j, k.dot(x, x, i, j))
		}
	}
	return out
}

func (k *Linear) KCross(x, x2 *mat.Dense) *mat.Dense {
	n, _ := x.Dims()
	n2, _ := x2.Dims()
	out := mat.NewDense(n, n2, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n2; j++ {
			out.Set(i, j, k.dot(x, x2, i, j))
		}
	}
	return out
}

func (k *Linear) KDiag(x *mat.Dense) *mat.VecDense {
	n, _ := x.Dims()
	out := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		out.SetVec(i, k.dot(x, x, i, i))
	}
	return out
}
