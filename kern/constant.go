package kern

import (
	"gonum.org/v1/gonum/mat"
)

var (
	constant *Constant
	_        Kernel = constant // Check that Constant respects the Kernel interface.
)

// Constant is the kernel k(x, x') = σ² for all pairs.
type Constant struct {
	variance float64
	inputDim int
}

func NewConstant(variance float64, inputDim int) *Constant {
	return &Constant{
		variance: variance,
		inputDim: inputDim,
	}
}

func (k *Constant) InputDim() int {
	return k.inputDim
}

func (k *Constant) K(x *mat.Dense) *mat.SymDense {
	n, _ := x.Dims()
	out := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			out.SetSym(i, j, k.variance)
		}
	}
	return out
}

func (k *Constant) KCross(x, x2 *mat.Dense) *mat.Dense {
	n, _ := x.Dims()
	n2, _ := x2.Dims()
	out := mat.NewDense(n, n2, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n2; j++ {
			out.Set(i, j, k.variance)
		}
	}
	return out
}

func (k *Constant) KDiag(x *mat.Dense) *mat.VecDense {
	n, _ := x.Dims()
	out := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		out.SetVec(i, k.variance)
	}
	return out
}
