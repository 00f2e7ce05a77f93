package kern

import (
	"gonum.org/v1/gonum/mat"
)

var (
	white *White
	_     Kernel = white // Check that White respects the Kernel interface.
)

// White is the white-noise kernel: k(x, x') = σ² when x and x' are the same
// datum and zero otherwise. Cross-covariances between distinct input sets
// are identically zero.
type White struct {
	variance float64
	inputDim int
}

func NewWhite(variance float64, inputDim int) *White {
	return &White{
		variance: variance,
		inputDim: inputDim,
	}
}

func (k *White) InputDim() int {
	return k.inputDim
}

func (k *White) K(x *mat.Dense) *mat.SymDense {
	n, _ := x.Dims()
	out := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		out.SetSym(i, i, k.variance)
	}
	return out
}

func (k *White) KCross(x, x2 *mat.Dense) *mat.Dense {
	n, _ := x.Dims()
	n2, _ := x2.Dims()
	return mat.NewDense(n, n2, nil)
}

func (k *White) KDiag(x *mat.Dense) *mat.VecDense {
	n, _ := x.Dims()
	out := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		out.SetVec(i, k.variance)
	}
	return out
}
