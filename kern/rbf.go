package kern

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	rbf *RBF
	_   Kernel = rbf // Check that RBF respects the Kernel interface.
)

// RBF is the squared-exponential kernel with a variance and one lengthscale
// per input dimension (ARD).
type RBF struct {
	variance float64
	lscales  []float64
}

func NewRBF(variance float64, lscales ...float64) *RBF {
	ls := make([]float64, len(lscales))
	copy(ls, lscales)
	return &RBF{
		variance: variance,
		lscales:  ls,
	}
}

func (k *RBF) InputDim() int {
	return len(k.lscales)
}

func (k *RBF) Variance() float64 {
	return k.variance
}

// Lengthscales returns the per-dimension lengthscales. The slice is shared;
// callers must not modify it.
func (k *RBF) Lengthscales() []float64 {
	return k.lscales
}

// cov evaluates k on a pair of rows.
func (k *RBF) cov(x, x2 *mat.Dense, i, j int) float64 {
	d2 := 0.0
	for q, l := range k.lscales {
		d := (x.At(i, q) - x2.At(j, q)) / l
		d2 += d * d
	}
	return k.variance * math.Exp(-0.5*d2)
}

func (k *RBF) K(x *mat.Dense) *mat.SymDense {
	n, _ := x.Dims()
	out := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			out.SetSym(i, j, k.cov(x, x, i, j))
		}
	}
	return out
}

func (k *RBF) KCross(x, x2 *mat.Dense) *mat.Dense {
	n, _ := x.Dims()
	n2, _ := x2.Dims()
	out := mat.NewDense(n, n2, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n2; j++ {
			out.Set(i, j, k.cov(x, x2, i, j))
		}
	}
	return out
}

func (k *RBF) KDiag(x *mat.Dense) *mat.VecDense {
	n, _ := x.Dims()
	out := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		out.SetVec(i, k.variance)
	}
	return out
}
