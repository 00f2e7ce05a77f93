package expect

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/mat"

	"github.com/lucasmaystre/gocond/feat"
	"github.com/lucasmaystre/gocond/kern"
	"github.com/lucasmaystre/gocond/linalg"
	"github.com/lucasmaystre/gocond/mean"
)

var (
	quadrature *Quadrature
	_          Oracle = quadrature // Check that Quadrature respects the Oracle interface.
)

// Quadrature approximates the moment expectations with a tensor product of
// Gauss–Hermite rules, one per input dimension. It works for any kernel and
// mean function at a cost of nodes^D evaluations per point, so it is only
// practical for small input dimensions; input covariances must be strictly
// positive definite so that they can be factorized.
type Quadrature struct {
	x []float64
	w []float64
}

func NewQuadrature(nodesPerDim int) *Quadrature {
	x := make([]float64, nodesPerDim)
	w := make([]float64, nodesPerDim)
	quad.Hermite{}.FixedLocations(x, w, math.Inf(-1), math.Inf(1))
	return &Quadrature{x: x, w: w}
}

// foreach visits the transformed quadrature grid of point i. The visited
// locations are xₙ = μₙ + √2·Lₙ·t with Σₙ = Lₙ·Lₙᵀ, and the weights sum to
// one, so that Σ w·f(x) approximates E[f(xₙ)].
func (o *Quadrature) foreach(p *Gaussian, i int, fn func(x *mat.Dense, w float64)) error {
	d := p.Dim()
	u, err := linalg.Chol(p.Cov[i])
	if err != nil {
		return fmt.Errorf("expect: point %d covariance: %w", i, err)
	}
	norm := math.Pow(math.Pi, -float64(d)/2)
	idx := make([]int, d)
	t := make([]float64, d)
	pt := mat.NewDense(1, d, nil)
	for {
		wt := norm
		for c := 0; c < d; c++ {
			t[c] = o.x[idx[c]]
			wt *= o.w[idx[c]]
		}
		for col := 0; col < d; col++ {
			val := p.Mu.At(i, col)
			for row := 0; row <= col; row++ {
				val += math.Sqrt2 * u.At(row, col) * t[row]
			}
			pt.Set(0, col, val)
		}
		fn(pt, wt)
		c := 0
		for ; c < d; c++ {
			idx[c]++
			if idx[c] < len(o.x) {
				break
			}
			idx[c] = 0
		}
		if c == d {
			return nil
		}
	}
}

func (o *Quadrature) checkDims(p *Gaussian, k kern.Kernel) error {
	if k.InputDim() != p.Dim() {
		return fmt.Errorf("%w: kernel input dim %d, distribution dim %d",
			ErrShape, k.InputDim(), p.Dim())
	}
	return nil
}

func (o *Quadrature) EKdiag(p *Gaussian, k kern.Kernel) (*mat.VecDense, error) {
	if err := o.checkDims(p, k); err != nil {
		return nil, err
	}
	n := p.Len()
	out := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		acc := 0.0
		err := o.foreach(p, i, func(x *mat.Dense, w float64) {
			acc += w * k.KDiag(x).AtVec(0)
		})
		if err != nil {
			return nil, err
		}
		out.SetVec(i, acc)
	}
	return out, nil
}

func (o *Quadrature) EKuf(p *Gaussian, k kern.Kernel, f *feat.InducingPoints) (*mat.Dense, error) {
	if err := o.checkDims(p, k); err != nil {
		return nil, err
	}
	n := p.Len()
	m := f.Len()
	z := f.Z()
	out := mat.NewDense(n, m, nil)
	for i := 0; i < n; i++ {
		acc := make([]float64, m)
		err := o.foreach(p, i, func(x *mat.Dense, w float64) {
			row := k.KCross(x, z)
			for j := 0; j < m; j++ {
				acc[j] += w * row.At(0, j)
			}
		})
		if err != nil {
			return nil, err
		}
		out.SetRow(i, acc)
	}
	return out, nil
}

func (o *Quadrature) EKuffu(p *Gaussian, k kern.Kernel, f *feat.InducingPoints) ([]*mat.Dense, error) {
	if err := o.checkDims(p, k); err != nil {
		return nil, err
	}
	n := p.Len()
	m := f.Len()
	z := f.Z()
	out := make([]*mat.Dense, n)
	for i := 0; i < n; i++ {
		acc := mat.NewDense(m, m, nil)
		err := o.foreach(p, i, func(x *mat.Dense, w float64) {
			r := k.KCross(z, x) // M×1
			for a := 0; a < m; a++ {
				for b := 0; b < m; b++ {
					acc.Set(a, b, acc.At(a, b)+w*r.At(a, 0)*r.At(b, 0))
				}
			}
		})
		if err != nil {
			return nil, err
		}
		out[i] = acc
	}
	return out, nil
}

func (o *Quadrature) EMean(p *Gaussian, m mean.Function) (*mat.Dense, error) {
	n := p.Len()
	var out *mat.Dense
	for i := 0; i < n; i++ {
		var acc []float64
		err := o.foreach(p, i, func(x *mat.Dense, w float64) {
			v := m.Eval(x)
			if acc == nil {
				_, q := v.Dims()
				acc = make([]float64, q)
			}
			for j := range acc {
				acc[j] += w * v.At(0, j)
			}
		})
		if err != nil {
			return nil, err
		}
		if out == nil {
			out = mat.NewDense(n, len(acc), nil)
		}
		out.SetRow(i, acc)
	}
	return out, nil
}

func (o *Quadrature) EMeanMean(p *Gaussian, m1, m2 mean.Function) ([]*mat.Dense, error) {
	n := p.Len()
	out := make([]*mat.Dense, n)
	for i := 0; i < n; i++ {
		var acc *mat.Dense
		err := o.foreach(p, i, func(x *mat.Dense, w float64) {
			v1 := m1.Eval(x)
			v2 := m2.Eval(x)
			if acc == nil {
				_, q1 := v1.Dims()
				_, q2 := v2.Dims()
				acc = mat.NewDense(q1, q2, nil)
			}
			r1, c1 := acc.Dims()
			for a := 0; a < r1; a++ {
				for b := 0; b < c1; b++ {
					acc.Set(a, b, acc.At(a, b)+w*v1.At(0, a)*v2.At(0, b))
				}
			}
		})
		if err != nil {
			return nil, err
		}
		out[i] = acc
	}
	return out, nil
}

func (o *Quadrature) EMeanKuf(p *Gaussian, m mean.Function, k kern.Kernel, f *feat.InducingPoints) ([]*mat.Dense, error) {
	if err := o.checkDims(p, k); err != nil {
		return nil, err
	}
	n := p.Len()
	nf := f.Len()
	z := f.Z()
	out := make([]*mat.Dense, n)
	for i := 0; i < n; i++ {
		var acc *mat.Dense
		err := o.foreach(p, i, func(x *mat.Dense, w float64) {
			v := m.Eval(x)
			r := k.KCross(x, z) // 1×M
			if acc == nil {
				_, q := v.Dims()
				acc = mat.NewDense(q, nf, nil)
			}
			q, _ := acc.Dims()
			for a := 0; a < q; a++ {
				for b := 0; b < nf; b++ {
					acc.Set(a, b, acc.At(a, b)+w*v.At(0, a)*r.At(0, b))
				}
			}
		})
		if err != nil {
			return nil, err
		}
		out[i] = acc
	}
	return out, nil
}
