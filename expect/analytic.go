package expect

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/lucasmaystre/gocond/feat"
	"github.com/lucasmaystre/gocond/kern"
	"github.com/lucasmaystre/gocond/linalg"
	"github.com/lucasmaystre/gocond/mean"
)

var (
	analytic *Analytic
	_        Oracle = analytic // Check that Analytic respects the Oracle interface.
)

// Analytic computes psi statistics in closed form. It supports the RBF
// kernel with inducing points, and the affine mean functions (Zero,
// Constant, Linear, Identity); anything else reports ErrUnsupported.
//
// The psi statistics are the standard Gaussian integrals of products of
// squared-exponential terms: with Λ the diagonal matrix of squared
// lengthscales and xₙ ~ N(μₙ, Σₙ),
//
//	psi1ₙₘ = σ²·|Λ|^½·|Λ+Σₙ|^-½·exp(-½·(μₙ-z_m)ᵀ(Λ+Σₙ)⁻¹(μₙ-z_m))
//	psi2ₙₘₘ' = σ⁴·|Λ/2|^½·|Λ/2+Σₙ|^-½·exp(-¼·(z_m-z_m')ᵀΛ⁻¹(z_m-z_m'))
//	          ·exp(-½·(μₙ-z̄)ᵀ(Λ/2+Σₙ)⁻¹(μₙ-z̄)),  z̄ = (z_m+z_m')/2
//
// evaluated with Cholesky factorizations of the D×D terms, never explicit
// inverses.
type Analytic struct{}

func NewAnalytic() *Analytic {
	return &Analytic{}
}

func (o *Analytic) rbf(p *Gaussian, k kern.Kernel) (*kern.RBF, error) {
	r, ok := k.(*kern.RBF)
	if !ok {
		return nil, fmt.Errorf("%w: kernel %T", ErrUnsupported, k)
	}
	if r.InputDim() != p.Dim() {
		return nil, fmt.Errorf("%w: kernel input dim %d, distribution dim %d",
			ErrShape, r.InputDim(), p.Dim())
	}
	return r, nil
}

// lambdaPlus returns the Cholesky factor of scale·Λ + Σₙ together with the
// ratio |scale·Λ|^½ / |scale·Λ+Σₙ|^½.
func lambdaPlus(lscales []float64, scale float64, sigma *mat.SymDense) (*mat.TriDense, float64, error) {
	d := len(lscales)
	b := mat.NewSymDense(d, nil)
	b.CopySym(sigma)
	detLam := 1.0
	for i, l := range lscales {
		b.SetSym(i, i, b.At(i, i)+scale*l*l)
		detLam *= math.Sqrt(scale) * l
	}
	u, err := linalg.Chol(b)
	if err != nil {
		return nil, 0, err
	}
	detB := 1.0
	for i := 0; i < d; i++ {
		detB *= u.At(i, i)
	}
	return u, detLam / detB, nil
}

// mahalanobis returns dᵀ·(UᵀU)⁻¹·d for the factored matrix UᵀU.
func mahalanobis(u *mat.TriDense, d []float64) float64 {
	y := mat.NewDense(len(d), 1, nil)
	for i, v := range d {
		y.Set(i, 0, v)
	}
	if err := linalg.SolveTri(u, true, y); err != nil {
		// The factor came out of a successful Potrf; a zero diagonal
		// here is an internal inconsistency, not a caller error.
		panic(err)
	}
	q := 0.0
	for i := range d {
		q += y.At(i, 0) * y.At(i, 0)
	}
	return q
}

func (o *Analytic) EKdiag(p *Gaussian, k kern.Kernel) (*mat.VecDense, error) {
	r, err := o.rbf(p, k)
	if err != nil {
		return nil, err
	}
	// The RBF marginal variance does not depend on the input, so the
	// expectation is the variance itself.
	n := p.Len()
	out := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		out.SetVec(i, r.Variance())
	}
	return out, nil
}

func (o *Analytic) EKuf(p *Gaussian, k kern.Kernel, f *feat.InducingPoints) (*mat.Dense, error) {
	r, err := o.rbf(p, k)
	if err != nil {
		return nil, err
	}
	n, d := p.Len(), p.Dim()
	m := f.Len()
	z := f.Z()
	ls := r.Lengthscales()
	out := mat.NewDense(n, m, nil)
	diff := make([]float64, d)
	for i := 0; i < n; i++ {
		u, det, err := lambdaPlus(ls, 1, p.Cov[i])
		if err != nil {
			return nil, err
		}
		for j := 0; j < m; j++ {
			for q := 0; q < d; q++ {
				diff[q] = p.Mu.At(i, q) - z.At(j, q)
			}
			out.Set(i, j, r.Variance()*det*math.Exp(-0.5*mahalanobis(u, diff)))
		}
	}
	return out, nil
}

func (o *Analytic) EKuffu(p *Gaussian, k kern.Kernel, f *feat.InducingPoints) ([]*mat.Dense, error) {
	r, err := o.rbf(p, k)
	if err != nil {
		return nil, err
	}
	n, d := p.Len(), p.Dim()
	m := f.Len()
	z := f.Z()
	ls := r.Lengthscales()
	v2 := r.Variance() * r.Variance()

	// The pairwise factor exp(-¼·(z_m-z_m')ᵀΛ⁻¹(z_m-z_m')) is shared
	// across points.
	pair := mat.NewSymDense(m, nil)
	for a := 0; a < m; a++ {
		for b := a; b < m; b++ {
			q := 0.0
			for c, l := range ls {
				dz := (z.At(a, c) - z.At(b, c)) / l
				q += dz * dz
			}
			pair.SetSym(a, b, math.Exp(-0.25*q))
		}
	}

	out := make([]*mat.Dense, n)
	diff := make([]float64, d)
	for i := 0; i < n; i++ {
		u, det, err := lambdaPlus(ls, 0.5, p.Cov[i])
		if err != nil {
			return nil, err
		}
		psi2 := mat.NewDense(m, m, nil)
		for a := 0; a < m; a++ {
			for b := a; b < m; b++ {
				for c := 0; c < d; c++ {
					diff[c] = p.Mu.At(i, c) - 0.5*(z.At(a, c)+z.At(b, c))
				}
				val := v2 * det * pair.At(a, b) * math.Exp(-0.5*mahalanobis(u, diff))
				psi2.Set(a, b, val)
				psi2.Set(b, a, val)
			}
		}
		out[i] = psi2
	}
	return out, nil
}

// affineParams reduces a mean function to the form m(x) = Aᵀx + b.
func affineParams(m mean.Function, d int) (*mat.Dense, []float64, error) {
	switch m := m.(type) {
	case *mean.Zero:
		return mat.NewDense(d, m.OutputDim(), nil), make([]float64, m.OutputDim()), nil
	case *mean.Constant:
		return mat.NewDense(d, len(m.C()), nil), m.C(), nil
	case *mean.Linear:
		return m.A(), m.B(), nil
	case *mean.Identity:
		lin := m.AsLinear()
		return lin.A(), lin.B(), nil
	}
	return nil, nil, fmt.Errorf("%w: mean function %T", ErrUnsupported, m)
}

func (o *Analytic) EMean(p *Gaussian, m mean.Function) (*mat.Dense, error) {
	a, b, err := affineParams(m, p.Dim())
	if err != nil {
		return nil, err
	}
	n := p.Len()
	_, q := a.Dims()
	out := mat.NewDense(n, q, nil)
	out.Mul(p.Mu, a)
	for i := 0; i < n; i++ {
		for j := 0; j < q; j++ {
			out.Set(i, j, out.At(i, j)+b[j])
		}
	}
	return out, nil
}

func (o *Analytic) EMeanMean(p *Gaussian, m1, m2 mean.Function) ([]*mat.Dense, error) {
	d := p.Dim()
	a1, _, err := affineParams(m1, d)
	if err != nil {
		return nil, err
	}
	a2, _, err := affineParams(m2, d)
	if err != nil {
		return nil, err
	}
	// E[m1·m2ᵀ] = A1ᵀ·Σₙ·A2 + E[m1]·E[m2]ᵀ for affine means.
	e1, err := o.EMean(p, m1)
	if err != nil {
		return nil, err
	}
	e2, err := o.EMean(p, m2)
	if err != nil {
		return nil, err
	}
	n := p.Len()
	_, q1 := a1.Dims()
	_, q2 := a2.Dims()
	out := make([]*mat.Dense, n)
	var sa, asa mat.Dense
	for i := 0; i < n; i++ {
		e := mat.NewDense(q1, q2, nil)
		sa.Mul(p.Cov[i], a2)
		asa.Mul(a1.T(), &sa)
		for a := 0; a < q1; a++ {
			for b := 0; b < q2; b++ {
				e.Set(a, b, asa.At(a, b)+e1.At(i, a)*e2.At(i, b))
			}
		}
		out[i] = e
	}
	return out, nil
}

func (o *Analytic) EMeanKuf(p *Gaussian, m mean.Function, k kern.Kernel, f *feat.InducingPoints) ([]*mat.Dense, error) {
	r, err := o.rbf(p, k)
	if err != nil {
		return nil, err
	}
	a, b, err := affineParams(m, p.Dim())
	if err != nil {
		return nil, err
	}
	n, d := p.Len(), p.Dim()
	nf := f.Len()
	z := f.Z()
	ls := r.Lengthscales()
	_, q := a.Dims()

	out := make([]*mat.Dense, n)
	diff := make([]float64, d)
	w := mat.NewDense(d, 1, nil)
	c := mat.NewVecDense(d, nil)
	sw := mat.NewVecDense(d, nil)
	ac := mat.NewVecDense(q, nil)
	for i := 0; i < n; i++ {
		u, det, err := lambdaPlus(ls, 1, p.Cov[i])
		if err != nil {
			return nil, err
		}
		e := mat.NewDense(q, nf, nil)
		for j := 0; j < nf; j++ {
			for cc := 0; cc < d; cc++ {
				diff[cc] = p.Mu.At(i, cc) - z.At(j, cc)
				w.Set(cc, 0, -diff[cc]) // z - μ
			}
			psi1 := r.Variance() * det * math.Exp(-0.5*mahalanobis(u, diff))
			// c = μₙ + Σₙ·(Λ+Σₙ)⁻¹·(z_m-μₙ) is the mean of x under
			// the tilted density x·k(x, z_m); E[x·k] = psi1·c.
			if err := linalg.SolveTri(u, true, w); err != nil {
				return nil, err
			}
			if err := linalg.SolveTri(u, false, w); err != nil {
				return nil, err
			}
			sw.MulVec(p.Cov[i], w.ColView(0))
			for cc := 0; cc < d; cc++ {
				c.SetVec(cc, p.Mu.At(i, cc)+sw.AtVec(cc))
			}
			ac.MulVec(a.T(), c)
			for g := 0; g < q; g++ {
				e.Set(g, j, psi1*(ac.AtVec(g)+b[g]))
			}
		}
		out[i] = e
	}
	return out, nil
}
