package cond

import (
	"fmt"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/lucasmaystre/gocond/expect"
	"github.com/lucasmaystre/gocond/feat"
	"github.com/lucasmaystre/gocond/kern"
	"github.com/lucasmaystre/gocond/linalg"
	"github.com/lucasmaystre/gocond/mean"
)

// UncertainConditional computes the posterior marginals at Gaussian-
// distributed new inputs p(xₙ) = N(xnewMu row n, xnewVar[n]), integrating
// the input uncertainty out against the moment expectations supplied by the
// oracle. qMu (M×Dout) and qSqrt (Dout lower-triangular M×M factors) are the
// variational distribution over the function values at the inducing points;
// mf may be nil for a zero mean function.
//
// The mean is N×Dout; the covariance is Cov.Output (N blocks of Dout×Dout)
// with opts.FullCovOutput set and Cov.Diag (N×Dout) otherwise. Only the
// concrete inducing-points feature is supported, and opts.FullCov is not:
// covariance over distinct uncertain inputs would need an N×N×Dout×Dout
// result.
func UncertainConditional(xnewMu *mat.Dense, xnewVar []*mat.SymDense, feature feat.InducingFeature, k kern.Kernel, qMu *mat.Dense, qSqrt []*mat.TriDense, mf mean.Function, oracle expect.Oracle, opts Options, set Settings) (*mat.Dense, *Cov, error) {
	if opts.FullCov {
		return nil, nil, fmt.Errorf("%w: full covariance over uncertain inputs", ErrUnsupported)
	}
	ip, ok := feature.(*feat.InducingPoints)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %T", ErrUnsupportedFeature, feature)
	}
	p, err := expect.NewGaussian(xnewMu, xnewVar)
	if err != nil {
		return nil, nil, err
	}
	n := p.Len()
	m, dout := qMu.Dims()
	if ip.Len() != m {
		return nil, nil, fmt.Errorf("%w: %d inducing points, q_mu has %d rows", ErrShape, ip.Len(), m)
	}
	if len(qSqrt) != dout {
		return nil, nil, fmt.Errorf("%w: %d q_sqrt factors for %d outputs", ErrShape, len(qSqrt), dout)
	}
	for i, l := range qSqrt {
		if ln, kind := l.Triangle(); ln != m || kind != mat.Lower {
			return nil, nil, fmt.Errorf("%w: q_sqrt factor %d must be %d×%d lower triangular", ErrShape, i, m, m)
		}
	}
	set.logger().Debug("uncertain conditional",
		zap.Int("n", n), zap.Int("m", m), zap.Int("dout", dout),
		zap.Bool("full_cov_output", opts.FullCovOutput), zap.Bool("white", opts.White))

	kuu := ip.Kuu(k, set.Jitter)
	u, err := linalg.Chol(kuu) // Kuu = L·Lᵀ, held as U = Lᵀ
	if err != nil {
		return nil, nil, err
	}

	// Move q_mu and q_sqrt into the whitened basis unless they already
	// live there.
	qmu := mat.DenseCopyOf(qMu)
	sqrts := make([]*mat.Dense, dout)
	for d := 0; d < dout; d++ {
		sqrts[d] = denseFromTri(qSqrt[d])
	}
	if !opts.White {
		if err := linalg.SolveTri(u, true, qmu); err != nil {
			return nil, nil, err
		}
		for d := 0; d < dout; d++ {
			if err := linalg.SolveTri(u, true, sqrts[d]); err != nil {
				return nil, nil, err
			}
		}
	}

	// Project the expected cross term: Li_eKuf = L⁻¹·E[Kuf].
	psi1, err := oracle.EKuf(p, k, ip) // N×M
	if err != nil {
		return nil, nil, err
	}
	liEKuf := mat.DenseCopyOf(psi1.T()) // M×N
	if err := linalg.SolveTri(u, true, liEKuf); err != nil {
		return nil, nil, err
	}
	var fmean mat.Dense
	fmean.Mul(liEKuf.T(), qmu) // N×Dout

	eKff, err := oracle.EKdiag(p, k) // N
	if err != nil {
		return nil, nil, err
	}
	eKuffu, err := oracle.EKuffu(p, k, ip) // N × M×M
	if err != nil {
		return nil, nil, err
	}

	// Per output: cov_d = s_d·s_dᵀ, the whitened covariance over the
	// inducing values.
	covs := make([]*mat.Dense, dout)
	for d := 0; d < dout; d++ {
		var c mat.Dense
		c.Mul(sqrts[d], sqrts[d].T())
		covs[d] = &c
	}

	// Mean-function cross terms. With a zero mean they vanish.
	var eRelated []*mat.Dense
	if !isZeroMean(mf) {
		em, err := oracle.EMean(p, mf)
		if err != nil {
			return nil, nil, err
		}
		fmean.Add(&fmean, em)
		eMM, err := oracle.EMeanMean(p, mf, mf) // N × Dout×Dout
		if err != nil {
			return nil, nil, err
		}
		litQmu := mat.DenseCopyOf(qmu) // Lᵀ⁻¹·q_mu
		if err := linalg.SolveTri(u, false, litQmu); err != nil {
			return nil, nil, err
		}
		eMK, err := oracle.EMeanKuf(p, mf, k, ip) // N × Dout×M
		if err != nil {
			return nil, nil, err
		}
		eRelated = make([]*mat.Dense, n)
		for i := 0; i < n; i++ {
			var cross mat.Dense
			cross.Mul(eMK[i], litQmu) // Dout×Dout
			e := mat.NewDense(dout, dout, nil)
			for a := 0; a < dout; a++ {
				for b := 0; b < dout; b++ {
					e.Set(a, b, cross.At(a, b)+cross.At(b, a)+eMM[i].At(a, b))
				}
			}
			eRelated[i] = e
		}
	}

	// The variance combines the expected self-covariance deficit, the
	// propagated q uncertainty, the quadratic form of q_mu through the
	// projected second moment, and the squared-mean correction.
	if opts.FullCovOutput {
		out := make([]*mat.SymDense, n)
		for i := 0; i < n; i++ {
			c, err := projectSecondMoment(u, eKuffu[i])
			if err != nil {
				return nil, nil, err
			}
			base := eKff.AtVec(i) - trace(c)
			var qc, quad mat.Dense
			qc.Mul(qmu.T(), c)
			quad.Mul(&qc, qmu) // Dout×Dout
			s := mat.NewSymDense(dout, nil)
			for a := 0; a < dout; a++ {
				for b := a; b < dout; b++ {
					v := quad.At(a, b) - fmean.At(i, a)*fmean.At(i, b)
					if a == b {
						v += base + traceProd(c, covs[a])
					}
					if eRelated != nil {
						v += eRelated[i].At(a, b)
					}
					s.SetSym(a, b, v)
				}
			}
			out[i] = s
		}
		return &fmean, &Cov{Output: out}, nil
	}

	out := mat.NewDense(n, dout, nil)
	for i := 0; i < n; i++ {
		c, err := projectSecondMoment(u, eKuffu[i])
		if err != nil {
			return nil, nil, err
		}
		base := eKff.AtVec(i) - trace(c)
		for d := 0; d < dout; d++ {
			v := base + traceProd(c, covs[d]) + quadForm(qmu, c, d) - fmean.At(i, d)*fmean.At(i, d)
			if eRelated != nil {
				v += eRelated[i].At(d, d)
			}
			out.Set(i, d, v)
		}
	}
	return &fmean, &Cov{Diag: out}, nil
}

// projectSecondMoment returns L⁻¹·P·L⁻ᵀ for the factored Kuu = L·Lᵀ.
func projectSecondMoment(u *mat.TriDense, p *mat.Dense) (*mat.Dense, error) {
	b := mat.DenseCopyOf(p)
	if err := linalg.SolveTri(u, true, b); err != nil {
		return nil, err
	}
	t := mat.DenseCopyOf(b.T())
	if err := linalg.SolveTri(u, true, t); err != nil {
		return nil, err
	}
	return mat.DenseCopyOf(t.T()), nil
}

func denseFromTri(t *mat.TriDense) *mat.Dense {
	n, _ := t.Triangle()
	out := mat.NewDense(n, n, nil)
	out.Copy(t)
	return out
}

func isZeroMean(mf mean.Function) bool {
	if mf == nil {
		return true
	}
	_, ok := mf.(*mean.Zero)
	return ok
}

func trace(a *mat.Dense) float64 {
	n, _ := a.Dims()
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a.At(i, i)
	}
	return sum
}

// traceProd returns tr(a·b) for square matrices of equal size.
func traceProd(a, b *mat.Dense) float64 {
	n, _ := a.Dims()
	sum := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sum += a.At(i, j) * b.At(j, i)
		}
	}
	return sum
}

// quadForm returns column d of qmu passed through c: qmu[:,d]ᵀ·c·qmu[:,d].
func quadForm(qmu, c *mat.Dense, d int) float64 {
	m, _ := qmu.Dims()
	sum := 0.0
	for i := 0; i < m; i++ {
		qi := qmu.At(i, d)
		for j := 0; j < m; j++ {
			sum += qi * c.At(i, j) * qmu.At(j, d)
		}
	}
	return sum
}
