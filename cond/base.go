package cond

import (
	"fmt"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/lucasmaystre/gocond/linalg"
)

// Base computes the mean and covariance of the conditional
//
//	q(g1) = ∫ q(g2)·p(g1|g2) dg2
//
// with p(g2) = N(0, Kmm), p(g1) = N(0, Knn), cross-covariance Kmn, and
// q(g2) = N(f, q_sqrt·q_sqrtᵀ). The columns of f are R independent latent
// functions held at the M inducing entities; kmn is M×N.
//
// The returned mean is N×R. The covariance layout follows knn: the N×R
// marginal variances (Cov.Diag) when knn carries a diagonal, or the per-output
// N×N covariance (Cov.Input, R entries) when knn carries the full matrix.
//
// The caller must add jitter to kmm beforehand; a factorization failure is
// reported as linalg.ErrNotPositiveDefinite. With opts.White set, f and
// opts.QSqrt are interpreted in the whitened basis f = L·v, and the
// projection is not mapped back through Lᵀ.
func Base(kmn *mat.Dense, kmm *mat.SymDense, knn Knn, f *mat.Dense, opts Options, set Settings) (*mat.Dense, *Cov, error) {
	m, n := kmn.Dims()
	fm, r := f.Dims()
	if fm != m {
		return nil, nil, fmt.Errorf("%w: f has %d rows, Kmn has %d", ErrShape, fm, m)
	}
	if km := kmm.SymmetricDim(); km != m {
		return nil, nil, fmt.Errorf("%w: Kmm is %d×%d, Kmn has %d rows", ErrShape, km, km, m)
	}
	fullCov := knn.Full != nil
	if fullCov {
		if kn := knn.Full.SymmetricDim(); kn != n {
			return nil, nil, fmt.Errorf("%w: Knn is %d×%d, Kmn has %d columns", ErrShape, kn, kn, n)
		}
	} else {
		if knn.Diag == nil {
			return nil, nil, fmt.Errorf("%w: Knn carries neither a matrix nor a diagonal", ErrShape)
		}
		if kn := knn.Diag.Len(); kn != n {
			return nil, nil, fmt.Errorf("%w: Knn diagonal has length %d, Kmn has %d columns", ErrShape, kn, n)
		}
	}
	if opts.QSqrt != nil {
		if err := opts.QSqrt.validate(m, r); err != nil {
			return nil, nil, err
		}
	}
	set.logger().Debug("base conditional",
		zap.Int("m", m), zap.Int("n", n), zap.Int("r", r),
		zap.Bool("full_cov", fullCov), zap.Bool("white", opts.White),
		zap.Bool("q_sqrt", opts.QSqrt != nil))

	// Kmm = Lm·Lmᵀ, held as the upper factor U = Lmᵀ.
	u, err := linalg.Chol(kmm)
	if err != nil {
		return nil, nil, err
	}

	// A = Lm⁻¹·Kmn, by forward substitution.
	a := mat.DenseCopyOf(kmn)
	if err := linalg.SolveTri(u, true, a); err != nil {
		return nil, nil, err
	}

	// Covariance due to the conditioning: Knn − AᵀA, or its diagonal.
	var inputs []*mat.SymDense
	var diag *mat.Dense // R×N until the final transpose
	if fullCov {
		var ata mat.Dense
		ata.Mul(a.T(), a)
		base := mat.NewSymDense(n, nil)
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				base.SetSym(i, j, knn.Full.At(i, j)-ata.At(i, j))
			}
		}
		inputs = make([]*mat.SymDense, r)
		for o := 0; o < r; o++ {
			s := mat.NewSymDense(n, nil)
			s.CopySym(base)
			inputs[o] = s
		}
	} else {
		row := make([]float64, n)
		for j := 0; j < n; j++ {
			row[j] = knn.Diag.AtVec(j) - colSumSq(a, j)
		}
		diag = mat.NewDense(r, n, nil)
		for o := 0; o < r; o++ {
			diag.SetRow(o, row)
		}
	}

	// In the unwhitened case, a second back substitution takes the
	// projection out of the decorrelated basis: A ← Lmᵀ⁻¹·A.
	if !opts.White {
		if err := linalg.SolveTri(u, false, a); err != nil {
			return nil, nil, err
		}
	}

	var fmean mat.Dense
	fmean.Mul(a.T(), f) // N×R

	// Propagate the uncertainty over f into the covariance.
	if q := opts.QSqrt; q != nil {
		for o := 0; o < r; o++ {
			var lta *mat.Dense // M×N
			if q.diag != nil {
				lta = mat.NewDense(m, n, nil)
				for i := 0; i < m; i++ {
					s := q.diag.At(i, o)
					for j := 0; j < n; j++ {
						lta.Set(i, j, s*a.At(i, j))
					}
				}
			} else {
				lta = mat.DenseCopyOf(a)
				linalg.MulTri(q.chol[o], true, lta) // Lᵀ·A
			}
			if fullCov {
				var s mat.Dense
				s.Mul(lta.T(), lta)
				for i := 0; i < n; i++ {
					for j := i; j < n; j++ {
						inputs[o].SetSym(i, j, inputs[o].At(i, j)+s.At(i, j))
					}
				}
			} else {
				for j := 0; j < n; j++ {
					diag.Set(o, j, diag.At(o, j)+colSumSq(lta, j))
				}
			}
		}
	}

	if fullCov {
		return &fmean, &Cov{Input: inputs}, nil
	}
	var out mat.Dense
	out.CloneFrom(diag.T()) // N×R, matching the mean's layout
	return &fmean, &Cov{Diag: &out}, nil
}

func colSumSq(a *mat.Dense, j int) float64 {
	m, _ := a.Dims()
	sum := 0.0
	for i := 0; i < m; i++ {
		v := a.At(i, j)
		sum += v * v
	}
	return sum
}
