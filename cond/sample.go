package cond

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/lucasmaystre/gocond/linalg"
)

// CovStructure names the covariance layout SampleMVN consumes.
type CovStructure string

const (
	CovDiag CovStructure = "diag"
	CovFull CovStructure = "full"
)

// SampleMVN draws one sample from N(mean, cov), where the rows of mean are
// independent P-dimensional Gaussians. With CovDiag, cov.Diag holds the N×P
// marginal variances and a zero variance reproduces the mean exactly. With
// CovFull, cov.Output holds one P×P covariance per row; jitter is added to
// its diagonal before factorization.
func SampleMVN(mean *mat.Dense, cov *Cov, structure CovStructure, set Settings) (*mat.Dense, error) {
	n, p := mean.Dims()
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: set.Src}
	out := mat.NewDense(n, p, nil)
	switch structure {
	case CovDiag:
		if cov.Diag == nil {
			return nil, fmt.Errorf("%w: diagonal sampling needs marginal variances", ErrShape)
		}
		if vn, vp := cov.Diag.Dims(); vn != n || vp != p {
			return nil, fmt.Errorf("%w: variances are %d×%d, mean is %d×%d", ErrShape, vn, vp, n, p)
		}
		for i := 0; i < n; i++ {
			for j := 0; j < p; j++ {
				v := cov.Diag.At(i, j)
				if v < 0 {
					// Conditioning can leave tiny negative marginals
					// from roundoff.
					v = 0
				}
				out.Set(i, j, mean.At(i, j)+math.Sqrt(v)*normal.Rand())
			}
		}
		return out, nil
	case CovFull:
		if cov.Output == nil {
			return nil, fmt.Errorf("%w: full sampling needs per-point output covariances", ErrShape)
		}
		if len(cov.Output) != n {
			return nil, fmt.Errorf("%w: %d covariance blocks, mean has %d rows", ErrShape, len(cov.Output), n)
		}
		eps := make([]float64, p)
		for i := 0; i < n; i++ {
			c := mat.NewSymDense(p, nil)
			c.CopySym(cov.Output[i])
			linalg.AddJitter(c, set.Jitter)
			u, err := linalg.Chol(c)
			if err != nil {
				return nil, err
			}
			for j := range eps {
				eps[j] = normal.Rand()
			}
			// sample row = mean row + L·eps with L = uᵀ.
			for j := 0; j < p; j++ {
				val := mean.At(i, j)
				for q := 0; q <= j; q++ {
					val += u.At(q, j) * eps[q]
				}
				out.Set(i, j, val)
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: covariance structure %q", ErrUnsupported, structure)
}
