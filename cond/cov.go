package cond

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Knn carries the prior covariance of the latent function at the new input
// points, either as the full N×N matrix or as its length-N diagonal.
// Exactly one field is set.
type Knn struct {
	Full *mat.SymDense
	Diag *mat.VecDense
}

func FullKnn(k *mat.SymDense) Knn {
	return Knn{Full: k}
}

func DiagKnn(k *mat.VecDense) Knn {
	return Knn{Diag: k}
}

// QSqrt represents the uncertainty over the conditioned function values,
// either as an M×R matrix of per-output standard deviations (a diagonal
// covariance factor, the cheaper path) or as R stacked M×M lower-triangular
// Cholesky factors.
type QSqrt struct {
	diag *mat.Dense
	chol []*mat.TriDense
}

// DiagQSqrt wraps an M×R matrix of per-output standard deviations.
func DiagQSqrt(stddevs *mat.Dense) *QSqrt {
	return &QSqrt{diag: stddevs}
}

// CholQSqrt wraps R lower-triangular M×M Cholesky factors, one per output.
func CholQSqrt(factors []*mat.TriDense) *QSqrt {
	return &QSqrt{chol: factors}
}

func (q *QSqrt) validate(m, r int) error {
	switch {
	case q.diag != nil:
		qm, qr := q.diag.Dims()
		if qm != m || qr != r {
			return fmt.Errorf("%w: q_sqrt stddevs are %d×%d, want %d×%d", ErrShape, qm, qr, m, r)
		}
		return nil
	case q.chol != nil:
		if len(q.chol) != r {
			return fmt.Errorf("%w: %d q_sqrt factors for %d outputs", ErrShape, len(q.chol), r)
		}
		for i, l := range q.chol {
			n, kind := l.Triangle()
			if n != m {
				return fmt.Errorf("%w: q_sqrt factor %d is %d×%d, want %d×%d", ErrShape, i, n, n, m, m)
			}
			if kind != mat.Lower {
				return fmt.Errorf("%w: q_sqrt factor %d is not lower triangular", ErrShape, i)
			}
		}
		return nil
	}
	return fmt.Errorf("%w: q_sqrt carries neither stddevs nor Cholesky factors", ErrShape)
}

// Cov holds a posterior covariance in one of the four layouts the
// conditionals produce. Exactly one field is set:
//
//   - Diag: N×P marginal variances, matching the mean's layout.
//   - Input: P matrices of size N×N, the covariance over input points for
//     each independent output.
//   - Output: N matrices of size P×P, the covariance over outputs at each
//     input point.
//   - Joint: the (N·P)×(N·P) joint covariance with row index n·P + p, so
//     input and output indices interleave.
type Cov struct {
	Diag   *mat.Dense
	Input  []*mat.SymDense
	Output []*mat.SymDense
	Joint  *mat.Dense
}

// ExpandIndependentOutputs reshapes the covariance returned by Base — Diag
// (N×P) when fullCov is unset, Input (P × N×N) when set — into the layout
// selected by the two flags. Between independent outputs the covariance is
// zero, so the expanded layouts embed the existing values on (block)
// diagonals.
func ExpandIndependentOutputs(v *Cov, fullCov, fullCovOutput bool) *Cov {
	switch {
	case fullCov && fullCovOutput:
		p := len(v.Input)
		n := v.Input[0].SymmetricDim()
		joint := mat.NewDense(n*p, n*p, nil)
		for o := 0; o < p; o++ {
			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					joint.Set(i*p+o, j*p+o, v.Input[o].At(i, j))
				}
			}
		}
		return &Cov{Joint: joint}
	case !fullCov && fullCovOutput:
		n, p := v.Diag.Dims()
		out := make([]*mat.SymDense, n)
		for i := 0; i < n; i++ {
			s := mat.NewSymDense(p, nil)
			for o := 0; o < p; o++ {
				s.SetSym(o, o, v.Diag.At(i, o))
			}
			out[i] = s
		}
		return &Cov{Output: out}
	default:
		return v
	}
}
