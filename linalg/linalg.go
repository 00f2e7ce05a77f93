// Package linalg wraps the dense factorizations and triangular solves that
// the conditional computations are built on. Gram matrices are factored as
// Kmm = Uᵀ·U with U upper triangular, so the lower factor L of the usual
// notation is U transposed; forward substitution against L is a transposed
// solve against U. All solves are triangular, O(m²·n); no routine here forms
// an explicit inverse.
package linalg

import (
	"errors"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/lapack/lapack64"
	"gonum.org/v1/gonum/mat"
)

var ErrNotPositiveDefinite = errors.New("linalg: matrix not positive definite")
var ErrSingular = errors.New("linalg: triangular factor is singular")

// Chol computes the upper Cholesky factor U of a, such that a = Uᵀ·U.
// The caller is responsible for adding jitter beforehand; a factorization
// failure is reported as ErrNotPositiveDefinite and is not retried.
func Chol(a *mat.SymDense) (*mat.TriDense, error) {
	n := a.SymmetricDim()
	s := mat.NewSymDense(n, nil)
	s.CopySym(a)
	if _, ok := lapack64.Potrf(s.RawSymmetric()); !ok {
		return nil, ErrNotPositiveDefinite
	}
	u := mat.NewTriDense(n, mat.Upper, nil)
	raw := s.RawSymmetric()
	rawU := u.RawTriangular()
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			rawU.Data[i*rawU.Stride+j] = raw.Data[i*raw.Stride+j]
		}
	}
	return u, nil
}

// SolveTri solves op(u)·X = b in place, overwriting b with the solution.
// With trans set, op(u) = uᵀ: for an upper factor from Chol this is the
// forward substitution against the lower factor L = uᵀ.
func SolveTri(u *mat.TriDense, trans bool, b *mat.Dense) error {
	t := blas.NoTrans
	if trans {
		t = blas.Trans
	}
	if ok := lapack64.Trtrs(t, u.RawTriangular(), b.RawMatrix()); !ok {
		return ErrSingular
	}
	return nil
}

// MulTri overwrites b with op(t)·b, where t is triangular.
func MulTri(t *mat.TriDense, trans bool, b *mat.Dense) {
	tr := blas.NoTrans
	if trans {
		tr = blas.Trans
	}
	blas64.Trmm(blas.Left, tr, 1.0, t.RawTriangular(), b.RawMatrix())
}

// AddJitter adds jitter to the diagonal of a in place and returns a.
func AddJitter(a *mat.SymDense, jitter float64) *mat.SymDense {
	n := a.SymmetricDim()
	for i := 0; i < n; i++ {
		a.SetSym(i, i, a.At(i, i)+jitter)
	}
	return a
}

// Eye returns the n×n identity matrix.
func Eye(n int) *mat.Dense {
	out := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		out.Set(i, i, 1)
	}
	return out
}

// SymFromDense symmetrizes a square matrix as (a + aᵀ)/2. Products that are
// symmetric up to roundoff, such as AᵀA subtracted from a Gram matrix, go
// through here before factorization.
func SymFromDense(a *mat.Dense) *mat.SymDense {
	n, c := a.Dims()
	if n != c {
		panic("linalg: matrix is not square")
	}
	s := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			s.SetSym(i, j, 0.5*(a.At(i, j)+a.At(j, i)))
		}
	}
	return s
}
