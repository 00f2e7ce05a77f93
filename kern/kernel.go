// Package kern provides covariance functions over row-major input matrices.
// Each row of an input matrix is one datum in D-dimensional input space.
package kern

import (
	"gonum.org/v1/gonum/mat"
)

type Kernel interface {
	// Number of input dimensions D.
	InputDim() int

	// Covariance matrix between the rows of x, size N×N.
	K(x *mat.Dense) *mat.SymDense

	// Cross-covariance matrix between the rows of x and x2, size N×N2.
	KCross(x, x2 *mat.Dense) *mat.Dense

	// Diagonal of K(x, x), size N.
	KDiag(x *mat.Dense) *mat.VecDense
}
