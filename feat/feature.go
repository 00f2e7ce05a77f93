// Package feat provides inducing features: compact sets of M landmark
// entities that summarize a GP posterior. A feature exposes the covariance
// blocks Kuu and Kuf that the sparse conditionals are built from.
package feat

import (
	"gonum.org/v1/gonum/mat"

	"github.com/lucasmaystre/gocond/kern"
	"github.com/lucasmaystre/gocond/linalg"
)

type InducingFeature interface {
	// Number of inducing entities M.
	Len() int

	// Covariance block between the inducing entities, size M×M, with
	// jitter added to the diagonal so that the result is factorizable.
	Kuu(k kern.Kernel, jitter float64) *mat.SymDense

	// Cross-covariance block between the inducing entities and the rows
	// of x, size M×N.
	Kuf(k kern.Kernel, x *mat.Dense) *mat.Dense
}

var (
	points *InducingPoints
	_      InducingFeature = points // Check that InducingPoints respects the interface.
)

// InducingPoints is a concrete set of M landmark locations in input space.
type InducingPoints struct {
	z *mat.Dense // M×D
}

func NewInducingPoints(z *mat.Dense) *InducingPoints {
	return &InducingPoints{z: z}
}

// Z returns the M×D matrix of landmark locations. The matrix is shared;
// callers must not modify it.
func (f *InducingPoints) Z() *mat.Dense {
	return f.z
}

func (f *InducingPoints) Len() int {
	m, _ := f.z.Dims()
	return m
}

func (f *InducingPoints) Kuu(k kern.Kernel, jitter float64) *mat.SymDense {
	return linalg.AddJitter(k.K(f.z), jitter)
}

func (f *InducingPoints) Kuf(k kern.Kernel, x *mat.Dense) *mat.Dense {
	return k.KCross(f.z, x)
}
