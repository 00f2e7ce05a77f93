// Package expect provides moment expectations of kernel and mean-function
// terms under a Gaussian distribution over inputs ("psi statistics"). The
// uncertain-input conditional consumes these through the Oracle interface;
// two implementations are provided, a closed-form one for the RBF kernel and
// a Gauss–Hermite quadrature fallback for everything else.
package expect

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/lucasmaystre/gocond/feat"
	"github.com/lucasmaystre/gocond/kern"
	"github.com/lucasmaystre/gocond/mean"
)

var (
	ErrUnsupported = errors.New("expect: no closed form for this term")
	ErrShape       = errors.New("expect: dimension mismatch")
)

// Gaussian is an independent Gaussian distribution over N uncertain input
// locations: row n of Mu is the mean of point n, Cov[n] its D×D covariance.
type Gaussian struct {
	Mu  *mat.Dense
	Cov []*mat.SymDense
}

func NewGaussian(mu *mat.Dense, cov []*mat.SymDense) (*Gaussian, error) {
	n, d := mu.Dims()
	if len(cov) != n {
		return nil, fmt.Errorf("%w: %d mean rows, %d covariance blocks", ErrShape, n, len(cov))
	}
	for i, c := range cov {
		if c.SymmetricDim() != d {
			return nil, fmt.Errorf("%w: covariance block %d is %d×%d, want %d×%d",
				ErrShape, i, c.SymmetricDim(), c.SymmetricDim(), d, d)
		}
	}
	return &Gaussian{Mu: mu, Cov: cov}, nil
}

// Len returns the number of uncertain points N.
func (p *Gaussian) Len() int {
	n, _ := p.Mu.Dims()
	return n
}

// Dim returns the input dimension D.
func (p *Gaussian) Dim() int {
	_, d := p.Mu.Dims()
	return d
}

// Oracle computes moment expectations under a Gaussian input distribution.
// Implementations may support only particular kernel and mean-function
// types, reporting ErrUnsupported otherwise.
type Oracle interface {
	// EKdiag returns the length-N vector E[k(xₙ, xₙ)] (psi0).
	EKdiag(p *Gaussian, k kern.Kernel) (*mat.VecDense, error)

	// EKuf returns the N×M matrix E[k(xₙ, z_m)] (psi1).
	EKuf(p *Gaussian, k kern.Kernel, f *feat.InducingPoints) (*mat.Dense, error)

	// EKuffu returns, per point n, the M×M matrix E[k(z, xₙ)·k(xₙ, z')]
	// (psi2).
	EKuffu(p *Gaussian, k kern.Kernel, f *feat.InducingPoints) ([]*mat.Dense, error)

	// EMean returns the N×Q matrix E[m(xₙ)].
	EMean(p *Gaussian, m mean.Function) (*mat.Dense, error)

	// EMeanMean returns, per point n, the Q1×Q2 matrix E[m1(xₙ)·m2(xₙ)ᵀ].
	EMeanMean(p *Gaussian, m1, m2 mean.Function) ([]*mat.Dense, error)

	// EMeanKuf returns, per point n, the Q×M matrix E[m(xₙ)·k(xₙ, Z)].
	EMeanKuf(p *Gaussian, m mean.Function, k kern.Kernel, f *feat.InducingPoints) ([]*mat.Dense, error)
}
