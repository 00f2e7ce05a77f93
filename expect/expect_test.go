package expect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/lucasmaystre/gocond/feat"
	"github.com/lucasmaystre/gocond/kern"
	"github.com/lucasmaystre/gocond/mean"
)

func testSetup(t *testing.T) (*Gaussian, *kern.RBF, *feat.InducingPoints) {
	t.Helper()
	mu := mat.NewDense(2, 2, []float64{
		0.2, -0.1,
		0.5, 0.3,
	})
	cov := []*mat.SymDense{
		mat.NewSymDense(2, []float64{0.2, 0.05, 0.05, 0.15}),
		mat.NewSymDense(2, []float64{0.1, -0.02, -0.02, 0.25}),
	}
	p, err := NewGaussian(mu, cov)
	require.NoError(t, err)
	k := kern.NewRBF(1.3, 1.0, 0.8)
	z := mat.NewDense(3, 2, []float64{
		-0.5, 0.0,
		0.3, 0.4,
		1.0, -0.6,
	})
	return p, k, feat.NewInducingPoints(z)
}

func TestNewGaussianShapeChecks(t *testing.T) {
	mu := mat.NewDense(2, 2, nil)
	_, err := NewGaussian(mu, []*mat.SymDense{mat.NewSymDense(2, nil)})
	assert.ErrorIs(t, err, ErrShape)

	_, err = NewGaussian(mu, []*mat.SymDense{mat.NewSymDense(2, nil), mat.NewSymDense(3, nil)})
	assert.ErrorIs(t, err, ErrShape)
}

func TestAnalyticMatchesQuadrature(t *testing.T) {
	p, k, f := testSetup(t)
	an := NewAnalytic()
	qu := NewQuadrature(30)

	aDiag, err := an.EKdiag(p, k)
	require.NoError(t, err)
	qDiag, err := qu.EKdiag(p, k)
	require.NoError(t, err)
	for i := 0; i < p.Len(); i++ {
		assert.InDelta(t, aDiag.AtVec(i), qDiag.AtVec(i), 1e-8)
	}

	aKuf, err := an.EKuf(p, k, f)
	require.NoError(t, err)
	qKuf, err := qu.EKuf(p, k, f)
	require.NoError(t, err)
	for i := 0; i < p.Len(); i++ {
		for j := 0; j < f.Len(); j++ {
			assert.InDelta(t, aKuf.At(i, j), qKuf.At(i, j), 1e-8)
		}
	}

	aKuffu, err := an.EKuffu(p, k, f)
	require.NoError(t, err)
	qKuffu, err := qu.EKuffu(p, k, f)
	require.NoError(t, err)
	for i := 0; i < p.Len(); i++ {
		for a := 0; a < f.Len(); a++ {
			for b := 0; b < f.Len(); b++ {
				assert.InDelta(t, aKuffu[i].At(a, b), qKuffu[i].At(a, b), 1e-8)
			}
		}
	}
}

func TestAnalyticMeanMomentsMatchQuadrature(t *testing.T) {
	p, k, f := testSetup(t)
	an := NewAnalytic()
	qu := NewQuadrature(30)
	m := mean.NewLinear(mat.NewDense(2, 2, []float64{
		1.0, -0.5,
		0.2, 0.7,
	}), []float64{0.1, -0.3})

	aMean, err := an.EMean(p, m)
	require.NoError(t, err)
	qMean, err := qu.EMean(p, m)
	require.NoError(t, err)
	for i := 0; i < p.Len(); i++ {
		for j := 0; j < 2; j++ {
			assert.InDelta(t, aMean.At(i, j), qMean.At(i, j), 1e-8)
		}
	}

	aMM, err := an.EMeanMean(p, m, m)
	require.NoError(t, err)
	qMM, err := qu.EMeanMean(p, m, m)
	require.NoError(t, err)
	for i := 0; i < p.Len(); i++ {
		for a := 0; a < 2; a++ {
			for b := 0; b < 2; b++ {
				assert.InDelta(t, aMM[i].At(a, b), qMM[i].At(a, b), 1e-8)
			}
		}
	}

	aMK, err := an.EMeanKuf(p, m, k, f)
	require.NoError(t, err)
	qMK, err := qu.EMeanKuf(p, m, k, f)
	require.NoError(t, err)
	for i := 0; i < p.Len(); i++ {
		for a := 0; a < 2; a++ {
			for b := 0; b < f.Len(); b++ {
				assert.InDelta(t, aMK[i].At(a, b), qMK[i].At(a, b), 1e-8)
			}
		}
	}
}

func TestAnalyticDegeneratesToPlainKernel(t *testing.T) {
	// With zero input covariance the psi statistics collapse to plain
	// kernel evaluations at the means.
	mu := mat.NewDense(2, 1, []float64{0.0, 1.0})
	cov := []*mat.SymDense{mat.NewSymDense(1, nil), mat.NewSymDense(1, nil)}
	p, err := NewGaussian(mu, cov)
	require.NoError(t, err)
	k := kern.NewRBF(0.7, 1.2)
	z := mat.NewDense(2, 1, []float64{-1.0, 0.5})
	f := feat.NewInducingPoints(z)
	an := NewAnalytic()

	psi1, err := an.EKuf(p, k, f)
	require.NoError(t, err)
	plain := k.KCross(mu, z)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			assert.InDelta(t, plain.At(i, j), psi1.At(i, j), 1e-12)
		}
	}

	psi2, err := an.EKuffu(p, k, f)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		for a := 0; a < 2; a++ {
			for b := 0; b < 2; b++ {
				assert.InDelta(t, plain.At(i, a)*plain.At(i, b), psi2[i].At(a, b), 1e-12)
			}
		}
	}
}

func TestAnalyticUnsupported(t *testing.T) {
	p, _, f := testSetup(t)
	an := NewAnalytic()

	_, err := an.EKdiag(p, kern.NewLinear(1.0, 2))
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = an.EMeanKuf(p, mean.NewSwitched(mean.NewConstant(1.0)), kern.NewRBF(1.0, 1.0, 1.0), f)
	assert.ErrorIs(t, err, ErrUnsupported)
}
