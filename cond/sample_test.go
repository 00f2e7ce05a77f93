package cond

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

func TestSampleMVNZeroVarianceReproducesMean(t *testing.T) {
	mean := mat.NewDense(2, 3, []float64{
		0.5, -1.0, 2.0,
		0.0, 0.3, -0.7,
	})
	cov := &Cov{Diag: mat.NewDense(2, 3, nil)}
	set := Settings{Src: rand.NewSource(1)}

	out, err := SampleMVN(mean, cov, CovDiag, set)
	require.NoError(t, err)
	assert.True(t, mat.Equal(mean, out))
}

func TestSampleMVNClampsNegativeRoundoff(t *testing.T) {
	mean := mat.NewDense(1, 1, []float64{1.5})
	cov := &Cov{Diag: mat.NewDense(1, 1, []float64{-1e-14})}
	set := Settings{Src: rand.NewSource(1)}

	out, err := SampleMVN(mean, cov, CovDiag, set)
	require.NoError(t, err)
	assert.Equal(t, 1.5, out.At(0, 0))
}

func TestSampleMVNErrors(t *testing.T) {
	mean := mat.NewDense(1, 2, []float64{0, 0})
	set := Settings{Src: rand.NewSource(1)}

	_, err := SampleMVN(mean, &Cov{}, CovDiag, set)
	assert.ErrorIs(t, err, ErrShape)

	_, err = SampleMVN(mean, &Cov{Diag: mat.NewDense(2, 2, nil)}, CovDiag, set)
	assert.ErrorIs(t, err, ErrShape)

	_, err = SampleMVN(mean, &Cov{}, CovFull, set)
	assert.ErrorIs(t, err, ErrShape)

	_, err = SampleMVN(mean, &Cov{Diag: mat.NewDense(1, 2, nil)}, CovStructure("banded"), set)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestSampleMVNDiagMoments(t *testing.T) {
	mean := mat.NewDense(1, 2, []float64{0.5, -1.0})
	cov := &Cov{Diag: mat.NewDense(1, 2, []float64{2.0, 0.5})}
	set := Settings{Src: rand.NewSource(42)}

	const draws = 40000
	sum := [2]float64{}
	sumSq := [2]float64{}
	for i := 0; i < draws; i++ {
		out, err := SampleMVN(mean, cov, CovDiag, set)
		require.NoError(t, err)
		for j := 0; j < 2; j++ {
			v := out.At(0, j)
			sum[j] += v
			sumSq[j] += v * v
		}
	}
	for j := 0; j < 2; j++ {
		m := sum[j] / draws
		v := sumSq[j]/draws - m*m
		assert.InDelta(t, mean.At(0, j), m, 0.05)
		assert.InDelta(t, cov.Diag.At(0, j), v, 0.1)
	}
}

func TestSampleMVNFullMoments(t *testing.T) {
	mean := mat.NewDense(1, 2, []float64{0.2, -0.4})
	sigma := mat.NewSymDense(2, []float64{1.0, 0.6, 0.6, 1.5})
	cov := &Cov{Output: []*mat.SymDense{sigma}}
	set := Settings{Jitter: 1e-12, Src: rand.NewSource(7)}

	const draws = 40000
	var sum [2]float64
	var cross [2][2]float64
	for i := 0; i < draws; i++ {
		out, err := SampleMVN(mean, cov, CovFull, set)
		require.NoError(t, err)
		x := [2]float64{out.At(0, 0), out.At(0, 1)}
		for a := 0; a < 2; a++ {
			sum[a] += x[a]
			for b := 0; b < 2; b++ {
				cross[a][b] += x[a] * x[b]
			}
		}
	}
	var m [2]float64
	for a := 0; a < 2; a++ {
		m[a] = sum[a] / draws
		assert.InDelta(t, mean.At(0, a), m[a], 0.05)
	}
	for a := 0; a < 2; a++ {
		for b := 0; b < 2; b++ {
			c := cross[a][b]/draws - m[a]*m[b]
			assert.InDelta(t, sigma.At(a, b), c, 0.1)
		}
	}
}
