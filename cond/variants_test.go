package cond

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/lucasmaystre/gocond/feat"
	"github.com/lucasmaystre/gocond/kern"
)

func variantFixture(t *testing.T) (xnew *mat.Dense, ip *feat.InducingPoints, k *kern.RBF, f *mat.Dense) {
	t.Helper()
	k = kern.NewRBF(1.4, 0.8, 1.1)
	z := mat.NewDense(3, 2, []float64{
		-1.0, 0.2,
		0.1, -0.4,
		0.9, 0.7,
	})
	xnew = mat.NewDense(4, 2, []float64{
		-0.7, 0.1,
		0.0, 0.0,
		0.5, -0.3,
		1.2, 0.9,
	})
	ip = feat.NewInducingPoints(z)
	f = mat.NewDense(3, 2, []float64{
		0.4, -0.1,
		-0.3, 0.6,
		0.2, 0.2,
	})
	return
}

func TestFeatureConditionalShrinksPriorVariance(t *testing.T) {
	xnew, ip, k, f := variantFixture(t)
	_, fvar, err := FeatureConditional(xnew, ip, k, f, Options{}, DefaultSettings())
	require.NoError(t, err)
	require.NotNil(t, fvar.Diag)
	prior := k.KDiag(xnew)
	for i := 0; i < 4; i++ {
		for o := 0; o < 2; o++ {
			assert.LessOrEqual(t, fvar.Diag.At(i, o), prior.AtVec(i)+1e-10)
			assert.GreaterOrEqual(t, fvar.Diag.At(i, o), -1e-10)
		}
	}
}

func TestFeatureConditionalWhiteKernelKeepsPrior(t *testing.T) {
	// A white kernel has zero covariance between distinct locations, so the
	// inducing values carry no information and the posterior variance is
	// exactly the prior variance.
	xnew, ip, _, f := variantFixture(t)
	k := kern.NewWhite(0.5, 2)
	fmean, fvar, err := FeatureConditional(xnew, ip, k, f, Options{}, DefaultSettings())
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		for o := 0; o < 2; o++ {
			assert.Equal(t, 0.0, fmean.At(i, o))
			assert.InDelta(t, 0.5, fvar.Diag.At(i, o), 1e-12)
		}
	}
}

func TestFeatureConditionalCovLayouts(t *testing.T) {
	xnew, ip, k, f := variantFixture(t)
	set := DefaultSettings()

	_, diag, err := FeatureConditional(xnew, ip, k, f, Options{}, set)
	require.NoError(t, err)
	_, input, err := FeatureConditional(xnew, ip, k, f, Options{FullCov: true}, set)
	require.NoError(t, err)
	_, output, err := FeatureConditional(xnew, ip, k, f, Options{FullCovOutput: true}, set)
	require.NoError(t, err)
	_, joint, err := FeatureConditional(xnew, ip, k, f, Options{FullCov: true, FullCovOutput: true}, set)
	require.NoError(t, err)

	require.NotNil(t, diag.Diag)
	require.Len(t, input.Input, 2)
	require.Len(t, output.Output, 4)
	require.NotNil(t, joint.Joint)
	jr, jc := joint.Joint.Dims()
	assert.Equal(t, 8, jr)
	assert.Equal(t, 8, jc)

	// All four layouts agree on the marginal variances.
	for i := 0; i < 4; i++ {
		for o := 0; o < 2; o++ {
			v := diag.Diag.At(i, o)
			assert.InDelta(t, v, input.Input[o].At(i, i), 1e-10)
			assert.InDelta(t, v, output.Output[i].At(o, o), 1e-10)
			assert.InDelta(t, v, joint.Joint.At(i*2+o, i*2+o), 1e-10)
		}
	}

	// Independent outputs leave zero covariance off the per-output blocks.
	assert.Equal(t, 0.0, output.Output[0].At(0, 1))
	assert.Equal(t, 0.0, joint.Joint.At(0, 1))
	assert.InDelta(t, input.Input[1].At(0, 2), joint.Joint.At(0*2+1, 2*2+1), 1e-12)
}

func TestPointsConditionalMatchesFeatureConditional(t *testing.T) {
	// With the inducing points placed at the data, the sparse and the direct
	// conditional are the same computation.
	xnew, ip, k, f := variantFixture(t)
	set := DefaultSettings()

	mf, vf, err := FeatureConditional(xnew, ip, k, f, Options{}, set)
	require.NoError(t, err)
	mp, vp, err := PointsConditional(xnew, ip.Z(), k, f, Options{}, set)
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		for o := 0; o < 2; o++ {
			assert.InDelta(t, mf.At(i, o), mp.At(i, o), 1e-10)
			assert.InDelta(t, vf.Diag.At(i, o), vp.Diag.At(i, o), 1e-10)
		}
	}
}

func TestPointsConditionalRejectsFullCovOutput(t *testing.T) {
	xnew, ip, k, f := variantFixture(t)
	_, _, err := PointsConditional(xnew, ip.Z(), k, f, Options{FullCovOutput: true}, DefaultSettings())
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestExpandIndependentOutputsPassThrough(t *testing.T) {
	v := &Cov{Diag: mat.NewDense(2, 3, nil)}
	assert.Same(t, v, ExpandIndependentOutputs(v, false, false))
}
