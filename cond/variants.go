package cond

import (
	"fmt"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/lucasmaystre/gocond/feat"
	"github.com/lucasmaystre/gocond/kern"
	"github.com/lucasmaystre/gocond/linalg"
)

// FeatureConditional is the sparse conditional: the function values f (M×R)
// live at the M entities of an inducing feature. The covariance layout of
// the result follows opts.FullCov and opts.FullCovOutput; see Cov.
func FeatureConditional(xnew *mat.Dense, feature feat.InducingFeature, k kern.Kernel, f *mat.Dense, opts Options, set Settings) (*mat.Dense, *Cov, error) {
	set.logger().Debug("conditional: inducing feature",
		zap.Bool("full_cov", opts.FullCov), zap.Bool("full_cov_output", opts.FullCovOutput))
	kmm := feature.Kuu(k, set.Jitter)
	kmn := feature.Kuf(k, xnew)
	var knn Knn
	if opts.FullCov {
		knn = FullKnn(k.K(xnew))
	} else {
		knn = DiagKnn(k.KDiag(xnew))
	}
	fmean, fvar, err := Base(kmn, kmm, knn, f, opts, set)
	if err != nil {
		return nil, nil, err
	}
	return fmean, ExpandIndependentOutputs(fvar, opts.FullCov, opts.FullCovOutput), nil
}

// PointsConditional is the direct (non-sparse) conditional: the function
// values f (M×R) are held at M observed input locations x. Only the
// covariance over inputs can be expanded here; opts.FullCovOutput is not
// supported.
func PointsConditional(xnew, x *mat.Dense, k kern.Kernel, f *mat.Dense, opts Options, set Settings) (*mat.Dense, *Cov, error) {
	if opts.FullCovOutput {
		return nil, nil, fmt.Errorf("%w: full covariance over outputs for a direct conditional", ErrUnsupported)
	}
	set.logger().Debug("conditional: direct points", zap.Bool("full_cov", opts.FullCov))
	kmm := linalg.AddJitter(k.K(x), set.Jitter)
	kmn := k.KCross(x, xnew)
	var knn Knn
	if opts.FullCov {
		knn = FullKnn(k.K(xnew))
	} else {
		knn = DiagKnn(k.KDiag(xnew))
	}
	return Base(kmn, kmm, knn, f, opts, set)
}
