package cond

import (
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
)

// DefaultJitter is the value added to the diagonal of Gram matrices before
// factorization when no other value is configured.
const DefaultJitter = 1e-6

// Settings carries the configuration threaded explicitly through every entry
// point. The zero value disables logging, uses the globally seeded random
// source, and a zero jitter; most callers want DefaultSettings.
type Settings struct {
	// Jitter is added to the diagonal of Gram matrices before they are
	// factorized, guaranteeing numerical positive-definiteness.
	Jitter float64

	// Logger receives debug-level traces of branch and shape decisions.
	// Nil disables logging.
	Logger *zap.Logger

	// Src drives the Monte-Carlo sampling routines. Nil falls back to
	// the globally seeded source; set it for reproducible draws.
	Src rand.Source
}

func DefaultSettings() Settings {
	return Settings{Jitter: DefaultJitter}
}

func (s Settings) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// Options control how a conditional is computed and what it returns.
type Options struct {
	// FullCov requests the full covariance over the new input points
	// instead of the marginal variances.
	FullCov bool

	// FullCovOutput requests the full covariance over output dimensions
	// instead of the per-output variances.
	FullCovOutput bool

	// QSqrt is the optional uncertainty over the conditioned function
	// values.
	QSqrt *QSqrt

	// White marks the function values (and QSqrt) as living in the
	// whitened basis f = L·v with v ~ N(0, I), where Kmm = L·Lᵀ.
	White bool
}
