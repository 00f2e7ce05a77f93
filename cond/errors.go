package cond

import "errors"

var (
	// ErrNoMatch reports that no registered implementation matches the
	// runtime types of the dispatch arguments.
	ErrNoMatch = errors.New("cond: no implementation registered for argument types")

	// ErrAmbiguousMatch reports that several registered implementations
	// match with equal specificity.
	ErrAmbiguousMatch = errors.New("cond: multiple implementations match with equal specificity")

	// ErrShape reports inconsistent dimensions between the tensor
	// arguments of a conditional.
	ErrShape = errors.New("cond: dimension mismatch")

	// ErrUnsupported reports a configuration with no implementation,
	// such as a covariance layout a routine cannot produce.
	ErrUnsupported = errors.New("cond: unsupported configuration")

	// ErrUnsupportedFeature reports an inducing-feature variant that the
	// called routine cannot handle.
	ErrUnsupportedFeature = errors.New("cond: unsupported inducing feature type")
)
