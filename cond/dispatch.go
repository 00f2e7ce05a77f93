package cond

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/lucasmaystre/gocond/feat"
	"github.com/lucasmaystre/gocond/kern"
)

// Func is the signature shared by all conditional implementations. obj is
// the features-or-points argument whose runtime type drove the dispatch.
type Func func(xnew *mat.Dense, obj any, k kern.Kernel, f *mat.Dense, opts Options, set Settings) (*mat.Dense, *Cov, error)

// SampleFunc is the signature of sample-conditional implementations; the
// result is one N×P draw from the posterior.
type SampleFunc func(xnew *mat.Dense, obj any, k kern.Kernel, f *mat.Dense, opts Options, set Settings) (*mat.Dense, error)

// Matchers selects implementations by the runtime types of the dispatch
// arguments. A nil predicate is a wildcard. An entry's specificity is the
// number of non-wildcard predicates; among matching entries the most
// specific one wins, so an implementation registered for a concrete kernel
// type is preferred over one registered for any kernel.
type Matchers struct {
	// Object matches the features-or-points argument.
	Object func(obj any) bool
	// Kernel matches the kernel argument.
	Kernel func(k kern.Kernel) bool
}

func (m Matchers) matches(obj any, k kern.Kernel) bool {
	if m.Object != nil && !m.Object(obj) {
		return false
	}
	if m.Kernel != nil && !m.Kernel(k) {
		return false
	}
	return true
}

func (m Matchers) specificity() int {
	s := 0
	if m.Object != nil {
		s++
	}
	if m.Kernel != nil {
		s++
	}
	return s
}

// Registry is a priority-ordered list of dispatchable implementations.
// Register is meant for setup time; it is not safe to call concurrently
// with Resolve.
type Registry[F any] struct {
	entries []regEntry[F]
}

type regEntry[F any] struct {
	match Matchers
	fn    F
}

func NewRegistry[F any]() *Registry[F] {
	return &Registry[F]{}
}

func (r *Registry[F]) Register(m Matchers, fn F) {
	r.entries = append(r.entries, regEntry[F]{match: m, fn: fn})
}

// Resolve returns the most specific implementation matching the argument
// types. It fails with ErrNoMatch when nothing matches and with
// ErrAmbiguousMatch when several distinct entries tie at the highest
// specificity.
func (r *Registry[F]) Resolve(obj any, k kern.Kernel) (F, error) {
	var fn F
	best := -1
	ties := 0
	for _, e := range r.entries {
		if !e.match.matches(obj, k) {
			continue
		}
		switch s := e.match.specificity(); {
		case s > best:
			best, fn, ties = s, e.fn, 1
		case s == best:
			ties++
		}
	}
	if best < 0 {
		var zero F
		return zero, fmt.Errorf("%w: object %T, kernel %T", ErrNoMatch, obj, k)
	}
	if ties > 1 {
		var zero F
		return zero, fmt.Errorf("%w: object %T, kernel %T", ErrAmbiguousMatch, obj, k)
	}
	return fn, nil
}

// IsInducingFeature matches any inducing-feature object.
func IsInducingFeature(obj any) bool {
	_, ok := obj.(feat.InducingFeature)
	return ok
}

// IsPoints matches a plain matrix of input locations.
func IsPoints(obj any) bool {
	_, ok := obj.(*mat.Dense)
	return ok
}

// The package-level registries backing Conditional and SampleConditional.
var (
	conditionals = NewRegistry[Func]()
	samplers     = NewRegistry[SampleFunc]()
)

func init() {
	RegisterConditional(Matchers{Object: IsInducingFeature}, dispatchFeature)
	RegisterConditional(Matchers{Object: IsPoints}, dispatchPoints)
	RegisterSample(Matchers{Object: IsInducingFeature}, sampleFeature)
	RegisterSample(Matchers{Object: IsPoints}, samplePoints)
}

// RegisterConditional adds an implementation to the registry behind
// Conditional. A registration with concrete matchers shadows the built-in
// generic ones for the types it matches.
func RegisterConditional(m Matchers, fn Func) {
	conditionals.Register(m, fn)
}

// RegisterSample adds an implementation to the registry behind
// SampleConditional.
func RegisterSample(m Matchers, fn SampleFunc) {
	samplers.Register(m, fn)
}

func dispatchFeature(xnew *mat.Dense, obj any, k kern.Kernel, f *mat.Dense, opts Options, set Settings) (*mat.Dense, *Cov, error) {
	return FeatureConditional(xnew, obj.(feat.InducingFeature), k, f, opts, set)
}

func dispatchPoints(xnew *mat.Dense, obj any, k kern.Kernel, f *mat.Dense, opts Options, set Settings) (*mat.Dense, *Cov, error) {
	return PointsConditional(xnew, obj.(*mat.Dense), k, f, opts, set)
}

// Conditional routes to the most specific registered implementation for the
// runtime types of obj and k. See FeatureConditional and PointsConditional
// for the built-in implementations.
func Conditional(xnew *mat.Dense, obj any, k kern.Kernel, f *mat.Dense, opts Options, set Settings) (*mat.Dense, *Cov, error) {
	fn, err := conditionals.Resolve(obj, k)
	if err != nil {
		return nil, nil, err
	}
	return fn(xnew, obj, k, f, opts, set)
}

// SampleConditional routes to the most specific registered sampling
// implementation. When none is registered for a type combination it falls
// back to drawing one Monte-Carlo sample from whatever Conditional produces.
func SampleConditional(xnew *mat.Dense, obj any, k kern.Kernel, f *mat.Dense, opts Options, set Settings) (*mat.Dense, error) {
	fn, err := samplers.Resolve(obj, k)
	if errors.Is(err, ErrNoMatch) {
		return sampleFromConditional(xnew, obj, k, f, opts, set)
	}
	if err != nil {
		return nil, err
	}
	return fn(xnew, obj, k, f, opts, set)
}

// sampleFromConditional is the default sampling algorithm: one draw from the
// distribution Conditional returns, with diagonal or full output structure
// depending on opts.FullCovOutput.
func sampleFromConditional(xnew *mat.Dense, obj any, k kern.Kernel, f *mat.Dense, opts Options, set Settings) (*mat.Dense, error) {
	o := opts
	o.FullCov = false
	fmean, fvar, err := Conditional(xnew, obj, k, f, o, set)
	if err != nil {
		return nil, err
	}
	structure := CovDiag
	if o.FullCovOutput {
		structure = CovFull
	}
	return SampleMVN(fmean, fvar, structure, set)
}

func sampleFeature(xnew *mat.Dense, obj any, k kern.Kernel, f *mat.Dense, opts Options, set Settings) (*mat.Dense, error) {
	set.logger().Debug("sample conditional: inducing feature")
	return sampleFromConditional(xnew, obj, k, f, opts, set)
}

func samplePoints(xnew *mat.Dense, obj any, k kern.Kernel, f *mat.Dense, opts Options, set Settings) (*mat.Dense, error) {
	set.logger().Debug("sample conditional: direct points")
	o := opts
	o.FullCovOutput = false
	return sampleFromConditional(xnew, obj, k, f, o, set)
}
