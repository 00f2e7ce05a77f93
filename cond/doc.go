// Package cond computes posterior means and covariances of a latent GP at
// new input locations, conditioned on function values held at inducing
// entities or at observed points. The numerical core is Base; Conditional
// and SampleConditional dispatch on the runtime types of their arguments to
// the registered implementation, and UncertainConditional extends the
// computation to Gaussian-distributed new inputs.
//
// Every entry point is a pure function of its tensor inputs plus an explicit
// Settings value; the package holds no state beyond the implementation
// registries, so concurrent calls are safe as long as the input matrices are
// not mutated concurrently. All computation is float64.
package cond
