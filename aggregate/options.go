// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package aggregate

// Option configures an Aggregator.
//
// Example:
//
//	agg := aggregate.New(manager,
//	    aggregate.WithDamageOptimization(true),
//	    aggregate.WithOutputSecure(true),
//	)
type Option func(*options)

type options struct {
	damageOptimization bool
	outputSecure       bool
	softwareOnly       bool
}

func defaultOptions() options {
	return options{}
}

// WithDamageOptimization drops quads that lie entirely outside the root
// damage, along with passes no longer referenced as a result. Culling is
// suspended for any run that carries a copy request.
func WithDamageOptimization(on bool) Option {
	return func(o *options) {
		o.damageOptimization = on
	}
}

// WithOutputSecure declares whether the output may show textures flagged
// SecureOutputOnly. The default is an insecure output, where such textures
// are replaced by opaque black.
func WithOutputSecure(secure bool) Option {
	return func(o *options) {
		o.outputSecure = secure
	}
}

// WithSoftwareOnly restricts aggregation to CPU-backed resources. A surface
// whose frame lists any GPU-backed resource is skipped with everything it
// embeds.
func WithSoftwareOnly(on bool) Option {
	return func(o *options) {
		o.softwareOnly = on
	}
}
