package schemamodel

import (
	"log/slog"

	"github.com/openbindings/schemamodel-go/validator"
)

type options struct {
	validate bool
	internal bool
}

// Option configures a single Get, Set or New call.
type Option func(*options)

// WithInternal addresses the internal namespace. Internal writes are never
// validated and internal values are invisible to ToJSON and public reads.
func WithInternal() Option {
	return func(o *options) { o.internal = true }
}

// WithoutValidation writes public values without validating them first.
func WithoutValidation() Option {
	return func(o *options) { o.validate = false }
}

func resolveOptions(opts []Option) options {
	o := options{
		validate: true,
		internal: false,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// KindOption configures a Kind.
type KindOption func(*Kind)

// WithName names the kind in errors and log records.
func WithName(name string) KindOption {
	return func(k *Kind) { k.name = name }
}

// WithLogger sets the logger for rejected mutations and resolution problems.
// slog.Default() is used otherwise.
func WithLogger(l *slog.Logger) KindOption {
	return func(k *Kind) { k.logger = l }
}

// WithValidator validates against r instead of validator.Default. Remote
// $refs must be registered on r.
func WithValidator(r *validator.Registry) KindOption {
	return func(k *Kind) { k.registry = r }
}
