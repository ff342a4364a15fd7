// options.go holds the immutable configuration snapshot and its functional options.

package beacon

import "github.com/kelseyhightower/envconfig"

// defaultMaxBreadcrumbs caps a scope's trail unless configured otherwise.
const defaultMaxBreadcrumbs = 100

// Options is the configuration snapshot held by a client. Treated as
// immutable after construction; Client.Options returns a copy.
//
// Every hook is absent by default. Hooks are trusted caller code: the
// pipeline invokes them unguarded, so a panicking hook aborts the enclosing
// call.
type Options struct {
	// DSN is the connection string. Empty yields a valid, permanently
	// disabled client; an unparsable value makes New fail.
	DSN string

	// Enabled gates all sending. Defaults to true.
	Enabled bool

	// Environment names the deployment tier, filled onto events that lack one.
	Environment string

	// Release identifies the application version, filled onto events that lack one.
	Release string

	// MaxBreadcrumbs caps the per-scope trail (default 100). Zero disables
	// breadcrumb recording entirely.
	MaxBreadcrumbs int

	// Debug enables SDK debug logging to stderr.
	Debug bool

	// ShouldAddBreadcrumb, when set, admits or rejects candidate breadcrumbs
	// before any transform or storage happens.
	ShouldAddBreadcrumb func(Breadcrumb) bool

	// BeforeBreadcrumb, when set, transforms an admitted breadcrumb into its
	// final form.
	BeforeBreadcrumb func(Breadcrumb) Breadcrumb

	// AfterBreadcrumb, when set, observes the final breadcrumb after the
	// storage attempt, whether or not the transport accepted it.
	AfterBreadcrumb func(Breadcrumb)

	// ShouldSend, when set, admits or rejects a prepared event before the
	// transform and delivery.
	ShouldSend func(*Event) bool

	// BeforeSend, when set, transforms a prepared event into its final form.
	BeforeSend func(*Event) *Event

	// AfterSend, when set, observes the final event and its derived status
	// after delivery.
	AfterSend func(*Event, SendStatus)
}

// Option configures a client at construction time.
type Option func(*Options)

func defaultOptions() Options {
	return Options{
		Enabled:        true,
		MaxBreadcrumbs: defaultMaxBreadcrumbs,
	}
}

// WithDSN sets the connection string.
func WithDSN(dsn string) Option {
	return func(o *Options) {
		o.DSN = dsn
	}
}

// WithEnabled sets the enabled flag; pass false to disable sending while
// keeping the client constructible.
func WithEnabled(enabled bool) Option {
	return func(o *Options) {
		o.Enabled = enabled
	}
}

// WithEnvironment sets the default environment for outgoing events.
func WithEnvironment(environment string) Option {
	return func(o *Options) {
		o.Environment = environment
	}
}

// WithRelease sets the default release for outgoing events.
func WithRelease(release string) Option {
	return func(o *Options) {
		o.Release = release
	}
}

// WithMaxBreadcrumbs caps the per-scope breadcrumb trail. Zero disables
// recording; negative values are clamped to zero.
func WithMaxBreadcrumbs(n int) Option {
	return func(o *Options) {
		if n < 0 {
			n = 0
		}
		o.MaxBreadcrumbs = n
	}
}

// WithDebug enables SDK debug logging to stderr.
func WithDebug() Option {
	return func(o *Options) {
		o.Debug = true
	}
}

// WithShouldAddBreadcrumb sets the breadcrumb admission predicate.
func WithShouldAddBreadcrumb(fn func(Breadcrumb) bool) Option {
	return func(o *Options) {
		o.ShouldAddBreadcrumb = fn
	}
}

// WithBeforeBreadcrumb sets the breadcrumb transform hook.
func WithBeforeBreadcrumb(fn func(Breadcrumb) Breadcrumb) Option {
	return func(o *Options) {
		o.BeforeBreadcrumb = fn
	}
}

// WithAfterBreadcrumb sets the post-breadcrumb notifier.
func WithAfterBreadcrumb(fn func(Breadcrumb)) Option {
	return func(o *Options) {
		o.AfterBreadcrumb = fn
	}
}

// WithShouldSend sets the send admission predicate.
func WithShouldSend(fn func(*Event) bool) Option {
	return func(o *Options) {
		o.ShouldSend = fn
	}
}

// WithBeforeSend sets the send transform hook.
func WithBeforeSend(fn func(*Event) *Event) Option {
	return func(o *Options) {
		o.BeforeSend = fn
	}
}

// WithAfterSend sets the post-send notifier.
func WithAfterSend(fn func(*Event, SendStatus)) Option {
	return func(o *Options) {
		o.AfterSend = fn
	}
}

// envOptions mirrors the BEACON_* environment variables.
type envOptions struct {
	DSN            string `envconfig:"DSN"`
	Enabled        *bool  `envconfig:"ENABLED"`
	Environment    string `envconfig:"ENVIRONMENT"`
	Release        string `envconfig:"RELEASE"`
	MaxBreadcrumbs *int   `envconfig:"MAX_BREADCRUMBS"`
	Debug          *bool  `envconfig:"DEBUG"`
}

// FromEnv populates options from BEACON_DSN, BEACON_ENABLED,
// BEACON_ENVIRONMENT, BEACON_RELEASE, BEACON_MAX_BREADCRUMBS, and
// BEACON_DEBUG. Unset variables leave the current values untouched, so
// FromEnv composes with explicit options in either order.
func FromEnv() Option {
	return func(o *Options) {
		var env envOptions
		if err := envconfig.Process("beacon", &env); err != nil {
			return
		}
		if env.DSN != "" {
			o.DSN = env.DSN
		}
		if env.Enabled != nil {
			o.Enabled = *env.Enabled
		}
		if env.Environment != "" {
			o.Environment = env.Environment
		}
		if env.Release != "" {
			o.Release = env.Release
		}
		if env.MaxBreadcrumbs != nil {
			n := *env.MaxBreadcrumbs
			if n < 0 {
				n = 0
			}
			o.MaxBreadcrumbs = n
		}
		if env.Debug != nil {
			o.Debug = *env.Debug
		}
	}
}
