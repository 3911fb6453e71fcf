package domain

import "context"

// Provider reports a Unix timestamp in seconds, NoSignal when it has none
// implementations contain their own failures
type Provider interface {
	LastModified(ctx context.Context) int64
}

// ProviderFunc adapts a function to Provider
type ProviderFunc func(ctx context.Context) int64

// LastModified satisfies Provider
func (f ProviderFunc) LastModified(ctx context.Context) int64 { return f(ctx) }

// EnginePort is the external port of the last modified engine
// every returned timestamp lies in [0, now]
type EnginePort interface {
	// LastModified resolves one provider, or the latest of all for "" and "all"
	LastModified(ctx context.Context, name string) (int64, error)

	// LastModifiedMany resolves the latest timestamp of the named providers
	LastModifiedMany(ctx context.Context, names []string) (int64, error)

	// TimestampFormat is the configured Go layout
	TimestampFormat() string

	// Format renders ts with TimestampFormat in UTC
	Format(ts int64) string

	AddProvider(name string, p Provider) error
	RemoveProvider(name string) error
	Providers() map[string]Provider
	ProviderNames() []string
}
