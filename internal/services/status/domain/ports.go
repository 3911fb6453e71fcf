package domain

import "context"

// Provider reports the health of one backend
// implementations contain their own failures and never panic out
type Provider interface {
	Status(ctx context.Context) Result
}

// ProviderFunc adapts a function to Provider
type ProviderFunc func(ctx context.Context) Result

// Status satisfies Provider
func (f ProviderFunc) Status(ctx context.Context) Result { return f(ctx) }

// EnginePort is the external port of the status engine
type EnginePort interface {
	// Status resolves one provider, or every provider for "" and "all"
	Status(ctx context.Context, name string) (Results, error)

	// StatusMany resolves the named providers as one group
	StatusMany(ctx context.Context, names []string) (Results, error)

	AddProvider(name string, p Provider) error
	RemoveProvider(name string) error
	Providers() map[string]Provider
	ProviderNames() []string
}
