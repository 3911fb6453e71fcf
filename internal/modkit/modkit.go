package modkit

// Module is the common surface for engine modules that expose ports
// keep this tiny so modules stay decoupled
type Module interface {
	// Ports returns a module specific port set for cross wiring
	Ports() any

	// Name returns the module name
	Name() string
}

// Builder constructs a Module from shared deps and options
// modules expose New(deps Deps, overrides Options, opts ...Option) and may adapt to this shape
type Builder func(Deps, ...Option) (Module, error)
