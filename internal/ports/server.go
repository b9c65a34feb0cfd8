package ports

// Server defines the interface for long-running front-ends
type Server interface {
	// Start starts serving in the background
	Start() error

	// Stop stops serving
	Stop() error
}
