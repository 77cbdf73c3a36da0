package httpapi

import "context"

// ReadyChecker is implemented by dependencies that can report readiness.
type ReadyChecker interface {
	Ready(ctx context.Context) error
}

// ReadyFunc adapts a plain function to ReadyChecker.
type ReadyFunc func(ctx context.Context) error

// Ready calls f.
func (f ReadyFunc) Ready(ctx context.Context) error { return f(ctx) }
