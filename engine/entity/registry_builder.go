package entity

import (
	"github.com/Carmen-Shannon/oxy-view/engine/logger"
)

// RegistryBuilderOption is a functional option applied to a registry during construction via NewRegistry.
type RegistryBuilderOption func(*registryImpl)

// WithDestroyWorkers caps how many entities Close destroys at once.
//
// Parameters:
//   - n: the worker count, values below 1 are ignored
//
// Returns:
//   - RegistryBuilderOption: a function that sets the worker count
func WithDestroyWorkers(n int) RegistryBuilderOption {
	return func(r *registryImpl) {
		if n > 0 {
			r.destroyWorkers = n
		}
	}
}

// WithErrorHandler registers a callback for render failures, called after the failure is logged.
// It runs on the failing render's goroutine.
//
// Parameters:
//   - fn: the handler
//
// Returns:
//   - RegistryBuilderOption: a function that sets the handler
func WithErrorHandler(fn ErrorHandler) RegistryBuilderOption {
	return func(r *registryImpl) {
		r.onError = fn
	}
}

// WithLogger sets the logger used for lifecycle failures.
func WithLogger(l *logger.Logger) RegistryBuilderOption {
	return func(r *registryImpl) {
		if l != nil {
			r.log = l.Named("entity")
		}
	}
}
