package entity

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-view/engine/logger"
	"github.com/Carmen-Shannon/oxy-view/engine/node"
)

var (
	// ErrNilEntity is returned when a nil entity is attached or detached.
	ErrNilEntity = errors.New("entity: nil entity")
	// ErrNotAttached is returned by Detach for an entity the registry does not hold.
	ErrNotAttached = errors.New("entity: not attached")
	// ErrNotComparable is returned by Attach for entities that cannot be compared by identity.
	ErrNotComparable = errors.New("entity: entity type is not comparable")
)

type registryImpl struct {
	mu *sync.Mutex

	graph    node.Graph
	entities []Entity

	renders sync.WaitGroup

	destroyWorkers int
	onError        ErrorHandler
	log            *logger.Logger
}

// Registry holds the attached entities in insertion order and drives their lifecycle.
type Registry interface {
	// Attach appends e and then runs its Apply, waiting for it to finish. The entity stays attached
	// even when Apply fails; the failure is logged and returned.
	//
	// Parameters:
	//   - ctx: passed to Apply
	//   - e: the entity to attach
	//
	// Returns:
	//   - error: ErrNilEntity, ErrNotComparable, or the wrapped Apply failure
	Attach(ctx context.Context, e Entity) error

	// Detach removes e and then runs its Destroy.
	//
	// Parameters:
	//   - ctx: passed to Destroy
	//   - e: the entity to detach
	//
	// Returns:
	//   - error: ErrNilEntity, ErrNotAttached, or the wrapped Destroy failure
	Detach(ctx context.Context, e Entity) error

	// RenderAll starts Render for every attached Renderer, each on its own goroutine in registry order,
	// and returns without waiting for any of them. Errors and panics are logged and suppressed.
	//
	// Parameters:
	//   - ctx: passed to every Render
	RenderAll(ctx context.Context)

	// Wait blocks until every Render started so far has returned.
	Wait()

	// Close detaches every entity and destroys them concurrently, returning the joined Destroy errors.
	// In-flight renders are not cancelled.
	//
	// Parameters:
	//   - ctx: passed to every Destroy
	//
	// Returns:
	//   - error: every Destroy failure joined, or nil
	Close(ctx context.Context) error

	// Len returns the number of attached entities.
	//
	// Returns:
	//   - int: the entity count
	Len() int

	// Entities returns a copy of the attached entities in registry order.
	//
	// Returns:
	//   - []Entity: the entities
	Entities() []Entity
}

var _ Registry = &registryImpl{}

// NewRegistry creates an empty registry whose entities act on g.
//
// Parameters:
//   - g: the scene graph handed to every capability
//   - options: functional options to configure the registry
//
// Returns:
//   - Registry: the newly created registry
func NewRegistry(g node.Graph, options ...RegistryBuilderOption) Registry {
	r := &registryImpl{
		mu:             &sync.Mutex{},
		graph:          g,
		destroyWorkers: 4,
		log:            logger.L().Named("entity"),
	}
	for _, option := range options {
		option(r)
	}
	return r
}

func (r *registryImpl) Attach(ctx context.Context, e Entity) error {
	if e == nil {
		return ErrNilEntity
	}
	if !reflect.TypeOf(e).Comparable() {
		return ErrNotComparable
	}

	r.mu.Lock()
	r.entities = append(r.entities, e)
	index := len(r.entities) - 1
	r.mu.Unlock()

	a, ok := e.(Applier)
	if !ok {
		return nil
	}
	if err := safeCall(func() error { return a.Apply(ctx, r.graph) }); err != nil {
		r.log.Errorw("entity apply failed", "index", index, "entity", describe(e), "error", err)
		return fmt.Errorf("failed to apply entity %d: %w", index, err)
	}
	return nil
}

func (r *registryImpl) Detach(ctx context.Context, e Entity) error {
	if e == nil {
		return ErrNilEntity
	}

	r.mu.Lock()
	index := r.indexOf(e)
	if index < 0 {
		r.mu.Unlock()
		return ErrNotAttached
	}
	r.entities = append(r.entities[:index], r.entities[index+1:]...)
	r.mu.Unlock()

	d, ok := e.(Destroyer)
	if !ok {
		return nil
	}
	if err := safeCall(func() error { return d.Destroy(ctx, r.graph) }); err != nil {
		r.log.Errorw("entity destroy failed", "entity", describe(e), "error", err)
		return fmt.Errorf("failed to destroy entity: %w", err)
	}
	return nil
}

func (r *registryImpl) RenderAll(ctx context.Context) {
	r.mu.Lock()
	entities := make([]Entity, len(r.entities))
	copy(entities, r.entities)
	r.mu.Unlock()

	for i, e := range entities {
		rr, ok := e.(Renderer)
		if !ok {
			continue
		}
		r.renders.Add(1)
		go func(index int, e Entity, rr Renderer) {
			defer r.renders.Done()
			if err := safeCall(func() error { return rr.Render(ctx, r.graph) }); err != nil {
				r.log.Warnw("entity render failed", "index", index, "entity", describe(e), "error", err)
				if r.onError != nil {
					r.onError(index, e, err)
				}
			}
		}(i, e, rr)
	}
}

func (r *registryImpl) Wait() {
	r.renders.Wait()
}

func (r *registryImpl) Close(ctx context.Context) error {
	r.mu.Lock()
	entities := r.entities
	r.entities = nil
	r.mu.Unlock()

	var destroyers []Destroyer
	for _, e := range entities {
		if d, ok := e.(Destroyer); ok {
			destroyers = append(destroyers, d)
		}
	}
	if len(destroyers) == 0 {
		return nil
	}

	pool := worker.NewDynamicWorkerPool(min(r.destroyWorkers, len(destroyers)), len(destroyers), 1*time.Second)
	defer pool.Stop()

	errs := make([]error, len(destroyers))
	var wg sync.WaitGroup
	for i, d := range destroyers {
		wg.Add(1)
		idx, d := i, d
		pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				if err := safeCall(func() error { return d.Destroy(ctx, r.graph) }); err != nil {
					errs[idx] = fmt.Errorf("failed to destroy entity %s: %w", describe(d), err)
				}
				return nil, nil
			},
		})
	}
	wg.Wait()

	err := errors.Join(errs...)
	if err != nil {
		r.log.Errorw("entity teardown failed", "error", err)
	}
	return err
}

func (r *registryImpl) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entities)
}

func (r *registryImpl) Entities() []Entity {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entity, len(r.entities))
	copy(out, r.entities)
	return out
}

// indexOf returns the position of e or -1. Caller must hold the mutex.
func (r *registryImpl) indexOf(e Entity) int {
	if !reflect.TypeOf(e).Comparable() {
		return -1
	}
	for i, x := range r.entities {
		if x == e {
			return i
		}
	}
	return -1
}

// safeCall runs fn, converting a panic into an error.
func safeCall(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return fn()
}

func describe(e any) string {
	if s, ok := e.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", e)
}
