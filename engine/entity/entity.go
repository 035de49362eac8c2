package entity

import (
	"context"

	"github.com/Carmen-Shannon/oxy-view/engine/node"
)

// Entity is anything attached to a Registry. It takes part in the lifecycle through whichever of
// Applier, Renderer and Destroyer it implements; an entity implementing none of them is simply held.
// Entities are compared by identity, so they must be of a comparable type (usually a pointer).
type Entity any

// Applier is implemented by entities that add themselves to the scene when attached.
type Applier interface {
	// Apply is called once by Attach, which waits for it to return.
	//
	// Parameters:
	//   - ctx: the attaching caller's context
	//   - g: the scene graph
	//
	// Returns:
	//   - error: an error if the entity could not apply itself
	Apply(ctx context.Context, g node.Graph) error
}

// Renderer is implemented by entities that update the scene every frame.
type Renderer interface {
	// Render is called once per frame on its own goroutine. The frame does not wait for it, so
	// changes it makes to the graph may land in a later frame.
	//
	// Parameters:
	//   - ctx: the registry's render context
	//   - g: the scene graph
	//
	// Returns:
	//   - error: an error is logged and otherwise ignored
	Render(ctx context.Context, g node.Graph) error
}

// Destroyer is implemented by entities that clean up after themselves when detached.
type Destroyer interface {
	// Destroy is called by Detach and Close.
	//
	// Parameters:
	//   - ctx: the detaching caller's context
	//   - g: the scene graph
	//
	// Returns:
	//   - error: an error if cleanup failed
	Destroy(ctx context.Context, g node.Graph) error
}

// ErrorHandler receives render failures. index is the entity's position in the registry when the frame was fanned out.
type ErrorHandler func(index int, e Entity, err error)
