package scene

import (
	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/drift"
	"github.com/Carmen-Shannon/oxy-view/engine/entity"
	"github.com/Carmen-Shannon/oxy-view/engine/logger"
	"github.com/Carmen-Shannon/oxy-view/engine/node"
	"github.com/Carmen-Shannon/oxy-view/engine/picking"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
)

// SceneBuilderOption is a functional option applied to a Scene during construction via NewScene.
type SceneBuilderOption func(*sceneImpl)

// WithRendererOptions passes options through to the scene's renderer.
//
// Parameters:
//   - options: renderer options, typically a surface or backend plus quality settings
//
// Returns:
//   - SceneBuilderOption: a function that appends the renderer options
func WithRendererOptions(options ...renderer.RendererBuilderOption) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.rendererOptions = append(s.rendererOptions, options...)
	}
}

// WithCameraOptions passes options through to the scene's camera.
//
// Parameters:
//   - options: camera options
//
// Returns:
//   - SceneBuilderOption: a function that appends the camera options
func WithCameraOptions(options ...camera.CameraBuilderOption) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.cameraOptions = append(s.cameraOptions, options...)
	}
}

// WithControlsOptions passes options through to the orbit controls. Damping is on unless disabled here.
//
// Parameters:
//   - options: controller options
//
// Returns:
//   - SceneBuilderOption: a function that appends the controller options
func WithControlsOptions(options ...camera.CameraControllerOption) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.controlsOptions = append(s.controlsOptions, options...)
	}
}

// WithDriftOptions passes options through to the drift controller.
//
// Parameters:
//   - options: drift options
//
// Returns:
//   - SceneBuilderOption: a function that appends the drift options
func WithDriftOptions(options ...drift.ControllerBuilderOption) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.driftOptions = append(s.driftOptions, options...)
	}
}

// WithPickerOptions passes options through to the picker. A sink given here replaces the scene overlay.
//
// Parameters:
//   - options: picker options
//
// Returns:
//   - SceneBuilderOption: a function that appends the picker options
func WithPickerOptions(options ...picking.PickerBuilderOption) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.pickerOptions = append(s.pickerOptions, options...)
	}
}

// WithRegistryOptions passes options through to the entity registry.
//
// Parameters:
//   - options: registry options
//
// Returns:
//   - SceneBuilderOption: a function that appends the registry options
func WithRegistryOptions(options ...entity.RegistryBuilderOption) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.registryOptions = append(s.registryOptions, options...)
	}
}

// WithGraph uses an existing graph. The caller keeps ownership and closes it.
//
// Parameters:
//   - g: the scene graph
//
// Returns:
//   - SceneBuilderOption: a function that sets the graph
func WithGraph(g node.Graph) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.graph = g
	}
}

// WithNodes adds nodes to the graph's root during construction.
//
// Parameters:
//   - nodes: the nodes to add
//
// Returns:
//   - SceneBuilderOption: a function that queues the nodes
func WithNodes(nodes ...node.Node) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.nodes = append(s.nodes, nodes...)
	}
}

// WithErrorHandler sets the callback that receives the render error which stopped the frame loop.
// The default logs it.
//
// Parameters:
//   - fn: the handler
//
// Returns:
//   - SceneBuilderOption: a function that sets the handler
func WithErrorHandler(fn func(error)) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.onError = fn
	}
}

// WithLogger sets the logger of the scene and every component it builds.
func WithLogger(l *logger.Logger) SceneBuilderOption {
	return func(s *sceneImpl) {
		if l != nil {
			s.log = l.Named("scene")
		}
	}
}
