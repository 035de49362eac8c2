package renderer

import (
	"github.com/Carmen-Shannon/oxy-view/engine/light"
	"github.com/Carmen-Shannon/oxy-view/engine/logger"
	"github.com/Carmen-Shannon/oxy-view/engine/postprocess"
)

// RendererBuilderOption is a functional option for configuring a Renderer.
type RendererBuilderOption func(*renderer)

// WithBackend supplies the backend instead of creating one on Configure.
//
// Parameters:
//   - backend: the backend to draw with
//
// Returns:
//   - RendererBuilderOption: a function that applies the backend option
func WithBackend(backend RendererBackend) RendererBuilderOption {
	return func(r *renderer) {
		r.backend = backend
	}
}

// WithSurface sets the surface a backend is created for. If the surface also implements ContentScaler
// its content scale becomes the default pixel ratio.
//
// Parameters:
//   - surface: the platform surface, usually the host window
//
// Returns:
//   - RendererBuilderOption: a function that applies the surface option
func WithSurface(surface Surface) RendererBuilderOption {
	return func(r *renderer) {
		r.surface = surface
	}
}

// WithBackendType selects the graphics API of the backend created on Configure.
//
// Parameters:
//   - backendType: the backend type
//
// Returns:
//   - RendererBuilderOption: a function that applies the backend type option
func WithBackendType(backendType RendererBackendType) RendererBuilderOption {
	return func(r *renderer) {
		r.backendType = backendType
	}
}

// WithPresentMode sets the surface present mode.
//
// Parameters:
//   - mode: the present mode
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.presentMode = mode
	}
}

// WithMSAA sets the geometry pass sample count. Defaults to MSAA4x.
//
// Parameters:
//   - count: the sample count
//
// Returns:
//   - RendererBuilderOption: a function that applies the MSAA option
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(r *renderer) {
		r.msaa = count
	}
}

// WithForceSoftwareRenderer requests the fallback (software) adapter.
//
// Returns:
//   - RendererBuilderOption: a function that applies the fallback adapter option
func WithForceSoftwareRenderer() RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = true
	}
}

// WithPixelRatio overrides the pixel ratio read from the surface.
//
// Parameters:
//   - ratio: physical pixels per logical pixel
//
// Returns:
//   - RendererBuilderOption: a function that applies the pixel ratio option
func WithPixelRatio(ratio float32) RendererBuilderOption {
	return func(r *renderer) {
		r.pixelRatio = ratio
	}
}

// WithComposer replaces the default render → bloom → output chain.
//
// Parameters:
//   - c: the composer
//
// Returns:
//   - RendererBuilderOption: a function that applies the composer option
func WithComposer(c postprocess.Composer) RendererBuilderOption {
	return func(r *renderer) {
		r.composer = c
	}
}

// WithToneMapping sets the output pass operator. Defaults to Reinhard.
//
// Parameters:
//   - tm: the tone mapping operator
//
// Returns:
//   - RendererBuilderOption: a function that applies the tone mapping option
func WithToneMapping(tm postprocess.ToneMapping) RendererBuilderOption {
	return func(r *renderer) {
		r.toneMapping = &tm
	}
}

// WithExposure sets the output pass exposure. Defaults to 1.
//
// Parameters:
//   - exposure: the exposure multiplier
//
// Returns:
//   - RendererBuilderOption: a function that applies the exposure option
func WithExposure(exposure float32) RendererBuilderOption {
	return func(r *renderer) {
		r.exposure = &exposure
	}
}

// WithBloom replaces the composer with the default chain using the given bloom settings.
//
// Parameters:
//   - threshold: luminance threshold
//   - strength: glow mix strength
//   - radius: blur radius in [0, 1]
//
// Returns:
//   - RendererBuilderOption: a function that applies the bloom option
func WithBloom(threshold, strength, radius float32) RendererBuilderOption {
	return func(r *renderer) {
		r.composer = postprocess.NewComposer(postprocess.WithPasses(
			postprocess.NewRenderPass(postprocess.DefaultClearColor),
			postprocess.NewBloomPass(threshold, strength, radius),
			postprocess.NewOutputPass(postprocess.ToneMappingReinhard, 1),
		))
	}
}

// WithLight adds a light. The first WithLight replaces the default hemisphere light.
//
// Parameters:
//   - l: the light to add
//
// Returns:
//   - RendererBuilderOption: a function that applies the light option
func WithLight(l light.Light) RendererBuilderOption {
	return func(r *renderer) {
		if l != nil {
			r.lights = append(r.lights, l)
		}
	}
}

// WithLogger sets the logger.
//
// Parameters:
//   - l: the logger
//
// Returns:
//   - RendererBuilderOption: a function that applies the logger option
func WithLogger(l *logger.Logger) RendererBuilderOption {
	return func(r *renderer) {
		if l != nil {
			r.log = l
		}
	}
}
