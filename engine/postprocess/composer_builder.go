package postprocess

// ComposerBuilderOption is a functional option applied to a composer during construction via NewComposer.
type ComposerBuilderOption func(*composerImpl)

// WithPasses replaces the default chain.
//
// Parameters:
//   - passes: the chain in execution order
//
// Returns:
//   - ComposerBuilderOption: a function that sets the chain
func WithPasses(passes ...Pass) ComposerBuilderOption {
	return func(c *composerImpl) {
		c.passes = append([]Pass{}, passes...)
	}
}

// WithSize sets the initial logical size.
//
// Parameters:
//   - width, height: logical size, clamped to at least 1
//
// Returns:
//   - ComposerBuilderOption: a function that sets the size
func WithSize(width, height int) ComposerBuilderOption {
	return func(c *composerImpl) {
		c.width = max(width, 1)
		c.height = max(height, 1)
	}
}

// WithPixelRatio sets the initial physical-to-logical pixel ratio.
//
// Parameters:
//   - ratio: the ratio, non-positive values are ignored
//
// Returns:
//   - ComposerBuilderOption: a function that sets the pixel ratio
func WithPixelRatio(ratio float32) ComposerBuilderOption {
	return func(c *composerImpl) {
		if ratio > 0 {
			c.pixelRatio = ratio
		}
	}
}
