package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	dev, err := NewLogger(true, true)
	require.NoError(t, err)
	assert.True(t, dev.Desugar().Core().Enabled(zap.DebugLevel))

	prod, err := NewLogger(false, false)
	require.NoError(t, err)
	assert.False(t, prod.Desugar().Core().Enabled(zap.DebugLevel))
	assert.True(t, prod.Desugar().Core().Enabled(zap.InfoLevel))
}

func TestDefaultLogger(t *testing.T) {
	t.Cleanup(func() { SetDefault(nil) })

	core, logs := observer.New(zap.InfoLevel)
	SetDefault(&Logger{zap.New(core).Sugar()})

	L().Named("scene").With("frame", 3).Infow("rendered")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "scene", entry.LoggerName)
	assert.Equal(t, "rendered", entry.Message)
	assert.Equal(t, int64(3), entry.ContextMap()["frame"])

	SetDefault(nil)
	assert.NotNil(t, L())
}
