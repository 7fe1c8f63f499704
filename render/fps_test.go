package render

import (
	"testing"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/stretchr/testify/require"
)

func TestFPSCounter(t *testing.T) {
	var counter FPSCounter

	for i := 0; i < 59; i++ {
		require.False(t, counter.Tick(16*time.Millisecond))
	}
	require.Zero(t, counter.FPS())

	require.True(t, counter.Tick(56*time.Millisecond))
	require.InDelta(t, 60.0, counter.FPS(), 0.001)

	require.False(t, counter.Tick(10*time.Millisecond))
	require.Equal(t, FPSStats{
		FPS:         counter.FPS(),
		TotalFrames: 61,
		TotalTime:   time.Second + 10*time.Millisecond,
	}, counter.Stats())
}

func TestPixelSize(t *testing.T) {
	require.Equal(t, Size{Width: 1600, Height: 1200}, pixelSize(gpucontext.NullWindowProvider{W: 800, H: 600, SF: 2}))
	require.Equal(t, Size{Width: 800, Height: 600}, pixelSize(gpucontext.NullWindowProvider{W: 800, H: 600}))
	require.Equal(t, Size{Width: 800, Height: 600}, pixelSize(gpucontext.NullWindowProvider{W: 800, H: 600, SF: -1}))

	// Minimized windows still get a one pixel back buffer
	require.Equal(t, Size{Width: 1, Height: 1}, pixelSize(gpucontext.NullWindowProvider{}))
}

func TestCreateOptionsDefaults(t *testing.T) {
	var options CreateOptions
	require.Equal(t, 100, options.shaderResourceCount())
	require.Equal(t, 64, options.viewCacheSize())
	require.Equal(t, 3, options.renderTargetCount())
	require.False(t, options.externallySynchronized())

	options.SwapChain.BufferCount = 2
	options.RenderTexture = true
	options.Flags = CreateExternallySynchronized
	require.Equal(t, 3, options.renderTargetCount())
	require.True(t, options.externallySynchronized())
	require.Equal(t, "CreateExternallySynchronized", options.Flags.String())
}
