package render_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/gallus-engine/gallus/gpu"
	"github.com/gallus-engine/gallus/gpu/halgpu"
	"github.com/gallus-engine/gallus/render"
	"github.com/gallus-engine/gallus/swapchain"
	"github.com/gallus-engine/gallus/system"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/require"

	_ "github.com/gogpu/wgpu/hal/noop"
)

type testWindow struct {
	gpucontext.NullWindowProvider
}

func (testWindow) NativeHandle() gpu.WindowHandle { return gpu.WindowHandle{Window: 1} }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func openNoop(t *testing.T) *halgpu.Device {
	device, err := halgpu.Open(testLogger(), halgpu.CreateOptions{Backends: halgpu.BackendsNoop})
	require.NoError(t, err)
	t.Cleanup(device.Release)

	return device
}

func TestContextLifecycle(t *testing.T) {
	device := openNoop(t)

	renderContext, err := render.NewContext(testLogger(), device, render.CreateOptions{
		ShaderResourceCount: 16,
		ViewCacheSize:       2,
		RenderTexture:       true,
	})
	require.NoError(t, err)

	require.Equal(t, 4, renderContext.RTVHeap().Capacity())
	require.Equal(t, 1, renderContext.DSVHeap().Capacity())
	require.Equal(t, 16, renderContext.SRVHeap().Capacity())
	require.Equal(t, gpu.QueueTypeCopy, renderContext.CommandQueue(gpu.QueueTypeCopy).Type())
	require.NotNil(t, renderContext.DescriptorAllocator(gpu.DescriptorHeapTypeSampler))
	require.Nil(t, renderContext.DescriptorAllocator(gpu.DescriptorHeapType(gpu.DescriptorHeapTypeCount)))

	texture, err := device.CreateCommittedResource(gpu.HeapTypeDefault, gpu.ResourceDesc{
		Dimension: gpu.ResourceDimensionTexture2D,
		Width:     8,
		Height:    8,
		Format:    gputypes.TextureFormatRGBA8Unorm,
		Label:     "sprite",
	}, gpu.ResourceStateShaderResource, nil)
	require.NoError(t, err)
	defer texture.Release()

	view, err := renderContext.ShaderResourceView(texture)
	require.NoError(t, err)
	again, err := renderContext.ShaderResourceView(texture)
	require.NoError(t, err)
	require.Equal(t, view.CPUHandle(0), again.CPUHandle(0))
	require.Equal(t, 1, renderContext.ViewCache().Len())

	stats := renderContext.BuildStatsString(true)
	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(stats), &parsed))
	require.Len(t, parsed["Queues"], 3)
	require.Len(t, parsed["DescriptorAllocators"], gpu.DescriptorHeapTypeCount)
	require.Equal(t, float64(1), parsed["CachedViews"])

	require.NoError(t, renderContext.Flush())
	require.NoError(t, renderContext.ReleaseCompletedDescriptors())
	require.NoError(t, renderContext.Destroy())
}

func TestContextDefersDescriptorFreesToNextFrame(t *testing.T) {
	device := openNoop(t)

	renderContext, err := render.NewContext(testLogger(), device, render.CreateOptions{})
	require.NoError(t, err)

	allocator := renderContext.DescriptorAllocator(gpu.DescriptorHeapTypeCBVSRVUAV)
	alloc, err := allocator.Allocate(4)
	require.NoError(t, err)
	page := alloc.Page()

	direct := renderContext.CommandQueue(gpu.QueueTypeDirect)
	_, err = direct.Signal()
	require.NoError(t, err)
	require.NoError(t, direct.Flush())

	require.NoError(t, renderContext.FreeDescriptors(&alloc))
	require.True(t, alloc.IsNull())

	// Everything signaled so far has completed, but the frees wait for the next submission
	require.NoError(t, renderContext.ReleaseCompletedDescriptors())
	require.Equal(t, 1, page.StaleCount())

	require.NoError(t, direct.Flush())
	require.NoError(t, renderContext.ReleaseCompletedDescriptors())
	require.Equal(t, 0, page.StaleCount())
	require.Equal(t, page.NumHandles(), page.NumFreeHandles())

	require.NoError(t, renderContext.Destroy())
}

func TestSystemRequiresWindow(t *testing.T) {
	device := openNoop(t)

	renderSystem := render.NewSystem(testLogger(), device, nil, render.CreateOptions{})
	require.Error(t, renderSystem.Start(context.Background(), true))
}

func TestSystemResizeBeforeStart(t *testing.T) {
	renderSystem := render.NewSystem(testLogger(), nil, nil, render.CreateOptions{})
	require.ErrorIs(t, renderSystem.Resize(10, 10), system.ErrNotStarted)
}

func TestSystemRendersFrames(t *testing.T) {
	device := openNoop(t)

	window := testWindow{gpucontext.NullWindowProvider{W: 320, H: 240, SF: 2}}
	renderSystem := render.NewSystem(testLogger(), device, window, render.CreateOptions{
		SwapChain: swapchain.CreateOptions{BufferCount: 2},
	})

	initialized := make(chan *render.Context, 1)
	renderSystem.OnInitialize.Subscribe(func(c *render.Context) {
		initialized <- c
	})

	type renderedFrame struct {
		index     int
		recording bool
	}
	frames := make(chan renderedFrame, 16)
	renderSystem.OnRender.Subscribe(func(frame render.Frame) {
		select {
		case frames <- renderedFrame{index: frame.BackBufferIndex, recording: frame.List.IsRecording()}:
		default:
		}
	})

	resized := make(chan render.Size, 1)
	renderSystem.OnResize.Subscribe(func(size render.Size) {
		resized <- size
	})

	require.NoError(t, renderSystem.Start(context.Background(), true))
	require.True(t, renderSystem.Ready())

	select {
	case c := <-initialized:
		require.Same(t, renderSystem.Context(), c)
	case <-time.After(5 * time.Second):
		t.Fatal("render system never initialized")
	}

	width, height := renderSystem.SwapChain().Size()
	require.Equal(t, uint32(640), width)
	require.Equal(t, uint32(480), height)

	// Back buffers alternate between frames
	var indices []int
	for len(indices) < 4 {
		select {
		case frame := <-frames:
			require.True(t, frame.recording)
			indices = append(indices, frame.index)
		case <-time.After(5 * time.Second):
			t.Fatal("render system stopped producing frames")
		}
	}
	for i := 1; i < len(indices); i++ {
		require.NotEqual(t, indices[i-1], indices[i])
	}

	require.NoError(t, renderSystem.Resize(100, 50))
	select {
	case size := <-resized:
		require.Equal(t, render.Size{Width: 100, Height: 50}, size)
	case <-time.After(5 * time.Second):
		t.Fatal("resize was never reported")
	}

	require.NoError(t, renderSystem.Stop())
	<-renderSystem.Done()

	require.Nil(t, renderSystem.Context())
	require.Nil(t, renderSystem.SwapChain())
	require.NotZero(t, renderSystem.FPS().TotalFrames)
}
