package render

import (
	"time"

	"github.com/gallus-engine/gallus/command"
	"github.com/gallus-engine/gallus/gpu"
	"github.com/gogpu/gpucontext"
)

// Window is the surface the render system presents to. Size is reported in logical points and
// is scaled by ScaleFactor to get the back buffer size in pixels.
type Window interface {
	gpucontext.WindowProvider
	NativeHandle() gpu.WindowHandle
}

// Size is a back buffer size in pixels
type Size struct {
	Width  uint32
	Height uint32
}

// Frame is passed to OnRender listeners while a frame is being recorded. List is open with the
// current back buffer bound as the render target.
// Frame is passed to OnRender listeners. Descriptors a listener stops using during the frame
// must be freed with Context.FreeDescriptors: a plain Free is reclaimed when the frame ends,
// while the GPU may still be reading them.
type Frame struct {
	List            *command.List
	Context         *Context
	BackBufferIndex int
	RenderTarget    gpu.CPUDescriptorHandle
	DepthStencil    gpu.CPUDescriptorHandle
	Delta           time.Duration
}

func pixelSize(window gpucontext.WindowProvider) Size {
	width, height := window.Size()
	scale := window.ScaleFactor()
	if scale <= 0 {
		scale = 1
	}

	return Size{
		Width:  uint32(max(float64(width)*scale, 1)),
		Height: uint32(max(float64(height)*scale, 1)),
	}
}
