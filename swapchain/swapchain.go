package swapchain

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/gallus-engine/gallus/command"
	"github.com/gallus-engine/gallus/descriptor"
	"github.com/gallus-engine/gallus/fence"
	"github.com/gallus-engine/gallus/gpu"
	"github.com/gallus-engine/gallus/logging"
)

// SwapChain owns the back buffers of a window surface together with their render target views,
// the depth buffer and the fence value that guards each back buffer. EndFrame paces the CPU so
// that it never records into a back buffer the GPU is still drawing to.
//
// SwapChain is not synchronized. The render system serializes frames and resizes.
type SwapChain struct {
	logger  *slog.Logger
	device  gpu.Device
	queue   *command.Queue
	options CreateOptions

	native  gpu.SwapChain
	rtvHeap *descriptor.Heap
	dsvHeap *descriptor.Heap

	rtvSlots    []int
	dsvSlot     int
	backBuffers []gpu.Resource
	depthBuffer gpu.Resource
	fenceValues []fence.Value
	current     int

	width    uint32
	height   uint32
	viewport gpu.Viewport
	scissor  gpu.Rect
}

// New creates a swap chain presenting on queue. One render target view per back buffer is taken
// from rtvHeap and the depth stencil view is taken from dsvHeap.
func New(logger *slog.Logger, device gpu.Device, queue *command.Queue, window gpu.WindowHandle, width, height uint32, rtvHeap, dsvHeap *descriptor.Heap, options CreateOptions) (*SwapChain, error) {
	logger = logging.OrNop(logger).With(logging.Category(logging.CategoryGraphics))

	options, err := options.withDefaults()
	if err != nil {
		return nil, err
	}

	if width == 0 || height == 0 {
		return nil, errors.Wrapf(ErrZeroSize, "requested %dx%d", width, height)
	}

	native, err := device.CreateSwapChain(queue.Native(), window, gpu.SwapChainDesc{
		Width:        width,
		Height:       height,
		Format:       options.Format,
		BufferCount:  options.BufferCount,
		AllowTearing: options.AllowTearing,
	})
	if err != nil {
		err = errors.Wrap(err, "create swap chain")
		logger.LogAttrs(context.Background(), slog.LevelError, "failed to create swap chain",
			slog.Any("error", err))
		return nil, err
	}

	s := &SwapChain{
		logger:      logger,
		device:      device,
		queue:       queue,
		options:     options,
		native:      native,
		rtvHeap:     rtvHeap,
		dsvHeap:     dsvHeap,
		dsvSlot:     -1,
		backBuffers: make([]gpu.Resource, options.BufferCount),
		fenceValues: make([]fence.Value, options.BufferCount),
		width:       width,
		height:      height,
	}

	if err := s.initialize(); err != nil {
		s.release()
		logger.LogAttrs(context.Background(), slog.LevelError, "failed to initialize swap chain",
			slog.Any("error", err))
		return nil, err
	}

	logger.LogAttrs(context.Background(), slog.LevelDebug, "created swap chain",
		slog.Int("buffers", options.BufferCount),
		slog.Int("width", int(width)),
		slog.Int("height", int(height)))

	return s, nil
}

func (s *SwapChain) initialize() error {
	for i := 0; i < s.options.BufferCount; i++ {
		slot, err := s.rtvHeap.Allocate()
		if err != nil {
			return errors.Wrapf(err, "allocate render target view for back buffer %d", i)
		}
		s.rtvSlots = append(s.rtvSlots, slot)
	}

	slot, err := s.dsvHeap.Allocate()
	if err != nil {
		return errors.Wrap(err, "allocate depth stencil view")
	}
	s.dsvSlot = slot

	s.current = s.native.CurrentBackBufferIndex()

	if err := s.createBackBufferViews(); err != nil {
		return err
	}
	if err := s.createDepthBuffer(); err != nil {
		return err
	}

	s.updateViewport()
	return nil
}

func (s *SwapChain) createBackBufferViews() error {
	for i := range s.backBuffers {
		buffer, err := s.native.Buffer(i)
		if err != nil {
			return errors.Wrapf(err, "get back buffer %d", i)
		}
		s.backBuffers[i] = buffer

		if err := s.device.CreateRenderTargetView(buffer, s.rtvHeap.CPUHandle(s.rtvSlots[i])); err != nil {
			return errors.Wrapf(err, "create render target view for back buffer %d", i)
		}
	}

	return nil
}

func (s *SwapChain) createDepthBuffer() error {
	if s.depthBuffer != nil {
		s.depthBuffer.Release()
		s.depthBuffer = nil
	}

	depthBuffer, err := s.device.CreateCommittedResource(gpu.HeapTypeDefault, gpu.ResourceDesc{
		Dimension: gpu.ResourceDimensionTexture2D,
		Width:     uint64(s.width),
		Height:    s.height,
		Format:    s.options.DepthFormat,
		Flags:     gpu.ResourceFlagAllowDepthStencil,
		Label:     "depth buffer",
	}, gpu.ResourceStateDepthWrite, &gpu.ClearValue{Depth: s.options.ClearDepth})
	if err != nil {
		return errors.Wrap(err, "create depth buffer")
	}
	s.depthBuffer = depthBuffer

	if err := s.device.CreateDepthStencilView(depthBuffer, s.dsvHeap.CPUHandle(s.dsvSlot)); err != nil {
		return errors.Wrap(err, "create depth stencil view")
	}

	return nil
}

func (s *SwapChain) updateViewport() {
	s.viewport = gpu.Viewport{
		Width:    float32(s.width),
		Height:   float32(s.height),
		MinDepth: 0,
		MaxDepth: 1,
	}
	s.scissor = gpu.Rect{Right: int32(s.width), Bottom: int32(s.height)}
}

func (s *SwapChain) Native() gpu.SwapChain           { return s.native }
func (s *SwapChain) Options() CreateOptions          { return s.options }
func (s *SwapChain) BufferCount() int                { return s.options.BufferCount }
func (s *SwapChain) CurrentBackBufferIndex() int     { return s.current }
func (s *SwapChain) CurrentBackBuffer() gpu.Resource { return s.backBuffers[s.current] }
func (s *SwapChain) DepthBuffer() gpu.Resource       { return s.depthBuffer }
func (s *SwapChain) Viewport() gpu.Viewport          { return s.viewport }
func (s *SwapChain) ScissorRect() gpu.Rect           { return s.scissor }

// Size returns the size of the back buffers in pixels
func (s *SwapChain) Size() (uint32, uint32) {
	return s.width, s.height
}

// FenceValue returns the fence value that must complete before back buffer index can be drawn
// to again
func (s *SwapChain) FenceValue(index int) fence.Value {
	return s.fenceValues[index]
}

func (s *SwapChain) CurrentRenderTargetView() gpu.CPUDescriptorHandle {
	return s.rtvHeap.CPUHandle(s.rtvSlots[s.current])
}

func (s *SwapChain) DepthStencilView() gpu.CPUDescriptorHandle {
	return s.dsvHeap.CPUHandle(s.dsvSlot)
}

// BeginFrame opens a command list on the swap chain's queue with the current back buffer
// transitioned to a render target, both targets cleared and bound, and the viewport and
// scissor rect set
func (s *SwapChain) BeginFrame() (*command.List, error) {
	list, err := s.queue.GetCommandList()
	if err != nil {
		return nil, errors.Wrap(err, "begin frame")
	}

	rtv := s.CurrentRenderTargetView()
	dsv := s.DepthStencilView()

	list.TransitionResource(s.CurrentBackBuffer(), gpu.ResourceStatePresent, gpu.ResourceStateRenderTarget)
	list.ClearDepth(dsv, s.options.ClearDepth)
	list.ClearRenderTarget(rtv, s.options.ClearColor)
	list.SetRenderTargets([]gpu.CPUDescriptorHandle{rtv}, &dsv)
	list.SetViewport(s.viewport)
	list.SetScissorRect(s.scissor)

	return list, nil
}

// EndFrame transitions the current back buffer back to the present state, submits list and
// presents. It then waits until the back buffer that becomes current has been released by the
// GPU, which bounds the CPU to BufferCount frames ahead.
func (s *SwapChain) EndFrame(list *command.List) (fence.Value, error) {
	if list == nil {
		return 0, errors.New("attempted to end a frame without a command list")
	}

	list.TransitionResource(s.CurrentBackBuffer(), gpu.ResourceStateRenderTarget, gpu.ResourceStatePresent)

	value, err := s.queue.ExecuteCommandList(list)
	if err != nil {
		return 0, errors.Wrap(err, "end frame")
	}
	s.fenceValues[s.current] = value

	syncInterval, flags := s.options.presentParameters()
	if err := s.native.Present(syncInterval, flags); err != nil {
		err = errors.Wrap(err, "present")
		s.logger.LogAttrs(context.Background(), slog.LevelError, "failed to present",
			slog.Any("error", err))
		return value, err
	}

	current := s.native.CurrentBackBufferIndex()
	if current < 0 || current >= len(s.backBuffers) {
		return value, errors.Newf("swap chain reported back buffer %d of %d", current, len(s.backBuffers))
	}
	s.current = current

	if err := s.queue.WaitForFenceValue(s.fenceValues[s.current]); err != nil {
		return value, errors.Wrapf(err, "wait for back buffer %d", s.current)
	}

	return value, nil
}

// Resize recreates the back buffers, their views and the depth buffer at a new size. Sizes are
// clamped to at least 1 and an unchanged size does nothing.
func (s *SwapChain) Resize(width, height uint32) error {
	width = max(width, 1)
	height = max(height, 1)

	if width == s.width && height == s.height {
		return nil
	}

	if err := s.queue.Flush(); err != nil {
		return errors.Wrap(err, "flush before resize")
	}

	currentValue := s.fenceValues[s.current]
	for i, buffer := range s.backBuffers {
		if buffer != nil {
			buffer.Release()
		}
		s.backBuffers[i] = nil
		s.fenceValues[i] = currentValue
	}

	if err := s.native.ResizeBuffers(s.options.BufferCount, width, height, s.options.Format); err != nil {
		err = errors.Wrapf(err, "resize swap chain buffers to %dx%d", width, height)
		s.logger.LogAttrs(context.Background(), slog.LevelError, "failed to resize swap chain",
			slog.Any("error", err))
		return err
	}

	s.width = width
	s.height = height
	s.current = s.native.CurrentBackBufferIndex()

	if err := s.createBackBufferViews(); err != nil {
		return err
	}
	if err := s.createDepthBuffer(); err != nil {
		return err
	}
	s.updateViewport()

	s.logger.LogAttrs(context.Background(), slog.LevelDebug, "resized swap chain",
		slog.Int("width", int(width)),
		slog.Int("height", int(height)),
		slog.Int("current", s.current))

	return nil
}

// Destroy waits for the GPU to finish with every back buffer, then releases the buffers, the
// depth buffer, their views and the native swap chain
func (s *SwapChain) Destroy() error {
	if s.native == nil {
		return nil
	}

	if err := s.queue.Flush(); err != nil {
		return errors.Wrap(err, "flush before destroying swap chain")
	}

	return s.release()
}

func (s *SwapChain) release() error {
	var err error

	for i, buffer := range s.backBuffers {
		if buffer != nil {
			buffer.Release()
		}
		s.backBuffers[i] = nil
	}

	if s.depthBuffer != nil {
		s.depthBuffer.Release()
		s.depthBuffer = nil
	}

	for _, slot := range s.rtvSlots {
		err = errors.CombineErrors(err, s.rtvHeap.Deallocate(slot))
	}
	s.rtvSlots = nil

	if s.dsvSlot >= 0 {
		err = errors.CombineErrors(err, s.dsvHeap.Deallocate(s.dsvSlot))
		s.dsvSlot = -1
	}

	s.native.Release()
	s.native = nil

	return err
}
