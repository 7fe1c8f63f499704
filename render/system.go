package render

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gallus-engine/gallus/event"
	"github.com/gallus-engine/gallus/gpu"
	"github.com/gallus-engine/gallus/logging"
	"github.com/gallus-engine/gallus/swapchain"
	"github.com/gallus-engine/gallus/system"
)

// System is the threaded render loop. It creates the render context and swap chain on its own
// thread, then records, submits and presents one frame per loop iteration. Frames and resizes
// are serialized by a single mutex so a resize never races a frame in flight.
type System struct {
	logger  *slog.Logger
	device  gpu.Device
	window  Window
	options CreateOptions
	thread  *system.Threaded

	// OnInitialize is invoked on the render thread once the context is ready
	OnInitialize event.Event[*Context]
	// OnRender is invoked while each frame is being recorded. Listeners run under the render
	// mutex and must not call back into the System.
	OnRender event.Event[Frame]
	// OnResize is invoked after the swap chain has been resized
	OnResize event.Event[Size]
	// OnFPS is invoked once per second with the updated frame counter
	OnFPS event.SimpleEvent[FPSStats]

	mutex     sync.Mutex
	context   *Context
	swapChain *swapchain.SwapChain
	fps       FPSCounter
	lastFrame time.Time
}

var _ system.Runner = &System{}

func NewSystem(logger *slog.Logger, device gpu.Device, window Window, options CreateOptions) *System {
	logger = logging.OrNop(logger)

	s := &System{
		logger:  logger.With(logging.Category(logging.CategoryGraphics)),
		device:  device,
		window:  window,
		options: options,
	}
	s.thread = system.NewThreaded("render", logger, s)

	return s
}

// Start launches the render thread. With wait set, it blocks until the context and swap chain
// exist and returns any error from creating them.
func (s *System) Start(ctx context.Context, wait bool) error {
	return s.thread.Start(ctx, wait)
}

// Stop ends the render loop and destroys the swap chain and context on the render thread
func (s *System) Stop() error {
	return s.thread.Stop()
}

func (s *System) Ready() bool              { return s.thread.Ready() }
func (s *System) Done() <-chan struct{}    { return s.thread.Done() }
func (s *System) Thread() *system.Threaded { return s.thread }

func (s *System) Context() *Context {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.context
}

func (s *System) SwapChain() *swapchain.SwapChain {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.swapChain
}

func (s *System) FPS() FPSStats {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.fps.Stats()
}

func (s *System) InitializeThread() error {
	if s.device == nil {
		return errors.New("attempted to start a render system without a device")
	}
	if s.window == nil {
		return errors.New("attempted to start a render system without a window")
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	renderContext, err := NewContext(s.logger, s.device, s.options)
	if err != nil {
		return err
	}

	size := pixelSize(s.window)
	swapChain, err := swapchain.New(s.logger, s.device, renderContext.CommandQueue(gpu.QueueTypeDirect),
		s.window.NativeHandle(), size.Width, size.Height, renderContext.RTVHeap(), renderContext.DSVHeap(), s.options.SwapChain)
	if err != nil {
		return errors.CombineErrors(err, renderContext.Destroy())
	}

	s.context = renderContext
	s.swapChain = swapChain
	s.lastFrame = time.Now()

	s.logger.LogAttrs(context.Background(), slog.LevelInfo, "render system initialized",
		slog.Int("width", int(size.Width)),
		slog.Int("height", int(size.Height)),
		slog.Int("buffers", swapChain.BufferCount()))

	s.OnInitialize.Invoke(renderContext)
	return nil
}

// Loop renders a single frame
func (s *System) Loop() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := time.Now()
	delta := now.Sub(s.lastFrame)
	s.lastFrame = now

	backBufferIndex := s.swapChain.CurrentBackBufferIndex()
	list, err := s.swapChain.BeginFrame()
	if err != nil {
		return err
	}

	s.OnRender.Invoke(Frame{
		List:            list,
		Context:         s.context,
		BackBufferIndex: backBufferIndex,
		RenderTarget:    s.swapChain.CurrentRenderTargetView(),
		DepthStencil:    s.swapChain.DepthStencilView(),
		Delta:           delta,
	})

	if _, err := s.swapChain.EndFrame(list); err != nil {
		return err
	}

	if err := s.context.ReleaseCompletedDescriptors(); err != nil {
		return errors.Wrap(err, "release completed descriptors")
	}

	if s.fps.Tick(delta) {
		s.OnFPS.Invoke(s.fps.Stats())
	}

	return nil
}

func (s *System) Finalize() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var err error
	if s.swapChain != nil {
		err = s.swapChain.Destroy()
		s.swapChain = nil
	}

	if s.context != nil {
		err = errors.CombineErrors(err, s.context.Destroy())
		s.context = nil
	}

	return err
}

// Resize flushes every queue and resizes the swap chain to width by height pixels. It blocks
// until any frame being recorded has been submitted.
func (s *System) Resize(width, height uint32) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.swapChain == nil {
		return errors.Wrap(system.ErrNotStarted, "resize render system")
	}

	if err := s.context.Flush(); err != nil {
		return errors.Wrap(err, "flush before resize")
	}

	if err := s.swapChain.Resize(width, height); err != nil {
		return err
	}

	actualWidth, actualHeight := s.swapChain.Size()
	s.OnResize.Invoke(Size{Width: actualWidth, Height: actualHeight})

	return nil
}
