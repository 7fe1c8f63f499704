package halgpu

import (
	"fmt"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gallus-engine/gallus/gpu"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// swapChain presents through a hal surface. hal hands out one surface texture at a time, so the
// back buffer resources are placeholders that resolve to the acquired texture while they are
// current. The present mode is fixed when the surface is configured: tearing swap chains use
// immediate presentation and every other swap chain uses FIFO.
type swapChain struct {
	device  *Device
	surface hal.Surface

	mutex    sync.Mutex
	desc     gpu.SwapChainDesc
	buffers  []*resource
	current  int
	acquired hal.SurfaceTexture
}

var _ gpu.SwapChain = &swapChain{}

func presentMode(allowTearing bool) gputypes.PresentMode {
	if allowTearing {
		return gputypes.PresentModeImmediate
	}

	return gputypes.PresentModeFifo
}

func (s *swapChain) configure() error {
	err := s.surface.Configure(s.device.device, &hal.SurfaceConfiguration{
		Width:       s.desc.Width,
		Height:      s.desc.Height,
		Format:      s.desc.Format,
		Usage:       gputypes.TextureUsageRenderAttachment,
		PresentMode: presentMode(s.desc.AllowTearing),
		AlphaMode:   gputypes.CompositeAlphaModeOpaque,
	})
	if err != nil {
		return errors.Wrapf(err, "configure surface at %dx%d", s.desc.Width, s.desc.Height)
	}

	return nil
}

func (s *swapChain) createBuffers() {
	s.buffers = make([]*resource, s.desc.BufferCount)
	for i := range s.buffers {
		s.buffers[i] = &resource{
			device: s.device,
			desc: gpu.ResourceDesc{
				Dimension: gpu.ResourceDimensionTexture2D,
				Width:     uint64(s.desc.Width),
				Height:    s.desc.Height,
				Format:    s.desc.Format,
				Flags:     gpu.ResourceFlagAllowRenderTarget,
				Label:     fmt.Sprintf("back buffer %d", i),
			},
			kind:      resourceKindBackBuffer,
			swapChain: s,
			index:     i,
		}
	}
}

func (s *swapChain) Desc() gpu.SwapChainDesc {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.desc
}

func (s *swapChain) Buffer(index int) (gpu.Resource, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if index < 0 || index >= len(s.buffers) {
		return nil, errors.Newf("back buffer index %d is outside the swap chain's %d buffers", index, len(s.buffers))
	}

	return s.buffers[index], nil
}

func (s *swapChain) CurrentBackBufferIndex() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.current
}

// acquire returns the surface texture backing the current back buffer, acquiring one from the
// surface the first time it is needed in a frame
func (s *swapChain) acquire(index int) (hal.Texture, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if index != s.current {
		return nil, errors.Wrapf(gpu.ErrNotCurrentBackBuffer, "back buffer %d, current %d", index, s.current)
	}

	if err := s.acquireLocked(); err != nil {
		return nil, err
	}

	return s.acquired, nil
}

func (s *swapChain) acquireLocked() error {
	if s.acquired != nil {
		return nil
	}

	acquired, err := s.surface.AcquireTexture(nil)
	if err != nil {
		return errors.Wrap(err, "acquire surface texture")
	}
	if acquired.Suboptimal {
		s.device.logger.Debug("acquired a suboptimal surface texture",
			"width", s.desc.Width, "height", s.desc.Height)
	}

	s.acquired = acquired.Texture
	return nil
}

// Present shows the current back buffer and advances to the next one. A frame that never
// touched its back buffer presents whatever the surface texture already holds.
func (s *swapChain) Present(syncInterval int, flags gpu.PresentFlags) error {
	if flags&gpu.PresentAllowTearing != 0 && syncInterval != 0 {
		return errors.Newf("tearing requires a sync interval of 0, got %d", syncInterval)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.acquireLocked(); err != nil {
		return err
	}

	texture := s.acquired
	s.acquired = nil
	s.buffers[s.current].dropView()
	s.current = (s.current + 1) % len(s.buffers)

	if err := s.device.queue.Present(s.surface, texture, nil); err != nil {
		return errors.Wrap(err, "present")
	}

	return nil
}

func (s *swapChain) discardLocked() {
	if s.acquired != nil {
		s.surface.DiscardTexture(s.acquired)
		s.acquired = nil
	}

	for _, buffer := range s.buffers {
		buffer.dropView()
	}
}

// ResizeBuffers reconfigures the surface. A bufferCount of 0 keeps the current count and a
// format of TextureFormatUndefined keeps the current format.
func (s *swapChain) ResizeBuffers(bufferCount int, width, height uint32, format gpu.Format) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.discardLocked()

	previous := s.desc
	if bufferCount > 0 {
		s.desc.BufferCount = bufferCount
	}
	if format != gputypes.TextureFormatUndefined {
		s.desc.Format = format
	}
	s.desc.Width = width
	s.desc.Height = height

	if err := s.configure(); err != nil {
		s.desc = previous
		return err
	}

	s.createBuffers()
	s.current = 0
	return nil
}

func (s *swapChain) Release() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.surface == nil {
		return
	}

	s.discardLocked()
	s.surface.Unconfigure(s.device.device)
	s.surface.Destroy()
	s.surface = nil
}
