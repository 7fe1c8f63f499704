package halgpu

import (
	"sync"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/gallus-engine/gallus/gpu"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

type resourceKind int

const (
	resourceKindBuffer resourceKind = iota
	resourceKindTexture
	resourceKindBackBuffer
)

// resource is a committed buffer or texture, or one of a swap chain's back buffers. Back buffers
// have no texture of their own: they resolve to the surface texture acquired for the current
// frame, and their view is dropped whenever that texture is presented or discarded.
type resource struct {
	device *Device
	desc   gpu.ResourceDesc
	kind   resourceKind

	buffer  hal.Buffer
	texture hal.Texture

	swapChain *swapChain
	index     int

	mutex    sync.Mutex
	view     hal.TextureView
	released bool
}

var _ gpu.Resource = &resource{}

func (r *resource) Desc() gpu.ResourceDesc { return r.desc }

func (r *resource) Map() (unsafe.Pointer, error) {
	if r.kind != resourceKindBuffer {
		return nil, errors.Newf("resource %q is not a buffer and cannot be mapped", r.desc.Label)
	}

	mapping, err := r.device.device.MapBuffer(r.buffer, 0, r.desc.Width)
	if err != nil {
		return nil, errors.Wrapf(err, "map buffer %q", r.desc.Label)
	}

	return mapping.Ptr, nil
}

func (r *resource) Unmap() {
	if r.kind != resourceKindBuffer {
		return
	}

	if err := r.device.device.UnmapBuffer(r.buffer); err != nil {
		r.device.logger.Error("unmap buffer", "label", r.desc.Label, "error", err)
	}
}

func (r *resource) Release() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.released {
		return
	}
	r.released = true
	r.dropViewLocked()

	switch r.kind {
	case resourceKindBuffer:
		r.device.device.DestroyBuffer(r.buffer)
	case resourceKindTexture:
		r.device.device.DestroyTexture(r.texture)
	}
}

func (r *resource) dropView() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.dropViewLocked()
}

func (r *resource) dropViewLocked() {
	if r.view != nil {
		r.device.device.DestroyTextureView(r.view)
		r.view = nil
	}
}

func (r *resource) currentTexture() (hal.Texture, error) {
	switch r.kind {
	case resourceKindTexture:
		return r.texture, nil
	case resourceKindBackBuffer:
		return r.swapChain.acquire(r.index)
	}

	return nil, errors.Newf("resource %q is not a texture", r.desc.Label)
}

// textureView returns a view of every aspect of the texture, creating it on first use
func (r *resource) textureView() (hal.TextureView, error) {
	texture, err := r.currentTexture()
	if err != nil {
		return nil, err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.released {
		return nil, errors.Newf("resource %q has been released", r.desc.Label)
	}

	if r.view != nil {
		return r.view, nil
	}

	view, err := r.device.device.CreateTextureView(texture, &hal.TextureViewDescriptor{
		Label:           r.desc.Label,
		Format:          r.desc.Format,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "create view of %q", r.desc.Label)
	}

	r.view = view
	return view, nil
}

func bufferUsage(heapType gpu.HeapType) gputypes.BufferUsage {
	switch heapType {
	case gpu.HeapTypeUpload:
		return gputypes.BufferUsageMapWrite | gputypes.BufferUsageCopySrc
	case gpu.HeapTypeReadback:
		return gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst
	}

	return gputypes.BufferUsageCopyDst | gputypes.BufferUsageCopySrc | gputypes.BufferUsageVertex |
		gputypes.BufferUsageIndex | gputypes.BufferUsageUniform
}

func textureUsage(flags gpu.ResourceFlags) gputypes.TextureUsage {
	usage := gputypes.TextureUsageCopySrc | gputypes.TextureUsageCopyDst

	if flags&(gpu.ResourceFlagAllowRenderTarget|gpu.ResourceFlagAllowDepthStencil) != 0 {
		usage |= gputypes.TextureUsageRenderAttachment
	}
	if flags&gpu.ResourceFlagDenyShaderResource == 0 {
		usage |= gputypes.TextureUsageTextureBinding
	}

	return usage
}

// textureStateUsage maps a resource state onto the hal usage it implies. Common and Present
// have no usage: hal tracks the initial and presentable layouts itself.
func textureStateUsage(state gpu.ResourceStates) gputypes.TextureUsage {
	var usage gputypes.TextureUsage

	if state&(gpu.ResourceStateRenderTarget|gpu.ResourceStateDepthWrite|gpu.ResourceStateDepthRead) != 0 {
		usage |= gputypes.TextureUsageRenderAttachment
	}
	if state&gpu.ResourceStateCopyDest != 0 {
		usage |= gputypes.TextureUsageCopyDst
	}
	if state&gpu.ResourceStateCopySource != 0 {
		usage |= gputypes.TextureUsageCopySrc
	}
	if state&(gpu.ResourceStateShaderResource|gpu.ResourceStateGenericRead) != 0 {
		usage |= gputypes.TextureUsageTextureBinding
	}

	return usage
}

func bufferStateUsage(state gpu.ResourceStates) gputypes.BufferUsage {
	var usage gputypes.BufferUsage

	if state&gpu.ResourceStateCopyDest != 0 {
		usage |= gputypes.BufferUsageCopyDst
	}
	if state&(gpu.ResourceStateCopySource|gpu.ResourceStateGenericRead) != 0 {
		usage |= gputypes.BufferUsageCopySrc
	}
	if state&gpu.ResourceStateShaderResource != 0 {
		usage |= gputypes.BufferUsageUniform
	}

	return usage
}
