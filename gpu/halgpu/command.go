package halgpu

import (
	"github.com/cockroachdb/errors"
	"github.com/gallus-engine/gallus/gpu"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// commandAllocator owns a hal command encoder. Command buffers finished from the encoder stay
// owned by the allocator until Reset, which must not happen before the GPU is done with them.
type commandAllocator struct {
	device    *Device
	queueType gpu.QueueType
	encoder   hal.CommandEncoder
	buffers   []hal.CommandBuffer
	recording bool
}

var _ gpu.CommandAllocator = &commandAllocator{}

func (a *commandAllocator) Reset() error {
	if a.recording {
		return errors.New("command allocator was reset while a command list is recording into it")
	}

	if len(a.buffers) > 0 {
		a.encoder.ResetAll(a.buffers)
		a.buffers = nil
	}

	return nil
}

func (a *commandAllocator) Release() {
	if a.recording {
		a.encoder.DiscardEncoding()
		a.recording = false
	}

	if len(a.buffers) > 0 {
		a.encoder.ResetAll(a.buffers)
		a.buffers = nil
	}

	a.encoder.Destroy()
}

// commandList records into the encoder of the allocator it was last reset against. Recording
// errors are sticky and reported by Close, since the record methods have no error return.
type commandList struct {
	device    *Device
	queueType gpu.QueueType
	allocator *commandAllocator
	pass      hal.RenderPassEncoder
	closed    hal.CommandBuffer
	err       error
}

var _ gpu.CommandList = &commandList{}

func (l *commandList) Type() gpu.QueueType { return l.queueType }

func (l *commandList) Reset(allocator gpu.CommandAllocator) error {
	a, ok := allocator.(*commandAllocator)
	if !ok || a.device != l.device {
		return errors.Newf("command allocator %T was not created by this device", allocator)
	}
	if l.allocator != nil && l.allocator.recording {
		return errors.New("command list was reset while recording")
	}
	if a.recording {
		return errors.New("command allocator already has a command list recording into it")
	}

	if err := a.encoder.BeginEncoding(l.queueType.String()); err != nil {
		return errors.Wrap(err, "begin encoding")
	}

	a.recording = true
	l.allocator = a
	l.closed = nil
	l.err = nil
	return nil
}

func (l *commandList) Close() error {
	if l.allocator == nil || !l.allocator.recording {
		return errors.New("command list was closed while not recording")
	}

	l.endPass()
	buffer, err := l.allocator.encoder.EndEncoding()
	l.allocator.recording = false
	if err != nil {
		return errors.Wrap(err, "end encoding")
	}

	l.allocator.buffers = append(l.allocator.buffers, buffer)
	if l.err != nil {
		return l.err
	}

	l.closed = buffer
	return nil
}

func (l *commandList) takeClosed() (hal.CommandBuffer, error) {
	if l.closed == nil {
		return nil, errors.New("command list must be closed before it is executed")
	}

	buffer := l.closed
	l.closed = nil
	return buffer, nil
}

func (l *commandList) encoder() (hal.CommandEncoder, bool) {
	if l.allocator == nil || !l.allocator.recording {
		l.fail(errors.New("command recorded into a command list that is not recording"))
		return nil, false
	}

	return l.allocator.encoder, true
}

func (l *commandList) fail(err error) {
	if l.err == nil {
		l.err = err
	}
}

func (l *commandList) endPass() {
	if l.pass != nil {
		l.pass.End()
		l.pass = nil
	}
}

func (l *commandList) ResourceBarrier(res gpu.Resource, before, after gpu.ResourceStates) {
	encoder, ok := l.encoder()
	if !ok {
		return
	}

	r, ok := res.(*resource)
	if !ok {
		l.fail(errors.Newf("resource %T was not created by this device", res))
		return
	}

	l.endPass()

	switch r.kind {
	case resourceKindBuffer:
		encoder.TransitionBuffers([]hal.BufferBarrier{{
			Buffer: r.buffer,
			Usage: hal.BufferUsageTransition{
				OldUsage: bufferStateUsage(before),
				NewUsage: bufferStateUsage(after),
			},
		}})
	case resourceKindTexture:
		oldUsage, newUsage := textureStateUsage(before), textureStateUsage(after)
		if oldUsage == gputypes.TextureUsageNone || newUsage == gputypes.TextureUsageNone {
			return
		}

		encoder.TransitionTextures([]hal.TextureBarrier{{
			Texture: r.texture,
			Range: hal.TextureRange{
				Aspect:          gputypes.TextureAspectAll,
				MipLevelCount:   1,
				ArrayLayerCount: 1,
			},
			Usage: hal.TextureUsageTransition{
				OldUsage: oldUsage,
				NewUsage: newUsage,
			},
		}})
	}
	// Surface textures are transitioned to and from their presentable layout by hal
}

func (l *commandList) ClearRenderTargetView(view gpu.CPUDescriptorHandle, color gputypes.Color) {
	encoder, ok := l.encoder()
	if !ok {
		return
	}

	target, err := l.device.resolveView(gpu.DescriptorHeapTypeRTV, view)
	if err != nil {
		l.fail(err)
		return
	}

	l.endPass()
	encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "clear render target",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       target,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: color,
		}},
	}).End()
}

func (l *commandList) ClearDepthStencilView(view gpu.CPUDescriptorHandle, flags gpu.DepthStencilClearFlags, depth float32, stencil uint8) {
	encoder, ok := l.encoder()
	if !ok {
		return
	}

	target, err := l.device.resolveView(gpu.DescriptorHeapTypeDSV, view)
	if err != nil {
		l.fail(err)
		return
	}

	attachment := &hal.RenderPassDepthStencilAttachment{
		View:            target,
		DepthLoadOp:     gputypes.LoadOpLoad,
		DepthStoreOp:    gputypes.StoreOpStore,
		DepthClearValue: depth,
	}
	if flags&gpu.ClearFlagDepth != 0 {
		attachment.DepthLoadOp = gputypes.LoadOpClear
	}
	if flags&gpu.ClearFlagStencil != 0 {
		attachment.StencilLoadOp = gputypes.LoadOpClear
		attachment.StencilStoreOp = gputypes.StoreOpStore
		attachment.StencilClearValue = uint32(stencil)
	}

	l.endPass()
	encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label:                  "clear depth stencil",
		DepthStencilAttachment: attachment,
	}).End()
}

// SetRenderTargets opens a render pass that loads the targets. Viewports and scissor rects
// apply to that pass until the next barrier, clear or copy ends it.
func (l *commandList) SetRenderTargets(renderTargets []gpu.CPUDescriptorHandle, depthStencil *gpu.CPUDescriptorHandle) {
	encoder, ok := l.encoder()
	if !ok {
		return
	}

	desc := &hal.RenderPassDescriptor{Label: "render targets"}
	for _, handle := range renderTargets {
		target, err := l.device.resolveView(gpu.DescriptorHeapTypeRTV, handle)
		if err != nil {
			l.fail(err)
			return
		}

		desc.ColorAttachments = append(desc.ColorAttachments, hal.RenderPassColorAttachment{
			View:    target,
			LoadOp:  gputypes.LoadOpLoad,
			StoreOp: gputypes.StoreOpStore,
		})
	}

	if depthStencil != nil {
		target, err := l.device.resolveView(gpu.DescriptorHeapTypeDSV, *depthStencil)
		if err != nil {
			l.fail(err)
			return
		}

		desc.DepthStencilAttachment = &hal.RenderPassDepthStencilAttachment{
			View:         target,
			DepthLoadOp:  gputypes.LoadOpLoad,
			DepthStoreOp: gputypes.StoreOpStore,
		}
	}

	l.endPass()
	l.pass = encoder.BeginRenderPass(desc)
}

func (l *commandList) SetViewports(viewports ...gpu.Viewport) {
	if l.pass == nil || len(viewports) == 0 {
		return
	}

	v := viewports[0]
	l.pass.SetViewport(v.TopLeftX, v.TopLeftY, v.Width, v.Height, v.MinDepth, v.MaxDepth)
}

func (l *commandList) SetScissorRects(rects ...gpu.Rect) {
	if l.pass == nil || len(rects) == 0 {
		return
	}

	r := rects[0]
	l.pass.SetScissorRect(uint32(r.Left), uint32(r.Top), uint32(r.Right-r.Left), uint32(r.Bottom-r.Top))
}

func (l *commandList) CopyBufferRegion(dst gpu.Resource, dstOffset uint64, src gpu.Resource, srcOffset uint64, size uint64) {
	encoder, ok := l.encoder()
	if !ok {
		return
	}

	dstBuffer, dstOK := dst.(*resource)
	srcBuffer, srcOK := src.(*resource)
	if !dstOK || !srcOK || dstBuffer.kind != resourceKindBuffer || srcBuffer.kind != resourceKindBuffer {
		l.fail(errors.New("buffer copies require two buffers created by this device"))
		return
	}

	l.endPass()
	encoder.CopyBufferToBuffer(srcBuffer.buffer, dstBuffer.buffer, []hal.BufferCopy{{
		SrcOffset: srcOffset,
		DstOffset: dstOffset,
		Size:      size,
	}})
}

func (l *commandList) Release() {
	if l.allocator != nil && l.allocator.recording {
		l.pass = nil
		l.allocator.encoder.DiscardEncoding()
		l.allocator.recording = false
	}
	l.allocator = nil
	l.closed = nil
}
