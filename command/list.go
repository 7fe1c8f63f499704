package command

import (
	"context"
	"log/slog"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/gallus-engine/gallus/gpu"
	"github.com/gallus-engine/gallus/heaputils"
	"github.com/gogpu/gputypes"
)

// bufferAlignment is the granularity of buffer sizes created by UpdateBufferResource
const bufferAlignment uint64 = 4

// List wraps a native command list together with the allocator it is currently recording
// into. Lists are handed out by Queue.GetCommandList and are returned to the queue's pool by
// Queue.ExecuteCommandList, so a List must not be used after it has been executed until it
// is obtained again.
type List struct {
	queue     *Queue
	native    gpu.CommandList
	allocator gpu.CommandAllocator
	recording bool

	tracked []gpu.Resource
}

func (l *List) Type() gpu.QueueType     { return l.queue.queueType }
func (l *List) Queue() *Queue           { return l.queue }
func (l *List) Native() gpu.CommandList { return l.native }
func (l *List) IsRecording() bool       { return l.recording }
func (l *List) TrackedResources() int   { return len(l.tracked) }

// TrackResource keeps resource alive until the GPU has finished executing this list. The
// queue releases it once the fence value of the submission that carried it has completed.
func (l *List) TrackResource(resource gpu.Resource) {
	if resource == nil {
		return
	}

	l.tracked = append(l.tracked, resource)
}

// TransitionResource records a barrier moving resource from one state to another. Nothing is
// recorded when the two states are equal.
func (l *List) TransitionResource(resource gpu.Resource, before, after gpu.ResourceStates) {
	if before == after {
		return
	}

	l.native.ResourceBarrier(resource, before, after)
}

func (l *List) ClearRenderTarget(view gpu.CPUDescriptorHandle, color gputypes.Color) {
	l.native.ClearRenderTargetView(view, color)
}

func (l *List) ClearDepth(view gpu.CPUDescriptorHandle, depth float32) {
	l.native.ClearDepthStencilView(view, gpu.ClearFlagDepth, depth, 0)
}

func (l *List) SetRenderTargets(renderTargets []gpu.CPUDescriptorHandle, depthStencil *gpu.CPUDescriptorHandle) {
	l.native.SetRenderTargets(renderTargets, depthStencil)
}

func (l *List) SetViewport(viewport gpu.Viewport) {
	l.native.SetViewports(viewport)
}

func (l *List) SetScissorRect(rect gpu.Rect) {
	l.native.SetScissorRects(rect)
}

// UpdateBufferResource creates a GPU-local buffer holding data. The bytes are staged through
// an upload buffer that is tracked by this list and released once the copy has executed.
// The returned buffer is left in the copy destination state and is owned by the caller.
// Empty data produces a nil buffer and no commands.
func (l *List) UpdateBufferResource(data []byte, flags gpu.ResourceFlags) (gpu.Resource, error) {
	if !l.recording {
		return nil, ErrListNotRecording
	}

	if len(data) == 0 {
		return nil, nil
	}

	device := l.queue.device
	size := heaputils.AlignUp(uint64(len(data)), bufferAlignment)

	destination, err := device.CreateCommittedResource(gpu.HeapTypeDefault, gpu.ResourceDesc{
		Dimension: gpu.ResourceDimensionBuffer,
		Width:     size,
		Height:    1,
		Flags:     flags,
		Label:     l.queue.options.Label + " buffer",
	}, gpu.ResourceStateCopyDest, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create destination buffer")
	}

	intermediate, err := device.CreateCommittedResource(gpu.HeapTypeUpload, gpu.ResourceDesc{
		Dimension: gpu.ResourceDimensionBuffer,
		Width:     size,
		Height:    1,
		Label:     l.queue.options.Label + " upload buffer",
	}, gpu.ResourceStateGenericRead, nil)
	if err != nil {
		destination.Release()
		return nil, errors.Wrap(err, "create upload buffer")
	}

	ptr, err := intermediate.Map()
	if err != nil {
		intermediate.Release()
		destination.Release()
		return nil, errors.Wrap(err, "map upload buffer")
	}

	mapped := unsafe.Slice((*byte)(ptr), size)
	n := copy(mapped, data)
	clear(mapped[n:])
	intermediate.Unmap()

	l.native.CopyBufferRegion(destination, 0, intermediate, 0, size)
	l.TrackResource(intermediate)

	l.queue.logger.LogAttrs(context.Background(), slog.LevelDebug, "staged buffer upload",
		slog.String("queue", l.queue.options.Label),
		slog.Int("bytes", len(data)))

	return destination, nil
}
