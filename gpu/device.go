package gpu

import (
	"time"
	"unsafe"

	"github.com/gogpu/gputypes"
)

// Device creates every native object used by the renderer
type Device interface {
	CreateCommandQueue(queueType QueueType) (Queue, error)
	CreateFence(initialValue uint64) (Fence, error)
	CreateCommandAllocator(queueType QueueType) (CommandAllocator, error)
	// CreateCommandList creates a command list that is open for recording against allocator
	CreateCommandList(queueType QueueType, allocator CommandAllocator) (CommandList, error)

	CreateDescriptorHeap(desc DescriptorHeapDesc) (DescriptorHeap, error)
	// DescriptorHandleIncrementSize is the stride between adjacent slots of a heap of the given type
	DescriptorHandleIncrementSize(heapType DescriptorHeapType) uint32

	CreateCommittedResource(heapType HeapType, desc ResourceDesc, initialState ResourceStates, clearValue *ClearValue) (Resource, error)
	CreateRenderTargetView(resource Resource, dest CPUDescriptorHandle) error
	CreateDepthStencilView(resource Resource, dest CPUDescriptorHandle) error
	CreateShaderResourceView(resource Resource, dest CPUDescriptorHandle) error

	CreateSwapChain(queue Queue, window WindowHandle, desc SwapChainDesc) (SwapChain, error)

	Release()
}

type Queue interface {
	Type() QueueType
	ExecuteCommandLists(lists ...CommandList) error
	// Signal instructs the GPU to write value to fence once all previously submitted work completes
	Signal(fence Fence, value uint64) error
	Release()
}

type Fence interface {
	// CompletedValue is the highest value the GPU has written to this fence
	CompletedValue() uint64
	// Wait blocks until CompletedValue reaches value or the timeout elapses
	Wait(value uint64, timeout time.Duration) error
	Release()
}

type CommandAllocator interface {
	// Reset reclaims the memory of every command list recorded with this allocator. The GPU must
	// have finished executing all of them.
	Reset() error
	Release()
}

type CommandList interface {
	Type() QueueType
	// Reset reopens a closed command list for recording against allocator
	Reset(allocator CommandAllocator) error
	Close() error

	ResourceBarrier(resource Resource, before, after ResourceStates)
	ClearRenderTargetView(view CPUDescriptorHandle, color gputypes.Color)
	ClearDepthStencilView(view CPUDescriptorHandle, flags DepthStencilClearFlags, depth float32, stencil uint8)
	SetRenderTargets(renderTargets []CPUDescriptorHandle, depthStencil *CPUDescriptorHandle)
	SetViewports(viewports ...Viewport)
	SetScissorRects(rects ...Rect)
	CopyBufferRegion(dst Resource, dstOffset uint64, src Resource, srcOffset uint64, size uint64)

	Release()
}

type Resource interface {
	Desc() ResourceDesc
	// Map returns a CPU pointer to the resource's memory. Only upload and readback resources
	// can be mapped.
	Map() (unsafe.Pointer, error)
	Unmap()
	Release()
}

type DescriptorHeap interface {
	Desc() DescriptorHeapDesc
	CPUStart() CPUDescriptorHandle
	// GPUStart returns the zero handle for heaps that are not shader visible and a non-zero
	// handle for those that are
	GPUStart() GPUDescriptorHandle
	Release()
}

type SwapChain interface {
	Desc() SwapChainDesc
	// Buffer returns the back buffer resource at index
	Buffer(index int) (Resource, error)
	CurrentBackBufferIndex() int
	Present(syncInterval int, flags PresentFlags) error
	// ResizeBuffers recreates the back buffers. Every reference to the previous buffers must
	// have been released.
	ResizeBuffers(bufferCount int, width, height uint32, format Format) error
	Release()
}
