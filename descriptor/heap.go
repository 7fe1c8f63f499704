package descriptor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gallus-engine/gallus/gpu"
	"github.com/gallus-engine/gallus/logging"
	"github.com/google/btree"
)

// Heap wraps a single native descriptor heap whose slots are handed out one at a time by index.
// It is used for the small fixed heaps of the renderer: back buffer render target views, the
// depth stencil view, and shader resource views.
type Heap struct {
	logger *slog.Logger
	desc   gpu.DescriptorHeapDesc
	heap   gpu.DescriptorHeap
	stride uint32

	mutex sync.Mutex
	free  *btree.BTreeG[int]
}

func NewHeap(logger *slog.Logger, device gpu.Device, desc gpu.DescriptorHeapDesc) (*Heap, error) {
	logger = logging.OrNop(logger)

	if desc.NumDescriptors <= 0 {
		return nil, errors.Wrapf(ErrInvalidCount, "attempted to create a heap with %d descriptors", desc.NumDescriptors)
	}

	heap, err := device.CreateDescriptorHeap(desc)
	if err != nil {
		err = errors.Wrapf(err, "create %s descriptor heap", desc.Type)
		logger.LogAttrs(context.Background(), slog.LevelError, "failed to create descriptor heap",
			logging.Category(logging.CategoryGraphics),
			slog.Any("error", err))
		return nil, err
	}

	free := btree.NewOrderedG[int](availableSetDegree)
	for index := 0; index < desc.NumDescriptors; index++ {
		free.ReplaceOrInsert(index)
	}

	return &Heap{
		logger: logger,
		desc:   desc,
		heap:   heap,
		stride: device.DescriptorHandleIncrementSize(desc.Type),
		free:   free,
	}, nil
}

func (h *Heap) Native() gpu.DescriptorHeap   { return h.heap }
func (h *Heap) Desc() gpu.DescriptorHeapDesc { return h.desc }
func (h *Heap) Capacity() int                { return h.desc.NumDescriptors }
func (h *Heap) Type() gpu.DescriptorHeapType { return h.desc.Type }
func (h *Heap) IncrementSize() uint32        { return h.stride }

func (h *Heap) Allocated() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	return h.desc.NumDescriptors - h.free.Len()
}

// Allocate reserves the lowest free slot and returns its index
func (h *Heap) Allocate() (int, error) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	index, ok := h.free.DeleteMin()
	if !ok {
		return -1, errors.Wrapf(ErrHeapFull, "%s heap with %d descriptors", h.desc.Type, h.desc.NumDescriptors)
	}

	return index, nil
}

// Deallocate returns a slot to the heap. The slot is reusable immediately, so the caller must know
// that no GPU work still references it.
func (h *Heap) Deallocate(index int) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if index < 0 || index >= h.desc.NumDescriptors {
		return errors.Wrapf(ErrInvalidIndex, "index %d in a heap of %d descriptors", index, h.desc.NumDescriptors)
	}

	if h.free.Has(index) {
		return errors.Wrapf(ErrInvalidIndex, "index %d is not allocated", index)
	}

	h.free.ReplaceOrInsert(index)
	return nil
}

func (h *Heap) CPUHandle(index int) gpu.CPUDescriptorHandle {
	if index < 0 || index >= h.desc.NumDescriptors {
		panic(fmt.Sprintf("attempted to get the handle of descriptor %d in a heap of %d descriptors", index, h.desc.NumDescriptors))
	}

	return h.heap.CPUStart().Offset(index, h.stride)
}

// GPUHandle returns the shader-visible handle of a slot, or the zero handle if the heap is not
// shader visible
func (h *Heap) GPUHandle(index int) gpu.GPUDescriptorHandle {
	if index < 0 || index >= h.desc.NumDescriptors {
		panic(fmt.Sprintf("attempted to get the handle of descriptor %d in a heap of %d descriptors", index, h.desc.NumDescriptors))
	}

	start := h.heap.GPUStart()
	if start.IsNull() {
		return gpu.GPUDescriptorHandle{}
	}

	return start.Offset(index, h.stride)
}

func (h *Heap) Destroy() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.heap == nil {
		return
	}

	if allocated := h.desc.NumDescriptors - h.free.Len(); allocated > 0 {
		h.logger.LogAttrs(context.Background(), slog.LevelWarn, "[UNRELEASED DESCRIPTORS] descriptor heap destroyed with allocated slots",
			logging.Category(logging.CategoryGraphics),
			slog.String("heapType", h.desc.Type.String()),
			slog.Int("allocated", allocated))
	}

	h.heap.Release()
	h.heap = nil
}
