package descriptor

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/gallus-engine/gallus/fence"
	"github.com/gallus-engine/gallus/gpu"
	"github.com/gallus-engine/gallus/internal/utils"
)

// pageRegistry owns every page of one allocator. Pages are only ever appended, so an index into
// the registry stays valid for the lifetime of the allocator. Allocations refer to their page by
// index rather than by pointer and do nothing to extend the page's lifetime.
type pageRegistry struct {
	mutex *utils.OptionalRWMutex
	pages []*Page
}

func newPageRegistry(options CreateOptions) *pageRegistry {
	return &pageRegistry{mutex: utils.NewOptionalRWMutex(options.useMutex())}
}

func (r *pageRegistry) add(page *Page) int {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.pages = append(r.pages, page)
	return len(r.pages) - 1
}

func (r *pageRegistry) page(index int) *Page {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if index < 0 || index >= len(r.pages) {
		return nil
	}

	return r.pages[index]
}

func (r *pageRegistry) count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.pages)
}

// Allocation is a contiguous range of descriptor slots borrowed from a Page. The zero value is a
// null allocation.
//
// Freeing an allocation does not make its slots reusable immediately: the range is queued on its
// page as stale, and only becomes allocatable again after the page's stale descriptors are released.
type Allocation struct {
	cpuHandle  gpu.CPUDescriptorHandle
	gpuHandle  gpu.GPUDescriptorHandle
	count      int
	stride     uint32
	generation uint64

	registry  *pageRegistry
	pageIndex int
}

func (a *Allocation) IsNull() bool { return a.count == 0 }
func (a *Allocation) Count() int   { return a.count }
func (a *Allocation) Stride() uint32 {
	return a.stride
}

// CPUHandle returns the handle of the descriptor at offset within this allocation
func (a *Allocation) CPUHandle(offset int) gpu.CPUDescriptorHandle {
	if offset < 0 || offset >= a.count {
		panic(fmt.Sprintf("attempted to get descriptor %d of an allocation with %d descriptors", offset, a.count))
	}

	return a.cpuHandle.Offset(offset, a.stride)
}

// GPUHandle returns the shader-visible handle of the descriptor at offset within this allocation,
// or the zero handle if the allocation came from a heap that is not shader visible
func (a *Allocation) GPUHandle(offset int) gpu.GPUDescriptorHandle {
	if offset < 0 || offset >= a.count {
		panic(fmt.Sprintf("attempted to get descriptor %d of an allocation with %d descriptors", offset, a.count))
	}

	if a.gpuHandle.IsNull() {
		return gpu.GPUDescriptorHandle{}
	}

	return a.gpuHandle.Offset(offset, a.stride)
}

// Page returns the page this allocation was made from, or nil for a null allocation
func (a *Allocation) Page() *Page {
	if a.IsNull() || a.registry == nil {
		return nil
	}

	return a.registry.page(a.pageIndex)
}

// Move transfers the allocation to the return value and leaves the receiver null
func (a *Allocation) Move() Allocation {
	moved := *a
	a.reset()
	return moved
}

// Free queues this allocation's range on its page to be reclaimed by the next release pass
func (a *Allocation) Free() error {
	return a.FreeAfter(0)
}

// FreeAfter queues this allocation's range on its page, to be reclaimed once the page is released
// with a completed fence value of at least readyWhen. ReleaseStaleDescriptors reclaims it
// regardless of the fence value.
func (a *Allocation) FreeAfter(readyWhen fence.Value) error {
	if a.IsNull() {
		return ErrNullAllocation
	}

	page := a.Page()
	if page == nil {
		return errors.Wrapf(ErrForeignAllocation, "page index %d is not registered", a.pageIndex)
	}

	err := page.free(a, readyWhen)
	if err != nil {
		return err
	}

	a.reset()
	return nil
}

func (a *Allocation) reset() {
	*a = Allocation{}
}
