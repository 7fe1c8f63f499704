package descriptor

import (
	"context"
	"log/slog"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/gallus-engine/gallus/fence"
	"github.com/gallus-engine/gallus/gpu"
	"github.com/gallus-engine/gallus/heaputils"
	"github.com/gallus-engine/gallus/heaputils/freelist"
	"github.com/gallus-engine/gallus/internal/utils"
	"github.com/gallus-engine/gallus/logging"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

type liveRange struct {
	count      int
	generation uint64
}

// Page owns a single fixed-capacity descriptor heap and hands out contiguous ranges of it.
// Freed ranges are held in a stale queue and are only returned to the free list by
// ReleaseStaleDescriptors or ReleaseCompletedDescriptors, so descriptors still referenced by
// in-flight GPU work are never handed out again.
type Page struct {
	logger   *slog.Logger
	heapType gpu.DescriptorHeapType
	heap     gpu.DescriptorHeap
	cpuBase  gpu.CPUDescriptorHandle
	gpuBase  gpu.GPUDescriptorHandle
	stride   uint32

	registry *pageRegistry
	index    int

	mutex          *utils.OptionalMutex
	freeList       *freelist.FreeList
	stale          fence.Queue[freelist.Block]
	staleHandles   int
	live           *swiss.Map[int, liveRange]
	nextGeneration uint64
}

var _ heaputils.Validatable = &Page{}

// NewPage creates a standalone page with room for numDescriptors descriptors
func NewPage(logger *slog.Logger, device gpu.Device, heapType gpu.DescriptorHeapType, numDescriptors int, options CreateOptions) (*Page, error) {
	return newPage(logger, device, heapType, numDescriptors, options, newPageRegistry(options))
}

func newPage(logger *slog.Logger, device gpu.Device, heapType gpu.DescriptorHeapType, numDescriptors int, options CreateOptions, registry *pageRegistry) (*Page, error) {
	logger = logging.OrNop(logger)

	if numDescriptors <= 0 {
		return nil, errors.Wrapf(ErrInvalidCount, "attempted to create a page with %d descriptors", numDescriptors)
	}

	heap, err := device.CreateDescriptorHeap(gpu.DescriptorHeapDesc{
		Type:           heapType,
		NumDescriptors: numDescriptors,
		ShaderVisible:  options.ShaderVisible,
	})
	if err != nil {
		err = errors.Wrapf(err, "create %s descriptor heap", heapType)
		logger.LogAttrs(context.Background(), slog.LevelError, "failed to create descriptor page",
			logging.Category(logging.CategoryGraphics),
			slog.Any("error", err))
		return nil, err
	}

	page := &Page{
		logger:   logger,
		heapType: heapType,
		heap:     heap,
		cpuBase:  heap.CPUStart(),
		gpuBase:  heap.GPUStart(),
		stride:   device.DescriptorHandleIncrementSize(heapType),
		registry: registry,
		mutex:    utils.NewOptionalMutex(options.useMutex()),
		freeList: freelist.New(numDescriptors),
		live:     swiss.NewMap[int, liveRange](uint32(min(numDescriptors, 64))),
	}
	page.index = registry.add(page)

	logger.LogAttrs(context.Background(), slog.LevelDebug, "created descriptor page",
		logging.Category(logging.CategoryGraphics),
		slog.String("heapType", heapType.String()),
		slog.Int("index", page.index),
		slog.Int("descriptors", numDescriptors))

	return page, nil
}

func (p *Page) HeapType() gpu.DescriptorHeapType { return p.heapType }
func (p *Page) Heap() gpu.DescriptorHeap         { return p.heap }
func (p *Page) NumHandles() int                  { return p.freeList.Capacity() }
func (p *Page) Index() int                       { return p.index }

func (p *Page) NumFreeHandles() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return p.freeList.FreeHandles()
}

// StaleCount returns the number of freed ranges waiting to be released
func (p *Page) StaleCount() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return p.stale.Len()
}

// HasSpace returns true if a single free block can hold numDescriptors descriptors
func (p *Page) HasSpace(numDescriptors int) bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return p.freeList.HasSpace(numDescriptors)
}

// Allocate reserves numDescriptors contiguous descriptors. If the page does not have a large
// enough free block, a null allocation is returned without an error so that the caller can try
// another page.
func (p *Page) Allocate(numDescriptors int) (Allocation, error) {
	if numDescriptors <= 0 {
		return Allocation{}, errors.Wrapf(ErrInvalidCount, "attempted to allocate %d descriptors", numDescriptors)
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	if numDescriptors > p.freeList.FreeHandles() {
		return Allocation{}, nil
	}

	offset, ok := p.freeList.Allocate(numDescriptors)
	if !ok {
		return Allocation{}, nil
	}

	p.nextGeneration++
	p.live.Put(offset, liveRange{count: numDescriptors, generation: p.nextGeneration})

	alloc := Allocation{
		cpuHandle:  p.cpuBase.Offset(offset, p.stride),
		count:      numDescriptors,
		stride:     p.stride,
		generation: p.nextGeneration,
		registry:   p.registry,
		pageIndex:  p.index,
	}
	if !p.gpuBase.IsNull() {
		alloc.gpuHandle = p.gpuBase.Offset(offset, p.stride)
	}

	return alloc, nil
}

func (p *Page) computeOffset(handle gpu.CPUDescriptorHandle) (int, error) {
	if handle.Ptr < p.cpuBase.Ptr {
		return -1, errors.Wrapf(ErrForeignAllocation, "handle %#x precedes the page's heap start %#x", handle.Ptr, p.cpuBase.Ptr)
	}

	delta := handle.Ptr - p.cpuBase.Ptr
	if delta%uintptr(p.stride) != 0 {
		return -1, errors.Wrapf(ErrForeignAllocation, "handle %#x is not aligned to the page's stride %d", handle.Ptr, p.stride)
	}

	offset := int(delta / uintptr(p.stride))
	if offset >= p.freeList.Capacity() {
		return -1, errors.Wrapf(ErrForeignAllocation, "handle %#x is past the end of the page", handle.Ptr)
	}

	return offset, nil
}

func (p *Page) free(alloc *Allocation, readyWhen fence.Value) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	offset, err := p.computeOffset(alloc.cpuHandle)
	if err != nil {
		return err
	}

	live, ok := p.live.Get(offset)
	if !ok || live.generation != alloc.generation {
		return errors.Wrapf(ErrDoubleFree, "no live allocation at offset %d", offset)
	}
	if live.count != alloc.count {
		return errors.Wrapf(ErrForeignAllocation, "allocation at offset %d has %d descriptors, not %d", offset, live.count, alloc.count)
	}

	p.live.Delete(offset)
	p.stale.Push(freelist.Block{Offset: offset, Size: alloc.count}, readyWhen)
	p.staleHandles += alloc.count

	return nil
}

// ReleaseStaleDescriptors returns every stale range to the free list, merging it with its free
// neighbors. The caller must know that no GPU work still references any of them.
func (p *Page) ReleaseStaleDescriptors() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	err := p.stale.DrainAll(func(entry fence.Deferred[freelist.Block]) error {
		return p.releaseBlock(entry.Value)
	})
	heaputils.DebugValidate(p.freeList)

	return err
}

// ReleaseCompletedDescriptors returns stale ranges to the free list, in the order they were
// freed, until it reaches one whose fence value has not completed
func (p *Page) ReleaseCompletedDescriptors(completed fence.Value) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	err := p.stale.Drain(completed, p.releaseBlock)
	heaputils.DebugValidate(p.freeList)

	return err
}

func (p *Page) releaseBlock(block freelist.Block) error {
	err := p.freeList.Free(block.Offset, block.Size)
	if err != nil {
		return errors.Wrapf(err, "release stale descriptors at offset %d", block.Offset)
	}

	p.staleHandles -= block.Size
	return nil
}

func (p *Page) AddStatistics(stats *heaputils.Statistics) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.freeList.AddStatistics(stats)
	stats.AllocationCount += p.live.Count()
}

func (p *Page) AddDetailedStatistics(stats *heaputils.DetailedStatistics) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.freeList.AddDetailedStatistics(stats)
	p.live.Iter(func(offset int, live liveRange) bool {
		stats.AddAllocation(live.count)
		return false
	})
	p.stale.Visit(func(entry fence.Deferred[freelist.Block]) {
		stats.AddStaleRange(entry.Value.Size)
	})
}

func (p *Page) Validate() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	err := p.freeList.Validate()
	if err != nil {
		return err
	}

	liveHandles := 0
	p.live.Iter(func(offset int, live liveRange) bool {
		liveHandles += live.count
		return false
	})

	staleHandles := 0
	p.stale.Visit(func(entry fence.Deferred[freelist.Block]) {
		staleHandles += entry.Value.Size
	})

	if staleHandles != p.staleHandles {
		return errors.Newf("the stale handle count is %d, but the stale ranges added up to %d", p.staleHandles, staleHandles)
	}

	total := liveHandles + staleHandles + p.freeList.FreeHandles()
	if total != p.freeList.Capacity() {
		return errors.Newf("live (%d), stale (%d) and free (%d) handles add up to %d, but the page holds %d",
			liveHandles, staleHandles, p.freeList.FreeHandles(), total, p.freeList.Capacity())
	}

	return nil
}

// PrintDetailedMap populates a json object with the free, live and stale ranges of this page
func (p *Page) PrintDetailedMap(json jwriter.ObjectState) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	json.Name("HeapType").String(p.heapType.String())
	p.freeList.BlockJsonData(json)
	json.Name("StaleHandles").Int(p.staleHandles)

	offsets := make([]int, 0, p.live.Count())
	p.live.Iter(func(offset int, live liveRange) bool {
		offsets = append(offsets, offset)
		return false
	})
	sort.Ints(offsets)

	allocations := json.Name("Allocations").Array()
	for _, offset := range offsets {
		live, _ := p.live.Get(offset)
		obj := allocations.Object()
		obj.Name("Offset").Int(offset)
		obj.Name("Size").Int(live.count)
		obj.End()
	}
	allocations.End()

	stale := json.Name("StaleRanges").Array()
	p.stale.Visit(func(entry fence.Deferred[freelist.Block]) {
		obj := stale.Object()
		obj.Name("Offset").Int(entry.Value.Offset)
		obj.Name("Size").Int(entry.Value.Size)
		obj.Name("ReadyWhen").Float64(float64(entry.ReadyWhen))
		obj.End()
	})
	stale.End()
}

func (p *Page) logUnreleasedDescriptors() {
	p.live.Iter(func(offset int, live liveRange) bool {
		p.logger.LogAttrs(context.Background(), slog.LevelError, "[UNRELEASED DESCRIPTORS] unfreed allocation",
			logging.Category(logging.CategoryGraphics),
			slog.String("heapType", p.heapType.String()),
			slog.Int("page", p.index),
			slog.Int("offset", offset),
			slog.Int("size", live.count),
		)
		return false
	})
}

// Destroy releases the page's native heap. If any allocation is still live, it is logged and an
// error is returned, and the heap is left alive.
func (p *Page) Destroy() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.live.Count() > 0 {
		p.logUnreleasedDescriptors()
		return errors.Newf("%d descriptor allocations were not freed before the destruction of this page", p.live.Count())
	}

	if p.heap == nil {
		return nil
	}

	p.heap.Release()
	p.heap = nil
	return nil
}
