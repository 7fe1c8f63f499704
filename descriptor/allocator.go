package descriptor

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gallus-engine/gallus/fence"
	"github.com/gallus-engine/gallus/gpu"
	"github.com/gallus-engine/gallus/heaputils"
	"github.com/gallus-engine/gallus/internal/utils"
	"github.com/gallus-engine/gallus/logging"
	"github.com/google/btree"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

const availableSetDegree = 4

// Allocator presents a growable pool of pages of one descriptor heap type as a single allocator.
// Pages are created on demand and are never destroyed before the allocator itself, so a
// descriptor handle can never be invalidated while something still refers to it.
type Allocator struct {
	logger             *slog.Logger
	device             gpu.Device
	heapType           gpu.DescriptorHeapType
	options            CreateOptions
	descriptorsPerPage int

	mutex     *utils.OptionalMutex
	registry  *pageRegistry
	available *btree.BTreeG[int]
}

// New creates an allocator for heapType. No page is created until the first allocation.
func New(logger *slog.Logger, device gpu.Device, heapType gpu.DescriptorHeapType, options CreateOptions) (*Allocator, error) {
	if device == nil {
		return nil, errors.New("attempted to create a descriptor allocator without a device")
	}

	if options.ShaderVisible && (heapType == gpu.DescriptorHeapTypeRTV || heapType == gpu.DescriptorHeapTypeDSV) {
		return nil, errors.Newf("%s heaps cannot be shader visible", heapType)
	}

	if options.DescriptorsPerPage < 0 {
		return nil, errors.Wrapf(ErrInvalidCount, "DescriptorsPerPage is %d", options.DescriptorsPerPage)
	}

	return &Allocator{
		logger:             logging.OrNop(logger),
		device:             device,
		heapType:           heapType,
		options:            options,
		descriptorsPerPage: options.descriptorsPerPage(),
		mutex:              utils.NewOptionalMutex(options.useMutex()),
		registry:           newPageRegistry(options),
		available:          btree.NewOrderedG[int](availableSetDegree),
	}, nil
}

func (a *Allocator) HeapType() gpu.DescriptorHeapType { return a.heapType }
func (a *Allocator) DescriptorsPerPage() int          { return a.descriptorsPerPage }
func (a *Allocator) PageCount() int                   { return a.registry.count() }

// Page returns the page at index, or nil if there is no such page
func (a *Allocator) Page(index int) *Page {
	return a.registry.page(index)
}

// Allocate reserves numDescriptors contiguous descriptors from the first available page, in
// page creation order, that can hold them. If no page can, a new page is created with room for
// at least numDescriptors descriptors.
func (a *Allocator) Allocate(numDescriptors int) (Allocation, error) {
	if numDescriptors <= 0 {
		return Allocation{}, errors.Wrapf(ErrInvalidCount, "attempted to allocate %d descriptors", numDescriptors)
	}

	a.mutex.Lock()
	defer a.mutex.Unlock()

	var result Allocation
	var allocErr error
	var exhausted []int

	a.available.Ascend(func(index int) bool {
		page := a.registry.page(index)

		alloc, err := page.Allocate(numDescriptors)
		if err != nil {
			allocErr = err
			return false
		}

		if page.NumFreeHandles() == 0 {
			exhausted = append(exhausted, index)
		}

		if alloc.IsNull() {
			return true
		}

		result = alloc
		return false
	})

	for _, index := range exhausted {
		a.available.Delete(index)
	}

	if allocErr != nil {
		return Allocation{}, allocErr
	}

	if !result.IsNull() {
		return result, nil
	}

	page, err := a.createPage(max(a.descriptorsPerPage, numDescriptors))
	if err != nil {
		return Allocation{}, err
	}

	result, err = page.Allocate(numDescriptors)
	if err != nil {
		return Allocation{}, err
	}
	if result.IsNull() {
		panic("a freshly created descriptor page could not satisfy the allocation it was sized for")
	}

	if page.NumFreeHandles() == 0 {
		a.available.Delete(page.Index())
	}

	return result, nil
}

func (a *Allocator) createPage(numDescriptors int) (*Page, error) {
	page, err := newPage(a.logger, a.device, a.heapType, numDescriptors, a.options, a.registry)
	if err != nil {
		return nil, err
	}

	a.available.ReplaceOrInsert(page.Index())
	return page, nil
}

// ReleaseStaleDescriptors releases the stale descriptors of every page, making pages that had
// been exhausted available again
func (a *Allocator) ReleaseStaleDescriptors() error {
	return a.release(func(page *Page) error {
		return page.ReleaseStaleDescriptors()
	})
}

// ReleaseCompletedDescriptors releases the stale descriptors of every page whose fence value has
// been reached
func (a *Allocator) ReleaseCompletedDescriptors(completed fence.Value) error {
	return a.release(func(page *Page) error {
		return page.ReleaseCompletedDescriptors(completed)
	})
}

func (a *Allocator) release(releasePage func(page *Page) error) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	var err error
	pageCount := a.registry.count()
	for index := 0; index < pageCount; index++ {
		page := a.registry.page(index)

		releaseErr := releasePage(page)
		if releaseErr != nil {
			releaseErr = errors.Wrapf(releaseErr, "page %d", index)
			a.logger.LogAttrs(context.Background(), slog.LevelError, "failed to release stale descriptors",
				logging.Category(logging.CategoryGraphics),
				slog.Any("error", releaseErr))
			err = errors.CombineErrors(err, releaseErr)
		}

		if page.NumFreeHandles() > 0 {
			a.available.ReplaceOrInsert(index)
		}
	}

	return err
}

// AvailablePages returns the indices of the pages that currently have free handles, in the
// order they will be searched
func (a *Allocator) AvailablePages() []int {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	indices := make([]int, 0, a.available.Len())
	a.available.Ascend(func(index int) bool {
		indices = append(indices, index)
		return true
	})

	return indices
}

func (a *Allocator) CalculateStatistics(stats *heaputils.DetailedStatistics) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	stats.Clear()
	pageCount := a.registry.count()
	for index := 0; index < pageCount; index++ {
		a.registry.page(index).AddDetailedStatistics(stats)
	}
}

func (a *Allocator) AddStatistics(stats *heaputils.Statistics) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	pageCount := a.registry.count()
	for index := 0; index < pageCount; index++ {
		a.registry.page(index).AddStatistics(stats)
	}
}

func (a *Allocator) Validate() error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	pageCount := a.registry.count()
	for index := 0; index < pageCount; index++ {
		page := a.registry.page(index)
		if page == nil {
			return errors.Newf("page %d is nil", index)
		}

		err := page.Validate()
		if err != nil {
			return errors.Wrapf(err, "page %d", index)
		}

		if page.NumFreeHandles() == 0 && a.available.Has(index) {
			return errors.Newf("page %d has no free handles but is in the available set", index)
		}
	}

	return nil
}

// BuildStatsString returns a json document describing this allocator's usage. When detailed is
// true, every page's free, live and stale ranges are included.
func (a *Allocator) BuildStatsString(detailed bool) string {
	var stats heaputils.DetailedStatistics
	a.CalculateStatistics(&stats)

	writer := jwriter.NewWriter()
	a.PrintStats(&writer, &stats, detailed)

	return string(writer.Bytes())
}

// PrintStats writes this allocator's json document to writer
func (a *Allocator) PrintStats(writer *jwriter.Writer, stats *heaputils.DetailedStatistics, detailed bool) {
	obj := writer.Object()
	defer obj.End()

	a.PrintJson(obj, stats, detailed)
}

// PrintJson populates a json object with this allocator's usage
func (a *Allocator) PrintJson(obj jwriter.ObjectState, stats *heaputils.DetailedStatistics, detailed bool) {
	obj.Name("HeapType").String(a.heapType.String())
	obj.Name("DescriptorsPerPage").Int(a.descriptorsPerPage)

	totalObj := obj.Name("Total").Object()
	stats.PrintJson(totalObj)
	totalObj.End()

	if !detailed {
		return
	}

	a.mutex.Lock()
	defer a.mutex.Unlock()

	pagesObj := obj.Name("Pages").Object()
	defer pagesObj.End()

	pageCount := a.registry.count()
	for index := 0; index < pageCount; index++ {
		pageObj := pagesObj.Name(strconv.Itoa(index)).Object()
		a.registry.page(index).PrintDetailedMap(pageObj)
		pageObj.End()
	}
}

// Destroy releases every page. If any allocation is still live, it is logged, its page is left
// alive, and an error is returned.
func (a *Allocator) Destroy() error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	var err error
	pageCount := a.registry.count()
	for index := 0; index < pageCount; index++ {
		destroyErr := a.registry.page(index).Destroy()
		if destroyErr != nil {
			err = errors.CombineErrors(err, errors.Wrapf(destroyErr, "page %d", index))
		}
	}

	if err != nil {
		a.logger.LogAttrs(context.Background(), slog.LevelError, "[UNRELEASED DESCRIPTORS] descriptor allocator destroyed with live allocations",
			logging.Category(logging.CategoryGraphics),
			slog.String("heapType", a.heapType.String()),
			slog.Any("error", err))
		return err
	}

	a.available.Clear(false)
	return nil
}
