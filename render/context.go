package render

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/gallus-engine/gallus/command"
	"github.com/gallus-engine/gallus/descriptor"
	"github.com/gallus-engine/gallus/fence"
	"github.com/gallus-engine/gallus/gpu"
	"github.com/gallus-engine/gallus/heaputils"
	"github.com/gallus-engine/gallus/logging"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

var queueTypes = [...]gpu.QueueType{gpu.QueueTypeDirect, gpu.QueueTypeCompute, gpu.QueueTypeCopy}

// Context holds every GPU object shared by the renderer: one command queue per queue type, one
// descriptor allocator per descriptor heap type, the fixed render target, depth stencil and
// shader resource heaps, and the shader resource view cache.
type Context struct {
	logger  *slog.Logger
	device  gpu.Device
	options CreateOptions

	queues     [len(queueTypes)]*command.Queue
	allocators [gpu.DescriptorHeapTypeCount]*descriptor.Allocator

	rtvHeap *descriptor.Heap
	dsvHeap *descriptor.Heap
	srvHeap *descriptor.Heap
	views   *descriptor.ViewCache
}

// NewContext creates the queues, allocators, heaps and view cache on device. If anything fails,
// whatever was already created is destroyed again.
func NewContext(logger *slog.Logger, device gpu.Device, options CreateOptions) (*Context, error) {
	logger = logging.OrNop(logger)

	if device == nil {
		return nil, errors.New("attempted to create a render context without a device")
	}

	c := &Context{
		logger:  logger.With(logging.Category(logging.CategoryGraphics)),
		device:  device,
		options: options,
	}

	if err := c.initialize(); err != nil {
		c.logger.LogAttrs(context.Background(), slog.LevelError, "failed to create render context",
			slog.Any("error", err))
		destroyErr := c.Destroy()
		return nil, errors.CombineErrors(err, destroyErr)
	}

	return c, nil
}

func (c *Context) initialize() error {
	var queueFlags command.CreateFlags
	var allocatorFlags descriptor.CreateFlags
	if c.options.externallySynchronized() {
		queueFlags |= command.CreateExternallySynchronized
		allocatorFlags |= descriptor.CreateExternallySynchronized
	}

	for i, queueType := range queueTypes {
		queue, err := command.NewQueue(c.logger, c.device, queueType, command.CreateOptions{Flags: queueFlags})
		if err != nil {
			return err
		}
		c.queues[i] = queue
	}

	for heapType := range gpu.DescriptorHeapTypeCount {
		allocator, err := descriptor.New(c.logger, c.device, gpu.DescriptorHeapType(heapType), descriptor.CreateOptions{
			Flags:              allocatorFlags,
			DescriptorsPerPage: c.options.DescriptorsPerPage,
		})
		if err != nil {
			return errors.Wrapf(err, "create %s descriptor allocator", gpu.DescriptorHeapType(heapType))
		}
		c.allocators[heapType] = allocator
	}

	var err error
	c.rtvHeap, err = descriptor.NewHeap(c.logger, c.device, gpu.DescriptorHeapDesc{
		Type:           gpu.DescriptorHeapTypeRTV,
		NumDescriptors: c.options.renderTargetCount(),
	})
	if err != nil {
		return err
	}

	c.dsvHeap, err = descriptor.NewHeap(c.logger, c.device, gpu.DescriptorHeapDesc{
		Type:           gpu.DescriptorHeapTypeDSV,
		NumDescriptors: 1,
	})
	if err != nil {
		return err
	}

	c.srvHeap, err = descriptor.NewHeap(c.logger, c.device, gpu.DescriptorHeapDesc{
		Type:           gpu.DescriptorHeapTypeCBVSRVUAV,
		NumDescriptors: c.options.shaderResourceCount(),
		ShaderVisible:  true,
	})
	if err != nil {
		return err
	}

	c.views, err = descriptor.NewViewCache(c.logger, c.device, c.allocators[gpu.DescriptorHeapTypeCBVSRVUAV], c.options.viewCacheSize(),
		c.nextFrameFenceValue)
	return err
}

// nextFrameFenceValue is the earliest direct queue value that covers the list being recorded
func (c *Context) nextFrameFenceValue() fence.Value {
	return c.CommandQueue(gpu.QueueTypeDirect).LastSignaledValue() + 1
}

// FreeDescriptors frees alloc once the direct queue has finished the work recorded so far,
// including the list currently being recorded
func (c *Context) FreeDescriptors(alloc *descriptor.Allocation) error {
	return alloc.FreeAfter(c.nextFrameFenceValue())
}

func (c *Context) Device() gpu.Device               { return c.device }
func (c *Context) RTVHeap() *descriptor.Heap        { return c.rtvHeap }
func (c *Context) DSVHeap() *descriptor.Heap        { return c.dsvHeap }
func (c *Context) SRVHeap() *descriptor.Heap        { return c.srvHeap }
func (c *Context) ViewCache() *descriptor.ViewCache { return c.views }

// CommandQueue returns the context's queue of the requested type
func (c *Context) CommandQueue(queueType gpu.QueueType) *command.Queue {
	for i, t := range queueTypes {
		if t == queueType {
			return c.queues[i]
		}
	}

	return nil
}

// DescriptorAllocator returns the context's allocator for the requested heap type
func (c *Context) DescriptorAllocator(heapType gpu.DescriptorHeapType) *descriptor.Allocator {
	if heapType < 0 || int(heapType) >= len(c.allocators) {
		return nil
	}

	return c.allocators[heapType]
}

// ShaderResourceView returns the cached shader resource view of resource
func (c *Context) ShaderResourceView(resource gpu.Resource) (descriptor.Allocation, error) {
	return c.views.View(resource)
}

// Flush waits for every queue to drain
func (c *Context) Flush() error {
	var err error
	for _, queue := range c.queues {
		if queue != nil {
			err = errors.CombineErrors(err, queue.Flush())
		}
	}

	return err
}

// ReleaseCompletedDescriptors returns every freed descriptor whose fence value the direct queue
// has reached to its allocator
func (c *Context) ReleaseCompletedDescriptors() error {
	completed := c.CommandQueue(gpu.QueueTypeDirect).CompletedValue()

	var err error
	for _, allocator := range c.allocators {
		err = errors.CombineErrors(err, allocator.ReleaseCompletedDescriptors(completed))
	}

	return err
}

// BuildStatsString returns a json document describing the context's queues and descriptor usage
func (c *Context) BuildStatsString(detailed bool) string {
	writer := jwriter.NewWriter()
	obj := writer.Object()

	queuesArray := obj.Name("Queues").Array()
	for _, queue := range c.queues {
		stats := queue.Statistics()

		queueObj := queuesArray.Object()
		queueObj.Name("Type").String(queue.Type().String())
		queueObj.Name("AllocatorsCreated").Int(stats.AllocatorsCreated)
		queueObj.Name("ListsCreated").Int(stats.ListsCreated)
		queueObj.Name("PendingAllocators").Int(stats.PendingAllocators)
		queueObj.Name("PooledLists").Int(stats.PooledLists)
		queueObj.Name("LastSignaled").Int(int(stats.LastSignaled))
		queueObj.Name("Completed").Int(int(stats.Completed))
		queueObj.End()
	}
	queuesArray.End()

	allocatorsArray := obj.Name("DescriptorAllocators").Array()
	for _, allocator := range c.allocators {
		var stats heaputils.DetailedStatistics
		allocator.CalculateStatistics(&stats)

		allocatorObj := allocatorsArray.Object()
		allocator.PrintJson(allocatorObj, &stats, detailed)
		allocatorObj.End()
	}
	allocatorsArray.End()

	heapsObj := obj.Name("Heaps").Object()
	for _, heap := range []*descriptor.Heap{c.rtvHeap, c.dsvHeap, c.srvHeap} {
		heapObj := heapsObj.Name(heap.Type().String()).Object()
		heapObj.Name("Capacity").Int(heap.Capacity())
		heapObj.Name("Allocated").Int(heap.Allocated())
		heapObj.End()
	}
	heapsObj.End()

	obj.Name("CachedViews").Int(c.views.Len())
	obj.End()

	return string(writer.Bytes())
}

// Destroy flushes every queue and releases everything the context created. Cached views are
// freed first so that their descriptors do not count as leaks.
func (c *Context) Destroy() error {
	var err error

	if c.views != nil {
		c.views.Purge()
		c.views = nil
	}

	if flushErr := c.Flush(); flushErr != nil {
		return errors.Wrap(flushErr, "flush before destroying render context")
	}

	for _, heap := range []**descriptor.Heap{&c.srvHeap, &c.dsvHeap, &c.rtvHeap} {
		if *heap != nil {
			(*heap).Destroy()
			*heap = nil
		}
	}

	for heapType, allocator := range c.allocators {
		if allocator == nil {
			continue
		}

		if releaseErr := allocator.ReleaseStaleDescriptors(); releaseErr != nil {
			err = errors.CombineErrors(err, releaseErr)
		}
		if destroyErr := allocator.Destroy(); destroyErr != nil {
			err = errors.CombineErrors(err, destroyErr)
			continue
		}
		c.allocators[heapType] = nil
	}

	for i, queue := range c.queues {
		if queue == nil {
			continue
		}

		if destroyErr := queue.Destroy(); destroyErr != nil {
			err = errors.CombineErrors(err, destroyErr)
			continue
		}
		c.queues[i] = nil
	}

	return err
}
