package descriptor

import (
	"context"
	"log/slog"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gallus-engine/gallus/fence"
	"github.com/gallus-engine/gallus/gpu"
	"github.com/gallus-engine/gallus/logging"
	lru "github.com/hashicorp/golang-lru/v2"
)

// ViewCache keeps shader resource views for the most recently used resources. Evicted views are
// freed with the fence value returned by readyWhen, so their descriptors are only recycled once
// the GPU work that might still sample them has completed.
type ViewCache struct {
	logger    *slog.Logger
	device    gpu.Device
	allocator *Allocator
	readyWhen func() fence.Value

	mutex sync.Mutex
	cache *lru.Cache[gpu.Resource, *Allocation]
}

func NewViewCache(logger *slog.Logger, device gpu.Device, allocator *Allocator, size int, readyWhen func() fence.Value) (*ViewCache, error) {
	if allocator == nil {
		return nil, errors.New("attempted to create a view cache without a descriptor allocator")
	}
	if allocator.HeapType() != gpu.DescriptorHeapTypeCBVSRVUAV {
		return nil, errors.Newf("view cache requires a %s allocator, not %s", gpu.DescriptorHeapTypeCBVSRVUAV, allocator.HeapType())
	}
	if readyWhen == nil {
		readyWhen = func() fence.Value { return 0 }
	}

	c := &ViewCache{
		logger:    logging.OrNop(logger),
		device:    device,
		allocator: allocator,
		readyWhen: readyWhen,
	}

	cache, err := lru.NewWithEvict[gpu.Resource, *Allocation](size, c.freeOnEviction)
	if err != nil {
		return nil, errors.Wrap(err, "create view cache")
	}
	c.cache = cache

	return c, nil
}

func (c *ViewCache) freeOnEviction(resource gpu.Resource, alloc *Allocation) {
	err := alloc.FreeAfter(c.readyWhen())
	if err != nil {
		c.logger.LogAttrs(context.Background(), slog.LevelError, "failed to free evicted shader resource view",
			logging.Category(logging.CategoryGraphics),
			slog.Any("error", err))
	}
}

// View returns the shader resource view of resource, creating it if it is not cached. The
// returned allocation is a copy of the one owned by the cache and must not be freed by the
// caller; use Remove to drop it.
func (c *ViewCache) View(resource gpu.Resource) (Allocation, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	cached, ok := c.cache.Get(resource)
	if ok {
		return *cached, nil
	}

	alloc, err := c.allocator.Allocate(1)
	if err != nil {
		return Allocation{}, errors.Wrap(err, "allocate shader resource view")
	}

	err = c.device.CreateShaderResourceView(resource, alloc.CPUHandle(0))
	if err != nil {
		freeErr := alloc.Free()
		err = errors.CombineErrors(errors.Wrap(err, "create shader resource view"), freeErr)
		c.logger.LogAttrs(context.Background(), slog.LevelError, "failed to create shader resource view",
			logging.Category(logging.CategoryGraphics),
			slog.Any("error", err))
		return Allocation{}, err
	}

	c.cache.Add(resource, &alloc)
	return alloc, nil
}

// Remove drops the view of resource, freeing its descriptor. It should be called before the
// resource is released.
func (c *ViewCache) Remove(resource gpu.Resource) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.cache.Remove(resource)
}

func (c *ViewCache) Contains(resource gpu.Resource) bool {
	return c.cache.Contains(resource)
}

func (c *ViewCache) Len() int {
	return c.cache.Len()
}

// Purge drops every view in the cache
func (c *ViewCache) Purge() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache.Purge()
}
