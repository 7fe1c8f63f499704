package halgpu

import (
	"log/slog"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/gallus-engine/gallus/gpu"
	"github.com/gallus-engine/gallus/heaputils"
	"github.com/gallus-engine/gallus/logging"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Device implements gpu.Device on top of a wgpu hal device. Every queue type shares the single
// hal queue, and descriptor heaps are emulated on the CPU: a descriptor handle encodes the heap
// and slot, and views are resolved to hal texture views when commands are recorded.
type Device struct {
	logger   *slog.Logger
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	info     gputypes.AdapterInfo

	mutex          sync.Mutex
	lastSubmission uint64
	heaps          *swiss.Map[uint32, *descriptorHeap]
	nextHeapID     uint32
	released       bool
}

var _ gpu.Device = &Device{}

// Open selects a backend and adapter and opens a device on it. Discrete and integrated adapters
// are preferred over anything else the backend exposes.
func Open(logger *slog.Logger, options CreateOptions) (*Device, error) {
	backend, err := options.selectBackend()
	if err != nil {
		return nil, err
	}

	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{
		Backends: options.Backends,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "create %s instance", backend.Variant())
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, errors.Newf("the %s backend exposed no adapters", backend.Variant())
	}

	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}

	openDevice, err := selected.Adapter.Open(options.Features, options.limits())
	if err != nil {
		instance.Destroy()
		return nil, errors.Wrapf(err, "open adapter %q", selected.Info.Name)
	}

	device := NewDevice(logger, instance, openDevice)
	device.info = selected.Info
	device.logger.Info("opened graphics device",
		slog.String("label", options.Label),
		slog.String("backend", backend.Variant().String()),
		slog.String("adapter", selected.Info.Name),
		slog.String("driver", selected.Info.Driver),
	)

	return device, nil
}

// NewDevice wraps an already opened hal device. The Device takes ownership of the instance and
// the device and destroys both on Release. instance may be nil if no swap chains are needed.
func NewDevice(logger *slog.Logger, instance hal.Instance, openDevice hal.OpenDevice) *Device {
	return &Device{
		logger:   logging.OrNop(logger).With(logging.Category(logging.CategoryGraphics)),
		instance: instance,
		device:   openDevice.Device,
		queue:    openDevice.Queue,
		heaps:    swiss.NewMap[uint32, *descriptorHeap](8),
	}
}

func (d *Device) AdapterInfo() gputypes.AdapterInfo { return d.info }
func (d *Device) HalDevice() hal.Device             { return d.device }
func (d *Device) HalQueue() hal.Queue               { return d.queue }

func (d *Device) submit(buffers []hal.CommandBuffer) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	index, err := d.queue.Submit(buffers)
	if err != nil {
		return errors.Wrap(err, "submit command buffers")
	}

	d.lastSubmission = index
	return nil
}

func (d *Device) lastSubmitted() uint64 {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	return d.lastSubmission
}

func (d *Device) CreateCommandQueue(queueType gpu.QueueType) (gpu.Queue, error) {
	return &queue{device: d, queueType: queueType}, nil
}

func (d *Device) CreateFence(initialValue uint64) (gpu.Fence, error) {
	return &timelineFence{
		device:    d,
		completed: initialValue,
		signaled:  initialValue,
	}, nil
}

func (d *Device) CreateCommandAllocator(queueType gpu.QueueType) (gpu.CommandAllocator, error) {
	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: queueType.String(),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "create %s command encoder", queueType)
	}

	return &commandAllocator{device: d, queueType: queueType, encoder: encoder}, nil
}

func (d *Device) CreateCommandList(queueType gpu.QueueType, allocator gpu.CommandAllocator) (gpu.CommandList, error) {
	list := &commandList{device: d, queueType: queueType}
	if err := list.Reset(allocator); err != nil {
		return nil, err
	}

	return list, nil
}

func (d *Device) CreateDescriptorHeap(desc gpu.DescriptorHeapDesc) (gpu.DescriptorHeap, error) {
	if err := heaputils.CheckPositive(desc.NumDescriptors, "NumDescriptors"); err != nil {
		return nil, err
	}
	if desc.NumDescriptors > maxHeapDescriptors {
		return nil, errors.Newf("descriptor heap may hold at most %d descriptors, requested %d", maxHeapDescriptors, desc.NumDescriptors)
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.nextHeapID++
	heap := &descriptorHeap{
		device: d,
		id:     d.nextHeapID,
		desc:   desc,
		slots:  make([]*resource, desc.NumDescriptors),
	}
	d.heaps.Put(heap.id, heap)

	return heap, nil
}

func (d *Device) DescriptorHandleIncrementSize(heapType gpu.DescriptorHeapType) uint32 {
	return descriptorIncrement
}

func (d *Device) CreateCommittedResource(heapType gpu.HeapType, desc gpu.ResourceDesc, initialState gpu.ResourceStates, clearValue *gpu.ClearValue) (gpu.Resource, error) {
	switch desc.Dimension {
	case gpu.ResourceDimensionBuffer:
		buffer, err := d.device.CreateBuffer(&hal.BufferDescriptor{
			Label: desc.Label,
			Size:  desc.Width,
			Usage: bufferUsage(heapType),
		})
		if err != nil {
			return nil, errors.Wrapf(err, "create buffer %q", desc.Label)
		}

		return &resource{device: d, desc: desc, kind: resourceKindBuffer, buffer: buffer}, nil
	case gpu.ResourceDimensionTexture2D:
		texture, err := d.device.CreateTexture(&hal.TextureDescriptor{
			Label: desc.Label,
			Size: hal.Extent3D{
				Width:              uint32(desc.Width),
				Height:             desc.Height,
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   1,
			Dimension:     gputypes.TextureDimension2D,
			Format:        desc.Format,
			Usage:         textureUsage(desc.Flags),
		})
		if err != nil {
			return nil, errors.Wrapf(err, "create texture %q", desc.Label)
		}

		return &resource{device: d, desc: desc, kind: resourceKindTexture, texture: texture}, nil
	}

	return nil, errors.Newf("unsupported resource dimension %s", desc.Dimension)
}

func (d *Device) CreateRenderTargetView(res gpu.Resource, dest gpu.CPUDescriptorHandle) error {
	return d.writeDescriptor(gpu.DescriptorHeapTypeRTV, res, dest)
}

func (d *Device) CreateDepthStencilView(res gpu.Resource, dest gpu.CPUDescriptorHandle) error {
	return d.writeDescriptor(gpu.DescriptorHeapTypeDSV, res, dest)
}

func (d *Device) CreateShaderResourceView(res gpu.Resource, dest gpu.CPUDescriptorHandle) error {
	return d.writeDescriptor(gpu.DescriptorHeapTypeCBVSRVUAV, res, dest)
}

func (d *Device) CreateSwapChain(q gpu.Queue, window gpu.WindowHandle, desc gpu.SwapChainDesc) (gpu.SwapChain, error) {
	if d.instance == nil {
		return nil, errors.New("swap chains require a device opened with an instance")
	}
	if _, ok := q.(*queue); !ok {
		return nil, errors.Newf("swap chain queue %T was not created by this device", q)
	}
	if desc.BufferCount <= 0 {
		return nil, errors.Newf("swap chain requires at least one buffer, requested %d", desc.BufferCount)
	}

	surface, err := d.instance.CreateSurface(window.Display, window.Window)
	if err != nil {
		return nil, errors.Wrap(err, "create surface")
	}

	swapChain := &swapChain{device: d, surface: surface, desc: desc}
	if err := swapChain.configure(); err != nil {
		surface.Destroy()
		return nil, err
	}
	swapChain.createBuffers()

	return swapChain, nil
}

// Release waits for the queue to drain and destroys the device and instance. Every object
// created from the device must already have been released.
func (d *Device) Release() {
	d.mutex.Lock()
	if d.released {
		d.mutex.Unlock()
		return
	}
	d.released = true
	liveHeaps := d.heaps.Count()
	d.mutex.Unlock()

	if liveHeaps > 0 {
		d.logger.Warn("releasing device with live descriptor heaps", slog.Int("heaps", liveHeaps))
	}

	if err := d.device.WaitIdle(); err != nil {
		d.logger.Error("wait for device idle", slog.Any("error", err))
	}

	d.device.Destroy()
	if d.instance != nil {
		d.instance.Destroy()
	}
}
