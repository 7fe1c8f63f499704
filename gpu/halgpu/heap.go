package halgpu

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gallus-engine/gallus/gpu"
	"github.com/gogpu/wgpu/hal"
)

const (
	descriptorIncrement = 32
	heapIDShift         = 32
	// maxHeapDescriptors keeps every slot offset below the heap ID bits of a handle
	maxHeapDescriptors = (1 << heapIDShift) / descriptorIncrement
)

// descriptorHeap stores, for each slot, the resource a view was written for. Handles encode the
// heap ID in the upper bits and the byte offset of the slot in the lower bits, so handle 0 is
// never valid.
type descriptorHeap struct {
	device *Device
	id     uint32
	desc   gpu.DescriptorHeapDesc

	mutex sync.Mutex
	slots []*resource
}

var _ gpu.DescriptorHeap = &descriptorHeap{}

func (h *descriptorHeap) Desc() gpu.DescriptorHeapDesc { return h.desc }

func (h *descriptorHeap) CPUStart() gpu.CPUDescriptorHandle {
	return gpu.CPUDescriptorHandle{Ptr: uintptr(uint64(h.id) << heapIDShift)}
}

func (h *descriptorHeap) GPUStart() gpu.GPUDescriptorHandle {
	if !h.desc.ShaderVisible {
		return gpu.GPUDescriptorHandle{}
	}

	return gpu.GPUDescriptorHandle{Ptr: uint64(h.id) << heapIDShift}
}

func (h *descriptorHeap) Release() {
	h.device.mutex.Lock()
	h.device.heaps.Delete(h.id)
	h.device.mutex.Unlock()

	h.mutex.Lock()
	defer h.mutex.Unlock()

	clear(h.slots)
}

func (h *descriptorHeap) write(slot int, res *resource) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.slots[slot] = res
}

func (h *descriptorHeap) read(slot int) *resource {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	return h.slots[slot]
}

// resolveHandle finds the heap and slot a CPU handle points at
func (d *Device) resolveHandle(heapType gpu.DescriptorHeapType, handle gpu.CPUDescriptorHandle) (*descriptorHeap, int, error) {
	ptr := uint64(handle.Ptr)
	id := uint32(ptr >> heapIDShift)
	offset := ptr & (1<<heapIDShift - 1)

	d.mutex.Lock()
	heap, ok := d.heaps.Get(id)
	d.mutex.Unlock()

	if !ok {
		return nil, 0, errors.Wrapf(gpu.ErrUnknownHandle, "handle %#x", ptr)
	}
	if heap.desc.Type != heapType {
		return nil, 0, errors.Wrapf(gpu.ErrUnknownHandle, "handle %#x belongs to a %s heap, expected %s", ptr, heap.desc.Type, heapType)
	}
	if offset%descriptorIncrement != 0 || int(offset/descriptorIncrement) >= len(heap.slots) {
		return nil, 0, errors.Wrapf(gpu.ErrUnknownHandle, "handle %#x is outside its heap of %d descriptors", ptr, len(heap.slots))
	}

	return heap, int(offset / descriptorIncrement), nil
}

func (d *Device) writeDescriptor(heapType gpu.DescriptorHeapType, res gpu.Resource, dest gpu.CPUDescriptorHandle) error {
	r, ok := res.(*resource)
	if !ok {
		return errors.Newf("resource %T was not created by this device", res)
	}

	heap, slot, err := d.resolveHandle(heapType, dest)
	if err != nil {
		return err
	}

	switch heapType {
	case gpu.DescriptorHeapTypeRTV:
		if r.kind == resourceKindBuffer {
			return errors.Newf("cannot create a render target view of buffer %q", r.desc.Label)
		}
	case gpu.DescriptorHeapTypeDSV:
		if r.kind == resourceKindBuffer || !r.desc.Format.HasDepth() {
			return errors.Newf("cannot create a depth stencil view of %q with format %s", r.desc.Label, r.desc.Format)
		}
	}

	heap.write(slot, r)
	return nil
}

// resolveView returns the hal texture view a descriptor handle refers to
func (d *Device) resolveView(heapType gpu.DescriptorHeapType, handle gpu.CPUDescriptorHandle) (hal.TextureView, error) {
	heap, slot, err := d.resolveHandle(heapType, handle)
	if err != nil {
		return nil, err
	}

	res := heap.read(slot)
	if res == nil {
		return nil, errors.Wrapf(gpu.ErrUnknownHandle, "no view has been written to slot %d of %s heap", slot, heapType)
	}

	return res.textureView()
}
