package descriptor_test

import (
	"io"
	"log/slog"

	"github.com/gallus-engine/gallus/gpu"
	"github.com/gallus-engine/gallus/gpu/mocks"
	"go.uber.org/mock/gomock"
)

const testStride = 32

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestDevice(ctrl *gomock.Controller) *mocks.MockDevice {
	device := mocks.NewMockDevice(ctrl)
	device.EXPECT().DescriptorHandleIncrementSize(gomock.Any()).Return(uint32(testStride)).AnyTimes()

	return device
}

func expectHeap(ctrl *gomock.Controller, device *mocks.MockDevice, heapType gpu.DescriptorHeapType, numDescriptors int, shaderVisible bool, cpuStart uintptr) *mocks.MockDescriptorHeap {
	desc := gpu.DescriptorHeapDesc{
		Type:           heapType,
		NumDescriptors: numDescriptors,
		ShaderVisible:  shaderVisible,
	}
	heap := mocks.EasyMockDescriptorHeap(ctrl, desc, cpuStart, uint64(cpuStart)+0x10000000)
	device.EXPECT().CreateDescriptorHeap(desc).Return(heap, nil)

	return heap
}

func cpuHandle(cpuStart uintptr, offset int) gpu.CPUDescriptorHandle {
	return gpu.CPUDescriptorHandle{Ptr: cpuStart + uintptr(offset*testStride)}
}
