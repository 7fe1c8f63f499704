package mocks

import (
	"time"

	"github.com/gallus-engine/gallus/gpu"
	"go.uber.org/mock/gomock"
)

// EasyMockDescriptorHeap creates a descriptor heap mock that answers its accessors for the rest
// of the test
func EasyMockDescriptorHeap(ctrl *gomock.Controller, desc gpu.DescriptorHeapDesc, cpuStart uintptr, gpuStart uint64) *MockDescriptorHeap {
	heap := NewMockDescriptorHeap(ctrl)
	heap.EXPECT().Desc().Return(desc).AnyTimes()
	heap.EXPECT().CPUStart().Return(gpu.CPUDescriptorHandle{Ptr: cpuStart}).AnyTimes()
	if !desc.ShaderVisible {
		gpuStart = 0
	}
	heap.EXPECT().GPUStart().Return(gpu.GPUDescriptorHandle{Ptr: gpuStart}).AnyTimes()

	return heap
}

// EasyMockResource creates a resource mock that answers Desc for the rest of the test
func EasyMockResource(ctrl *gomock.Controller, desc gpu.ResourceDesc) *MockResource {
	resource := NewMockResource(ctrl)
	resource.EXPECT().Desc().Return(desc).AnyTimes()

	return resource
}

// EasyMockCommandList creates a command list mock of the given queue type
func EasyMockCommandList(ctrl *gomock.Controller, queueType gpu.QueueType) *MockCommandList {
	list := NewMockCommandList(ctrl)
	list.EXPECT().Type().Return(queueType).AnyTimes()

	return list
}

// EasyMockQueue creates a queue mock of the given type
func EasyMockQueue(ctrl *gomock.Controller, queueType gpu.QueueType) *MockQueue {
	queue := NewMockQueue(ctrl)
	queue.EXPECT().Type().Return(queueType).AnyTimes()

	return queue
}

// Timeline stands in for the GPU side of a fence. Signaled tracks the highest value a queue has
// asked for and Completed the highest value the "GPU" has reached; tests move Completed by hand.
type Timeline struct {
	Signaled  uint64
	Completed uint64
}

// Complete advances the timeline to value, but never past what has been signaled
func (t *Timeline) Complete(value uint64) {
	t.Completed = max(t.Completed, min(value, t.Signaled))
}

// CompleteAll lets the GPU catch up with everything that has been signaled
func (t *Timeline) CompleteAll() {
	t.Completed = t.Signaled
}

// EasyMockFence creates a fence mock backed by timeline. Waits on signaled values complete
// immediately and waits on anything else time out.
func EasyMockFence(ctrl *gomock.Controller, timeline *Timeline) *MockFence {
	fence := NewMockFence(ctrl)
	fence.EXPECT().CompletedValue().DoAndReturn(func() uint64 {
		return timeline.Completed
	}).AnyTimes()
	fence.EXPECT().Wait(gomock.Any(), gomock.Any()).DoAndReturn(func(value uint64, timeout time.Duration) error {
		if value > timeline.Signaled {
			return gpu.ErrWaitTimeout
		}

		timeline.Complete(value)
		return nil
	}).AnyTimes()

	return fence
}

// EasyMockSignalingQueue creates a queue mock that records every signal on timeline
func EasyMockSignalingQueue(ctrl *gomock.Controller, queueType gpu.QueueType, timeline *Timeline) *MockQueue {
	queue := EasyMockQueue(ctrl, queueType)
	queue.EXPECT().Signal(gomock.Any(), gomock.Any()).DoAndReturn(func(fence gpu.Fence, value uint64) error {
		timeline.Signaled = max(timeline.Signaled, value)
		return nil
	}).AnyTimes()

	return queue
}
