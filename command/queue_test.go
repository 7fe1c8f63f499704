package command_test

import (
	"io"
	"log/slog"
	"testing"
	"time"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/gallus-engine/gallus/command"
	"github.com/gallus-engine/gallus/fence"
	"github.com/gallus-engine/gallus/gpu"
	"github.com/gallus-engine/gallus/gpu/mocks"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type testQueue struct {
	queue    *command.Queue
	device   *mocks.MockDevice
	native   *mocks.MockQueue
	fence    *mocks.MockFence
	timeline *mocks.Timeline
}

func newTestQueue(t *testing.T, ctrl *gomock.Controller, options command.CreateOptions) *testQueue {
	return newLoggedTestQueue(t, ctrl, slog.New(slog.NewTextHandler(io.Discard, nil)), options)
}

func newLoggedTestQueue(t *testing.T, ctrl *gomock.Controller, logger *slog.Logger, options command.CreateOptions) *testQueue {
	timeline := &mocks.Timeline{}
	device := mocks.NewMockDevice(ctrl)
	native := mocks.EasyMockSignalingQueue(ctrl, gpu.QueueTypeDirect, timeline)
	nativeFence := mocks.EasyMockFence(ctrl, timeline)

	device.EXPECT().CreateCommandQueue(gpu.QueueTypeDirect).Return(native, nil)
	device.EXPECT().CreateFence(uint64(0)).Return(nativeFence, nil)

	queue, err := command.NewQueue(logger, device, gpu.QueueTypeDirect, options)
	require.NoError(t, err)

	return &testQueue{
		queue:    queue,
		device:   device,
		native:   native,
		fence:    nativeFence,
		timeline: timeline,
	}
}

func TestQueueRecyclesAllocatorsOnlyAfterFence(t *testing.T) {
	ctrl := gomock.NewController(t)
	q := newTestQueue(t, ctrl, command.CreateOptions{})

	allocator1 := mocks.NewMockCommandAllocator(ctrl)
	allocator2 := mocks.NewMockCommandAllocator(ctrl)
	native := mocks.EasyMockCommandList(ctrl, gpu.QueueTypeDirect)

	q.device.EXPECT().CreateCommandAllocator(gpu.QueueTypeDirect).Return(allocator1, nil)
	q.device.EXPECT().CreateCommandList(gpu.QueueTypeDirect, gomock.Any()).DoAndReturn(
		func(queueType gpu.QueueType, allocator gpu.CommandAllocator) (gpu.CommandList, error) {
			require.Same(t, allocator1, allocator)
			return native, nil
		})
	native.EXPECT().Close().Return(nil).Times(3)
	q.native.EXPECT().ExecuteCommandLists(native).Return(nil).Times(3)

	list, err := q.queue.GetCommandList()
	require.NoError(t, err)
	require.True(t, list.IsRecording())
	require.Equal(t, gpu.QueueTypeDirect, list.Type())

	value, err := q.queue.ExecuteCommandList(list)
	require.NoError(t, err)
	require.Equal(t, fence.Value(1), value)
	require.False(t, list.IsRecording())

	// The GPU has not reached 1, so the first allocator cannot be reused yet. The list itself
	// is reused straight away.
	q.device.EXPECT().CreateCommandAllocator(gpu.QueueTypeDirect).Return(allocator2, nil)
	native.EXPECT().Reset(gomock.Any()).DoAndReturn(func(allocator gpu.CommandAllocator) error {
		require.Same(t, allocator2, allocator)
		return nil
	})

	list, err = q.queue.GetCommandList()
	require.NoError(t, err)
	value, err = q.queue.ExecuteCommandList(list)
	require.NoError(t, err)
	require.Equal(t, fence.Value(2), value)

	require.Equal(t, command.QueueStatistics{
		AllocatorsCreated: 2,
		ListsCreated:      1,
		PendingAllocators: 2,
		PooledLists:       1,
		LastSignaled:      2,
		Completed:         0,
	}, q.queue.Statistics())

	q.timeline.Complete(1)

	allocator1.EXPECT().Reset().Return(nil)
	native.EXPECT().Reset(gomock.Any()).DoAndReturn(func(allocator gpu.CommandAllocator) error {
		require.Same(t, allocator1, allocator)
		return nil
	})

	list, err = q.queue.GetCommandList()
	require.NoError(t, err)
	value, err = q.queue.ExecuteCommandList(list)
	require.NoError(t, err)
	require.Equal(t, fence.Value(3), value)

	stats := q.queue.Statistics()
	require.Equal(t, 2, stats.AllocatorsCreated)
	require.Equal(t, 1, stats.ListsCreated)
	require.Equal(t, 2, stats.PendingAllocators)
	require.Equal(t, fence.Value(1), stats.Completed)
}

func TestQueueFenceValuesIncrease(t *testing.T) {
	ctrl := gomock.NewController(t)
	q := newTestQueue(t, ctrl, command.CreateOptions{})

	for i := 1; i <= 5; i++ {
		value, err := q.queue.Signal()
		require.NoError(t, err)
		require.Equal(t, fence.Value(i), value)
		require.Equal(t, value, q.queue.LastSignaledValue())
	}

	require.False(t, q.queue.IsFenceComplete(3))
	q.timeline.Complete(3)
	require.True(t, q.queue.IsFenceComplete(3))
	require.False(t, q.queue.IsFenceComplete(4))
	require.Equal(t, fence.Value(3), q.queue.CompletedValue())
}

func TestQueueSignalFailureKeepsValue(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := mocks.NewMockDevice(ctrl)
	native := mocks.EasyMockQueue(ctrl, gpu.QueueTypeCopy)
	nativeFence := mocks.NewMockFence(ctrl)

	device.EXPECT().CreateCommandQueue(gpu.QueueTypeCopy).Return(native, nil)
	device.EXPECT().CreateFence(uint64(0)).Return(nativeFence, nil)

	queue, err := command.NewQueue(nil, device, gpu.QueueTypeCopy, command.CreateOptions{})
	require.NoError(t, err)
	require.Equal(t, "Copy", queue.Label())

	native.EXPECT().Signal(nativeFence, uint64(1)).Return(gpu.ErrDeviceLost)
	_, err = queue.Signal()
	require.ErrorIs(t, err, gpu.ErrDeviceLost)
	require.Equal(t, fence.Value(0), queue.LastSignaledValue())

	native.EXPECT().Signal(nativeFence, uint64(1)).Return(nil)
	value, err := queue.Signal()
	require.NoError(t, err)
	require.Equal(t, fence.Value(1), value)
}

func TestQueueWaitForFenceValue(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := mocks.NewMockDevice(ctrl)
	native := mocks.EasyMockQueue(ctrl, gpu.QueueTypeCompute)
	nativeFence := mocks.NewMockFence(ctrl)

	device.EXPECT().CreateCommandQueue(gpu.QueueTypeCompute).Return(native, nil)
	device.EXPECT().CreateFence(uint64(0)).Return(nativeFence, nil)

	queue, err := command.NewQueue(nil, device, gpu.QueueTypeCompute, command.CreateOptions{
		WaitTimeout: 50 * time.Millisecond,
	})
	require.NoError(t, err)

	completed := uint64(0)
	nativeFence.EXPECT().CompletedValue().DoAndReturn(func() uint64 { return completed }).AnyTimes()
	native.EXPECT().Signal(nativeFence, gomock.Any()).Return(nil).Times(2)

	_, err = queue.Signal()
	require.NoError(t, err)
	_, err = queue.Signal()
	require.NoError(t, err)

	// Already complete: no native wait
	completed = 1
	require.NoError(t, queue.WaitForFenceValue(1))

	// Never signaled: fails without blocking
	require.ErrorIs(t, queue.WaitForFenceValue(3), gpu.ErrFenceNeverSignaled)

	nativeFence.EXPECT().Wait(uint64(2), 50*time.Millisecond).Return(gpu.ErrWaitTimeout)
	require.ErrorIs(t, queue.WaitForFenceValue(2), command.ErrFenceTimeout)

	nativeFence.EXPECT().Wait(uint64(2), 50*time.Millisecond).Return(gpu.ErrDeviceLost)
	err = queue.WaitForFenceValue(2)
	require.ErrorIs(t, err, gpu.ErrDeviceLost)
	require.False(t, errors.Is(err, command.ErrFenceTimeout))

	nativeFence.EXPECT().Wait(uint64(2), 50*time.Millisecond).DoAndReturn(func(value uint64, timeout time.Duration) error {
		completed = value
		return nil
	})
	require.NoError(t, queue.WaitForFenceValue(2))
	require.True(t, queue.IsFenceComplete(2))
}

func TestQueueExecuteRejectsInvalidLists(t *testing.T) {
	ctrl := gomock.NewController(t)
	q := newTestQueue(t, ctrl, command.CreateOptions{})
	other := newTestQueue(t, ctrl, command.CreateOptions{Label: "other"})

	allocator := mocks.NewMockCommandAllocator(ctrl)
	native := mocks.EasyMockCommandList(ctrl, gpu.QueueTypeDirect)
	q.device.EXPECT().CreateCommandAllocator(gpu.QueueTypeDirect).Return(allocator, nil)
	q.device.EXPECT().CreateCommandList(gpu.QueueTypeDirect, allocator).Return(native, nil)

	list, err := q.queue.GetCommandList()
	require.NoError(t, err)

	_, err = other.queue.ExecuteCommandList(list)
	require.ErrorIs(t, err, command.ErrWrongQueue)

	_, err = q.queue.ExecuteCommandList(nil)
	require.Error(t, err)

	native.EXPECT().Close().Return(nil)
	q.native.EXPECT().ExecuteCommandLists(native).Return(nil)
	_, err = q.queue.ExecuteCommandList(list)
	require.NoError(t, err)

	_, err = q.queue.ExecuteCommandList(list)
	require.ErrorIs(t, err, command.ErrListNotRecording)
	require.Equal(t, fence.Value(1), q.queue.LastSignaledValue())
}

func TestQueueExecuteFailureReturnsAllocator(t *testing.T) {
	ctrl := gomock.NewController(t)
	q := newTestQueue(t, ctrl, command.CreateOptions{})

	allocator := mocks.NewMockCommandAllocator(ctrl)
	native := mocks.EasyMockCommandList(ctrl, gpu.QueueTypeDirect)
	q.device.EXPECT().CreateCommandAllocator(gpu.QueueTypeDirect).Return(allocator, nil)
	q.device.EXPECT().CreateCommandList(gpu.QueueTypeDirect, allocator).Return(native, nil)

	list, err := q.queue.GetCommandList()
	require.NoError(t, err)

	native.EXPECT().Close().Return(nil)
	q.native.EXPECT().ExecuteCommandLists(native).Return(gpu.ErrDeviceLost)
	_, err = q.queue.ExecuteCommandList(list)
	require.ErrorIs(t, err, gpu.ErrDeviceLost)
	require.Equal(t, fence.Value(0), q.queue.LastSignaledValue())

	// Nothing reached the GPU, so the allocator is immediately reusable
	allocator.EXPECT().Reset().Return(nil)
	native.EXPECT().Reset(allocator).Return(nil)
	_, err = q.queue.GetCommandList()
	require.NoError(t, err)
	require.Equal(t, 1, q.queue.Statistics().AllocatorsCreated)
}

func TestQueueCloseFailureReturnsAllocator(t *testing.T) {
	ctrl := gomock.NewController(t)
	q := newTestQueue(t, ctrl, command.CreateOptions{})

	allocator := mocks.NewMockCommandAllocator(ctrl)
	native := mocks.EasyMockCommandList(ctrl, gpu.QueueTypeDirect)
	tracked := mocks.NewMockResource(ctrl)
	q.device.EXPECT().CreateCommandAllocator(gpu.QueueTypeDirect).Return(allocator, nil)
	q.device.EXPECT().CreateCommandList(gpu.QueueTypeDirect, allocator).Return(native, nil)

	list, err := q.queue.GetCommandList()
	require.NoError(t, err)
	list.TrackResource(tracked)

	native.EXPECT().Close().Return(gpu.ErrDeviceLost)
	native.EXPECT().Release()
	_, err = q.queue.ExecuteCommandList(list)
	require.ErrorIs(t, err, gpu.ErrDeviceLost)
	require.False(t, list.IsRecording())
	require.Equal(t, 0, list.TrackedResources())

	stats := q.queue.Statistics()
	require.Equal(t, 1, stats.PendingAllocators)
	require.Equal(t, 0, stats.PooledLists)
	require.Equal(t, fence.Value(0), stats.LastSignaled)

	_, err = q.queue.ExecuteCommandList(list)
	require.ErrorIs(t, err, command.ErrListNotRecording)

	gomock.InOrder(
		tracked.EXPECT().Release(),
		allocator.EXPECT().Release(),
		q.fence.EXPECT().Release(),
		q.native.EXPECT().Release(),
	)

	require.NoError(t, q.queue.Destroy())
}

func TestQueueReleasesTrackedResourcesAfterFence(t *testing.T) {
	ctrl := gomock.NewController(t)
	q := newTestQueue(t, ctrl, command.CreateOptions{Label: "upload"})

	allocator := mocks.NewMockCommandAllocator(ctrl)
	native := mocks.EasyMockCommandList(ctrl, gpu.QueueTypeDirect)
	q.device.EXPECT().CreateCommandAllocator(gpu.QueueTypeDirect).Return(allocator, nil)
	q.device.EXPECT().CreateCommandList(gpu.QueueTypeDirect, allocator).Return(native, nil)

	list, err := q.queue.GetCommandList()
	require.NoError(t, err)

	destination := mocks.NewMockResource(ctrl)
	intermediate := mocks.NewMockResource(ctrl)
	staging := make([]byte, 8)
	for i := range staging {
		staging[i] = 0xff
	}

	q.device.EXPECT().CreateCommittedResource(gpu.HeapTypeDefault, gomock.Any(), gpu.ResourceStateCopyDest, gomock.Nil()).DoAndReturn(
		func(heapType gpu.HeapType, desc gpu.ResourceDesc, state gpu.ResourceStates, clearValue *gpu.ClearValue) (gpu.Resource, error) {
			require.Equal(t, gpu.ResourceDimensionBuffer, desc.Dimension)
			require.Equal(t, uint64(8), desc.Width)
			require.Equal(t, "upload buffer", desc.Label)
			return destination, nil
		})
	q.device.EXPECT().CreateCommittedResource(gpu.HeapTypeUpload, gomock.Any(), gpu.ResourceStateGenericRead, gomock.Nil()).Return(intermediate, nil)
	intermediate.EXPECT().Map().Return(unsafe.Pointer(&staging[0]), nil)
	intermediate.EXPECT().Unmap()
	native.EXPECT().CopyBufferRegion(destination, uint64(0), intermediate, uint64(0), uint64(8))

	buffer, err := list.UpdateBufferResource([]byte{1, 2, 3, 4, 5}, 0)
	require.NoError(t, err)
	require.Same(t, destination, buffer)
	require.Equal(t, []byte{1, 2, 3, 4, 5, 0, 0, 0}, staging)
	require.Equal(t, 1, list.TrackedResources())

	native.EXPECT().Close().Return(nil)
	q.native.EXPECT().ExecuteCommandLists(native).Return(nil)
	_, err = q.queue.ExecuteCommandList(list)
	require.NoError(t, err)
	require.Equal(t, 0, list.TrackedResources())

	// The upload buffer stays alive until the copy has executed
	q.timeline.Complete(1)
	intermediate.EXPECT().Release()
	allocator.EXPECT().Reset().Return(nil)
	native.EXPECT().Reset(allocator).Return(nil)

	list, err = q.queue.GetCommandList()
	require.NoError(t, err)

	buffer, err = list.UpdateBufferResource(nil, 0)
	require.NoError(t, err)
	require.Nil(t, buffer)
}

func TestQueueDestroy(t *testing.T) {
	ctrl := gomock.NewController(t)
	q := newTestQueue(t, ctrl, command.CreateOptions{Flags: command.CreateExternallySynchronized})

	allocator := mocks.NewMockCommandAllocator(ctrl)
	native := mocks.EasyMockCommandList(ctrl, gpu.QueueTypeDirect)
	tracked := mocks.NewMockResource(ctrl)
	q.device.EXPECT().CreateCommandAllocator(gpu.QueueTypeDirect).Return(allocator, nil)
	q.device.EXPECT().CreateCommandList(gpu.QueueTypeDirect, allocator).Return(native, nil)

	list, err := q.queue.GetCommandList()
	require.NoError(t, err)
	list.TrackResource(tracked)
	list.TrackResource(nil)

	native.EXPECT().Close().Return(nil)
	q.native.EXPECT().ExecuteCommandLists(native).Return(nil)
	_, err = q.queue.ExecuteCommandList(list)
	require.NoError(t, err)

	gomock.InOrder(
		tracked.EXPECT().Release(),
		allocator.EXPECT().Release(),
		native.EXPECT().Release(),
		q.fence.EXPECT().Release(),
		q.native.EXPECT().Release(),
	)

	require.NoError(t, q.queue.Destroy())
	require.Equal(t, fence.Value(2), q.timeline.Completed)

	// A second destroy is a no-op
	require.NoError(t, q.queue.Destroy())

	_, err = q.queue.GetCommandList()
	require.Error(t, err)
}

func TestQueueCreateOptions(t *testing.T) {
	require.Equal(t, "CreateExternallySynchronized", command.CreateExternallySynchronized.String())
	require.Equal(t, "None", command.CreateFlags(0).String())
}
