package descriptor_test

import (
	"encoding/json"
	"testing"

	"github.com/gallus-engine/gallus/descriptor"
	"github.com/gallus-engine/gallus/gpu"
	"github.com/gallus-engine/gallus/heaputils"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAllocatorCreatesPagesOnDemand(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := newTestDevice(ctrl)

	allocator, err := descriptor.New(testLogger(), device, gpu.DescriptorHeapTypeCBVSRVUAV, descriptor.CreateOptions{
		DescriptorsPerPage: 16,
	})
	require.NoError(t, err)
	require.Equal(t, 0, allocator.PageCount())

	expectHeap(ctrl, device, gpu.DescriptorHeapTypeCBVSRVUAV, 16, false, 0x1000)
	a, err := allocator.Allocate(10)
	require.NoError(t, err)
	require.Equal(t, cpuHandle(0x1000, 0), a.CPUHandle(0))
	require.Equal(t, 1, allocator.PageCount())

	// Does not fit in the 6 remaining handles of the first page
	expectHeap(ctrl, device, gpu.DescriptorHeapTypeCBVSRVUAV, 16, false, 0x2000)
	b, err := allocator.Allocate(8)
	require.NoError(t, err)
	require.Equal(t, cpuHandle(0x2000, 0), b.CPUHandle(0))
	require.Equal(t, 1, b.Page().Index())

	// Oversized requests get a page of their own size
	expectHeap(ctrl, device, gpu.DescriptorHeapTypeCBVSRVUAV, 40, false, 0x3000)
	c, err := allocator.Allocate(40)
	require.NoError(t, err)
	require.Equal(t, cpuHandle(0x3000, 0), c.CPUHandle(0))
	require.Equal(t, 3, allocator.PageCount())
	require.Equal(t, []int{0, 1}, allocator.AvailablePages())

	// First match in page order
	d, err := allocator.Allocate(4)
	require.NoError(t, err)
	require.Equal(t, cpuHandle(0x1000, 10), d.CPUHandle(0))

	require.NoError(t, allocator.Validate())
}

func TestAllocatorExhaustedPagesReturnAfterRelease(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := newTestDevice(ctrl)

	allocator, err := descriptor.New(testLogger(), device, gpu.DescriptorHeapTypeRTV, descriptor.CreateOptions{
		DescriptorsPerPage: 8,
	})
	require.NoError(t, err)

	expectHeap(ctrl, device, gpu.DescriptorHeapTypeRTV, 8, false, 0x1000)
	a, err := allocator.Allocate(8)
	require.NoError(t, err)
	require.Empty(t, allocator.AvailablePages())

	require.NoError(t, a.Free())
	require.Empty(t, allocator.AvailablePages())

	require.NoError(t, allocator.ReleaseStaleDescriptors())
	require.Equal(t, []int{0}, allocator.AvailablePages())

	// Reuses the first page rather than growing
	b, err := allocator.Allocate(8)
	require.NoError(t, err)
	require.Equal(t, cpuHandle(0x1000, 0), b.CPUHandle(0))
	require.Equal(t, 1, allocator.PageCount())
	require.NoError(t, allocator.Validate())
}

func TestAllocatorReleaseCompletedDescriptors(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := newTestDevice(ctrl)

	allocator, err := descriptor.New(testLogger(), device, gpu.DescriptorHeapTypeDSV, descriptor.CreateOptions{
		DescriptorsPerPage: 4,
	})
	require.NoError(t, err)

	expectHeap(ctrl, device, gpu.DescriptorHeapTypeDSV, 4, false, 0x1000)
	a, err := allocator.Allocate(4)
	require.NoError(t, err)
	require.NoError(t, a.FreeAfter(2))

	require.NoError(t, allocator.ReleaseCompletedDescriptors(1))
	require.Empty(t, allocator.AvailablePages())

	require.NoError(t, allocator.ReleaseCompletedDescriptors(2))
	require.Equal(t, []int{0}, allocator.AvailablePages())
}

func TestAllocatorRejectsInvalidOptions(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := newTestDevice(ctrl)

	_, err := descriptor.New(testLogger(), device, gpu.DescriptorHeapTypeRTV, descriptor.CreateOptions{ShaderVisible: true})
	require.Error(t, err)

	_, err = descriptor.New(testLogger(), device, gpu.DescriptorHeapTypeRTV, descriptor.CreateOptions{DescriptorsPerPage: -1})
	require.ErrorIs(t, err, descriptor.ErrInvalidCount)

	_, err = descriptor.New(testLogger(), nil, gpu.DescriptorHeapTypeRTV, descriptor.CreateOptions{})
	require.Error(t, err)

	allocator, err := descriptor.New(testLogger(), device, gpu.DescriptorHeapTypeRTV, descriptor.CreateOptions{})
	require.NoError(t, err)
	require.Equal(t, 256, allocator.DescriptorsPerPage())

	_, err = allocator.Allocate(0)
	require.ErrorIs(t, err, descriptor.ErrInvalidCount)
}

func TestAllocatorPageCreationFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := newTestDevice(ctrl)

	allocator, err := descriptor.New(testLogger(), device, gpu.DescriptorHeapTypeCBVSRVUAV, descriptor.CreateOptions{})
	require.NoError(t, err)

	device.EXPECT().CreateDescriptorHeap(gomock.Any()).Return(nil, gpu.ErrDeviceLost)

	alloc, err := allocator.Allocate(1)
	require.ErrorIs(t, err, gpu.ErrDeviceLost)
	require.True(t, alloc.IsNull())
	require.Equal(t, 0, allocator.PageCount())
}

func TestAllocatorStatsAndDestroy(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := newTestDevice(ctrl)

	allocator, err := descriptor.New(testLogger(), device, gpu.DescriptorHeapTypeCBVSRVUAV, descriptor.CreateOptions{
		DescriptorsPerPage: 32,
		ShaderVisible:      true,
		Flags:              descriptor.CreateExternallySynchronized,
	})
	require.NoError(t, err)

	heap := expectHeap(ctrl, device, gpu.DescriptorHeapTypeCBVSRVUAV, 32, true, 0x1000)
	a, err := allocator.Allocate(3)
	require.NoError(t, err)
	b, err := allocator.Allocate(5)
	require.NoError(t, err)
	require.NoError(t, a.Free())

	var stats heaputils.DetailedStatistics
	allocator.CalculateStatistics(&stats)
	require.Equal(t, 1, stats.PageCount)
	require.Equal(t, 1, stats.AllocationCount)
	require.Equal(t, 5, stats.AllocatedHandles)
	require.Equal(t, 3, stats.StaleHandles)

	var summary map[string]any
	require.NoError(t, json.Unmarshal([]byte(allocator.BuildStatsString(false)), &summary))
	require.Equal(t, "DescriptorHeapTypeCBVSRVUAV", summary["HeapType"])
	require.NotContains(t, summary, "Pages")

	var detailed map[string]any
	require.NoError(t, json.Unmarshal([]byte(allocator.BuildStatsString(true)), &detailed))
	pages := detailed["Pages"].(map[string]any)
	require.Contains(t, pages, "0")

	// b is still live
	require.Error(t, allocator.Destroy())

	require.NoError(t, b.Free())
	heap.EXPECT().Release()
	require.NoError(t, allocator.Destroy())
}

func TestCreateFlagsString(t *testing.T) {
	require.Equal(t, "CreateExternallySynchronized", descriptor.CreateExternallySynchronized.String())
	require.Equal(t, "None", descriptor.CreateFlags(0).String())
}
