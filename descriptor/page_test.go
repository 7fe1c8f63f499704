package descriptor_test

import (
	"math/rand"
	"testing"

	"github.com/gallus-engine/gallus/descriptor"
	"github.com/gallus-engine/gallus/gpu"
	"github.com/gallus-engine/gallus/heaputils"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const pageStart uintptr = 0x1000

func newTestPage(t *testing.T, ctrl *gomock.Controller, capacity int) *descriptor.Page {
	device := newTestDevice(ctrl)
	expectHeap(ctrl, device, gpu.DescriptorHeapTypeCBVSRVUAV, capacity, false, pageStart)

	page, err := descriptor.NewPage(testLogger(), device, gpu.DescriptorHeapTypeCBVSRVUAV, capacity, descriptor.CreateOptions{})
	require.NoError(t, err)

	return page
}

func TestPageEndToEnd(t *testing.T) {
	ctrl := gomock.NewController(t)
	page := newTestPage(t, ctrl, 256)

	a, err := page.Allocate(10)
	require.NoError(t, err)
	b, err := page.Allocate(20)
	require.NoError(t, err)
	c, err := page.Allocate(5)
	require.NoError(t, err)

	require.Equal(t, cpuHandle(pageStart, 0), a.CPUHandle(0))
	require.Equal(t, cpuHandle(pageStart, 10), b.CPUHandle(0))
	require.Equal(t, cpuHandle(pageStart, 30), c.CPUHandle(0))
	require.Equal(t, 221, page.NumFreeHandles())

	require.NoError(t, b.Free())
	require.True(t, b.IsNull())
	require.Equal(t, 1, page.StaleCount())

	// B's range is stale, so this must come from the tail
	d, err := page.Allocate(15)
	require.NoError(t, err)
	require.Equal(t, cpuHandle(pageStart, 35), d.CPUHandle(0))

	require.NoError(t, page.ReleaseStaleDescriptors())
	require.Equal(t, 0, page.StaleCount())

	e, err := page.Allocate(20)
	require.NoError(t, err)
	require.Equal(t, cpuHandle(pageStart, 10), e.CPUHandle(0))
	require.NoError(t, page.Validate())
}

func TestPageStaleDeferral(t *testing.T) {
	ctrl := gomock.NewController(t)
	page := newTestPage(t, ctrl, 16)

	a, err := page.Allocate(8)
	require.NoError(t, err)
	_, err = page.Allocate(8)
	require.NoError(t, err)
	require.Equal(t, 0, page.NumFreeHandles())

	require.NoError(t, a.Free())

	// The only free space is stale, so the page reports no room rather than reusing it
	again, err := page.Allocate(8)
	require.NoError(t, err)
	require.True(t, again.IsNull())
	require.False(t, page.HasSpace(8))

	require.NoError(t, page.ReleaseStaleDescriptors())
	require.True(t, page.HasSpace(8))

	again, err = page.Allocate(8)
	require.NoError(t, err)
	require.Equal(t, cpuHandle(pageStart, 0), again.CPUHandle(0))
}

func TestPageCoalescesOnRelease(t *testing.T) {
	ctrl := gomock.NewController(t)
	page := newTestPage(t, ctrl, 30)

	a, err := page.Allocate(10)
	require.NoError(t, err)
	b, err := page.Allocate(10)
	require.NoError(t, err)
	_, err = page.Allocate(10)
	require.NoError(t, err)

	require.NoError(t, b.Free())
	require.NoError(t, a.Free())
	require.NoError(t, page.ReleaseStaleDescriptors())

	merged, err := page.Allocate(20)
	require.NoError(t, err)
	require.False(t, merged.IsNull())
	require.Equal(t, cpuHandle(pageStart, 0), merged.CPUHandle(0))
	require.Equal(t, cpuHandle(pageStart, 19), merged.CPUHandle(19))
}

func TestPageReleaseCompletedDescriptors(t *testing.T) {
	ctrl := gomock.NewController(t)
	page := newTestPage(t, ctrl, 30)

	a, err := page.Allocate(10)
	require.NoError(t, err)
	b, err := page.Allocate(10)
	require.NoError(t, err)

	require.NoError(t, a.FreeAfter(3))
	require.NoError(t, b.FreeAfter(5))

	require.NoError(t, page.ReleaseCompletedDescriptors(2))
	require.Equal(t, 2, page.StaleCount())
	require.Equal(t, 10, page.NumFreeHandles())

	require.NoError(t, page.ReleaseCompletedDescriptors(4))
	require.Equal(t, 1, page.StaleCount())
	require.Equal(t, 20, page.NumFreeHandles())

	require.NoError(t, page.ReleaseCompletedDescriptors(5))
	require.Equal(t, 0, page.StaleCount())
	require.Equal(t, 30, page.NumFreeHandles())
	require.NoError(t, page.Validate())
}

func TestPageInvariantViolations(t *testing.T) {
	ctrl := gomock.NewController(t)
	page := newTestPage(t, ctrl, 32)

	_, err := page.Allocate(0)
	require.ErrorIs(t, err, descriptor.ErrInvalidCount)
	_, err = page.Allocate(-1)
	require.ErrorIs(t, err, descriptor.ErrInvalidCount)

	var null descriptor.Allocation
	require.ErrorIs(t, null.Free(), descriptor.ErrNullAllocation)

	a, err := page.Allocate(4)
	require.NoError(t, err)
	copied := a
	require.NoError(t, a.Free())
	require.ErrorIs(t, a.Free(), descriptor.ErrNullAllocation)
	require.ErrorIs(t, copied.Free(), descriptor.ErrDoubleFree)

	// A stale copy must not free a newer allocation that reused the same range
	require.NoError(t, page.ReleaseStaleDescriptors())
	b, err := page.Allocate(4)
	require.NoError(t, err)
	require.Equal(t, copied.CPUHandle(0), b.CPUHandle(0))
	require.ErrorIs(t, copied.Free(), descriptor.ErrDoubleFree)
	require.NoError(t, b.Free())
	require.NoError(t, page.Validate())
}

func TestPageMove(t *testing.T) {
	ctrl := gomock.NewController(t)
	page := newTestPage(t, ctrl, 32)

	a, err := page.Allocate(4)
	require.NoError(t, err)

	moved := a.Move()
	require.True(t, a.IsNull())
	require.Equal(t, 0, a.Count())
	require.Equal(t, 4, moved.Count())
	require.Same(t, page, moved.Page())

	require.ErrorIs(t, a.Free(), descriptor.ErrNullAllocation)
	require.NoError(t, moved.Free())
}

func TestPageNeverDoubleAllocates(t *testing.T) {
	const capacity = 256

	ctrl := gomock.NewController(t)
	page := newTestPage(t, ctrl, capacity)
	rng := rand.New(rand.NewSource(7))

	var live []descriptor.Allocation
	for i := 0; i < 1500; i++ {
		switch op := rng.Intn(10); {
		case op < 5:
			alloc, err := page.Allocate(rng.Intn(12) + 1)
			require.NoError(t, err)
			if alloc.IsNull() {
				continue
			}

			start := alloc.CPUHandle(0).Ptr
			end := start + uintptr(alloc.Count()*testStride)
			for _, other := range live {
				otherStart := other.CPUHandle(0).Ptr
				otherEnd := otherStart + uintptr(other.Count()*testStride)
				require.True(t, end <= otherStart || otherEnd <= start)
			}
			live = append(live, alloc)
		case op < 9:
			if len(live) == 0 {
				continue
			}
			index := rng.Intn(len(live))
			require.NoError(t, live[index].Free())
			live[index] = live[len(live)-1]
			live = live[:len(live)-1]
		default:
			require.NoError(t, page.ReleaseStaleDescriptors())

			used := 0
			for _, alloc := range live {
				used += alloc.Count()
			}
			require.Equal(t, capacity-used, page.NumFreeHandles())
		}

		require.NoError(t, page.Validate())
	}
}

func TestPageStatistics(t *testing.T) {
	ctrl := gomock.NewController(t)
	page := newTestPage(t, ctrl, 64)

	a, err := page.Allocate(4)
	require.NoError(t, err)
	_, err = page.Allocate(12)
	require.NoError(t, err)
	require.NoError(t, a.Free())

	var stats heaputils.DetailedStatistics
	stats.Clear()
	page.AddDetailedStatistics(&stats)

	require.Equal(t, heaputils.DetailedStatistics{
		Statistics: heaputils.Statistics{
			PageCount:        1,
			AllocationCount:  1,
			HandleCount:      64,
			AllocatedHandles: 12,
		},
		FreeRangeCount:    1,
		StaleRangeCount:   1,
		StaleHandles:      4,
		AllocationSizeMin: 12,
		AllocationSizeMax: 12,
		FreeRangeSizeMin:  48,
		FreeRangeSizeMax:  48,
	}, stats)

	var basic heaputils.Statistics
	page.AddStatistics(&basic)
	require.Equal(t, heaputils.Statistics{
		PageCount:        1,
		AllocationCount:  1,
		HandleCount:      64,
		AllocatedHandles: 16,
	}, basic)

	writer := jwriter.NewWriter()
	obj := writer.Object()
	page.PrintDetailedMap(obj)
	obj.End()
	require.NoError(t, writer.Error())
	require.JSONEq(t, `{
		"HeapType": "DescriptorHeapTypeCBVSRVUAV",
		"TotalHandles": 64,
		"FreeHandles": 48,
		"FreeRanges": 1,
		"FreeBlocks": [{"Offset": 16, "Size": 48}],
		"StaleHandles": 4,
		"Allocations": [{"Offset": 4, "Size": 12}],
		"StaleRanges": [{"Offset": 0, "Size": 4, "ReadyWhen": 0}]
	}`, string(writer.Bytes()))
}

func TestPageDestroy(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := newTestDevice(ctrl)
	heap := expectHeap(ctrl, device, gpu.DescriptorHeapTypeSampler, 8, true, pageStart)

	page, err := descriptor.NewPage(testLogger(), device, gpu.DescriptorHeapTypeSampler, 8, descriptor.CreateOptions{ShaderVisible: true})
	require.NoError(t, err)

	alloc, err := page.Allocate(2)
	require.NoError(t, err)
	require.Equal(t, gpu.GPUDescriptorHandle{Ptr: uint64(pageStart) + 0x10000000 + testStride}, alloc.GPUHandle(1))

	require.Error(t, page.Destroy())

	require.NoError(t, alloc.Free())
	heap.EXPECT().Release()
	require.NoError(t, page.Destroy())
	require.NoError(t, page.Destroy())
}
