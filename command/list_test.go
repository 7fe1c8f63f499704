package command_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"unsafe"

	"github.com/gallus-engine/gallus/command"
	"github.com/gallus-engine/gallus/gpu"
	"github.com/gallus-engine/gallus/gpu/mocks"
	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func openTestList(t *testing.T, ctrl *gomock.Controller) (*command.List, *mocks.MockCommandList) {
	q := newTestQueue(t, ctrl, command.CreateOptions{})

	allocator := mocks.NewMockCommandAllocator(ctrl)
	native := mocks.EasyMockCommandList(ctrl, gpu.QueueTypeDirect)
	q.device.EXPECT().CreateCommandAllocator(gpu.QueueTypeDirect).Return(allocator, nil)
	q.device.EXPECT().CreateCommandList(gpu.QueueTypeDirect, allocator).Return(native, nil)

	list, err := q.queue.GetCommandList()
	require.NoError(t, err)
	require.Same(t, q.queue, list.Queue())
	require.Same(t, native, list.Native())

	return list, native
}

func TestListTransitionResource(t *testing.T) {
	ctrl := gomock.NewController(t)
	list, native := openTestList(t, ctrl)
	resource := mocks.NewMockResource(ctrl)

	// Equal states record nothing
	list.TransitionResource(resource, gpu.ResourceStateRenderTarget, gpu.ResourceStateRenderTarget)

	native.EXPECT().ResourceBarrier(resource, gpu.ResourceStatePresent, gpu.ResourceStateRenderTarget)
	list.TransitionResource(resource, gpu.ResourceStatePresent, gpu.ResourceStateRenderTarget)
}

func TestListRecordsFrameCommands(t *testing.T) {
	ctrl := gomock.NewController(t)
	list, native := openTestList(t, ctrl)

	rtv := gpu.CPUDescriptorHandle{Ptr: 0x1000}
	dsv := gpu.CPUDescriptorHandle{Ptr: 0x2000}
	color := gputypes.Color{R: 0.4, G: 0.6, B: 0.9, A: 1}
	viewport := gpu.Viewport{Width: 640, Height: 480, MaxDepth: 1}
	scissor := gpu.Rect{Right: 640, Bottom: 480}

	gomock.InOrder(
		native.EXPECT().ClearRenderTargetView(rtv, color),
		native.EXPECT().ClearDepthStencilView(dsv, gpu.ClearFlagDepth, float32(1), uint8(0)),
		native.EXPECT().SetRenderTargets([]gpu.CPUDescriptorHandle{rtv}, &dsv),
		native.EXPECT().SetViewports(viewport),
		native.EXPECT().SetScissorRects(scissor),
	)

	list.ClearRenderTarget(rtv, color)
	list.ClearDepth(dsv, 1)
	list.SetRenderTargets([]gpu.CPUDescriptorHandle{rtv}, &dsv)
	list.SetViewport(viewport)
	list.SetScissorRect(scissor)
}

func TestListUpdateBufferRequiresRecording(t *testing.T) {
	ctrl := gomock.NewController(t)
	q := newTestQueue(t, ctrl, command.CreateOptions{})

	allocator := mocks.NewMockCommandAllocator(ctrl)
	native := mocks.EasyMockCommandList(ctrl, gpu.QueueTypeDirect)
	q.device.EXPECT().CreateCommandAllocator(gpu.QueueTypeDirect).Return(allocator, nil)
	q.device.EXPECT().CreateCommandList(gpu.QueueTypeDirect, allocator).Return(native, nil)
	native.EXPECT().Close().Return(nil)
	q.native.EXPECT().ExecuteCommandLists(native).Return(nil)

	list, err := q.queue.GetCommandList()
	require.NoError(t, err)
	_, err = q.queue.ExecuteCommandList(list)
	require.NoError(t, err)

	_, err = list.UpdateBufferResource([]byte{1}, 0)
	require.ErrorIs(t, err, command.ErrListNotRecording)
}

func TestListUpdateBufferCleansUpOnFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	q := newTestQueue(t, ctrl, command.CreateOptions{})

	allocator := mocks.NewMockCommandAllocator(ctrl)
	native := mocks.EasyMockCommandList(ctrl, gpu.QueueTypeDirect)
	q.device.EXPECT().CreateCommandAllocator(gpu.QueueTypeDirect).Return(allocator, nil)
	q.device.EXPECT().CreateCommandList(gpu.QueueTypeDirect, allocator).Return(native, nil)

	list, err := q.queue.GetCommandList()
	require.NoError(t, err)

	destination := mocks.NewMockResource(ctrl)
	intermediate := mocks.NewMockResource(ctrl)
	q.device.EXPECT().CreateCommittedResource(gpu.HeapTypeDefault, gomock.Any(), gomock.Any(), gomock.Any()).Return(destination, nil)
	q.device.EXPECT().CreateCommittedResource(gpu.HeapTypeUpload, gomock.Any(), gomock.Any(), gomock.Any()).Return(intermediate, nil)
	intermediate.EXPECT().Map().Return(unsafe.Pointer(nil), gpu.ErrDeviceLost)
	intermediate.EXPECT().Release()
	destination.EXPECT().Release()

	_, err = list.UpdateBufferResource([]byte{1, 2, 3}, gpu.ResourceFlagDenyShaderResource)
	require.ErrorIs(t, err, gpu.ErrDeviceLost)
	require.Equal(t, 0, list.TrackedResources())
}

func TestListUpdateBufferLogsUpload(t *testing.T) {
	ctrl := gomock.NewController(t)

	var output bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&output, &slog.HandlerOptions{Level: slog.LevelDebug}))
	q := newLoggedTestQueue(t, ctrl, logger, command.CreateOptions{Label: "upload"})

	allocator := mocks.NewMockCommandAllocator(ctrl)
	native := mocks.EasyMockCommandList(ctrl, gpu.QueueTypeDirect)
	q.device.EXPECT().CreateCommandAllocator(gpu.QueueTypeDirect).Return(allocator, nil)
	q.device.EXPECT().CreateCommandList(gpu.QueueTypeDirect, allocator).Return(native, nil)

	list, err := q.queue.GetCommandList()
	require.NoError(t, err)

	staging := make([]byte, 4)
	destination := mocks.NewMockResource(ctrl)
	intermediate := mocks.NewMockResource(ctrl)
	q.device.EXPECT().CreateCommittedResource(gpu.HeapTypeDefault, gomock.Any(), gomock.Any(), gomock.Any()).Return(destination, nil)
	q.device.EXPECT().CreateCommittedResource(gpu.HeapTypeUpload, gomock.Any(), gomock.Any(), gomock.Any()).Return(intermediate, nil)
	intermediate.EXPECT().Map().Return(unsafe.Pointer(&staging[0]), nil)
	intermediate.EXPECT().Unmap()
	native.EXPECT().CopyBufferRegion(destination, uint64(0), intermediate, uint64(0), uint64(4))

	_, err = list.UpdateBufferResource([]byte{1, 2, 3}, 0)
	require.NoError(t, err)

	var line string
	for _, candidate := range strings.Split(strings.TrimSpace(output.String()), "\n") {
		if strings.Contains(candidate, "staged buffer upload") {
			line = candidate
		}
	}
	require.NotEmpty(t, line)
	require.Equal(t, 1, strings.Count(line, `"category"`))

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &record))
	require.Equal(t, "DEBUG", record["level"])
	require.Equal(t, "graphics", record["category"])
	require.Equal(t, "upload", record["queue"])
	require.Equal(t, float64(3), record["bytes"])
}
