package gpu

import (
	"fmt"

	"github.com/gallus-engine/gallus/internal/utils"
	"github.com/gogpu/gputypes"
)

// QueueType identifies which hardware engine a command queue submits to
type QueueType int32

const (
	QueueTypeDirect QueueType = iota
	QueueTypeCompute
	QueueTypeCopy
)

var queueTypeMapping = map[QueueType]string{
	QueueTypeDirect:  "QueueTypeDirect",
	QueueTypeCompute: "QueueTypeCompute",
	QueueTypeCopy:    "QueueTypeCopy",
}

func (t QueueType) String() string {
	str, ok := queueTypeMapping[t]
	if !ok {
		return fmt.Sprintf("QueueType(%d)", int32(t))
	}
	return str
}

// DescriptorHeapType identifies what kind of view a descriptor heap stores
type DescriptorHeapType int32

const (
	DescriptorHeapTypeCBVSRVUAV DescriptorHeapType = iota
	DescriptorHeapTypeSampler
	DescriptorHeapTypeRTV
	DescriptorHeapTypeDSV

	// DescriptorHeapTypeCount is the number of descriptor heap types
	DescriptorHeapTypeCount int = iota
)

var descriptorHeapTypeMapping = map[DescriptorHeapType]string{
	DescriptorHeapTypeCBVSRVUAV: "DescriptorHeapTypeCBVSRVUAV",
	DescriptorHeapTypeSampler:   "DescriptorHeapTypeSampler",
	DescriptorHeapTypeRTV:       "DescriptorHeapTypeRTV",
	DescriptorHeapTypeDSV:       "DescriptorHeapTypeDSV",
}

func (t DescriptorHeapType) String() string {
	str, ok := descriptorHeapTypeMapping[t]
	if !ok {
		return fmt.Sprintf("DescriptorHeapType(%d)", int32(t))
	}
	return str
}

// ResourceStates describes how a resource is being used by the GPU. Transitions between states
// must be recorded in a command list with a resource barrier.
type ResourceStates int32

var resourceStatesMapping = utils.NewFlagStringMapping[ResourceStates]()

func (s ResourceStates) Register(str string) {
	resourceStatesMapping.Register(s, str)
}
func (s ResourceStates) String() string {
	return resourceStatesMapping.FlagsToString(s)
}

const (
	// ResourceStateCommon is the state of a freshly created resource that no engine is using
	ResourceStateCommon ResourceStates = 0
	// ResourceStatePresent is the state a back buffer must be in when it is handed to the swap chain
	ResourceStatePresent ResourceStates = 1 << (iota - 1)
	ResourceStateRenderTarget
	ResourceStateDepthWrite
	ResourceStateDepthRead
	ResourceStateCopyDest
	ResourceStateCopySource
	ResourceStateShaderResource
	// ResourceStateGenericRead is the required state of upload heap resources
	ResourceStateGenericRead
)

func init() {
	ResourceStatePresent.Register("Present")
	ResourceStateRenderTarget.Register("RenderTarget")
	ResourceStateDepthWrite.Register("DepthWrite")
	ResourceStateDepthRead.Register("DepthRead")
	ResourceStateCopyDest.Register("CopyDest")
	ResourceStateCopySource.Register("CopySource")
	ResourceStateShaderResource.Register("ShaderResource")
	ResourceStateGenericRead.Register("GenericRead")
}

// HeapType decides which memory a committed resource is placed in
type HeapType int32

const (
	// HeapTypeDefault is device-local memory the CPU cannot access
	HeapTypeDefault HeapType = iota
	// HeapTypeUpload is CPU-writable memory used to stage data for the GPU
	HeapTypeUpload
	// HeapTypeReadback is CPU-readable memory used to retrieve data from the GPU
	HeapTypeReadback
)

var heapTypeMapping = map[HeapType]string{
	HeapTypeDefault:  "HeapTypeDefault",
	HeapTypeUpload:   "HeapTypeUpload",
	HeapTypeReadback: "HeapTypeReadback",
}

func (t HeapType) String() string {
	str, ok := heapTypeMapping[t]
	if !ok {
		return fmt.Sprintf("HeapType(%d)", int32(t))
	}
	return str
}

// ResourceDimension distinguishes buffers from textures
type ResourceDimension int32

const (
	ResourceDimensionBuffer ResourceDimension = iota
	ResourceDimensionTexture2D
)

var resourceDimensionMapping = map[ResourceDimension]string{
	ResourceDimensionBuffer:    "ResourceDimensionBuffer",
	ResourceDimensionTexture2D: "ResourceDimensionTexture2D",
}

func (d ResourceDimension) String() string {
	str, ok := resourceDimensionMapping[d]
	if !ok {
		return fmt.Sprintf("ResourceDimension(%d)", int32(d))
	}
	return str
}

// ResourceFlags enable optional usages of a resource
type ResourceFlags int32

var resourceFlagsMapping = utils.NewFlagStringMapping[ResourceFlags]()

func (f ResourceFlags) Register(str string) {
	resourceFlagsMapping.Register(f, str)
}
func (f ResourceFlags) String() string {
	return resourceFlagsMapping.FlagsToString(f)
}

const (
	ResourceFlagAllowRenderTarget ResourceFlags = 1 << iota
	ResourceFlagAllowDepthStencil
	ResourceFlagDenyShaderResource
)

func init() {
	ResourceFlagAllowRenderTarget.Register("AllowRenderTarget")
	ResourceFlagAllowDepthStencil.Register("AllowDepthStencil")
	ResourceFlagDenyShaderResource.Register("DenyShaderResource")
}

// PresentFlags modify the behavior of SwapChain.Present
type PresentFlags int32

var presentFlagsMapping = utils.NewFlagStringMapping[PresentFlags]()

func (f PresentFlags) Register(str string) {
	presentFlagsMapping.Register(f, str)
}
func (f PresentFlags) String() string {
	return presentFlagsMapping.FlagsToString(f)
}

const (
	// PresentAllowTearing presents immediately without waiting for vertical blank. It is only
	// valid with a sync interval of 0.
	PresentAllowTearing PresentFlags = 1 << iota
)

func init() {
	PresentAllowTearing.Register("AllowTearing")
}

// Format is the pixel format of a texture or view
type Format = gputypes.TextureFormat

// CPUDescriptorHandle addresses a single descriptor slot from the CPU
type CPUDescriptorHandle struct {
	Ptr uintptr
}

// Offset returns the handle index slots further into the heap
func (h CPUDescriptorHandle) Offset(index int, increment uint32) CPUDescriptorHandle {
	return CPUDescriptorHandle{Ptr: h.Ptr + uintptr(index)*uintptr(increment)}
}

func (h CPUDescriptorHandle) IsNull() bool { return h.Ptr == 0 }

// GPUDescriptorHandle addresses a single descriptor slot of a shader-visible heap from shaders
type GPUDescriptorHandle struct {
	Ptr uint64
}

func (h GPUDescriptorHandle) Offset(index int, increment uint32) GPUDescriptorHandle {
	return GPUDescriptorHandle{Ptr: h.Ptr + uint64(index)*uint64(increment)}
}

func (h GPUDescriptorHandle) IsNull() bool { return h.Ptr == 0 }

type Viewport struct {
	TopLeftX float32
	TopLeftY float32
	Width    float32
	Height   float32
	MinDepth float32
	MaxDepth float32
}

type Rect struct {
	Left   int32
	Top    int32
	Right  int32
	Bottom int32
}

// WindowHandle carries the platform window that a swap chain presents into. Display is only
// used on platforms that need a connection handle alongside the window, such as X11.
type WindowHandle struct {
	Display uintptr
	Window  uintptr
}

type DescriptorHeapDesc struct {
	Type           DescriptorHeapType
	NumDescriptors int
	ShaderVisible  bool
}

type ResourceDesc struct {
	Dimension ResourceDimension
	// Width is the byte size of a buffer or the pixel width of a texture
	Width  uint64
	Height uint32
	Format Format
	Flags  ResourceFlags
	Label  string
}

// ClearValue is the optimized clear value used when creating render targets and depth buffers
type ClearValue struct {
	Color   gputypes.Color
	Depth   float32
	Stencil uint8
}

type SwapChainDesc struct {
	Width        uint32
	Height       uint32
	Format       Format
	BufferCount  int
	AllowTearing bool
}

// DepthStencilClearFlags select which aspects ClearDepthStencilView clears
type DepthStencilClearFlags int32

const (
	ClearFlagDepth DepthStencilClearFlags = 1 << iota
	ClearFlagStencil
)
