package render

import (
	"github.com/gallus-engine/gallus/internal/utils"
	"github.com/gallus-engine/gallus/swapchain"
)

// CreateFlags indicate specific renderer behaviors to activate or deactivate
type CreateFlags int32

var createFlagsMapping = utils.NewFlagStringMapping[CreateFlags]()

func (f CreateFlags) Register(str string) {
	createFlagsMapping.Register(f, str)
}
func (f CreateFlags) String() string {
	return createFlagsMapping.FlagsToString(f)
}

const (
	// CreateExternallySynchronized disables the internal mutexes of the context's command queues
	// and descriptor allocators. Only set it when a single thread ever touches the context.
	CreateExternallySynchronized CreateFlags = 1 << iota
)

func init() {
	CreateExternallySynchronized.Register("CreateExternallySynchronized")
}

const (
	defaultShaderResourceCount = 100
	defaultViewCacheSize       = 64
	defaultSwapChainBuffers    = 3
)

// CreateOptions contains optional settings when creating a render context or system
type CreateOptions struct {
	// SwapChain configures the back buffers of the render system
	SwapChain swapchain.CreateOptions
	// DescriptorsPerPage is passed to every descriptor allocator. If 0, the allocator default is used.
	DescriptorsPerPage int
	// ShaderResourceCount is the capacity of the shader visible SRV heap. If 0, 100 is used.
	ShaderResourceCount int
	// RenderTexture reserves one extra render target view slot for an offscreen color target
	RenderTexture bool
	// ViewCacheSize is the number of shader resource views kept by the view cache. If 0, 64 is used.
	ViewCacheSize int
	// Flags indicates specific renderer behaviors to activate or deactivate
	Flags CreateFlags
}

func (o CreateOptions) shaderResourceCount() int {
	if o.ShaderResourceCount <= 0 {
		return defaultShaderResourceCount
	}

	return o.ShaderResourceCount
}

func (o CreateOptions) viewCacheSize() int {
	if o.ViewCacheSize <= 0 {
		return defaultViewCacheSize
	}

	return o.ViewCacheSize
}

func (o CreateOptions) renderTargetCount() int {
	count := o.SwapChain.BufferCount
	if count <= 0 {
		count = defaultSwapChainBuffers
	}

	if o.RenderTexture {
		count++
	}

	return count
}

func (o CreateOptions) externallySynchronized() bool {
	return o.Flags&CreateExternallySynchronized != 0
}
