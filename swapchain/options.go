package swapchain

import (
	"github.com/cockroachdb/errors"
	"github.com/gallus-engine/gallus/gpu"
	"github.com/gogpu/gputypes"
)

const (
	// defaultBufferCount is the value that is used as BufferCount when none is provided via
	// CreateOptions
	defaultBufferCount = 3
	minBufferCount     = 2
	maxBufferCount     = 16

	defaultFormat      = gputypes.TextureFormatBGRA8Unorm
	defaultDepthFormat = gputypes.TextureFormatDepth32Float

	defaultClearDepth float32 = 1
)

// CreateOptions contains optional settings when creating a swap chain
type CreateOptions struct {
	// BufferCount is the number of back buffers, between 2 and 16. If 0, 3 is used.
	BufferCount int
	// Format is the back buffer format. If unset, BGRA8Unorm is used.
	Format gpu.Format
	// DepthFormat is the depth buffer format. If unset, Depth32Float is used.
	DepthFormat gpu.Format
	// VSync presents with a sync interval of 1 instead of 0
	VSync bool
	// AllowTearing presents with the tearing flag whenever VSync is off
	AllowTearing bool
	// ClearColor is the color each back buffer is cleared to by BeginFrame
	ClearColor gputypes.Color
	// ClearDepth is the value the depth buffer is cleared to by BeginFrame. If 0, 1 is used.
	ClearDepth float32
}

func (o CreateOptions) withDefaults() (CreateOptions, error) {
	var unset gpu.Format

	if o.BufferCount == 0 {
		o.BufferCount = defaultBufferCount
	}
	if o.BufferCount < minBufferCount || o.BufferCount > maxBufferCount {
		return o, errors.Wrapf(ErrInvalidBufferCount, "requested %d buffers", o.BufferCount)
	}

	if o.Format == unset {
		o.Format = defaultFormat
	}
	if o.DepthFormat == unset {
		o.DepthFormat = defaultDepthFormat
	}
	if o.ClearDepth == 0 {
		o.ClearDepth = defaultClearDepth
	}

	return o, nil
}

func (o CreateOptions) presentParameters() (int, gpu.PresentFlags) {
	if o.VSync {
		return 1, 0
	}

	if o.AllowTearing {
		return 0, gpu.PresentAllowTearing
	}

	return 0, 0
}
