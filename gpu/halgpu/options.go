package halgpu

import (
	"github.com/cockroachdb/errors"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// backendPriority is the order in which backends are tried when CreateOptions.Backends allows
// more than one
var backendPriority = []gputypes.Backend{
	gputypes.BackendVulkan,
	gputypes.BackendMetal,
	gputypes.BackendDX12,
	gputypes.BackendGL,
	gputypes.BackendEmpty,
}

// BackendsNoop selects the noop backend, which accepts every call and completes all work
// immediately
const BackendsNoop gputypes.Backends = 1 << gputypes.BackendEmpty

// CreateOptions contains optional settings when opening a device
type CreateOptions struct {
	// Backends restricts which backends may be used. If 0, the best registered backend is used,
	// falling back to the software or noop backend when no hardware backend is available.
	Backends gputypes.Backends
	// Features are the optional device features to request
	Features gputypes.Features
	// Limits are the device limits to request. If nil, the default limits are used.
	Limits *gputypes.Limits
	// Label names the device in log output
	Label string
}

func (o CreateOptions) limits() gputypes.Limits {
	if o.Limits == nil {
		return gputypes.DefaultLimits()
	}

	return *o.Limits
}

func (o CreateOptions) selectBackend() (hal.Backend, error) {
	if o.Backends == gputypes.BackendsNone {
		return hal.SelectBestBackend()
	}

	for _, variant := range backendPriority {
		if o.Backends&(1<<variant) == 0 {
			continue
		}

		if backend, ok := hal.GetBackend(variant); ok {
			return backend, nil
		}

		if backend, err := hal.CreateBackend(variant); err == nil {
			hal.RegisterBackend(backend)
			return backend, nil
		}
	}

	return nil, errors.Wrapf(hal.ErrBackendNotFound, "no registered backend matches %08b", o.Backends)
}

// ParseBackends converts a backend name as accepted on the command line into a backend set.
// "auto" and the empty string select the best available backend.
func ParseBackends(name string) (gputypes.Backends, error) {
	switch name {
	case "", "auto":
		return gputypes.BackendsNone, nil
	case "vulkan":
		return gputypes.BackendsVulkan, nil
	case "metal":
		return gputypes.BackendsMetal, nil
	case "dx12":
		return gputypes.BackendsDX12, nil
	case "gl":
		return gputypes.BackendsGL, nil
	case "primary":
		return gputypes.BackendsPrimary, nil
	case "noop":
		return BackendsNoop, nil
	}

	return gputypes.BackendsNone, errors.Newf("unknown backend %q", name)
}
