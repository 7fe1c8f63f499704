//go:build !windows && !((linux || freebsd) && !wayland)

package main

import (
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/gallus-engine/gallus/gpu"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// TODO: create a CAMetalLayer for the cocoa window so the viewer can present on darwin
func nativeHandle(*glfw.Window) (gpu.WindowHandle, error) {
	return gpu.WindowHandle{}, errors.Newf("presenting to a window is not supported on %s", runtime.GOOS)
}
