//go:build (linux || freebsd) && !wayland

package main

import (
	"unsafe"

	"github.com/gallus-engine/gallus/gpu"
	"github.com/go-gl/glfw/v3.3/glfw"
)

func nativeHandle(window *glfw.Window) (gpu.WindowHandle, error) {
	return gpu.WindowHandle{
		Display: uintptr(unsafe.Pointer(glfw.GetX11Display())),
		Window:  uintptr(window.GetX11Window()),
	}, nil
}
