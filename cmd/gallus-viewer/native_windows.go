package main

import (
	"unsafe"

	"github.com/gallus-engine/gallus/gpu"
	"github.com/go-gl/glfw/v3.3/glfw"
)

func nativeHandle(window *glfw.Window) (gpu.WindowHandle, error) {
	return gpu.WindowHandle{
		Window: uintptr(unsafe.Pointer(window.GetWin32Window())),
	}, nil
}
