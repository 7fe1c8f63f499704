package main

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gallus-engine/gallus/gpu"
	"github.com/gallus-engine/gallus/render"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow adapts a glfw window to render.Window. Only the main thread may call into glfw, so
// the size and scale are cached from callbacks for the render thread to read.
type glfwWindow struct {
	window   *glfw.Window
	handle   gpu.WindowHandle
	onResize func(width, height int)

	mutex  sync.Mutex
	width  int
	height int
	scale  float64
}

var _ render.Window = &glfwWindow{}

func newGLFWWindow(width, height int, title string) (*glfwWindow, error) {
	if err := glfw.Init(); err != nil {
		return nil, errors.Wrap(err, "initialize glfw")
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, errors.Wrap(err, "create window")
	}

	handle, err := nativeHandle(window)
	if err != nil {
		window.Destroy()
		glfw.Terminate()
		return nil, err
	}

	scaleX, _ := window.GetContentScale()
	w := &glfwWindow{window: window, handle: handle, scale: float64(scaleX)}
	w.width, w.height = window.GetSize()

	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.mutex.Lock()
		w.width, w.height = window.GetSize()
		w.mutex.Unlock()

		if w.onResize != nil {
			w.onResize(width, height)
		}
	})
	window.SetContentScaleCallback(func(_ *glfw.Window, x, _ float32) {
		w.mutex.Lock()
		w.scale = float64(x)
		w.mutex.Unlock()
	})

	return w, nil
}

func (w *glfwWindow) Size() (int, int) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	return w.width, w.height
}

func (w *glfwWindow) ScaleFactor() float64 {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	return w.scale
}

func (w *glfwWindow) RequestRedraw()                 { glfw.PostEmptyEvent() }
func (w *glfwWindow) NativeHandle() gpu.WindowHandle { return w.handle }
func (w *glfwWindow) ShouldClose() bool              { return w.window.ShouldClose() }

func (w *glfwWindow) WaitEvents(timeout time.Duration) {
	glfw.WaitEventsTimeout(timeout.Seconds())
}

func (w *glfwWindow) Destroy() {
	w.window.Destroy()
	glfw.Terminate()
}
