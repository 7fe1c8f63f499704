package main

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/require"
)

func TestNewWindowRequiresNativeHandle(t *testing.T) {
	if err := glfw.Init(); err != nil {
		t.Skip("no display available:", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Visible, glfw.False)
	raw, err := glfw.CreateWindow(64, 48, "native handle", nil, nil)
	if err != nil {
		glfw.Terminate()
		t.Skip("cannot create windows here:", err)
	}

	_, handleErr := nativeHandle(raw)
	raw.Destroy()
	glfw.Terminate()

	window, err := newGLFWWindow(64, 48, "viewer")
	if handleErr != nil {
		require.Error(t, err)
		require.Nil(t, window)
		return
	}

	require.NoError(t, err)
	defer window.Destroy()
	require.NotZero(t, window.NativeHandle().Window)

	width, height := window.Size()
	require.Positive(t, width)
	require.Positive(t, height)
}
