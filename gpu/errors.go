package gpu

import "github.com/cockroachdb/errors"

var ErrDeviceLost = errors.New("the graphics device was lost")
var ErrFenceNeverSignaled = errors.New("waited on a fence value that was never signaled")
var ErrNotCurrentBackBuffer = errors.New("the back buffer is not the current back buffer")
var ErrUnknownHandle = errors.New("descriptor handle does not belong to a live descriptor heap")
var ErrWaitTimeout = errors.New("timed out waiting for the GPU")
