package swapchain

import "github.com/cockroachdb/errors"

var ErrInvalidBufferCount = errors.New("swap chain buffer count must be between 2 and 16")
var ErrZeroSize = errors.New("swap chain size must be non-zero")
