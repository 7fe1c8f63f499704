package heaputils

import "github.com/pkg/errors"

// NegativeSizeError is returned when a size or count that must be positive is zero or negative
var NegativeSizeError error = errors.New("size must be greater than zero")
