package descriptor

import "github.com/cockroachdb/errors"

var ErrNullAllocation = errors.New("attempted to free a null descriptor allocation")
var ErrInvalidCount = errors.New("descriptor count must be greater than zero")
var ErrForeignAllocation = errors.New("descriptor allocation does not belong to this page")
var ErrDoubleFree = errors.New("descriptor allocation was already freed")
var ErrHeapFull = errors.New("descriptor heap has no free slots")
var ErrInvalidIndex = errors.New("descriptor index is out of range or not allocated")
