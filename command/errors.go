package command

import "github.com/cockroachdb/errors"

var ErrListNotRecording = errors.New("command list is not open for recording")
var ErrWrongQueue = errors.New("command list was created by a different queue")
var ErrFenceTimeout = errors.New("timed out waiting for a fence value")
