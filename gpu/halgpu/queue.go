package halgpu

import (
	"github.com/cockroachdb/errors"
	"github.com/gallus-engine/gallus/gpu"
	"github.com/gogpu/wgpu/hal"
)

type queue struct {
	device    *Device
	queueType gpu.QueueType
}

var _ gpu.Queue = &queue{}

func (q *queue) Type() gpu.QueueType { return q.queueType }

func (q *queue) ExecuteCommandLists(lists ...gpu.CommandList) error {
	buffers := make([]hal.CommandBuffer, 0, len(lists))
	for _, list := range lists {
		l, ok := list.(*commandList)
		if !ok || l.device != q.device {
			return errors.Newf("command list %T was not created by this device", list)
		}

		buffer, err := l.takeClosed()
		if err != nil {
			return err
		}
		buffers = append(buffers, buffer)
	}

	return q.device.submit(buffers)
}

// Signal completes value on the fence once everything submitted so far has finished
func (q *queue) Signal(f gpu.Fence, value uint64) error {
	tf, ok := f.(*timelineFence)
	if !ok || tf.device != q.device {
		return errors.Newf("fence %T was not created by this device", f)
	}

	return tf.signal(value, q.device.lastSubmitted())
}

func (q *queue) Release() {}
