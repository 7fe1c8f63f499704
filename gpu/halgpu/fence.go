package halgpu

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gallus-engine/gallus/fence"
	"github.com/gallus-engine/gallus/gpu"
)

const fencePollInterval = 100 * time.Microsecond

// timelineFence emulates a monotonically increasing fence on top of hal submission indices. A
// signal is recorded against the most recent submission and completes once the queue reports
// that submission as done.
type timelineFence struct {
	device *Device

	mutex     sync.Mutex
	completed uint64
	signaled  uint64
	pending   fence.Queue[uint64]
}

var _ gpu.Fence = &timelineFence{}

func (f *timelineFence) signal(value, submission uint64) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if value <= f.signaled {
		return errors.Newf("fence value %d does not increase on the last signaled value %d", value, f.signaled)
	}

	f.pending.Push(value, fence.Value(submission))
	f.signaled = value
	return nil
}

func (f *timelineFence) poll() {
	done := fence.Value(f.device.queue.PollCompleted())
	_ = f.pending.Drain(done, func(value uint64) error {
		f.completed = value
		return nil
	})
}

func (f *timelineFence) CompletedValue() uint64 {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.poll()
	return f.completed
}

func (f *timelineFence) Wait(value uint64, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)

	for {
		f.mutex.Lock()
		f.poll()
		completed, signaled := f.completed, f.signaled
		f.mutex.Unlock()

		if completed >= value {
			return nil
		}
		if value > signaled {
			return errors.Wrapf(gpu.ErrFenceNeverSignaled, "fence value %d, last signaled %d", value, signaled)
		}
		if !time.Now().Before(deadline) {
			return errors.Wrapf(gpu.ErrWaitTimeout, "fence value %d, completed %d", value, completed)
		}

		time.Sleep(fencePollInterval)
	}
}

func (f *timelineFence) Release() {}
