package command

import (
	"context"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gallus-engine/gallus/fence"
	"github.com/gallus-engine/gallus/gpu"
	"github.com/gallus-engine/gallus/internal/utils"
	"github.com/gallus-engine/gallus/logging"
)

// submission is the work that must outlive a single ExecuteCommandList call: the allocator the
// commands were recorded into and any resources the list was asked to keep alive
type submission struct {
	allocator gpu.CommandAllocator
	tracked   []gpu.Resource
}

func (s *submission) releaseTracked() {
	for _, resource := range s.tracked {
		resource.Release()
	}
	s.tracked = nil
}

// QueueStatistics is a snapshot of a queue's pooling state
type QueueStatistics struct {
	AllocatorsCreated int
	ListsCreated      int
	PendingAllocators int
	PooledLists       int
	LastSignaled      fence.Value
	Completed         fence.Value
}

// Queue owns a native command queue and the fence that tracks its progress. Command
// allocators are recycled only once the fence value signaled after their last submission has
// completed, while command lists are recycled immediately after submission because a list
// can be reset against a different allocator as soon as it has been closed.
type Queue struct {
	logger      *slog.Logger
	device      gpu.Device
	queueType   gpu.QueueType
	options     CreateOptions
	waitTimeout time.Duration

	native      gpu.Queue
	nativeFence gpu.Fence

	mutex      *utils.OptionalMutex
	fenceValue fence.Value
	allocators fence.Queue[*submission]
	lists      []*List

	allocatorsCreated int
	listsCreated      int
	destroyed         bool
}

// NewQueue creates a native queue of the requested type along with a fence starting at 0
func NewQueue(logger *slog.Logger, device gpu.Device, queueType gpu.QueueType, options CreateOptions) (*Queue, error) {
	logger = logging.OrNop(logger).With(logging.Category(logging.CategoryGraphics))

	if device == nil {
		return nil, errors.New("attempted to create a command queue without a device")
	}

	native, err := device.CreateCommandQueue(queueType)
	if err != nil {
		return nil, errors.Wrapf(err, "create %s command queue", queueType)
	}

	nativeFence, err := device.CreateFence(0)
	if err != nil {
		native.Release()
		return nil, errors.Wrapf(err, "create fence for %s command queue", queueType)
	}

	if options.Label == "" {
		options.Label = queueType.String()
	}

	logger.LogAttrs(context.Background(), slog.LevelDebug, "created command queue",
		slog.String("queue", options.Label))

	return &Queue{
		logger:      logger,
		device:      device,
		queueType:   queueType,
		options:     options,
		waitTimeout: options.waitTimeout(),
		native:      native,
		nativeFence: nativeFence,
		mutex:       utils.NewOptionalMutex(options.Flags&CreateExternallySynchronized == 0),
	}, nil
}

func (q *Queue) Type() gpu.QueueType { return q.queueType }
func (q *Queue) Native() gpu.Queue   { return q.native }
func (q *Queue) Fence() gpu.Fence    { return q.nativeFence }
func (q *Queue) Label() string       { return q.options.Label }

// GetCommandList returns a list that is open for recording. The oldest pooled allocator is
// reused only if the GPU has finished with it; otherwise a new allocator is created.
func (q *Queue) GetCommandList() (*List, error) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	if q.destroyed {
		return nil, errors.Newf("attempted to get a command list from destroyed queue %s", q.options.Label)
	}

	allocator, err := q.acquireAllocator()
	if err != nil {
		q.logger.LogAttrs(context.Background(), slog.LevelError, "failed to acquire command allocator",
			slog.String("queue", q.options.Label),
			slog.Any("error", err))
		return nil, err
	}

	list, err := q.acquireList(allocator)
	if err != nil {
		allocator.Release()
		q.logger.LogAttrs(context.Background(), slog.LevelError, "failed to acquire command list",
			slog.String("queue", q.options.Label),
			slog.Any("error", err))
		return nil, err
	}

	return list, nil
}

func (q *Queue) acquireAllocator() (gpu.CommandAllocator, error) {
	if front, ok := q.allocators.Front(); ok && front.IsReady(fence.Value(q.nativeFence.CompletedValue())) {
		q.allocators.Pop()

		sub := front.Value
		sub.releaseTracked()
		if err := sub.allocator.Reset(); err != nil {
			sub.allocator.Release()
			return nil, errors.Wrap(err, "reset command allocator")
		}

		return sub.allocator, nil
	}

	allocator, err := q.device.CreateCommandAllocator(q.queueType)
	if err != nil {
		return nil, errors.Wrapf(err, "create %s command allocator", q.queueType)
	}
	q.allocatorsCreated++

	return allocator, nil
}

func (q *Queue) acquireList(allocator gpu.CommandAllocator) (*List, error) {
	var list *List

	if len(q.lists) > 0 {
		list = q.lists[0]
		q.lists[0] = nil
		q.lists = q.lists[1:]

		if err := list.native.Reset(allocator); err != nil {
			list.native.Release()
			return nil, errors.Wrap(err, "reset command list")
		}
	} else {
		native, err := q.device.CreateCommandList(q.queueType, allocator)
		if err != nil {
			return nil, errors.Wrapf(err, "create %s command list", q.queueType)
		}
		q.listsCreated++

		list = &List{queue: q, native: native}
	}

	list.allocator = allocator
	list.recording = true
	return list, nil
}

// ExecuteCommandList closes list, submits it and signals the queue's fence. The returned value
// is the fence value that will be reached once the GPU has finished the submission. The list
// goes back to the pool immediately; its allocator is pooled until that value completes.
func (q *Queue) ExecuteCommandList(list *List) (fence.Value, error) {
	if list == nil {
		return 0, errors.New("attempted to execute a nil command list")
	}
	if list.queue != q {
		return 0, errors.Wrapf(ErrWrongQueue, "list of type %s submitted to queue %s", list.Type(), q.options.Label)
	}

	q.mutex.Lock()
	defer q.mutex.Unlock()

	if !list.recording {
		return 0, ErrListNotRecording
	}

	sub := &submission{allocator: list.allocator, tracked: list.tracked}
	list.allocator = nil
	list.tracked = nil
	list.recording = false

	if err := list.native.Close(); err != nil {
		// A list that failed to close is in an unknown state, so it is released rather than
		// pooled. Nothing was submitted, so its allocator waits only on earlier work.
		list.native.Release()
		q.allocators.Push(sub, q.fenceValue)
		err = errors.Wrapf(err, "close command list on %s", q.options.Label)
		q.logger.LogAttrs(context.Background(), slog.LevelError, "failed to close command list",
			slog.String("queue", q.options.Label),
			slog.Any("error", err))
		return 0, err
	}

	q.lists = append(q.lists, list)

	if err := q.native.ExecuteCommandLists(list.native); err != nil {
		// Nothing from this list reached the GPU, so the allocator is as safe to reuse as
		// everything submitted before it
		q.allocators.Push(sub, q.fenceValue)
		err = errors.Wrapf(err, "execute command list on %s", q.options.Label)
		q.logger.LogAttrs(context.Background(), slog.LevelError, "failed to execute command list",
			slog.String("queue", q.options.Label),
			slog.Any("error", err))
		return 0, err
	}

	value, err := q.signal()
	if err != nil {
		// The GPU timeline is ordered, so the next value that does get signaled also covers
		// this submission
		q.allocators.Push(sub, q.fenceValue+1)
		return 0, err
	}

	q.allocators.Push(sub, value)
	return value, nil
}

// Signal enqueues a signal of the next fence value on the GPU timeline and returns it
func (q *Queue) Signal() (fence.Value, error) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	return q.signal()
}

func (q *Queue) signal() (fence.Value, error) {
	value := q.fenceValue + 1
	if err := q.native.Signal(q.nativeFence, uint64(value)); err != nil {
		err = errors.Wrapf(err, "signal fence value %d on %s", value, q.options.Label)
		q.logger.LogAttrs(context.Background(), slog.LevelError, "failed to signal fence",
			slog.String("queue", q.options.Label),
			slog.Any("error", err))
		return 0, err
	}

	q.fenceValue = value
	return value, nil
}

// CompletedValue returns the highest fence value the GPU has reached
func (q *Queue) CompletedValue() fence.Value {
	return fence.Value(q.nativeFence.CompletedValue())
}

// LastSignaledValue returns the most recent value passed to the GPU by Signal or
// ExecuteCommandList
func (q *Queue) LastSignaledValue() fence.Value {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	return q.fenceValue
}

func (q *Queue) IsFenceComplete(value fence.Value) bool {
	return value.Reached(q.CompletedValue())
}

// WaitForFenceValue blocks until the GPU reaches value. It returns immediately if the value
// has already completed, and fails with ErrFenceTimeout if the wait exceeds the queue's
// WaitTimeout. Waiting on a value that has never been signaled fails without blocking.
func (q *Queue) WaitForFenceValue(value fence.Value) error {
	if q.IsFenceComplete(value) {
		return nil
	}

	if last := q.LastSignaledValue(); value > last {
		return errors.Wrapf(gpu.ErrFenceNeverSignaled, "fence value %d on %s, last signaled %d", value, q.options.Label, last)
	}

	err := q.nativeFence.Wait(uint64(value), q.waitTimeout)
	if errors.Is(err, gpu.ErrWaitTimeout) {
		err = errors.Wrapf(ErrFenceTimeout, "fence value %d on %s after %s", value, q.options.Label, q.waitTimeout)
	} else if err != nil {
		err = errors.Wrapf(err, "wait for fence value %d on %s", value, q.options.Label)
	}

	if err != nil {
		q.logger.LogAttrs(context.Background(), slog.LevelError, "failed to wait for fence",
			slog.String("queue", q.options.Label),
			slog.Any("error", err))
	}

	return err
}

// Flush signals a new fence value and waits for it, so every command submitted to this queue
// before the call has finished executing when it returns
func (q *Queue) Flush() error {
	value, err := q.Signal()
	if err != nil {
		return err
	}

	return q.WaitForFenceValue(value)
}

func (q *Queue) Statistics() QueueStatistics {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	return QueueStatistics{
		AllocatorsCreated: q.allocatorsCreated,
		ListsCreated:      q.listsCreated,
		PendingAllocators: q.allocators.Len(),
		PooledLists:       len(q.lists),
		LastSignaled:      q.fenceValue,
		Completed:         q.CompletedValue(),
	}
}

// Destroy flushes the queue and releases every pooled allocator and list along with the
// native queue and fence. If the flush fails nothing is released, since the GPU may still be
// reading from the pooled objects.
func (q *Queue) Destroy() error {
	q.mutex.Lock()
	destroyed := q.destroyed
	q.mutex.Unlock()

	if destroyed {
		return nil
	}

	if err := q.Flush(); err != nil {
		return errors.Wrapf(err, "flush %s before destroy", q.options.Label)
	}

	q.mutex.Lock()
	defer q.mutex.Unlock()

	q.destroyed = true

	err := q.allocators.DrainAll(func(pending fence.Deferred[*submission]) error {
		pending.Value.releaseTracked()
		pending.Value.allocator.Release()
		return nil
	})

	for _, list := range q.lists {
		list.native.Release()
	}
	q.lists = nil

	q.nativeFence.Release()
	q.native.Release()

	q.logger.LogAttrs(context.Background(), slog.LevelDebug, "destroyed command queue",
		slog.String("queue", q.options.Label),
		slog.Int("allocatorsCreated", q.allocatorsCreated),
		slog.Int("listsCreated", q.listsCreated))

	return err
}
