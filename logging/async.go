package logging

import (
	"context"
	"log/slog"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gallus-engine/gallus/system"
)

const defaultAsyncBufferSize = 1024

type queuedRecord struct {
	handler slog.Handler
	ctx     context.Context
	record  slog.Record
}

// asyncQueue is shared by an AsyncHandler and every handler derived from it with WithAttrs or
// WithGroup
type asyncQueue struct {
	records chan queuedRecord
	thread  *system.Threaded

	acceptMutex sync.RWMutex
	accepting   bool

	errMutex sync.Mutex
	err      error
}

func (q *asyncQueue) InitializeThread() error {
	return nil
}

func (q *asyncQueue) Loop() error {
	select {
	case queued := <-q.records:
		q.write(queued)
	case <-q.thread.Stopping():
	}

	return nil
}

func (q *asyncQueue) Finalize() error {
	q.acceptMutex.Lock()
	q.accepting = false
	q.acceptMutex.Unlock()

	for {
		select {
		case queued := <-q.records:
			q.write(queued)
		default:
			q.errMutex.Lock()
			defer q.errMutex.Unlock()
			return q.err
		}
	}
}

func (q *asyncQueue) write(queued queuedRecord) {
	err := queued.handler.Handle(queued.ctx, queued.record)
	if err != nil {
		q.errMutex.Lock()
		q.err = errors.CombineErrors(q.err, err)
		q.errMutex.Unlock()
	}
}

// AsyncHandler is a slog.Handler that hands records to a dedicated logging thread, keeping
// formatting and output off the caller's critical path. Records are never dropped: before Start,
// after Stop, and whenever the queue is full, the record is written synchronously instead.
type AsyncHandler struct {
	next  slog.Handler
	queue *asyncQueue
}

var _ slog.Handler = &AsyncHandler{}

// NewAsyncHandler wraps next. A bufferSize of zero or less uses the default size.
func NewAsyncHandler(next slog.Handler, bufferSize int) *AsyncHandler {
	if bufferSize <= 0 {
		bufferSize = defaultAsyncBufferSize
	}

	queue := &asyncQueue{
		records: make(chan queuedRecord, bufferSize),
	}
	// The logging thread logs nothing about itself
	queue.thread = system.NewThreaded("logger", nil, queue)

	return &AsyncHandler{
		next:  next,
		queue: queue,
	}
}

// Start launches the logging thread
func (h *AsyncHandler) Start(ctx context.Context) error {
	err := h.queue.thread.Start(ctx, true)
	if err != nil {
		return err
	}

	h.queue.acceptMutex.Lock()
	h.queue.accepting = true
	h.queue.acceptMutex.Unlock()

	return nil
}

// Stop writes every queued record and then stops the logging thread. It returns the errors
// produced by the wrapped handler while the thread was running.
func (h *AsyncHandler) Stop() error {
	h.queue.acceptMutex.Lock()
	h.queue.accepting = false
	h.queue.acceptMutex.Unlock()

	return h.queue.thread.Stop()
}

func (h *AsyncHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *AsyncHandler) Handle(ctx context.Context, record slog.Record) error {
	h.queue.acceptMutex.RLock()
	defer h.queue.acceptMutex.RUnlock()

	if !h.queue.accepting {
		return h.next.Handle(ctx, record)
	}

	select {
	case h.queue.records <- queuedRecord{handler: h.next, ctx: context.WithoutCancel(ctx), record: record.Clone()}:
		return nil
	default:
		return h.next.Handle(ctx, record)
	}
}

func (h *AsyncHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AsyncHandler{next: h.next.WithAttrs(attrs), queue: h.queue}
}

func (h *AsyncHandler) WithGroup(name string) slog.Handler {
	return &AsyncHandler{next: h.next.WithGroup(name), queue: h.queue}
}
