package system

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
)

var ErrAlreadyStarted = errors.New("system was already started")
var ErrNotStarted = errors.New("system was never started")

// Runner is the body of a threaded system. Every method is called from the system's own OS
// thread, never from the thread that started it.
type Runner interface {
	// InitializeThread prepares the system. The system becomes ready only after it returns nil.
	InitializeThread() error
	// Loop performs one iteration of the system's work. It is called repeatedly until the system
	// is stopped or Loop returns an error. Long-blocking loops should select on Threaded.Stopping.
	Loop() error
	// Finalize releases everything InitializeThread created. It is called once the loop exits,
	// but not when InitializeThread failed.
	Finalize() error
}

// Threaded runs a Runner on a dedicated goroutine that is locked to its OS thread, and exposes
// an explicit start, ready, stop protocol to the rest of the engine.
type Threaded struct {
	name   string
	logger *slog.Logger
	runner Runner

	startMutex sync.Mutex
	started    bool

	ready   atomic.Bool
	running atomic.Bool

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}

	errMutex sync.Mutex
	err      error
}

func NewThreaded(name string, logger *slog.Logger, runner Runner) *Threaded {
	if logger == nil {
		logger = slog.New(nopHandler{})
	}

	return &Threaded{
		name:   name,
		logger: logger.With(slog.String("system", name)),
		runner: runner,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

func (t *Threaded) Name() string { return t.name }

// Ready returns true once InitializeThread has succeeded and until the loop exits
func (t *Threaded) Ready() bool { return t.ready.Load() }

// Running returns true while the system's thread is alive
func (t *Threaded) Running() bool { return t.running.Load() }

// Stopping returns a channel that is closed when the system has been asked to stop, either by
// Stop or by cancellation of the context passed to Start
func (t *Threaded) Stopping() <-chan struct{} { return t.stop }

// Done returns a channel that is closed once the system's thread has exited
func (t *Threaded) Done() <-chan struct{} { return t.done }

// Start launches the system's thread. If wait is true, Start blocks until the system is ready
// and returns any error from InitializeThread.
func (t *Threaded) Start(ctx context.Context, wait bool) error {
	t.startMutex.Lock()
	if t.started {
		t.startMutex.Unlock()
		return ErrAlreadyStarted
	}
	t.started = true
	t.startMutex.Unlock()

	initialized := make(chan error, 1)
	t.running.Store(true)
	go t.run(ctx, initialized)

	if !wait {
		return nil
	}

	return <-initialized
}

// Stop signals the system to stop and blocks until its thread has exited. It returns the first
// error produced by InitializeThread, Loop, or Finalize.
func (t *Threaded) Stop() error {
	t.startMutex.Lock()
	started := t.started
	t.startMutex.Unlock()

	if !started {
		return ErrNotStarted
	}

	t.signalStop()
	<-t.done

	return t.Err()
}

// Err returns the first error the system produced, if any
func (t *Threaded) Err() error {
	t.errMutex.Lock()
	defer t.errMutex.Unlock()

	return t.err
}

func (t *Threaded) signalStop() {
	t.stopOnce.Do(func() {
		close(t.stop)
	})
}

func (t *Threaded) setErr(err error) {
	t.errMutex.Lock()
	defer t.errMutex.Unlock()

	if t.err == nil {
		t.err = err
	}
}

func (t *Threaded) run(ctx context.Context, initialized chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	defer close(t.done)
	defer t.running.Store(false)

	if ctx != nil {
		go func() {
			select {
			case <-ctx.Done():
				t.signalStop()
			case <-t.done:
			}
		}()
	}

	err := t.runner.InitializeThread()
	if err != nil {
		err = errors.Wrapf(err, "initialize %s", t.name)
		t.logger.LogAttrs(context.Background(), slog.LevelError, "system failed to initialize", slog.Any("error", err))
		t.setErr(err)
		initialized <- err
		return
	}

	t.ready.Store(true)
	initialized <- nil
	t.logger.LogAttrs(context.Background(), slog.LevelDebug, "system ready")

	t.loop()

	t.ready.Store(false)
	err = t.runner.Finalize()
	if err != nil {
		err = errors.Wrapf(err, "finalize %s", t.name)
		t.logger.LogAttrs(context.Background(), slog.LevelError, "system failed to finalize", slog.Any("error", err))
		t.setErr(err)
	}

	t.logger.LogAttrs(context.Background(), slog.LevelDebug, "system stopped")
}

func (t *Threaded) loop() {
	for {
		select {
		case <-t.stop:
			return
		default:
		}

		err := t.runner.Loop()
		if err != nil {
			err = errors.Wrapf(err, "%s loop", t.name)
			t.logger.LogAttrs(context.Background(), slog.LevelError, "system loop failed", slog.Any("error", err))
			t.setErr(err)
			return
		}
	}
}

// nopHandler discards records when no logger is provided
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (h nopHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h nopHandler) WithGroup(string) slog.Handler           { return h }
