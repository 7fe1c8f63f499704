package event

import "sync"

// ListenerID identifies a subscription so that it can be removed later
type ListenerID uint64

type listener[T any] struct {
	id       ListenerID
	callback func(T)
}

// Event notifies any number of listeners, in the order they subscribed. Listeners may subscribe
// or unsubscribe from inside a callback. Such changes take effect from the next Invoke.
type Event[T any] struct {
	mutex     sync.Mutex
	nextID    ListenerID
	listeners []listener[T]
}

func (e *Event[T]) Subscribe(callback func(T)) ListenerID {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	e.nextID++
	e.listeners = append(e.listeners, listener[T]{id: e.nextID, callback: callback})

	return e.nextID
}

// Unsubscribe removes a listener and returns false if it was not subscribed
func (e *Event[T]) Unsubscribe(id ListenerID) bool {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	for i, l := range e.listeners {
		if l.id != id {
			continue
		}

		// Copy rather than modify in place so snapshots held by Invoke stay intact
		remaining := make([]listener[T], 0, len(e.listeners)-1)
		remaining = append(remaining, e.listeners[:i]...)
		e.listeners = append(remaining, e.listeners[i+1:]...)
		return true
	}

	return false
}

func (e *Event[T]) Invoke(arg T) {
	e.mutex.Lock()
	snapshot := e.listeners
	e.mutex.Unlock()

	for _, l := range snapshot {
		l.callback(arg)
	}
}

func (e *Event[T]) Clear() {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	e.listeners = nil
}

func (e *Event[T]) Len() int {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	return len(e.listeners)
}

// SimpleEvent holds at most one listener. Setting a new listener replaces the previous one.
type SimpleEvent[T any] struct {
	mutex    sync.Mutex
	callback func(T)
}

func (e *SimpleEvent[T]) Set(callback func(T)) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	e.callback = callback
}

// Invoke calls the listener, if one is set, and reports whether it was called
func (e *SimpleEvent[T]) Invoke(arg T) bool {
	e.mutex.Lock()
	callback := e.callback
	e.mutex.Unlock()

	if callback == nil {
		return false
	}

	callback(arg)
	return true
}

func (e *SimpleEvent[T]) Clear() {
	e.Set(nil)
}

func (e *SimpleEvent[T]) IsSet() bool {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	return e.callback != nil
}
