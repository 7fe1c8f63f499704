package fence

// Queue is a FIFO of deferred resources. Entries are pushed in fence order by their owner, so
// only the front of the queue ever needs to be checked for readiness.
//
// Queue is not synchronized.
type Queue[T any] struct {
	entries []Deferred[T]
	head    int
}

func (q *Queue[T]) Len() int {
	return len(q.entries) - q.head
}

// Push adds value to the back of the queue, to become ready once readyWhen is reached
func (q *Queue[T]) Push(value T, readyWhen Value) {
	q.entries = append(q.entries, Deferred[T]{Value: value, ReadyWhen: readyWhen})
}

// Front returns the oldest entry without removing it
func (q *Queue[T]) Front() (Deferred[T], bool) {
	if q.Len() == 0 {
		var zero Deferred[T]
		return zero, false
	}

	return q.entries[q.head], true
}

// PopReady removes and returns the front entry, but only if its fence value has been reached
func (q *Queue[T]) PopReady(completed Value) (T, bool) {
	front, ok := q.Front()
	if !ok || !front.IsReady(completed) {
		var zero T
		return zero, false
	}

	q.pop()
	return front.Value, true
}

// Pop removes and returns the front entry regardless of its fence value
func (q *Queue[T]) Pop() (Deferred[T], bool) {
	front, ok := q.Front()
	if !ok {
		return front, false
	}

	q.pop()
	return front, true
}

func (q *Queue[T]) pop() {
	var zero Deferred[T]
	q.entries[q.head] = zero
	q.head++

	if q.head == len(q.entries) {
		q.entries = q.entries[:0]
		q.head = 0
	} else if q.head >= 32 && q.head*2 >= len(q.entries) {
		remaining := copy(q.entries, q.entries[q.head:])
		clear(q.entries[remaining:])
		q.entries = q.entries[:remaining]
		q.head = 0
	}
}

// Drain passes every ready entry at the front of the queue to visit and removes it. Draining
// stops at the first entry that is not ready, or at the first error returned by visit. The entry
// that produced the error stays at the front of the queue.
func (q *Queue[T]) Drain(completed Value, visit func(value T) error) error {
	for {
		front, ok := q.Front()
		if !ok || !front.IsReady(completed) {
			return nil
		}

		if err := visit(front.Value); err != nil {
			return err
		}
		q.pop()
	}
}

// DrainAll passes every entry to visit regardless of readiness, with the same error handling as
// Drain
func (q *Queue[T]) DrainAll(visit func(entry Deferred[T]) error) error {
	for {
		front, ok := q.Front()
		if !ok {
			return nil
		}

		if err := visit(front); err != nil {
			return err
		}
		q.pop()
	}
}

// Visit calls visit for every entry from front to back without removing anything
func (q *Queue[T]) Visit(visit func(entry Deferred[T])) {
	for _, entry := range q.entries[q.head:] {
		visit(entry)
	}
}
