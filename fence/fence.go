package fence

// Value is a point on a queue's monotonic fence timeline. Values are issued in strict submission
// order and are never reused, so "has this submission finished" is always a comparison against
// the most recently completed value.
type Value uint64

// Reached returns true if a fence that has completed up to completed has passed this value
func (v Value) Reached(completed Value) bool {
	return completed >= v
}

// Deferred pairs a resource that is logically free with the fence value that must complete before
// the resource may actually be reused
type Deferred[T any] struct {
	Value     T
	ReadyWhen Value
}

// IsReady returns true if the GPU work that might reference this resource has completed
func (d Deferred[T]) IsReady(completed Value) bool {
	return d.ReadyWhen.Reached(completed)
}
