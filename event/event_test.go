package event_test

import (
	"testing"

	"github.com/gallus-engine/gallus/event"
	"github.com/stretchr/testify/require"
)

func TestEventInvokesInOrder(t *testing.T) {
	var e event.Event[int]
	var calls []string

	e.Subscribe(func(v int) { calls = append(calls, "first") })
	second := e.Subscribe(func(v int) { calls = append(calls, "second") })
	e.Subscribe(func(v int) { calls = append(calls, "third") })
	require.Equal(t, 3, e.Len())

	e.Invoke(1)
	require.Equal(t, []string{"first", "second", "third"}, calls)

	require.True(t, e.Unsubscribe(second))
	require.False(t, e.Unsubscribe(second))

	calls = nil
	e.Invoke(2)
	require.Equal(t, []string{"first", "third"}, calls)

	e.Clear()
	calls = nil
	e.Invoke(3)
	require.Empty(t, calls)
	require.Equal(t, 0, e.Len())
}

func TestEventUnsubscribeDuringInvoke(t *testing.T) {
	var e event.Event[string]
	var calls []string

	var first event.ListenerID
	first = e.Subscribe(func(v string) {
		calls = append(calls, "first:"+v)
		e.Unsubscribe(first)
	})
	e.Subscribe(func(v string) { calls = append(calls, "second:"+v) })

	e.Invoke("a")
	e.Invoke("b")

	require.Equal(t, []string{"first:a", "second:a", "second:b"}, calls)
}

func TestEventSubscribeDuringInvoke(t *testing.T) {
	var e event.Event[int]
	count := 0

	e.Subscribe(func(int) {
		count++
		e.Subscribe(func(int) { count += 10 })
	})

	e.Invoke(0)
	require.Equal(t, 1, count)
	require.Equal(t, 2, e.Len())
}

func TestSimpleEvent(t *testing.T) {
	var e event.SimpleEvent[int]
	require.False(t, e.IsSet())
	require.False(t, e.Invoke(1))

	total := 0
	e.Set(func(v int) { total += v })
	e.Set(func(v int) { total += v * 2 })
	require.True(t, e.IsSet())
	require.True(t, e.Invoke(3))
	require.Equal(t, 6, total)

	e.Clear()
	require.False(t, e.Invoke(3))
	require.Equal(t, 6, total)
}
