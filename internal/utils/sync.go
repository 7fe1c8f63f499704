package utils

import (
	"sync"
)

// OptionalMutex is a mutex that can be switched off when the caller has promised to synchronize
// access externally. The zero value is an unlocked mutex that does nothing.
type OptionalMutex struct {
	mutex   sync.Mutex
	enabled bool
}

func NewOptionalMutex(enabled bool) *OptionalMutex {
	return &OptionalMutex{enabled: enabled}
}

func (m *OptionalMutex) Enabled() bool { return m.enabled }

func (m *OptionalMutex) Lock() {
	if m.enabled {
		m.mutex.Lock()
	}
}

func (m *OptionalMutex) Unlock() {
	if m.enabled {
		m.mutex.Unlock()
	}
}

// OptionalRWMutex behaves as OptionalMutex but allows concurrent readers when enabled
type OptionalRWMutex struct {
	mutex   sync.RWMutex
	enabled bool
}

func NewOptionalRWMutex(enabled bool) *OptionalRWMutex {
	return &OptionalRWMutex{enabled: enabled}
}

func (m *OptionalRWMutex) Enabled() bool { return m.enabled }

func (m *OptionalRWMutex) TryLock() bool {
	if m.enabled {
		return m.mutex.TryLock()
	}

	return true
}

func (m *OptionalRWMutex) Lock() {
	if m.enabled {
		m.mutex.Lock()
	}
}

func (m *OptionalRWMutex) Unlock() {
	if m.enabled {
		m.mutex.Unlock()
	}
}

func (m *OptionalRWMutex) RLock() {
	if m.enabled {
		m.mutex.RLock()
	}
}

func (m *OptionalRWMutex) RUnlock() {
	if m.enabled {
		m.mutex.RUnlock()
	}
}
