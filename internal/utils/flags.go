package utils

import (
	"math/bits"
	"strings"

	"golang.org/x/exp/constraints"
)

// FlagStringMapping maps the individual bits of a flags type to printable names
type FlagStringMapping[T constraints.Integer] struct {
	names map[T]string
}

func NewFlagStringMapping[T constraints.Integer]() FlagStringMapping[T] {
	return FlagStringMapping[T]{names: make(map[T]string)}
}

func (m FlagStringMapping[T]) Register(flag T, name string) {
	m.names[flag] = name
}

// FlagsToString joins the names of every set bit with '|'. Unregistered bits are skipped and a
// value with no bits set prints as "None".
func (m FlagStringMapping[T]) FlagsToString(value T) string {
	if value == 0 {
		return "None"
	}

	var sb strings.Builder
	remaining := uint64(value)
	for remaining != 0 {
		bit := uint64(1) << bits.TrailingZeros64(remaining)
		remaining &^= bit

		name, ok := m.names[T(bit)]
		if !ok {
			continue
		}

		if sb.Len() > 0 {
			sb.WriteRune('|')
		}
		sb.WriteString(name)
	}

	return sb.String()
}
