package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type testFlags int32

func TestFlagsToString(t *testing.T) {
	mapping := NewFlagStringMapping[testFlags]()
	mapping.Register(1, "First")
	mapping.Register(2, "Second")
	mapping.Register(8, "Fourth")

	require.Equal(t, "None", mapping.FlagsToString(0))
	require.Equal(t, "Second", mapping.FlagsToString(2))
	require.Equal(t, "First|Second|Fourth", mapping.FlagsToString(11))
	// 4 was never registered
	require.Equal(t, "First", mapping.FlagsToString(5))
}
