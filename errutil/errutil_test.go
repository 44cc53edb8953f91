package errutil

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorIsMatchesByKind(t *testing.T) {
	err := New(InvalidSlot, "slot too low")
	require.True(t, errors.Is(err, New(InvalidSlot, "different message")))
	require.False(t, errors.Is(err, New(InvalidLength, "slot too low")))
}

func TestWrapUnwrapsCause(t *testing.T) {
	cause := fmt.Errorf("underlying failure")
	err := Wrap(CryptoFailure, "vrf prove failed", cause)
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "CryptoFailure")
	require.Contains(t, err.Error(), "underlying failure")
}

func TestKindString(t *testing.T) {
	require.Equal(t, "InvalidLength", InvalidLength.String())
	require.Equal(t, "DuplicateTicket", DuplicateTicket.String())
	require.Equal(t, "Unknown", Kind(999).String())
}
