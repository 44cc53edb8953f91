package extrinsic

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommitDeterministic(t *testing.T) {
	h1 := Commit([]byte("t"), []byte("p"), []byte("g"), []byte("a"), []byte("d"))
	h2 := Commit([]byte("t"), []byte("p"), []byte("g"), []byte("a"), []byte("d"))
	require.Equal(t, h1, h2)
}

func TestCommitChangesWithAnyComponent(t *testing.T) {
	base := Commit([]byte("t"), []byte("p"), []byte("g"), []byte("a"), []byte("d"))

	changed := Commit([]byte("t2"), []byte("p"), []byte("g"), []byte("a"), []byte("d"))
	require.NotEqual(t, base, changed)

	changed2 := Commit([]byte("t"), []byte("p"), []byte("g"), []byte("a"), []byte("d2"))
	require.NotEqual(t, base, changed2)
}

func TestCommitEmptyComponents(t *testing.T) {
	h := Commit(nil, nil, nil, nil, nil)
	require.NotEqual(t, [32]byte{}, h)
}
