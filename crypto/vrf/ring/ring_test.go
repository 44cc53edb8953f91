package ring

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jamic/safrole/crypto/bandersnatch"
)

func seed(b byte) [32]byte {
	var s [32]byte
	for i := range s {
		s[i] = b
	}
	return s
}

func ringOf(n int) ([][32]byte, [][32]byte) {
	seeds := make([][32]byte, n)
	keys := make([][32]byte, n)
	for i := 0; i < n; i++ {
		seeds[i] = seed(byte(i + 1))
		keys[i] = bandersnatch.PublicFromSecret(seeds[i])
	}
	return seeds, keys
}

func TestRingRootDeterministicAndOrderIndependent(t *testing.T) {
	_, keys := ringOf(5)

	root1, err := RingRoot(keys)
	require.NoError(t, err)

	reversed := make([][32]byte, len(keys))
	for i, k := range keys {
		reversed[len(keys)-1-i] = k
	}
	root2, err := RingRoot(reversed)
	require.NoError(t, err)

	require.Equal(t, root1, root2)
}

func TestProveVerifyRoundTripSmallRing(t *testing.T) {
	seeds, keys := ringOf(3)
	proverIndex := 1

	sorted := sortKeys(keys)
	var sortedProverIndex int
	for i, k := range sorted {
		if k == keys[proverIndex] {
			sortedProverIndex = i
		}
	}

	_, proof, err := Prove(seeds[proverIndex], []byte("in"), []byte("aux"), keys, sortedProverIndex)
	require.NoError(t, err)

	ok, err := Verify(keys, []byte("in"), []byte("aux"), proof)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestProveVerifyRoundTripLargeRing(t *testing.T) {
	seeds, keys := ringOf(40)
	sorted := sortKeys(keys)

	for _, proverIndex := range []int{0, 15, 39} {
		prover := sorted[proverIndex]
		var seedForProver [32]byte
		for i, k := range keys {
			if k == prover {
				seedForProver = seeds[i]
			}
		}

		_, proof, err := Prove(seedForProver, []byte("epoch-1"), nil, keys, proverIndex)
		require.NoError(t, err)

		ok, err := Verify(keys, []byte("epoch-1"), nil, proof)
		require.NoError(t, err)
		require.True(t, ok, "prover index %d should verify", proverIndex)
	}
}

func TestVerifyRejectsTamperedProof(t *testing.T) {
	seeds, keys := ringOf(20)

	_, proof, err := Prove(seeds[5], []byte("in"), nil, keys, 5)
	require.NoError(t, err)

	proof[100] ^= 0xFF

	ok, err := Verify(keys, []byte("in"), nil, proof)
	if err == nil {
		require.False(t, ok)
	}
}

func TestVerifyRejectsWrongRing(t *testing.T) {
	seeds, keys := ringOf(10)
	sorted := sortKeys(keys)
	var sortedProverIndex int
	for i, k := range sorted {
		if k == keys[3] {
			sortedProverIndex = i
		}
	}

	_, proof, err := Prove(seeds[3], []byte("in"), nil, keys, sortedProverIndex)
	require.NoError(t, err)

	otherKeys := make([][32]byte, len(keys))
	for i := range otherKeys {
		otherKeys[i] = bandersnatch.PublicFromSecret(seed(byte(100 + i)))
	}

	ok, err := Verify(otherKeys, []byte("in"), nil, proof)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestProveDeterministic(t *testing.T) {
	seeds, keys := ringOf(8)

	gamma1, proof1, err := Prove(seeds[2], []byte("x"), []byte("y"), keys, 2)
	require.NoError(t, err)
	gamma2, proof2, err := Prove(seeds[2], []byte("x"), []byte("y"), keys, 2)
	require.NoError(t, err)

	require.Equal(t, gamma1, gamma2)
	require.Equal(t, proof1, proof2)
}

func TestRingCacheHitsAndInvalidate(t *testing.T) {
	_, keys := ringOf(6)
	cache := NewRingCache()

	root1, err := cache.RootFor(keys)
	require.NoError(t, err)

	direct, err := RingRoot(keys)
	require.NoError(t, err)
	require.Equal(t, direct, root1)

	root2, err := cache.RootFor(keys)
	require.NoError(t, err)
	require.Equal(t, root1, root2)

	cache.Invalidate()
	root3, err := cache.RootFor(keys)
	require.NoError(t, err)
	require.Equal(t, root1, root3)
}
