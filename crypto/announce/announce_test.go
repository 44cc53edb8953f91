package announce

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func seed(b byte) [32]byte {
	var s [32]byte
	for i := range s {
		s[i] = b
	}
	return s
}

func TestSignVerifyRoundTrip(t *testing.T) {
	s := seed(9)
	_, pub := KeyPairFromSeed(s)

	msg := []byte("header-hash||tranche||validator-index")
	sig := Sign(s, msg)

	var pubArr [32]byte
	copy(pubArr[:], pub)
	require.True(t, Verify(pubArr, msg, sig))
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	_, pub := KeyPairFromSeed(seed(10))
	sig := Sign(seed(11), []byte("msg"))

	var pubArr [32]byte
	copy(pubArr[:], pub)
	require.False(t, Verify(pubArr, []byte("msg"), sig))
}

func TestVerifyRejectsTamperedMessage(t *testing.T) {
	s := seed(12)
	_, pub := KeyPairFromSeed(s)
	sig := Sign(s, []byte("original"))

	var pubArr [32]byte
	copy(pubArr[:], pub)
	require.False(t, Verify(pubArr, []byte("tampered"), sig))
}

func TestVerifyOrErrorZeroKeyIsPlainFalse(t *testing.T) {
	var pub [32]byte
	var sig [SigLen]byte
	ok, err := VerifyOrError(pub, []byte("m"), sig)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSignDeterministic(t *testing.T) {
	s := seed(13)
	sig1 := Sign(s, []byte("same"))
	sig2 := Sign(s, []byte("same"))
	require.Equal(t, sig1, sig2)
}
