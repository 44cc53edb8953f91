// Package announce implements the Ed25519 signature substrate used for
// audit announcements (spec §4.3). Unlike the Bandersnatch VRF proofs,
// this is ordinary non-anonymous signing: every announcement is
// attributable to the validator index that produced it, so the standard
// library's crypto/ed25519 is used directly rather than through a
// third-party wrapper — none of the example repos' signature stacks
// (teacher's stubbed BLS, the pack's libp2p/host key material) cover
// Ed25519 more directly than stdlib does; see DESIGN.md.
package announce

import (
	"crypto/ed25519"

	"github.com/jamic/safrole/errutil"
)

// SigLen is the fixed Ed25519 signature size.
const SigLen = ed25519.SignatureSize

// KeyPairFromSeed derives the Ed25519 key pair for a 32-byte secret seed.
func KeyPairFromSeed(seed [32]byte) (ed25519.PrivateKey, ed25519.PublicKey) {
	priv := ed25519.NewKeyFromSeed(seed[:])
	pub := priv.Public().(ed25519.PublicKey)
	return priv, pub
}

// Sign signs message with the Ed25519 key derived from seed, returning the
// 64-byte signature.
func Sign(seed [32]byte, message []byte) [SigLen]byte {
	priv, _ := KeyPairFromSeed(seed)
	var sig [SigLen]byte
	copy(sig[:], ed25519.Sign(priv, message))
	return sig
}

// Verify checks an Ed25519 signature against a 32-byte public key and
// message. Unlike the VRF verifiers, a malformed public key is an ordinary
// "false" result here: ed25519.Verify already validates key length, and
// there is no separate crypto-failure channel to distinguish in this
// construction.
func Verify(pub [32]byte, message []byte, sig [SigLen]byte) bool {
	if len(pub) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub[:]), message, sig[:])
}

// VerifyOrError behaves like Verify but distinguishes a malformed
// signature/public key (errutil.InvalidLength) from a legitimate negative
// verification result, for callers that need spec §7's error taxonomy.
func VerifyOrError(pub [32]byte, message []byte, sig [SigLen]byte) (bool, error) {
	if len(pub) != ed25519.PublicKeySize {
		return false, errutil.New(errutil.InvalidLength, "announce: invalid public key length")
	}
	if len(sig) != SigLen {
		return false, errutil.New(errutil.InvalidLength, "announce: invalid signature length")
	}
	return ed25519.Verify(ed25519.PublicKey(pub[:]), message, sig[:]), nil
}
