// Package bandersnatch wraps gnark-crypto's Bandersnatch twisted-Edwards
// group (github.com/consensys/gnark-crypto/ecc/bandersnatch) with the
// narrow point/scalar surface the VRF substrate needs: scalar (de)coding,
// base-point scalar multiplication for key derivation, and point addition
// for the ring-root and ring-proof constructions. Curve arithmetic itself
// is entirely gnark-crypto's; this package only adds the 32-byte
// serialization conventions the spec's fixed-length fields require.
package bandersnatch

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bandersnatch"
	"github.com/consensys/gnark-crypto/ecc/bandersnatch/fr"
)

// Scalar is an element of the Bandersnatch scalar field.
type Scalar = fr.Element

// Point is an affine Bandersnatch curve point.
type Point = bandersnatch.PointAffine

// ScalarFromSeed derives a deterministic scalar field element from a
// 32-byte secret seed: SetBytes reduces mod the group order, which is
// what every Bandersnatch secret-key-from-seed derivation in the JAM
// ecosystem does.
func ScalarFromSeed(seed [32]byte) Scalar {
	var s Scalar
	s.SetBytes(seed[:])
	return s
}

// ScalarFromBytes decodes a 32-byte big-endian scalar, reduced mod the
// group order.
func ScalarFromBytes(b []byte) (Scalar, error) {
	var s Scalar
	if len(b) != 32 {
		return s, fmt.Errorf("bandersnatch: scalar must be 32 bytes, got %d", len(b))
	}
	s.SetBytes(b)
	return s, nil
}

// ScalarBytes encodes a scalar to 32 bytes.
func ScalarBytes(s Scalar) [32]byte {
	return s.Bytes()
}

// BasePoint returns the curve's canonical generator.
func BasePoint() Point {
	curve := bandersnatch.GetEdwardsCurve()
	return curve.Base
}

// ScalarMul computes scalar * p.
func ScalarMul(p Point, s Scalar) Point {
	var sBig big.Int
	s.BigInt(&sBig)
	var out Point
	out.ScalarMultiplication(&p, &sBig)
	return out
}

// ScalarBaseMul computes scalar * BasePoint().
func ScalarBaseMul(s Scalar) Point {
	return ScalarMul(BasePoint(), s)
}

// Add returns a + b.
func Add(a, b Point) Point {
	var out Point
	out.Add(&a, &b)
	return out
}

// PublicFromSecret derives the Bandersnatch public key for a 32-byte secret
// seed: pk = seed_scalar * G.
func PublicFromSecret(seed [32]byte) [32]byte {
	pk := ScalarBaseMul(ScalarFromSeed(seed))
	return pk.Bytes()
}

// PointFromBytes decodes a compressed 32-byte point.
func PointFromBytes(b []byte) (Point, error) {
	var p Point
	if len(b) != 32 {
		return p, fmt.Errorf("bandersnatch: point must be 32 bytes, got %d", len(b))
	}
	if _, err := p.SetBytes(b); err != nil {
		return p, fmt.Errorf("bandersnatch: decode point: %w", err)
	}
	return p, nil
}

// PointBytes encodes a point to its 32-byte compressed form.
func PointBytes(p Point) [32]byte {
	return p.Bytes()
}
