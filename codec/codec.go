// Package codec implements the primitive wire encodings the audit/Safrole
// core is built on: a self-delimiting natural-number varint, fixed-length
// little-endian integers, length-prefixed sequences, maybe-discriminator
// optionals, a sorted-key dictionary, and the Blake2b-based hashing
// primitives (including blakemany, the Merkle-style multi-hash used by the
// extrinsic-hash committer). Every decoder returns the decoded value, the
// remaining unconsumed bytes, and an error — never a silent truncation.
package codec

import (
	"bytes"
	"fmt"
	"sort"

	"golang.org/x/crypto/blake2b"
)

// HashLen is the fixed size of every hash in this module.
const HashLen = 32

// Hash is a 32-byte opaque identifier.
type Hash [HashLen]byte

// Bytes returns a copy of the hash as a slice.
func (h Hash) Bytes() []byte {
	b := make([]byte, HashLen)
	copy(b, h[:])
	return b
}

// EncodeNatural encodes n using the Gray Paper general natural-number
// serialization: a single length-discriminator prefix byte followed by 0-8
// little-endian data bytes (1-9 bytes total). The prefix's leading bits (as
// a run of 1-bits) encode how many trailing bytes follow; any leftover low
// bits of the prefix hold the most-significant bits of n that didn't fit in
// the trailing bytes.
func EncodeNatural(n uint64) []byte {
	if n < 1<<7 {
		return []byte{byte(n)}
	}
	var l uint
	for l = 1; l < 8; l++ {
		if n < uint64(1)<<(7*(l+1)) {
			break
		}
	}
	prefix := byte(256-(uint(1)<<(8-l))) + byte(n>>(8*l))
	out := make([]byte, 1+l)
	out[0] = prefix
	for i := uint(0); i < l; i++ {
		out[1+i] = byte(n >> (8 * i))
	}
	return out
}

// DecodeNatural decodes a value encoded by EncodeNatural, returning the
// value and the unconsumed remainder of b.
func DecodeNatural(b []byte) (uint64, []byte, error) {
	if len(b) == 0 {
		return 0, nil, fmt.Errorf("codec: decode natural: empty input")
	}
	prefix := b[0]
	if prefix < 1<<7 {
		return uint64(prefix), b[1:], nil
	}
	l := leadingOnes(prefix)
	if l > 8 {
		return 0, nil, fmt.Errorf("codec: decode natural: invalid prefix byte 0x%02x", prefix)
	}
	if len(b) < int(1+l) {
		return 0, nil, fmt.Errorf("codec: decode natural: need %d bytes, have %d", 1+l, len(b))
	}
	topMask := byte(0)
	if l < 8 {
		topMask = (1 << (8 - l)) - 1
	}
	top := uint64(prefix & topMask)
	var low uint64
	for i := uint(0); i < l; i++ {
		low |= uint64(b[1+i]) << (8 * i)
	}
	return (top << (8 * l)) | low, b[1+l:], nil
}

func leadingOnes(b byte) uint {
	var n uint
	for n < 8 && b&(0x80>>n) != 0 {
		n++
	}
	return n
}

// EncodeFixedLE encodes n as an L-byte little-endian integer. It fails if n
// does not fit in L bytes (n >= 2^(8*L)).
func EncodeFixedLE(n uint64, l int) ([]byte, error) {
	if l <= 0 || l > 8 {
		return nil, fmt.Errorf("codec: encode fixed LE: invalid length %d", l)
	}
	if l < 8 && n >= uint64(1)<<(8*uint(l)) {
		return nil, fmt.Errorf("codec: encode fixed LE: %d overflows %d bytes", n, l)
	}
	out := make([]byte, l)
	for i := 0; i < l; i++ {
		out[i] = byte(n >> (8 * uint(i)))
	}
	return out, nil
}

// DecodeFixedLE decodes an L-byte little-endian integer from the front of b.
func DecodeFixedLE(b []byte, l int) (uint64, []byte, error) {
	if l <= 0 || l > 8 {
		return 0, nil, fmt.Errorf("codec: decode fixed LE: invalid length %d", l)
	}
	if len(b) < l {
		return 0, nil, fmt.Errorf("codec: decode fixed LE: need %d bytes, have %d", l, len(b))
	}
	var n uint64
	for i := 0; i < l; i++ {
		n |= uint64(b[i]) << (8 * uint(i))
	}
	return n, b[l:], nil
}

// EncodeSequence length-prefixes items (via EncodeNatural on the count) and
// concatenates each item's encoding, produced by enc.
func EncodeSequence[T any](items []T, enc func(T) ([]byte, error)) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(EncodeNatural(uint64(len(items))))
	for i, item := range items {
		b, err := enc(item)
		if err != nil {
			return nil, fmt.Errorf("codec: encode sequence: item %d: %w", i, err)
		}
		buf.Write(b)
	}
	return buf.Bytes(), nil
}

// DecodeSequence decodes a sequence produced by EncodeSequence.
func DecodeSequence[T any](b []byte, dec func([]byte) (T, []byte, error)) ([]T, []byte, error) {
	n, rest, err := DecodeNatural(b)
	if err != nil {
		return nil, nil, fmt.Errorf("codec: decode sequence: length: %w", err)
	}
	items := make([]T, 0, n)
	for i := uint64(0); i < n; i++ {
		var item T
		item, rest, err = dec(rest)
		if err != nil {
			return nil, nil, fmt.Errorf("codec: decode sequence: item %d: %w", i, err)
		}
		items = append(items, item)
	}
	return items, rest, nil
}

// EncodeMaybe encodes a single discriminator byte: 0x00 for none, or
// 0x01 followed by enc(x) for some.
func EncodeMaybe[T any](x *T, enc func(T) ([]byte, error)) ([]byte, error) {
	if x == nil {
		return []byte{0x00}, nil
	}
	b, err := enc(*x)
	if err != nil {
		return nil, fmt.Errorf("codec: encode maybe: %w", err)
	}
	return append([]byte{0x01}, b...), nil
}

// DecodeMaybe decodes a value produced by EncodeMaybe.
func DecodeMaybe[T any](b []byte, dec func([]byte) (T, []byte, error)) (*T, []byte, error) {
	if len(b) == 0 {
		return nil, nil, fmt.Errorf("codec: decode maybe: empty input")
	}
	switch b[0] {
	case 0x00:
		return nil, b[1:], nil
	case 0x01:
		v, rest, err := dec(b[1:])
		if err != nil {
			return nil, nil, fmt.Errorf("codec: decode maybe: %w", err)
		}
		return &v, rest, nil
	default:
		return nil, nil, fmt.Errorf("codec: decode maybe: invalid discriminator 0x%02x", b[0])
	}
}

// KV is a single dictionary entry, keyed by raw bytes.
type KV struct {
	Key   []byte
	Value []byte
}

// EncodeDictionary sorts pairs lexicographically by key and encodes them as
// a length-prefixed sequence of (length-prefixed key, length-prefixed
// value) pairs. The input is not mutated.
func EncodeDictionary(pairs []KV) []byte {
	sorted := make([]KV, len(pairs))
	copy(sorted, pairs)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i].Key, sorted[j].Key) < 0
	})

	var buf bytes.Buffer
	buf.Write(EncodeNatural(uint64(len(sorted))))
	for _, kv := range sorted {
		buf.Write(EncodeNatural(uint64(len(kv.Key))))
		buf.Write(kv.Key)
		buf.Write(EncodeNatural(uint64(len(kv.Value))))
		buf.Write(kv.Value)
	}
	return buf.Bytes()
}

// DecodeDictionary decodes a dictionary produced by EncodeDictionary. Pairs
// are returned in their encoded (sorted) order.
func DecodeDictionary(b []byte) ([]KV, []byte, error) {
	n, rest, err := DecodeNatural(b)
	if err != nil {
		return nil, nil, fmt.Errorf("codec: decode dictionary: length: %w", err)
	}
	pairs := make([]KV, 0, n)
	for i := uint64(0); i < n; i++ {
		var klen, vlen uint64
		klen, rest, err = DecodeNatural(rest)
		if err != nil {
			return nil, nil, fmt.Errorf("codec: decode dictionary: entry %d key length: %w", i, err)
		}
		if uint64(len(rest)) < klen {
			return nil, nil, fmt.Errorf("codec: decode dictionary: entry %d: need %d key bytes, have %d", i, klen, len(rest))
		}
		key := rest[:klen]
		rest = rest[klen:]

		vlen, rest, err = DecodeNatural(rest)
		if err != nil {
			return nil, nil, fmt.Errorf("codec: decode dictionary: entry %d value length: %w", i, err)
		}
		if uint64(len(rest)) < vlen {
			return nil, nil, fmt.Errorf("codec: decode dictionary: entry %d: need %d value bytes, have %d", i, vlen, len(rest))
		}
		value := rest[:vlen]
		rest = rest[vlen:]

		pairs = append(pairs, KV{Key: key, Value: value})
	}
	return pairs, rest, nil
}

// Blake2bHash returns the 32-byte Blake2b-256 digest of b.
func Blake2bHash(b []byte) Hash {
	return blake2b.Sum256(b)
}

// BlakeMany leaf-hashes each item, then folds pairwise (right = left when
// the level has an odd count) up to a single root, returning the full tree
// flattened level-by-level from leaves to root. An empty input yields a
// single all-zero hash; a single item yields its leaf hash (and nothing
// else, since leaves == root in that case).
func BlakeMany(items [][]byte) []Hash {
	if len(items) == 0 {
		return []Hash{{}}
	}

	level := make([]Hash, len(items))
	for i, item := range items {
		level[i] = Blake2bHash(item)
	}

	tree := make([]Hash, 0, 2*len(level))
	tree = append(tree, level...)

	for len(level) > 1 {
		next := make([]Hash, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			left := level[i]
			right := left
			if i+1 < len(level) {
				right = level[i+1]
			}
			var buf [2 * HashLen]byte
			copy(buf[:HashLen], left[:])
			copy(buf[HashLen:], right[:])
			next = append(next, Blake2bHash(buf[:]))
		}
		tree = append(tree, next...)
		level = next
	}

	return tree
}

// Root returns just the final (root) hash of a BlakeMany tree.
func Root(tree []Hash) Hash {
	return tree[len(tree)-1]
}
