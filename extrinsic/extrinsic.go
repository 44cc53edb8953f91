// Package extrinsic implements the block-body extrinsic-hash commitment
// (spec §4.8): the five already-encoded component arrays are fed through
// blakemany to build a Merkle-style tree, then the flattened tree is
// hashed once more to produce the single commitment hash.
package extrinsic

import "github.com/jamic/safrole/codec"

// Commit computes H_extrinsichash over the five already-encoded extrinsic
// components, in order: tickets, preimages, guarantees, assurances,
// disputes.
func Commit(encTickets, encPreimages, encGuarantees, encAssurances, encDisputes []byte) [32]byte {
	components := [][]byte{encTickets, encPreimages, encGuarantees, encAssurances, encDisputes}
	tree := codec.BlakeMany(components)

	var flat []byte
	for _, h := range tree {
		flat = append(flat, h.Bytes()...)
	}
	return codec.Blake2bHash(flat)
}
