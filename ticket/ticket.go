// Package ticket implements the Safrole ticket engine (spec §4.5):
// Ring-VRF ticket generation, verification, and the JAMNP-S proxy
// validator index derivation. entryIndex is encoded at the same 4-byte
// width in both the generation and verification contexts (spec §9 Open
// Question 2, resolved per DESIGN.md: a single width so every
// self-generated ticket verifies), matching types.SafroleTicket's
// EntryIndex uint32 and the STF's own extrinsic encoding.
package ticket

import (
	"encoding/binary"
	"sort"

	"github.com/jamic/safrole/codec"
	"github.com/jamic/safrole/crypto/vrf/ring"
	"github.com/jamic/safrole/errutil"
	"github.com/jamic/safrole/types"
)

const ticketSealContext = "jam_ticket_seal"

// ticketContext builds the Ring-VRF context shared by generation and
// verification: "jam_ticket_seal" || η2 || encode_fixed_le(entryIndex, 4).
// Generation and verification MUST derive byte-identical contexts, since
// ring.Prove/ring.Verify fold these bytes straight into every Fiat-Shamir
// challenge (provePedersen/verifyPedersen, proveAOS/verifyAOS) — any
// divergence here makes every generated ticket unverifiable.
func ticketContext(eta2 [32]byte, entryIndex uint32) ([]byte, error) {
	idxBytes, err := codec.EncodeFixedLE(uint64(entryIndex), 4)
	if err != nil {
		return nil, errutil.Wrap(errutil.EncodingFailure, "ticket: encode entryIndex", err)
	}
	ctx := append([]byte(ticketSealContext), eta2[:]...)
	return append(ctx, idxBytes...), nil
}

// GenerateForEpoch generates one ticket per entryIndex in
// [0, ticketsPerValidator). proverIndex is sk's position in ringKeys as
// given (ringKeys need not be pre-sorted); it is translated to sk's
// position in the lexicographically sorted ring, which is the index
// ring.Prove expects. The returned slice is sorted ascending by ticket id;
// a duplicate id across entries is an error.
func GenerateForEpoch(sk [32]byte, eta2 [32]byte, ringKeys [][32]byte, proverIndex int, ticketsPerValidator uint32) ([]types.SafroleTicket, error) {
	tickets := make([]types.SafroleTicket, 0, ticketsPerValidator)
	seen := make(map[[32]byte]bool, ticketsPerValidator)

	sortedIndex := proverIndex
	if proverIndex >= 0 && proverIndex < len(ringKeys) {
		sorted := make([][32]byte, len(ringKeys))
		copy(sorted, ringKeys)
		sort.Slice(sorted, func(i, j int) bool { return lessID(sorted[i], sorted[j]) })
		for i, k := range sorted {
			if k == ringKeys[proverIndex] {
				sortedIndex = i
				break
			}
		}
	}

	for entryIndex := uint32(0); entryIndex < ticketsPerValidator; entryIndex++ {
		ctx, err := ticketContext(eta2, entryIndex)
		if err != nil {
			return nil, err
		}

		gamma, proof, err := ring.Prove(sk, ctx, nil, ringKeys, sortedIndex)
		if err != nil {
			return nil, err
		}

		id := ietfBanderout(gamma)
		if seen[id] {
			return nil, errutil.New(errutil.DuplicateTicket, "ticket: duplicate ticket id within generated batch")
		}
		seen[id] = true

		tickets = append(tickets, types.SafroleTicket{
			ID:         id,
			EntryIndex: entryIndex,
			Proof:      proof,
		})
	}

	sort.Slice(tickets, func(i, j int) bool {
		return lessID(tickets[i].ID, tickets[j].ID)
	})

	return tickets, nil
}

func ietfBanderout(gamma [32]byte) [32]byte {
	return codec.Blake2bHash(gamma[:])
}

func lessID(a, b [32]byte) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// Verify checks a single ticket's ring-VRF proof. The proof must be
// exactly 784 bytes; any ring-VRF library error (decode failure, corrupt
// curve point) surfaces as errutil.BadSignatureBatch per spec §4.5/§7.
func Verify(t types.SafroleTicket, eta2 [32]byte, sortedRingKeys [][32]byte) (bool, error) {
	if len(t.Proof) != ring.ProofLen {
		return false, errutil.New(errutil.InvalidLength, "ticket: proof must be 784 bytes")
	}

	ctx, err := ticketContext(eta2, t.EntryIndex)
	if err != nil {
		return false, err
	}

	var proof ring.Proof
	copy(proof[:], t.Proof[:])

	ok, err := ring.Verify(sortedRingKeys, ctx, nil, proof)
	if err != nil {
		return false, errutil.Wrap(errutil.BadSignatureBatch, "ticket: ring-vrf verification failed", err)
	}
	return ok, nil
}

// VerifyExtrinsic verifies a raw ticket-extrinsic submission (entryIndex +
// serialized ring-VRF proof) against the current η2 and ring, and returns
// the resulting ticket (id derived from the proof's own gamma) on success.
func VerifyExtrinsic(entryIndex uint32, proof [784]byte, eta2 [32]byte, sortedRingKeys [][32]byte) (types.SafroleTicket, error) {
	var ringProof ring.Proof
	copy(ringProof[:], proof[:])

	t := types.SafroleTicket{
		ID:         ietfBanderout(ringProof.Gamma()),
		EntryIndex: entryIndex,
		Proof:      proof,
	}

	ok, err := Verify(t, eta2, sortedRingKeys)
	if err != nil {
		return t, err
	}
	if !ok {
		return t, errutil.New(errutil.BadSignatureBatch, "ticket: ring-vrf verification returned false")
	}
	return t, nil
}

// ProxyValidatorIndex derives the JAMNP-S proxy validator index for a
// ticket id: the last 4 bytes of the id, interpreted big-endian, modulo
// the active validator count.
func ProxyValidatorIndex(ticketID [32]byte, activeValidatorCount int) (int, error) {
	if activeValidatorCount <= 0 {
		return 0, errutil.New(errutil.InvalidLength, "ticket: activeValidatorCount must be > 0")
	}
	tail := binary.BigEndian.Uint32(ticketID[28:32])
	return int(tail % uint32(activeValidatorCount)), nil
}
