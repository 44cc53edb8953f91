// Package types holds the shared data model (spec §3): validator keys and
// sets, entropy, work reports, tickets, audit announcements and
// selections, and the Safrole state itself. These are plain structs with
// no behavior beyond what's needed to keep their byte-length invariants —
// the operations over them live in their owning packages (audit, ticket,
// safrole, assign, extrinsic).
package types

import (
	"fmt"

	"github.com/jamic/safrole/codec"
)

const (
	Ed25519KeyLen     = 32
	BandersnatchKeyLen = 32
	BLSKeyLen          = 144
	MetadataLen        = 128
	HashLen            = 32
)

// ValidatorKeys is the fixed-size key bundle for a single validator.
type ValidatorKeys struct {
	Ed25519      [Ed25519KeyLen]byte
	Bandersnatch [BandersnatchKeyLen]byte
	BLS          [BLSKeyLen]byte
	Metadata     [MetadataLen]byte
}

// ValidatorSet is an ordered sequence of validator keys; index position is
// meaningful (it is the ring/ticket index), so ValidatorSet is a slice, not
// a set.
type ValidatorSet []ValidatorKeys

// BandersnatchKeys returns the ordered bandersnatch public keys, the input
// to ring-root computation and ticket ring assembly.
func (vs ValidatorSet) BandersnatchKeys() [][32]byte {
	keys := make([][32]byte, len(vs))
	for i, v := range vs {
		keys[i] = v.Bandersnatch
	}
	return keys
}

// IndexOfEd25519 returns the index of the validator with the given Ed25519
// key, or -1 if not present.
func (vs ValidatorSet) IndexOfEd25519(key [Ed25519KeyLen]byte) int {
	for i, v := range vs {
		if v.Ed25519 == key {
			return i
		}
	}
	return -1
}

// Entropy holds the four-deep entropy accumulator, η0 (newest, still
// accumulating in-block) through η3 (oldest).
type Entropy struct {
	Eta0, Eta1, Eta2, Eta3 [HashLen]byte
}

// WorkReport is treated as an opaque hashable value by this core; only the
// fields needed to encode it deterministically and to key it by core are
// modeled.
type WorkReport struct {
	PackageSpec        []byte
	Context            []byte
	CoreIndex          uint32
	AuthorizerHash     [HashLen]byte
	AuthGasUsed        uint64
	AuthOutput         []byte
	SegmentRootLookup  []byte
	Results            []byte
}

// WorkReportHash applies hashFn to an already encoded work report (see
// WorkReport.Encode) and returns the 32-byte result; this helper exists
// purely to keep the 32-byte shape explicit at call sites.
func WorkReportHash(encoded []byte, hashFn func([]byte) [HashLen]byte) [HashLen]byte {
	return hashFn(encoded)
}

// Encode produces the deterministic byte encoding a WorkReport hashes to
// for tranche-N audit evidence (spec §4.3 Eq. 105: blake2b(encode(report)))
// and for the extrinsic-hash commitment's guarantees component (spec
// §4.8). Every opaque byte-slice field is prefixed with its
// codec.EncodeNatural length so the encoding is self-delimiting and
// unambiguous across fields.
func (w WorkReport) Encode() ([]byte, error) {
	var out []byte
	out = append(out, encodeBytes(w.PackageSpec)...)
	out = append(out, encodeBytes(w.Context)...)
	coreBytes, err := codec.EncodeFixedLE(uint64(w.CoreIndex), 4)
	if err != nil {
		return nil, fmt.Errorf("types: encode work report: core index: %w", err)
	}
	out = append(out, coreBytes...)
	out = append(out, w.AuthorizerHash[:]...)
	gasBytes, err := codec.EncodeFixedLE(w.AuthGasUsed, 8)
	if err != nil {
		return nil, fmt.Errorf("types: encode work report: auth gas used: %w", err)
	}
	out = append(out, gasBytes...)
	out = append(out, encodeBytes(w.AuthOutput)...)
	out = append(out, encodeBytes(w.SegmentRootLookup)...)
	out = append(out, encodeBytes(w.Results)...)
	return out, nil
}

func encodeBytes(b []byte) []byte {
	return append(codec.EncodeNatural(uint64(len(b))), b...)
}

// SafroleTicket is a single ticket: its id (= banderout(proof.gamma)), the
// validator-chosen entry index, and the 784-byte serialized ring-VRF proof.
type SafroleTicket struct {
	ID         [HashLen]byte
	EntryIndex uint32
	Proof      [784]byte
}

// CoreWorkReport pairs a core index with the work report hash submitted on
// it, per AuditAnnouncement.workReports.
type CoreWorkReport struct {
	CoreIndex       uint32
	WorkReportHash  [HashLen]byte
}

// AuditAnnouncement is a single validator's per-tranche audit announcement.
type AuditAnnouncement struct {
	HeaderHash     [HashLen]byte
	Tranche        uint64
	ValidatorIndex uint16
	WorkReports    []CoreWorkReport
	Signature      [64]byte
	Evidence       [96]byte
}

// AuditTrancheSelection is the outcome of one (validator, block, tranche)
// selection: the shuffled core sequence and the cores actually selected
// out of it.
type AuditTrancheSelection struct {
	Tranche         uint32
	VRFOutput       [HashLen]byte
	ShuffledCores   []uint32
	SelectedCores   []uint32
}

// TicketAccumulator is the strictly-ascending, duplicate-free, capped
// sequence of tickets collected during an epoch.
type TicketAccumulator struct {
	Tickets []SafroleTicket
	Cap     int
}

// Merge inserts newTickets into the accumulator, keeping it sorted
// ascending by id, free of duplicates, and capped at Cap entries (lowest
// ids kept). It returns an error if inserting a ticket would introduce a
// duplicate id already present in the accumulator or in newTickets itself.
func (a *TicketAccumulator) Merge(newTickets []SafroleTicket) error {
	seen := make(map[[HashLen]byte]bool, len(a.Tickets)+len(newTickets))
	combined := make([]SafroleTicket, 0, len(a.Tickets)+len(newTickets))
	for _, t := range a.Tickets {
		if seen[t.ID] {
			return fmt.Errorf("types: duplicate ticket id %x already in accumulator", t.ID)
		}
		seen[t.ID] = true
		combined = append(combined, t)
	}
	for _, t := range newTickets {
		if seen[t.ID] {
			return fmt.Errorf("types: duplicate ticket id %x", t.ID)
		}
		seen[t.ID] = true
		combined = append(combined, t)
	}

	sortTicketsByID(combined)

	if a.Cap > 0 && len(combined) > a.Cap {
		combined = combined[:a.Cap]
	}
	a.Tickets = combined
	return nil
}

func sortTicketsByID(tickets []SafroleTicket) {
	// Simple insertion sort: ticket counts per epoch are small
	// (bounded by Cvalcount * ticketsPerValidator), and keeping the sort
	// inline avoids an extra generic-sort dependency for a 32-byte key.
	for i := 1; i < len(tickets); i++ {
		for j := i; j > 0 && lessID(tickets[j].ID, tickets[j-1].ID); j-- {
			tickets[j], tickets[j-1] = tickets[j-1], tickets[j]
		}
	}
}

func lessID(a, b [HashLen]byte) bool {
	for i := 0; i < HashLen; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// SealTickets is the fixed-length, per-epoch sequence of ticket ids (or
// fallback hashes) determining block-authoring rights.
type SealTickets [][HashLen]byte

// SafroleState is the STF's persisted state.
type SafroleState struct {
	PendingSet        ValidatorSet
	ActiveSet         ValidatorSet
	PreviousSet       ValidatorSet
	StagingSet        ValidatorSet
	EpochRoot         [144]byte
	SealTicketsSeq    SealTickets
	TicketAccumulator TicketAccumulator
	Entropy           Entropy
	CurrentSlot       uint64
}
