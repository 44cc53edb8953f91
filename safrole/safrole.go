// Package safrole implements the Safrole state-transition function (spec
// §4.6): slot validation, epoch-transition key rotation through the
// blacklist filter Φ, the seal-ticket sequence Z (outside-in fold over a
// full ticket accumulator, or the deterministic fallback F), entropy
// rotation/accumulation, and the epoch/winners markers.
package safrole

import (
	"github.com/jamic/safrole/audit"
	"github.com/jamic/safrole/codec"
	"github.com/jamic/safrole/crypto/vrf/ring"
	"github.com/jamic/safrole/errutil"
	"github.com/jamic/safrole/external"
	"github.com/jamic/safrole/ticket"
	"github.com/jamic/safrole/types"
)

// TicketSubmission is a single ticket-extrinsic entry: an entry index and
// its serialized 784-byte ring-VRF proof.
type TicketSubmission struct {
	EntryIndex uint32
	Proof      [784]byte
}

// Input is the per-block STF input (spec §4.6).
type Input struct {
	Slot      uint64
	Entropy   [32]byte
	Extrinsic []TicketSubmission
}

// EpochMarkerKey pairs a pending-set member's bandersnatch and Ed25519
// keys, as carried by the epoch marker (Eq. 248-257).
type EpochMarkerKey struct {
	Bandersnatch [32]byte
	Ed25519      [32]byte
}

// EpochMarker is emitted only on an epoch transition.
type EpochMarker struct {
	Eta0 [32]byte
	Eta1 [32]byte
	Keys []EpochMarkerKey
}

// Output is the STF's result: the updated state, any tickets accepted
// this block, and the optional markers.
type Output struct {
	State                types.SafroleState
	Tickets              []types.SafroleTicket
	EpochTransitioned    bool
	EpochMarker          *EpochMarker
	WinnersMarkerEmitted bool
}

// Transition applies one block's worth of Safrole state transition to
// state, given input and the current offenders set (Ed25519 keys keyed by
// value for O(1) lookup).
func Transition(state types.SafroleState, input Input, cfg external.ConfigService, offenders map[[32]byte]bool) (Output, error) {
	if input.Slot <= state.CurrentSlot {
		return Output{}, errutil.New(errutil.InvalidSlot, "safrole: input.slot must be greater than currentSlot")
	}
	if len(input.Extrinsic) > cfg.MaxExtrinsicsPerSlot() {
		return Output{}, errutil.New(errutil.TooManyExtrinsics, "safrole: too many ticket extrinsics in slot")
	}
	for _, e := range input.Extrinsic {
		if e.EntryIndex >= cfg.MaxTicketEntries() {
			return Output{}, errutil.New(errutil.InvalidEntryIndex, "safrole: entryIndex exceeds MAX_TICKET_ENTRIES")
		}
	}

	newState := state
	out := Output{}

	oldEta0, oldEta1, oldEta2 := state.Entropy.Eta0, state.Entropy.Eta1, state.Entropy.Eta2

	transitioning := epochOf(input.Slot, cfg.EpochLength()) > epochOf(state.CurrentSlot, cfg.EpochLength())
	if transitioning {
		out.EpochTransitioned = true

		pending := applyBlacklistFilter(state.StagingSet, offenders)
		newState.PendingSet = pending
		newState.ActiveSet = state.PendingSet
		newState.PreviousSet = state.ActiveSet

		root, err := ring.RingRoot(pending.BandersnatchKeys())
		if err != nil {
			return Output{}, err
		}
		newState.EpochRoot = root

		newState.Entropy.Eta1 = oldEta0
		newState.Entropy.Eta2 = oldEta1
		newState.Entropy.Eta3 = oldEta2

		if len(state.TicketAccumulator.Tickets) == int(cfg.EpochLength()) {
			newState.SealTicketsSeq = outsideIn(state.TicketAccumulator.Tickets)
		} else {
			newState.SealTicketsSeq = fallbackSeal(newState.Entropy.Eta2, newState.ActiveSet, cfg.EpochLength())
		}

		newState.TicketAccumulator = types.TicketAccumulator{Cap: int(cfg.EpochLength())}

		keys := make([]EpochMarkerKey, len(pending))
		for i, v := range pending {
			keys[i] = EpochMarkerKey{Bandersnatch: v.Bandersnatch, Ed25519: v.Ed25519}
		}
		out.EpochMarker = &EpochMarker{
			Eta0: oldEta0,
			Eta1: newState.Entropy.Eta1,
			Keys: keys,
		}
	}

	if slotInTailWithFullAccumulator(input.Slot, cfg, state.TicketAccumulator) {
		out.WinnersMarkerEmitted = true
	}

	bandEntropy := codec.Blake2bHash(input.Entropy[:])
	newState.Entropy.Eta0 = codec.Blake2bHash(append(append([]byte{}, oldEta0[:]...), bandEntropy[:]...))

	newState.CurrentSlot = input.Slot

	ringKeys := newState.PendingSet.BandersnatchKeys()
	var accepted []types.SafroleTicket
	for _, sub := range input.Extrinsic {
		t, err := ticket.VerifyExtrinsic(sub.EntryIndex, sub.Proof, state.Entropy.Eta2, ringKeys)
		if err != nil {
			return Output{}, err
		}
		accepted = append(accepted, t)
	}

	if len(accepted) > 0 {
		if err := newState.TicketAccumulator.Merge(accepted); err != nil {
			return Output{}, errutil.Wrap(errutil.DuplicateTicket, "safrole: ticket accumulator merge failed", err)
		}
	}

	out.State = newState
	out.Tickets = accepted
	return out, nil
}

func epochOf(slot uint64, epochLength uint64) uint64 {
	if epochLength == 0 {
		return 0
	}
	return slot / epochLength
}

// slotInTailWithFullAccumulator implements the Winners marker condition
// (spec §4.6, Eq. 3.13): the block must cross C_epochtailstart inside the
// current epoch, AND the ticket accumulator carried into this block must
// already be full (the same fullness test Z's outside-in fold uses at the
// epoch boundary).
func slotInTailWithFullAccumulator(slot uint64, cfg external.ConfigService, accumulator types.TicketAccumulator) bool {
	epochLen := cfg.EpochLength()
	if epochLen == 0 {
		return false
	}
	withinEpoch := slot % epochLen
	if withinEpoch != cfg.EpochTailStart() {
		return false
	}
	return len(accumulator.Tickets) == int(epochLen)
}

// applyBlacklistFilter implements Φ (spec §4.6, Eq. 119-128): validators
// whose Ed25519 key is in offenders have all four key components replaced
// by their zero forms.
func applyBlacklistFilter(staging types.ValidatorSet, offenders map[[32]byte]bool) types.ValidatorSet {
	filtered := make(types.ValidatorSet, len(staging))
	for i, v := range staging {
		if offenders[v.Ed25519] {
			filtered[i] = types.ValidatorKeys{}
			continue
		}
		filtered[i] = v
	}
	return filtered
}

// outsideIn implements seal-ticket sequence Z's full-accumulator path: fold
// the sorted ticket accumulator by alternately taking the last and first
// remaining entries (spec §4.6).
func outsideIn(tickets []types.SafroleTicket) types.SealTickets {
	n := len(tickets)
	result := make(types.SealTickets, n)
	lo, hi := 0, n-1
	takeHi := true
	for i := 0; i < n; i++ {
		if takeHi {
			result[i] = tickets[hi].ID
			hi--
		} else {
			result[i] = tickets[lo].ID
			lo++
		}
		takeHi = !takeHi
	}
	return result
}

// fallbackSeal implements Z's fallback path F(η2', activeSet'): a
// deterministic per-slot shuffle of the active Ed25519 keys, cycled to
// fill epochLength entries.
func fallbackSeal(eta2 [32]byte, active types.ValidatorSet, epochLength uint64) types.SealTickets {
	if len(active) == 0 {
		return types.SealTickets{}
	}
	perm := audit.Shuffle(len(active), eta2)
	result := make(types.SealTickets, epochLength)
	for i := range result {
		result[i] = active[perm[i%len(perm)]].Ed25519
	}
	return result
}
