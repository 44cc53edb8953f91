package safrole

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jamic/safrole/config"
	"github.com/jamic/safrole/crypto/bandersnatch"
	"github.com/jamic/safrole/errutil"
	"github.com/jamic/safrole/ticket"
	"github.com/jamic/safrole/types"
)

func seed(b byte) [32]byte {
	var s [32]byte
	for i := range s {
		s[i] = b
	}
	return s
}

func validatorSet(n int) (types.ValidatorSet, [][32]byte) {
	vs := make(types.ValidatorSet, n)
	seeds := make([][32]byte, n)
	for i := 0; i < n; i++ {
		seeds[i] = seed(byte(i + 1))
		var v types.ValidatorKeys
		v.Bandersnatch = bandersnatch.PublicFromSecret(seeds[i])
		v.Ed25519 = seed(byte(100 + i))
		vs[i] = v
	}
	return vs, seeds
}

func freshState(vs types.ValidatorSet, cap int) types.SafroleState {
	return types.SafroleState{
		PendingSet:        vs,
		ActiveSet:         vs,
		PreviousSet:       vs,
		StagingSet:        vs,
		TicketAccumulator: types.TicketAccumulator{Cap: cap},
	}
}

func TestTransitionRejectsNonIncreasingSlot(t *testing.T) {
	vs, _ := validatorSet(3)
	state := freshState(vs, 4)
	cfg := config.Local()

	_, err := Transition(state, Input{Slot: 0}, cfg, nil)
	require.Error(t, err)

	var e *errutil.Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, errutil.InvalidSlot, e.Kind)
}

func TestTransitionRegularSlotAcceptsTickets(t *testing.T) {
	vs, seeds := validatorSet(3)
	state := freshState(vs, 4)
	cfg := config.Local()

	ringKeys := vs.BandersnatchKeys()
	tickets, err := ticket.GenerateForEpoch(seeds[0], state.Entropy.Eta2, ringKeys, 0, 2)
	require.NoError(t, err)
	require.Len(t, tickets, 2)

	input := Input{
		Slot: 1,
		Extrinsic: []TicketSubmission{
			{EntryIndex: tickets[0].EntryIndex, Proof: tickets[0].Proof},
			{EntryIndex: tickets[1].EntryIndex, Proof: tickets[1].Proof},
		},
	}

	out, err := Transition(state, input, cfg, nil)
	require.NoError(t, err)
	require.False(t, out.EpochTransitioned)
	require.Len(t, out.Tickets, 2)
	require.Equal(t, uint64(1), out.State.CurrentSlot)

	for i := 1; i < len(out.State.TicketAccumulator.Tickets); i++ {
		require.True(t, lessID(out.State.TicketAccumulator.Tickets[i-1].ID, out.State.TicketAccumulator.Tickets[i].ID))
	}
}

func lessID(a, b [32]byte) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func TestTransitionRejectsTooManyExtrinsics(t *testing.T) {
	vs, _ := validatorSet(3)
	state := freshState(vs, 4)
	cfg := config.Local()

	extrinsic := make([]TicketSubmission, cfg.MaxExtrinsicsPerSlot()+1)
	_, err := Transition(state, Input{Slot: 1, Extrinsic: extrinsic}, cfg, nil)
	require.Error(t, err)

	var e *errutil.Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, errutil.TooManyExtrinsics, e.Kind)
}

func TestTransitionRejectsOversizedEntryIndex(t *testing.T) {
	vs, _ := validatorSet(3)
	state := freshState(vs, 4)
	cfg := config.Local()

	extrinsic := []TicketSubmission{{EntryIndex: cfg.MaxTicketEntries()}}
	_, err := Transition(state, Input{Slot: 1, Extrinsic: extrinsic}, cfg, nil)
	require.Error(t, err)

	var e *errutil.Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, errutil.InvalidEntryIndex, e.Kind)
}

func TestTransitionEpochBoundaryRotatesSets(t *testing.T) {
	vs, _ := validatorSet(3)
	state := freshState(vs, 4)
	state.CurrentSlot = 0
	cfg := config.Local() // epochLen=4

	out, err := Transition(state, Input{Slot: 4}, cfg, nil)
	require.NoError(t, err)
	require.True(t, out.EpochTransitioned)
	require.NotNil(t, out.EpochMarker)
	require.Equal(t, state.PendingSet, out.State.ActiveSet)
	require.Equal(t, state.ActiveSet, out.State.PreviousSet)
}

func TestTransitionAppliesBlacklistFilter(t *testing.T) {
	vs, _ := validatorSet(3)
	state := freshState(vs, 4)
	offenders := map[[32]byte]bool{vs[1].Ed25519: true}
	cfg := config.Local()

	out, err := Transition(state, Input{Slot: 4}, cfg, offenders)
	require.NoError(t, err)
	require.Equal(t, types.ValidatorKeys{}, out.State.PendingSet[1])
	require.NotEqual(t, types.ValidatorKeys{}, out.State.PendingSet[0])
}

func TestWinnersMarkerRequiresFullAccumulator(t *testing.T) {
	vs, _ := validatorSet(3)
	cfg := config.Local() // epochLen=4, epochTailStartAt=3

	empty := freshState(vs, int(cfg.EpochLength()))
	out, err := Transition(empty, Input{Slot: 3}, cfg, nil)
	require.NoError(t, err)
	require.False(t, out.EpochTransitioned)
	require.False(t, out.WinnersMarkerEmitted)

	full := freshState(vs, int(cfg.EpochLength()))
	full.TicketAccumulator.Tickets = make([]types.SafroleTicket, cfg.EpochLength())
	for i := range full.TicketAccumulator.Tickets {
		full.TicketAccumulator.Tickets[i].ID = seed(byte(i + 1))
	}
	out, err = Transition(full, Input{Slot: 3}, cfg, nil)
	require.NoError(t, err)
	require.False(t, out.EpochTransitioned)
	require.True(t, out.WinnersMarkerEmitted)
}

func TestTransitionAccumulatesEntropy(t *testing.T) {
	vs, _ := validatorSet(3)
	state := freshState(vs, 4)
	cfg := config.Local()

	out, err := Transition(state, Input{Slot: 1, Entropy: [32]byte{9, 9, 9}}, cfg, nil)
	require.NoError(t, err)
	require.NotEqual(t, state.Entropy.Eta0, out.State.Entropy.Eta0)

	out2, err := Transition(state, Input{Slot: 1, Entropy: [32]byte{9, 9, 9}}, cfg, nil)
	require.NoError(t, err)
	require.Equal(t, out.State.Entropy.Eta0, out2.State.Entropy.Eta0)
}
