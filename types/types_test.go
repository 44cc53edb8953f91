package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWorkReportEncodeDeterministic(t *testing.T) {
	w := WorkReport{
		PackageSpec:       []byte("pkg"),
		Context:           []byte("ctx"),
		CoreIndex:         3,
		AuthorizerHash:    [HashLen]byte{1, 2, 3},
		AuthGasUsed:       1000,
		AuthOutput:        []byte("out"),
		SegmentRootLookup: []byte("lookup"),
		Results:           []byte("results"),
	}

	enc1, err := w.Encode()
	require.NoError(t, err)
	enc2, err := w.Encode()
	require.NoError(t, err)
	require.Equal(t, enc1, enc2)

	other := w
	other.CoreIndex = 4
	enc3, err := other.Encode()
	require.NoError(t, err)
	require.NotEqual(t, enc1, enc3)
}

func TestTicketAccumulatorMergeSortsAndCaps(t *testing.T) {
	a := TicketAccumulator{Cap: 2}

	t1 := SafroleTicket{ID: [HashLen]byte{3}}
	t2 := SafroleTicket{ID: [HashLen]byte{1}}
	t3 := SafroleTicket{ID: [HashLen]byte{2}}

	err := a.Merge([]SafroleTicket{t1, t2, t3})
	require.NoError(t, err)
	require.Len(t, a.Tickets, 2)
	require.Equal(t, [HashLen]byte{1}, a.Tickets[0].ID)
	require.Equal(t, [HashLen]byte{2}, a.Tickets[1].ID)
}

func TestTicketAccumulatorMergeRejectsDuplicates(t *testing.T) {
	a := TicketAccumulator{Cap: 10}
	dup := SafroleTicket{ID: [HashLen]byte{9}}

	require.NoError(t, a.Merge([]SafroleTicket{dup}))
	err := a.Merge([]SafroleTicket{dup})
	require.Error(t, err)
}

func TestValidatorSetIndexOfEd25519(t *testing.T) {
	vs := ValidatorSet{
		{Ed25519: [Ed25519KeyLen]byte{1}},
		{Ed25519: [Ed25519KeyLen]byte{2}},
	}
	require.Equal(t, 1, vs.IndexOfEd25519([Ed25519KeyLen]byte{2}))
	require.Equal(t, -1, vs.IndexOfEd25519([Ed25519KeyLen]byte{9}))
}
