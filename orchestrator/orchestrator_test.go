package orchestrator

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/jamic/safrole/config"
	"github.com/jamic/safrole/crypto/announce"
	"github.com/jamic/safrole/crypto/bandersnatch"
	"github.com/jamic/safrole/errutil"
	"github.com/jamic/safrole/external"
	"github.com/jamic/safrole/external/externalmock"
	"github.com/jamic/safrole/ticket"
	"github.com/jamic/safrole/types"
)

// buildValidatorSet derives a deterministic validator set and its backing
// seeds, the way newFakeValidators used to before the collaborator
// interfaces moved onto go.uber.org/mock test doubles.
func buildValidatorSet(n int) (types.ValidatorSet, map[string]int, [][32]byte, [][32]byte) {
	set := make(types.ValidatorSet, n)
	edSeeds := make([][32]byte, n)
	bsSeeds := make([][32]byte, n)
	byEd := make(map[string]int, n)
	for i := 0; i < n; i++ {
		var edSeed, bsSeed [32]byte
		for j := range edSeed {
			edSeed[j] = byte(10 + i)
			bsSeed[j] = byte(50 + i)
		}
		_, pub := announce.KeyPairFromSeed(edSeed)
		var edPub [32]byte
		copy(edPub[:], pub)

		set[i] = types.ValidatorKeys{
			Ed25519:      edPub,
			Bandersnatch: bandersnatch.PublicFromSecret(bsSeed),
		}
		edSeeds[i] = edSeed
		bsSeeds[i] = bsSeed
		byEd[hexEd25519(edPub)] = i
	}
	return set, byEd, edSeeds, bsSeeds
}

// newMockValidators wires a MockValidatorSetManager backed by a real,
// deterministically-derived validator set: the crypto material must be
// genuine for ring-VRF generation/verification to round-trip, but the
// collaborator boundary itself is exercised through gomock like the
// teacher's validatorsmock convention.
func newMockValidators(t *testing.T, set types.ValidatorSet, byEd map[string]int) *externalmock.MockValidatorSetManager {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := externalmock.NewMockValidatorSetManager(ctrl)
	m.EXPECT().GetActiveValidators().Return(set).AnyTimes()
	m.EXPECT().GetActiveValidatorKeys().Return(set.BandersnatchKeys()).AnyTimes()
	m.EXPECT().GetValidatorAtIndex(gomock.Any()).DoAndReturn(func(i int) (types.ValidatorKeys, error) {
		if i < 0 || i >= len(set) {
			return types.ValidatorKeys{}, fmt.Errorf("index %d out of range", i)
		}
		return set[i], nil
	}).AnyTimes()
	m.EXPECT().GetValidatorIndex(gomock.Any()).DoAndReturn(func(ed25519Hex string) (int, error) {
		i, ok := byEd[ed25519Hex]
		if !ok {
			return 0, fmt.Errorf("validator %s not found", ed25519Hex)
		}
		return i, nil
	}).AnyTimes()
	return m
}

func newMockKeys(t *testing.T, kp external.KeyPair) *externalmock.MockKeyPairService {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := externalmock.NewMockKeyPairService(ctrl)
	m.EXPECT().GetLocalKeyPair().Return(kp, nil).AnyTimes()
	return m
}

func newMockEntropy(t *testing.T, e types.Entropy) *externalmock.MockEntropyService {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := externalmock.NewMockEntropyService(ctrl)
	m.EXPECT().GetEntropy0().Return(e.Eta0).AnyTimes()
	m.EXPECT().GetEntropy1().Return(e.Eta1).AnyTimes()
	m.EXPECT().GetEntropy2().Return(e.Eta2).AnyTimes()
	m.EXPECT().GetEntropy3().Return(e.Eta3).AnyTimes()
	m.EXPECT().GetEntropyAccumulator().Return(e).AnyTimes()
	return m
}

func newMockReports(t *testing.T, byCore map[uint64]*types.WorkReport) *externalmock.MockWorkReportService {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := externalmock.NewMockWorkReportService(ctrl)
	m.EXPECT().GetWorkReportForCore(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, core uint64) (*types.WorkReport, error) {
			return byCore[core], nil
		}).AnyTimes()
	return m
}

func newOrchestrator(t *testing.T, numValidators int, reports map[uint64]*types.WorkReport, localIndex int) (*Orchestrator, []external.Ed25519KeyPair, []external.BandersnatchKeyPair) {
	t.Helper()
	cfg := config.Testnet()
	cfg.Cores = 2
	cfg.Validators = uint32(numValidators)

	set, byEd, edSeeds, bsSeeds := buildValidatorSet(numValidators)
	fv := newMockValidators(t, set, byEd)

	edPairs := make([]external.Ed25519KeyPair, numValidators)
	bsPairs := make([]external.BandersnatchKeyPair, numValidators)
	for i := 0; i < numValidators; i++ {
		edPairs[i] = external.Ed25519KeyPair{SecretSeed: edSeeds[i], PublicKey: set[i].Ed25519}
		bsPairs[i] = external.BandersnatchKeyPair{SecretSeed: bsSeeds[i], PublicKey: set[i].Bandersnatch}
	}

	fk := newMockKeys(t, external.KeyPair{
		Ed25519KeyPair:      edPairs[localIndex],
		BandersnatchKeyPair: bsPairs[localIndex],
	})

	fr := newMockReports(t, reports)

	o := New(cfg, fv, fk, nil, fr, nil)
	return o, edPairs, bsPairs
}

func TestAnnounceTranche0RoundTrip(t *testing.T) {
	report := &types.WorkReport{CoreIndex: 0, Results: []byte("work")}
	o, _, _ := newOrchestrator(t, 3, map[uint64]*types.WorkReport{0: report}, 1)

	headerHash := [32]byte{0xab, 0xcd}
	vrfOutput := [32]byte{3, 3, 3}

	announcement, selection, err := o.AnnounceTranche0(context.Background(), headerHash, vrfOutput)
	require.NoError(t, err)
	require.Equal(t, uint16(1), announcement.ValidatorIndex)
	require.Equal(t, []uint32{0}, selection.SelectedCores)
	require.Len(t, announcement.WorkReports, 1)

	ok, err := o.VerifyAnnouncement(announcement, vrfOutput)
	require.NoError(t, err)
	require.True(t, ok)

	tampered := announcement
	tampered.Tranche = 999
	ok, err = o.VerifyAnnouncement(tampered, vrfOutput)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestAnnounceTranche0NoReports(t *testing.T) {
	o, _, _ := newOrchestrator(t, 2, map[uint64]*types.WorkReport{}, 0)

	announcement, selection, err := o.AnnounceTranche0(context.Background(), [32]byte{1}, [32]byte{2})
	var e *errutil.Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, errutil.EmptyInput, e.Kind)
	require.Empty(t, selection.SelectedCores)
	require.Empty(t, announcement.WorkReports)
}

func TestGenerateTicketsVerifiable(t *testing.T) {
	o, _, bsPairs := newOrchestrator(t, 4, nil, 2)

	eta2 := [32]byte{7, 7, 7}
	tickets, err := o.GenerateTickets(eta2)
	require.NoError(t, err)
	require.Len(t, tickets, int(o.Config.TicketsPerValidator()))

	for i := 1; i < len(tickets); i++ {
		require.Negative(t, bytes.Compare(tickets[i-1].ID[:], tickets[i].ID[:]))
	}

	ringKeys := o.Validators.GetActiveValidatorKeys()
	_ = bsPairs
	for _, tk := range tickets {
		ok, err := ticket.Verify(tk, eta2, ringKeys)
		require.NoError(t, err)
		require.True(t, ok)
	}
}

func TestGenerateTicketsForCurrentEpochUsesEntropyService(t *testing.T) {
	o, _, _ := newOrchestrator(t, 4, nil, 1)
	o.Entropy = newMockEntropy(t, types.Entropy{Eta2: [32]byte{7, 7, 7}})

	viaService, err := o.GenerateTicketsForCurrentEpoch()
	require.NoError(t, err)

	direct, err := o.GenerateTickets([32]byte{7, 7, 7})
	require.NoError(t, err)

	require.Equal(t, direct, viaService)
}

func TestAssignCoresDeterministic(t *testing.T) {
	o, _, _ := newOrchestrator(t, 5, nil, 0)
	entropy := [32]byte{9}

	a1, err := o.AssignCores(entropy, 10, 3)
	require.NoError(t, err)
	a2, err := o.AssignCores(entropy, 10, 3)
	require.NoError(t, err)
	require.Equal(t, a1, a2)
	require.Len(t, a1, 5)
}

func TestCommitExtrinsicsDeterministic(t *testing.T) {
	o, _, _ := newOrchestrator(t, 2, nil, 0)
	h1 := o.CommitExtrinsics([]byte("t"), []byte("p"), []byte("g"), []byte("a"), []byte("d"))
	h2 := o.CommitExtrinsics([]byte("t"), []byte("p"), []byte("g"), []byte("a"), []byte("d"))
	require.Equal(t, h1, h2)
}
