// Package orchestrator wires the read-only external collaborators (spec
// §6: ConfigService, ValidatorSetManager, KeyPairService, EntropyService,
// WorkReportService) into the cryptographic core's actual entrypoints: it
// produces per-block audit announcements and tranche selections, generates
// and verifies Safrole tickets, and drives the Safrole STF. It is a thin
// façade — every piece of cryptographic or state-transition logic lives in
// its owning package (audit, ticket, safrole, assign, extrinsic); this
// package only assembles their inputs from the collaborators and logs the
// events an operator cares about, in the same spirit as the teacher's own
// engine packages (consensus/beam, engine/quasar) gluing together block
// production from narrower collaborators.
package orchestrator

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jamic/safrole/assign"
	"github.com/jamic/safrole/audit"
	"github.com/jamic/safrole/codec"
	"github.com/jamic/safrole/crypto/vrf/ietf"
	"github.com/jamic/safrole/crypto/vrf/ring"
	"github.com/jamic/safrole/errutil"
	"github.com/jamic/safrole/external"
	"github.com/jamic/safrole/extrinsic"
	"github.com/jamic/safrole/log"
	"github.com/jamic/safrole/metrics"
	"github.com/jamic/safrole/safrole"
	"github.com/jamic/safrole/ticket"
	"github.com/jamic/safrole/types"
)

// Orchestrator holds the five read-only external collaborators (spec §6)
// plus a logger and a process-local ring-root cache. It owns no mutable
// protocol state of its own; callers pass the current types.SafroleState
// into Transition and persist whatever it returns.
type Orchestrator struct {
	Config     external.ConfigService
	Validators external.ValidatorSetManager
	Keys       external.KeyPairService
	Entropy    external.EntropyService
	Reports    external.WorkReportService
	Log        log.Logger
	Metrics    *metrics.Orchestrator

	ringCache *ring.RingCache
}

// New builds an Orchestrator. logger may be nil, in which case a no-op
// logger is used. Metrics start out nil and are skipped until WithMetrics
// attaches a collector (every metrics.Orchestrator method is nil-receiver
// safe).
func New(cfg external.ConfigService, vsm external.ValidatorSetManager, kps external.KeyPairService, es external.EntropyService, wrs external.WorkReportService, logger log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Orchestrator{
		Config:     cfg,
		Validators: vsm,
		Keys:       kps,
		Entropy:    es,
		Reports:    wrs,
		Log:        logger,
		ringCache:  ring.NewRingCache(),
	}
}

// WithMetrics attaches m to the orchestrator, returning o for chaining.
func (o *Orchestrator) WithMetrics(m *metrics.Orchestrator) *Orchestrator {
	o.Metrics = m
	return o
}

// collectReports fetches the work report (if any) for every core, keyed by
// core index, per spec §4.4's tranche-0 input and §9 Open Question 3 (the
// shuffle input always has length numCores; absent cores carry a nil
// entry).
func (o *Orchestrator) collectReports(ctx context.Context) (map[uint32]*types.WorkReport, error) {
	numCores := o.Config.NumCores()
	reports := make(map[uint32]*types.WorkReport, numCores)
	for c := uint32(0); c < numCores; c++ {
		r, err := o.Reports.GetWorkReportForCore(ctx, uint64(c))
		if err != nil {
			return nil, errutil.Wrap(errutil.CryptoFailure, fmt.Sprintf("orchestrator: fetch work report for core %d", c), err)
		}
		reports[c] = r
	}
	return reports, nil
}

// AnnounceTranche0 produces this validator's tranche-0 audit announcement
// for a block: the IETF-VRF evidence over the block header's VRF output,
// the jamShuffle-driven core selection, and the Ed25519 signature covering
// the selected work reports (spec §4.3-4.4).
func (o *Orchestrator) AnnounceTranche0(ctx context.Context, headerHash, blockVRFOutput [32]byte) (types.AuditAnnouncement, types.AuditTrancheSelection, error) {
	kp, err := o.Keys.GetLocalKeyPair()
	if err != nil {
		return types.AuditAnnouncement{}, types.AuditTrancheSelection{}, errutil.Wrap(errutil.CryptoFailure, "orchestrator: load local key pair", err)
	}

	gamma, evidence, err := audit.SignTranche0(kp.BandersnatchKeyPair.SecretSeed, blockVRFOutput)
	if err != nil {
		return types.AuditAnnouncement{}, types.AuditTrancheSelection{}, err
	}
	seed := ietf.Banderout(gamma)

	reports, err := o.collectReports(ctx)
	if err != nil {
		return types.AuditAnnouncement{}, types.AuditTrancheSelection{}, err
	}
	selection := audit.SelectTranche0(o.Config.NumCores(), reports, seed)

	workReports := make([]types.CoreWorkReport, 0, len(selection.SelectedCores))
	for _, c := range selection.SelectedCores {
		enc, err := reports[c].Encode()
		if err != nil {
			return types.AuditAnnouncement{}, selection, errutil.Wrap(errutil.EncodingFailure, "orchestrator: encode selected work report", err)
		}
		h := sumHash(enc)
		workReports = append(workReports, types.CoreWorkReport{CoreIndex: c, WorkReportHash: h})
	}

	validatorIndex, err := o.Validators.GetValidatorIndex(hexEd25519(kp.Ed25519KeyPair.PublicKey))
	if err != nil {
		return types.AuditAnnouncement{}, selection, errutil.Wrap(errutil.CryptoFailure, "orchestrator: resolve local validator index", err)
	}

	sig, err := audit.SignAnnouncement(kp.Ed25519KeyPair.SecretSeed, 0, workReports, headerHash)
	if err != nil {
		return types.AuditAnnouncement{}, selection, err
	}

	announcement := types.AuditAnnouncement{
		HeaderHash:     headerHash,
		Tranche:        0,
		ValidatorIndex: uint16(validatorIndex),
		WorkReports:    workReports,
		Signature:      sig,
		Evidence:       evidence,
	}

	o.Log.Info("tranche-0 announcement produced",
		zap.Int("validatorIndex", validatorIndex),
		zap.Int("selectedCores", len(selection.SelectedCores)))
	o.Metrics.AnnouncementProduced()

	return announcement, selection, nil
}

// VerifyAnnouncement recomputes and checks a peer's audit announcement:
// the Ed25519 signature over the claimed work-report set, and (for
// tranche 0) the IETF-VRF evidence itself. A CryptoFailure error and a
// legitimate false verification are never conflated (spec §7).
func (o *Orchestrator) VerifyAnnouncement(a types.AuditAnnouncement, blockVRFOutput [32]byte) (bool, error) {
	v, err := o.Validators.GetValidatorAtIndex(int(a.ValidatorIndex))
	if err != nil {
		return false, errutil.Wrap(errutil.CryptoFailure, "orchestrator: resolve announcing validator", err)
	}

	sigOK, err := audit.VerifyAnnouncement(v.Ed25519, a.Tranche, a.WorkReports, a.HeaderHash, a.Signature)
	if err != nil {
		return false, err
	}
	if !sigOK {
		o.Log.Warn("announcement signature verification failed", zap.Uint16("validatorIndex", a.ValidatorIndex))
		o.Metrics.AnnouncementVerified(false)
		return false, nil
	}

	if a.Tranche == 0 {
		var evidence ietf.Proof
		copy(evidence[:], a.Evidence[:])
		ok, err := audit.VerifyTranche0(v.Bandersnatch, blockVRFOutput, evidence)
		if err != nil {
			return false, err
		}
		o.Metrics.AnnouncementVerified(ok)
		return ok, nil
	}
	o.Metrics.AnnouncementVerified(true)
	return true, nil
}

// SelectTrancheN runs tranche-N>0 selection (spec §4.4, Eq. 105-108) for
// this validator using its own bandersnatch secret to derive per-report
// evidence. candidates' no-show counts and negative-judgment flags are
// assembled by the caller from judgment/no-show tracking state, which this
// core does not persist (spec §1 Non-goals).
func (o *Orchestrator) SelectTrancheN(vrfOutput [32]byte, n uint64, candidates []audit.TrancheNCandidate) (types.AuditTrancheSelection, error) {
	kp, err := o.Keys.GetLocalKeyPair()
	if err != nil {
		return types.AuditTrancheSelection{}, errutil.Wrap(errutil.CryptoFailure, "orchestrator: load local key pair", err)
	}

	active := o.Validators.GetActiveValidators()
	sel, err := audit.SelectTrancheN(kp.BandersnatchKeyPair.SecretSeed, vrfOutput, n, candidates, uint32(len(active)), o.Config.AuditBiasFactor())
	if err != nil {
		return sel, err
	}

	o.Log.Info("tranche-N selection produced", zap.Uint64("n", n), zap.Int("selectedCores", len(sel.SelectedCores)))
	return sel, nil
}

// GenerateTickets generates this validator's full batch of Safrole tickets
// for the upcoming epoch (spec §4.5), against the active bandersnatch ring.
func (o *Orchestrator) GenerateTickets(eta2 [32]byte) ([]types.SafroleTicket, error) {
	kp, err := o.Keys.GetLocalKeyPair()
	if err != nil {
		return nil, errutil.Wrap(errutil.CryptoFailure, "orchestrator: load local key pair", err)
	}

	ringKeys := o.Validators.GetActiveValidatorKeys()
	proverIndex, err := o.Validators.GetValidatorIndex(hexEd25519(kp.Ed25519KeyPair.PublicKey))
	if err != nil {
		return nil, errutil.Wrap(errutil.CryptoFailure, "orchestrator: resolve local ring position", err)
	}

	tickets, err := ticket.GenerateForEpoch(kp.BandersnatchKeyPair.SecretSeed, eta2, ringKeys, proverIndex, o.Config.TicketsPerValidator())
	if err != nil {
		return nil, err
	}

	o.Log.Info("generated safrole tickets", zap.Int("count", len(tickets)))
	o.Metrics.TicketsGenerated(len(tickets))
	return tickets, nil
}

// GenerateTicketsForCurrentEpoch fetches η2 from the EntropyService and
// generates this validator's ticket batch against it (spec §4.5: ticket
// context is keyed by η2, the entropy value fixed two epochs back).
func (o *Orchestrator) GenerateTicketsForCurrentEpoch() ([]types.SafroleTicket, error) {
	return o.GenerateTickets(o.Entropy.GetEntropy2())
}

// Transition drives the Safrole STF for one block (spec §4.6), discarding
// the ring-root cache whenever the transition crosses an epoch boundary
// (spec §5: ring caches are scoped to an epoch and must be invalidated on
// rotation).
func (o *Orchestrator) Transition(state types.SafroleState, input safrole.Input, offenders map[[32]byte]bool) (safrole.Output, error) {
	out, err := safrole.Transition(state, input, o.Config, offenders)
	if err != nil {
		o.Log.Warn("safrole transition failed", zap.Error(err))
		return out, err
	}

	if out.EpochTransitioned {
		o.ringCache.Invalidate()
		o.Log.Info("epoch transition",
			zap.Uint64("slot", input.Slot),
			zap.Int("pendingSetSize", len(out.State.PendingSet)))
	}
	if out.WinnersMarkerEmitted {
		o.Log.Info("winners marker emitted", zap.Uint64("slot", input.Slot))
	}
	o.Metrics.Transitioned(out.EpochTransitioned, out.WinnersMarkerEmitted, len(out.State.TicketAccumulator.Tickets))

	return out, nil
}

// RingRoot returns the cached (or freshly computed) ring root for a set of
// bandersnatch keys, reusing the process-local cache across calls within
// an epoch.
func (o *Orchestrator) RingRoot(keys [][32]byte) ([144]byte, error) {
	return o.ringCache.RootFor(keys)
}

// AssignCores computes the guarantor core assignment for the configured
// validator count (spec §4.7).
func (o *Orchestrator) AssignCores(entropy [32]byte, currentTime, rotationPeriod uint64) ([]assign.CoreAssignment, error) {
	return assign.CoresForValidators(o.Config, entropy, currentTime, rotationPeriod)
}

// CommitExtrinsics computes the extrinsic-hash commitment over the five
// already-encoded block-body components (spec §4.8).
func (o *Orchestrator) CommitExtrinsics(encTickets, encPreimages, encGuarantees, encAssurances, encDisputes []byte) [32]byte {
	return extrinsic.Commit(encTickets, encPreimages, encGuarantees, encAssurances, encDisputes)
}

func sumHash(b []byte) [32]byte {
	return codec.Blake2bHash(b)
}

func hexEd25519(pub [32]byte) string {
	const hexdigits = "0123456789abcdef"
	out := make([]byte, 2*len(pub))
	for i, c := range pub {
		out[2*i] = hexdigits[c>>4]
		out[2*i+1] = hexdigits[c&0x0f]
	}
	return string(out)
}
