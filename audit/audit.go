// Package audit implements the audit-tranche selector and its associated
// signatures (spec §4.3-4.4): the Fisher-Yates `jamShuffle`, tranche-0 and
// tranche-N core selection, and the IETF-VRF/Ed25519 evidence/announcement
// signatures layered over them.
package audit

import (
	"encoding/binary"
	"sort"

	"github.com/jamic/safrole/codec"
	"github.com/jamic/safrole/crypto/announce"
	"github.com/jamic/safrole/crypto/vrf/ietf"
	"github.com/jamic/safrole/errutil"
	"github.com/jamic/safrole/types"
)

// MaxAuditCores is the tranche-0 selection cap (spec §4.4).
const MaxAuditCores = 10

const (
	contextAudit   = "jam_audit"
	contextAnnounce = "jam_announce"
)

// Shuffle implements jamShuffle (spec §4.4): a deterministic Fisher-Yates
// permutation of the indices [0,length) driven by 32-byte entropy. Equal
// (length, entropy) always yields the equal output.
func Shuffle(length int, entropy [32]byte) []int {
	idx := make([]int, length)
	for i := range idx {
		idx[i] = i
	}
	for i := length - 1; i >= 1; i-- {
		iBytes, _ := codec.EncodeFixedLE(uint64(i), 4)
		buf := append(append([]byte{}, entropy[:]...), iBytes...)
		h := codec.Blake2bHash(buf)
		q := binary.LittleEndian.Uint32(h[:4])
		j := int(q % uint32(i+1))
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx
}

func tranche0Context(vrfOutput [32]byte) []byte {
	return append([]byte(contextAudit), vrfOutput[:]...)
}

func trancheNContext(vrfOutput [32]byte, encodedReport []byte, n uint64) ([]byte, error) {
	reportHash := codec.Blake2bHash(encodedReport)
	nBytes, err := codec.EncodeFixedLE(n, 8)
	if err != nil {
		return nil, errutil.Wrap(errutil.EncodingFailure, "audit: encode tranche number", err)
	}
	ctx := append([]byte(contextAudit), vrfOutput[:]...)
	ctx = append(ctx, reportHash[:]...)
	ctx = append(ctx, nBytes...)
	return ctx, nil
}

// SignTranche0 produces the tranche-0 IETF-VRF evidence over the block
// header's VRF output (spec §4.3, Eq. 54-62).
func SignTranche0(sk [32]byte, vrfOutput [32]byte) (gamma [32]byte, evidence ietf.Proof, err error) {
	gamma, evidence, err = ietf.Prove(sk, tranche0Context(vrfOutput), nil)
	if err != nil {
		return gamma, evidence, err
	}
	return gamma, evidence, nil
}

// VerifyTranche0 checks tranche-0 evidence.
func VerifyTranche0(pk [32]byte, vrfOutput [32]byte, evidence ietf.Proof) (bool, error) {
	return ietf.Verify(pk, tranche0Context(vrfOutput), nil, evidence)
}

// SignTrancheN produces the tranche-N>0 per-work-report IETF-VRF evidence
// (spec §4.3, Eq. 105).
func SignTrancheN(sk [32]byte, vrfOutput [32]byte, encodedReport []byte, n uint64) (gamma [32]byte, evidence ietf.Proof, err error) {
	ctx, err := trancheNContext(vrfOutput, encodedReport, n)
	if err != nil {
		return gamma, evidence, err
	}
	return ietf.Prove(sk, ctx, nil)
}

// VerifyTrancheN checks tranche-N>0 evidence.
func VerifyTrancheN(pk [32]byte, vrfOutput [32]byte, encodedReport []byte, n uint64, evidence ietf.Proof) (bool, error) {
	ctx, err := trancheNContext(vrfOutput, encodedReport, n)
	if err != nil {
		return false, err
	}
	return ietf.Verify(pk, ctx, nil, evidence)
}

func workReportSetBytes(reports []types.CoreWorkReport) ([]byte, error) {
	var out []byte
	for _, r := range reports {
		coreBytes, err := codec.EncodeFixedLE(uint64(r.CoreIndex), 4)
		if err != nil {
			return nil, errutil.Wrap(errutil.EncodingFailure, "audit: encode core index", err)
		}
		out = append(out, coreBytes...)
		out = append(out, r.WorkReportHash[:]...)
	}
	return out, nil
}

func announcementMessage(tranche uint64, reports []types.CoreWorkReport, headerHash [32]byte) ([]byte, error) {
	trancheBytes, err := codec.EncodeFixedLE(tranche, 8)
	if err != nil {
		return nil, errutil.Wrap(errutil.EncodingFailure, "audit: encode tranche", err)
	}
	reportBytes, err := workReportSetBytes(reports)
	if err != nil {
		return nil, err
	}
	msg := append([]byte(contextAnnounce), trancheBytes...)
	msg = append(msg, reportBytes...)
	msg = append(msg, headerHash[:]...)
	return msg, nil
}

// SignAnnouncement signs the Ed25519 audit announcement (spec §4.3, Eq.
// 82). workReports must be non-empty.
func SignAnnouncement(ed25519Seed [32]byte, tranche uint64, workReports []types.CoreWorkReport, headerHash [32]byte) ([64]byte, error) {
	var sig [64]byte
	if len(workReports) == 0 {
		return sig, errutil.New(errutil.EmptyInput, "audit: workReports must be non-empty for announcement signing")
	}
	msg, err := announcementMessage(tranche, workReports, headerHash)
	if err != nil {
		return sig, err
	}
	return announce.Sign(ed25519Seed, msg), nil
}

// VerifyAnnouncement checks the Ed25519 announcement signature. A crypto
// library error (malformed key/signature length) surfaces distinctly from
// a legitimate false verification result (spec §4.3/§7).
func VerifyAnnouncement(pub [32]byte, tranche uint64, workReports []types.CoreWorkReport, headerHash [32]byte, sig [64]byte) (bool, error) {
	msg, err := announcementMessage(tranche, workReports, headerHash)
	if err != nil {
		return false, err
	}
	return announce.VerifyOrError(pub, msg, sig)
}

// SelectTranche0 implements the tranche-0 selection (spec §4.4, Eq.
// 64-68): shuffle the (core, report) pairs using the tranche-0 banderout
// seed, then take the first MaxAuditCores entries whose report is
// present, stopping early if fewer remain.
func SelectTranche0(numCores uint32, reports map[uint32]*types.WorkReport, tranche0Seed [32]byte) types.AuditTrancheSelection {
	order := Shuffle(int(numCores), tranche0Seed)

	shuffled := make([]uint32, len(order))
	for i, c := range order {
		shuffled[i] = uint32(c)
	}

	var selected []uint32
	for _, c := range shuffled {
		if len(selected) >= MaxAuditCores {
			break
		}
		if reports[c] != nil {
			selected = append(selected, c)
		}
	}

	return types.AuditTrancheSelection{
		Tranche:       0,
		VRFOutput:     tranche0Seed,
		ShuffledCores: shuffled,
		SelectedCores: selected,
	}
}

// TrancheNCandidate is a single core's input to SelectTrancheN: its
// present report (nil if none), the count of validators who announced
// intent to audit it in tranche n-1 but haven't yet judged it
// (m_n(w), spec §4.4 step 2), and whether it already carries a negative
// judgment (always included regardless of the bias threshold).
type TrancheNCandidate struct {
	CoreIndex        uint32
	Report           *types.WorkReport
	EncodedReport    []byte
	NoShowCount      uint32
	NegativeJudgment bool
}

// SelectTrancheN implements tranche-N>0 selection (spec §4.4, Eq.
// 105-108). sk is the selecting validator's bandersnatch secret, used to
// compute each candidate's per-report evidence; validatorCount and
// biasFactor parameterize the threshold test.
func SelectTrancheN(sk [32]byte, vrfOutput [32]byte, n uint64, candidates []TrancheNCandidate, validatorCount uint32, biasFactor int) (types.AuditTrancheSelection, error) {
	sel := types.AuditTrancheSelection{
		Tranche:   uint32(n),
		VRFOutput: vrfOutput,
	}

	threshold := validatorCount / uint32(256*biasFactor)

	for _, cand := range candidates {
		if cand.Report == nil {
			continue
		}
		gamma, _, err := ietf.Prove(sk, mustTrancheNContext(vrfOutput, cand.EncodedReport, n), nil)
		if err != nil {
			return sel, err
		}
		evidence := ietf.Banderout(gamma)
		b := uint32(evidence[0])

		include := cand.NegativeJudgment || (threshold*b)/256 < cand.NoShowCount
		if include {
			sel.SelectedCores = append(sel.SelectedCores, cand.CoreIndex)
		}
	}

	return sel, nil
}

func mustTrancheNContext(vrfOutput [32]byte, encodedReport []byte, n uint64) []byte {
	ctx, err := trancheNContext(vrfOutput, encodedReport, n)
	if err != nil {
		// encode_fixed_le(n, 8) only fails when n >= 2^64, impossible for a
		// uint64 argument.
		panic(err)
	}
	return ctx
}

// VerifySelection checks that a claimed selection's selected-core set
// equals a recomputed one, by multiset equality of core indices (spec
// §4.4 "Verification").
func VerifySelection(claimed, recomputed types.AuditTrancheSelection) error {
	if !sameCoreMultiset(claimed.SelectedCores, recomputed.SelectedCores) {
		return errutil.New(errutil.SelectionMismatch, "audit: claimed selection does not match recomputed selection")
	}
	return nil
}

func sameCoreMultiset(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	sa := append([]uint32{}, a...)
	sb := append([]uint32{}, b...)
	sort.Slice(sa, func(i, j int) bool { return sa[i] < sa[j] })
	sort.Slice(sb, func(i, j int) bool { return sb[i] < sb[j] })
	for i := range sa {
		if sa[i] != sb[i] {
			return false
		}
	}
	return true
}
