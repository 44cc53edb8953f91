// Package external declares the read-only collaborator interfaces this
// core consumes (spec §6). The core never mutates state belonging to these
// collaborators; it only reads from them and returns new values for the
// caller to persist.
package external

import (
	"context"

	"github.com/jamic/safrole/types"
)

// Fixed binary-format lengths (spec §6).
const (
	HashLen          = 32
	IetfProofLen     = 96
	RingProofLen     = 784
	RingRootLen      = 144
	Ed25519SigLen    = 64
	SecretKeyLen     = 32
	MaxAuditCores    = 10
	AuditBiasFactor  = 2
	MaxExtrinsics    = 10
	MaxTicketEntries = 1000
)

// ConfigService exposes the static protocol parameters the core needs.
type ConfigService interface {
	NumCores() uint32
	NumValidators() uint32
	EpochLength() uint64
	EpochTailStart() uint64
	TicketsPerValidator() uint32
	MaxAuditCores() int
	AuditBiasFactor() int
	MaxExtrinsicsPerSlot() int
	MaxTicketEntries() uint32
}

// ValidatorSetManager gives read access to the active validator set.
type ValidatorSetManager interface {
	GetActiveValidators() types.ValidatorSet
	GetActiveValidatorKeys() [][32]byte
	GetValidatorAtIndex(i int) (types.ValidatorKeys, error)
	GetValidatorIndex(ed25519Hex string) (int, error)
}

// KeyPair bundles a caller's own signing material.
type KeyPair struct {
	Ed25519KeyPair      Ed25519KeyPair
	BandersnatchKeyPair BandersnatchKeyPair
}

// Ed25519KeyPair is a 32-byte seed and its derived 32-byte public key.
type Ed25519KeyPair struct {
	SecretSeed [32]byte
	PublicKey  [32]byte
}

// BandersnatchKeyPair is a 32-byte secret scalar seed and its derived
// 32-byte public key.
type BandersnatchKeyPair struct {
	SecretSeed [32]byte
	PublicKey  [32]byte
}

// KeyPairService exposes the local validator's own key material.
type KeyPairService interface {
	GetLocalKeyPair() (KeyPair, error)
}

// EntropyService exposes the four-deep entropy accumulator.
type EntropyService interface {
	GetEntropy0() [32]byte
	GetEntropy1() [32]byte
	GetEntropy2() [32]byte
	GetEntropy3() [32]byte
	GetEntropyAccumulator() types.Entropy
}

// WorkReportService exposes the work report (if any) available on a core
// this block.
type WorkReportService interface {
	GetWorkReportForCore(ctx context.Context, core uint64) (*types.WorkReport, error)
}
