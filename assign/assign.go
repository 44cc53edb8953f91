// Package assign implements guarantor core assignment (spec §4.7): an
// initial proportional core/validator mapping, shuffled by epochal
// entropy via audit.Shuffle and then right-rotated by a time-derived
// offset.
package assign

import (
	"github.com/jamic/safrole/audit"
	"github.com/jamic/safrole/errutil"
	"github.com/jamic/safrole/external"
)

// CoreAssignment pairs a validator index with the core it guarantees.
type CoreAssignment struct {
	ValidatorIndex int
	CoreIndex      uint32
}

// CoresForValidators computes the per-validator core assignment for the
// configured core/validator counts (spec §4.7, Eq. 212-217): the initial
// mapping coreOf(i) = floor(numCores*i/numValidators) is permuted by
// audit.Shuffle(entropy) and then right-rotated by
// floor((currentTime mod epochLength) / rotationPeriod) mod numValidators.
// Returns errutil.EmptyInput if cfg reports zero validators, since there is
// then no assignment to compute.
func CoresForValidators(cfg external.ConfigService, entropy [32]byte, currentTime, rotationPeriod uint64) ([]CoreAssignment, error) {
	numValidators := cfg.NumValidators()
	if numValidators == 0 {
		return nil, errutil.New(errutil.EmptyInput, "assign: numValidators must be > 0")
	}
	numCores := cfg.NumCores()
	epochLength := cfg.EpochLength()

	initial := make([]uint32, numValidators)
	for i := uint32(0); i < numValidators; i++ {
		initial[i] = (numCores * i) / numValidators
	}

	perm := audit.Shuffle(int(numValidators), entropy)
	shuffled := make([]uint32, numValidators)
	for i, p := range perm {
		shuffled[i] = initial[p]
	}

	rotationOffset := uint64(0)
	if rotationPeriod > 0 && epochLength > 0 {
		rotationOffset = (currentTime % epochLength) / rotationPeriod
	}
	offset := int(rotationOffset % uint64(numValidators))

	rotated := rightRotate(shuffled, offset)

	out := make([]CoreAssignment, numValidators)
	for i, c := range rotated {
		out[i] = CoreAssignment{ValidatorIndex: i, CoreIndex: c}
	}
	return out, nil
}

func rightRotate(xs []uint32, offset int) []uint32 {
	n := len(xs)
	if n == 0 {
		return xs
	}
	offset = ((offset % n) + n) % n
	out := make([]uint32, n)
	for i, v := range xs {
		out[(i+offset)%n] = v
	}
	return out
}
