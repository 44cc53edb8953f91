// Package config provides a static implementation of external.ConfigService.
// Configuration *loading* (files, env vars) is out of scope for this core
// (spec §1) — callers construct a Static value however they like and hand
// it to the orchestrator. The struct/constructor shape (a plain value type
// plus named preset constructors) is adapted from the teacher's
// config/parameters.go Mainnet/Testnet/Local convention.
package config

import "fmt"

// Static is a plain-value ConfigService implementation.
type Static struct {
	Cores            uint32
	Validators       uint32
	EpochLen         uint64
	EpochTailStartAt uint64
	TicketsPerVal    uint32
}

// NumCores implements external.ConfigService.
func (s Static) NumCores() uint32 { return s.Cores }

// NumValidators implements external.ConfigService.
func (s Static) NumValidators() uint32 { return s.Validators }

// EpochLength implements external.ConfigService.
func (s Static) EpochLength() uint64 { return s.EpochLen }

// EpochTailStart implements external.ConfigService.
func (s Static) EpochTailStart() uint64 { return s.EpochTailStartAt }

// TicketsPerValidator implements external.ConfigService.
func (s Static) TicketsPerValidator() uint32 { return s.TicketsPerVal }

// MaxAuditCores implements external.ConfigService; fixed by the spec.
func (s Static) MaxAuditCores() int { return 10 }

// AuditBiasFactor implements external.ConfigService; fixed by the spec.
func (s Static) AuditBiasFactor() int { return 2 }

// MaxExtrinsicsPerSlot implements external.ConfigService; fixed by the spec.
func (s Static) MaxExtrinsicsPerSlot() int { return 10 }

// MaxTicketEntries implements external.ConfigService; fixed by the spec.
func (s Static) MaxTicketEntries() uint32 { return 1000 }

// Validate checks the configuration is internally consistent.
func (s Static) Validate() error {
	if s.Cores == 0 {
		return fmt.Errorf("config: numCores must be > 0")
	}
	if s.Validators == 0 {
		return fmt.Errorf("config: numValidators must be > 0")
	}
	if s.EpochLen == 0 {
		return fmt.Errorf("config: epochLength must be > 0")
	}
	if s.EpochTailStartAt > s.EpochLen {
		return fmt.Errorf("config: epochTailStart (%d) must be <= epochLength (%d)", s.EpochTailStartAt, s.EpochLen)
	}
	if s.TicketsPerVal == 0 {
		return fmt.Errorf("config: ticketsPerValidator must be > 0")
	}
	return nil
}

// Mainnet returns a representative full-size mainnet configuration.
func Mainnet() Static {
	return Static{
		Cores:            341,
		Validators:       1023,
		EpochLen:         600,
		EpochTailStartAt: 500,
		TicketsPerVal:    2,
	}
}

// Testnet returns a smaller configuration suitable for integration tests.
func Testnet() Static {
	return Static{
		Cores:            2,
		Validators:       6,
		EpochLen:         12,
		EpochTailStartAt: 10,
		TicketsPerVal:    3,
	}
}

// Local returns a minimal configuration suitable for unit tests.
func Local() Static {
	return Static{
		Cores:            1,
		Validators:       3,
		EpochLen:         4,
		EpochTailStartAt: 3,
		TicketsPerVal:    3,
	}
}
