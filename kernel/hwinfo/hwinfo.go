// Package hwinfo defines the process-wide hardware descriptor and the pure
// tier-scoring function that classifies it. The descriptor is written once
// during boot (by an arch-specific hal_detect implementation) and read-only
// thereafter, so nothing in this package needs synchronization.
package hwinfo

// Arch tags which architecture produced an Info value.
type Arch uint8

const (
	ArchX86_64 Arch = iota
	ArchARM64
	ArchUnknown
)

// String returns a human-readable architecture name.
func (a Arch) String() string {
	switch a {
	case ArchX86_64:
		return "x86_64"
	case ArchARM64:
		return "arm64"
	default:
		return "unknown"
	}
}

// Tier is an ordered hardware-capability classification. Larger values
// denote more capable hardware: FALLBACK < LOW < MID < HIGH.
type Tier uint8

const (
	// TierFallback is used whenever detection could not establish a
	// usable core count or RAM size.
	TierFallback Tier = iota
	// TierLow covers any core count with at least 128 MiB RAM that does
	// not qualify for TierMid.
	TierLow
	// TierMid covers 2+ cores with at least 512 MiB RAM that do not
	// qualify for TierHigh.
	TierMid
	// TierHigh covers 4+ cores with at least 2 GiB RAM.
	TierHigh
)

// String returns the tier name as printed in the boot banner.
func (t Tier) String() string {
	switch t {
	case TierHigh:
		return "HIGH"
	case TierMid:
		return "MID"
	case TierLow:
		return "LOW"
	case TierFallback:
		return "FALLBACK"
	default:
		return "UNKNOWN"
	}
}

// Tier thresholds, fixed by spec.
const (
	mib = uint64(1) << 20
	gib = uint64(1) << 30

	highMinCores = 4
	highMinRAM   = 2 * gib
	midMinCores  = 2
	midMinRAM    = 512 * mib
	lowMinRAM    = 128 * mib
)

// ModelStrMax is the maximum length (including the terminating NUL) of
// Info.ModelStr, matching the original's 128-byte model_str buffer.
const ModelStrMax = 128

// CompatStrMax is the maximum length of Info.CompatStr.
const CompatStrMax = 128

// Info is the one process-wide hardware descriptor, filled once by an
// arch-specific detect routine and scored by Score. See spec §3.
type Info struct {
	Arch     Arch
	CPUCores uint32 // 0 means unknown
	RAMBytes uint64 // 0 means unknown

	// ModelStr is a human-readable CPU identifier, e.g. a CPUID brand
	// string on x86_64 or a MIDR-derived name on arm64.
	ModelStr string

	// CompatStr is the matched DTB compatible string for the UART IP
	// block (arm64 only); empty on x86_64.
	CompatStr string

	// UARTBase, IntcBase, IntcDistBase are discovered MMIO physical
	// addresses; 0 when not applicable or not detected.
	UARTBase     uint64
	IntcBase     uint64
	IntcDistBase uint64

	Tier Tier
}

// Score computes the hardware tier for info. It is a pure function: calling
// it repeatedly with the same Info value yields the same Tier, and it never
// returns an "unknown" tier — the zero value (TierFallback) covers every
// detection failure.
//
// Cases are evaluated in the order of the table below; the first match
// wins:
//
//	cores==0 || ram==0        -> FALLBACK
//	cores>=4 && ram>=2GiB      -> HIGH
//	cores>=2 && ram>=512MiB    -> MID
//	ram>=128MiB                -> LOW
//	otherwise                  -> FALLBACK
func Score(info Info) Tier {
	if info.CPUCores == 0 || info.RAMBytes == 0 {
		return TierFallback
	}

	if info.CPUCores >= highMinCores && info.RAMBytes >= highMinRAM {
		return TierHigh
	}

	if info.CPUCores >= midMinCores && info.RAMBytes >= midMinRAM {
		return TierMid
	}

	if info.RAMBytes >= lowMinRAM {
		return TierLow
	}

	return TierFallback
}
