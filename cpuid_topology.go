package lscpu

import "log/slog"

// htt is leaf 1 EDX bit 28, the hyper-threading capable flag.
const htt = 1 << 28

// GetCPUCount returns the number of logical processors, trying leaf 0xB,
// then leaf 4, then the leaf 1 HTT path. The result is at least 1.
func GetCPUCount(q Querier) uint32 {
	// Structured topology, SMT level
	if _, b, _, _ := q.CPUID(LeafTopology, 0); b != 0 {
		return b
	}
	slog.Debug("topology leaf reported no processors, trying cache parameters leaf")

	// Deterministic cache parameters: max addressable core IDs
	if a, _, _, _ := q.CPUID(LeafCacheParams, 0); a != 0 {
		return ((a >> 26) & 0x3F) + 1
	}
	slog.Debug("cache parameters leaf empty, trying version information leaf")

	_, b, _, d := q.CPUID(LeafVersion, 0)
	if d&htt != 0 {
		if n := (b >> 16) & 0xFF; n != 0 {
			return n
		}
	}
	return 1
}

// GetOnlineCPU returns the highest online CPU index. This is a fixed
// placeholder; the OS is not consulted.
func GetOnlineCPU(Querier) uint32 {
	return 1
}

// GetThreadsPerCore returns logical processors per core. The result is at least 1:
// a leaf 0xB ratio of 0 falls through to leaf 1, and a leaf 1 result of 0 becomes 1.
//
// The leaf 1 fallback computes maxLogical + 1/count with integer division,
// which adds 1 only when GetCPUCount returns 1. The formula is kept as is.
func GetThreadsPerCore(q Querier) uint32 {
	if _, b, _, _ := q.CPUID(LeafTopology, 0); b != 0 {
		logicalProcessors := b
		if _, b, _, _ := q.CPUID(LeafTopology, 1); b != 0 {
			if n := logicalProcessors / b; n != 0 {
				return n
			}
			slog.Debug("topology leaf ratio truncated to zero", slog.Int("smt", int(logicalProcessors)), slog.Int("core", int(b)))
		}
	}

	_, b, _, d := q.CPUID(LeafVersion, 0)
	maxLogicalProcessors := (b >> 16) & 0xFF
	if d&htt != 0 {
		if count := GetCPUCount(q); count > 0 {
			if n := maxLogicalProcessors + 1/count; n != 0 {
				return n
			}
		}
	}
	return 1
}

// GetCoresPerSocket returns the corrected processor count of leaf 0xB subleaf 1.
func GetCoresPerSocket(q Querier) uint32 {
	_, b, _, _ := q.CPUID(LeafTopology, 1)
	return FixTopologyCount(b)
}

// GetSockets returns the corrected processor count of leaf 0xB subleaf 0.
func GetSockets(q Querier) uint32 {
	_, b, _, _ := q.CPUID(LeafTopology, 0)
	return FixTopologyCount(b)
}

// FixTopologyCount clears the trailing run of set bits in n and sets the
// first clear bit above it. FixTopologyCount(0) == 1, FixTopologyCount(0b0111) == 0b1000.
func FixTopologyCount(n uint32) uint32 {
	c := uint32(1)
	for n&c != 0 {
		n ^= c
		c <<= 1
	}
	return n ^ c
}
