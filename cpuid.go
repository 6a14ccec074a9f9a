// Package lscpu reconstructs an lscpu-style description of the CPU running the
// current program from the CPUID instruction.
//
// Every decoder is written against the Querier interface so the same logic runs
// on the live processor (Host) or on a captured register dump (Data).
package lscpu

// Leaves used by the decoders.
const (
	LeafBasic          uint32 = 0x00
	LeafVersion        uint32 = 0x01
	LeafCacheParams    uint32 = 0x04
	LeafStructFeatures uint32 = 0x07
	LeafTopology       uint32 = 0x0B
	LeafExtMax         uint32 = 0x80000000
	LeafExtFeatures    uint32 = 0x80000001
	LeafBrand1         uint32 = 0x80000002
	LeafBrand2         uint32 = 0x80000003
	LeafBrand3         uint32 = 0x80000004
	LeafPowerMgmt      uint32 = 0x80000007
	LeafAddressSizes   uint32 = 0x80000008
)

// Querier issues the identification instruction with the given leaf (EAX) and
// subleaf (ECX) and returns EAX, EBX, ECX and EDX.
type Querier interface {
	CPUID(leaf, subleaf uint32) (a, b, c, d uint32)
}

// QuerierFunc adapts an ordinary function to a Querier.
type QuerierFunc func(leaf, subleaf uint32) (a, b, c, d uint32)

// CPUID calls f(leaf, subleaf).
func (f QuerierFunc) CPUID(leaf, subleaf uint32) (a, b, c, d uint32) {
	return f(leaf, subleaf)
}

type hostQuerier struct{}

func (hostQuerier) CPUID(leaf, subleaf uint32) (a, b, c, d uint32) {
	return cpuid(leaf, subleaf)
}

// Host queries the processor the calling goroutine is currently scheduled on.
var Host Querier = hostQuerier{}

// GetMaxFunctions returns the maximum standard and extended function values supported by the CPU.
func GetMaxFunctions(q Querier) (uint32, uint32) {
	a, _, _, _ := q.CPUID(LeafBasic, 0)
	maxFunc := a

	a, _, _, _ = q.CPUID(LeafExtMax, 0)
	maxExtFunc := a

	return maxFunc, maxExtFunc
}

func int32ToBytes(i uint32) []byte {
	return []byte{byte(i), byte(i >> 8), byte(i >> 16), byte(i >> 24)}
}
