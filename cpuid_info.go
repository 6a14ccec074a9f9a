package lscpu

import (
	"bytes"
	"unicode/utf8"
)

// Unknown is reported when packed register bytes do not form readable text.
const Unknown = "Unknown"

// GetVendorID returns the vendor ID of the CPU (EBX, EDX, ECX of leaf 0).
func GetVendorID(q Querier) string {
	_, b, c, d := q.CPUID(LeafBasic, 0)

	var vendor [12]byte
	copy(vendor[0:], int32ToBytes(b))
	copy(vendor[4:], int32ToBytes(d))
	copy(vendor[8:], int32ToBytes(c))
	return decodeRegisterString(vendor[:])
}

// GetModelName returns the brand string of the CPU from leaves 0x80000002..0x80000004.
func GetModelName(q Querier) string {
	var brand [48]byte
	for i := 0; i < 3; i++ {
		a, b, c, d := q.CPUID(LeafBrand1+uint32(i), 0)
		copy(brand[i*16:], int32ToBytes(a))
		copy(brand[i*16+4:], int32ToBytes(b))
		copy(brand[i*16+8:], int32ToBytes(c))
		copy(brand[i*16+12:], int32ToBytes(d))
	}
	return decodeRegisterString(brand[:])
}

// decodeRegisterString drops the NUL padding and rejects anything that is not text.
func decodeRegisterString(raw []byte) string {
	s := bytes.TrimRight(raw, "\x00")
	if len(s) == 0 || !utf8.Valid(s) {
		return Unknown
	}
	return string(s)
}

// GetCPUFamily returns the effective family: base family, plus the extended
// family when the base family is 0xF.
func GetCPUFamily(q Querier) uint32 {
	a, _, _, _ := q.CPUID(LeafVersion, 0)
	familyID := (a >> 8) & 0xF
	extendedFamilyID := (a >> 20) & 0xFF

	if familyID == 0xF {
		return familyID + extendedFamilyID
	}
	return familyID
}

// GetCPUModel returns the effective model. The extended model is only folded
// in for base families 0x6 and 0xF; the base family is tested, not the
// effective one.
func GetCPUModel(q Querier) uint32 {
	a, _, _, _ := q.CPUID(LeafVersion, 0)
	modelID := (a >> 4) & 0xF
	familyID := (a >> 8) & 0xF
	extendedModelID := (a >> 16) & 0xF

	if familyID == 0x6 || familyID == 0xF {
		return (extendedModelID << 4) | modelID
	}
	return modelID
}

// GetStepping returns the stepping ID, the low nibble of leaf 1 EAX.
func GetStepping(q Querier) uint32 {
	a, _, _, _ := q.CPUID(LeafVersion, 0)
	return a & 0xF
}
