package lscpu

import "encoding/binary"

// leaf builds a Data entry.
func leaf(l, sub, a, b, c, d uint32) Entry {
	return Entry{Leaf: l, Subleaf: sub, EAX: a, EBX: b, ECX: c, EDX: d}
}

func data(entries ...Entry) Data {
	return Data{Entries: entries}
}

// packString splits s (padded with NULs to a multiple of 4) into little-endian registers.
func packString(s string, size int) []uint32 {
	buf := make([]byte, size)
	copy(buf, s)
	regs := make([]uint32, size/4)
	for i := range regs {
		regs[i] = binary.LittleEndian.Uint32(buf[i*4:])
	}
	return regs
}

// brandEntries packs s into leaves 0x80000002..0x80000004.
func brandEntries(s string) []Entry {
	r := packString(s, 48)
	return []Entry{
		leaf(LeafBrand1, 0, r[0], r[1], r[2], r[3]),
		leaf(LeafBrand2, 0, r[4], r[5], r[6], r[7]),
		leaf(LeafBrand3, 0, r[8], r[9], r[10], r[11]),
	}
}

// vendorEntry packs a 12 byte vendor into EBX, EDX, ECX of leaf 0.
func vendorEntry(maxLeaf uint32, vendor string) Entry {
	r := packString(vendor, 12)
	return leaf(LeafBasic, 0, maxLeaf, r[0], r[2], r[1])
}
