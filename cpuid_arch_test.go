package lscpu

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArchitectureAndOpModes(t *testing.T) {
	tests := []struct {
		name    string
		q       Querier
		arch    string
		opModes string
	}{
		{
			"long mode",
			data(leaf(LeafExtMax, 0, 0x80000008, 0, 0, 0), leaf(LeafExtFeatures, 0, 0, 0, 0, 1<<29)),
			ArchX86_64, OpModes3264,
		},
		{
			"long mode bit clear",
			data(leaf(LeafExtMax, 0, 0x80000008, 0, 0, 0), leaf(LeafExtFeatures, 0, 0, 0, 0, ^uint32(1<<29))),
			ArchX86, OpModes32,
		},
		{
			// the 0x80000001 entry must not be consulted
			"no extended feature leaf",
			data(leaf(LeafExtMax, 0, 0x80000000, 0, 0, 0), leaf(LeafExtFeatures, 0, 0, 0, 0, 1<<29)),
			ArchX86, OpModes32,
		},
		{"nothing", data(), ArchX86, OpModes32},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.arch, GetArchitecture(test.q))
			assert.Equal(t, test.opModes, GetOpModes(test.q))
			if test.arch == ArchX86 {
				assert.NotContains(t, GetOpModes(test.q), "64-bit")
			}
		})
	}
}

func TestGetAddressSizes(t *testing.T) {
	q := data(leaf(LeafAddressSizes, 0, 0x3027, 0, 0, 0))
	assert.Equal(t, "39 bits physical, 48 bits virtual", GetAddressSizes(q))

	q = data(leaf(LeafAddressSizes, 0, 0xFFFF3930, 0, 0, 0))
	assert.Equal(t, "48 bits physical, 57 bits virtual", GetAddressSizes(q))

	assert.Equal(t, "0 bits physical, 0 bits virtual", GetAddressSizes(data()))
}

func TestGetByteOrder(t *testing.T) {
	var buf [2]byte
	binary.NativeEndian.PutUint16(buf[:], 0x0001)
	if buf[0] == 1 {
		assert.Equal(t, LittleEndian, GetByteOrder())
	} else {
		assert.Equal(t, BigEndian, GetByteOrder())
	}
}

func TestGetHybridFlag(t *testing.T) {
	assert.Equal(t, HybridYes, GetHybridFlag(data(leaf(LeafStructFeatures, 0, 0, 0, 0, 1<<15))))
	assert.Equal(t, HybridNo, GetHybridFlag(data(leaf(LeafStructFeatures, 0, 0, 0, 0, ^uint32(1<<15)))))
	// subleaf 1 is a different record
	assert.Equal(t, HybridNo, GetHybridFlag(data(leaf(LeafStructFeatures, 1, 0, 0, 0, 1<<15))))
}

func TestGetBoostEnabled(t *testing.T) {
	// bit 38 lies outside a zero-extended 32-bit register
	for _, ebx := range []uint32{0, 1 << 6, 0xFFFFFFFF} {
		assert.Equal(t, BoostEnabled, GetBoostEnabled(data(leaf(LeafPowerMgmt, 0, 0, ebx, 0, 0))))
	}
}
