package lscpu

import (
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// longModeOnly is a host whose registers are all zero except the long mode bit.
var longModeOnly = data(
	leaf(LeafExtMax, 0, LeafExtFeatures, 0, 0, 0),
	leaf(LeafExtFeatures, 0, 0, 0, 0, 1<<29),
)

func TestNewWithQuerierLongModeOnly(t *testing.T) {
	cpu := NewWithQuerier(longModeOnly)
	assert.Equal(t, CPU{
		Architecture:   ArchX86_64,
		CPUOpModes:     OpModes3264,
		AddressSizes:   "0 bits physical, 0 bits virtual",
		ByteOrder:      GetByteOrder(),
		CPUCount:       1,
		OnLineCPU:      1,
		VendorID:       Unknown,
		ModelName:      Unknown,
		CPUFamily:      0,
		CPUModel:       0,
		IsHybrid:       HybridNo,
		ThreadsPerCore: 1,
		CoresPerSocket: 1,
		Sockets:        1,
		Stepping:       0,
		BoostEnabled:   BoostEnabled,
	}, cpu)
}

func TestNewWithQuerierCaptured(t *testing.T) {
	tests := []struct {
		file     string
		expected CPU
	}{
		{
			"testdata/i7-8650u.json",
			CPU{
				Architecture:   ArchX86_64,
				CPUOpModes:     OpModes3264,
				AddressSizes:   "39 bits physical, 48 bits virtual",
				ByteOrder:      GetByteOrder(),
				CPUCount:       2,
				OnLineCPU:      1,
				VendorID:       "GenuineIntel",
				ModelName:      "Intel(R) Core(TM) i7-8650U CPU @ 1.90GHz",
				CPUFamily:      6,
				CPUModel:       142,
				IsHybrid:       HybridNo,
				ThreadsPerCore: 8,
				CoresPerSocket: 9,
				Sockets:        3,
				Stepping:       10,
				BoostEnabled:   BoostEnabled,
			},
		},
		{
			"testdata/i7-1260p.yaml",
			CPU{
				Architecture:   ArchX86_64,
				CPUOpModes:     OpModes3264,
				AddressSizes:   "39 bits physical, 48 bits virtual",
				ByteOrder:      GetByteOrder(),
				CPUCount:       2,
				OnLineCPU:      1,
				VendorID:       "GenuineIntel",
				ModelName:      "12th Gen Intel(R) Core(TM) i7-1260P",
				CPUFamily:      6,
				CPUModel:       154,
				IsHybrid:       HybridYes,
				ThreadsPerCore: 128,
				CoresPerSocket: 17,
				Sockets:        3,
				Stepping:       3,
				BoostEnabled:   BoostEnabled,
			},
		},
	}
	for _, test := range tests {
		t.Run(test.file, func(t *testing.T) {
			d, err := DataFromFile(test.file)
			require.NoError(t, err)
			assert.Equal(t, test.expected, NewWithQuerier(d))
		})
	}
}

func TestNewInvariants(t *testing.T) {
	cpu := New()
	assert.GreaterOrEqual(t, cpu.ThreadsPerCore, uint32(1))
	assert.GreaterOrEqual(t, cpu.CPUCount, uint32(1))
	assert.Contains(t, []string{ArchX86, ArchX86_64}, cpu.Architecture)
	assert.Contains(t, []string{HybridYes, HybridNo}, cpu.IsHybrid)
	assert.NotEmpty(t, cpu.VendorID)
	assert.NotEmpty(t, cpu.ModelName)
}

func TestCPUString(t *testing.T) {
	cpu := NewWithQuerier(longModeOnly)
	expected := "" +
		"Architecture:             x86_64\n" +
		"CPU op-mode(s):           32-bit, 64-bit\n" +
		"Address sizes:            0 bits physical, 0 bits virtual\n" +
		"Byte Order:               " + GetByteOrder() + "\n" +
		"CPU(s):                   1\n" +
		"On-line CPU(s) list:      0,1\n" +
		"Vendor ID:                Unknown\n" +
		"Model name:               Unknown\n" +
		"CPU family:               0\n" +
		"Model:                    0\n" +
		"Is hybrid:                no\n" +
		"Thread(s) per core:       1\n" +
		"Core(s) per socket:       1\n" +
		"Socket(s):                1\n" +
		"Stepping:                 0\n" +
		"Frequency boost:          enabled\n"
	assert.Equal(t, expected, cpu.String())
	assert.Equal(t, expected, fmt.Sprint(cpu))
}

func TestFieldNames(t *testing.T) {
	names := FieldNames()
	require.Len(t, names, 16)
	assert.Equal(t, "architecture", names[0])
	assert.Equal(t, "on_line_cpu", names[5])
	assert.Equal(t, "boost_enabled", names[15])
	for _, name := range names {
		_, ok := fieldQueries[name]
		assert.True(t, ok, "no query for %s", name)
	}
	assert.Len(t, fieldQueries, len(names))
}

func TestCPUField(t *testing.T) {
	cpu := NewWithQuerier(longModeOnly)

	f, err := cpu.Field("architecture")
	require.NoError(t, err)
	assert.Equal(t, "Architecture", f.Label)
	assert.Equal(t, ArchX86_64, f.Value)

	f, err = cpu.Field("on_line_cpu")
	require.NoError(t, err)
	assert.Equal(t, uint32(1), f.Value)
	assert.Equal(t, "0,1", f.Text())

	_, err = cpu.Field("bogomips")
	assert.Equal(t, ErrUnknownField, errors.Cause(err))
	assert.True(t, strings.Contains(err.Error(), "bogomips"))
}

func TestCPUMap(t *testing.T) {
	m := NewWithQuerier(longModeOnly).Map()
	assert.Len(t, m, 16)
	assert.Equal(t, ArchX86_64, m["architecture"])
	assert.Equal(t, uint32(1), m["threads_per_core"])
}

func TestQuery(t *testing.T) {
	d, err := DataFromFile("testdata/i7-8650u.json")
	require.NoError(t, err)
	rec := NewWithQuerier(d)

	for _, name := range FieldNames() {
		f, err := Query(d, name)
		require.NoError(t, err)
		expected, err := rec.Field(name)
		require.NoError(t, err)
		assert.Equal(t, expected, f, name)
	}

	_, err = Query(d, "flags")
	assert.Equal(t, ErrUnknownField, errors.Cause(err))
}

func TestQuerierFunc(t *testing.T) {
	var calls []uint32
	q := QuerierFunc(func(leaf, subleaf uint32) (a, b, c, d uint32) {
		calls = append(calls, leaf)
		if leaf == LeafVersion {
			return 0x000806EA, 0, 0, 0
		}
		return 0, 0, 0, 0
	})
	assert.Equal(t, uint32(10), GetStepping(q))
	assert.Equal(t, []uint32{LeafVersion}, calls)
}
