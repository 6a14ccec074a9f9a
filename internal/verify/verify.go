// Package verify cross-checks a decoded CPU record against
// github.com/klauspost/cpuid, an independent CPUID decoder.
package verify

import (
	"strconv"
	"strings"

	"github.com/earentir/lscpu"
	cpuid "github.com/klauspost/cpuid/v2"
)

// Reference abstracts the independent decoder for testability.
type Reference interface {
	VendorString() string
	BrandName() string
	Family() int
	Model() int
	LogicalCores() int
	ThreadsPerCore() int
}

// HostReference implements Reference by reading the cpuid.CPU global.
type HostReference struct{}

func (HostReference) VendorString() string { return cpuid.CPU.VendorString }
func (HostReference) BrandName() string    { return cpuid.CPU.BrandName }
func (HostReference) Family() int          { return cpuid.CPU.Family }
func (HostReference) Model() int           { return cpuid.CPU.Model }
func (HostReference) LogicalCores() int    { return cpuid.CPU.LogicalCores }
func (HostReference) ThreadsPerCore() int  { return cpuid.CPU.ThreadsPerCore }

// Mismatch is one field on which the record and the reference disagree.
type Mismatch struct {
	Field     string `json:"field" yaml:"field"`
	Decoded   string `json:"decoded" yaml:"decoded"`
	Reference string `json:"reference" yaml:"reference"`
}

// Compare checks cpu against the host as seen by the reference decoder.
// Only meaningful for a record built from the host.
func Compare(cpu lscpu.CPU) []Mismatch {
	return CompareWith(cpu, HostReference{})
}

// CompareWith checks cpu against ref and returns the differing fields in report order.
func CompareWith(cpu lscpu.CPU, ref Reference) []Mismatch {
	checks := []struct {
		field     string
		decoded   string
		reference string
	}{
		{"cpu_count", itoa(cpu.CPUCount), strconv.Itoa(ref.LogicalCores())},
		{"vendor_id", cpu.VendorID, ref.VendorString()},
		{"model_name", strings.TrimSpace(cpu.ModelName), strings.TrimSpace(ref.BrandName())},
		{"cpu_family", itoa(cpu.CPUFamily), strconv.Itoa(ref.Family())},
		{"cpu_model", itoa(cpu.CPUModel), strconv.Itoa(ref.Model())},
		{"threads_per_core", itoa(cpu.ThreadsPerCore), strconv.Itoa(ref.ThreadsPerCore())},
	}
	var mismatches []Mismatch
	for _, c := range checks {
		if c.decoded != c.reference {
			mismatches = append(mismatches, Mismatch{Field: c.field, Decoded: c.decoded, Reference: c.reference})
		}
	}
	return mismatches
}

func itoa(n uint32) string {
	return strconv.FormatUint(uint64(n), 10)
}
