package lscpu

import (
	"fmt"
	"strings"
)

// CPU is the lscpu-style description of the processor. A CPU is built once by
// New or NewWithQuerier and not refreshed afterwards.
type CPU struct {
	Architecture   string `json:"architecture" yaml:"architecture" label:"Architecture"`
	CPUOpModes     string `json:"cpu_op_modes" yaml:"cpu_op_modes" label:"CPU op-mode(s)"`
	AddressSizes   string `json:"address_sizes" yaml:"address_sizes" label:"Address sizes"`
	ByteOrder      string `json:"byte_order" yaml:"byte_order" label:"Byte Order"`
	CPUCount       uint32 `json:"cpu_count" yaml:"cpu_count" label:"CPU(s)"`
	OnLineCPU      uint32 `json:"on_line_cpu" yaml:"on_line_cpu" label:"On-line CPU(s) list" format:"0,%d"`
	VendorID       string `json:"vendor_id" yaml:"vendor_id" label:"Vendor ID"`
	ModelName      string `json:"model_name" yaml:"model_name" label:"Model name"`
	CPUFamily      uint32 `json:"cpu_family" yaml:"cpu_family" label:"CPU family"`
	CPUModel       uint32 `json:"cpu_model" yaml:"cpu_model" label:"Model"`
	IsHybrid       string `json:"is_hybrid" yaml:"is_hybrid" label:"Is hybrid"`
	ThreadsPerCore uint32 `json:"threads_per_core" yaml:"threads_per_core" label:"Thread(s) per core"`
	CoresPerSocket uint32 `json:"cores_per_socket" yaml:"cores_per_socket" label:"Core(s) per socket"`
	Sockets        uint32 `json:"sockets" yaml:"sockets" label:"Socket(s)"`
	Stepping       uint32 `json:"stepping" yaml:"stepping" label:"Stepping"`
	BoostEnabled   string `json:"boost_enabled" yaml:"boost_enabled" label:"Frequency boost"`
}

// New detects every field from the processor the caller is running on.
// The goroutine may migrate between queries; use Snapshot for a pinned read.
func New() CPU {
	return NewWithQuerier(Host)
}

// NewWithQuerier detects every field through q.
func NewWithQuerier(q Querier) CPU {
	return CPU{
		Architecture:   GetArchitecture(q),
		CPUOpModes:     GetOpModes(q),
		AddressSizes:   GetAddressSizes(q),
		ByteOrder:      GetByteOrder(),
		CPUCount:       GetCPUCount(q),
		OnLineCPU:      GetOnlineCPU(q),
		VendorID:       GetVendorID(q),
		ModelName:      GetModelName(q),
		CPUFamily:      GetCPUFamily(q),
		CPUModel:       GetCPUModel(q),
		ThreadsPerCore: GetThreadsPerCore(q),
		CoresPerSocket: GetCoresPerSocket(q),
		Sockets:        GetSockets(q),
		Stepping:       GetStepping(q),
		BoostEnabled:   GetBoostEnabled(q),
		IsHybrid:       GetHybridFlag(q),
	}
}

// labelWidth is the column at which report values start.
const labelWidth = 26

// String renders the record in lscpu layout, one "Label:   value" line per field.
func (c CPU) String() string {
	var sb strings.Builder
	for _, f := range c.Fields() {
		fmt.Fprintf(&sb, "%-*s%s\n", labelWidth, f.Label+":", f.Text())
	}
	return sb.String()
}
