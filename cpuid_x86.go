//go:build 386 || amd64

package lscpu

// cpuid is implemented in cpuid_amd64.s and cpuid_386.s.
func cpuid(eax, ecx uint32) (a, b, c, d uint32)
