//go:build !386 && !amd64

package lscpu

// cpuid reports all-zero registers on processors without the instruction, so
// every decoder falls back to its documented default.
func cpuid(eax, ecx uint32) (a, b, c, d uint32) {
	return 0, 0, 0, 0
}
