//go:build !linux

package lscpu

func withAffinity(int, func()) error {
	return ErrPinningUnsupported
}
