package lscpu

import "github.com/pkg/errors"

// ErrPinningUnsupported is returned by Snapshot where thread affinity cannot be set.
var ErrPinningUnsupported = errors.New("cpu pinning not supported on this platform")

// Snapshot builds a CPU record with the calling thread bound to logical CPU
// cpu, so every query reads the same processor. A negative cpu builds the
// record unpinned.
func Snapshot(cpu int) (CPU, error) {
	if cpu < 0 {
		return New(), nil
	}
	var rec CPU
	err := withAffinity(cpu, func() {
		rec = New()
	})
	if err != nil {
		return CPU{}, err
	}
	return rec, nil
}
