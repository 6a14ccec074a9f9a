//go:build linux

package lscpu

import (
	"log/slog"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

func withAffinity(cpu int, fn func()) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var previous unix.CPUSet
	if err := unix.SchedGetaffinity(0, &previous); err != nil {
		return errors.Wrap(err, "failed to read thread affinity")
	}
	if !previous.IsSet(cpu) {
		return errors.Errorf("cpu %d is not in the allowed set", cpu)
	}

	var pinned unix.CPUSet
	pinned.Set(cpu)
	if err := unix.SchedSetaffinity(0, &pinned); err != nil {
		return errors.Wrapf(err, "failed to pin thread to cpu %d", cpu)
	}
	defer func() {
		if err := unix.SchedSetaffinity(0, &previous); err != nil {
			slog.Error("failed to restore thread affinity", slog.String("error", err.Error()))
		}
	}()

	slog.Debug("thread pinned", slog.Int("cpu", cpu))
	fn()
	return nil
}
