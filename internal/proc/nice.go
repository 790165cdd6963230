//go:build linux

// Package proc adjusts scheduling priority for spawned tool processes.
package proc

import (
	"golang.org/x/sys/unix"
)

// SetNiceness lowers the scheduling priority of the given process.
// Failures are reported but callers treat them as best-effort.
func SetNiceness(pid, niceness int) error {
	if niceness <= 0 {
		return nil
	}
	return unix.Setpriority(unix.PRIO_PROCESS, pid, niceness)
}
