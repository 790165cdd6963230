//go:build !linux

package proc

// SetNiceness is a no-op on platforms without Setpriority support.
func SetNiceness(pid, niceness int) error {
	return nil
}
