//go:build unix

package tools

import (
	"errors"
	"syscall"
)

// isProcessRunning reports whether pid is alive, using signal 0
func isProcessRunning(pid int) bool {
	err := syscall.Kill(pid, syscall.Signal(0))
	if err == nil {
		return true
	}

	// EPERM: the process exists but belongs to someone else
	return errors.Is(err, syscall.EPERM)
}
