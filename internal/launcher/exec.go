// Package launcher replaces the envguard process with the guarded command.
package launcher

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
)

// Exec replaces the current process with target.
// It does not return on success.
//
// Callers map failures to exit codes:
//   - command not found: 127
//   - permission denied: 126
//   - anything else: 1
func Exec(target string, args []string, environ []string) error {
	execPath, err := exec.LookPath(target)
	if err != nil {
		return err
	}

	argv := append([]string{target}, args...)
	return syscall.Exec(execPath, argv, environ)
}

// IsNotFound reports whether err means the command does not exist
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist)
}

// IsPermissionDenied reports whether err means the command is not executable
func IsPermissionDenied(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, os.ErrPermission)
}
