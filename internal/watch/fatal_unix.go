// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package watch

import (
	"errors"
	"syscall"
)

// isFatal reports fsnotify errors after which no further events arrive:
// exhausted inotify watches (ENOSPC) and exhausted file descriptors
// (EMFILE, ENFILE). A large source tree can hit the watch limit.
func isFatal(err error) bool {
	return errors.Is(err, syscall.ENOSPC) ||
		errors.Is(err, syscall.EMFILE) ||
		errors.Is(err, syscall.ENFILE)
}
