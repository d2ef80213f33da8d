//go:build unix

package ledgerfile

import (
	"os"

	"golang.org/x/sys/unix"
)

// lockFile takes an exclusive flock so concurrent processes appending to the
// same log cannot interleave partial lines.
func lockFile(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_EX)
}

func unlockFile(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_UN)
}
