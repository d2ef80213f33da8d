//go:build !unix

package ledgerfile

import "os"

// lockFile is a no-op on platforms without flock; the Journal mutex still
// serializes writers inside one process.
func lockFile(*os.File) error { return nil }

func unlockFile(*os.File) error { return nil }
