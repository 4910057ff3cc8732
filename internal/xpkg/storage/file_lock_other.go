//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package storage

import "os"

// Without flock only writers inside one process are serialized.
func lockFile(*os.File, bool) error { return nil }

func unlockFile(*os.File) error { return nil }
