//go:build !unix

package config

import "os"

// Без flock: на этих платформах полагаемся только на Store.mu.
func lockFile(*os.File, bool) error { return nil }

func unlockFile(*os.File) {}
