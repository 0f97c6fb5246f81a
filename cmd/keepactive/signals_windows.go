//go:build windows

package main

import (
	"os"
	"syscall"
)

// Windows delivers Ctrl+C and Ctrl+Break as os.Interrupt; SIGTERM arrives
// when the console window is closed.
func getSignalsForPlatform() []os.Signal {
	return []os.Signal{os.Interrupt, syscall.SIGTERM}
}
