//go:build !windows

package main

import (
	"os"
	"syscall"
)

// SIGHUP is included so closing the terminal stops the loop cleanly.
func getSignalsForPlatform() []os.Signal {
	return []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP}
}
