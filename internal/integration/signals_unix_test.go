//go:build !windows
// +build !windows

package integration

import (
	"os"
	"syscall"
)

func shutdownSignals() []os.Signal {
	return []os.Signal{
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	}
}

func sendInterrupt() error {
	return syscall.Kill(os.Getpid(), syscall.SIGINT)
}

const canSignalSelf = true
