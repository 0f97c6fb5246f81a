//go:build windows
// +build windows

package integration

import (
	"errors"
	"os"
	"syscall"
)

func shutdownSignals() []os.Signal {
	return []os.Signal{
		syscall.SIGINT,
		syscall.SIGTERM,
	}
}

func sendInterrupt() error {
	return errors.New("sending signals to self is not supported on windows")
}

const canSignalSelf = false
