//go:build !windows

package main

import (
	"os/exec"
	"syscall"
)

// configureServerProc starts the server in its own session so closing the
// terminal does not stop it.
func configureServerProc(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
