//go:build windows

package main

import "os/exec"

// configureServerProc is a no-op on Windows; started processes already
// outlive the parent.
func configureServerProc(cmd *exec.Cmd) {}
