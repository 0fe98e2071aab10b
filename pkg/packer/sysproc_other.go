//go:build !windows

package packer

import "os/exec"

func hideWindow(*exec.Cmd) {}
