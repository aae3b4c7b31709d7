//go:build !linux

package component

import "syscall"

// sysProcAttr puts the component in its own process group.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		Setpgid: true,
	}
}
