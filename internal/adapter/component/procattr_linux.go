package component

import "syscall"

// sysProcAttr puts the component in its own process group. Pdeathsig makes
// the kernel send SIGTERM to the component if the launcher dies first.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		Setpgid:   true,
		Pdeathsig: syscall.SIGTERM,
	}
}
