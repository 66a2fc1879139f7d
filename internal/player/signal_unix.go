//go:build unix

package player

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

func suspendProcess(pid int) error {
	return unix.Kill(pid, unix.SIGSTOP)
}

func continueProcess(pid int) error {
	return unix.Kill(pid, unix.SIGCONT)
}

// isolate starts cmd in its own process group so helpers it forks die with it.
func isolate(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killGroup sends SIGKILL to the process group led by pid.
func killGroup(pid int) error {
	return unix.Kill(-pid, unix.SIGKILL)
}
