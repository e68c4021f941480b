//go:build !windows

package ant

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
)

// configureProcess puts the child in its own process group so the whole tree
// can be signalled at once.
func configureProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

type processTree struct {
	proc *os.Process
}

func attachTree(proc *os.Process) (*processTree, error) {
	return &processTree{proc: proc}, nil
}

// Kill sends SIGKILL to the child's process group.
func (t *processTree) Kill() error {
	err := syscall.Kill(-t.proc.Pid, syscall.SIGKILL)
	if err == nil || errors.Is(err, syscall.ESRCH) {
		return nil
	}
	if kerr := t.proc.Kill(); kerr != nil && !errors.Is(kerr, os.ErrProcessDone) {
		return errors.Join(err, kerr)
	}
	return nil
}

func (t *processTree) Close() error {
	return nil
}
