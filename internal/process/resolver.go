package process

import (
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/sysdash/sysdash-agent/internal/guard"
)

// terminateGrace is how long a process gets to exit after SIGTERM before
// it is killed outright.
const terminateGrace = 3 * time.Second

// target adapts a gopsutil process to the guard.Process interface.
type target struct {
	proc *process.Process
}

func (t *target) Pid() int32 { return t.proc.Pid }

func (t *target) Name() (string, error) { return t.proc.Name() }

// Terminate sends SIGTERM and escalates to SIGKILL if the process is still
// running after the grace period.
func (t *target) Terminate() error {
	if err := t.proc.Terminate(); err != nil {
		return fmt.Errorf("terminate failed: %w", err)
	}

	deadline := time.Now().Add(terminateGrace)
	for time.Now().Before(deadline) {
		running, err := t.proc.IsRunning()
		if err != nil || !running {
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}

	if err := t.proc.Kill(); err != nil {
		return fmt.Errorf("kill after grace period failed: %w", err)
	}
	return nil
}

// Resolve looks up a live process by pid for the kill controller.
func Resolve(pid int32) (guard.Process, error) {
	p, err := process.NewProcess(pid)
	if err != nil {
		return nil, fmt.Errorf("pid %d: %w", pid, guard.ErrNotFound)
	}
	return &target{proc: p}, nil
}
