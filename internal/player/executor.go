package player

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"syscall"
)

// CommandExecutor abstracts process creation so the controller can be
// exercised in tests without spawning real binaries.
type CommandExecutor interface {
	Command(ctx context.Context, name string, args ...string) Commander
}

// Commander is the slice of exec.Cmd the controller needs.
type Commander interface {
	// Start launches the process without waiting.
	Start() error

	// Wait blocks until the process exits and returns its exit error, if
	// any. Must be called exactly once after a successful Start.
	Wait() error

	// Terminate asks the process to exit gracefully. Calling it on a
	// process that is already gone is not an error.
	Terminate() error

	// Kill forcibly ends the process.
	Kill() error
}

// DefaultExecutor spawns real processes.
var DefaultExecutor CommandExecutor = execExecutor{}

type execExecutor struct{}

func (execExecutor) Command(ctx context.Context, name string, args ...string) Commander {
	cmd := exec.CommandContext(ctx, name, args...)
	return &execCommander{cmd: cmd}
}

type execCommander struct {
	cmd *exec.Cmd
}

func (c *execCommander) Start() error {
	return c.cmd.Start()
}

func (c *execCommander) Wait() error {
	return c.cmd.Wait()
}

func (c *execCommander) Terminate() error {
	if c.cmd.Process == nil {
		return nil
	}
	err := c.cmd.Process.Signal(syscall.SIGTERM)
	if err == nil || errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}

func (c *execCommander) Kill() error {
	if c.cmd.Process == nil {
		return nil
	}
	err := c.cmd.Process.Kill()
	if err == nil || errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}
