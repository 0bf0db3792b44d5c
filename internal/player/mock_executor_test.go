package player

import (
	"context"
	"sync"
)

// fakeCmd simulates an external process. Play processes run until
// terminated, killed, or told to exit; render processes exit as soon as
// they are waited on.
type fakeCmd struct {
	name string
	args []string

	startErr error
	waitErr  error

	mu         sync.Mutex
	exitOnce   sync.Once
	exited     chan struct{}
	terminated bool
	killed     bool
	ignoreTerm bool
	autoExit   bool
}

func (c *fakeCmd) Start() error {
	return c.startErr
}

func (c *fakeCmd) Wait() error {
	if c.autoExit {
		c.exit()
	}
	<-c.exited
	return c.waitErr
}

func (c *fakeCmd) Terminate() error {
	c.mu.Lock()
	c.terminated = true
	ignore := c.ignoreTerm
	c.mu.Unlock()
	if !ignore {
		c.exit()
	}
	return nil
}

func (c *fakeCmd) Kill() error {
	c.mu.Lock()
	c.killed = true
	c.mu.Unlock()
	c.exit()
	return nil
}

func (c *fakeCmd) exit() {
	c.exitOnce.Do(func() { close(c.exited) })
}

func (c *fakeCmd) wasTerminated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.terminated
}

func (c *fakeCmd) wasKilled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.killed
}

// fakeExecutor records every spawned command.
type fakeExecutor struct {
	mu        sync.Mutex
	cmds      []*fakeCmd
	startErr  error // injected Start failure for every command
	renderErr error // injected Wait failure for render (ffmpeg) commands
}

func (e *fakeExecutor) Command(ctx context.Context, name string, args ...string) Commander {
	c := &fakeCmd{
		name:   name,
		args:   args,
		exited: make(chan struct{}),
	}
	e.mu.Lock()
	c.startErr = e.startErr
	if name == "ffmpeg" {
		// Renders are synchronous: they finish once waited on.
		c.autoExit = true
		c.waitErr = e.renderErr
	}
	e.cmds = append(e.cmds, c)
	e.mu.Unlock()
	return c
}

func (e *fakeExecutor) spawned(name string) []*fakeCmd {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []*fakeCmd
	for _, c := range e.cmds {
		if c.name == name {
			out = append(out, c)
		}
	}
	return out
}
