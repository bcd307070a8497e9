package runner

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/arthur-debert/provision/pkg/errors"
)

// Status classifies how an external invocation ended
type Status int

const (
	StatusSuccess Status = iota
	StatusSpawnFailure
	StatusNonZeroExit
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusSpawnFailure:
		return "spawn-failure"
	case StatusNonZeroExit:
		return "non-zero-exit"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Command describes one external invocation.
// Exactly one of Name or Script is set.
type Command struct {
	Name string
	Args []string

	// Script is a shell snippet such as "curl -sS https://x | sh".
	Script string

	// Elevated commands are prefixed with the runner's privilege command.
	Elevated bool

	// Capture collects stdout instead of streaming it to the terminal.
	Capture bool

	// Dir is the working directory; empty means the current one.
	Dir string
}

// Cmd builds a plain argv command
func Cmd(name string, args ...string) Command {
	return Command{Name: name, Args: args}
}

// Sudo builds an elevated argv command
func Sudo(name string, args ...string) Command {
	return Command{Name: name, Args: args, Elevated: true}
}

// Shell builds a shell-snippet command
func Shell(script string) Command {
	return Command{Script: script}
}

// String renders the logical command line (without the privilege prefix)
func (c Command) String() string {
	if c.Script != "" {
		return c.Script
	}
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result is the outcome of Runner.Run
type Result struct {
	Command  Command
	Status   Status
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

// OK reports whether the command ran and exited zero
func (r Result) OK() bool { return r.Status == StatusSuccess }

// SpawnFailed reports whether the command could not be started at all
func (r Result) SpawnFailed() bool { return r.Status == StatusSpawnFailure }

// Error returns nil on success, otherwise a coded error: SPAWN_FAILED or
// COMMAND_FAILED.
func (r Result) Error() error {
	switch r.Status {
	case StatusSuccess:
		return nil
	case StatusSpawnFailure:
		cause := r.Err
		if cause == nil {
			cause = stderrors.New("process not started")
		}
		return errors.Wrapf(cause, errors.ErrSpawnFailed, "failed to start %q", r.Command.String()).
			WithDetail("command", r.Command.String())
	default:
		err := errors.Newf(errors.ErrCommandFailed, "%q exited with status %d", r.Command.String(), r.ExitCode).
			WithDetail("command", r.Command.String()).
			WithDetail("exitCode", r.ExitCode)
		if r.Stderr != "" {
			err = err.WithDetail("stderr", r.Stderr)
		}
		return err
	}
}
