package runner

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/arthur-debert/provision/pkg/logging"
	"github.com/rs/zerolog"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Runner launches external commands synchronously
type Runner interface {
	Run(ctx context.Context, cmd Command) Result
}

// ExecRunner runs commands as child processes attached to the terminal.
// No timeout is applied; the only way to stop a child early is ctx.
type ExecRunner struct {
	logger    zerolog.Logger
	privilege string
	isRoot    func() bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner creates a runner that prefixes elevated commands with
// privilege (typically "sudo"). An empty privilege disables the prefix.
func NewExecRunner(privilege string) *ExecRunner {
	return &ExecRunner{
		logger:    logging.GetLogger("runner"),
		privilege: privilege,
		isRoot:    func() bool { return os.Geteuid() == 0 },
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}
}

// Run executes cmd and classifies the outcome
func (r *ExecRunner) Run(ctx context.Context, cmd Command) Result {
	var stdout, stderr bytes.Buffer
	out, errOut := r.Stdout, r.Stderr
	if cmd.Capture {
		out, errOut = &stdout, &stderr
	}

	var res Result
	if cmd.Script != "" && !r.needsPrefix(cmd) {
		res = r.runScript(ctx, cmd, out, errOut)
	} else {
		res = r.runExec(ctx, cmd, out, errOut)
	}

	res.Command = cmd
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()

	event := r.logger.Debug()
	if !res.OK() {
		event = r.logger.Warn()
	}
	event.
		Str("command", cmd.String()).
		Str("status", res.Status.String()).
		Int("exitCode", res.ExitCode).
		Err(res.Err).
		Msg("Command finished")

	return res
}

func (r *ExecRunner) needsPrefix(cmd Command) bool {
	return cmd.Elevated && r.privilege != "" && !r.isRoot()
}

// argv resolves the program and arguments, applying the privilege prefix
func (r *ExecRunner) argv(cmd Command) (string, []string) {
	name, args := cmd.Name, cmd.Args
	if cmd.Script != "" {
		name, args = "sh", []string{"-c", cmd.Script}
	}
	if r.needsPrefix(cmd) {
		return r.privilege, append([]string{name}, args...)
	}
	return name, args
}

func (r *ExecRunner) runExec(ctx context.Context, cmd Command, out, errOut io.Writer) Result {
	name, args := r.argv(cmd)
	logging.LogCommand(r.logger, name, args)

	c := exec.CommandContext(ctx, name, args...)
	c.Dir = cmd.Dir
	c.Stdout = out
	c.Stderr = errOut
	if !cmd.Capture {
		c.Stdin = r.Stdin
	}

	if err := c.Start(); err != nil {
		return Result{Status: StatusSpawnFailure, ExitCode: -1, Err: err}
	}
	if err := c.Wait(); err != nil {
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			return Result{Status: StatusNonZeroExit, ExitCode: exitErr.ExitCode(), Err: err}
		}
		return Result{Status: StatusNonZeroExit, ExitCode: -1, Err: err}
	}
	return Result{Status: StatusSuccess}
}

// runScript interprets a shell snippet in-process. Programs the snippet calls
// are still real child processes; a missing one surfaces as exit status 127
// from the snippet, which counts as a non-zero exit rather than a spawn failure.
// Snippets run with pipefail, so "curl ... | sh" fails when the download does.
func (r *ExecRunner) runScript(ctx context.Context, cmd Command, out, errOut io.Writer) Result {
	logging.LogCommand(r.logger, "sh", []string{"-c", cmd.Script})

	prog, err := syntax.NewParser().Parse(strings.NewReader(cmd.Script), "")
	if err != nil {
		return Result{Status: StatusSpawnFailure, ExitCode: -1, Err: err}
	}

	var stdin io.Reader
	if !cmd.Capture {
		stdin = r.Stdin
	}
	opts := []interp.RunnerOption{
		interp.StdIO(stdin, out, errOut),
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.Params("-o", "pipefail"),
	}
	if cmd.Dir != "" {
		opts = append(opts, interp.Dir(cmd.Dir))
	}

	sh, err := interp.New(opts...)
	if err != nil {
		return Result{Status: StatusSpawnFailure, ExitCode: -1, Err: err}
	}

	if err := sh.Run(ctx, prog); err != nil {
		var status interp.ExitStatus
		if stderrors.As(err, &status) {
			return Result{Status: StatusNonZeroExit, ExitCode: int(status), Err: err}
		}
		return Result{Status: StatusNonZeroExit, ExitCode: -1, Err: err}
	}
	return Result{Status: StatusSuccess}
}

var _ Runner = (*ExecRunner)(nil)
