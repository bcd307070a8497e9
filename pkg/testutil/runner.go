package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/arthur-debert/provision/pkg/runner"
)

// Responder decides the result for a command; returning ok=false falls
// through to the next responder and finally to success.
type Responder func(cmd runner.Command) (runner.Result, bool)

// FakeRunner implements runner.Runner without launching anything
type FakeRunner struct {
	mu         sync.Mutex
	calls      []runner.Command
	responders []Responder
}

// NewFakeRunner creates a FakeRunner where every command succeeds
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{}
}

// On registers a responder; later registrations take precedence
func (f *FakeRunner) On(r Responder) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responders = append([]Responder{r}, f.responders...)
	return f
}

// OnPrefix answers commands whose logical command line starts with prefix
func (f *FakeRunner) OnPrefix(prefix string, res runner.Result) *FakeRunner {
	return f.On(func(cmd runner.Command) (runner.Result, bool) {
		if strings.HasPrefix(cmd.String(), prefix) {
			return res, true
		}
		return runner.Result{}, false
	})
}

// Output answers commands starting with prefix with successful stdout
func (f *FakeRunner) Output(prefix, stdout string) *FakeRunner {
	return f.OnPrefix(prefix, runner.Result{Status: runner.StatusSuccess, Stdout: stdout})
}

// Fail answers commands starting with prefix with a non-zero exit
func (f *FakeRunner) Fail(prefix string, code int) *FakeRunner {
	return f.OnPrefix(prefix, runner.Result{Status: runner.StatusNonZeroExit, ExitCode: code})
}

// SpawnFail answers commands starting with prefix as if the binary was missing
func (f *FakeRunner) SpawnFail(prefix string) *FakeRunner {
	return f.OnPrefix(prefix, runner.Result{Status: runner.StatusSpawnFailure, ExitCode: -1, Err: errNotFound})
}

// Run implements runner.Runner
func (f *FakeRunner) Run(_ context.Context, cmd runner.Command) runner.Result {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	responders := f.responders
	f.mu.Unlock()

	for _, r := range responders {
		if res, ok := r(cmd); ok {
			res.Command = cmd
			return res
		}
	}
	return runner.Result{Command: cmd, Status: runner.StatusSuccess}
}

// Calls returns every command seen, in order
func (f *FakeRunner) Calls() []runner.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]runner.Command, len(f.calls))
	copy(out, f.calls)
	return out
}

// Lines returns the logical command lines seen, in order
func (f *FakeRunner) Lines() []string {
	var lines []string
	for _, c := range f.Calls() {
		lines = append(lines, c.String())
	}
	return lines
}

// Matching returns the command lines starting with prefix
func (f *FakeRunner) Matching(prefix string) []string {
	var lines []string
	for _, line := range f.Lines() {
		if strings.HasPrefix(line, prefix) {
			lines = append(lines, line)
		}
	}
	return lines
}

// Reset forgets recorded calls but keeps responders
func (f *FakeRunner) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

var _ runner.Runner = (*FakeRunner)(nil)
