package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/provision/internal/version"
	"github.com/arthur-debert/provision/pkg/distro"
	"github.com/arthur-debert/provision/pkg/errors"
	"github.com/arthur-debert/provision/pkg/provision"
	"github.com/arthur-debert/provision/pkg/testutil"
	"github.com/arthur-debert/provision/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	if args == nil {
		// cobra falls back to os.Args for a nil slice
		args = []string{}
	}

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "provision version "+version.Version)
	assert.Contains(t, out, "commit: "+version.Commit)
}

func TestRootRejectsArguments(t *testing.T) {
	_, err := execute(t, "vimrc")
	assert.Error(t, err)
}

func TestVerboseFlagIsPersistent(t *testing.T) {
	cmd := NewRootCmd()
	flag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, flag)
	assert.Equal(t, "v", flag.Shorthand)

	require.NoError(t, cmd.ParseFlags([]string{"-vv"}))
	assert.Equal(t, "2", flag.Value.String())
}

func TestCompletion(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "provision")

	_, err = execute(t, "completion", "tcsh")
	assert.Error(t, err)
}

func TestManCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "man")
	_, err := execute(t, "man", "--dir", dir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "provision.1"))
	assert.NoError(t, err)
}

type fixedDetector distro.ID

func (d fixedDetector) Detect() distro.ID { return distro.ID(d) }

// withDistro runs the root command against a sandboxed home and checkout
// with the host detection replaced by id.
func withDistro(t *testing.T, id string) {
	t.Helper()
	env := testutil.NewTestEnvironment(t)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(env.DotfilesRoot))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	saved := newDetector
	newDetector = func(types.FS) provision.Detector { return fixedDetector(id) }
	t.Cleanup(func() { newDetector = saved })
}

func TestUnsupportedDistroFails(t *testing.T) {
	withDistro(t, "popos-unknown-variant")

	out, err := execute(t)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnsupportedDistro))
	assert.Contains(t, err.Error(), "Unsupported distribution: popos-unknown-variant")
	assert.NotContains(t, out, "Updating System", "nothing runs after detection fails")
}

func TestRunExitCodeAndDiagnostic(t *testing.T) {
	withDistro(t, "popos-unknown-variant")
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Equal(t, "Error: [UNSUPPORTED_DISTRO] Unsupported distribution: popos-unknown-variant\n", stderr.String())
}

func TestRunSuccessExitCode(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 0, run(context.Background(), []string{"version"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "provision version")
	assert.Empty(t, stderr.String())
}

func TestFormatError(t *testing.T) {
	err := errors.New(errors.ErrIncomplete, "2 step(s) failed")

	assert.Equal(t, "Error: [INCOMPLETE] 2 step(s) failed", formatError(err, false))
	assert.Contains(t, formatError(err, true), "Error: [INCOMPLETE] 2 step(s) failed")
}

func TestColorErrorsHonoursNoColorFlag(t *testing.T) {
	cmd := NewRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--no-color"}))
	assert.False(t, colorErrors(cmd, os.Stderr))

	assert.False(t, colorErrors(NewRootCmd(), &bytes.Buffer{}), "buffers are not terminals")
}
