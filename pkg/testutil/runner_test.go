package testutil

import (
	"context"
	"testing"

	"github.com/arthur-debert/provision/pkg/runner"
	"github.com/stretchr/testify/assert"
)

func TestFakeRunner(t *testing.T) {
	ctx := context.Background()
	f := NewFakeRunner().
		Output("dnf list", "git.x86_64\n").
		Fail("dnf install", 1).
		SpawnFail("flatpak")

	assert.True(t, f.Run(ctx, runner.Cmd("true")).OK())
	assert.Equal(t, "git.x86_64\n", f.Run(ctx, runner.Cmd("dnf", "list", "--installed")).Stdout)
	assert.Equal(t, 1, f.Run(ctx, runner.Sudo("dnf", "install", "zsh", "-y")).ExitCode)
	assert.True(t, f.Run(ctx, runner.Cmd("flatpak", "list")).SpawnFailed())

	assert.Equal(t, []string{"true", "dnf list --installed", "dnf install zsh -y", "flatpak list"}, f.Lines())
	assert.Equal(t, []string{"dnf install zsh -y"}, f.Matching("dnf install"))

	f.Reset()
	assert.Empty(t, f.Calls())
}

func TestFakeRunnerLaterRespondersWin(t *testing.T) {
	f := NewFakeRunner().Fail("apt", 100).Output("apt list", "ok")
	res := f.Run(context.Background(), runner.Cmd("apt", "list", "--installed"))
	assert.True(t, res.OK())
	assert.Equal(t, "ok", res.Stdout)
}
