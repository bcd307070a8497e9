// Package flatpak drives the Flatpak CLI: it registers the app remote and
// exposes the installed-app listing and install command to the installer.
package flatpak

import (
	"context"

	"github.com/arthur-debert/provision/pkg/runner"
)

// Flatpak talks to one remote through a runner
type Flatpak struct {
	remote    string
	remoteURL string
	run       runner.Runner
}

// New creates a Flatpak client for the named remote
func New(remote, remoteURL string, r runner.Runner) *Flatpak {
	return &Flatpak{remote: remote, remoteURL: remoteURL, run: r}
}

// Name identifies the source in logs
func (f *Flatpak) Name() string { return "flatpak" }

// EnsureRemote adds the remote unless it already exists. The existence check
// is flatpak's own --if-not-exists.
func (f *Flatpak) EnsureRemote(ctx context.Context) error {
	return f.run.Run(ctx, runner.Cmd("flatpak", "remote-add", "--if-not-exists", f.remote, f.remoteURL)).Error()
}

// ListInstalled lists installed apps and runtimes
func (f *Flatpak) ListInstalled(ctx context.Context) runner.Result {
	cmd := runner.Cmd("flatpak", "list")
	cmd.Capture = true
	return f.run.Run(ctx, cmd)
}

// Install installs one app id from the configured remote set
func (f *Flatpak) Install(ctx context.Context, appID string) runner.Result {
	return f.run.Run(ctx, runner.Cmd("flatpak", "install", appID, "-y"))
}
