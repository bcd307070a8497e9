// Package installer implements the check-then-install loop shared by the
// native package manager and Flatpak.
//
// For every declared name, in order, the installed listing is queried again
// and the name is looked up by substring containment. The check is loose on
// purpose: a declared name that is a substring of another installed item's
// name (e.g. "git" inside "git-lfs") reads as installed and is skipped.
package installer

import (
	"context"
	"strings"
	"time"

	"github.com/arthur-debert/provision/pkg/errors"
	"github.com/arthur-debert/provision/pkg/logging"
	"github.com/arthur-debert/provision/pkg/output"
	"github.com/arthur-debert/provision/pkg/runner"
	"github.com/rs/zerolog"
)

// Source is anything with an installed listing and an install command
type Source interface {
	Name() string
	ListInstalled(ctx context.Context) runner.Result
	Install(ctx context.Context, name string) runner.Result
}

// Summary records what happened to each declared name
type Summary struct {
	Installed []string
	Skipped   []string
	Failed    []Failure
}

// Failure is an install command that ran and exited non-zero
type Failure struct {
	Name string
	Err  error
}

// Installer runs the loop against one Source
type Installer struct {
	source   Source
	reporter *output.Reporter
	pacing   time.Duration
	sleep    func(time.Duration)
	logger   zerolog.Logger
}

// Option customises an Installer
type Option func(*Installer)

// WithSleep replaces time.Sleep for the pacing delay
func WithSleep(sleep func(time.Duration)) Option {
	return func(i *Installer) { i.sleep = sleep }
}

// New creates an Installer. pacing is the pause between the decision to
// install and the install command.
func New(source Source, reporter *output.Reporter, pacing time.Duration, opts ...Option) *Installer {
	i := &Installer{
		source:   source,
		reporter: reporter,
		pacing:   pacing,
		sleep:    time.Sleep,
		logger:   logging.GetLogger("installer." + source.Name()),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Install processes names in declared order, one at a time.
//
// A listing that cannot be started or exits non-zero aborts the loop: an
// empty listing would make every package look missing. An install command
// that cannot be started also aborts. An install that exits non-zero is
// reported, recorded in the summary, and the loop moves on.
func (i *Installer) Install(ctx context.Context, names []string) (*Summary, error) {
	summary := &Summary{}

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		listing := i.source.ListInstalled(ctx)
		if !listing.OK() {
			return summary, errors.Wrapf(listing.Error(), errors.GetErrorCode(listing.Error()),
				"cannot list installed %s items", i.source.Name())
		}

		if strings.Contains(listing.Stdout, name) {
			i.reporter.Skip("%s already installed", name)
			summary.Skipped = append(summary.Skipped, name)
			continue
		}

		i.reporter.Info("Installing %s...", i.reporter.Item(name))
		i.sleep(i.pacing)

		res := i.source.Install(ctx, name)
		switch {
		case res.OK():
			i.reporter.Success("%s has been installed", name)
			summary.Installed = append(summary.Installed, name)
		case res.SpawnFailed():
			return summary, res.Error()
		default:
			i.logger.Warn().Str("item", name).Int("exitCode", res.ExitCode).Msg("Install failed")
			i.reporter.Warn("Failed to install %s (exit status %d)", name, res.ExitCode)
			summary.Failed = append(summary.Failed, Failure{Name: name, Err: res.Error()})
		}
	}

	i.logger.Info().
		Int("installed", len(summary.Installed)).
		Int("skipped", len(summary.Skipped)).
		Int("failed", len(summary.Failed)).
		Msg("Install loop finished")

	return summary, nil
}
