// Package provision runs the whole workstation bootstrap in order:
// distribution detection, system update, native packages, Flatpak apps,
// bootstrap tools and dotfile links.
package provision

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/provision/pkg/config"
	"github.com/arthur-debert/provision/pkg/distro"
	"github.com/arthur-debert/provision/pkg/errors"
	"github.com/arthur-debert/provision/pkg/flatpak"
	"github.com/arthur-debert/provision/pkg/installer"
	"github.com/arthur-debert/provision/pkg/linker"
	"github.com/arthur-debert/provision/pkg/logging"
	"github.com/arthur-debert/provision/pkg/output"
	"github.com/arthur-debert/provision/pkg/paths"
	"github.com/arthur-debert/provision/pkg/pkgmanager"
	"github.com/arthur-debert/provision/pkg/runner"
	"github.com/arthur-debert/provision/pkg/tools"
	"github.com/arthur-debert/provision/pkg/types"
	"github.com/rs/zerolog"
)

// Detector reports the host distribution
type Detector interface {
	Detect() distro.ID
}

// Options holds everything a Provisioner needs. Zero-valued optional fields
// get defaults in New.
type Options struct {
	Config   *config.Config
	Runner   runner.Runner
	FS       types.FS
	Reporter *output.Reporter

	// WorkDir is the dotfiles checkout; HomeDir receives the links.
	WorkDir string
	HomeDir string

	// Optional
	FontDir   string
	ConfigDir string
	Detector  Detector
	Sleep     func(time.Duration)
	TempDir   func() (string, error)
}

// Summary is what a run did, phase by phase. Phases that never ran are nil
// or empty.
type Summary struct {
	Distro         distro.ID
	Manager        pkgmanager.Kind
	UpdateFailures []runner.Result
	Packages       *installer.Summary
	Flatpaks       *installer.Summary
	Tools          []tools.StepResult
	Linked         int
}

// Failures lists every non-fatal failure as "<phase>: <item>"
func (s *Summary) Failures() []string {
	var out []string
	for _, r := range s.UpdateFailures {
		out = append(out, "update: "+r.Command.String())
	}
	if s.Packages != nil {
		for _, f := range s.Packages.Failed {
			out = append(out, "package: "+f.Name)
		}
	}
	if s.Flatpaks != nil {
		for _, f := range s.Flatpaks.Failed {
			out = append(out, "flatpak: "+f.Name)
		}
	}
	for _, r := range s.Tools {
		if r.Err != nil {
			out = append(out, "tool: "+r.Name)
		}
	}
	return out
}

// Provisioner runs the sequence
type Provisioner struct {
	opts   Options
	logger zerolog.Logger
}

// New creates a Provisioner
func New(opts Options) *Provisioner {
	if opts.Detector == nil {
		opts.Detector = distro.NewDetector(opts.FS)
	}
	if opts.FontDir == "" {
		opts.FontDir = filepath.Join(paths.DataHome(), "fonts")
	}
	if opts.ConfigDir == "" {
		opts.ConfigDir = paths.ConfigHome()
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}
	return &Provisioner{opts: opts, logger: logging.GetLogger("provision")}
}

// Run executes every phase. Fatal errors are returned at once together with
// the partial summary. When the run completes with non-fatal failures the
// returned error has code INCOMPLETE.
func (p *Provisioner) Run(ctx context.Context) (*Summary, error) {
	cfg := p.opts.Config
	rep := p.opts.Reporter
	summary := &Summary{}
	defer logging.LogOperationStart(p.logger, "provision")()

	summary.Distro = p.opts.Detector.Detect()
	p.logger.Info().Str("distro", string(summary.Distro)).Msg("Host detected")

	kind, err := pkgmanager.Select(summary.Distro)
	if err != nil {
		return summary, err
	}
	summary.Manager = kind
	rep.Info("Detected %s, using %s", summary.Distro, kind)

	mgr := pkgmanager.New(kind, p.opts.Runner)

	rep.Section("Updating System")
	summary.UpdateFailures, err = mgr.Update(ctx)
	if err != nil {
		return summary, err
	}
	for _, r := range summary.UpdateFailures {
		rep.Warn("%s exited with status %d", r.Command.String(), r.ExitCode)
	}

	sleep := installer.WithSleep(p.opts.Sleep)

	rep.Section("Installing Packages")
	summary.Packages, err = installer.New(mgr, rep, cfg.Install.Pacing, sleep).Install(ctx, cfg.Packages)
	if err != nil {
		return summary, err
	}

	rep.Section("Installing Flatpaks")
	fp := flatpak.New(cfg.Flatpak.Remote, cfg.Flatpak.RemoteURL, p.opts.Runner)
	if err := fp.EnsureRemote(ctx); err != nil {
		return summary, errors.Wrapf(err, errors.GetErrorCode(err), "cannot add flatpak remote %s", cfg.Flatpak.Remote)
	}
	summary.Flatpaks, err = installer.New(fp, rep, cfg.Install.Pacing, sleep).Install(ctx, cfg.Flatpak.Apps)
	if err != nil {
		return summary, err
	}

	pipeline := tools.New(cfg.Tools, tools.Deps{
		Runner:    p.opts.Runner,
		FS:        p.opts.FS,
		Reporter:  rep,
		WorkDir:   p.opts.WorkDir,
		FontDir:   p.opts.FontDir,
		ConfigDir: p.opts.ConfigDir,
		TempDir:   p.opts.TempDir,
	})
	summary.Tools, err = pipeline.Run(ctx)
	if err != nil {
		return summary, err
	}

	rep.Section("Linking Dotfiles")
	if err := ctx.Err(); err != nil {
		return summary, err
	}
	summary.Linked, err = linker.New(p.opts.FS, rep).LinkAll(linker.Plan(p.opts.WorkDir, p.opts.HomeDir, cfg.Dotfiles))
	if err != nil {
		return summary, err
	}

	failures := summary.Failures()
	if len(failures) > 0 {
		rep.Warn("Finished with %d failure(s): %s", len(failures), strings.Join(failures, ", "))
		return summary, errors.Newf(errors.ErrIncomplete, "%d step(s) failed", len(failures)).
			WithDetail("failed", failures)
	}

	rep.Success("All done")
	return summary, nil
}
