package pkgmanager

import (
	"context"

	"github.com/arthur-debert/provision/pkg/logging"
	"github.com/arthur-debert/provision/pkg/runner"
	"github.com/rs/zerolog"
)

// surface is the command set of one manager kind
type surface struct {
	binary string
	update [][]string
}

var surfaces = map[Kind]surface{
	AptLike: {
		binary: "apt",
		update: [][]string{{"update"}},
	},
	DnfLike: {
		binary: "dnf",
		update: [][]string{{"update"}, {"upgrade"}},
	},
}

// Manager drives one native package manager through a runner
type Manager struct {
	kind    Kind
	surface surface
	run     runner.Runner
	logger  zerolog.Logger
}

// New creates a Manager for kind. kind must come from Select.
func New(kind Kind, r runner.Runner) *Manager {
	s, ok := surfaces[kind]
	if !ok {
		panic("pkgmanager: no command surface for " + kind.String())
	}
	return &Manager{
		kind:    kind,
		surface: s,
		run:     r,
		logger:  logging.GetLogger("pkgmanager"),
	}
}

// Kind returns the manager kind
func (m *Manager) Kind() Kind { return m.kind }

// Name returns the manager binary name
func (m *Manager) Name() string { return m.surface.binary }

// UpdateCommands returns the refresh commands: update, plus upgrade for dnf
func (m *Manager) UpdateCommands() []runner.Command {
	cmds := make([]runner.Command, 0, len(m.surface.update))
	for _, args := range m.surface.update {
		cmds = append(cmds, runner.Sudo(m.surface.binary, args...))
	}
	return cmds
}

// ListCommand returns the installed-listing query
func (m *Manager) ListCommand() runner.Command {
	cmd := runner.Cmd(m.surface.binary, "list", "--installed")
	cmd.Capture = true
	return cmd
}

// InstallCommand returns the auto-confirmed install command for name
func (m *Manager) InstallCommand(name string) runner.Command {
	return runner.Sudo(m.surface.binary, "install", name, "-y")
}

// Update runs the refresh commands once, in order. A command that cannot be
// started aborts with its SPAWN_FAILED error; non-zero exits are returned to
// the caller, which decides how to report them.
func (m *Manager) Update(ctx context.Context) ([]runner.Result, error) {
	var failed []runner.Result
	for _, cmd := range m.UpdateCommands() {
		m.logger.Info().Str("command", cmd.String()).Msg("Refreshing system packages")
		res := m.run.Run(ctx, cmd)
		if res.SpawnFailed() {
			return failed, res.Error()
		}
		if !res.OK() {
			failed = append(failed, res)
		}
	}
	return failed, nil
}

// ListInstalled queries the installed packages. The listing is never cached.
func (m *Manager) ListInstalled(ctx context.Context) runner.Result {
	return m.run.Run(ctx, m.ListCommand())
}

// Install installs one package
func (m *Manager) Install(ctx context.Context, name string) runner.Result {
	return m.run.Run(ctx, m.InstallCommand(name))
}
