package tools

import (
	"context"
	"os"
	"path/filepath"

	"github.com/arthur-debert/provision/pkg/config"
	"github.com/arthur-debert/provision/pkg/errors"
	"github.com/arthur-debert/provision/pkg/logging"
	"github.com/arthur-debert/provision/pkg/output"
	"github.com/arthur-debert/provision/pkg/runner"
	"github.com/arthur-debert/provision/pkg/synthfs"
	"github.com/arthur-debert/provision/pkg/types"
	"github.com/pelletier/go-toml/v2"
)

// Deps are the collaborators the steps need
type Deps struct {
	Runner   runner.Runner
	FS       types.FS
	Reporter *output.Reporter
	// Files performs the copies; defaults to an executor over the OS root.
	Files *synthfs.Executor

	// WorkDir is the dotfiles checkout the run was started from.
	WorkDir string
	// FontDir and ConfigDir are resolved absolute paths, never "~/...".
	FontDir   string
	ConfigDir string

	// TempDir creates a scratch directory; defaults to os.MkdirTemp.
	TempDir func() (string, error)
}

// New builds the standard pipeline from the tool configuration
func New(cfg config.Tools, deps Deps) *Pipeline {
	if deps.TempDir == nil {
		deps.TempDir = func() (string, error) { return os.MkdirTemp("", "provision-*") }
	}
	if deps.Files == nil {
		deps.Files = synthfs.NewExecutor()
	}
	b := &builder{cfg: cfg, deps: deps}

	return NewPipeline(deps.Reporter,
		Step{Name: "neovim", Title: "Setting up NVIM", Run: b.neovim},
		Step{Name: "pynvim", Title: "pynvim", Run: b.pynvim},
		Step{Name: "nerd-font", Title: "Install Nerd Font", Run: b.font},
		Step{Name: "oh-my-zsh", Title: "Installing OhMyZSH", Run: b.script(cfg.Scripts.OhMyZsh)},
		Step{Name: "rustup", Title: "Install Rust Up", Run: b.script(cfg.Scripts.Rustup)},
		Step{Name: "starship", Title: "Setup Starship", Run: b.script(cfg.Scripts.Starship)},
		Step{Name: "starship-config", Title: "Config File", Run: b.starshipConfig},
	)
}

type builder struct {
	cfg  config.Tools
	deps Deps
}

// sequence runs commands until the first one that does not succeed
func (b *builder) sequence(ctx context.Context, cmds ...runner.Command) error {
	for _, cmd := range cmds {
		if err := b.deps.Runner.Run(ctx, cmd).Error(); err != nil {
			return err
		}
	}
	return nil
}

// scratch creates a temp dir and returns a best-effort cleanup
func (b *builder) scratch() (string, func(), error) {
	dir, err := b.deps.TempDir()
	if err != nil {
		return "", nil, errors.Wrap(err, errors.ErrFileCreate, "cannot create download directory")
	}
	cleanup := func() {
		if err := b.deps.FS.RemoveAll(dir); err != nil {
			logging.GetLogger("tools").Warn().Err(err).Str("dir", dir).Msg("Failed to remove download directory")
		}
	}
	return dir, cleanup, nil
}

func in(dir string, cmd runner.Command) runner.Command {
	cmd.Dir = dir
	return cmd
}

// neovim replaces the editor install: download, remove the old tree, extract.
func (b *builder) neovim(ctx context.Context) error {
	nv := b.cfg.Neovim
	dir, cleanup, err := b.scratch()
	if err != nil {
		return err
	}
	defer cleanup()

	return b.sequence(ctx,
		in(dir, runner.Cmd("curl", "-fLO", nv.URL)),
		runner.Sudo("rm", "-rf", filepath.Join(nv.InstallDir, nv.ExtractDir)),
		runner.Sudo("tar", "-C", nv.InstallDir, "-xzf", filepath.Join(dir, nv.Archive)),
	)
}

func (b *builder) pynvim(ctx context.Context) error {
	return b.sequence(ctx, runner.Cmd(b.cfg.Pynvim.Python, "-m", "pip", "install", b.cfg.Pynvim.Package))
}

// font downloads and unpacks the font archive, copies the font file into the
// user font dir and refreshes the font cache.
func (b *builder) font(ctx context.Context) error {
	f := b.cfg.Font
	dir, cleanup, err := b.scratch()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := b.sequence(ctx,
		in(dir, runner.Cmd("curl", "-fLO", f.URL)),
		in(dir, runner.Cmd("unzip", "-o", f.Archive, "-d", f.ExtractDir)),
	); err != nil {
		return err
	}

	src := filepath.Join(dir, f.ExtractDir, f.File)
	dst := filepath.Join(b.deps.FontDir, f.File)
	if err := b.copyFile(src, dst); err != nil {
		return err
	}
	b.deps.Reporter.Info("%s ~> %s", src, dst)

	return b.sequence(ctx, runner.Cmd("fc-cache", "-f", "-v"))
}

func (b *builder) script(script string) func(context.Context) error {
	return func(ctx context.Context) error {
		return b.sequence(ctx, runner.Shell(script))
	}
}

// starshipConfig validates the prompt config in the checkout and copies it
// into the XDG config dir.
func (b *builder) starshipConfig(_ context.Context) error {
	sc := b.cfg.StarshipConfig
	src := filepath.Join(b.deps.WorkDir, sc.Source)
	dst := filepath.Join(b.deps.ConfigDir, sc.Target)

	data, err := b.deps.FS.ReadFile(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrSourceMissing, "cannot read %s", src)
	}
	var doc map[string]interface{}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "%s is not valid TOML", src)
	}

	if err := b.writeFile(dst, data); err != nil {
		return err
	}
	b.deps.Reporter.Info("%s ~> %s", src, dst)
	return nil
}

func (b *builder) copyFile(src, dst string) error {
	data, err := b.deps.FS.ReadFile(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrSourceMissing, "cannot read %s", src)
	}
	return b.writeFile(dst, data)
}

// writeFile replaces dst with data, creating its parent directory
func (b *builder) writeFile(dst string, data []byte) error {
	if err := b.deps.FS.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrFileCreate, "cannot create %s", filepath.Dir(dst))
	}
	if info, err := b.deps.FS.Lstat(dst); err == nil {
		if info.IsDir() {
			return errors.Newf(errors.ErrFileCreate, "%s is a directory", dst)
		}
		if err := b.deps.FS.Remove(dst); err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot remove %s", dst)
		}
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot inspect %s", dst)
	}
	return b.deps.Files.WriteFile(dst, data, 0644)
}
