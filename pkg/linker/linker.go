// Package linker points hidden entries in the home directory at files in the
// dotfiles checkout.
//
// Linking is forced: whatever file or symlink sits at the target is replaced.
// A real directory at the target is never removed. The first failure aborts
// the remaining links. Unlike ln -sf, which would drop the link inside an
// existing directory, a directory at the target stops the run.
//
// The links themselves are created by synthfs operations.
package linker

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/provision/pkg/errors"
	"github.com/arthur-debert/provision/pkg/logging"
	"github.com/arthur-debert/provision/pkg/output"
	"github.com/arthur-debert/provision/pkg/synthfs"
	"github.com/arthur-debert/provision/pkg/types"
	"github.com/rs/zerolog"
)

// Link maps a checkout entry to its home-directory location
type Link struct {
	Source string
	Target string
}

// Plan derives links for names: <cwd>/<name> ~> <home>/.<name>
func Plan(cwd, home string, names []string) []Link {
	links := make([]Link, 0, len(names))
	for _, name := range names {
		links = append(links, Link{
			Source: filepath.Join(cwd, name),
			Target: filepath.Join(home, "."+name),
		})
	}
	return links
}

// Linker creates the symlinks
type Linker struct {
	fs       types.FS
	ops      *synthfs.Executor
	reporter *output.Reporter
	logger   zerolog.Logger
}

// New creates a Linker
func New(fs types.FS, reporter *output.Reporter) *Linker {
	return &Linker{
		fs:       fs,
		ops:      synthfs.NewExecutor(),
		reporter: reporter,
		logger:   logging.GetLogger("linker"),
	}
}

// LinkAll links in order and returns the number created before the first
// error, if any.
func (l *Linker) LinkAll(links []Link) (int, error) {
	for i, link := range links {
		if err := l.Link(link); err != nil {
			l.logger.Error().Err(err).
				Str("source", link.Source).
				Str("target", link.Target).
				Int("remaining", len(links)-i-1).
				Msg("Linking aborted")
			return i, err
		}
	}
	return len(links), nil
}

// Link creates one symlink, replacing an existing file or symlink at the target
func (l *Linker) Link(link Link) error {
	if _, err := l.fs.Stat(link.Source); err != nil {
		return errors.Wrapf(err, errors.ErrSourceMissing, "link source %s does not exist", link.Source).
			WithDetail("source", link.Source)
	}

	if info, err := l.fs.Lstat(link.Target); err == nil {
		if info.IsDir() {
			return errors.Newf(errors.ErrSymlinkExists, "%s is a directory, refusing to replace it", link.Target).
				WithDetail("target", link.Target)
		}
		if err := l.fs.Remove(link.Target); err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot remove %s", link.Target).
				WithDetail("target", link.Target)
		}
		l.logger.Debug().Str("target", link.Target).Msg("Removed existing entry")
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot inspect %s", link.Target).
			WithDetail("target", link.Target)
	}

	if err := l.ops.CreateSymlink(link.Source, link.Target); err != nil {
		return err
	}

	l.logger.Info().Str("source", link.Source).Str("target", link.Target).Msg("Linked")
	l.reporter.Info("%s ~> %s", link.Source, link.Target)
	return nil
}
