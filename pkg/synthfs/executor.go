// Package synthfs applies provision's file mutations (dotfile symlinks,
// copied fonts and configs) through synthfs operations on the root
// filesystem.
//
// synthfs refuses to create over an existing path, so callers clear the
// target first.
package synthfs

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/arthur-debert/provision/pkg/errors"
	"github.com/arthur-debert/provision/pkg/logging"
	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/core"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	"github.com/arthur-debert/synthfs/pkg/synthfs/operations"
	"github.com/rs/zerolog"
)

// Executor runs synthfs operations rooted at "/"
type Executor struct {
	logger     zerolog.Logger
	filesystem synthfs.FileSystem
}

// NewExecutor creates an executor over the OS root filesystem
func NewExecutor() *Executor {
	return &Executor{
		logger:     logging.GetLogger("synthfs"),
		filesystem: filesystem.NewOSFileSystem("/"),
	}
}

// CreateSymlink creates target pointing at source. Both must be absolute;
// the link stores source as given.
func (e *Executor) CreateSymlink(source, target string) error {
	relTarget, err := rel(target)
	if err != nil {
		return err
	}
	if !filepath.IsAbs(source) {
		return errors.Newf(errors.ErrInvalidInput, "symlink source must be absolute: %s", source)
	}

	e.logger.Debug().
		Str("source", source).
		Str("target", target).
		Msg("Creating symlink operation")

	op := operations.NewCreateSymlinkOperation(core.OperationID(fmt.Sprintf("symlink-%s", target)), relTarget)
	op.SetDescriptionDetail("target", source)
	op.SetItem(&symlinkItem{path: relTarget, target: source})

	if err := e.run(synthfs.NewOperationsPackageAdapter(op)); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot link %s", target).
			WithDetail("source", source).
			WithDetail("target", target)
	}
	return nil
}

// WriteFile creates path with content. The parent directory must exist.
func (e *Executor) WriteFile(path string, content []byte, mode fs.FileMode) error {
	relPath, err := rel(path)
	if err != nil {
		return err
	}

	e.logger.Debug().
		Str("target", path).
		Str("mode", mode.String()).
		Int("contentLen", len(content)).
		Msg("Creating write file operation")

	op := operations.NewCreateFileOperation(core.OperationID(fmt.Sprintf("write-file-%s", path)), relPath)
	op.SetItem(&fileItem{path: relPath, content: content, mode: mode})

	if err := e.run(synthfs.NewOperationsPackageAdapter(op)); err != nil {
		return errors.Wrapf(err, errors.ErrFileCreate, "cannot write %s", path).
			WithDetail("target", path)
	}
	return nil
}

func (e *Executor) run(ops ...synthfs.Operation) error {
	pipeline := synthfs.NewMemPipeline()
	for _, op := range ops {
		if err := pipeline.Add(op); err != nil {
			return err
		}
	}

	result := synthfs.NewExecutor().Run(context.Background(), pipeline, e.filesystem)
	if err := result.GetError(); err != nil {
		e.logger.Error().Err(err).Msg("Pipeline execution failed")
		return err
	}
	return nil
}

// rel converts an absolute path to the root-relative form synthfs expects
func rel(path string) (string, error) {
	if !filepath.IsAbs(path) {
		return "", errors.Newf(errors.ErrInvalidInput, "path must be absolute: %s", path)
	}
	relPath, err := filepath.Rel("/", path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "failed to convert path: %s", path)
	}
	return relPath, nil
}

// Item types for synthfs operations

type fileItem struct {
	path    string
	content []byte
	mode    fs.FileMode
}

func (f *fileItem) Path() string       { return f.path }
func (f *fileItem) Type() string       { return "file" }
func (f *fileItem) Content() []byte    { return f.content }
func (f *fileItem) Mode() fs.FileMode  { return f.mode }
func (f *fileItem) IsDir() bool        { return false }
func (f *fileItem) ModTime() time.Time { return time.Now() }
func (f *fileItem) Size() int64        { return int64(len(f.content)) }

type symlinkItem struct {
	path   string
	target string
}

func (s *symlinkItem) Path() string   { return s.path }
func (s *symlinkItem) Type() string   { return "symlink" }
func (s *symlinkItem) Target() string { return s.target }
