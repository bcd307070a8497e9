package types

import "io/fs"

// FS is the filesystem surface used by the detector, the linker and the
// file-copying tool steps. Production code uses filesystem.NewOS; tests use
// an afero-backed implementation or a temp dir.
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error

	// Symlink operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)
	Lstat(name string) (fs.FileInfo, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error
}
