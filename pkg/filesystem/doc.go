// Package filesystem provides the types.FS implementations used by provision:
// the real OS filesystem and an afero-backed one for tests.
package filesystem
