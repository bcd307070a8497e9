package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TestEnvironment is a real-filesystem sandbox in a temp directory
type TestEnvironment struct {
	Root         string
	DotfilesRoot string
	HomeDir      string
	XDGData      string
	XDGConfig    string
	XDGState     string

	t *testing.T
}

// NewTestEnvironment creates the sandbox and points HOME and the XDG
// variables at it for the duration of the test.
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	root := t.TempDir()
	env := &TestEnvironment{
		Root:         root,
		DotfilesRoot: filepath.Join(root, "dotfiles"),
		HomeDir:      filepath.Join(root, "home"),
		XDGData:      filepath.Join(root, "home", ".local", "share"),
		XDGConfig:    filepath.Join(root, "home", ".config"),
		XDGState:     filepath.Join(root, "home", ".local", "state"),
		t:            t,
	}

	for _, dir := range []string{env.DotfilesRoot, env.HomeDir, env.XDGData, env.XDGConfig, env.XDGState} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}

	t.Setenv("HOME", env.HomeDir)
	t.Setenv("XDG_DATA_HOME", env.XDGData)
	t.Setenv("XDG_CONFIG_HOME", env.XDGConfig)
	t.Setenv("XDG_STATE_HOME", env.XDGState)

	return env
}

// WithDotfiles creates one file per name in the dotfiles tree
func (env *TestEnvironment) WithDotfiles(names ...string) *TestEnvironment {
	env.t.Helper()
	for _, name := range names {
		env.WriteFile(filepath.Join(env.DotfilesRoot, name), "# "+name+"\n")
	}
	return env
}

// WriteFile writes content to path, creating parent directories
func (env *TestEnvironment) WriteFile(path, content string) {
	env.t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		env.t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		env.t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// HomePath joins elements onto the sandbox home directory
func (env *TestEnvironment) HomePath(elem ...string) string {
	return filepath.Join(append([]string{env.HomeDir}, elem...)...)
}
