// Package paths resolves the host locations provision reads from and
// writes to. XDG environment variables are read at call time so a changed
// environment (tests, sudo -E) is honoured; adrg/xdg supplies the defaults.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/provision/pkg/errors"
)

// AppDirName is the directory name used under the XDG base dirs
const AppDirName = "provision"

// Paths holds the resolved locations for one run
type Paths struct {
	// WorkDir is the dotfiles checkout, the directory provision runs from.
	WorkDir string
	Home    string

	DataHome   string
	ConfigHome string
	StateHome  string
}

// Resolve reads the working directory, home and XDG base dirs
func Resolve() (*Paths, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFileAccess, "cannot determine working directory")
	}
	home, err := HomeDir()
	if err != nil {
		return nil, err
	}
	return &Paths{
		WorkDir:    workDir,
		Home:       home,
		DataHome:   DataHome(),
		ConfigHome: ConfigHome(),
		StateHome:  StateHome(),
	}, nil
}

// FontDir is where user fonts are installed
func (p *Paths) FontDir() string { return filepath.Join(p.DataHome, "fonts") }

// HomeDir returns the user's home directory.
// It tries os.UserHomeDir first and falls back to $HOME.
func HomeDir() (string, error) {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return home, nil
	}
	if home := os.Getenv("HOME"); home != "" {
		return home, nil
	}
	return "", errors.New(errors.ErrHomeDir, "unable to determine home directory: neither os.UserHomeDir() nor HOME are available")
}

// DataHome returns $XDG_DATA_HOME or the platform default
func DataHome() string { return fromEnv("XDG_DATA_HOME", xdg.DataHome) }

// ConfigHome returns $XDG_CONFIG_HOME or the platform default
func ConfigHome() string { return fromEnv("XDG_CONFIG_HOME", xdg.ConfigHome) }

// StateHome returns $XDG_STATE_HOME or the platform default
func StateHome() string { return fromEnv("XDG_STATE_HOME", xdg.StateHome) }

// LogFile returns <state>/provision/provision.log
func LogFile() string {
	return filepath.Join(StateHome(), AppDirName, AppDirName+".log")
}

func fromEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" && filepath.IsAbs(v) {
		return v
	}
	return fallback
}
