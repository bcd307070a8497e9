package config

import (
	"testing"
	"time"

	"github.com/arthur-debert/provision/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sudo", cfg.Privilege)
	assert.Equal(t, 500*time.Millisecond, cfg.Install.Pacing)

	assert.Equal(t, []string{
		"btop", "curl", "git", "gh", "fd-find", "flatpak",
		"libfontconfig-dev", "libssl-dev", "neofetch", "python3",
		"python3-pip", "ripgrep", "virt-manager", "zsh",
	}, cfg.Packages)

	assert.Equal(t, []string{
		"com.bitwarden.desktop", "com.github.tchx84.Flatseal", "com.valvesoftware.Steam",
		"net.davidotek.pupgui2", "net.veloren.airshipper", "org.videolan.VLC",
	}, cfg.Flatpak.Apps)

	assert.Equal(t, []string{
		"vimrc", "vim", "zshrc", "zsh", "agignore",
		"gitconfig", "gitignore", "gitmessage", "aliases",
	}, cfg.Dotfiles)

	assert.Equal(t, "flathub", cfg.Flatpak.Remote)
	assert.Equal(t, "https://dl.flathub.org/repo/flathub.flatpakrepo", cfg.Flatpak.RemoteURL)

	assert.Equal(t, "/opt", cfg.Tools.Neovim.InstallDir)
	assert.Equal(t, "nvim-linux64", cfg.Tools.Neovim.ExtractDir)
	assert.Equal(t, "HackNerdFont-Regular.ttf", cfg.Tools.Font.File)
	assert.Contains(t, cfg.Tools.Scripts.Rustup, "| sh")
	assert.Contains(t, cfg.Tools.Scripts.OhMyZsh, "$(curl -fsSL")
	assert.Equal(t, "terminal/starship.toml", cfg.Tools.StarshipConfig.Source)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PROVISION_INSTALL__PACING", "0s")
	t.Setenv("PROVISION_PRIVILEGE", "doas")
	t.Setenv("PROVISION_FLATPAK__REMOTE_URL", "https://example.org/repo.flatpakrepo")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, time.Duration(0), cfg.Install.Pacing)
	assert.Equal(t, "doas", cfg.Privilege)
	assert.Equal(t, "https://example.org/repo.flatpakrepo", cfg.Flatpak.RemoteURL)
}

func TestLoadIgnoresDeclaredListOverrides(t *testing.T) {
	t.Setenv("PROVISION_PACKAGES", "vim")
	t.Setenv("PROVISION_DOTFILES", "bashrc")
	t.Setenv("PROVISION_FLATPAK__APPS", "org.example.App")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Len(t, cfg.Packages, 14)
	assert.Len(t, cfg.Dotfiles, 9)
	assert.Len(t, cfg.Flatpak.Apps, 6)
}

func TestLoadRejectsNegativePacing(t *testing.T) {
	t.Setenv("PROVISION_INSTALL__PACING", "-1s")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid",
			cfg: Config{
				Packages: []string{"git"},
				Dotfiles: []string{"vimrc"},
				Flatpak:  Flatpak{Remote: "flathub", RemoteURL: "https://x", Apps: []string{"org.videolan.VLC"}},
			},
		},
		{
			name:    "duplicate package",
			cfg:     Config{Packages: []string{"git", "git"}},
			wantErr: true,
		},
		{
			name:    "empty dotfile",
			cfg:     Config{Dotfiles: []string{" "}},
			wantErr: true,
		},
		{
			name:    "dotfile with path separator",
			cfg:     Config{Dotfiles: []string{"config/nvim"}},
			wantErr: true,
		},
		{
			name:    "apps without remote",
			cfg:     Config{Flatpak: Flatpak{Apps: []string{"org.videolan.VLC"}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "install.pacing", envKey("PROVISION_INSTALL__PACING"))
	assert.Equal(t, "flatpak.remote_url", envKey("PROVISION_FLATPAK__REMOTE_URL"))
	assert.Equal(t, "", envKey("PROVISION_PACKAGES"))
}
