package config

import "time"

// Install holds tunables for the check-then-install loop
type Install struct {
	// Pacing is the pause between deciding to install an item and running the
	// install command. It is pacing only, not a lock.
	Pacing time.Duration `koanf:"pacing"`
}

// Flatpak holds the sandboxed-app remote and the declared app ids
type Flatpak struct {
	Remote    string   `koanf:"remote"`
	RemoteURL string   `koanf:"remote_url"`
	Apps      []string `koanf:"apps"`
}

// Neovim describes the editor release archive and where it is unpacked
type Neovim struct {
	URL        string `koanf:"url"`
	Archive    string `koanf:"archive"`
	InstallDir string `koanf:"install_dir"`
	ExtractDir string `koanf:"extract_dir"`
}

// Pynvim describes the interpreter plugin install
type Pynvim struct {
	Python  string `koanf:"python"`
	Package string `koanf:"package"`
}

// Font describes the font archive and the file copied out of it
type Font struct {
	URL        string `koanf:"url"`
	Archive    string `koanf:"archive"`
	ExtractDir string `koanf:"extract_dir"`
	File       string `koanf:"file"`
}

// Scripts holds the third-party shell-pipe installers
type Scripts struct {
	OhMyZsh  string `koanf:"ohmyzsh"`
	Rustup   string `koanf:"rustup"`
	Starship string `koanf:"starship"`
}

// StarshipConfig maps the prompt config in the dotfiles tree to its
// location under the XDG config dir
type StarshipConfig struct {
	Source string `koanf:"source"`
	Target string `koanf:"target"`
}

// Tools groups the bootstrap tool settings
type Tools struct {
	Neovim         Neovim         `koanf:"neovim"`
	Pynvim         Pynvim         `koanf:"pynvim"`
	Font           Font           `koanf:"font"`
	Scripts        Scripts        `koanf:"scripts"`
	StarshipConfig StarshipConfig `koanf:"starship_config"`
}

// Config is the main configuration structure
type Config struct {
	Privilege string   `koanf:"privilege"`
	Packages  []string `koanf:"packages"`
	Dotfiles  []string `koanf:"dotfiles"`
	Install   Install  `koanf:"install"`
	Flatpak   Flatpak  `koanf:"flatpak"`
	Tools     Tools    `koanf:"tools"`
}
