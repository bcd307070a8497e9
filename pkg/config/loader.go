package config

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/provision/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for environment overrides
const EnvPrefix = "PROVISION_"

// declaredKeys are the static inputs; the environment cannot change them.
var declaredKeys = map[string]bool{
	"packages":     true,
	"dotfiles":     true,
	"flatpak.apps": true,
}

// Load builds the configuration from the embedded defaults and the
// PROVISION_* environment.
func Load() (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. Environment overrides
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 3. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps PROVISION_FLATPAK__REMOTE_URL to flatpak.remote_url.
// Returning "" makes koanf skip the variable.
func envKey(s string) string {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	if declaredKeys[key] {
		return ""
	}
	return key
}

// Validate checks the declared lists and tunables
func (c *Config) Validate() error {
	if c.Install.Pacing < 0 {
		return errors.Newf(errors.ErrConfigValid, "install.pacing must not be negative, got %s", c.Install.Pacing)
	}
	if err := checkNames("packages", c.Packages); err != nil {
		return err
	}
	if err := checkNames("flatpak.apps", c.Flatpak.Apps); err != nil {
		return err
	}
	if err := checkNames("dotfiles", c.Dotfiles); err != nil {
		return err
	}
	for _, name := range c.Dotfiles {
		if strings.Contains(name, "/") {
			return errors.Newf(errors.ErrConfigValid, "dotfile %q must be a plain name", name)
		}
	}
	if len(c.Flatpak.Apps) > 0 && (c.Flatpak.Remote == "" || c.Flatpak.RemoteURL == "") {
		return errors.New(errors.ErrConfigValid, "flatpak.remote and flatpak.remote_url are required when apps are declared")
	}
	return nil
}

func checkNames(list string, names []string) error {
	seen := make(map[string]bool, len(names))
	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			return errors.Newf(errors.ErrConfigValid, "%s[%d] is empty", list, i)
		}
		if seen[name] {
			return errors.Newf(errors.ErrConfigValid, "%s lists %q twice", list, name).
				WithDetail("list", list)
		}
		seen[name] = true
	}
	return nil
}

// String renders a short summary, used in debug logs
func (c *Config) String() string {
	return fmt.Sprintf("packages=%d flatpaks=%d dotfiles=%d pacing=%s",
		len(c.Packages), len(c.Flatpak.Apps), len(c.Dotfiles), c.Install.Pacing)
}
