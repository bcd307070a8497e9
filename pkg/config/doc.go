// Package config handles configuration management for provision.
//
// The declared inputs (native packages, Flatpak apps, dotfile names) and the
// bootstrap tool locations live in an embedded TOML document and are fixed at
// build time. Tunables such as the pacing delay or the privilege command can be
// overridden with PROVISION_* environment variables; nested keys use a double
// underscore, e.g. PROVISION_FLATPAK__REMOTE_URL.
package config
