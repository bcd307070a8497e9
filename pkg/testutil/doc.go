// Package testutil provides utilities for testing provision components.
//
// Key components:
//   - FakeRunner: records every runner.Command and replays scripted results,
//     so installer tests never spawn a package manager
//   - TestEnvironment: a temp-dir dotfiles tree, home directory and XDG dirs
//     for tests that touch the real filesystem
//
// All test data should be defined inline, not in external files.
package testutil
