// Package runner is the single place provision launches external programs.
//
// Every invocation goes through Runner.Run and yields a Result whose Status
// separates three outcomes: the program could not be started (SpawnFailure),
// it ran and exited non-zero (NonZeroExit), or it succeeded. Call sites pick
// a policy per outcome; the runner itself never decides what is fatal.
//
// Commands are either a program plus argv, run with os/exec, or a Script,
// parsed and interpreted in-process with mvdan.cc/sh so that pipes and
// command substitution behave as they would in a POSIX shell.
package runner
