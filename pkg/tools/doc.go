// Package tools runs the fixed, ordered sequence of bootstrap installers:
// the editor release, its Python plugin, a Nerd Font, oh-my-zsh, rustup,
// starship and the starship prompt config.
//
// Each step is a list of commands or file operations. Inside a step the
// first failure stops the step, so a failed download never removes the
// previous editor install. Across steps nothing is conditional: a failed step
// is reported and recorded, and the next step runs. A command that cannot be
// started at all ends the whole run.
package tools
