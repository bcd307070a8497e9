// Package output renders provision's user-facing progress lines.
//
// Everything a user reads goes through a Reporter: section banners for each
// phase, one line per install decision, and the final summary. Logs go to
// zerolog separately. Colour is used only when the writer is a terminal and
// NO_COLOR is unset.
package output
