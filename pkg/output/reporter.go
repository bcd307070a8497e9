package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/provision/pkg/output/styles"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"
)

// Reporter writes progress lines to out and diagnostics to errOut
type Reporter struct {
	out    io.Writer
	errOut io.Writer
	color  bool
}

// NewReporter creates a Reporter. Colour is enabled only when out is a
// terminal, NO_COLOR is unset and noColor is false.
func NewReporter(out, errOut io.Writer, noColor bool) *Reporter {
	return &Reporter{
		out:    out,
		errOut: errOut,
		color:  !noColor && ShouldColor(out),
	}
}

// NewPlainReporter creates a colourless Reporter writing everything to w
func NewPlainReporter(w io.Writer) *Reporter {
	return &Reporter{out: w, errOut: w}
}

// ShouldColor reports whether w is a colour-capable terminal and NO_COLOR is
// unset. A terminal termenv reports as Ascii (TERM=dumb) gets plain text.
func ShouldColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return false
	}
	return colorCapable(termenv.NewOutput(f).ColorProfile())
}

func colorCapable(profile termenv.Profile) bool {
	return profile != termenv.Ascii
}

// Section prints a phase banner
func (r *Reporter) Section(title string) {
	if r.color {
		fmt.Fprint(r.out, pterm.DefaultSection.Sprint(title))
		return
	}
	bar := strings.Repeat("#", len(title)+4)
	fmt.Fprintf(r.out, "%s\n# %s #\n%s\n", bar, title, bar)
}

// Info prints a plain progress line
func (r *Reporter) Info(format string, args ...interface{}) {
	fmt.Fprintln(r.out, fmt.Sprintf(format, args...))
}

// Success prints a completed action
func (r *Reporter) Success(format string, args ...interface{}) {
	fmt.Fprintln(r.out, r.render("Success", fmt.Sprintf(format, args...)))
}

// Skip prints an action that was not needed
func (r *Reporter) Skip(format string, args ...interface{}) {
	fmt.Fprintln(r.out, r.render("Muted", fmt.Sprintf(format, args...)))
}

// Warn prints a non-fatal failure
func (r *Reporter) Warn(format string, args ...interface{}) {
	fmt.Fprintln(r.errOut, r.render("Warning", fmt.Sprintf(format, args...)))
}

// Error prints a diagnostic to the error stream
func (r *Reporter) Error(format string, args ...interface{}) {
	fmt.Fprintln(r.errOut, r.render("Error", fmt.Sprintf(format, args...)))
}

// Item styles an inline name (package, app id, path) for use in a line
func (r *Reporter) Item(name string) string {
	return r.render("Item", name)
}

func (r *Reporter) render(style, text string) string {
	if !r.color {
		return text
	}
	return styles.GetStyle(style).Render(text)
}
