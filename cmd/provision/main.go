package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/provision/pkg/output"
	"github.com/arthur-debert/provision/pkg/output/styles"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command tree and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, formatError(err, colorErrors(rootCmd, stderr)))
		return 1
	}
	return 0
}

// colorErrors honours --no-color as well as NO_COLOR and the terminal check
func colorErrors(cmd *cobra.Command, w io.Writer) bool {
	if noColor, err := cmd.Flags().GetBool("no-color"); err == nil && noColor {
		return false
	}
	return output.ShouldColor(w)
}

func formatError(err error, color bool) string {
	msg := fmt.Sprintf("Error: %v", err)
	if !color {
		return msg
	}
	return styles.GetStyle("Error").Render(msg)
}
