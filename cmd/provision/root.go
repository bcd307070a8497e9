package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/provision/internal/version"
	"github.com/arthur-debert/provision/pkg/config"
	"github.com/arthur-debert/provision/pkg/distro"
	"github.com/arthur-debert/provision/pkg/errors"
	"github.com/arthur-debert/provision/pkg/filesystem"
	"github.com/arthur-debert/provision/pkg/logging"
	"github.com/arthur-debert/provision/pkg/output"
	"github.com/arthur-debert/provision/pkg/paths"
	"github.com/arthur-debert/provision/pkg/provision"
	"github.com/arthur-debert/provision/pkg/runner"
	"github.com/arthur-debert/provision/pkg/types"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// newDetector reads the host release files; tests replace it
var newDetector = func(fs types.FS) provision.Detector {
	return distro.NewDetector(fs)
}

// NewRootCmd builds the command tree. Running the root command with no
// arguments provisions the machine.
func NewRootCmd() *cobra.Command {
	var (
		verbosity int
		noColor   bool
	)

	rootCmd := &cobra.Command{
		Use:   "provision",
		Short: "Bootstrap a Linux workstation",
		Long: `provision sets up a fresh Linux workstation from a dotfiles checkout.

Run it from the checkout. It updates the system, installs the declared
packages and Flatpak apps that are missing, runs the bootstrap installers
(neovim, pynvim, a Nerd Font, oh-my-zsh, rustup, starship) and links the
dotfiles into your home directory.`,
		Args: cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProvision(cmd, noColor)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable coloured output")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	return rootCmd
}

func runProvision(cmd *cobra.Command, noColor bool) error {
	logger := logging.GetLogger("cmd.provision")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Debug().Str("config", cfg.String()).Msg("Configuration loaded")

	loc, err := paths.Resolve()
	if err != nil {
		return err
	}
	logger.Info().Str("workDir", loc.WorkDir).Str("home", loc.Home).Msg("Starting provision")

	fs := filesystem.NewOS()
	p := provision.New(provision.Options{
		Config:    cfg,
		Runner:    runner.NewExecRunner(cfg.Privilege),
		FS:        fs,
		Detector:  newDetector(fs),
		Reporter:  output.NewReporter(cmd.OutOrStdout(), cmd.ErrOrStderr(), noColor),
		WorkDir:   loc.WorkDir,
		HomeDir:   loc.Home,
		FontDir:   loc.FontDir(),
		ConfigDir: loc.ConfigHome,
	})
	_, err = p.Run(cmd.Context())
	return err
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print version information for provision`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "provision version %s\n", version.Version)
			fmt.Fprintf(out, "  commit: %s\n", version.Commit)
			fmt.Fprintf(out, "  built:  %s\n", version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish]",
		Short: "Generate shell completion script",
		Long: `To load completions:

Bash:
  $ source <(provision completion bash)

Zsh:
  $ provision completion zsh > "${fpath[1]}/_provision"

Fish:
  $ provision completion fish | source
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			default:
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			}
		},
	}
}

func newManCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "man",
		Short: "Generate man page",
		Long:  `Generate man pages for provision into a directory`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			header := &doc.GenManHeader{
				Title:   "PROVISION",
				Section: "1",
			}
			if err := os.MkdirAll(dir, 0755); err != nil {
				return errors.Wrapf(err, errors.ErrFileCreate, "cannot create %s", dir)
			}
			return doc.GenManTree(cmd.Root(), header, dir)
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Output directory")
	return cmd
}
