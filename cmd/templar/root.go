package templar

import (
	"context"
	"fmt"
	"os"

	"github.com/arthur-debert/templar/internal/version"
	"github.com/arthur-debert/templar/pkg/config"
	"github.com/arthur-debert/templar/pkg/devops"
	"github.com/arthur-debert/templar/pkg/document"
	"github.com/arthur-debert/templar/pkg/logging"
	"github.com/arthur-debert/templar/pkg/report"
	"github.com/arthur-debert/templar/pkg/runner"
	"github.com/arthur-debert/templar/pkg/telemetry"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// app holds the values shared by every command
type app struct {
	verbosity  int
	dryRun     bool
	configFile string
	format     string
	trace      bool

	cfg *config.Config
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "templar",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupLogger(a.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
			return telemetry.Init(cmd.Context(), telemetry.Options{
				ServiceName: "templar",
				Version:     version.Version,
				Enabled:     a.trace,
			})
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			telemetry.Shutdown(context.Background())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf(MsgErrNoSubcommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().BoolVar(&a.dryRun, "dry-run", false, MsgFlagDryRun)
	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVar(&a.format, "format", "auto", MsgFlagFormat)
	rootCmd.PersistentFlags().BoolVar(&a.trace, "trace", false, MsgFlagTrace)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "tree", Title: "TREE OPERATIONS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.AddCommand(newNewCmd(a))
	rootCmd.AddCommand(newRepoCmd(a))
	rootCmd.AddCommand(newPruneCmd(a))
	rootCmd.AddCommand(newRenameCmd(a))
	rootCmd.AddCommand(newRewriteCmd(a))
	rootCmd.AddCommand(newGenConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// config loads the configuration once, on first use
func (a *app) config() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	cfg, err := config.Load(config.LoadOptions{ConfigFile: a.configFile})
	if err != nil {
		return nil, err
	}
	a.cfg = cfg
	return cfg, nil
}

// renderer builds the output renderer selected by --format
func (a *app) renderer(cmd *cobra.Command) (report.Renderer, error) {
	format, err := report.ParseFormat(a.format)
	if err != nil {
		return nil, err
	}
	return report.NewRenderer(format, cmd.OutOrStdout())
}

// registrar builds the DevOps client from the retry and devops sections
func (a *app) registrar(cfg *config.Config) *devops.Client {
	logger := logging.GetLogger("devops")
	format := document.Format(cfg.DevOps.OutputFormat)
	return devops.NewClient(devops.Options{
		Executor: runner.NewExecutor(runner.Options{
			Logger:       &logger,
			MaxAttempts:  cfg.Retry.MaxAttempts,
			InitialDelay: cfg.Retry.InitialDelay,
			Multiplier:   cfg.Retry.Multiplier,
			Format:       format,
		}),
		Logger:       &logger,
		CLI:          cfg.DevOps.CLI,
		Organization: cfg.DevOps.Organization,
		Project:      cfg.DevOps.Project,
		OutputFormat: cfg.DevOps.OutputFormat,
	})
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func newGenConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "genconfig",
		Short:   MsgGenConfigShort,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), config.GenerateConfigContent())
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// dryRunNotice tells the user on stderr that nothing was changed
func (a *app) dryRunNotice() {
	if a.dryRun {
		fmt.Fprintln(os.Stderr, MsgDryRunNotice)
	}
}
