package templar

import (
	"path/filepath"

	"github.com/arthur-debert/templar/pkg/errors"
	"github.com/arthur-debert/templar/pkg/filesystem"
	"github.com/arthur-debert/templar/pkg/logging"
	"github.com/arthur-debert/templar/pkg/provision"
	"github.com/arthur-debert/templar/pkg/prune"
	"github.com/arthur-debert/templar/pkg/rewrite"
	"github.com/arthur-debert/templar/pkg/scm"
	"github.com/arthur-debert/templar/pkg/types"
	"github.com/spf13/cobra"
)

func newNewCmd(a *app) *cobra.Command {
	var (
		templateName string
		dir          string
		register     bool
		publish      bool
		existing     bool
	)

	cmd := &cobra.Command{
		Use:     "new <name>",
		Short:   MsgNewShort,
		Long:    MsgNewLong,
		Example: MsgNewExample,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			if templateName == "" {
				templateName = cfg.DefaultTemplate
			}
			tmpl, err := cfg.Template(templateName)
			if err != nil {
				return err
			}
			renderer, err := a.renderer(cmd)
			if err != nil {
				return err
			}

			name := args[0]
			if dir == "" {
				dir = filepath.Join(cfg.WorkDir, name)
			}
			if abs, err := filepath.Abs(dir); err == nil {
				dir = abs
			}

			logger := logging.GetLogger("cmd.new")
			gitLogger := logging.GetLogger("scm.git")
			gitOpts := scm.Options{Logger: &gitLogger, Binary: cfg.Git.Binary}
			if existing {
				gitOpts.Path = dir
			}

			opts := provision.Options{
				TemplateName:  templateName,
				Template:      tmpl,
				Git:           cfg.Git,
				SourceControl: scm.New(gitOpts),
				Logger:        &logger,
				DryRun:        a.dryRun,
			}
			if register || publish {
				opts.Registrar = a.registrar(cfg)
			}
			orch := provision.New(opts)

			result, err := orch.Provision(cmd.Context(), provision.Request{
				ProjectName: name,
				TargetDir:   dir,
				UseExisting: existing,
			})
			if err == nil && (register || publish) {
				var descriptor *types.RepositoryDescriptor
				descriptor, err = orch.RegisterRemote(cmd.Context(), name)
				if err == nil && publish {
					err = orch.Publish(cmd.Context(), descriptor)
				}
			}

			if result != nil {
				if rerr := renderer.RenderResult(orch.Report()); rerr != nil {
					return rerr
				}
			}
			a.dryRunNotice()
			return err
		},
	}

	cmd.Flags().StringVarP(&templateName, "template", "t", "", MsgFlagTemplate)
	cmd.Flags().StringVarP(&dir, "dir", "d", "", MsgFlagDir)
	cmd.Flags().BoolVar(&register, "register", false, MsgFlagRegister)
	cmd.Flags().BoolVar(&publish, "publish", false, MsgFlagPublish)
	cmd.Flags().BoolVar(&existing, "existing", false, MsgFlagExisting)
	return cmd
}

func newRepoCmd(a *app) *cobra.Command {
	repoCmd := &cobra.Command{
		Use:     "repo",
		Short:   MsgRepoShort,
		GroupID: "core",
	}

	repoCmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: MsgRepoCreateShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			renderer, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			client := a.registrar(cfg)
			if a.dryRun {
				return renderer.RenderMessage("would run: " + client.Invocation(args[0]).String())
			}
			descriptor, err := client.CreateRepository(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return renderer.RenderResult(descriptor)
		},
	})
	return repoCmd
}

// treeFS is the filesystem for the standalone tree commands
func (a *app) treeFS(base types.FS) types.FS {
	if !a.dryRun {
		return base
	}
	return filesystem.NewDryRun(base, logging.GetLogger("dryrun"))
}

func newPruneCmd(a *app) *cobra.Command {
	var (
		exts  []string
		names []string
	)

	cmd := &cobra.Command{
		Use:     "prune <root>",
		Short:   MsgPruneShort,
		Example: MsgPruneExample,
		GroupID: "tree",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(exts) == 0 && len(names) == 0 {
				return errors.New(errors.ErrInvalidInput, MsgNothingToPrune)
			}
			cfg, err := a.config()
			if err != nil {
				return err
			}
			renderer, err := a.renderer(cmd)
			if err != nil {
				return err
			}

			logger := logging.GetLogger("cmd.prune")
			pruner := prune.New(prune.Options{
				FS:     a.treeFS(filesystem.NewSynthfs()),
				Logger: &logger,
				VCSDir: cfg.Git.VCSDir,
			})

			var outcomes []provision.PruneOutcome
			for _, ext := range exts {
				result, err := pruner.RemoveByExtension(args[0], ext)
				if err != nil {
					return err
				}
				outcomes = append(outcomes, provision.PruneOutcome{
					Kind: provision.PruneByExtension, Target: ext, Removed: result.Removed, Failed: result.Failed,
				})
			}
			for _, name := range names {
				removed, err := pruner.RemoveByExactName(args[0], name)
				if err != nil {
					return err
				}
				outcomes = append(outcomes, provision.PruneOutcome{
					Kind: provision.PruneByName, Target: name, Removed: removed,
				})
			}

			a.dryRunNotice()
			return renderer.RenderResult(outcomes)
		},
	}

	cmd.Flags().StringArrayVar(&exts, "ext", nil, MsgFlagExt)
	cmd.Flags().StringArrayVar(&names, "name", nil, MsgFlagName)
	return cmd
}

func newRenameCmd(a *app) *cobra.Command {
	var (
		from, to string
		skipDirs []string
	)

	cmd := &cobra.Command{
		Use:     "rename <root>",
		Short:   MsgRenameShort,
		Example: MsgRenameExample,
		GroupID: "tree",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("from") || !cmd.Flags().Changed("to") {
				return errors.New(errors.ErrInvalidInput, MsgErrMissingFromTo)
			}
			renderer, err := a.renderer(cmd)
			if err != nil {
				return err
			}

			logger := logging.GetLogger("cmd.rename")
			rewriter := rewrite.New(rewrite.Options{
				FS:      a.treeFS(filesystem.NewOS()),
				Logger:  &logger,
				Exclude: skipDirs,
			})
			result, err := rewriter.RenameTree(args[0], from, to)
			if err != nil {
				return err
			}

			a.dryRunNotice()
			return renderer.RenderResult(result)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", MsgFlagFrom)
	cmd.Flags().StringVar(&to, "to", "", MsgFlagTo)
	cmd.Flags().StringArrayVar(&skipDirs, "skip-dir", []string{".git"}, MsgFlagSkipDir)
	return cmd
}

func newRewriteCmd(a *app) *cobra.Command {
	var (
		from, to string
		exts     []string
		skipDirs []string
	)

	cmd := &cobra.Command{
		Use:     "rewrite <root>",
		Short:   MsgRewriteShort,
		Example: MsgRewriteExample,
		GroupID: "tree",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("from") || !cmd.Flags().Changed("to") {
				return errors.New(errors.ErrInvalidInput, MsgErrMissingFromTo)
			}
			renderer, err := a.renderer(cmd)
			if err != nil {
				return err
			}

			logger := logging.GetLogger("cmd.rewrite")
			rewriter := rewrite.New(rewrite.Options{
				FS:       a.treeFS(filesystem.NewOS()),
				Logger:   &logger,
				SkipDirs: skipDirs,
			})
			result, err := rewriter.RewriteContents(args[0], types.SubstitutionRule{
				Old:        from,
				New:        to,
				Extensions: exts,
			})
			if err != nil {
				return err
			}

			a.dryRunNotice()
			return renderer.RenderResult(result)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", MsgFlagFrom)
	cmd.Flags().StringVar(&to, "to", "", MsgFlagTo)
	cmd.Flags().StringArrayVar(&exts, "ext", nil, MsgFlagExt)
	cmd.Flags().StringArrayVar(&skipDirs, "skip-dir", []string{".git"}, MsgFlagSkipDir)
	return cmd
}
