package templar

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Materialize new projects from template repositories"
	MsgNewShort        = "Create a project from a template"
	MsgPruneShort      = "Remove files by extension or exact name"
	MsgRenameShort     = "Rename paths containing a placeholder"
	MsgRewriteShort    = "Replace a placeholder inside file contents"
	MsgRepoShort       = "Manage remote repositories"
	MsgRepoCreateShort = "Create a remote repository"
	MsgGenConfigShort  = "Print the default configuration"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun   = "Preview changes without executing them"
	MsgFlagConfig   = "Config file (default is ./templar.toml)"
	MsgFlagFormat   = "Output format: auto, terminal, text, json or markdown"
	MsgFlagTrace    = "Export traces and metrics to stderr"
	MsgFlagTemplate = "Template profile (default from config)"
	MsgFlagDir      = "Target directory (default <work_dir>/<name>)"
	MsgFlagRegister = "Create the remote repository after materializing"
	MsgFlagPublish  = "Commit and push to the new remote (implies --register)"
	MsgFlagExisting = "Work on a tree already at the target directory instead of cloning"
	MsgFlagExt      = "File extension to match, repeatable"
	MsgFlagName     = "Exact file name to match, repeatable"
	MsgFlagFrom     = "Placeholder to replace"
	MsgFlagTo       = "Replacement text"
	MsgFlagSkipDir  = "Directory name the walk never enters, repeatable"

	// Status messages
	MsgDryRunNotice     = "DRY RUN MODE - No changes were made"
	MsgNothingToPrune   = "nothing to prune: pass --ext or --name"
	MsgVersionFormat    = "templar version %s\n  commit: %s\n  built:  %s\n"
	MsgErrNoSubcommand  = "no command specified"
	MsgErrMissingFromTo = "both --from and --to are required"
)

// Long descriptions
const (
	MsgRootLong = `templar turns a template repository into a ready-to-use project.

It clones a template, prunes files that only make sense in the template,
renames every path holding the template placeholder, rewrites the
placeholder inside file contents and can then register and publish a
new remote repository.`

	MsgNewLong = `Clone the template, prune it, substitute the project name into paths and
contents, and optionally create and push to a new remote repository.

The substitution replaces the template placeholder (e.g. "pkg.template.")
with the template replacement where {name} is the project name.`

	MsgNewExample = `  templar new orders                       # dotnet template into ./orders
  templar new orders --template cicd       # another profile
  templar new orders --register --publish  # also create and push the remote
  templar --dry-run new orders             # preview what would change`

	MsgPruneExample = `  templar prune ./orders --ext .yaml --ext .yml
  templar prune ./orders --name nuget.config`

	MsgRenameExample = `  templar rename ./orders --from pkg.template. --to pkg.orders.`

	MsgRewriteExample = `  templar rewrite ./orders --from pkg.template. --to pkg.orders. --ext .cs`
)
