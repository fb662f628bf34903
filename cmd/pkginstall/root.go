package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/pkginstall/internal/version"
	"github.com/arthur-debert/pkginstall/pkg/cobrax/topics"
	"github.com/arthur-debert/pkginstall/pkg/config"
	"github.com/arthur-debert/pkginstall/pkg/errors"
	"github.com/arthur-debert/pkginstall/pkg/filesystem"
	"github.com/arthur-debert/pkginstall/pkg/installer"
	"github.com/arthur-debert/pkginstall/pkg/logging"
	"github.com/arthur-debert/pkginstall/pkg/manifest"
	"github.com/arthur-debert/pkginstall/pkg/types"
	"github.com/arthur-debert/pkginstall/pkg/ui/styles"
)

type rootOptions struct {
	verbose     int
	quiet       int
	destdir     string
	wipeDestdir bool
	dryRun      bool
	configPath  string
	color       bool
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(styles.ColorEnabled(os.Stdout))
}

func newRootCmd(color bool) *cobra.Command {
	initTemplateFormatting()

	opts := &rootOptions{color: color}

	rootCmd := &cobra.Command{
		Use:     "pkginstall [manifest...]",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Example: MsgRootExample,
		Version: version.Version,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New(errors.ErrConfig, MsgNoManifests)
			}
			return nil
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupConsoleLogger(opts.verbose - opts.quiet)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, opts, args)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	flags := rootCmd.Flags()
	rootCmd.PersistentFlags().CountVarP(&opts.verbose, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().CountVarP(&opts.quiet, "quiet", "q", MsgFlagQuiet)
	flags.StringVar(&opts.destdir, "destdir", "", MsgFlagDestdir)
	flags.BoolVar(&opts.wipeDestdir, "wipe-destdir", false, MsgFlagWipeDestdir)
	flags.BoolVar(&opts.dryRun, "dry-run", false, MsgFlagDryRun)
	flags.StringVar(&opts.configPath, "config", "", MsgFlagConfig)

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	topicOpts := topics.Options{Renderer: topics.NewMarkdownRenderer(color)}
	if err := topics.InitializeWithOptions(rootCmd, helpTopics(), topicOpts); err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}

	return rootCmd
}

func runInstall(cmd *cobra.Command, opts *rootOptions, args []string) error {
	logger := logging.GetLogger("cmd.install")

	env, err := config.LoadEnvironment()
	if err != nil {
		return err
	}

	settingsPath, required := opts.configPath, true
	if settingsPath == "" {
		settingsPath, required = config.DefaultSettingsPath(), false
	}
	settings, err := config.LoadSettings(settingsPath, required)
	if err != nil {
		return err
	}

	ctx, err := config.NewExecutionContext(env, settings, config.Overrides{
		Destdir:     opts.destdir,
		DestdirSet:  cmd.Flags().Changed("destdir"),
		WipeDestdir: opts.wipeDestdir,
		DryRun:      opts.dryRun,
	})
	if err != nil {
		return err
	}
	logging.AttachLogFile()

	fs := filesystem.NewOS()

	// Every manifest is read before anything is installed
	var entries []types.Entry
	for _, arg := range args {
		path := config.ManifestPath(ctx, arg)
		loaded, err := manifest.ReadFile(fs, path)
		if err != nil {
			return err
		}
		logger.Debug().Str("manifest", path).Int("entries", len(loaded)).Msg("Manifest loaded")
		entries = append(entries, loaded...)
	}

	result, err := installer.New(installer.Options{
		Context: ctx,
		FS:      fs,
	}).Install(entries)
	if err != nil {
		return err
	}

	if len(entries) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), styles.Render("Success", summary(ctx, result), opts.color))
	}
	return nil
}

// summary describes a finished run, e.g. "Installed 3 entries (2 file, 1 symlink) into /stage"
func summary(ctx *types.ExecutionContext, result *installer.Result) string {
	noun := "entries"
	if result.Installed == 1 {
		noun = "entry"
	}

	var msg string
	if result.DryRun {
		msg = fmt.Sprintf(MsgWouldInstall, result.Installed, noun)
	} else {
		msg = fmt.Sprintf(MsgInstalled, result.Installed, noun)
	}

	var counts []string
	for _, kind := range []types.Kind{types.KindFile, types.KindSymlink, types.KindDirectory, types.KindTreeArtifact} {
		if n := result.ByKind[kind]; n > 0 {
			counts = append(counts, fmt.Sprintf("%d %s", n, kind))
		}
	}
	if len(counts) > 0 {
		msg += " (" + strings.Join(counts, ", ") + ")"
	}

	if ctx.Destdir != "" {
		msg += fmt.Sprintf(MsgIntoDestdir, ctx.Destdir)
	}
	return msg
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "pkginstall version %s\n", version.Version)
			fmt.Fprintf(out, "  commit: %s\n", version.Commit)
			fmt.Fprintf(out, "  built:  %s\n", version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
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

func newManCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "man",
		Short: MsgManShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			header := &doc.GenManHeader{
				Title:   "PKGINSTALL",
				Section: "1",
				Source:  "pkginstall " + version.Version,
				Manual:  "pkginstall manual",
			}
			return doc.GenMan(cmd.Root(), header, cmd.OutOrStdout())
		},
	}
}
