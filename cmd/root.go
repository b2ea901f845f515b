package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/teemow/drivekit/internal/config"
	"github.com/teemow/drivekit/internal/logging"
)

// version will be set by main
var version = "dev"

// SetVersion sets the version reported by the CLI and the MCP server.
func SetVersion(v string) {
	version = v
}

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configFile string
	logLevel   string
	logFormat  string
	account    string

	cfg    *config.Config
	logger *slog.Logger
}

// load reads the configuration and applies flag overrides. Flags win over
// the config file and the environment.
func (o *globalOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("account") {
		cfg.Drive.Account = o.account
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = o.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Logging.Format = o.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	o.cfg = cfg
	o.logger = logger
	return nil
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "drivekit",
		Short: "Google Drive v2 operations and a platform adapter for embedded layout engines",
		Long: `drivekit talks to the Google Drive v2 REST API and bundles the host
services an embedded layout engine expects (clipboard, bundled images, a
shared timer and main-thread dispatch).

It can run as:
  - A CLI for Drive operations (about, ls, stat, mkdir, rename, trash, ...)
  - An MCP (Model Context Protocol) server for AI assistants`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}
	cmd.SetVersionTemplate(`{{printf "drivekit version %s\n" .Version}}`)

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "Path to a YAML config file. DRIVEKIT_* environment variables override it.")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", logging.FormatText, "Log format: text or json")
	cmd.PersistentFlags().StringVar(&opts.account, "account", "default", "Google account name to use")

	cmd.AddCommand(
		newAuthCmd(opts),
		newAboutCmd(opts),
		newAppsCmd(opts),
		newChangesCmd(opts),
		newLsCmd(opts),
		newStatCmd(opts),
		newMkdirCmd(opts),
		newRenameCmd(opts),
		newTrashCmd(opts),
		newLinkCmd(opts),
		newUnlinkCmd(opts),
		newResourceCmd(opts),
		newResourcesCmd(opts),
		newServeCmd(opts),
		newGenerateDocsCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// Execute is the main entry point for the CLI application
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
