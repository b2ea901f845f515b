package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/drivekit/internal/drive"
	"github.com/teemow/drivekit/internal/loop"
	"github.com/teemow/drivekit/internal/platform"
	"github.com/teemow/drivekit/internal/tools/batch"
	"github.com/teemow/drivekit/internal/watch"
)

// driveRunE adapts a command body that needs a Drive client.
func driveRunE(opts *globalOptions, run func(cmd *cobra.Command, args []string, client *drive.Client) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		client, err := opts.driveClient(cmd.Context())
		if err != nil {
			return err
		}
		return run(cmd, args, client)
	}
}

func newAboutCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "about",
		Short: "Show the signed-in user, quota and largest changestamp",
		Args:  cobra.NoArgs,
		RunE: driveRunE(opts, func(cmd *cobra.Command, _ []string, client *drive.Client) error {
			about, err := client.About(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), about)
		}),
	}
}

func newAppsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "apps",
		Short: "List the Drive apps installed for the user",
		Args:  cobra.NoArgs,
		RunE: driveRunE(opts, func(cmd *cobra.Command, _ []string, client *drive.Client) error {
			apps, err := client.Apps(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tINSTALLED\tAUTHORIZED")
			for _, app := range apps {
				fmt.Fprintf(tw, "%s\t%s\t%t\t%t\n", app.ID, app.Name, app.Installed, app.Authorized)
			}
			return tw.Flush()
		}),
	}
}

func newChangesCmd(opts *globalOptions) *cobra.Command {
	var (
		start    int64
		pageURL  string
		follow   bool
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "changes",
		Short: "List the Drive change feed",
		Long: `List one page of the Drive change feed.

With --watch, poll the feed until interrupted and print every change as
it arrives. Without --start, watching begins at the current largest
changestamp.`,
		Args: cobra.NoArgs,
		RunE: driveRunE(opts, func(cmd *cobra.Command, _ []string, client *drive.Client) error {
			if start < 0 {
				return fmt.Errorf("--start must not be negative")
			}
			if follow {
				if interval <= 0 {
					interval = opts.cfg.Watch.Interval
				}
				return watchChanges(cmd.Context(), opts, client, cmd.OutOrStdout(), start, interval)
			}

			page, err := client.Changes(cmd.Context(), pageURL, start)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), page)
		}),
	}

	cmd.Flags().Int64Var(&start, "start", 0, "First changestamp to include")
	cmd.Flags().StringVar(&pageURL, "page", "", "nextLink of a previous page")
	cmd.Flags().BoolVarP(&follow, "watch", "w", false, "Poll for changes until interrupted")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Poll interval for --watch (default: watch.interval from the config)")
	cmd.MarkFlagsMutuallyExclusive("page", "watch")
	return cmd
}

// watchChanges runs a watcher on its own main loop until ctx is cancelled, a
// signal arrives or the watcher gives up.
func watchChanges(ctx context.Context, opts *globalOptions, client *drive.Client, out io.Writer, start int64, interval time.Duration) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	l := loop.NewWithLogger(opts.logger)
	p := platform.New(l, platform.WithLogger(opts.logger))

	var printErr error
	w := watch.New(client.Runner(), client.URLs(), l, p, func(page *drive.ChangePage) {
		for _, change := range page.Changes {
			if err := printJSON(out, change); err != nil && printErr == nil {
				printErr = err
				cancel()
			}
		}
	}, watch.Config{
		Interval:         interval,
		StartChangestamp: start,
		Logger:           opts.logger,
	})

	l.Post(func() { w.Start(ctx) })
	go func() {
		<-w.Done()
		l.Quit()
	}()
	if err := l.Run(context.WithoutCancel(ctx)); err != nil {
		return err
	}

	if printErr != nil {
		return printErr
	}
	if err := w.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func newLsCmd(opts *globalOptions) *cobra.Command {
	var (
		search  string
		pageURL string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List files",
		Args:  cobra.NoArgs,
		RunE: driveRunE(opts, func(cmd *cobra.Command, _ []string, client *drive.Client) error {
			page, err := client.Files(cmd.Context(), pageURL, search)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), page)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tMIME TYPE\tMODIFIED")
			for _, f := range page.Files {
				modified := ""
				if !f.ModifiedTime.IsZero() {
					modified = f.ModifiedTime.Format(time.RFC3339)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.ID, f.Name, f.MimeType, modified)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if page.NextLink != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "More results: --page '%s'\n", page.NextLink)
			}
			return nil
		}),
	}

	cmd.Flags().StringVarP(&search, "search", "q", "", "Drive search query, e.g. \"title contains 'report'\"")
	cmd.Flags().StringVar(&pageURL, "page", "", "nextLink of a previous page")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw page as JSON")
	return cmd
}

func newStatCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stat ID",
		Short: "Show metadata for a file or folder",
		Args:  cobra.ExactArgs(1),
		RunE: driveRunE(opts, func(cmd *cobra.Command, args []string, client *drive.Client) error {
			file, err := client.File(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), file)
		}),
	}
}

func newMkdirCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir PARENT_ID NAME",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(2),
		RunE: driveRunE(opts, func(cmd *cobra.Command, args []string, client *drive.Client) error {
			folder, err := client.CreateDirectory(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), folder.ID)
			return nil
		}),
	}
}

func newRenameCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rename ID NEW_NAME",
		Short: "Rename a file or folder",
		Args:  cobra.ExactArgs(2),
		RunE: driveRunE(opts, func(cmd *cobra.Command, args []string, client *drive.Client) error {
			return client.Rename(cmd.Context(), args[0], args[1])
		}),
	}
}

func newTrashCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "trash ID...",
		Short: "Move files or folders to the trash",
		Args:  cobra.MinimumNArgs(1),
		RunE: driveRunE(opts, func(cmd *cobra.Command, args []string, client *drive.Client) error {
			results := batch.ProcessBatch(cmd.Context(), args, func(ctx context.Context, id string) (string, error) {
				if err := client.Trash(ctx, id); err != nil {
					return "", err
				}
				return "trashed", nil
			})

			summary := batch.Summarize(results)
			for _, r := range results {
				if r.Status == batch.StatusSuccess {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", r.ID, r.Result)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\terror: %s\n", r.ID, r.Error)
				}
			}
			if summary.Failed > 0 {
				return fmt.Errorf("%d of %d resources could not be trashed", summary.Failed, summary.Total)
			}
			return nil
		}),
	}
}

func newLinkCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "link PARENT_ID ID",
		Short: "Add a file or folder to a parent folder",
		Args:  cobra.ExactArgs(2),
		RunE: driveRunE(opts, func(cmd *cobra.Command, args []string, client *drive.Client) error {
			return client.AddChild(cmd.Context(), args[0], args[1])
		}),
	}
}

func newUnlinkCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "unlink PARENT_ID ID",
		Short: "Remove a file or folder from a parent folder",
		Args:  cobra.ExactArgs(2),
		RunE: driveRunE(opts, func(cmd *cobra.Command, args []string, client *drive.Client) error {
			return client.RemoveChild(cmd.Context(), args[0], args[1])
		}),
	}
}
