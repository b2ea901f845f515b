package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/teemow/drivekit/internal/loop"
	"github.com/teemow/drivekit/internal/platform"
	"github.com/teemow/drivekit/internal/resources"
)

// newPlatform returns a platform for one-shot lookups. Nothing is ever
// posted to its loop, so the loop is never run.
func newPlatform(opts *globalOptions) *platform.Platform {
	return platform.New(loop.NewWithLogger(opts.logger), platform.WithLogger(opts.logger))
}

func newResourceCmd(opts *globalOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "resource NAME",
		Short: "Write a bundled platform resource",
		Long: `Write the bundled platform image NAME to stdout, or to the file given
with -o. Run 'drivekit resources' for the list of names.`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return platform.ResourceNames(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if !platform.HasResource(name) {
				return fmt.Errorf("unknown resource %q, available: %s", name, strings.Join(platform.ResourceNames(), ", "))
			}
			res := newPlatform(opts).LoadResource(name)

			if output == "" || output == "-" {
				_, err := cmd.OutOrStdout().Write(res.Data)
				return err
			}
			if err := os.WriteFile(output, res.Data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			opts.logger.Info("resource written", "name", name, "path", output, "mime_type", res.MIMEType)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

func newResourcesCmd(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "resources",
		Short: "List the bundled platform resources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := resources.Index(newPlatform(opts))
			if asJSON {
				return printJSON(cmd.OutOrStdout(), entries)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tMIME TYPE\tSIZE\tBYTES")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%dx%d\t%d\n", e.Name, e.MIMEType, e.Width, e.Height, e.Size)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the index as JSON")
	return cmd
}
