package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newAuthCmd(opts *globalOptions) *cobra.Command {
	var code string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize a Google account",
		Long: `Print the Google authorization URL for the account, read the code Google
displays after consent and store the resulting token.

Pass --code to skip the prompt. Tokens are stored in the OAuth token
directory (DRIVEKIT_OAUTH_TOKEN_DIR), one file per account.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			account := opts.cfg.Drive.Account
			if opts.cfg.OAuth.ClientID == "" {
				return fmt.Errorf("no OAuth client configured: set DRIVEKIT_OAUTH_CLIENT_ID and DRIVEKIT_OAUTH_CLIENT_SECRET")
			}
			tokens := opts.tokenProvider()

			if code == "" {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Authorizing account: %s\n", account)
				fmt.Fprintf(out, "Go to %s\n", tokens.AuthURL(account))
				fmt.Fprint(out, "Enter code> ")

				bs := bufio.NewScanner(cmd.InOrStdin())
				if !bs.Scan() {
					if err := bs.Err(); err != nil {
						return err
					}
					return io.EOF
				}
				code = strings.TrimSpace(bs.Text())
			}
			if code == "" {
				return fmt.Errorf("authorization code cannot be empty")
			}

			if err := tokens.SaveToken(cmd.Context(), account, code); err != nil {
				return fmt.Errorf("failed to save token for account %s: %w", account, err)
			}
			opts.logger.Info("token saved", "account", account, "path", tokens.TokenFilePath(account))
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "Authorization code (skips the interactive prompt)")
	return cmd
}
