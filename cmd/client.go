package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/teemow/drivekit/internal/drive"
	"github.com/teemow/drivekit/internal/google"
)

// tokenProvider returns the file token provider for the configured OAuth
// client.
func (o *globalOptions) tokenProvider() *google.FileTokenProvider {
	return google.NewFileTokenProvider(o.cfg.GoogleConfig())
}

// driveClientConfig returns the Drive client settings for the CLI.
func (o *globalOptions) driveClientConfig() drive.ClientConfig {
	cfg := o.cfg.DriveClientConfig()
	cfg.Logger = o.logger
	return cfg
}

// driveClient returns a Drive client for the configured account.
func (o *globalOptions) driveClient(ctx context.Context) (*drive.Client, error) {
	account := o.cfg.Drive.Account
	tokens := o.tokenProvider()
	if !tokens.HasTokenForAccount(account) {
		return nil, fmt.Errorf("%s", google.AuthenticationErrorMessage(account))
	}
	return drive.NewClientForAccount(ctx, tokens, o.driveClientConfig())
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
