package google_tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/drivekit/internal/google"
	"github.com/teemow/drivekit/internal/server"
	"github.com/teemow/drivekit/internal/tools/common"
)

const authInstructions = `Authorize drivekit for account "%s":

  %s

Open the URL, sign in, allow Drive access and copy the code Google shows.
Then call google_save_auth_code with that code and account "%s".`

var accountOption = mcp.WithString(common.AccountArgument,
	mcp.Description("Account name the token is stored under (default: 'default')"),
)

// RegisterGoogleTools adds the OAuth code flow tools. The server context
// must carry an Authorizer.
func RegisterGoogleTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if s == nil || sc == nil {
		return errors.New("server and server context are required")
	}
	auth := sc.Authorizer()
	if auth == nil {
		return errors.New("server context has no authorizer")
	}

	getAuthURL := mcp.NewTool("google_get_auth_url",
		mcp.WithDescription("Start Google Drive authorization for an account and return the consent URL"),
		accountOption,
	)
	saveAuthCode := mcp.NewTool("google_save_auth_code",
		mcp.WithDescription("Exchange the code from the consent page for a Drive token and store it for the account"),
		accountOption,
		mcp.WithString("authCode",
			mcp.Required(),
			mcp.Description("Authorization code shown by Google after consent"),
		),
	)

	s.AddTools(
		oauthTool(sc, getAuthURL, true, func(_ context.Context, args map[string]any) (*mcp.CallToolResult, error) {
			account := common.GetAccountFromArgs(sc, args)
			if err := google.ValidateAccountName(account); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return mcp.NewToolResultText(fmt.Sprintf(authInstructions, account, auth.AuthURL(account), account)), nil
		}),
		oauthTool(sc, saveAuthCode, false, func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
			account := common.GetAccountFromArgs(sc, args)
			code, err := common.RequiredString(args, "authCode")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if err := auth.SaveToken(ctx, account, code); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to save token for account %s: %v", account, err)), nil
			}
			return mcp.NewToolResultText(fmt.Sprintf("Account '%s' is authorized. Drive tools can use it now.", account)), nil
		}),
	)
	return nil
}

func oauthTool(sc *server.ServerContext, t mcp.Tool, readOnly bool, h func(context.Context, map[string]any) (*mcp.CallToolResult, error)) mcpserver.ServerTool {
	t.Annotations.ReadOnlyHint = &readOnly
	return mcpserver.ServerTool{
		Tool: t,
		Handler: common.InstrumentedToolHandler(t.Name, readOnly, sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return h(ctx, request.GetArguments())
			}),
	}
}
