package drive_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/drivekit/internal/drive"
	"github.com/teemow/drivekit/internal/server"
	"github.com/teemow/drivekit/internal/tools/common"
)

var accountOption = mcp.WithString(common.AccountArgument,
	mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
)

// getDriveClient returns the Drive client for the account named in args.
func getDriveClient(sc *server.ServerContext, args map[string]interface{}) (*drive.Client, error) {
	return sc.DriveClientForAccount(common.GetAccountFromArgs(sc, args))
}

// jsonResult renders v as indented JSON below a one-line summary.
func jsonResult(summary string, v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s\n%s", summary, string(data))), nil
}

// Tools returns the Drive tools. Mutating tools are omitted when readOnly is
// set. Every handler is wrapped with instrumentation.
func Tools(sc *server.ServerContext, readOnly bool) []mcpserver.ServerTool {
	tools := readTools(sc)
	if !readOnly {
		tools = append(tools, writeTools(sc)...)
	}
	return tools
}

// RegisterDriveTools registers the Drive tools with the MCP server.
func RegisterDriveTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if s == nil || sc == nil {
		return fmt.Errorf("server and server context are required")
	}
	s.AddTools(Tools(sc, readOnly)...)
	return nil
}

type handlerFunc func(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error)

func tool(sc *server.ServerContext, t mcp.Tool, readOnly bool, h handlerFunc) mcpserver.ServerTool {
	t.Annotations.ReadOnlyHint = &readOnly
	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return h(ctx, request, sc)
	}
	return mcpserver.ServerTool{
		Tool:    t,
		Handler: common.InstrumentedToolHandler(t.Name, readOnly, sc, handler),
	}
}
