package drive_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/drivekit/internal/server"
	"github.com/teemow/drivekit/internal/tools/common"
)

func readTools(sc *server.ServerContext) []mcpserver.ServerTool {
	aboutTool := mcp.NewTool("drive_about",
		mcp.WithDescription("Get the signed-in user, storage quota, root folder id and largest changestamp"),
		accountOption,
	)

	listAppsTool := mcp.NewTool("drive_list_apps",
		mcp.WithDescription("List the Drive apps installed for the user"),
		accountOption,
	)

	listChangesTool := mcp.NewTool("drive_list_changes",
		mcp.WithDescription("List one page of the Drive change feed. Pass nextLink from a previous page as pageUrl to continue."),
		accountOption,
		mcp.WithNumber("startChangestamp",
			mcp.Description("First changestamp to include. Omit to start from the beginning of the feed."),
		),
		mcp.WithString("pageUrl",
			mcp.Description("nextLink returned by a previous drive_list_changes call"),
		),
	)

	listFilesTool := mcp.NewTool("drive_list_files",
		mcp.WithDescription("List one page of files, optionally filtered with a Drive search query"),
		accountOption,
		mcp.WithString("query",
			mcp.Description("Drive v2 search query (e.g., \"title contains 'report'\", \"mimeType = 'application/pdf'\")"),
		),
		mcp.WithString("pageUrl",
			mcp.Description("nextLink returned by a previous drive_list_files call"),
		),
	)

	getFileTool := mcp.NewTool("drive_get_file",
		mcp.WithDescription("Get metadata for a file or folder"),
		accountOption,
		mcp.WithString("fileId",
			mcp.Required(),
			mcp.Description("The ID of the file or folder"),
		),
	)

	return []mcpserver.ServerTool{
		tool(sc, aboutTool, true, handleAbout),
		tool(sc, listAppsTool, true, handleListApps),
		tool(sc, listChangesTool, true, handleListChanges),
		tool(sc, listFilesTool, true, handleListFiles),
		tool(sc, getFileTool, true, handleGetFile),
	}
}

func handleAbout(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, err := getDriveClient(sc, request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	about, err := client.About(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get about resource: %v", err)), nil
	}
	return jsonResult("Drive account:", about)
}

func handleListApps(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, err := getDriveClient(sc, request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	apps, err := client.Apps(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list apps: %v", err)), nil
	}
	return jsonResult(fmt.Sprintf("Found %d app(s):", len(apps)), apps)
}

func handleListChanges(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	start, err := common.OptionalInt64(args, "startChangestamp", 0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if start < 0 {
		return mcp.NewToolResultError("startChangestamp must not be negative"), nil
	}

	client, err := getDriveClient(sc, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	page, err := client.Changes(ctx, common.OptionalString(args, "pageUrl"), start)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list changes: %v", err)), nil
	}
	return jsonResult(fmt.Sprintf("Found %d change(s), largest changestamp %d:", len(page.Changes), page.LargestChangestamp), page)
}

func handleListFiles(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	client, err := getDriveClient(sc, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	page, err := client.Files(ctx, common.OptionalString(args, "pageUrl"), common.OptionalString(args, "query"))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list files: %v", err)), nil
	}
	return jsonResult(fmt.Sprintf("Found %d file(s):", len(page.Files)), page)
}

func handleGetFile(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	fileID, err := common.RequiredString(args, "fileId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, err := getDriveClient(sc, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	file, err := client.File(ctx, fileID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get file: %v", err)), nil
	}
	return jsonResult("File metadata:", file)
}
