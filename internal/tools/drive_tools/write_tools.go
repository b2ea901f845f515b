package drive_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/drivekit/internal/server"
	"github.com/teemow/drivekit/internal/tools/batch"
	"github.com/teemow/drivekit/internal/tools/common"
)

func writeTools(sc *server.ServerContext) []mcpserver.ServerTool {
	createDirectoryTool := mcp.NewTool("drive_create_directory",
		mcp.WithDescription("Create a folder inside a parent folder"),
		accountOption,
		mcp.WithString("parentId",
			mcp.Required(),
			mcp.Description("The ID of the parent folder ('root' for My Drive)"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("The name of the new folder"),
		),
	)

	renameTool := mcp.NewTool("drive_rename",
		mcp.WithDescription("Rename a file or folder"),
		accountOption,
		mcp.WithString("resourceId",
			mcp.Required(),
			mcp.Description("The ID of the file or folder"),
		),
		mcp.WithString("newName",
			mcp.Required(),
			mcp.Description("The new title"),
		),
	)

	trashTool := mcp.NewTool("drive_trash",
		mcp.WithDescription("Move one or more files or folders to the trash"),
		accountOption,
		mcp.WithString("resourceIds",
			mcp.Required(),
			mcp.Description("Resource ID (string) or array of resource IDs to trash"),
		),
	)

	addChildTool := mcp.NewTool("drive_add_child",
		mcp.WithDescription("Add a file or folder to a parent folder. The resource keeps its other parents."),
		accountOption,
		mcp.WithString("parentId",
			mcp.Required(),
			mcp.Description("The ID of the folder to add the resource to"),
		),
		mcp.WithString("resourceId",
			mcp.Required(),
			mcp.Description("The ID of the file or folder"),
		),
	)

	removeChildTool := mcp.NewTool("drive_remove_child",
		mcp.WithDescription("Remove a file or folder from a parent folder without deleting it"),
		accountOption,
		mcp.WithString("parentId",
			mcp.Required(),
			mcp.Description("The ID of the folder to remove the resource from"),
		),
		mcp.WithString("resourceId",
			mcp.Required(),
			mcp.Description("The ID of the file or folder"),
		),
	)

	return []mcpserver.ServerTool{
		tool(sc, createDirectoryTool, false, handleCreateDirectory),
		tool(sc, renameTool, false, handleRename),
		tool(sc, trashTool, false, handleTrash),
		tool(sc, addChildTool, false, handleAddChild),
		tool(sc, removeChildTool, false, handleRemoveChild),
	}
}

func handleCreateDirectory(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	parentID, err := common.RequiredString(args, "parentId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := common.RequiredString(args, "name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, err := getDriveClient(sc, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	folder, err := client.CreateDirectory(ctx, parentID, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create folder: %v", err)), nil
	}
	return jsonResult("Folder created successfully:", folder)
}

func handleRename(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	resourceID, err := common.RequiredString(args, "resourceId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	newName, err := common.RequiredString(args, "newName")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, err := getDriveClient(sc, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := client.Rename(ctx, resourceID, newName); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to rename %s: %v", resourceID, err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Renamed %s to %q", resourceID, newName)), nil
}

func handleTrash(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	ids, err := batch.ParseIDList(args["resourceIds"], "resourceIds")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, err := getDriveClient(sc, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(ids) == 1 {
		if err := client.Trash(ctx, ids[0]); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to trash %s: %v", ids[0], err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Moved %s to the trash", ids[0])), nil
	}

	results := batch.ProcessBatch(ctx, ids, func(ctx context.Context, id string) (string, error) {
		if err := client.Trash(ctx, id); err != nil {
			return "", err
		}
		return "trashed", nil
	})
	return mcp.NewToolResultText(batch.FormatResults(results)), nil
}

func handleAddChild(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	return childOperation(ctx, request, sc, true)
}

func handleRemoveChild(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	return childOperation(ctx, request, sc, false)
}

func childOperation(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext, add bool) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	parentID, err := common.RequiredString(args, "parentId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	resourceID, err := common.RequiredString(args, "resourceId")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, err := getDriveClient(sc, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if add {
		if err := client.AddChild(ctx, parentID, resourceID); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to add %s to %s: %v", resourceID, parentID, err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Added %s to %s", resourceID, parentID)), nil
	}

	if err := client.RemoveChild(ctx, parentID, resourceID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to remove %s from %s: %v", resourceID, parentID, err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Removed %s from %s", resourceID, parentID)), nil
}
