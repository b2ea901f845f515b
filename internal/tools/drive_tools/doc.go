// Package drive_tools exposes the Drive operations as MCP tools.
//
// Read-only tools are always registered:
//   - drive_about: account, quota and largest changestamp
//   - drive_list_apps: apps installed for the user
//   - drive_list_changes: one page of the change feed
//   - drive_list_files: one page of the file listing, optionally searched
//   - drive_get_file: metadata of one file or folder
//
// Mutating tools are only registered when the server runs with --yolo:
//   - drive_create_directory: create a folder inside a parent
//   - drive_rename: change the title of a file or folder
//   - drive_trash: move one or more resources to the trash
//   - drive_add_child: add a resource to a folder
//   - drive_remove_child: remove a resource from a folder
//
// Every tool accepts an optional 'account' argument selecting the stored
// Google token.
//
// Example tool usage:
//
//	drive_list_files({
//	  account: "work",
//	  query: "title contains 'invoice' and trashed = false"
//	})
//
//	drive_trash({
//	  resourceIds: ["0B1a", "0B2b"]
//	})
package drive_tools
