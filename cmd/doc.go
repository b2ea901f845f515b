// Package cmd implements the command-line interface for drivekit.
//
// This package provides the following commands:
//   - auth: Authorize a Google account and store its token
//   - about, apps, changes, ls, stat: Read Drive metadata
//   - mkdir, rename, trash, link, unlink: Modify Drive resources
//   - resource, resources: Inspect the bundled platform resources
//   - serve: Start the MCP server to provide tools for AI assistants
//   - generate-docs: Generate markdown documentation for all MCP tools
//   - version: Display version information
//
// Every command reads the optional --config YAML file and DRIVEKIT_*
// environment variables through internal/config.
package cmd
