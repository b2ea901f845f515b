// Package resources exposes the bundled platform resources as MCP resources.
//
// Each resource name accepted by platform.LoadResource is published as
// platform://resources/{name} and read back as a base64 blob with its sniffed
// MIME type. platform://resources returns a JSON index of all names with
// their dimensions.
package resources
