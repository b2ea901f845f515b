// Package common holds helpers shared by the MCP tool packages: account
// selection, argument parsing and the instrumentation wrapper applied to
// every handler.
package common
