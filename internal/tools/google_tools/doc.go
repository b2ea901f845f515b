// Package google_tools provides MCP tools for Google OAuth authentication.
//
// The tools let an AI assistant authorize a Drive account without leaving
// the conversation:
//  1. Call google_get_auth_url to get the authorization URL for an account
//  2. The user visits the URL, grants Drive access and copies the code
//  3. Call google_save_auth_code with the code to store the token
//
// The stored token is refreshed automatically and picked up by the Drive
// tools on their next call for that account.
package google_tools
