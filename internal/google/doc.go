// Package google provides OAuth2 authentication and per-account token
// storage for the Google Drive API.
//
// Tokens are stored as one JSON file per account under the token directory
// (by default $XDG_CACHE_HOME/drivekit). The TokenProvider interface lets
// other token sources be plugged into the Drive client.
package google
