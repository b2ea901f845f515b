package google

import drive "google.golang.org/api/drive/v2"

// DefaultOAuthScopes are the scopes requested when none are configured:
// full Drive access for file operations plus read access to the installed
// apps list.
var DefaultOAuthScopes = []string{
	drive.DriveScope,
	drive.DriveAppsReadonlyScope,
}
