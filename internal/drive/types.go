package drive

import "time"

// FileInfo represents metadata about a file or folder in Google Drive
type FileInfo struct {
	// ID is the unique identifier for the file
	ID string `json:"id"`

	// Name is the title of the file
	Name string `json:"name"`

	// MimeType is the MIME type of the file
	MimeType string `json:"mimeType"`

	// Size is the size of the file in bytes (not populated for folders)
	Size int64 `json:"size,omitempty"`

	CreatedTime  time.Time `json:"createdTime"`
	ModifiedTime time.Time `json:"modifiedTime"`

	// AlternateLink opens the file in the relevant Google editor or viewer
	AlternateLink string `json:"alternateLink,omitempty"`

	// DownloadURL is the short-lived download link (not available for folders)
	DownloadURL string `json:"downloadUrl,omitempty"`

	// Parents are the IDs of the parent folders
	Parents []string `json:"parents,omitempty"`

	Owners      []User       `json:"owners,omitempty"`
	Permissions []Permission `json:"permissions,omitempty"`

	Shared  bool `json:"shared"`
	Trashed bool `json:"trashed"`

	MD5Checksum string `json:"md5Checksum,omitempty"`
	ETag        string `json:"etag,omitempty"`
}

// IsFolder reports whether the entry is a folder.
func (f *FileInfo) IsFolder() bool {
	return f.MimeType == FolderMimeType
}

// User represents a Google Drive user (owner, permission holder, etc.)
type User struct {
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress,omitempty"`
	PictureURL   string `json:"pictureUrl,omitempty"`
}

// Permission represents access permissions for a file
type Permission struct {
	ID string `json:"id"`

	// Type is the grantee type (user, group, domain, anyone)
	Type string `json:"type"`

	// Role is the granted role (owner, writer, commenter, reader)
	Role string `json:"role"`

	EmailAddress string `json:"emailAddress,omitempty"`
	Domain       string `json:"domain,omitempty"`
	DisplayName  string `json:"displayName,omitempty"`
}

// AboutInfo describes the signed-in user's Drive.
type AboutInfo struct {
	User              User   `json:"user"`
	RootFolderID      string `json:"rootFolderId"`
	QuotaBytesTotal   int64  `json:"quotaBytesTotal"`
	QuotaBytesUsed    int64  `json:"quotaBytesUsed"`
	QuotaBytesInTrash int64  `json:"quotaBytesUsedInTrash"`

	// LargestChangestamp is the newest change id; pass it + 1 to Changes to
	// receive only later changes.
	LargestChangestamp int64 `json:"largestChangestamp"`
}

// ChangeInfo is one entry of the change feed.
type ChangeInfo struct {
	Changestamp  int64     `json:"changestamp"`
	FileID       string    `json:"fileId"`
	Deleted      bool      `json:"deleted"`
	ModifiedTime time.Time `json:"modifiedTime,omitempty"`
	File         *FileInfo `json:"file,omitempty"`
}

// ChangePage is one page of the change feed.
type ChangePage struct {
	Changes            []*ChangeInfo `json:"changes"`
	LargestChangestamp int64         `json:"largestChangestamp"`

	// NextLink fetches the next page when passed as pageURL. Empty on the
	// last page.
	NextLink string `json:"nextLink,omitempty"`
}

// FilePage is one page of a file listing.
type FilePage struct {
	Files    []*FileInfo `json:"files"`
	NextLink string      `json:"nextLink,omitempty"`
}

// AppInfo describes an app installed for the user.
type AppInfo struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	ObjectType         string    `json:"objectType,omitempty"`
	ProductID          string    `json:"productId,omitempty"`
	Installed          bool      `json:"installed"`
	Authorized         bool      `json:"authorized"`
	SupportsCreate     bool      `json:"supportsCreate"`
	PrimaryMimeTypes   []string  `json:"primaryMimeTypes,omitempty"`
	SecondaryMimeTypes []string  `json:"secondaryMimeTypes,omitempty"`
	Icons              []AppIcon `json:"icons,omitempty"`
}

// AppIcon is one icon of an app.
type AppIcon struct {
	Category string `json:"category"`
	Size     int64  `json:"size"`
	URL      string `json:"url"`
}
