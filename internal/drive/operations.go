package drive

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	drive "google.golang.org/api/drive/v2"
)

// Operation names.
const (
	OpGetAbout        = "drive.get_about"
	OpGetAppList      = "drive.get_app_list"
	OpGetChangeList   = "drive.get_change_list"
	OpGetFileList     = "drive.get_file_list"
	OpGetFile         = "drive.get_file"
	OpCreateDirectory = "drive.create_directory"
	OpRenameResource  = "drive.rename_resource"
	OpTrashResource   = "drive.trash_resource"
	OpInsertResource  = "drive.insert_resource"
	OpDeleteResource  = "drive.delete_resource"
)

// Callback types. Every callback runs on the main loop exactly once.
type (
	GetAboutCallback      func(code Code, about *drive.About)
	GetAppListCallback    func(code Code, apps *drive.AppList)
	GetChangeListCallback func(code Code, changes *drive.ChangeList)
	GetFileListCallback   func(code Code, files *drive.FileList)
	GetFileCallback       func(code Code, file *drive.File)
	EntryActionCallback   func(code Code)
)

//============================== GetAboutOperation =============================

// GetAboutOperation fetches the about resource of the signed-in user.
type GetAboutOperation struct {
	getDataOperation[drive.About]
	urls *URLGenerator
}

// NewGetAboutOperation creates a GetAboutOperation.
func NewGetAboutOperation(urls *URLGenerator, callback GetAboutCallback) *GetAboutOperation {
	return &GetAboutOperation{
		getDataOperation: newGetDataOperation(OpGetAbout, ParseAbout, callback),
		urls:             urls,
	}
}

// URL implements Operation.
func (o *GetAboutOperation) URL() (string, error) {
	return o.urls.AboutURL(), nil
}

//============================= GetAppListOperation ============================

// GetAppListOperation fetches the list of installed Drive apps.
type GetAppListOperation struct {
	getDataOperation[drive.AppList]
	urls *URLGenerator
}

// NewGetAppListOperation creates a GetAppListOperation.
func NewGetAppListOperation(urls *URLGenerator, callback GetAppListCallback) *GetAppListOperation {
	return &GetAppListOperation{
		getDataOperation: newGetDataOperation(OpGetAppList, ParseAppList, callback),
		urls:             urls,
	}
}

// URL implements Operation.
func (o *GetAppListOperation) URL() (string, error) {
	return o.urls.AppListURL(), nil
}

//============================ GetChangeListOperation ==========================

// GetChangeListOperation fetches one page of the change list.
type GetChangeListOperation struct {
	getDataOperation[drive.ChangeList]
	urls             *URLGenerator
	pageURL          string
	startChangestamp int64
}

// NewGetChangeListOperation creates a GetChangeListOperation. pageURL is the
// nextLink of a previous page, or empty for the first page.
func NewGetChangeListOperation(urls *URLGenerator, pageURL string, startChangestamp int64, callback GetChangeListCallback) *GetChangeListOperation {
	return &GetChangeListOperation{
		getDataOperation: newGetDataOperation(OpGetChangeList, ParseChangeList, callback),
		urls:             urls,
		pageURL:          pageURL,
		startChangestamp: startChangestamp,
	}
}

// URL implements Operation.
func (o *GetChangeListOperation) URL() (string, error) {
	return o.urls.ChangeListURL(o.pageURL, o.startChangestamp)
}

//============================= GetFileListOperation ===========================

// GetFileListOperation fetches one page of files, optionally filtered by a
// Drive search query.
type GetFileListOperation struct {
	getDataOperation[drive.FileList]
	urls    *URLGenerator
	pageURL string
	search  string
}

// NewGetFileListOperation creates a GetFileListOperation.
func NewGetFileListOperation(urls *URLGenerator, pageURL, search string, callback GetFileListCallback) *GetFileListOperation {
	return &GetFileListOperation{
		getDataOperation: newGetDataOperation(OpGetFileList, ParseFileList, callback),
		urls:             urls,
		pageURL:          pageURL,
		search:           search,
	}
}

// URL implements Operation.
func (o *GetFileListOperation) URL() (string, error) {
	return o.urls.FileListURL(o.pageURL, o.search)
}

//=============================== GetFileOperation =============================

// GetFileOperation fetches the metadata of one file.
type GetFileOperation struct {
	getDataOperation[drive.File]
	urls   *URLGenerator
	fileID string
}

// NewGetFileOperation creates a GetFileOperation.
func NewGetFileOperation(urls *URLGenerator, fileID string, callback GetFileCallback) *GetFileOperation {
	return &GetFileOperation{
		getDataOperation: newGetDataOperation(OpGetFile, ParseFile, callback),
		urls:             urls,
		fileID:           fileID,
	}
}

// URL implements Operation.
func (o *GetFileOperation) URL() (string, error) {
	if o.fileID == "" {
		return "", fmt.Errorf("%w: file id is required", ErrInvalidArgument)
	}
	return o.urls.FileURL(o.fileID), nil
}

//========================== CreateDirectoryOperation ==========================

// CreateDirectoryOperation creates a folder under a parent folder.
type CreateDirectoryOperation struct {
	getDataOperation[drive.File]
	urls          *URLGenerator
	parentID      string
	directoryName string
}

// NewCreateDirectoryOperation creates a CreateDirectoryOperation.
func NewCreateDirectoryOperation(urls *URLGenerator, parentID, directoryName string, callback GetFileCallback) *CreateDirectoryOperation {
	return &CreateDirectoryOperation{
		getDataOperation: newGetDataOperation(OpCreateDirectory, ParseFile, callback),
		urls:             urls,
		parentID:         parentID,
		directoryName:    directoryName,
	}
}

// Method implements Operation.
func (o *CreateDirectoryOperation) Method() string { return http.MethodPost }

// URL implements Operation.
func (o *CreateDirectoryOperation) URL() (string, error) {
	if o.parentID == "" || o.directoryName == "" {
		return "", fmt.Errorf("%w: parent id and directory name are required", ErrInvalidArgument)
	}
	return o.urls.FileListURL("", "")
}

// Body implements Operation.
func (o *CreateDirectoryOperation) Body() (string, []byte, error) {
	return jsonBody(o.name, &drive.File{
		MimeType:        FolderMimeType,
		Parents:         []*drive.ParentReference{{Id: o.parentID, ForceSendFields: []string{"Id"}}},
		Title:           o.directoryName,
		ForceSendFields: []string{"MimeType", "Parents", "Title"},
	})
}

//=========================== RenameResourceOperation ==========================

// RenameResourceOperation changes the title of a file or folder.
type RenameResourceOperation struct {
	entryActionOperation
	urls       *URLGenerator
	resourceID string
	newName    string
}

// NewRenameResourceOperation creates a RenameResourceOperation.
func NewRenameResourceOperation(urls *URLGenerator, resourceID, newName string, callback EntryActionCallback) *RenameResourceOperation {
	return &RenameResourceOperation{
		entryActionOperation: newEntryActionOperation(OpRenameResource, callback),
		urls:                 urls,
		resourceID:           resourceID,
		newName:              newName,
	}
}

// Method implements Operation.
func (o *RenameResourceOperation) Method() string { return http.MethodPatch }

// Headers implements Operation. The rename applies regardless of the
// resource's current ETag.
func (o *RenameResourceOperation) Headers() http.Header {
	h := make(http.Header)
	h.Set("If-Match", "*")
	return h
}

// URL implements Operation.
func (o *RenameResourceOperation) URL() (string, error) {
	if o.resourceID == "" {
		return "", fmt.Errorf("%w: resource id is required", ErrInvalidArgument)
	}
	return o.urls.FileURL(o.resourceID), nil
}

// Body implements Operation.
func (o *RenameResourceOperation) Body() (string, []byte, error) {
	return jsonBody(o.name, &drive.File{
		Title:           o.newName,
		ForceSendFields: []string{"Title"},
	})
}

//=========================== TrashResourceOperation ===========================

// TrashResourceOperation moves a file or folder to the trash.
type TrashResourceOperation struct {
	entryActionOperation
	urls       *URLGenerator
	resourceID string
}

// NewTrashResourceOperation creates a TrashResourceOperation.
func NewTrashResourceOperation(urls *URLGenerator, resourceID string, callback EntryActionCallback) *TrashResourceOperation {
	return &TrashResourceOperation{
		entryActionOperation: newEntryActionOperation(OpTrashResource, callback),
		urls:                 urls,
		resourceID:           resourceID,
	}
}

// Method implements Operation.
func (o *TrashResourceOperation) Method() string { return http.MethodPost }

// URL implements Operation.
func (o *TrashResourceOperation) URL() (string, error) {
	if o.resourceID == "" {
		return "", fmt.Errorf("%w: resource id is required", ErrInvalidArgument)
	}
	return o.urls.FileTrashURL(o.resourceID), nil
}

//========================== InsertResourceOperation ===========================

// InsertResourceOperation adds an existing resource to a folder.
type InsertResourceOperation struct {
	entryActionOperation
	urls       *URLGenerator
	parentID   string
	resourceID string
}

// NewInsertResourceOperation creates an InsertResourceOperation.
func NewInsertResourceOperation(urls *URLGenerator, parentID, resourceID string, callback EntryActionCallback) *InsertResourceOperation {
	return &InsertResourceOperation{
		entryActionOperation: newEntryActionOperation(OpInsertResource, callback),
		urls:                 urls,
		parentID:             parentID,
		resourceID:           resourceID,
	}
}

// Method implements Operation.
func (o *InsertResourceOperation) Method() string { return http.MethodPost }

// URL implements Operation.
func (o *InsertResourceOperation) URL() (string, error) {
	if o.parentID == "" || o.resourceID == "" {
		return "", fmt.Errorf("%w: parent id and resource id are required", ErrInvalidArgument)
	}
	return o.urls.ChildrenURL(o.parentID), nil
}

// Body implements Operation.
func (o *InsertResourceOperation) Body() (string, []byte, error) {
	return jsonBody(o.name, &drive.ChildReference{
		Id:              o.resourceID,
		ForceSendFields: []string{"Id"},
	})
}

//========================== DeleteResourceOperation ===========================

// DeleteResourceOperation removes a resource from a folder. The resource
// itself is kept if it has other parents.
type DeleteResourceOperation struct {
	entryActionOperation
	urls       *URLGenerator
	parentID   string
	resourceID string
}

// NewDeleteResourceOperation creates a DeleteResourceOperation.
func NewDeleteResourceOperation(urls *URLGenerator, parentID, resourceID string, callback EntryActionCallback) *DeleteResourceOperation {
	return &DeleteResourceOperation{
		entryActionOperation: newEntryActionOperation(OpDeleteResource, callback),
		urls:                 urls,
		parentID:             parentID,
		resourceID:           resourceID,
	}
}

// Method implements Operation.
func (o *DeleteResourceOperation) Method() string { return http.MethodDelete }

// URL implements Operation.
func (o *DeleteResourceOperation) URL() (string, error) {
	if o.parentID == "" || o.resourceID == "" {
		return "", fmt.Errorf("%w: parent id and resource id are required", ErrInvalidArgument)
	}
	return o.urls.ChildrenURLForRemoval(o.parentID, o.resourceID), nil
}

// resourceTarget is implemented by operations aimed at one resource. The id
// ends up in spans and audit records.
type resourceTarget interface {
	ResourceID() string
}

// ResourceID returns the requested file id.
func (o *GetFileOperation) ResourceID() string { return o.fileID }

// ResourceID returns the parent folder id.
func (o *CreateDirectoryOperation) ResourceID() string { return o.parentID }

// ResourceID returns the renamed resource id.
func (o *RenameResourceOperation) ResourceID() string { return o.resourceID }

// ResourceID returns the trashed resource id.
func (o *TrashResourceOperation) ResourceID() string { return o.resourceID }

// ResourceID returns the linked resource id.
func (o *InsertResourceOperation) ResourceID() string { return o.resourceID }

// ResourceID returns the unlinked resource id.
func (o *DeleteResourceOperation) ResourceID() string { return o.resourceID }

func resourceIDOf(op Operation) string {
	if t, ok := op.(resourceTarget); ok {
		return t.ResourceID()
	}
	return ""
}

// jsonBody serializes v as an application/json upload.
func jsonBody(name string, v any) (string, []byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode %s body: %w", name, err)
	}
	slog.Debug(name+" data", "content_type", contentTypeJSON, "body", string(data))
	return contentTypeJSON, data, nil
}
