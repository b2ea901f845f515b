package drive

import (
	"time"

	drive "google.golang.org/api/drive/v2"
)

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func convertUser(u *drive.User) User {
	if u == nil {
		return User{}
	}
	user := User{
		DisplayName:  u.DisplayName,
		EmailAddress: u.EmailAddress,
	}
	if u.Picture != nil {
		user.PictureURL = u.Picture.Url
	}
	return user
}

// convertToFileInfo converts a Drive API File to our FileInfo type
func convertToFileInfo(f *drive.File) *FileInfo {
	if f == nil {
		return nil
	}
	info := &FileInfo{
		ID:            f.Id,
		Name:          f.Title,
		MimeType:      f.MimeType,
		Size:          f.FileSize,
		CreatedTime:   parseTime(f.CreatedDate),
		ModifiedTime:  parseTime(f.ModifiedDate),
		AlternateLink: f.AlternateLink,
		DownloadURL:   f.DownloadUrl,
		Shared:        f.Shared,
		MD5Checksum:   f.Md5Checksum,
		ETag:          f.Etag,
	}
	if f.Labels != nil {
		info.Trashed = f.Labels.Trashed
	}

	for _, parent := range f.Parents {
		if parent != nil {
			info.Parents = append(info.Parents, parent.Id)
		}
	}
	for _, owner := range f.Owners {
		info.Owners = append(info.Owners, convertUser(owner))
	}
	for _, perm := range f.Permissions {
		if perm != nil {
			info.Permissions = append(info.Permissions, convertToPermission(perm))
		}
	}

	return info
}

// convertToPermission converts a Drive API Permission to our Permission type
func convertToPermission(p *drive.Permission) Permission {
	return Permission{
		ID:           p.Id,
		Type:         p.Type,
		Role:         p.Role,
		EmailAddress: p.EmailAddress,
		Domain:       p.Domain,
		DisplayName:  p.Name,
	}
}

func convertToAboutInfo(a *drive.About) *AboutInfo {
	if a == nil {
		return nil
	}
	return &AboutInfo{
		User:               convertUser(a.User),
		RootFolderID:       a.RootFolderId,
		QuotaBytesTotal:    a.QuotaBytesTotal,
		QuotaBytesUsed:     a.QuotaBytesUsed,
		QuotaBytesInTrash:  a.QuotaBytesUsedInTrash,
		LargestChangestamp: a.LargestChangeId,
	}
}

// NewChangePage converts a decoded change list. It returns nil for nil.
func NewChangePage(list *drive.ChangeList) *ChangePage {
	return convertToChangePage(list)
}

func convertToChangePage(list *drive.ChangeList) *ChangePage {
	if list == nil {
		return nil
	}
	page := &ChangePage{
		Changes:            make([]*ChangeInfo, 0, len(list.Items)),
		LargestChangestamp: list.LargestChangeId,
		NextLink:           list.NextLink,
	}
	for _, c := range list.Items {
		if c == nil {
			continue
		}
		page.Changes = append(page.Changes, &ChangeInfo{
			Changestamp:  c.Id,
			FileID:       c.FileId,
			Deleted:      c.Deleted,
			ModifiedTime: parseTime(c.ModificationDate),
			File:         convertToFileInfo(c.File),
		})
	}
	return page
}

func convertToFilePage(list *drive.FileList) *FilePage {
	if list == nil {
		return nil
	}
	page := &FilePage{
		Files:    make([]*FileInfo, 0, len(list.Items)),
		NextLink: list.NextLink,
	}
	for _, f := range list.Items {
		if f != nil {
			page.Files = append(page.Files, convertToFileInfo(f))
		}
	}
	return page
}

func convertToAppInfos(list *drive.AppList) []*AppInfo {
	if list == nil {
		return nil
	}
	apps := make([]*AppInfo, 0, len(list.Items))
	for _, a := range list.Items {
		if a == nil {
			continue
		}
		app := &AppInfo{
			ID:                 a.Id,
			Name:               a.Name,
			ObjectType:         a.ObjectType,
			ProductID:          a.ProductId,
			Installed:          a.Installed,
			Authorized:         a.Authorized,
			SupportsCreate:     a.SupportsCreate,
			PrimaryMimeTypes:   a.PrimaryMimeTypes,
			SecondaryMimeTypes: a.SecondaryMimeTypes,
		}
		for _, icon := range a.Icons {
			if icon != nil {
				app.Icons = append(app.Icons, AppIcon{Category: icon.Category, Size: icon.Size, URL: icon.IconUrl})
			}
		}
		apps = append(apps, app)
	}
	return apps
}
