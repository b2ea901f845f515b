package drive

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DefaultBaseURL is the production Drive API host.
const DefaultBaseURL = "https://www.googleapis.com"

const (
	aboutPath      = "/drive/v2/about"
	appListPath    = "/drive/v2/apps"
	changeListPath = "/drive/v2/changes"
	filesPath      = "/drive/v2/files"
)

// URLGenerator builds Drive v2 endpoint URLs relative to a base URL.
type URLGenerator struct {
	base string
}

// NewURLGenerator returns a generator for baseURL. An empty baseURL selects
// DefaultBaseURL.
func NewURLGenerator(baseURL string) (*URLGenerator, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host are required", baseURL)
	}
	return &URLGenerator{base: strings.TrimRight(baseURL, "/")}, nil
}

// AboutURL returns the URL of the about resource.
func (g *URLGenerator) AboutURL() string {
	return g.base + aboutPath
}

// AppListURL returns the URL of the installed-apps list.
func (g *URLGenerator) AppListURL() string {
	return g.base + appListPath
}

// ChangeListURL returns the change list URL. A non-empty override (a next-page
// link from a previous response) replaces the default endpoint. The
// startChangeId parameter is set when startChangestamp is positive.
func (g *URLGenerator) ChangeListURL(override string, startChangestamp int64) (string, error) {
	target := g.base + changeListPath
	if override != "" {
		target = override
	}
	if startChangestamp <= 0 {
		return target, nil
	}
	return setQueryParam(target, "startChangeId", strconv.FormatInt(startChangestamp, 10))
}

// FileListURL returns the file list URL. A non-empty override replaces the
// default endpoint; a non-empty search sets the q parameter.
func (g *URLGenerator) FileListURL(override, search string) (string, error) {
	target := g.base + filesPath
	if override != "" {
		target = override
	}
	if search == "" {
		return target, nil
	}
	return setQueryParam(target, "q", search)
}

// FileURL returns the URL of a single file resource.
func (g *URLGenerator) FileURL(fileID string) string {
	return g.base + filesPath + "/" + url.PathEscape(fileID)
}

// FileTrashURL returns the URL that moves a file to the trash.
func (g *URLGenerator) FileTrashURL(fileID string) string {
	return g.FileURL(fileID) + "/trash"
}

// ChildrenURL returns the children collection URL of a folder.
func (g *URLGenerator) ChildrenURL(parentID string) string {
	return g.FileURL(parentID) + "/children"
}

// ChildrenURLForRemoval returns the URL of one child reference of a folder.
func (g *URLGenerator) ChildrenURLForRemoval(parentID, childID string) string {
	return g.ChildrenURL(parentID) + "/" + url.PathEscape(childID)
}

// setQueryParam adds or replaces a query parameter.
func setQueryParam(raw, key, value string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
