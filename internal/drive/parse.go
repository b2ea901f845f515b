package drive

import (
	"encoding/json"
	"fmt"

	drive "google.golang.org/api/drive/v2"
)

// Resource kinds reported by the Drive v2 API.
const (
	KindAbout      = "drive#about"
	KindAppList    = "drive#appList"
	KindChangeList = "drive#changeList"
	KindFileList   = "drive#fileList"
	KindFile       = "drive#file"
)

// ParseAbout decodes an about resource.
func ParseAbout(data []byte) (*drive.About, error) {
	return parseResource[drive.About](data, KindAbout)
}

// ParseAppList decodes an app list.
func ParseAppList(data []byte) (*drive.AppList, error) {
	return parseResource[drive.AppList](data, KindAppList)
}

// ParseChangeList decodes a change list.
func ParseChangeList(data []byte) (*drive.ChangeList, error) {
	return parseResource[drive.ChangeList](data, KindChangeList)
}

// ParseFileList decodes a file list.
func ParseFileList(data []byte) (*drive.FileList, error) {
	return parseResource[drive.FileList](data, KindFileList)
}

// ParseFile decodes a file resource.
func ParseFile(data []byte) (*drive.File, error) {
	return parseResource[drive.File](data, KindFile)
}

// parseResource decodes data into T after checking its kind field.
func parseResource[T any](data []byte, kind string) (*T, error) {
	var header struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if header.Kind != kind {
		return nil, fmt.Errorf("%w: expected kind %q, got %q", ErrParse, kind, header.Kind)
	}

	result := new(T)
	if err := json.Unmarshal(data, result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return result, nil
}
