package platform

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	_ "image/png"
	"sort"

	"github.com/gabriel-vasile/mimetype"
)

//go:embed assets/*.png
var assets embed.FS

// Resource is a bundled image.
type Resource struct {
	Name     string
	MIMEType string
	Width    int
	Height   int
	Data     []byte
}

// Resource names available on every platform.
const (
	ResourceTextAreaResizeCorner = "textAreaResizeCorner"
	ResourceMissingImage         = "missingImage"
	ResourceTickmarkDash         = "tickmarkDash"
	ResourcePanIcon              = "panIcon"
)

// commonResources maps resource names to their asset files.
var commonResources = map[string]string{
	ResourceTextAreaResizeCorner: "textarea_resize_corner.png",
	ResourceMissingImage:         "broken_image.png",
	ResourceTickmarkDash:         "tickmark_dash.png",
	ResourcePanIcon:              "pan_scroll_icon.png",
}

// resourceTable is the complete name table for this build.
var resourceTable = func() map[string]string {
	table := make(map[string]string, len(commonResources)+len(osResources))
	for name, file := range commonResources {
		table[name] = file
	}
	for name, file := range osResources {
		table[name] = file
	}
	return table
}()

// ResourceNames returns the names LoadResource accepts, sorted.
func ResourceNames() []string {
	names := make([]string, 0, len(resourceTable))
	for name := range resourceTable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasResource reports whether name is a registered resource.
func HasResource(name string) bool {
	_, ok := resourceTable[name]
	return ok
}

// loadResource reads and describes a registered resource. It panics if name
// is not registered or its asset is unreadable: both mean a broken build.
func loadResource(name string) Resource {
	file, ok := resourceTable[name]
	if !ok {
		panic(fmt.Sprintf("unknown image resource %s", name))
	}
	data, err := assets.ReadFile("assets/" + file)
	if err != nil {
		panic(fmt.Sprintf("image resource %s: %v", name, err))
	}

	res := Resource{
		Name:     name,
		MIMEType: mimetype.Detect(data).String(),
		Data:     data,
	}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		res.Width, res.Height = cfg.Width, cfg.Height
	}
	return res
}
