package resources

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/drivekit/internal/platform"
	"github.com/teemow/drivekit/internal/server"
)

const (
	// URIPrefix prefixes the URI of every bundled resource.
	URIPrefix = "platform://resources/"

	// IndexURI lists all bundled resources.
	IndexURI = "platform://resources"
)

// Entry is one row of the resource index.
type Entry struct {
	Name     string `json:"name"`
	URI      string `json:"uri"`
	MIMEType string `json:"mimeType"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Size     int    `json:"size"`
}

// URI returns the resource URI for name.
func URI(name string) string {
	return URIPrefix + name
}

// NameFromURI returns the resource name addressed by uri.
func NameFromURI(uri string) (string, error) {
	name, ok := strings.CutPrefix(uri, URIPrefix)
	if !ok || name == "" {
		return "", fmt.Errorf("not a platform resource URI: %s", uri)
	}
	if !platform.HasResource(name) {
		return "", fmt.Errorf("unknown platform resource: %s", name)
	}
	return name, nil
}

// RegisterPlatformResources registers the index and one resource per bundled
// name. The server context must carry a platform.
func RegisterPlatformResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if s == nil || sc == nil {
		return fmt.Errorf("server and server context are required")
	}
	p := sc.Platform()
	if p == nil {
		return fmt.Errorf("server context has no platform")
	}

	index := mcp.NewResource(IndexURI, "Platform resources",
		mcp.WithResourceDescription("Index of the bundled platform resources"),
		mcp.WithMIMEType("application/json"),
	)
	s.AddResource(index, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleIndex(request, p)
	})

	for _, name := range platform.ResourceNames() {
		resource := mcp.NewResource(URI(name), name,
			mcp.WithResourceDescription(fmt.Sprintf("Bundled platform image %q", name)),
			mcp.WithMIMEType("image/png"),
		)
		s.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			return handleResource(request, p)
		})
	}
	return nil
}

// Index describes every bundled resource.
func Index(p platform.Client) []Entry {
	names := platform.ResourceNames()
	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		res := p.LoadResource(name)
		entries = append(entries, Entry{
			Name:     name,
			URI:      URI(name),
			MIMEType: res.MIMEType,
			Width:    res.Width,
			Height:   res.Height,
			Size:     len(res.Data),
		})
	}
	return entries
}

func handleIndex(request mcp.ReadResourceRequest, p platform.Client) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(Index(p), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource index: %w", err)
	}
	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func handleResource(request mcp.ReadResourceRequest, p platform.Client) ([]mcp.ResourceContents, error) {
	// Names are checked first: LoadResource panics on unknown names.
	name, err := NameFromURI(request.Params.URI)
	if err != nil {
		return nil, err
	}
	res := p.LoadResource(name)
	return []mcp.ResourceContents{
		&mcp.BlobResourceContents{
			URI:      request.Params.URI,
			MIMEType: res.MIMEType,
			Blob:     base64.StdEncoding.EncodeToString(res.Data),
		},
	}, nil
}
