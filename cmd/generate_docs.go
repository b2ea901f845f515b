package cmd

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
	"text/template"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/drivekit/internal/drive"
	"github.com/teemow/drivekit/internal/platform"
	"github.com/teemow/drivekit/internal/resources"
	"github.com/teemow/drivekit/internal/server"
)

func newGenerateDocsCmd(opts *globalOptions) *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "generate-docs",
		Short: "Generate MCP tool documentation",
		Long: `Render a markdown reference of every MCP tool and resource drivekit serves.
The reference is built from the registered tool definitions, so argument
names and descriptions always match the running server.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			markdown, err := buildToolsMarkdown(opts)
			if err != nil {
				return err
			}
			if outputFile == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), markdown)
				return err
			}
			if err := os.WriteFile(outputFile, []byte(markdown), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outputFile, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", outputFile)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

// buildToolsMarkdown registers every tool, write tools included, on a
// throwaway server. No Drive client is ever created.
func buildToolsMarkdown(opts *globalOptions) (string, error) {
	sc, err := server.NewServerContext(context.Background(),
		server.WithClientFactory(func(context.Context, string) (*drive.Client, error) {
			return nil, errors.New("no Drive access while generating documentation")
		}),
		server.WithPlatform(newPlatform(opts)),
		server.WithAuthorizer(opts.tokenProvider()),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() { _ = sc.Shutdown() }()

	s := mcpserver.NewMCPServer("drivekit", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false),
	)
	if err := registerAllTools(s, sc, false); err != nil {
		return "", err
	}

	tools := make([]mcp.Tool, 0, len(s.ListTools()))
	for _, st := range s.ListTools() {
		tools = append(tools, st.Tool)
	}
	return generateToolsMarkdown(tools)
}

var docsTemplate = template.Must(template.New("tools").Parse(`# MCP Tools Reference

drivekit serves the tools and resources below over MCP stdio. This file is generated with ` + "`drivekit generate-docs`" + `.

## Contents
{{range .Categories}}
- [{{.Name}}](#{{.Anchor}})
{{- end}}

## Accounts

Every Drive tool takes an optional ` + "`account`" + ` argument naming the OAuth token to use. Without it the server account applies (` + "`--account`" + `, ` + "`default`" + ` unless configured). Calls for different accounts may be mixed freely.

## Safety Mode

Tools that modify Drive are registered only with ` + "`serve --yolo`" + `:
{{range .WriteTools}}
- ` + "`{{.}}`" + `
{{- end}}
{{range .Categories}}
## {{.Name}}
{{range .Tools}}
### {{.Name}}
{{if .Description}}
{{.Description}}
{{end}}
{{- if .Args}}
**Arguments:**
{{range .Args}}- ` + "`{{.Name}}`" + ` ({{.Presence}}): {{.Text}}
{{end}}{{end}}{{end}}{{end}}
## Platform Resources

` + "`{{.IndexURI}}`" + ` returns a JSON index. Each bundled image is served as a base64 blob:
{{range .Resources}}
- ` + "`{{.}}`" + `
{{- end}}
`))

type docsPage struct {
	Categories []docsCategory
	WriteTools []string
	IndexURI   string
	Resources  []string
}

type docsCategory struct {
	Name   string
	Anchor string
	Tools  []docsTool
}

type docsTool struct {
	Name        string
	Description string
	Args        []docsArg
}

type docsArg struct {
	Name     string
	Presence string
	Text     string
}

func generateToolsMarkdown(tools []mcp.Tool) (string, error) {
	slices.SortFunc(tools, func(a, b mcp.Tool) int { return strings.Compare(a.Name, b.Name) })

	byCategory := make(map[string][]docsTool)
	page := docsPage{IndexURI: resources.IndexURI}
	for _, tool := range tools {
		category := getCategoryFromToolName(tool.Name)
		byCategory[category] = append(byCategory[category], docsTool{
			Name:        tool.Name,
			Description: tool.Description,
			Args:        toolArgs(tool),
		})
		if isWriteTool(tool) {
			page.WriteTools = append(page.WriteTools, tool.Name)
		}
	}
	for _, name := range slices.Sorted(maps.Keys(byCategory)) {
		page.Categories = append(page.Categories, docsCategory{
			Name:   name,
			Anchor: strings.ToLower(strings.ReplaceAll(name, " ", "-")),
			Tools:  byCategory[name],
		})
	}
	for _, name := range platform.ResourceNames() {
		page.Resources = append(page.Resources, resources.URI(name))
	}

	var sb strings.Builder
	if err := docsTemplate.Execute(&sb, page); err != nil {
		return "", fmt.Errorf("failed to render tool docs: %w", err)
	}
	return sb.String(), nil
}

// toolArgs lists the schema properties by name. Properties without a
// description are described by their JSON type.
func toolArgs(tool mcp.Tool) []docsArg {
	var args []docsArg
	for _, name := range slices.Sorted(maps.Keys(tool.InputSchema.Properties)) {
		prop, ok := tool.InputSchema.Properties[name].(map[string]any)
		if !ok {
			continue
		}
		arg := docsArg{Name: name, Presence: "optional"}
		if slices.Contains(tool.InputSchema.Required, name) {
			arg.Presence = "required"
		}
		if desc, ok := prop["description"].(string); ok {
			arg.Text = desc
		} else if typ, ok := prop["type"].(string); ok {
			arg.Text = typ + " parameter"
		} else {
			arg.Text = "any parameter"
		}
		args = append(args, arg)
	}
	return args
}

// isWriteTool reports whether tool is a Drive tool that needs --yolo.
func isWriteTool(tool mcp.Tool) bool {
	hint := tool.Annotations.ReadOnlyHint
	return strings.HasPrefix(tool.Name, "drive_") && hint != nil && !*hint
}

func getCategoryFromToolName(name string) string {
	prefix, _, _ := strings.Cut(name, "_")
	switch prefix {
	case "drive":
		return "Google Drive Tools"
	case "google":
		return "Google OAuth Tools"
	}
	return "Other"
}
