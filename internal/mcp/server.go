// Package mcp exposes the dashboard to MCP clients over stdio. The tools are
// read-only: each call owns its selection state and renders from a fresh
// load, exactly like a web request.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/roach88/aethervision/internal/render"
	"github.com/roach88/aethervision/internal/shell"
	"github.com/roach88/aethervision/internal/termview"
)

// Server wraps an MCP server presenting a Shell.
type Server struct {
	MCPServer *sdkmcp.Server

	shell *shell.Shell
	text  *termview.Renderer
}

// NewServer creates an MCP server with the dashboard tools registered.
func NewServer(sh *shell.Shell, version string) *Server {
	s := &Server{
		shell: sh,
		text:  termview.New(),
	}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "aether", Version: version},
		nil,
	)
	s.registerTools()
	return s
}

// Run serves over stdin/stdout until ctx is cancelled or the client leaves.
func (s *Server) Run(ctx context.Context) error {
	slog.Info("starting MCP server over stdio")
	return s.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "list_modules",
		Description: "List the dashboard modules in menu order, with how many of each module's artifacts are currently available.",
	}, s.handleListModules)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "render_module",
		Description: "Load a module's artifacts fresh and render them: tables, derived charts and missing-file notices. Widgets select filter values (f.<artifact>) and map columns (lat.<artifact>, lon.<artifact>, color.<artifact>).",
	}, s.handleRenderModule)
}

// --- Tool input/output types ---

type listModulesInput struct{}

type moduleSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Artifacts int    `json:"artifacts"`
	Available int    `json:"available"`
}

type listModulesOutput struct {
	Modules []moduleSummary `json:"modules"`
}

type renderModuleInput struct {
	Module  string            `json:"module" jsonschema:"module id, e.g. branch4"`
	Widgets map[string]string `json:"widgets,omitempty" jsonschema:"widget selections keyed by parameter name"`
	Format  string            `json:"format,omitempty" jsonschema:"json (default) or text"`
}

// --- Tool handlers ---

func (s *Server) handleListModules(_ context.Context, _ *sdkmcp.CallToolRequest, _ listModulesInput) (*sdkmcp.CallToolResult, listModulesOutput, error) {
	out := listModulesOutput{Modules: []moduleSummary{}}
	for _, m := range s.shell.Registry.Modules() {
		loaded := s.shell.Loader.LoadAll(m.Artifacts)
		available := 0
		for _, l := range loaded {
			if l.OK() {
				available++
			}
		}
		out.Modules = append(out.Modules, moduleSummary{
			ID:        m.ID,
			Title:     m.Title,
			Artifacts: len(m.Artifacts),
			Available: available,
		})
	}
	return nil, out, nil
}

func (s *Server) handleRenderModule(_ context.Context, _ *sdkmcp.CallToolRequest, input renderModuleInput) (*sdkmcp.CallToolResult, any, error) {
	if input.Module == "" {
		return nil, nil, fmt.Errorf("module is required")
	}
	if _, ok := s.shell.Registry.Lookup(input.Module); !ok {
		return nil, nil, fmt.Errorf("unknown module %q", input.Module)
	}

	state := shell.State{Module: input.Module, Widgets: render.Widgets{}}
	for k, v := range input.Widgets {
		if !render.IsWidgetParam(k) {
			return nil, nil, fmt.Errorf("unknown widget %q", k)
		}
		state.Widgets[k] = v
	}
	view := s.shell.View(state)
	slog.Debug("mcp render", "module", view.Module.ID, "sections", len(view.Sections))

	var text string
	switch input.Format {
	case "", "json":
		data, err := json.Marshal(view)
		if err != nil {
			return nil, nil, fmt.Errorf("encoding view: %w", err)
		}
		text = string(data)
	case "text":
		text = s.text.Render(view)
	default:
		return nil, nil, fmt.Errorf("unsupported format %q (use json or text)", input.Format)
	}

	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: text}},
	}, nil, nil
}
