package bep

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wwpbim/bepgen/kit"
	"github.com/wwpbim/bepgen/payload"
)

// RegisterMCP registers the bepgen tools on an MCP server.
func (s *Service) RegisterMCP(srv *mcp.Server) {
	s.registerFillTool(srv)
	s.registerGenerateTool(srv)
	s.registerTopicsTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// --- fill ---

type fillReq struct {
	Template     string           `json:"template"`
	Payload      *payload.Payload `json:"payload"`
	RemoveTopics []string         `json:"remove_topics"`
}

func (s *Service) registerFillTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "bep_fill",
		Description: "Fill a BEP template with project answers, remove deselected sections, and apply the watermark when requested. Returns the output path and change counts.",
		InputSchema: inputSchema(map[string]any{
			"template":      map[string]any{"type": "string", "description": "Template .docx path; defaults to the configured template"},
			"payload":       map[string]any{"type": "object", "description": "Project answers (ProjectName, Client, software versions, ...)"},
			"remove_topics": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Canonical section names to remove"},
		}, nil),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*fillReq)
		outcome, err := s.Fill(ctx, FillRequest{
			TemplatePath: r.Template,
			Payload:      r.Payload,
			RemoveTopics: r.RemoveTopics,
		})
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"output_path": outcome.OutputPath,
			"changes":     outcome.Changes(),
			"fields":      outcome.Fields,
			"fixes":       outcome.Fixes,
			"removed":     outcome.Removed,
			"watermarked": outcome.Watermarked,
		}, nil
	}

	decode := func(req *mcp.CallToolRequest) (any, error) {
		var r fillReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &r, nil
	}

	kit.RegisterMCPTool(srv, tool, kit.Logging(s.logger, tool.Name)(endpoint), decode)
}

// --- generate ---

type generateReq struct {
	Payload *payload.Payload `json:"payload"`
}

func (s *Service) registerGenerateTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "bep_generate",
		Description: "Generate narrative BEP prose from project answers and save it as Markdown. On engine failure the engine's stderr is returned as the text with from_error set.",
		InputSchema: inputSchema(map[string]any{
			"payload": map[string]any{"type": "object", "description": "Project answers (ProjectName, Client, software versions, ...)"},
		}, nil),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*generateReq)
		outcome, err := s.Generate(ctx, r.Payload)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"text":        outcome.Text,
			"output_path": outcome.OutputPath,
			"from_error":  outcome.FromError,
		}, nil
	}

	decode := func(req *mcp.CallToolRequest) (any, error) {
		var r generateReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &r, nil
	}

	kit.RegisterMCPTool(srv, tool, kit.Logging(s.logger, tool.Name)(endpoint), decode)
}

// --- topics ---

func (s *Service) registerTopicsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "bep_topics",
		Description: "List the canonical BEP section names by group. Only these names can be selectively removed by bep_fill.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(_ context.Context, _ any) (any, error) {
		var groups []map[string]any
		for _, g := range payload.Groups() {
			groups = append(groups, map[string]any{
				"name":   g.Name,
				"topics": payload.GroupTopics(g),
			})
		}
		return map[string]any{"groups": groups}, nil
	}

	decode := func(_ *mcp.CallToolRequest) (any, error) {
		return nil, nil
	}

	kit.RegisterMCPTool(srv, tool, kit.Logging(s.logger, tool.Name)(endpoint), decode)
}
