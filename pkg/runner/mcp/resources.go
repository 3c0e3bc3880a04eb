package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/spool/pkg/app"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerStatsResource(srv, svc)
	registerRollsResource(srv, svc)
	registerProjectsResource(srv, svc)
	registerRollTemplate(srv, svc)
}

func registerStatsResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"spool://stats",
		"Inventory Stats",
		mcp.WithResourceDescription("Rolls used and left, filament used and money spent."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		summary, err := svc.Summary(ctx)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, summary.Stats)
	})
}

func registerRollsResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"spool://rolls",
		"Active Rolls",
		mcp.WithResourceDescription("Active rolls, least filament first."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		rolls, err := svc.ListRolls(ctx, app.ListOptions{})
		if err != nil {
			return nil, err
		}
		payload := map[string]any{
			"rolls": rolls,
			"count": len(rolls),
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func registerProjectsResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"spool://projects",
		"Projects",
		mcp.WithResourceDescription("Filament and money used per project."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		summary, err := svc.Summary(ctx)
		if err != nil {
			return nil, err
		}
		payload := map[string]any{
			"projects": summary.Projects,
			"count":    len(summary.Projects),
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func registerRollTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"spool://rolls/{id}",
		"Roll Details",
		mcp.WithTemplateDescription("Detailed information about a single roll."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id := templateArgument(request.Params.Arguments["id"])
		if id == "" {
			return nil, fmt.Errorf("roll id is required")
		}
		dto, err := svc.RollByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{"roll": dto})
	})
}

// templateArgument reads a URI template variable, which the server may hand
// over as a string or a one element list.
func templateArgument(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []string:
		if len(t) > 0 {
			return t[0]
		}
	}
	return ""
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
