package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/spool/pkg/app"
	"tableflip.dev/spool/pkg/timeutil"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerListRollsTool(srv, svc)
	registerGetRollTool(srv, svc)
	registerAddRollTool(srv, svc)
	registerUseFilamentTool(srv, svc)
	registerArchiveRollTool(srv, svc)
	registerLowStockTool(srv, svc)
	registerProjectStatsTool(srv, svc)
	registerSetThresholdTool(srv, svc)
	registerClearThresholdTool(srv, svc)
	registerUsageReportTool(srv, svc)
}

func registerListRollsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_rolls",
		mcp.WithDescription("List filament rolls with their remaining weight and stock status."),
		mcp.WithBoolean("archived",
			mcp.Description("List archived rolls instead of active ones."),
		),
		mcp.WithString("query",
			mcp.Description("Case-insensitive text to look for."),
		),
		mcp.WithString("field",
			mcp.Description("Limit the query to one field."),
			mcp.Enum(app.FilterFields...),
		),
		mcp.WithString("sort_by",
			mcp.Description("Column to sort by, remaining_grams by default."),
			mcp.Enum(app.SortColumns...),
		),
		mcp.WithBoolean("descending",
			mcp.Description("Sort in descending order."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Archived   bool   `json:"archived"`
			Query      string `json:"query"`
			Field      string `json:"field"`
			SortBy     string `json:"sort_by"`
			Descending bool   `json:"descending"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		rolls, err := svc.ListRolls(ctx, app.ListOptions{
			Archived:   args.Archived,
			Field:      args.Field,
			Query:      args.Query,
			SortBy:     args.SortBy,
			Descending: args.Descending,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"rolls": rolls,
			"count": len(rolls),
		})
	})
}

func registerGetRollTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_roll",
		mcp.WithDescription("Fetch a single roll by identifier."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Roll identifier to fetch."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.RollByID(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerAddRollTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"add_roll",
		mcp.WithDescription("Add a new roll of filament to the inventory."),
		mcp.WithString("color",
			mcp.Description("Color name or hex code."),
		),
		mcp.WithString("material",
			mcp.Description("Material such as PLA or PETG."),
		),
		mcp.WithString("description",
			mcp.Description("Free-form notes about the roll."),
		),
		mcp.WithNumber("initial_weight",
			mcp.Required(),
			mcp.Description("Net filament weight in grams when bought."),
		),
		mcp.WithNumber("initial_price",
			mcp.Required(),
			mcp.Description("Price paid for the roll."),
		),
		mcp.WithNumber("remaining",
			mcp.Description("Grams left on the roll, the initial weight by default."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args AddRollOptions
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		dto, err := svc.AddRoll(ctx, args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerUseFilamentTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"use_filament",
		mcp.WithDescription("Record filament taken from an active roll. Empty rolls are archived."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Roll identifier to take filament from."),
		),
		mcp.WithNumber("grams",
			mcp.Required(),
			mcp.Description("Grams used, greater than zero."),
		),
		mcp.WithString("project",
			mcp.Description("Project the filament was used for."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		grams, err := request.RequireFloat("grams")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		project := request.GetString("project", "")

		res, err := svc.UseFilament(ctx, id, grams, project)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(res)
	})
}

func registerArchiveRollTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"archive_roll",
		mcp.WithDescription("Move an active roll to the archive."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Roll identifier to archive."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.ArchiveRoll(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerLowStockTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"low_stock",
		mcp.WithDescription("List active rolls below the threshold of their material."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		a, err := svc.app()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		alerts, err := a.LowStock(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		messages := make([]string, 0, len(alerts))
		for _, alert := range alerts {
			messages = append(messages, alert.String())
		}
		return toJSONResult(map[string]any{
			"alerts":   alerts,
			"messages": messages,
			"count":    len(alerts),
		})
	})
}

func registerProjectStatsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"project_stats",
		mcp.WithDescription("Inventory totals and filament used per project."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		summary, err := svc.Summary(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(summary)
	})
}

func registerSetThresholdTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"set_threshold",
		mcp.WithDescription("Set the low-stock level of a material."),
		mcp.WithString("material",
			mcp.Required(),
			mcp.Description("Material name, matched exactly."),
		),
		mcp.WithNumber("grams",
			mcp.Required(),
			mcp.Description("Level in grams, greater than zero."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		material, err := request.RequireString("material")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		grams, err := request.RequireFloat("grams")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		a, err := svc.app()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		set, err := a.SetThreshold(ctx, material, formatNumber(grams))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(app.Threshold{Material: material, Grams: set})
	})
}

func registerClearThresholdTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"clear_threshold",
		mcp.WithDescription("Remove the low-stock level of a material so the default applies."),
		mcp.WithString("material",
			mcp.Required(),
			mcp.Description("Material name, matched exactly."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		material, err := request.RequireString("material")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		a, err := svc.app()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		removed, err := a.ClearThreshold(ctx, material)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"material": material,
			"removed":  removed,
		})
	})
}

func registerUsageReportTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"usage_report",
		mcp.WithDescription("Filament used in a recent window, grouped by project."),
		mcp.WithString("window",
			mcp.Description(fmt.Sprintf("Window such as 3d, 2w, 1mo or all. Defaults to %s.", timeutil.DefaultWindow)),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		report, err := svc.Usage(ctx, request.GetString("window", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(report)
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
