package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/wikireflex/reflex/core"
	"github.com/wikireflex/reflex/internal/contract"
	"github.com/wikireflex/reflex/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	store    contract.Store
	composer *core.Composer
}

func (h *toolHandler) handleQueryEdits(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := &core.EditParams{
		User:      request.GetString("user", ""),
		Page:      request.GetString("page", ""),
		Namespace: request.GetString("namespace", ""),
		Group:     request.GetString("group", ""),
		StartDate: request.GetString("sd", ""),
		EndDate:   request.GetString("ed", ""),
		Limit:     request.GetInt("limit", schema.DefaultEditLimit),
	}

	records, err := h.composer.Edits(ctx, params, time.Now().UTC())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("edit query failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(records, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleProjectMembers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := &core.MemberParams{
		Project:   request.GetString("project", ""),
		StartDate: request.GetString("sd", ""),
		EndDate:   request.GetString("ed", ""),
	}

	members, err := h.composer.Members(ctx, params, time.Now().UTC())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("member reconstruction failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(members, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleActiveProjects(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	week, err := h.store.LatestActivityWeek(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("snapshot lookup failed: %v", err)), nil
	}

	cols := core.ParseActivityGroups("project|namespace")
	rows, err := h.store.ProjectActivity(ctx, &schema.ActivityRequest{
		Week:         week,
		Groups:       cols,
		IncludePages: slices.Contains(cols, core.ActivityTitleColumn),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("activity query failed: %v", err)), nil
	}

	matrix := core.BuildActivityMatrix(rows)
	jsonData, _ := json.MarshalIndent(matrix, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
