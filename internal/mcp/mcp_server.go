// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wikireflex/reflex/core"
	"github.com/wikireflex/reflex/internal/contract"
)

// NewMCPServer initializes and configures the Reflex MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(store contract.Store) *server.MCPServer {
	s := server.NewMCPServer(
		"Reflex Analytics Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		store:    store,
		composer: core.NewComposer(store),
	}

	// --- 1. Tool: query_edits ---
	s.AddTool(mcp.NewTool("query_edits",
		mcp.WithDescription("Count wiki edits per user, page, week or assessment within a time window."),
		mcp.WithString("user", mcp.Description("Pipe-separated user names to filter by.")),
		mcp.WithString("page", mcp.Description("Pipe-separated page titles to filter by.")),
		mcp.WithString("namespace", mcp.Description("Pipe-separated namespace names or ids (defaults to Article).")),
		mcp.WithString("group", mcp.Description("Grouping dimensions from user, page, date, assessment, pipe-separated.")),
		mcp.WithString("sd", mcp.Description("Start date, YYYYMMDD.")),
		mcp.WithString("ed", mcp.Description("End date, YYYYMMDD.")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of result rows.")),
	), h.handleQueryEdits)

	// --- 2. Tool: project_members ---
	s.AddTool(mcp.NewTool("project_members",
		mcp.WithDescription("Reconstruct the membership of a wiki project from its link history."),
		mcp.WithString("project", mcp.Description("Project title, e.g. WikiProject_Cats."), mcp.Required()),
		mcp.WithString("sd", mcp.Description("Start date, YYYYMMDD.")),
		mcp.WithString("ed", mcp.Description("End date, YYYYMMDD.")),
	), h.handleProjectMembers)

	// --- 3. Tool: active_projects ---
	s.AddTool(mcp.NewTool("active_projects",
		mcp.WithDescription("List projects by activity in the most recent snapshot, as a per-namespace edit matrix."),
	), h.handleActiveProjects)

	return s
}

// StartMCPServer starts the Reflex MCP server over stdio.
func StartMCPServer(_ context.Context, store contract.Store) error {
	s := NewMCPServer(store)
	return server.ServeStdio(s)
}
