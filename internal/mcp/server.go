// Package mcp assembles the MCP server that exposes Redmine operations
// as tools. Each tool is a stateless one-shot adapter: arguments in,
// one REST call out, raw JSON back.
package mcp

import (
	"context"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	serverName    = "redmine-mcp"
	serverVersion = "1.0.0"
)

type ToolAdapter interface {
	ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

type Server struct {
	MCP     *server.MCPServer
	HTTP    *server.StreamableHTTPServer
	Handler http.Handler
}

func New(cfg Config) *Server {
	mcpServer := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	definitions := toolDefinitions()
	for name, adapter := range cfg.ToolAdapters {
		tool, ok := definitions[name]
		if !ok {
			// An adapter without a schema would register a tool with an
			// empty name; leave it out instead.
			continue
		}
		mcpServer.AddTool(tool, adapter.ToolAdapter)
	}

	httpServer := server.NewStreamableHTTPServer(mcpServer, cfg.Options...)

	return &Server{
		MCP:     mcpServer,
		HTTP:    httpServer,
		Handler: httpServer,
	}
}

// toolDefinitions declares the schema of every exposed tool using the
// mcp-go builder pattern. Argument names and semantics follow the
// Redmine REST API.
func toolDefinitions() map[string]mcp.Tool {
	return map[string]mcp.Tool{
		"list_projects": mcp.NewTool("list_projects",
			mcp.WithDescription("List accessible Redmine projects with their id, name, identifier and description. Returns one page plus total_count for pagination."),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of projects to return (default: 25, max: 100)"),
			),
			mcp.WithNumber("offset",
				mcp.Description("Offset for pagination (default: 0)"),
			),
		),
		"get_project": mcp.NewTool("get_project",
			mcp.WithDescription("Get detailed information about a project, including its trackers and issue categories."),
			mcp.WithNumber("project_id",
				mcp.Required(),
				mcp.Description("The ID of the project to retrieve"),
			),
		),
		"get_project_members": mcp.NewTool("get_project_members",
			mcp.WithDescription("List the members of a project with their roles. Use this to see who can be assigned to issues."),
			mcp.WithNumber("project_id",
				mcp.Required(),
				mcp.Description("The ID of the project"),
			),
		),
		"list_issues": mcp.NewTool("list_issues",
			mcp.WithDescription("Search and list issues with filters. Returns one page of issues plus total_count, limit and offset for pagination."),
			mcp.WithNumber("project_id",
				mcp.Description("Filter by project ID"),
			),
			mcp.WithNumber("tracker_id",
				mcp.Description("Filter by tracker ID"),
			),
			mcp.WithString("status_id",
				mcp.Description("Filter by status: 'open', 'closed', '*' for all, or a numeric status id (default: '*')"),
			),
			mcp.WithNumber("assigned_to_id",
				mcp.Description("Filter by assigned user ID"),
			),
			mcp.WithNumber("priority_id",
				mcp.Description("Filter by priority ID"),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of issues to return (default: 25, max: 100)"),
			),
			mcp.WithNumber("offset",
				mcp.Description("Offset for pagination (default: 0)"),
			),
		),
		"get_issue": mcp.NewTool("get_issue",
			mcp.WithDescription("Get detailed information about an issue, including journals (comments), children, attachments and relations."),
			mcp.WithNumber("issue_id",
				mcp.Required(),
				mcp.Description("The ID of the issue to retrieve"),
			),
		),
		"create_issue": mcp.NewTool("create_issue",
			mcp.WithDescription("Create a new issue. Retrying an identical call creates a second issue; there is no deduplication."),
			mcp.WithNumber("project_id",
				mcp.Required(),
				mcp.Description("Project ID the issue belongs to"),
			),
			mcp.WithString("subject",
				mcp.Required(),
				mcp.Description("Issue subject/title"),
			),
			mcp.WithString("description",
				mcp.Description("Issue description"),
			),
			mcp.WithNumber("tracker_id",
				mcp.Description("Tracker ID (project default when omitted)"),
			),
			mcp.WithNumber("status_id",
				mcp.Description("Status ID"),
			),
			mcp.WithNumber("priority_id",
				mcp.Description("Priority ID"),
			),
			mcp.WithNumber("assigned_to_id",
				mcp.Description("Assigned user ID"),
			),
			mcp.WithNumber("parent_issue_id",
				mcp.Description("Parent issue ID for subtasks"),
			),
			mcp.WithString("start_date",
				mcp.Description("Start date in YYYY-MM-DD format"),
			),
			mcp.WithString("due_date",
				mcp.Description("Due date in YYYY-MM-DD format"),
			),
		),
		"update_issue": mcp.NewTool("update_issue",
			mcp.WithDescription("Update fields of an existing issue and/or add a comment via notes. At least one field is required. Returns the updated issue."),
			mcp.WithNumber("issue_id",
				mcp.Required(),
				mcp.Description("Issue ID to update"),
			),
			mcp.WithString("subject",
				mcp.Description("New subject/title"),
			),
			mcp.WithString("description",
				mcp.Description("New description"),
			),
			mcp.WithNumber("tracker_id",
				mcp.Description("New tracker ID"),
			),
			mcp.WithNumber("status_id",
				mcp.Description("New status ID"),
			),
			mcp.WithNumber("priority_id",
				mcp.Description("New priority ID"),
			),
			mcp.WithNumber("assigned_to_id",
				mcp.Description("New assigned user ID"),
			),
			mcp.WithString("notes",
				mcp.Description("Comment to add to the issue history"),
			),
			mcp.WithNumber("done_ratio",
				mcp.Description("Progress percentage, 0-100"),
			),
		),
		"add_issue_comment": mcp.NewTool("add_issue_comment",
			mcp.WithDescription("Add a comment to an issue's history without changing any other field."),
			mcp.WithNumber("issue_id",
				mcp.Required(),
				mcp.Description("Issue ID to comment on"),
			),
			mcp.WithString("notes",
				mcp.Required(),
				mcp.Description("Comment text"),
			),
		),
		"create_issue_relation": mcp.NewTool("create_issue_relation",
			mcp.WithDescription("Create a relation between two issues. Some types create their inverse on the other side (blocks/blocked, precedes/follows)."),
			mcp.WithNumber("issue_id",
				mcp.Required(),
				mcp.Description("Source issue ID"),
			),
			mcp.WithNumber("issue_to_id",
				mcp.Required(),
				mcp.Description("Target issue ID to relate to"),
			),
			mcp.WithString("relation_type",
				mcp.Required(),
				mcp.Description("Type of relation"),
				mcp.Enum("relates", "duplicates", "duplicated", "blocks", "blocked", "precedes", "follows", "copied_to", "copied_from"),
			),
			mcp.WithNumber("delay",
				mcp.Description("Delay in days, only for precedes/follows relations"),
			),
		),
		"delete_issue_relation": mcp.NewTool("delete_issue_relation",
			mcp.WithDescription("Delete an issue relation by its ID. Relation IDs appear in the relations array of get_issue."),
			mcp.WithNumber("relation_id",
				mcp.Required(),
				mcp.Description("The ID of the relation to delete"),
			),
		),
		"list_trackers": mcp.NewTool("list_trackers",
			mcp.WithDescription("List available trackers (issue types, e.g. Bug, Feature). Use this to get tracker IDs for creating or updating issues."),
		),
		"list_issue_statuses": mcp.NewTool("list_issue_statuses",
			mcp.WithDescription("List available issue statuses (e.g. New, In Progress, Closed) with their is_closed flag."),
		),
		"list_priorities": mcp.NewTool("list_priorities",
			mcp.WithDescription("List available issue priorities (e.g. Low, Normal, High) with their is_default flag."),
		),
		"list_users": mcp.NewTool("list_users",
			mcp.WithDescription("List Redmine users. Use this to get user IDs for assigning issues."),
			mcp.WithNumber("status",
				mcp.Description("User status filter (1=active, 2=registered, 3=locked, default: 1)"),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of users to return (default: 100)"),
			),
		),
	}
}

// ServeStdio runs the server on stdin/stdout until the stream closes.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.MCP)
}
