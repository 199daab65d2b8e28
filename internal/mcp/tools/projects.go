package tools

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/nmoran/redmine-mcp/internal/redmine"
)

// ProjectService is the slice of the Redmine client the project tools
// depend on. *redmine.Client satisfies it.
type ProjectService interface {
	ListProjects(ctx context.Context, page redmine.Page) (json.RawMessage, error)
	GetProject(ctx context.Context, projectID int) (json.RawMessage, error)
	ProjectMemberships(ctx context.Context, projectID int) (json.RawMessage, error)
}

type ListProjectsHandler struct{ Service ProjectService }

func (h *ListProjectsHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	limit, err := intOr(args, "limit", 0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	offset, err := intOr(args, "offset", 0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	raw, err := h.Service.ListProjects(ctx, redmine.Page{Limit: limit, Offset: offset})
	if err != nil {
		return failure(err), nil
	}
	return passthrough(raw), nil
}

type GetProjectHandler struct{ Service ProjectService }

func (h *GetProjectHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID, err := requireInt(req.GetArguments(), "project_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	raw, err := h.Service.GetProject(ctx, projectID)
	if err != nil {
		return failure(err), nil
	}
	return passthrough(raw), nil
}

type ProjectMembersHandler struct{ Service ProjectService }

func (h *ProjectMembersHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID, err := requireInt(req.GetArguments(), "project_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	raw, err := h.Service.ProjectMemberships(ctx, projectID)
	if err != nil {
		return failure(err), nil
	}
	return passthrough(raw), nil
}
