package tools

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/nmoran/redmine-mcp/internal/redmine"
)

// MetadataService covers the read-only enumeration lookups. These are
// fetched from Redmine on every call, never cached. *redmine.Client
// satisfies it.
type MetadataService interface {
	ListTrackers(ctx context.Context) (json.RawMessage, error)
	ListIssueStatuses(ctx context.Context) (json.RawMessage, error)
	ListPriorities(ctx context.Context) (json.RawMessage, error)
	ListUsers(ctx context.Context, filter redmine.UserFilter) (json.RawMessage, error)
}

type ListTrackersHandler struct{ Service MetadataService }

func (h *ListTrackersHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := h.Service.ListTrackers(ctx)
	if err != nil {
		return failure(err), nil
	}
	return passthrough(raw), nil
}

type ListIssueStatusesHandler struct{ Service MetadataService }

func (h *ListIssueStatusesHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := h.Service.ListIssueStatuses(ctx)
	if err != nil {
		return failure(err), nil
	}
	return passthrough(raw), nil
}

type ListPrioritiesHandler struct{ Service MetadataService }

func (h *ListPrioritiesHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := h.Service.ListPriorities(ctx)
	if err != nil {
		return failure(err), nil
	}
	return passthrough(raw), nil
}

type ListUsersHandler struct{ Service MetadataService }

func (h *ListUsersHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	status, err := intOr(args, "status", 0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit, err := intOr(args, "limit", 0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	raw, err := h.Service.ListUsers(ctx, redmine.UserFilter{Status: status, Limit: limit})
	if err != nil {
		return failure(err), nil
	}
	return passthrough(raw), nil
}
