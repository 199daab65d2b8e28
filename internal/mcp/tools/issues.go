package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/nmoran/redmine-mcp/internal/redmine"
)

// IssueService is the slice of the Redmine client the issue tools
// depend on. *redmine.Client satisfies it.
type IssueService interface {
	ListIssues(ctx context.Context, filter redmine.IssueFilter) (json.RawMessage, error)
	GetIssue(ctx context.Context, issueID int) (json.RawMessage, error)
	CreateIssue(ctx context.Context, issue redmine.IssueCreate) (json.RawMessage, error)
	UpdateIssue(ctx context.Context, issueID int, update redmine.IssueUpdate) (json.RawMessage, error)
	AddIssueNote(ctx context.Context, issueID int, notes string) (json.RawMessage, error)
}

type ListIssuesHandler struct{ Service IssueService }

func (h *ListIssuesHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	var filter redmine.IssueFilter
	for name, dst := range map[string]*int{
		"project_id":     &filter.ProjectID,
		"tracker_id":     &filter.TrackerID,
		"assigned_to_id": &filter.AssignedToID,
		"priority_id":    &filter.PriorityID,
	} {
		ptr, err := optionalInt(args, name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if ptr != nil {
			*dst = *ptr
		}
	}

	statusID, err := stringOr(args, "status_id", "*")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	filter.StatusID = statusID

	if filter.Limit, err = intOr(args, "limit", 0); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if filter.Offset, err = intOr(args, "offset", 0); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	raw, err := h.Service.ListIssues(ctx, filter)
	if err != nil {
		return failure(err), nil
	}
	return passthrough(raw), nil
}

type GetIssueHandler struct{ Service IssueService }

func (h *GetIssueHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issueID, err := requireInt(req.GetArguments(), "issue_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	raw, err := h.Service.GetIssue(ctx, issueID)
	if err != nil {
		return failure(err), nil
	}
	return passthrough(raw), nil
}

type CreateIssueHandler struct{ Service IssueService }

func (h *CreateIssueHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	projectID, err := requireInt(args, "project_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	subject, err := requireString(args, "subject")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	issue := redmine.IssueCreate{ProjectID: projectID, Subject: subject}

	if issue.Description, err = stringOr(args, "description", ""); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	for name, dst := range map[string]**int{
		"tracker_id":      &issue.TrackerID,
		"status_id":       &issue.StatusID,
		"priority_id":     &issue.PriorityID,
		"assigned_to_id":  &issue.AssignedToID,
		"parent_issue_id": &issue.ParentIssueID,
	} {
		if *dst, err = optionalInt(args, name); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	if issue.StartDate, err = stringOr(args, "start_date", ""); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if issue.DueDate, err = stringOr(args, "due_date", ""); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	raw, err := h.Service.CreateIssue(ctx, issue)
	if err != nil {
		return failure(err), nil
	}
	return passthrough(raw), nil
}

type UpdateIssueHandler struct{ Service IssueService }

func (h *UpdateIssueHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	issueID, err := requireInt(args, "issue_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var update redmine.IssueUpdate
	for name, dst := range map[string]**string{
		"subject":     &update.Subject,
		"description": &update.Description,
		"notes":       &update.Notes,
	} {
		if *dst, err = optionalString(args, name); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	for name, dst := range map[string]**int{
		"tracker_id":     &update.TrackerID,
		"status_id":      &update.StatusID,
		"priority_id":    &update.PriorityID,
		"assigned_to_id": &update.AssignedToID,
	} {
		if *dst, err = optionalInt(args, name); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	if value, ok := args["done_ratio"]; ok && value != nil {
		ratio, err := toInt(value, "done_ratio")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if ratio < 0 || ratio > 100 {
			return mcp.NewToolResultError(fmt.Sprintf("done_ratio must be between 0 and 100, got %d", ratio)), nil
		}
		update.DoneRatio = &ratio
	}

	if update.IsEmpty() {
		return mcp.NewToolResultError("at least one field must be specified for update"), nil
	}

	raw, err := h.Service.UpdateIssue(ctx, issueID, update)
	if err != nil {
		return failure(err), nil
	}
	return passthrough(raw), nil
}

type AddIssueCommentHandler struct{ Service IssueService }

func (h *AddIssueCommentHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	issueID, err := requireInt(args, "issue_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	notes, err := requireString(args, "notes")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	raw, err := h.Service.AddIssueNote(ctx, issueID, notes)
	if err != nil {
		return failure(err), nil
	}
	return passthrough(raw), nil
}
