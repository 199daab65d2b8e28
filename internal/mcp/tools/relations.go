package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/nmoran/redmine-mcp/internal/redmine"
)

// RelationService is the slice of the Redmine client the relation tools
// depend on. *redmine.Client satisfies it.
type RelationService interface {
	CreateRelation(ctx context.Context, issueID int, relation redmine.RelationCreate) (json.RawMessage, error)
	DeleteRelation(ctx context.Context, relationID int) (json.RawMessage, error)
}

type CreateRelationHandler struct{ Service RelationService }

func (h *CreateRelationHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	issueID, err := requireInt(args, "issue_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	issueToID, err := requireInt(args, "issue_to_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	relationType, err := requireString(args, "relation_type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !redmine.ValidRelationType(relationType) {
		return mcp.NewToolResultError(fmt.Sprintf(
			"invalid relation_type %q, valid values are: %s",
			relationType, strings.Join(redmine.RelationTypes, ", "))), nil
	}

	relation := redmine.RelationCreate{IssueToID: issueToID, RelationType: relationType}
	if delay, err := optionalInt(args, "delay"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	} else if delay != nil {
		if relationType != "precedes" && relationType != "follows" {
			return mcp.NewToolResultError(fmt.Sprintf(
				"delay is only valid for precedes or follows relations, not %q", relationType)), nil
		}
		relation.Delay = delay
	}

	raw, err := h.Service.CreateRelation(ctx, issueID, relation)
	if err != nil {
		return failure(err), nil
	}
	return passthrough(raw), nil
}

type DeleteRelationHandler struct{ Service RelationService }

func (h *DeleteRelationHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	relationID, err := requireInt(req.GetArguments(), "relation_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	raw, err := h.Service.DeleteRelation(ctx, relationID)
	if err != nil {
		return failure(err), nil
	}
	return passthrough(raw), nil
}
