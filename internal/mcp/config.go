package mcp

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"

	"github.com/nmoran/redmine-mcp/internal/config"
	"github.com/nmoran/redmine-mcp/internal/logging"
	"github.com/nmoran/redmine-mcp/internal/mcp/tools"
	"github.com/nmoran/redmine-mcp/internal/redmine"
)

type Config struct {
	ToolAdapters map[string]ToolAdapter
	Options      []server.StreamableHTTPOption
}

// DefaultConfig builds the production wiring: one Redmine client shared
// by every tool handler. It fails when REDMINE_URL or REDMINE_API_KEY
// are unset so misconfiguration surfaces at startup, not on the first
// tool call.
func DefaultConfig(log logging.Logger) (Config, error) {
	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	client, err := redmine.NewClient(redmine.Config{
		URL:     config.RedmineURL(),
		APIKey:  config.RedmineAPIKey(),
		Timeout: config.RedmineTimeout(),
		Logger:  log.WithName("redmine"),
	})
	if err != nil {
		return Config{}, fmt.Errorf("create redmine client: %w", err)
	}

	return Config{
		ToolAdapters: map[string]ToolAdapter{
			"list_projects":         &tools.ListProjectsHandler{Service: client},
			"get_project":           &tools.GetProjectHandler{Service: client},
			"get_project_members":   &tools.ProjectMembersHandler{Service: client},
			"list_issues":           &tools.ListIssuesHandler{Service: client},
			"get_issue":             &tools.GetIssueHandler{Service: client},
			"create_issue":          &tools.CreateIssueHandler{Service: client},
			"update_issue":          &tools.UpdateIssueHandler{Service: client},
			"add_issue_comment":     &tools.AddIssueCommentHandler{Service: client},
			"create_issue_relation": &tools.CreateRelationHandler{Service: client},
			"delete_issue_relation": &tools.DeleteRelationHandler{Service: client},
			"list_trackers":         &tools.ListTrackersHandler{Service: client},
			"list_issue_statuses":   &tools.ListIssueStatusesHandler{Service: client},
			"list_priorities":       &tools.ListPrioritiesHandler{Service: client},
			"list_users":            &tools.ListUsersHandler{Service: client},
		},
		Options: []server.StreamableHTTPOption{
			server.WithEndpointPath(config.EndpointPath()),
			server.WithStateLess(true),
		},
	}, nil
}
