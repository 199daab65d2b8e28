// redminectl is a diagnostic CLI for poking the configured Redmine
// instance with the same client the MCP server uses. Handy for
// verifying credentials and looking up tracker/status/priority ids.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nmoran/redmine-mcp/internal/config"
	"github.com/nmoran/redmine-mcp/internal/logging"
	"github.com/nmoran/redmine-mcp/internal/redmine"
)

var rootCmd = &cobra.Command{
	Use:   "redminectl",
	Short: "Redmine API diagnostics",
}

func main() {
	rootCmd.AddCommand(
		projectsCmd(),
		projectCmd(),
		membersCmd(),
		issuesCmd(),
		issueCmd(),
		trackersCmd(),
		statusesCmd(),
		prioritiesCmd(),
		usersCmd(),
	)
	config.Init(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newClient() (*redmine.Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return redmine.NewClient(redmine.Config{
		URL:     config.RedmineURL(),
		APIKey:  config.RedmineAPIKey(),
		Timeout: config.RedmineTimeout(),
		Logger:  logging.New(logging.DefaultLogger(config.LogLevel())).WithName("redminectl"),
	})
}

func printJSON(raw json.RawMessage) error {
	if len(raw) == 0 {
		fmt.Println("ok")
		return nil
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return err
	}
	fmt.Println(out.String())
	return nil
}

func idArg(args []string) (int, error) {
	id, err := strconv.Atoi(args[0])
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("expected a positive numeric id, got %q", args[0])
	}
	return id, nil
}

func projectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List accessible projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			limit, _ := cmd.Flags().GetInt("limit")
			offset, _ := cmd.Flags().GetInt("offset")
			raw, err := client.ListProjects(context.Background(), redmine.Page{Limit: limit, Offset: offset})
			if err != nil {
				return err
			}
			return printJSON(raw)
		},
	}
	cmd.Flags().Int("limit", 25, "Page size")
	cmd.Flags().Int("offset", 0, "Page offset")
	return cmd
}

func projectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "project <id>",
		Short: "Show one project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			id, err := idArg(args)
			if err != nil {
				return err
			}
			raw, err := client.GetProject(context.Background(), id)
			if err != nil {
				return err
			}
			return printJSON(raw)
		},
	}
}

func membersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "members <project-id>",
		Short: "List members of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			id, err := idArg(args)
			if err != nil {
				return err
			}
			raw, err := client.ProjectMemberships(context.Background(), id)
			if err != nil {
				return err
			}
			return printJSON(raw)
		},
	}
}

func issuesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issues",
		Short: "List issues with optional filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			var filter redmine.IssueFilter
			filter.ProjectID, _ = cmd.Flags().GetInt("project")
			filter.TrackerID, _ = cmd.Flags().GetInt("tracker")
			filter.StatusID, _ = cmd.Flags().GetString("status")
			filter.AssignedToID, _ = cmd.Flags().GetInt("assignee")
			filter.PriorityID, _ = cmd.Flags().GetInt("priority")
			filter.Limit, _ = cmd.Flags().GetInt("limit")
			filter.Offset, _ = cmd.Flags().GetInt("offset")
			raw, err := client.ListIssues(context.Background(), filter)
			if err != nil {
				return err
			}
			return printJSON(raw)
		},
	}
	cmd.Flags().Int("project", 0, "Filter by project id")
	cmd.Flags().Int("tracker", 0, "Filter by tracker id")
	cmd.Flags().String("status", "*", "Filter by status: open, closed, * or a status id")
	cmd.Flags().Int("assignee", 0, "Filter by assigned user id")
	cmd.Flags().Int("priority", 0, "Filter by priority id")
	cmd.Flags().Int("limit", 25, "Page size")
	cmd.Flags().Int("offset", 0, "Page offset")
	return cmd
}

func issueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "issue <id>",
		Short: "Show one issue with journals and relations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			id, err := idArg(args)
			if err != nil {
				return err
			}
			raw, err := client.GetIssue(context.Background(), id)
			if err != nil {
				return err
			}
			return printJSON(raw)
		},
	}
}

func trackersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trackers",
		Short: "List trackers (issue types)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			raw, err := client.ListTrackers(context.Background())
			if err != nil {
				return err
			}
			return printJSON(raw)
		},
	}
}

func statusesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "statuses",
		Short: "List issue statuses",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			raw, err := client.ListIssueStatuses(context.Background())
			if err != nil {
				return err
			}
			return printJSON(raw)
		},
	}
}

func prioritiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "priorities",
		Short: "List issue priorities",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			raw, err := client.ListPriorities(context.Background())
			if err != nil {
				return err
			}
			return printJSON(raw)
		},
	}
}

func usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List users (requires admin privileges)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			status, _ := cmd.Flags().GetInt("status")
			limit, _ := cmd.Flags().GetInt("limit")
			raw, err := client.ListUsers(context.Background(), redmine.UserFilter{Status: status, Limit: limit})
			if err != nil {
				return err
			}
			return printJSON(raw)
		},
	}
	cmd.Flags().Int("status", 1, "User status (1=active, 2=registered, 3=locked)")
	cmd.Flags().Int("limit", 100, "Page size")
	return cmd
}
