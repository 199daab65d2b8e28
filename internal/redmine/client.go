package redmine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nmoran/redmine-mcp/internal/logging"
)

const apiKeyHeader = "X-Redmine-API-Key"

// Config holds everything a Client needs. URL and APIKey are required.
type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
	Logger     logging.Logger
}

// Client talks to a single Redmine instance. It is stateless and safe
// for concurrent use; concurrent calls share only the underlying
// http.Client connection pool.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     logging.Logger
}

// NewClient validates the configuration and returns a Client.
func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(cfg.URL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("redmine URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("redmine API key is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		http:    httpClient,
		log:     cfg.Logger,
	}, nil
}

// do issues a single request and returns the raw response body. A nil
// query or body is simply omitted. Empty 2xx bodies (Redmine's answer
// to successful PUT/DELETE) come back as an empty RawMessage.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: endpoint, Err: err}
	}
	c.log.Debug("redmine request", "method", method, "path", path, "status", resp.StatusCode, "elapsed", time.Since(start).String())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp.StatusCode, raw)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return json.RawMessage(nil), nil
	}
	if !json.Valid(raw) {
		return nil, &DecodeError{StatusCode: resp.StatusCode, Err: fmt.Errorf("body is not valid JSON")}
	}
	return json.RawMessage(raw), nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

// ListProjects returns one page of projects visible to the API key.
func (c *Client) ListProjects(ctx context.Context, page Page) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(page.limit(defaultPageLimit)))
	query.Set("offset", strconv.Itoa(page.Offset))
	return c.get(ctx, "/projects.json", query)
}

// GetProject returns a single project with its trackers and categories.
func (c *Client) GetProject(ctx context.Context, projectID int) (json.RawMessage, error) {
	return c.get(ctx, fmt.Sprintf("/projects/%d.json", projectID), nil)
}

// ProjectMemberships returns the members of a project with their roles.
func (c *Client) ProjectMemberships(ctx context.Context, projectID int) (json.RawMessage, error) {
	return c.get(ctx, fmt.Sprintf("/projects/%d/memberships.json", projectID), nil)
}

// ListIssues returns one page of issues matching the filter, plus
// total_count/limit/offset so the caller can paginate.
func (c *Client) ListIssues(ctx context.Context, filter IssueFilter) (json.RawMessage, error) {
	statusID := filter.StatusID
	if statusID == "" {
		statusID = "*"
	}
	query := url.Values{}
	query.Set("status_id", statusID)
	query.Set("limit", strconv.Itoa(filter.limit(defaultPageLimit)))
	query.Set("offset", strconv.Itoa(filter.Offset))
	if filter.ProjectID > 0 {
		query.Set("project_id", strconv.Itoa(filter.ProjectID))
	}
	if filter.TrackerID > 0 {
		query.Set("tracker_id", strconv.Itoa(filter.TrackerID))
	}
	if filter.AssignedToID > 0 {
		query.Set("assigned_to_id", strconv.Itoa(filter.AssignedToID))
	}
	if filter.PriorityID > 0 {
		query.Set("priority_id", strconv.Itoa(filter.PriorityID))
	}
	return c.get(ctx, "/issues.json", query)
}

// GetIssue returns a single issue with journals, children, attachments
// and relations included.
func (c *Client) GetIssue(ctx context.Context, issueID int) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("include", "journals,children,attachments,relations")
	return c.get(ctx, fmt.Sprintf("/issues/%d.json", issueID), query)
}

// CreateIssue creates a new issue and returns it as Redmine reports it,
// including the assigned id. There is no idempotency key: calling this
// twice with identical arguments creates two issues.
func (c *Client) CreateIssue(ctx context.Context, issue IssueCreate) (json.RawMessage, error) {
	body := map[string]IssueCreate{"issue": issue}
	return c.do(ctx, http.MethodPost, "/issues.json", nil, body)
}

// UpdateIssue applies the given field changes. Redmine answers a
// successful PUT with an empty body, so the updated issue is fetched
// back and returned.
func (c *Client) UpdateIssue(ctx context.Context, issueID int, update IssueUpdate) (json.RawMessage, error) {
	body := map[string]IssueUpdate{"issue": update}
	raw, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/issues/%d.json", issueID), nil, body)
	if err != nil {
		return nil, err
	}
	if len(raw) > 0 {
		return raw, nil
	}
	return c.get(ctx, fmt.Sprintf("/issues/%d.json", issueID), nil)
}

// AddIssueNote appends a journal comment to an issue. Redmine models
// comments as an update carrying only the notes field.
func (c *Client) AddIssueNote(ctx context.Context, issueID int, notes string) (json.RawMessage, error) {
	return c.UpdateIssue(ctx, issueID, IssueUpdate{Notes: &notes})
}

// CreateRelation links issueID to another issue and returns the created
// relation.
func (c *Client) CreateRelation(ctx context.Context, issueID int, relation RelationCreate) (json.RawMessage, error) {
	body := map[string]RelationCreate{"relation": relation}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/issues/%d/relations.json", issueID), nil, body)
}

// DeleteRelation removes a relation by its id. Redmine answers 204
// with no body.
func (c *Client) DeleteRelation(ctx context.Context, relationID int) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/relations/%d.json", relationID), nil, nil)
}

// ListTrackers returns the tracker (issue type) enumeration.
func (c *Client) ListTrackers(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/trackers.json", nil)
}

// ListIssueStatuses returns the issue status enumeration.
func (c *Client) ListIssueStatuses(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/issue_statuses.json", nil)
}

// ListPriorities returns the issue priority enumeration.
func (c *Client) ListPriorities(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/enumerations/issue_priorities.json", nil)
}

// ListUsers returns users matching the filter. Requires admin
// privileges on most Redmine instances.
func (c *Client) ListUsers(ctx context.Context, filter UserFilter) (json.RawMessage, error) {
	status := filter.Status
	if status <= 0 {
		status = 1
	}
	limit := filter.Limit
	if limit <= 0 || limit > maxPageLimit {
		limit = maxPageLimit
	}
	query := url.Values{}
	query.Set("status", strconv.Itoa(status))
	query.Set("limit", strconv.Itoa(limit))
	return c.get(ctx, "/users.json", query)
}
