package redmine

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// mockTracker simulates a Redmine instance. It rejects requests without
// the API key header and records the last request it saw.
func mockTracker(t *testing.T) (*httptest.Server, *recordedRequest) {
	t.Helper()
	rec := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.query = r.URL.Query().Encode()
		rec.count++
		if r.Body != nil {
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			rec.body = body
		}

		if r.Header.Get("X-Redmine-API-Key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"errors":["Invalid API key"]}`))
			return
		}

		switch {
		case r.Method == "GET" && r.URL.Path == "/projects.json":
			w.Write([]byte(`{"projects":[{"id":1,"name":"Sandbox","identifier":"sandbox"}],"total_count":1,"offset":0,"limit":25}`))

		case r.Method == "GET" && r.URL.Path == "/projects/1.json":
			w.Write([]byte(`{"project":{"id":1,"name":"Sandbox"}}`))

		case r.Method == "GET" && r.URL.Path == "/projects/1/memberships.json":
			w.Write([]byte(`{"memberships":[{"id":4,"user":{"id":7,"name":"Ana"},"roles":[{"id":1,"name":"Manager"}]}],"total_count":1}`))

		case r.Method == "GET" && r.URL.Path == "/issues.json":
			w.Write([]byte(`{"issues":[{"id":42,"subject":"Broken login"}],"total_count":1,"offset":0,"limit":25}`))

		case r.Method == "GET" && r.URL.Path == "/issues/42.json":
			w.Write([]byte(`{"issue":{"id":42,"subject":"Broken login","journals":[]}}`))

		case r.Method == "GET" && r.URL.Path == "/issues/123.json":
			w.Write([]byte(`{"issue":{"id":123,"subject":"Updated","status":{"id":2,"name":"In Progress"}}}`))

		case r.Method == "POST" && r.URL.Path == "/issues.json":
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"issue":{"id":43,"subject":"New bug"}}`))

		case r.Method == "PUT" && r.URL.Path == "/issues/123.json":
			w.WriteHeader(http.StatusNoContent)

		case r.Method == "POST" && r.URL.Path == "/issues/42/relations.json":
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"relation":{"id":9,"issue_id":42,"issue_to_id":43,"relation_type":"blocks"}}`))

		case r.Method == "DELETE" && r.URL.Path == "/relations/9.json":
			w.WriteHeader(http.StatusNoContent)

		case r.Method == "GET" && r.URL.Path == "/trackers.json":
			w.Write([]byte(`{"trackers":[{"id":1,"name":"Bug"},{"id":2,"name":"Feature"}]}`))

		case r.Method == "GET" && r.URL.Path == "/issue_statuses.json":
			w.Write([]byte(`{"issue_statuses":[{"id":1,"name":"New","is_closed":false}]}`))

		case r.Method == "GET" && r.URL.Path == "/enumerations/issue_priorities.json":
			w.Write([]byte(`{"issue_priorities":[{"id":2,"name":"Normal","is_default":true}]}`))

		case r.Method == "GET" && r.URL.Path == "/users.json":
			w.Write([]byte(`{"users":[{"id":7,"login":"ana","firstname":"Ana","lastname":"Diaz"}],"total_count":1}`))

		case r.URL.Path == "/broken.json":
			w.Write([]byte(`{not json`))

		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"errors":["Not found"]}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

type recordedRequest struct {
	method string
	path   string
	query  string
	body   map[string]any
	count  int
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(Config{URL: baseURL, APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestNewClientRequiresURLAndKey(t *testing.T) {
	if _, err := NewClient(Config{APIKey: "k"}); err == nil {
		t.Fatal("expected error for missing URL")
	}
	if _, err := NewClient(Config{URL: "http://localhost"}); err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestListIssuesBuildsFilterQuery(t *testing.T) {
	srv, rec := mockTracker(t)
	client := newTestClient(t, srv.URL)

	raw, err := client.ListIssues(context.Background(), IssueFilter{ProjectID: 5, StatusID: "open"})
	if err != nil {
		t.Fatalf("ListIssues: %v", err)
	}
	if rec.path != "/issues.json" {
		t.Fatalf("unexpected path %s", rec.path)
	}
	if rec.query != "limit=25&offset=0&project_id=5&status_id=open" {
		t.Fatalf("unexpected query %s", rec.query)
	}

	var result struct {
		Issues []struct {
			ID int `json:"id"`
		} `json:"issues"`
		TotalCount int `json:"total_count"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(result.Issues) != 1 || result.Issues[0].ID != 42 {
		t.Fatalf("unexpected issues %+v", result.Issues)
	}
}

func TestListIssuesCapsLimit(t *testing.T) {
	srv, rec := mockTracker(t)
	client := newTestClient(t, srv.URL)

	if _, err := client.ListIssues(context.Background(), IssueFilter{Page: Page{Limit: 500}}); err != nil {
		t.Fatalf("ListIssues: %v", err)
	}
	if rec.query != "limit=100&offset=0&status_id=%2A" {
		t.Fatalf("unexpected query %s", rec.query)
	}
}

func TestGetIssueIncludesAssociations(t *testing.T) {
	srv, rec := mockTracker(t)
	client := newTestClient(t, srv.URL)

	if _, err := client.GetIssue(context.Background(), 42); err != nil {
		t.Fatalf("GetIssue: %v", err)
	}
	if rec.path != "/issues/42.json" {
		t.Fatalf("unexpected path %s", rec.path)
	}
	if rec.query != "include=journals%2Cchildren%2Cattachments%2Crelations" {
		t.Fatalf("unexpected query %s", rec.query)
	}
}

func TestCreateIssueWrapsPayload(t *testing.T) {
	srv, rec := mockTracker(t)
	client := newTestClient(t, srv.URL)

	tracker := 1
	raw, err := client.CreateIssue(context.Background(), IssueCreate{
		ProjectID: 1,
		Subject:   "New bug",
		TrackerID: &tracker,
	})
	if err != nil {
		t.Fatalf("CreateIssue: %v", err)
	}
	issue, ok := rec.body["issue"].(map[string]any)
	if !ok {
		t.Fatalf("request body missing issue wrapper: %+v", rec.body)
	}
	if issue["subject"] != "New bug" || issue["project_id"] != float64(1) {
		t.Fatalf("unexpected issue payload %+v", issue)
	}
	if _, ok := issue["status_id"]; ok {
		t.Fatal("unset optional field must be omitted")
	}

	var result struct {
		Issue struct {
			ID int `json:"id"`
		} `json:"issue"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if result.Issue.ID != 43 {
		t.Fatalf("unexpected created id %d", result.Issue.ID)
	}
}

func TestUpdateIssueRefetchesAfterEmptyBody(t *testing.T) {
	srv, rec := mockTracker(t)
	client := newTestClient(t, srv.URL)

	status := 2
	notes := "picked up"
	raw, err := client.UpdateIssue(context.Background(), 123, IssueUpdate{StatusID: &status, Notes: &notes})
	if err != nil {
		t.Fatalf("UpdateIssue: %v", err)
	}
	// Last request is the refetch after the 204.
	if rec.method != "GET" || rec.path != "/issues/123.json" {
		t.Fatalf("expected refetch, got %s %s", rec.method, rec.path)
	}
	if rec.count != 2 {
		t.Fatalf("expected exactly one PUT and one GET, got %d requests", rec.count)
	}

	var result struct {
		Issue struct {
			Status struct {
				Name string `json:"name"`
			} `json:"status"`
		} `json:"issue"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if result.Issue.Status.Name != "In Progress" {
		t.Fatalf("unexpected status %q", result.Issue.Status.Name)
	}
}

func TestAPIErrorCarriesStatusAndDetail(t *testing.T) {
	srv, _ := mockTracker(t)
	client := newTestClient(t, srv.URL)

	_, err := client.GetProject(context.Background(), 999)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("unexpected status %d", apiErr.StatusCode)
	}
	if len(apiErr.Detail) != 1 || apiErr.Detail[0] != "Not found" {
		t.Fatalf("unexpected detail %v", apiErr.Detail)
	}
}

func TestAuthFailureHasFriendlyMessage(t *testing.T) {
	srv, _ := mockTracker(t)
	client, err := NewClient(Config{URL: srv.URL, APIKey: "wrong-key"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.ListProjects(context.Background(), Page{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d", apiErr.StatusCode)
	}
}

func TestTransportErrorOnClosedServer(t *testing.T) {
	srv, _ := mockTracker(t)
	client := newTestClient(t, srv.URL)
	srv.Close()

	_, err := client.ListTrackers(context.Background())
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestDecodeErrorOnMalformedBody(t *testing.T) {
	srv, _ := mockTracker(t)
	client := newTestClient(t, srv.URL)

	_, err := client.get(context.Background(), "/broken.json", nil)
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
}

func TestDeleteRelationAcceptsEmptyBody(t *testing.T) {
	srv, rec := mockTracker(t)
	client := newTestClient(t, srv.URL)

	raw, err := client.DeleteRelation(context.Background(), 9)
	if err != nil {
		t.Fatalf("DeleteRelation: %v", err)
	}
	if len(raw) != 0 {
		t.Fatalf("expected empty body, got %s", raw)
	}
	if rec.method != "DELETE" || rec.path != "/relations/9.json" {
		t.Fatalf("unexpected request %s %s", rec.method, rec.path)
	}
}

func TestListUsersDefaults(t *testing.T) {
	srv, rec := mockTracker(t)
	client := newTestClient(t, srv.URL)

	if _, err := client.ListUsers(context.Background(), UserFilter{}); err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if rec.query != "limit=100&status=1" {
		t.Fatalf("unexpected query %s", rec.query)
	}
}
