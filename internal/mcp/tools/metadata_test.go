package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/nmoran/redmine-mcp/internal/redmine"
)

type fakeMetadataService struct {
	calls      int
	lastFilter redmine.UserFilter
	response   json.RawMessage
	err        error
}

func (f *fakeMetadataService) ListTrackers(ctx context.Context) (json.RawMessage, error) {
	f.calls++
	return f.response, f.err
}

func (f *fakeMetadataService) ListIssueStatuses(ctx context.Context) (json.RawMessage, error) {
	f.calls++
	return f.response, f.err
}

func (f *fakeMetadataService) ListPriorities(ctx context.Context) (json.RawMessage, error) {
	f.calls++
	return f.response, f.err
}

func (f *fakeMetadataService) ListUsers(ctx context.Context, filter redmine.UserFilter) (json.RawMessage, error) {
	f.calls++
	f.lastFilter = filter
	return f.response, f.err
}

func TestListTrackersPassesBodyThrough(t *testing.T) {
	body := `{"trackers":[{"id":1,"name":"Bug"}]}`
	service := &fakeMetadataService{response: json.RawMessage(body)}
	handler := &ListTrackersHandler{Service: service}

	result, err := handler.ToolAdapter(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("ToolAdapter: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}
	if resultText(t, result) != body {
		t.Fatalf("result must equal the response body, got %s", resultText(t, result))
	}
}

func TestListUsersForwardsFilter(t *testing.T) {
	service := &fakeMetadataService{response: json.RawMessage(`{"users":[]}`)}
	handler := &ListUsersHandler{Service: service}

	result, err := handler.ToolAdapter(context.Background(), callRequest(map[string]any{
		"status": float64(3),
		"limit":  float64(10),
	}))
	if err != nil {
		t.Fatalf("ToolAdapter: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}
	if service.lastFilter.Status != 3 || service.lastFilter.Limit != 10 {
		t.Fatalf("filter not forwarded: %+v", service.lastFilter)
	}
}
