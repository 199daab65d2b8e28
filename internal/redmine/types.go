package redmine

// Page bounds a list request. Redmine caps limit at 100 server-side;
// the client applies the same cap before sending.
type Page struct {
	Limit  int
	Offset int
}

const (
	defaultPageLimit = 25
	maxPageLimit     = 100
)

func (p Page) limit(fallback int) int {
	switch {
	case p.Limit <= 0:
		return fallback
	case p.Limit > maxPageLimit:
		return maxPageLimit
	default:
		return p.Limit
	}
}

// IssueFilter narrows a list_issues request. Zero-valued ID fields are
// omitted from the query. StatusID accepts "open", "closed", "*" or a
// numeric status id; empty means "*" (all).
type IssueFilter struct {
	ProjectID    int
	TrackerID    int
	StatusID     string
	AssignedToID int
	PriorityID   int
	Page
}

// IssueCreate is the payload of a create_issue call. ProjectID and
// Subject are required; everything else is forwarded only when set.
// Dates use Redmine's YYYY-MM-DD format.
type IssueCreate struct {
	ProjectID     int    `json:"project_id"`
	Subject       string `json:"subject"`
	Description   string `json:"description,omitempty"`
	TrackerID     *int   `json:"tracker_id,omitempty"`
	StatusID      *int   `json:"status_id,omitempty"`
	PriorityID    *int   `json:"priority_id,omitempty"`
	AssignedToID  *int   `json:"assigned_to_id,omitempty"`
	ParentIssueID *int   `json:"parent_issue_id,omitempty"`
	StartDate     string `json:"start_date,omitempty"`
	DueDate       string `json:"due_date,omitempty"`
}

// IssueUpdate carries the fields of an update_issue call. Nil pointers
// are left untouched on the remote issue. Notes adds a journal comment.
type IssueUpdate struct {
	Subject      *string `json:"subject,omitempty"`
	Description  *string `json:"description,omitempty"`
	TrackerID    *int    `json:"tracker_id,omitempty"`
	StatusID     *int    `json:"status_id,omitempty"`
	PriorityID   *int    `json:"priority_id,omitempty"`
	AssignedToID *int    `json:"assigned_to_id,omitempty"`
	Notes        *string `json:"notes,omitempty"`
	DoneRatio    *int    `json:"done_ratio,omitempty"`
}

// IsEmpty reports whether the update would change nothing.
func (u IssueUpdate) IsEmpty() bool {
	return u.Subject == nil && u.Description == nil && u.TrackerID == nil &&
		u.StatusID == nil && u.PriorityID == nil && u.AssignedToID == nil &&
		u.Notes == nil && u.DoneRatio == nil
}

// RelationCreate links one issue to another. Delay is only meaningful
// for "precedes" and "follows" relations.
type RelationCreate struct {
	IssueToID    int    `json:"issue_to_id"`
	RelationType string `json:"relation_type"`
	Delay        *int   `json:"delay,omitempty"`
}

// RelationTypes enumerates the relation types Redmine accepts.
var RelationTypes = []string{
	"relates", "duplicates", "duplicated", "blocks", "blocked",
	"precedes", "follows", "copied_to", "copied_from",
}

// ValidRelationType reports whether t is one of RelationTypes.
func ValidRelationType(t string) bool {
	for _, v := range RelationTypes {
		if v == t {
			return true
		}
	}
	return false
}

// UserFilter narrows a list_users request. Status follows Redmine's
// user status enumeration (1=active, 2=registered, 3=locked).
type UserFilter struct {
	Status int
	Limit  int
}
