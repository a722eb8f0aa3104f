// Package improvements tracks corrective actions raised against checklist
// details, their progress history and the events they are filed under.
package improvements

import (
	"strings"

	"github.com/jrsteele09/sop-console/files"
	"github.com/jrsteele09/sop-console/internal/localtime"
	"github.com/jrsteele09/sop-console/internal/utils"
)

// Improvement statuses.
const (
	StatusPending    = "PENDING"
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
)

// Improvement is one corrective action. Responsible and Collaborators use the
// same "user:<id>" / "group:<id>" references as checklist implementers.
type Improvement struct {
	ImprovementID     int64           `json:"improvementID,omitempty"`
	ChecklistDetailID string          `json:"checklistDetailId,omitempty"`
	Event             *Event          `json:"improvementEvent,omitempty"`
	Category          string          `json:"category"`
	IssueDescription  string          `json:"issueDescription,omitempty"`
	Responsible       string          `json:"responsible,omitempty"`
	Collaborators     []string        `json:"collaborators,omitempty"`
	ActionPlan        string          `json:"actionPlan,omitempty"`
	PlannedDueAt      *localtime.Time `json:"plannedDueAt,omitempty"`
	CompletedAt       *localtime.Time `json:"completedAt,omitempty"`
	Note              string          `json:"note,omitempty"`
	Files             []files.Info    `json:"files,omitempty"`
	Status            string          `json:"status,omitempty"`
	Progress          *int            `json:"progress,omitempty"`
	ProgressDetail    string          `json:"progressDetail,omitempty"`
	LastEditedBy      *int64          `json:"lastEditedBy,omitempty"`
	LastEditedAt      *localtime.Time `json:"lastEditedAt,omitempty"`
	CreatedAt         *localtime.Time `json:"createdAt,omitempty"`
}

// Patch changes the non-nil fields of an improvement.
type Patch struct {
	Category         *string         `json:"category,omitempty"`
	IssueDescription *string         `json:"issueDescription,omitempty"`
	Responsible      *string         `json:"responsible,omitempty"`
	Collaborators    []string        `json:"collaborators,omitempty"`
	ActionPlan       *string         `json:"actionPlan,omitempty"`
	PlannedDueAt     *localtime.Time `json:"plannedDueAt,omitempty"`
	Note             *string         `json:"note,omitempty"`
	Files            []files.Info    `json:"files,omitempty"`
	Status           *string         `json:"status,omitempty"`
	LastEditedBy     *int64          `json:"lastEditedBy,omitempty"`
}

// Event groups improvements, for example an audit or an incident.
type Event struct {
	ID        int64  `json:"id"`
	EventName string `json:"eventName"`
}

// NormalizeStatus maps the status strings the backend has used over time onto
// the three status constants. Unknown values come back empty.
func NormalizeStatus(s string) string {
	v := strings.ToUpper(s)
	switch {
	case v == "":
		return ""
	case strings.Contains(v, "DONE") || strings.Contains(v, "HOÀN THÀNH"):
		return StatusDone
	case strings.Contains(v, "IN_PROGRESS") || strings.Contains(v, "ĐANG"):
		return StatusInProgress
	case strings.Contains(v, "PENDING") || strings.Contains(v, "CHƯA"):
		return StatusPending
	default:
		return ""
	}
}

// Filter narrows an improvement list locally.
type Filter struct {
	Search            string
	Responsible       string
	Status            string
	ChecklistDetailID string
}

func (f Filter) Apply(in []Improvement) []Improvement {
	search := strings.TrimSpace(f.Search)
	status := NormalizeStatus(f.Status)
	out := make([]Improvement, 0, len(in))
	for _, imp := range in {
		if search != "" && !utils.ContainsFold(imp.Category, search) && !utils.ContainsFold(imp.IssueDescription, search) {
			continue
		}
		if f.Responsible != "" && imp.Responsible != f.Responsible {
			continue
		}
		if status != "" && NormalizeStatus(imp.Status) != status {
			continue
		}
		if f.ChecklistDetailID != "" && imp.ChecklistDetailID != f.ChecklistDetailID {
			continue
		}
		out = append(out, imp)
	}
	return out
}
