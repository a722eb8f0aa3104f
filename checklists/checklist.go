// Package checklists reads and edits recurring operational tasks and the
// dated detail records generated from them.
package checklists

import (
	"strings"

	"github.com/jrsteele09/sop-console/internal/localtime"
	"github.com/jrsteele09/sop-console/internal/utils"
)

// Checklist statuses.
const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

// Checklist is a recurring task. Implementers are "user:<id>" or "group:<id>"
// references.
type Checklist struct {
	ID            int64            `json:"id,omitempty"`
	TaskName      string           `json:"taskName"`
	WorkContent   string           `json:"workContent,omitempty"`
	Implementers  []string         `json:"implementers,omitempty"`
	StartAt       *localtime.Time  `json:"startAt,omitempty"`
	RepeatID      *int64           `json:"repeatId,omitempty"`
	DueInDays     *int             `json:"dueInDays,omitempty"`
	RemindInDays  *int             `json:"remindInDays,omitempty"`
	SOPDocumentID *int64           `json:"sopDocumentId,omitempty"`
	Status        string           `json:"status,omitempty"`
	Creator       *int64           `json:"creator,omitempty"`
	LastEditedBy  *int64           `json:"lastEditedBy,omitempty"`
	CreatedAt     *localtime.Time  `json:"createdAt,omitempty"`
	LastEditedAt  *localtime.Time  `json:"lastEditedAt,omitempty"`
	NextSchedules []localtime.Time `json:"nextThreeScheduled,omitempty"`
}

// Patch carries the fields the backend allows to change. Nil fields are left
// alone.
type Patch struct {
	TaskName      *string         `json:"taskName,omitempty"`
	WorkContent   *string         `json:"workContent,omitempty"`
	Implementers  []string        `json:"implementers,omitempty"`
	StartAt       *localtime.Time `json:"startAt,omitempty"`
	RepeatID      *int64          `json:"repeatId,omitempty"`
	DueInDays     *int            `json:"dueInDays,omitempty"`
	SOPDocumentID *int64          `json:"sopDocumentId,omitempty"`
	Status        *string         `json:"status,omitempty"`
	LastEditedBy  *int64          `json:"lastEditedBy,omitempty"`
}

// Filter narrows a checklist list. GroupID is applied by the backend, Status
// and Search locally.
type Filter struct {
	GroupID *int64
	Status  string
	Search  string
}

// Apply returns the checklists matching f, in their original order. Search is
// a case-insensitive match on task name, work content and implementers.
func (f Filter) Apply(in []Checklist) []Checklist {
	search := strings.TrimSpace(f.Search)
	out := make([]Checklist, 0, len(in))
	for _, c := range in {
		if f.Status != "" && !strings.EqualFold(c.Status, f.Status) {
			continue
		}
		if search != "" && !c.matches(search) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (c Checklist) matches(search string) bool {
	if utils.ContainsFold(c.TaskName, search) || utils.ContainsFold(c.WorkContent, search) {
		return true
	}
	for _, impl := range c.Implementers {
		if utils.ContainsFold(impl, search) {
			return true
		}
	}
	return false
}
