package checklists

import (
	"github.com/jrsteele09/sop-console/files"
	"github.com/jrsteele09/sop-console/internal/localtime"
)

// Detail statuses.
const (
	DetailPending   = "PENDING"
	DetailCompleted = "COMPLETED"
	DetailOverdue   = "OVERDUE"
)

// Detail is one scheduled occurrence of a checklist.
type Detail struct {
	ID           int64           `json:"id"`
	ChecklistID  int64           `json:"checklistId,omitempty"`
	TaskName     string          `json:"taskName,omitempty"`
	WorkContent  string          `json:"workContent,omitempty"`
	Implementer  string          `json:"implementer,omitempty"`
	Status       string          `json:"status,omitempty"`
	Note         string          `json:"note,omitempty"`
	AbnormalInfo string          `json:"abnormalInfo,omitempty"`
	UploadFile   string          `json:"uploadFile,omitempty"`
	Files        []files.Info    `json:"files,omitempty"`
	ScheduledAt  *localtime.Time `json:"scheduledAt,omitempty"`
	DeadlineAt   *localtime.Time `json:"deadlineAt,omitempty"`
	CompletedAt  *localtime.Time `json:"completedAt,omitempty"`
	CreatedAt    *localtime.Time `json:"createdAt,omitempty"`
}

// DetailPatch updates a detail. Files replaces the attachment list when set.
type DetailPatch struct {
	Status       *string      `json:"status,omitempty"`
	Note         *string      `json:"note,omitempty"`
	AbnormalInfo *string      `json:"abnormalInfo,omitempty"`
	UploadFile   *string      `json:"uploadFile,omitempty"`
	Files        []files.Info `json:"files,omitempty"`
	LastEditedBy *int64       `json:"lastEditedBy,omitempty"`
}

// DetailFilter narrows a detail list on the backend.
type DetailFilter struct {
	Status  string
	GroupID *int64
	Query   string
}

// MailResult is the backend's answer to a reminder request.
type MailResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
