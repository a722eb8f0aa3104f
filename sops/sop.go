// Package sops manages standard operating procedures and their documents.
package sops

import (
	"github.com/jrsteele09/sop-console/files"
	"github.com/jrsteele09/sop-console/internal/localtime"
)

// SOP is a category of procedure documents.
type SOP struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	DocumentCount int    `json:"documentCount"`
	UserCanEdit   bool   `json:"userCanEdit"`
	UserCanDelete bool   `json:"userCanDelete"`
	CreatedBy     *int64 `json:"createdBy,omitempty"`
}

// Document is one procedure inside an SOP.
type Document struct {
	DocumentID   int64           `json:"documentID"`
	SOPID        int64           `json:"sopId,omitempty"`
	Title        string          `json:"title"`
	Description  string          `json:"description,omitempty"`
	Files        []files.Info    `json:"files,omitempty"`
	CreatedBy    *int64          `json:"createdBy,omitempty"`
	LastEditedBy *int64          `json:"lastEditedBy,omitempty"`
	CreatedAt    *localtime.Time `json:"createdAt,omitempty"`
}

// DocumentUpdate replaces a document's editable fields.
type DocumentUpdate struct {
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	LastEditedBy *int64       `json:"lastEditedBy,omitempty"`
	Files        []files.Info `json:"files"`
}

// Permissions are what the current user may do.
type Permissions struct {
	View   bool `json:"view"`
	Create bool `json:"create"`
	Edit   bool `json:"edit"`
	Delete bool `json:"delete"`
}

// Merge grants whatever either p or other grants.
func (p Permissions) Merge(other Permissions) Permissions {
	return Permissions{
		View:   p.View || other.View,
		Create: p.Create || other.Create,
		Edit:   p.Edit || other.Edit,
		Delete: p.Delete || other.Delete,
	}
}

// page is the paged envelope some document listings come in.
type page[T any] struct {
	Content []T `json:"content"`
}
