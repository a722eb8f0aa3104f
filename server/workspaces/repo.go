// Package workspaces keeps the live objects of each signed in browser session.
package workspaces

import (
	"errors"
	"time"

	"github.com/jrsteele09/sop-console/activity"
	"github.com/jrsteele09/sop-console/apiclient"
	"github.com/jrsteele09/sop-console/credentials"
)

var ErrNotFound = errors.New("workspace not found")

// Workspace is one browser session: its credentials, the session client that
// uses them and the idle monitor that ends it.
type Workspace struct {
	ID        string
	Store     credentials.Store
	Client    *apiclient.Client
	Monitor   *activity.Monitor
	CreatedAt time.Time
}

type Repo interface {
	Upsert(ws *Workspace) error
	Get(id string) (*Workspace, error)
	Delete(id string) (*Workspace, error)
	Len() int
}
