package workspaces

import (
	"fmt"
	"sync"
)

// InMemoryRepo holds workspaces for the life of the process.
type InMemoryRepo struct {
	mu         sync.RWMutex
	workspaces map[string]*Workspace
}

var _ Repo = (*InMemoryRepo)(nil)

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		workspaces: make(map[string]*Workspace),
	}
}

func (r *InMemoryRepo) Upsert(ws *Workspace) error {
	if ws == nil || ws.ID == "" {
		return fmt.Errorf("workspace ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.workspaces[ws.ID] = ws
	return nil
}

func (r *InMemoryRepo) Get(id string) (*Workspace, error) {
	if id == "" {
		return nil, ErrNotFound
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	ws, ok := r.workspaces[id]
	if !ok {
		return nil, ErrNotFound
	}
	return ws, nil
}

// Delete removes and returns the workspace. Deleting an unknown id returns
// ErrNotFound so only one caller tears a workspace down.
func (r *InMemoryRepo) Delete(id string) (*Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws, ok := r.workspaces[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(r.workspaces, id)
	return ws, nil
}

func (r *InMemoryRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.workspaces)
}
