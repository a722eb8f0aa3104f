package workspaces_test

import (
	"testing"

	"github.com/jrsteele09/sop-console/server/workspaces"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRepo(t *testing.T) {
	repo := workspaces.NewInMemoryRepo()

	require.Error(t, repo.Upsert(&workspaces.Workspace{}))
	require.NoError(t, repo.Upsert(&workspaces.Workspace{ID: "a"}))
	require.Equal(t, 1, repo.Len())

	ws, err := repo.Get("a")
	require.NoError(t, err)
	require.Equal(t, "a", ws.ID)

	_, err = repo.Get("b")
	require.ErrorIs(t, err, workspaces.ErrNotFound)

	removed, err := repo.Delete("a")
	require.NoError(t, err)
	require.Same(t, ws, removed)

	_, err = repo.Delete("a")
	require.ErrorIs(t, err, workspaces.ErrNotFound)
	require.Zero(t, repo.Len())
}
