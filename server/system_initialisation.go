package server

import (
	"context"
	"time"

	"github.com/jrsteele09/sop-console/server/workspaces"
	"github.com/jrsteele09/sop-console/settings"
	"github.com/jrsteele09/sop-console/users"
	"github.com/rs/zerolog/log"
)

const initialiseTimeout = 15 * time.Second

// initialiseWorkspace runs the first-login housekeeping for a fresh session.
// An administrator's login makes sure the backend has its default upload
// limit. Nothing here fails the login.
func (s *Server) initialiseWorkspace(ctx context.Context, ws *workspaces.Workspace, roles []string) {
	if !users.HasRole(roles, users.RoleAdmin) {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), initialiseTimeout)
	defer cancel()
	if settings.NewService(ws.Client).EnsureDefaults(ctx) {
		log.Debug().Str("workspace", ws.ID).Msg("backend defaults created on login")
	}
}
