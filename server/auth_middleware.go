package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/jrsteele09/sop-console/activity"
	"github.com/jrsteele09/sop-console/apiclient"
	"github.com/jrsteele09/sop-console/server/workspaces"
	"github.com/jrsteele09/sop-console/users"
	"github.com/rs/zerolog/log"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyWorkspace stores the session's *workspaces.Workspace
const ContextKeyWorkspace ContextKey = "workspace"

// WorkspaceFrom returns the workspace RequireSession put in ctx.
func WorkspaceFrom(ctx context.Context) (*workspaces.Workspace, bool) {
	ws, ok := ctx.Value(ContextKeyWorkspace).(*workspaces.Workspace)
	return ws, ok
}

// RequireSession resolves the session cookie to a live workspace and counts
// the request as user activity. Requests without one are sent to the login
// page.
func (s *Server) RequireSession() func(http.HandlerFunc) http.HandlerFunc {
	return s.requireSession(true)
}

// RequirePassiveSession is RequireSession without the implicit activity, for
// routes that report activity themselves.
func (s *Server) RequirePassiveSession() func(http.HandlerFunc) http.HandlerFunc {
	return s.requireSession(false)
}

func (s *Server) requireSession(observe bool) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err != nil || cookie.Value == "" {
				s.redirectToLogin(w, r, "")
				return
			}

			ws, err := s.lookupWorkspace(r.Context(), cookie.Value)
			if err != nil {
				if !errors.Is(err, workspaces.ErrNotFound) {
					log.Err(err).Msg("failed to look up workspace")
				}
				s.redirectToLogin(w, r, "Session expired")
				return
			}

			if ws.Client.State() == apiclient.LoggedOut {
				s.dropWorkspace(ws.ID, apiclient.CauseUnrecoverableAuth)
				s.redirectToLogin(w, r, "Session expired")
				return
			}

			if observe {
				ws.Monitor.Observe(activity.Click)
			}

			ctx := context.WithValue(r.Context(), ContextKeyWorkspace, ws)
			next(w, r.WithContext(ctx))
		}
	}
}

// RequireRole only lets sessions holding one of roles through. Chain it after
// RequireSession.
func (s *Server) RequireRole(roles ...users.RoleType) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ws, ok := WorkspaceFrom(r.Context())
			if !ok {
				s.redirectToLogin(w, r, "")
				return
			}
			session, err := ws.Client.Session(r.Context())
			if err != nil {
				s.writeError(w, r, err)
				return
			}
			if !users.HasRole(session.Roles, roles...) {
				s.writeForbidden(w, r)
				return
			}
			next(w, r)
		}
	}
}
