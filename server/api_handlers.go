package server

import (
	"net/http"

	"github.com/jrsteele09/sop-console/server/workspaces"
	"github.com/jrsteele09/sop-console/users"
)

// apiFunc handles one console API call and returns the status and value to
// encode. A nil value with 204 writes no body.
type apiFunc func(r *http.Request, ws *workspaces.Workspace) (int, any, error)

func (s *Server) apiHandler(f apiFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := WorkspaceFrom(r.Context())
		if !ok {
			s.redirectToLogin(w, r, "")
			return
		}
		status, v, err := f(r, ws)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if status == http.StatusNoContent {
			w.WriteHeader(status)
			return
		}
		writeJSON(w, status, v)
	}
}

// MeHandler returns the signed in user as the backend reports it.
func (s *Server) MeHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		me, err := ws.Client.Me(r.Context())
		if err != nil {
			return 0, nil, err
		}
		return http.StatusOK, map[string]any{"profile": me.Profile, "roles": me.Roles}, nil
	})
}

func (s *Server) UpdateProfileHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		session, err := ws.Client.Session(r.Context())
		if err != nil {
			return 0, nil, err
		}
		var in users.ProfileUpdate
		if err := decodeJSON(r, &in); err != nil {
			return 0, nil, err
		}
		out, err := users.NewService(ws.Client).UpdateProfile(r.Context(), session.Profile.UserID, in)
		if err != nil {
			return 0, nil, err
		}
		return http.StatusOK, out, nil
	})
}

type passwordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (s *Server) ChangePasswordHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		var in passwordChange
		if err := decodeJSON(r, &in); err != nil {
			return 0, nil, err
		}
		if err := users.NewService(ws.Client).ChangePassword(r.Context(), in.CurrentPassword, in.NewPassword); err != nil {
			return 0, nil, err
		}
		return http.StatusNoContent, nil, nil
	})
}

func (s *Server) ListUsersHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		out, err := users.NewService(ws.Client).List(r.Context())
		return http.StatusOK, out, err
	})
}

// RegisterUserHandler creates an account through the backend sign-up
// endpoint; the console only offers it to administrators.
func (s *Server) RegisterUserHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		var in users.Registration
		if err := decodeJSON(r, &in); err != nil {
			return 0, nil, err
		}
		out, err := users.NewService(ws.Client).Register(r.Context(), in)
		return http.StatusCreated, out, err
	})
}

func (s *Server) ListGroupsHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		out, err := users.NewService(ws.Client).Groups(r.Context())
		return http.StatusOK, out, err
	})
}
