package server

import (
	"net/http"
	"strings"

	consoleerrors "github.com/jrsteele09/sop-console/internal/errors"
	"github.com/jrsteele09/sop-console/internal/utils"
	"github.com/jrsteele09/sop-console/server/workspaces"
	"github.com/jrsteele09/sop-console/sops"
)

type sopName struct {
	Name string `json:"name"`
}

func decodeSOPName(r *http.Request) (string, error) {
	var in sopName
	if err := decodeJSON(r, &in); err != nil {
		return "", err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return "", consoleerrors.Wrapf(consoleerrors.ErrInvalidRequest, "SOP name is required")
	}
	return name, nil
}

func (s *Server) ListSOPsHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		out, err := sops.NewService(ws.Client).List(r.Context())
		return http.StatusOK, out, err
	})
}

func (s *Server) CreateSOPHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		name, err := decodeSOPName(r)
		if err != nil {
			return 0, nil, err
		}
		out, err := sops.NewService(ws.Client).Create(r.Context(), name)
		return http.StatusCreated, out, err
	})
}

func (s *Server) RenameSOPHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		id, err := pathID(r, "id")
		if err != nil {
			return 0, nil, err
		}
		name, err := decodeSOPName(r)
		if err != nil {
			return 0, nil, err
		}
		out, err := sops.NewService(ws.Client).Rename(r.Context(), id, name)
		return http.StatusOK, out, err
	})
}

func (s *Server) DeleteSOPHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		id, err := pathID(r, "id")
		if err != nil {
			return 0, nil, err
		}
		return http.StatusNoContent, nil, sops.NewService(ws.Client).Delete(r.Context(), id)
	})
}

func (s *Server) ListSOPDocumentsHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		id, err := pathID(r, "id")
		if err != nil {
			return 0, nil, err
		}
		out, err := sops.NewService(ws.Client).Documents(r.Context(), id)
		return http.StatusOK, out, err
	})
}

// SOPPermissionsHandler reports what the signed in user may do with one SOP.
func (s *Server) SOPPermissionsHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		id, err := pathID(r, "id")
		if err != nil {
			return 0, nil, err
		}
		out, err := sops.NewService(ws.Client).MyPermissions(r.Context(), id)
		return http.StatusOK, out, err
	})
}

func (s *Server) UpdateSOPDocumentHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		id, err := pathID(r, "id")
		if err != nil {
			return 0, nil, err
		}
		var in sops.DocumentUpdate
		if err := decodeJSON(r, &in); err != nil {
			return 0, nil, err
		}
		in.LastEditedBy = utils.Coalesce(in.LastEditedBy, s.sessionUserID(r, ws))
		out, err := sops.NewService(ws.Client).UpdateDocument(r.Context(), id, in)
		return http.StatusOK, out, err
	})
}

func (s *Server) DeleteSOPDocumentHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		id, err := pathID(r, "id")
		if err != nil {
			return 0, nil, err
		}
		return http.StatusNoContent, nil, sops.NewService(ws.Client).DeleteDocument(r.Context(), id)
	})
}

// sessionUserID is the signed in user's id, or nil when the session holds no
// profile.
func (s *Server) sessionUserID(r *http.Request, ws *workspaces.Workspace) *int64 {
	session, err := ws.Client.Session(r.Context())
	if err != nil || session.Profile.UserID == 0 {
		return nil
	}
	id := session.Profile.UserID
	return &id
}
