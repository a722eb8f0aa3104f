package server

import (
	"net/http"

	consoleerrors "github.com/jrsteele09/sop-console/internal/errors"
	"github.com/jrsteele09/sop-console/internal/utils"
	"github.com/jrsteele09/sop-console/server/workspaces"
	"github.com/jrsteele09/sop-console/settings"
)

// UploadLimitHandler is open to every signed in user; the upload dialogs need
// the cap before sending.
func (s *Server) UploadLimitHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		return http.StatusOK, settings.NewService(ws.Client).FileUploadLimit(r.Context()), nil
	})
}

// CheckFileSizeHandler answers ?size=bytes[&setting=NAME] with the backend's
// verdict.
func (s *Server) CheckFileSizeHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		size, err := queryID(r, "size")
		if err != nil {
			return 0, nil, err
		}
		if size == nil {
			return 0, nil, consoleerrors.Wrapf(consoleerrors.ErrInvalidRequest, "size is required")
		}
		out, err := settings.NewService(ws.Client).CheckFileSize(r.Context(), *size, r.URL.Query().Get("setting"))
		return http.StatusOK, out, err
	})
}

func (s *Server) GetLimitHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		id, err := pathID(r, "id")
		if err != nil {
			return 0, nil, err
		}
		out, err := settings.NewService(ws.Client).GetLimit(r.Context(), id)
		return http.StatusOK, out, err
	})
}

func (s *Server) ListLimitsHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		out, err := settings.NewService(ws.Client).ListLimits(r.Context())
		return http.StatusOK, out, err
	})
}

func (s *Server) CreateLimitHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		var in settings.LimitSize
		if err := decodeJSON(r, &in); err != nil {
			return 0, nil, err
		}
		in.CreatedBy = utils.Coalesce(in.CreatedBy, s.sessionUserID(r, ws))
		out, err := settings.NewService(ws.Client).CreateLimit(r.Context(), in)
		return http.StatusCreated, out, err
	})
}

func (s *Server) UpdateLimitHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		id, err := pathID(r, "id")
		if err != nil {
			return 0, nil, err
		}
		var in settings.LimitSize
		if err := decodeJSON(r, &in); err != nil {
			return 0, nil, err
		}
		out, err := settings.NewService(ws.Client).UpdateLimit(r.Context(), id, in)
		return http.StatusOK, out, err
	})
}

func (s *Server) DeleteLimitHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		id, err := pathID(r, "id")
		if err != nil {
			return 0, nil, err
		}
		svc := settings.NewService(ws.Client)
		if r.URL.Query().Get("permanent") == "true" {
			return http.StatusNoContent, nil, svc.PermanentDeleteLimit(r.Context(), id)
		}
		return http.StatusNoContent, nil, svc.DeleteLimit(r.Context(), id)
	})
}

func (s *Server) ToggleLimitHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		id, err := pathID(r, "id")
		if err != nil {
			return 0, nil, err
		}
		out, err := settings.NewService(ws.Client).ToggleLimit(r.Context(), id)
		return http.StatusOK, out, err
	})
}

func (s *Server) ListRecipientsHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		svc := settings.NewService(ws.Client)
		if r.URL.Query().Get("enabled") == "true" {
			out, err := svc.EnabledRecipients(r.Context())
			return http.StatusOK, out, err
		}
		out, err := svc.ListRecipients(r.Context())
		return http.StatusOK, out, err
	})
}

func (s *Server) CreateRecipientHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		var in settings.MailRecipient
		if err := decodeJSON(r, &in); err != nil {
			return 0, nil, err
		}
		out, err := settings.NewService(ws.Client).CreateRecipient(r.Context(), in)
		return http.StatusCreated, out, err
	})
}

func (s *Server) ReplaceRecipientsHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		var in []settings.MailRecipient
		if err := decodeJSON(r, &in); err != nil {
			return 0, nil, err
		}
		out, err := settings.NewService(ws.Client).ReplaceRecipients(r.Context(), in)
		return http.StatusOK, out, err
	})
}

func (s *Server) UpdateRecipientHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		id, err := pathID(r, "id")
		if err != nil {
			return 0, nil, err
		}
		var in settings.MailRecipient
		if err := decodeJSON(r, &in); err != nil {
			return 0, nil, err
		}
		out, err := settings.NewService(ws.Client).UpdateRecipient(r.Context(), id, in)
		return http.StatusOK, out, err
	})
}

func (s *Server) DeleteRecipientHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		id, err := pathID(r, "id")
		if err != nil {
			return 0, nil, err
		}
		return http.StatusNoContent, nil, settings.NewService(ws.Client).DeleteRecipient(r.Context(), id)
	})
}
