package server

import (
	"net/http"

	"github.com/jrsteele09/sop-console/improvements"
	"github.com/jrsteele09/sop-console/internal/utils"
	"github.com/jrsteele09/sop-console/server/workspaces"
)

func (s *Server) ListImprovementsHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		q := r.URL.Query()
		out, err := improvements.NewService(ws.Client).List(r.Context(), improvements.Filter{
			Search:            q.Get("q"),
			Responsible:       q.Get("responsible"),
			Status:            q.Get("status"),
			ChecklistDetailID: q.Get("checklistDetailId"),
		})
		return http.StatusOK, out, err
	})
}

func (s *Server) GetImprovementHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		id, err := pathID(r, "id")
		if err != nil {
			return 0, nil, err
		}
		out, err := improvements.NewService(ws.Client).Get(r.Context(), id)
		return http.StatusOK, out, err
	})
}

func (s *Server) CreateImprovementHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		var in improvements.Improvement
		if err := decodeJSON(r, &in); err != nil {
			return 0, nil, err
		}
		out, err := improvements.NewService(ws.Client).Create(r.Context(), in)
		return http.StatusCreated, out, err
	})
}

func (s *Server) PatchImprovementHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		id, err := pathID(r, "id")
		if err != nil {
			return 0, nil, err
		}
		var in improvements.Patch
		if err := decodeJSON(r, &in); err != nil {
			return 0, nil, err
		}
		out, err := improvements.NewService(ws.Client).Patch(r.Context(), id, in)
		return http.StatusOK, out, err
	})
}

func (s *Server) DeleteImprovementHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		id, err := pathID(r, "id")
		if err != nil {
			return 0, nil, err
		}
		return http.StatusNoContent, nil, improvements.NewService(ws.Client).Delete(r.Context(), id)
	})
}

// progressView is a history plus the totals the progress dialog shows.
type progressView struct {
	Items     []improvements.Progress `json:"items"`
	Overall   int                     `json:"overall"`
	Remaining int                     `json:"remaining"`
}

func (s *Server) ListProgressHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		id, err := pathID(r, "id")
		if err != nil {
			return 0, nil, err
		}
		items, err := improvements.NewService(ws.Client).ListProgress(r.Context(), id)
		if err != nil {
			return 0, nil, err
		}
		return http.StatusOK, progressView{
			Items:     items,
			Overall:   improvements.Overall(items),
			Remaining: improvements.Remaining(items),
		}, nil
	})
}

func (s *Server) AddProgressHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		id, err := pathID(r, "id")
		if err != nil {
			return 0, nil, err
		}
		var in improvements.ProgressInput
		if err := decodeJSON(r, &in); err != nil {
			return 0, nil, err
		}
		in.CreatedBy = utils.Coalesce(in.CreatedBy, s.sessionUserID(r, ws))
		out, err := improvements.NewService(ws.Client).AddProgress(r.Context(), id, in)
		return http.StatusCreated, out, err
	})
}

func (s *Server) PatchProgressHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		id, err := pathID(r, "id")
		if err != nil {
			return 0, nil, err
		}
		progressID, err := pathID(r, "progressId")
		if err != nil {
			return 0, nil, err
		}
		var in improvements.ProgressInput
		if err := decodeJSON(r, &in); err != nil {
			return 0, nil, err
		}
		in.UpdatedBy = utils.Coalesce(in.UpdatedBy, s.sessionUserID(r, ws))
		out, err := improvements.NewService(ws.Client).PatchProgress(r.Context(), id, progressID, in)
		return http.StatusOK, out, err
	})
}

func (s *Server) DeleteProgressHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		progressID, err := pathID(r, "progressId")
		if err != nil {
			return 0, nil, err
		}
		return http.StatusNoContent, nil, improvements.NewService(ws.Client).DeleteProgress(r.Context(), progressID)
	})
}

func (s *Server) ListImprovementEventsHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		out, err := improvements.NewService(ws.Client).ListEvents(r.Context())
		return http.StatusOK, out, err
	})
}
