package server

import (
	"net/http"

	"github.com/jrsteele09/sop-console/checklists"
	"github.com/jrsteele09/sop-console/server/workspaces"
)

func (s *Server) ListChecklistsHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		groupID, err := queryID(r, "groupId")
		if err != nil {
			return 0, nil, err
		}
		q := r.URL.Query()
		out, err := checklists.NewService(ws.Client).List(r.Context(), checklists.Filter{
			GroupID: groupID,
			Status:  q.Get("status"),
			Search:  q.Get("q"),
		})
		return http.StatusOK, out, err
	})
}

func (s *Server) GetChecklistHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		id, err := pathID(r, "id")
		if err != nil {
			return 0, nil, err
		}
		out, err := checklists.NewService(ws.Client).Get(r.Context(), id)
		return http.StatusOK, out, err
	})
}

func (s *Server) GetChecklistDetailHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		id, err := pathID(r, "id")
		if err != nil {
			return 0, nil, err
		}
		out, err := checklists.NewService(ws.Client).GetDetail(r.Context(), id)
		return http.StatusOK, out, err
	})
}

func (s *Server) CreateChecklistHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		var in checklists.Checklist
		if err := decodeJSON(r, &in); err != nil {
			return 0, nil, err
		}
		out, err := checklists.NewService(ws.Client).Create(r.Context(), in)
		return http.StatusCreated, out, err
	})
}

func (s *Server) PatchChecklistHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		id, err := pathID(r, "id")
		if err != nil {
			return 0, nil, err
		}
		var in checklists.Patch
		if err := decodeJSON(r, &in); err != nil {
			return 0, nil, err
		}
		out, err := checklists.NewService(ws.Client).Patch(r.Context(), id, in)
		return http.StatusOK, out, err
	})
}

func (s *Server) DeleteChecklistHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		id, err := pathID(r, "id")
		if err != nil {
			return 0, nil, err
		}
		return http.StatusNoContent, nil, checklists.NewService(ws.Client).Delete(r.Context(), id)
	})
}

func (s *Server) ListChecklistDetailsHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		id, err := pathID(r, "id")
		if err != nil {
			return 0, nil, err
		}
		groupID, err := queryID(r, "groupId")
		if err != nil {
			return 0, nil, err
		}
		q := r.URL.Query()
		out, err := checklists.NewService(ws.Client).ListDetails(r.Context(), id, checklists.DetailFilter{
			Status:  q.Get("status"),
			GroupID: groupID,
			Query:   q.Get("q"),
		})
		return http.StatusOK, out, err
	})
}

func (s *Server) PatchChecklistDetailHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		id, err := pathID(r, "id")
		if err != nil {
			return 0, nil, err
		}
		var in checklists.DetailPatch
		if err := decodeJSON(r, &in); err != nil {
			return 0, nil, err
		}
		out, err := checklists.NewService(ws.Client).PatchDetail(r.Context(), id, in)
		return http.StatusOK, out, err
	})
}

func (s *Server) DeleteChecklistDetailHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		id, err := pathID(r, "id")
		if err != nil {
			return 0, nil, err
		}
		return http.StatusNoContent, nil, checklists.NewService(ws.Client).DeleteDetail(r.Context(), id)
	})
}

func (s *Server) SendChecklistDetailMailHandler() http.HandlerFunc {
	return s.apiHandler(func(r *http.Request, ws *workspaces.Workspace) (int, any, error) {
		id, err := pathID(r, "id")
		if err != nil {
			return 0, nil, err
		}
		out, err := checklists.NewService(ws.Client).SendDetailMail(r.Context(), id)
		return http.StatusOK, out, err
	})
}
