package server

import "net/http"

type healthStatus struct {
	Status     string `json:"status"`
	Env        string `json:"env"`
	Workspaces int    `json:"workspaces"`
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, healthStatus{
			Status:     "ok",
			Env:        s.env,
			Workspaces: s.workspaces.Len(),
		})
	}
}
