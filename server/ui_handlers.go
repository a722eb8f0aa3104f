package server

import (
	"context"
	"net/http"

	"github.com/jrsteele09/sop-console/apiclient"
	"github.com/jrsteele09/sop-console/checklists"
	"github.com/jrsteele09/sop-console/improvements"
	"github.com/jrsteele09/sop-console/server/workspaces"
	"github.com/jrsteele09/sop-console/settings"
	"github.com/jrsteele09/sop-console/sops"
	"github.com/jrsteele09/sop-console/users"
	"github.com/rs/zerolog/log"
)

// pageHandler adapts a page that needs the session's workspace. Errors are
// rendered by writeError.
func (s *Server) pageHandler(page func(w http.ResponseWriter, r *http.Request, ws *workspaces.Workspace) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := WorkspaceFrom(r.Context())
		if !ok {
			s.redirectToLogin(w, r, "")
			return
		}
		if err := page(w, r, ws); err != nil {
			s.writeError(w, r, err)
		}
	}
}

// directory loads the user and group names used to label implementers. A
// failure other than the session ending leaves references unlabelled.
func (s *Server) directory(ctx context.Context, ws *workspaces.Workspace) (*users.Directory, error) {
	dir, err := users.NewService(ws.Client).Directory(ctx)
	if err != nil {
		if apiclient.IsSessionEnded(err) {
			return nil, err
		}
		log.Debug().Err(err).Msg("user directory unavailable")
		return users.NewDirectory(nil, nil), nil
	}
	return dir, nil
}

type DashboardData struct {
	ActiveChecklists int
	OpenImprovements int
	SOPCount         int
}

func (s *Server) DashboardHandler() http.HandlerFunc {
	tmpl := mustParsePage("index.html")
	return s.pageHandler(func(w http.ResponseWriter, r *http.Request, ws *workspaces.Workspace) error {
		ctx := r.Context()
		active, err := checklists.NewService(ws.Client).List(ctx, checklists.Filter{Status: checklists.StatusActive})
		if err != nil {
			return err
		}
		imps, err := improvements.NewService(ws.Client).List(ctx, improvements.Filter{})
		if err != nil {
			return err
		}
		all, err := sops.NewService(ws.Client).List(ctx)
		if err != nil {
			return err
		}

		data := DashboardData{ActiveChecklists: len(active), SOPCount: len(all)}
		for _, imp := range imps {
			if improvements.NormalizeStatus(imp.Status) != improvements.StatusDone {
				data.OpenImprovements++
			}
		}
		render(w, http.StatusOK, tmpl, s.pageData(r, "Dashboard", data))
		return nil
	})
}

type ChecklistRow struct {
	checklists.Checklist
	ImplementerNames []string
}

type ChecklistsData struct {
	Filter checklists.Filter
	Rows   []ChecklistRow
}

func (s *Server) ChecklistsPageHandler() http.HandlerFunc {
	tmpl := mustParsePage("checklists.html")
	return s.pageHandler(func(w http.ResponseWriter, r *http.Request, ws *workspaces.Workspace) error {
		groupID, err := queryID(r, "groupId")
		if err != nil {
			return err
		}
		filter := checklists.Filter{GroupID: groupID, Status: r.URL.Query().Get("status"), Search: r.URL.Query().Get("q")}

		list, err := checklists.NewService(ws.Client).List(r.Context(), filter)
		if err != nil {
			return err
		}
		dir, err := s.directory(r.Context(), ws)
		if err != nil {
			return err
		}

		data := ChecklistsData{Filter: filter, Rows: make([]ChecklistRow, 0, len(list))}
		for _, c := range list {
			data.Rows = append(data.Rows, ChecklistRow{Checklist: c, ImplementerNames: dir.Labels(c.Implementers)})
		}
		render(w, http.StatusOK, tmpl, s.pageData(r, "Checklists", data))
		return nil
	})
}

func (s *Server) SOPsPageHandler() http.HandlerFunc {
	tmpl := mustParsePage("sops.html")
	return s.pageHandler(func(w http.ResponseWriter, r *http.Request, ws *workspaces.Workspace) error {
		list, err := sops.NewService(ws.Client).List(r.Context())
		if err != nil {
			return err
		}
		render(w, http.StatusOK, tmpl, s.pageData(r, "SOPs", list))
		return nil
	})
}

type SOPData struct {
	SOP         sops.SOP
	Documents   []sops.Document
	Permissions sops.Permissions
}

func (s *Server) SOPPageHandler() http.HandlerFunc {
	tmpl := mustParsePage("sop.html")
	return s.pageHandler(func(w http.ResponseWriter, r *http.Request, ws *workspaces.Workspace) error {
		id, err := pathID(r, "id")
		if err != nil {
			redirectWithError(w, r, RouteSOPs, "Unknown SOP")
			return nil
		}
		svc := sops.NewService(ws.Client)
		sop, err := svc.Get(r.Context(), id)
		if err != nil {
			return err
		}
		docs, err := svc.Documents(r.Context(), id)
		if err != nil {
			return err
		}
		perms, err := svc.MyPermissions(r.Context(), id)
		if err != nil {
			return err
		}
		render(w, http.StatusOK, tmpl, s.pageData(r, sop.Name, SOPData{SOP: sop, Documents: docs, Permissions: perms}))
		return nil
	})
}

type ImprovementRow struct {
	improvements.Improvement
	ResponsibleName string
	StatusCode      string
}

type ImprovementsData struct {
	Filter improvements.Filter
	Rows   []ImprovementRow
	Events []improvements.Event
}

func (s *Server) ImprovementsPageHandler() http.HandlerFunc {
	tmpl := mustParsePage("improvements.html")
	return s.pageHandler(func(w http.ResponseWriter, r *http.Request, ws *workspaces.Workspace) error {
		q := r.URL.Query()
		filter := improvements.Filter{
			Search:            q.Get("q"),
			Responsible:       q.Get("responsible"),
			Status:            q.Get("status"),
			ChecklistDetailID: q.Get("detailId"),
		}
		svc := improvements.NewService(ws.Client)
		list, err := svc.List(r.Context(), filter)
		if err != nil {
			return err
		}
		events, err := svc.ListEvents(r.Context())
		if err != nil {
			if apiclient.IsSessionEnded(err) {
				return err
			}
			log.Debug().Err(err).Msg("improvement events unavailable")
		}
		dir, err := s.directory(r.Context(), ws)
		if err != nil {
			return err
		}

		data := ImprovementsData{Filter: filter, Events: events, Rows: make([]ImprovementRow, 0, len(list))}
		for _, imp := range list {
			data.Rows = append(data.Rows, ImprovementRow{
				Improvement:     imp,
				ResponsibleName: dir.Label(imp.Responsible),
				StatusCode:      improvements.NormalizeStatus(imp.Status),
			})
		}
		render(w, http.StatusOK, tmpl, s.pageData(r, "Improvements", data))
		return nil
	})
}

func (s *Server) ProfilePageHandler() http.HandlerFunc {
	tmpl := mustParsePage("profile.html")
	return s.pageHandler(func(w http.ResponseWriter, r *http.Request, ws *workspaces.Workspace) error {
		me, err := ws.Client.Me(r.Context())
		if err != nil {
			return err
		}
		render(w, http.StatusOK, tmpl, s.pageData(r, "Profile", me))
		return nil
	})
}

type SettingsData struct {
	UploadLimit settings.UploadLimit
	Limits      []settings.LimitSize
	Recipients  []settings.MailRecipient
}

func (s *Server) SettingsPageHandler() http.HandlerFunc {
	tmpl := mustParsePage("settings.html")
	return s.pageHandler(func(w http.ResponseWriter, r *http.Request, ws *workspaces.Workspace) error {
		svc := settings.NewService(ws.Client)
		limits, err := svc.ListLimits(r.Context())
		if err != nil {
			return err
		}
		recipients, err := svc.ListRecipients(r.Context())
		if err != nil {
			return err
		}
		data := SettingsData{UploadLimit: svc.FileUploadLimit(r.Context()), Limits: limits, Recipients: recipients}
		render(w, http.StatusOK, tmpl, s.pageData(r, "Settings", data))
		return nil
	})
}
