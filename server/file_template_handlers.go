package server

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/jrsteele09/sop-console/credentials"
	"github.com/jrsteele09/sop-console/internal/localtime"
	"github.com/jrsteele09/sop-console/users"
	"github.com/rs/zerolog/log"
)

//go:embed templates/*
var templateFiles embed.FS

const layoutTemplate = "layout.html"

func TemplateFilesFS() fs.FS {
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic("Failed to create templates sub filesystem: " + err.Error())
	}
	return subFS
}

var templateFuncs = template.FuncMap{
	"when": func(t *localtime.Time) string {
		if t == nil || t.IsZero() {
			return "-"
		}
		return t.String()
	},
	"join": strings.Join,
	"deref": func(p *int) int {
		if p == nil {
			return 0
		}
		return *p
	},
}

// ParsePage parses a page together with the shared layout. The page defines
// "content" and the layout renders it.
func ParsePage(name string) (*template.Template, error) {
	return template.New(layoutTemplate).Funcs(templateFuncs).ParseFS(TemplateFilesFS(), layoutTemplate, name)
}

// ParseTemplate parses a standalone template.
func ParseTemplate(name string) (*template.Template, error) {
	return template.New(name).Funcs(templateFuncs).ParseFS(TemplateFilesFS(), name)
}

func mustParsePage(name string) *template.Template {
	tmpl, err := ParsePage(name)
	if err != nil {
		panic("Failed to parse " + name + " template: " + err.Error())
	}
	return tmpl
}

// PageData is what every console page renders with.
type PageData struct {
	AppName  string
	Title    string
	Profile  credentials.Profile
	Roles    []string
	IsAdmin  bool
	IsEditor bool
	Error    string
	Data     any
}

func (s *Server) pageData(r *http.Request, title string, data any) PageData {
	p := PageData{AppName: s.config.GetAppName(), Title: title, Error: r.URL.Query().Get("error"), Data: data}
	if ws, ok := WorkspaceFrom(r.Context()); ok {
		if session, err := ws.Client.Session(r.Context()); err == nil {
			p.Profile = session.Profile
			p.Roles = session.Roles
			p.IsAdmin = users.HasRole(session.Roles, users.RoleAdmin)
			p.IsEditor = users.HasRole(session.Roles, users.RoleAdmin, users.RoleManager)
		}
	}
	return p
}

// render executes tmpl into a buffer first so a template error still yields a
// clean 500.
func render(w http.ResponseWriter, status int, tmpl *template.Template, data any) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		log.Err(err).Str("template", tmpl.Name()).Msg("Failed to render template")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
