package server

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/sop-console/activity"
	"github.com/jrsteele09/sop-console/apiclient"
	"github.com/rs/zerolog/log"
)

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	AppName      string
	Error        string
	EmployeeCode string // Preserve the employee code on error
}

// LoginPageHandler displays the login page (GET /login)
func (s *Server) LoginPageHandler() http.HandlerFunc {
	loginTmpl, err := ParseTemplate("login.html")
	if err != nil {
		panic("Failed to parse login template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
			if ws, err := s.workspaces.Get(cookie.Value); err == nil && ws.Client.State() != apiclient.LoggedOut {
				redirectSuccess(w, r, RouteDashboard)
				return
			}
		}

		render(w, http.StatusOK, loginTmpl, LoginPageData{
			AppName:      s.config.GetAppName(),
			Error:        r.URL.Query().Get("error"),
			EmployeeCode: r.URL.Query().Get("manv"),
		})
	}
}

// LoginSubmissionHandler signs in against the backend and opens a workspace
// (POST /auth/login).
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		employeeCode := strings.TrimSpace(r.FormValue("manv"))
		password := r.FormValue("password")
		if employeeCode == "" || password == "" {
			s.renderLoginError(w, r, "Employee code and password are required", employeeCode)
			return
		}

		// A new login replaces whatever session this browser had.
		if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
			if old, err := s.workspaces.Get(cookie.Value); err == nil {
				old.Client.Logout(r.Context())
			}
		}

		ws := s.newWorkspace(uuid.NewString())
		session, err := ws.Client.Login(r.Context(), employeeCode, password)
		if err != nil {
			log.Warn().Err(err).Str("user", employeeCode).Msg("login failed")
			s.renderLoginError(w, r, loginFailureMessage(err), employeeCode)
			return
		}

		if err := s.workspaces.Upsert(ws); err != nil {
			log.Err(err).Msg("failed to register workspace")
			s.renderLoginError(w, r, "Could not start a session, please try again", employeeCode)
			return
		}
		ws.Monitor.Start()
		s.setSessionCookie(w, r, ws.ID, int(s.config.GetSessionTTL()/time.Second))
		s.initialiseWorkspace(r.Context(), ws, session.Roles)

		redirectSuccess(w, r, RouteDashboard)
	}
}

func loginFailureMessage(err error) string {
	if apiclient.IsKind(err, apiclient.KindNetwork) {
		return "The backend could not be reached"
	}
	if msg := apiclient.MessageOf(err); msg != "" {
		return msg
	}
	return "Invalid employee code or password"
}

// LogoutHandler ends the session at the user's request (GET /auth/logout).
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err == nil && cookie.Value != "" {
			if ws, err := s.lookupWorkspace(r.Context(), cookie.Value); err == nil {
				ws.Client.Logout(r.Context())
			}
		}
		s.clearSessionCookie(w, r)
		redirectSuccess(w, r, RouteLogin)
	}
}

type activityReport struct {
	Kind string `json:"kind"`
}

type activityResponse struct {
	Reset    bool      `json:"reset"`
	Deadline time.Time `json:"deadline,omitzero"`
}

// ActivityHandler records an in-page interaction the browser reports without
// navigating (POST /console/activity).
func (s *Server) ActivityHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := WorkspaceFrom(r.Context())
		if !ok {
			s.redirectToLogin(w, r, "")
			return
		}

		var report activityReport
		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
			if err := decodeJSON(r, &report); err != nil {
				s.writeError(w, r, err)
				return
			}
		} else {
			report.Kind = r.FormValue("kind")
		}

		kind, _ := activity.ParseKind(report.Kind)
		reset := ws.Monitor.Observe(kind)
		writeJSON(w, http.StatusOK, activityResponse{Reset: reset, Deadline: ws.Monitor.Deadline()})
	}
}

// renderLoginError redirects to login page with an error message
func (s *Server) renderLoginError(w http.ResponseWriter, r *http.Request, errorMsg, employeeCode string) {
	q := url.Values{"error": {errorMsg}}
	if employeeCode != "" {
		q.Set("manv", employeeCode)
	}
	redirectSuccess(w, r, RouteLogin+"?"+q.Encode())
}
