package server

import (
	"net/http"
	"net/url"
	"strings"
)

// sessionCookieName is the cookie that ties a browser to its workspace
const sessionCookieName = "console_session"

func (s *Server) setSessionCookie(w http.ResponseWriter, r *http.Request, sessionID string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	s.setSessionCookie(w, r, "", -1)
}

// redirectToLogin ends the browser's view of the session. Page requests are
// redirected, htmx requests get HX-Redirect and API requests get a 401 with
// the login path to navigate to.
func (s *Server) redirectToLogin(w http.ResponseWriter, r *http.Request, errorMsg string) {
	s.clearSessionCookie(w, r)

	target := RouteLogin
	if errorMsg != "" {
		target += "?error=" + url.QueryEscape(errorMsg)
	}
	if isAPIRequest(r) && !isHTMXRequest(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "session ended", "redirect": target})
		return
	}
	redirectSuccess(w, r, target)
}

// redirectSuccess helper for htmx-aware success redirects
func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMXRequest(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// redirectWithError helper for htmx-aware error redirects
func redirectWithError(w http.ResponseWriter, r *http.Request, path, errorMsg string) {
	redirectSuccess(w, r, path+"?error="+url.QueryEscape(errorMsg))
}

// isHTMXRequest checks if the request was initiated by HTMX
func isHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

func isAPIRequest(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, RouteAPIPrefix) ||
		r.URL.Path == RouteActivity ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}
