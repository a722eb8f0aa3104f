package server_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/sop-console/activity/clockfake"
	"github.com/jrsteele09/sop-console/internal/config"
	"github.com/jrsteele09/sop-console/server"
	"github.com/jrsteele09/sop-console/server/workspaces"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	config.EnvVars
	config.Cors
	config.Session
	config.Storage
	backend string
}

func (c testConfig) GetBackendURL() string { return c.backend }

// backend is a scripted stand-in for the REST API. Logins succeed for any
// password except "wrong"; the employee code "admin" gets the admin role.
type backend struct {
	t      *testing.T
	server *httptest.Server

	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	calls  map[string]int
}

func newBackend(t *testing.T) *backend {
	b := &backend{t: t, routes: map[string]http.HandlerFunc{}, calls: map[string]int{}}
	b.handle(http.MethodPost, "/api/auth/dangnhap", b.login)
	b.server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.server.Close)
	return b
}

func (b *backend) serve(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	b.mu.Lock()
	b.calls[key]++
	h, ok := b.routes[key]
	b.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	h(w, r)
}

func (b *backend) handle(method, path string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[method+" "+path] = h
}

func (b *backend) called(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[method+" "+path]
}

func (b *backend) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Manv     string `json:"manv"`
		Password string `json:"password"`
	}
	require.NoError(b.t, json.NewDecoder(r.Body).Decode(&in))
	if in.Password == "wrong" {
		reply(w, http.StatusUnauthorized, map[string]string{"message": "Sai mật khẩu"})
		return
	}
	roles := []string{"ROLE_USER"}
	if in.Manv == "admin" {
		roles = []string{"ROLE_ADMIN"}
	}
	reply(w, http.StatusOK, map[string]any{
		"token":        jwtExpiringIn(b.t, time.Hour),
		"refreshToken": "refresh-1",
		"profile":      map[string]any{"userID": 7, "manv": in.Manv, "fullName": "Nguyen Van An"},
		"roles":        roles,
	})
}

func reply(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func jwtExpiringIn(t *testing.T, d time.Duration) string {
	t.Helper()
	raw, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"sub": "V1234",
		"jti": uuid.NewString(),
		"exp": time.Now().Add(d).Unix(),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return raw
}

type console struct {
	t       *testing.T
	backend *backend
	clock   *clockfake.Clock
	server  *httptest.Server
	http    *http.Client
	repo    *workspaces.InMemoryRepo
}

func newConsole(t *testing.T) *console {
	b := newBackend(t)
	clk := clockfake.New(time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC))
	repo := workspaces.NewInMemoryRepo()
	s, err := server.New(testConfig{backend: b.server.URL}, server.WithClock(clk), server.WithWorkspaceRepo(repo))
	require.NoError(t, err)
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)
	return &console{
		t:       t,
		backend: b,
		clock:   clk,
		server:  ts,
		repo:    repo,
		http: &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}},
	}
}

func (c *console) do(method, path string, cookie *http.Cookie, body io.Reader, header ...string) *http.Response {
	c.t.Helper()
	req, err := http.NewRequest(method, c.server.URL+path, body)
	require.NoError(c.t, err)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	c.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (c *console) login(employeeCode, password string) *http.Response {
	form := url.Values{"manv": {employeeCode}, "password": {password}}
	return c.do(http.MethodPost, "/auth/login", nil, strings.NewReader(form.Encode()),
		"Content-Type", "application/x-www-form-urlencoded")
}

func (c *console) signIn(employeeCode string) *http.Cookie {
	c.t.Helper()
	resp := c.login(employeeCode, "secret")
	require.Equal(c.t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(c.t, "/", resp.Header.Get("Location"))
	for _, ck := range resp.Cookies() {
		if ck.Name == "console_session" && ck.Value != "" {
			return &http.Cookie{Name: ck.Name, Value: ck.Value}
		}
	}
	c.t.Fatal("login set no session cookie")
	return nil
}

func (c *console) workspaces() int {
	c.t.Helper()
	resp := c.do(http.MethodGet, "/healthz", nil, nil)
	require.Equal(c.t, http.StatusOK, resp.StatusCode)
	var health struct {
		Workspaces int `json:"workspaces"`
	}
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&health))
	return health.Workspaces
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestLoginOpensWorkspace(t *testing.T) {
	c := newConsole(t)
	require.Zero(t, c.workspaces())

	cookie := c.signIn("V1234")
	require.Equal(t, 1, c.workspaces())

	c.backend.handle(http.MethodGet, "/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "Bearer "))
		reply(w, http.StatusOK, map[string]any{
			"nguoiDung": map[string]any{"userID": 7, "manv": "V1234"},
			"quyenList": []string{"ROLE_USER"},
		})
	})
	resp := c.do(http.MethodGet, "/console/api/me", cookie, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decode(t, resp)
	require.Equal(t, []any{"ROLE_USER"}, me["roles"])
}

func TestLoginFailureKeepsBackendMessage(t *testing.T) {
	c := newConsole(t)

	resp := c.login("V1234", "wrong")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	require.Equal(t, "/login", loc.Path)
	require.Equal(t, "Sai mật khẩu", loc.Query().Get("error"))
	require.Equal(t, "V1234", loc.Query().Get("manv"))
	require.Zero(t, c.workspaces())
}

func TestLoginRequiresBothFields(t *testing.T) {
	c := newConsole(t)

	resp := c.login("", "secret")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Location"), "error=")
	require.Zero(t, c.backend.called(http.MethodPost, "/api/auth/dangnhap"))
}

func TestNoSession(t *testing.T) {
	c := newConsole(t)

	t.Run("page redirects to login", func(t *testing.T) {
		resp := c.do(http.MethodGet, "/console/sops", nil, nil)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		require.Equal(t, "/login", resp.Header.Get("Location"))
	})

	t.Run("api answers 401 with the login path", func(t *testing.T) {
		resp := c.do(http.MethodGet, "/console/api/sops", nil, nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.Equal(t, "/login", decode(t, resp)["redirect"])
	})

	t.Run("unknown cookie", func(t *testing.T) {
		resp := c.do(http.MethodGet, "/console/api/sops", &http.Cookie{Name: "console_session", Value: "nope"}, nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestAPIRelaysBackend(t *testing.T) {
	c := newConsole(t)
	cookie := c.signIn("V1234")

	c.backend.handle(http.MethodGet, "/api/sops", func(w http.ResponseWriter, _ *http.Request) {
		reply(w, http.StatusOK, []map[string]any{{"id": 1, "name": "Safety", "documentCount": 2}})
	})
	c.backend.handle(http.MethodPost, "/api/sops", func(w http.ResponseWriter, _ *http.Request) {
		reply(w, http.StatusConflict, map[string]string{"message": "Tên SOP đã tồn tại"})
	})

	resp := c.do(http.MethodGet, "/console/api/sops", cookie, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 1)
	require.Equal(t, "Safety", list[0]["name"])

	resp = c.do(http.MethodPost, "/console/api/sops", cookie, strings.NewReader(`{"name":"Safety"}`),
		"Content-Type", "application/json")
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Equal(t, "Tên SOP đã tồn tại", decode(t, resp)["error"])
	require.Equal(t, 1, c.workspaces())
}

func TestInvalidInputIsRejectedLocally(t *testing.T) {
	c := newConsole(t)
	cookie := c.signIn("V1234")

	resp := c.do(http.MethodGet, "/console/api/checklists/abc", cookie, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = c.do(http.MethodPost, "/console/api/sops", cookie, strings.NewReader(`{"name":"  "}`))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = c.do(http.MethodPost, "/console/api/improvements/3/progress", cookie, strings.NewReader(`{`))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Zero(t, c.backend.called(http.MethodPost, "/api/sops"))

	resp = c.do(http.MethodGet, "/console/api/settings/size-check", cookie, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSizeCheck(t *testing.T) {
	c := newConsole(t)
	cookie := c.signIn("V1234")
	c.backend.handle(http.MethodPost, "/api/limit-size/check-file-size", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]any
		_ = json.NewDecoder(r.Body).Decode(&in)
		reply(w, http.StatusOK, map[string]any{
			"isExceeded":      in["fileSizeInBytes"].(float64) > 10<<20,
			"fileSizeInBytes": in["fileSizeInBytes"],
			"settingName":     in["settingName"],
		})
	})

	resp := c.do(http.MethodGet, "/console/api/settings/size-check?size=20971520", cookie, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode(t, resp)
	require.Equal(t, true, got["isExceeded"])
	require.Equal(t, "FILE_UPLOAD_LIMIT", got["settingName"])
}

func TestRequireRole(t *testing.T) {
	c := newConsole(t)
	c.backend.handle(http.MethodGet, "/api/limit-size", func(w http.ResponseWriter, _ *http.Request) {
		reply(w, http.StatusOK, []map[string]any{})
	})
	c.backend.handle(http.MethodGet, "/api/limit-size/active", func(w http.ResponseWriter, _ *http.Request) {
		reply(w, http.StatusOK, []map[string]any{})
	})
	c.backend.handle(http.MethodPost, "/api/limit-size/init-default", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	user := c.signIn("V1234")
	resp := c.do(http.MethodGet, "/console/api/settings/limits", user, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Zero(t, c.backend.called(http.MethodGet, "/api/limit-size"))

	admin := c.signIn("admin")
	require.Equal(t, 1, c.backend.called(http.MethodGet, "/api/limit-size/active"))
	require.Equal(t, 1, c.backend.called(http.MethodPost, "/api/limit-size/init-default"))
	resp = c.do(http.MethodGet, "/console/api/settings/limits", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, c.backend.called(http.MethodGet, "/api/limit-size"))
}

func TestUnrecoverableAuthEndsWorkspace(t *testing.T) {
	c := newConsole(t)
	cookie := c.signIn("V1234")
	c.backend.handle(http.MethodGet, "/api/sops", func(w http.ResponseWriter, _ *http.Request) {
		reply(w, http.StatusForbidden, map[string]string{"message": "Access denied"})
	})

	resp := c.do(http.MethodGet, "/console/api/sops", cookie, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Contains(t, decode(t, resp)["redirect"], "/login")
	require.Zero(t, c.workspaces())

	resp = c.do(http.MethodGet, "/console/sops", cookie, nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.True(t, strings.HasPrefix(resp.Header.Get("Location"), "/login"))
}

func TestLogout(t *testing.T) {
	c := newConsole(t)
	cookie := c.signIn("V1234")

	resp := c.do(http.MethodGet, "/auth/logout", cookie, nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get("Location"))
	require.Zero(t, c.workspaces())
	_, err := c.repo.Get(cookie.Value)
	require.ErrorIs(t, err, workspaces.ErrNotFound)
}

func TestIdleTimeout(t *testing.T) {
	c := newConsole(t)
	cookie := c.signIn("V1234")
	c.backend.handle(http.MethodGet, "/api/sops", func(w http.ResponseWriter, _ *http.Request) {
		reply(w, http.StatusOK, []map[string]any{})
	})

	c.clock.Advance(20 * time.Minute)
	resp := c.do(http.MethodGet, "/console/api/sops", cookie, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	c.clock.Advance(20 * time.Minute)
	require.Equal(t, 1, c.workspaces(), "the request pushed the deadline out")

	c.clock.Advance(11 * time.Minute)
	require.Zero(t, c.workspaces())

	resp = c.do(http.MethodGet, "/console/api/sops", cookie, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestActivityReports(t *testing.T) {
	c := newConsole(t)
	cookie := c.signIn("V1234")

	report := func(kind string) map[string]any {
		resp := c.do(http.MethodPost, "/console/activity", cookie, strings.NewReader(`{"kind":"`+kind+`"}`),
			"Content-Type", "application/json")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		return decode(t, resp)
	}

	c.clock.Advance(25 * time.Minute)
	got := report("scroll")
	require.Equal(t, true, got["reset"])
	deadline, err := time.Parse(time.RFC3339, got["deadline"].(string))
	require.NoError(t, err)
	require.True(t, deadline.Equal(c.clock.Now().Add(30*time.Minute)))

	require.Equal(t, false, report("focus")["reset"])

	c.clock.Advance(25 * time.Minute)
	require.Equal(t, 1, c.workspaces())
}

func TestOperations(t *testing.T) {
	c := newConsole(t)
	c.signIn("V1234")

	resp := c.do(http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "console_workspaces 1")
	require.Contains(t, string(body), "go_goroutines")

	resp = c.do(http.MethodGet, "/css/console.css", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/css")

	resp = c.do(http.MethodGet, "/js/missing.js", nil, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLoginPage(t *testing.T) {
	c := newConsole(t)

	resp := c.do(http.MethodGet, "/login?error=Session+expired", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "Session expired")

	cookie := c.signIn("V1234")
	resp = c.do(http.MethodGet, "/login", cookie, nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
}
